package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"

	"slashbind/internal/adapters/discord/formatting"
	"slashbind/pkg/options"

	"github.com/bwmarrin/discordgo"
)

// ErrForbidden is returned by WithAdmin when the caller lacks Administrator.
var ErrForbidden = errors.New("administrator permission required")

func WithAdmin(next CommandHandler) CommandHandler {
	return func(s DiscordSession, i *discordgo.InteractionCreate, inv *options.Invocation) error {
		if i.Member == nil || i.Member.Permissions&discordgo.PermissionAdministrator == 0 {
			respond(s, i, formatting.MsgAdminRequired, true)
			return ErrForbidden
		}
		return next(s, i, inv)
	}
}

// WithRecover turns a handler panic into a logged error and an ephemeral reply.
func WithRecover(next CommandHandler) CommandHandler {
	return func(s DiscordSession, i *discordgo.InteractionCreate, inv *options.Invocation) (err error) {
		defer func() {
			if r := recover(); r != nil {
				slog.Error("Command handler panicked", "command", inv.FullName(), "panic", r, "stack", string(debug.Stack()))
				respond(s, i, formatting.MsgInternalError, true)
				err = fmt.Errorf("handler panic: %v", r)
			}
		}()
		return next(s, i, inv)
	}
}

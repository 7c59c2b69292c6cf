package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"slashbind/internal/adapters/discord/formatting"
	"slashbind/internal/core/domain"
	"slashbind/internal/core/services"
	"slashbind/pkg/command"
	"slashbind/pkg/derive"
	"slashbind/pkg/options"

	"github.com/bwmarrin/discordgo"
)

// BuiltinCommands is the derived surface of domain.Commands.
var BuiltinCommands = derive.MustNew[domain.Commands]()

type BotHandler struct {
	History *services.HistoryService
	Now     func() time.Time
	// Intn returns a value in [0, n); nil uses math/rand.
	Intn func(n int) int
}

func ReadyHandler(session *discordgo.Session, ready *discordgo.Ready) {
	slog.Info("Bot is online!", "user", ready.User.Username, "guilds", len(ready.Guilds))
}

// Handle binds inv to domain.Commands and runs the selected command.
func (h *BotHandler) Handle(s DiscordSession, i *discordgo.InteractionCreate, inv *options.Invocation) error {
	cmds, err := BuiltinCommands.Bind(inv)
	if err != nil {
		respond(s, i, formatting.MsgParseError(err), true)
		return fmt.Errorf("bind %s: %w", inv.FullName(), err)
	}

	switch {
	case cmds.Ping != nil:
		respond(s, i, formatting.MsgPong, false)
	case cmds.Echo != nil:
		respond(s, i, cmds.Echo.Message, false)
	case cmds.Math != nil:
		return h.math(s, i, cmds.Math)
	case cmds.Misc != nil:
		h.misc(s, i, cmds.Misc)
	case cmds.Roll != nil:
		respond(s, i, domain.FormatRoll(cmds.Roll.Sides, cmds.Roll.Throw(h.Intn)), false)
	case cmds.Whois != nil:
		h.whois(s, i, inv, cmds.Whois)
	case cmds.History != nil:
		return h.history(s, i, cmds.History)
	}
	return nil
}

func (h *BotHandler) math(s DiscordSession, i *discordgo.InteractionCreate, m *domain.Math) error {
	result, err := m.Eval()
	if errors.Is(err, domain.ErrDivisionByZero) {
		respond(s, i, formatting.MsgDivisionByZero, true)
		return nil
	}
	if err != nil {
		respond(s, i, formatting.MsgInternalError, true)
		return fmt.Errorf("evaluate math: %w", err)
	}
	respond(s, i, result, false)
	return nil
}

func (h *BotHandler) misc(s DiscordSession, i *discordgo.InteractionCreate, m *domain.Misc) {
	switch {
	case m.Time != nil:
		respond(s, i, formatting.MsgCurrentTime(h.now()), false)
	case m.OneOrTwo != nil:
		respond(s, i, m.OneOrTwo.String(), false)
	}
}

func (h *BotHandler) whois(s DiscordSession, i *discordgo.InteractionCreate, inv *options.Invocation, w *domain.Whois) {
	user := inv.User("user")
	if user == nil {
		var err error
		if user, err = s.User(string(w.User)); err != nil {
			slog.Warn("Failed to fetch user", "user_id", w.User, "error", err)
			respond(s, i, formatting.MsgUserNotFound, true)
			return
		}
	}

	created, err := discordgo.SnowflakeTimestamp(user.ID)
	if err != nil {
		respond(s, i, formatting.MsgUserNotFound, true)
		return
	}
	respond(s, i, formatting.MsgWhois(user.Username, user.ID, created, user.Bot), false)
}

func (h *BotHandler) history(s DiscordSession, i *discordgo.InteractionCreate, hist *domain.History) error {
	limit := 0
	if hist.Limit != nil {
		limit = *hist.Limit
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	entries, err := h.History.Recent(ctx, i.GuildID, limit)
	if err != nil {
		respond(s, i, formatting.MsgHistoryError, true)
		return fmt.Errorf("load history for guild %s: %w", i.GuildID, err)
	}
	respond(s, i, formatting.MsgHistory(entries), true)
	return nil
}

// EchoAutocomplete suggests messages previously echoed in the guild that contain the
// text typed so far.
func (h *BotHandler) EchoAutocomplete(ctx context.Context, i *discordgo.InteractionCreate, inv *options.Invocation) []*discordgo.ApplicationCommandOptionChoice {
	entries, err := h.History.Recent(ctx, i.GuildID, 0)
	if err != nil {
		slog.Error("Failed to fetch history for autocomplete", "error", err)
		return nil
	}

	query := strings.ToLower(inv.FocusedValue())
	seen := make(map[string]bool)
	var choices []*discordgo.ApplicationCommandOptionChoice
	for _, e := range entries {
		msg, _ := e.Options["message"].(string)
		if e.Command != "echo" || msg == "" || seen[msg] || !strings.Contains(strings.ToLower(msg), query) {
			continue
		}
		// Discord rejects the whole answer if one value is too long.
		if utf8.RuneCountInString(msg) > command.MaxChoiceValueLength {
			continue
		}
		seen[msg] = true
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  msg,
			Value: msg,
		})
		if len(choices) >= maxAutocompleteChoices {
			break
		}
	}
	return choices
}

func (h *BotHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

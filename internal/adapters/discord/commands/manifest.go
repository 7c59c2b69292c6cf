package commands

import (
	"fmt"

	"slashbind/internal/adapters/discord/formatting"
	"slashbind/pkg/manifest"
	"slashbind/pkg/options"

	"github.com/bwmarrin/discordgo"
)

// ManifestHandler answers manifest-declared commands with their rendered response.
type ManifestHandler struct {
	Manifest *manifest.Manifest
}

func (h *ManifestHandler) Handle(s DiscordSession, i *discordgo.InteractionCreate, inv *options.Invocation) error {
	cmd, ok := h.Manifest.Lookup(inv.Command)
	if !ok {
		respond(s, i, formatting.MsgUnknownCommand, true)
		return fmt.Errorf("manifest has no command %q", inv.Command)
	}

	out, err := cmd.Render(inv)
	if err != nil {
		respond(s, i, formatting.MsgInternalError, true)
		return err
	}
	respond(s, i, out, false)
	return nil
}

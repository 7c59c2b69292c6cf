package discord

import (
	"log/slog"

	"slashbind/internal/config"

	"github.com/bwmarrin/discordgo"
)

// NewSession creates a gateway session. Slash commands arrive as interactions, so only
// the guilds intent is requested.
func NewSession(cfg *config.Config) (*discordgo.Session, error) {
	discord, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		slog.Error("Failed to create discord session", "error", err)
		return nil, err
	}

	discord.Identify.Intents = discordgo.IntentsGuilds

	return discord, nil
}

package commands

import (
	"log/slog"

	"slashbind/internal/metrics"

	"github.com/bwmarrin/discordgo"
)

// RegisterCommands replaces the application's commands in one bulk request. When that
// fails it falls back to creating the commands one by one, skipping any Discord rejects.
func RegisterCommands(session CommandSession, commands []*discordgo.ApplicationCommand, appID, guildID string) []*discordgo.ApplicationCommand {
	registered, err := session.ApplicationCommandBulkOverwrite(appID, guildID, commands)
	if err == nil {
		for _, cmd := range registered {
			slog.Info("Registered command", "name", cmd.Name, "guild", guildID)
		}
		metrics.CommandsRegistered.Set(float64(len(registered)))
		return registered
	}
	slog.Warn("Bulk command registration failed, registering one by one", "error", err)

	registered = make([]*discordgo.ApplicationCommand, 0, len(commands))
	for _, cmd := range commands {
		result, err := session.ApplicationCommandCreate(appID, guildID, cmd)
		if err != nil {
			slog.Error("Cannot create command", "name", cmd.Name, "error", err)
			continue
		}
		registered = append(registered, result)
		slog.Info("Registered command", "name", cmd.Name, "guild", guildID)
	}

	metrics.CommandsRegistered.Set(float64(len(registered)))
	return registered
}

func CleanupCommands(session CommandSession, commands []*discordgo.ApplicationCommand, appID, guildID string) {
	for _, cmd := range commands {
		if cmd == nil {
			continue
		}
		if err := session.ApplicationCommandDelete(appID, guildID, cmd.ID); err != nil {
			slog.Error("Cannot delete command", "name", cmd.Name, "error", err)
			continue
		}
		metrics.CommandsRegistered.Dec()
	}
}

package commands

import (
	"log/slog"

	"slashbind/internal/metrics"

	"github.com/bwmarrin/discordgo"
)

// maxAutocompleteChoices is Discord's limit per autocomplete answer.
const maxAutocompleteChoices = 25

func respond(s DiscordSession, i *discordgo.InteractionCreate, msg string, ephemeral bool) {
	var flags discordgo.MessageFlags
	if ephemeral {
		flags = discordgo.MessageFlagsEphemeral
	}

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: msg,
			Flags:   flags,
			// Echoed text must not ping anyone.
			AllowedMentions: &discordgo.MessageAllowedMentions{},
		},
	})
	observeResponse("message", err)
}

func respondAutocomplete(s DiscordSession, i *discordgo.InteractionCreate, choices []*discordgo.ApplicationCommandOptionChoice) error {
	if len(choices) > maxAutocompleteChoices {
		choices = choices[:maxAutocompleteChoices]
	}
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionApplicationCommandAutocompleteResult,
		Data: &discordgo.InteractionResponseData{
			Choices: choices,
		},
	})
	observeResponse("autocomplete", err)
	return err
}

func observeResponse(kind string, err error) {
	if err != nil {
		slog.Error("Failed to respond to interaction", "type", kind, "error", err)
		metrics.DiscordResponses.WithLabelValues(kind, "failure").Inc()
		return
	}
	metrics.DiscordResponses.WithLabelValues(kind, "success").Inc()
}

// invokingUser returns the user behind an interaction, in a guild or a DM.
func invokingUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}

func invokingUserID(i *discordgo.InteractionCreate) string {
	if u := invokingUser(i); u != nil {
		return u.ID
	}
	return ""
}

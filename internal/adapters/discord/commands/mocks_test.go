package commands

import (
	"context"
	"errors"

	"slashbind/internal/core/domain"

	"github.com/bwmarrin/discordgo"
)

type mockDiscordSession struct {
	interactionRespondFunc func(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse) error
	userFunc               func(userID string) (*discordgo.User, error)

	lastInteractionResponse *discordgo.InteractionResponse
	responses               int
}

func (m *mockDiscordSession) InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, opts ...discordgo.RequestOption) error {
	m.lastInteractionResponse = resp
	m.responses++
	if m.interactionRespondFunc != nil {
		return m.interactionRespondFunc(interaction, resp)
	}
	return nil
}

func (m *mockDiscordSession) User(userID string, opts ...discordgo.RequestOption) (*discordgo.User, error) {
	if m.userFunc != nil {
		return m.userFunc(userID)
	}
	return nil, errors.New("unknown user")
}

func (m *mockDiscordSession) content() string {
	if m.lastInteractionResponse == nil || m.lastInteractionResponse.Data == nil {
		return ""
	}
	return m.lastInteractionResponse.Data.Content
}

func (m *mockDiscordSession) ephemeral() bool {
	return m.lastInteractionResponse != nil &&
		m.lastInteractionResponse.Data != nil &&
		m.lastInteractionResponse.Data.Flags&discordgo.MessageFlagsEphemeral != 0
}

type mockCommandSession struct {
	bulkFunc   func(appID, guildID string, cmds []*discordgo.ApplicationCommand) ([]*discordgo.ApplicationCommand, error)
	createFunc func(appID, guildID string, cmd *discordgo.ApplicationCommand) (*discordgo.ApplicationCommand, error)
	deleteFunc func(appID, guildID, cmdID string) error
}

func (m *mockCommandSession) ApplicationCommandBulkOverwrite(appID, guildID string, cmds []*discordgo.ApplicationCommand, opts ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error) {
	if m.bulkFunc != nil {
		return m.bulkFunc(appID, guildID, cmds)
	}
	out := make([]*discordgo.ApplicationCommand, len(cmds))
	for i, cmd := range cmds {
		out[i] = &discordgo.ApplicationCommand{ID: "id-" + cmd.Name, Name: cmd.Name}
	}
	return out, nil
}

func (m *mockCommandSession) ApplicationCommandCreate(appID, guildID string, cmd *discordgo.ApplicationCommand, opts ...discordgo.RequestOption) (*discordgo.ApplicationCommand, error) {
	if m.createFunc != nil {
		return m.createFunc(appID, guildID, cmd)
	}
	return &discordgo.ApplicationCommand{ID: "id-" + cmd.Name, Name: cmd.Name}, nil
}

func (m *mockCommandSession) ApplicationCommandDelete(appID, guildID, cmdID string, opts ...discordgo.RequestOption) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(appID, guildID, cmdID)
	}
	return nil
}

type mockRecorder struct {
	recordFunc func(ctx context.Context, inv domain.Invocation) error
	records    []domain.Invocation
}

func (m *mockRecorder) Record(ctx context.Context, inv domain.Invocation) (domain.Invocation, error) {
	m.records = append(m.records, inv)
	if m.recordFunc != nil {
		return inv, m.recordFunc(ctx, inv)
	}
	return inv, nil
}

func interactionWithPermissions(perms int64) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{
			Type:    discordgo.InteractionApplicationCommand,
			GuildID: "guild-1",
			Member: &discordgo.Member{
				User:        &discordgo.User{ID: "user-1"},
				Permissions: perms,
			},
		},
	}
}

func commandInteraction(name string, opts ...*discordgo.ApplicationCommandInteractionDataOption) *discordgo.InteractionCreate {
	i := interactionWithPermissions(discordgo.PermissionAdministrator)
	i.ChannelID = "channel-1"
	i.Data = discordgo.ApplicationCommandInteractionData{
		Name:        name,
		CommandType: discordgo.ChatApplicationCommand,
		Options:     opts,
	}
	return i
}

func autocompleteInteraction(name string, opts ...*discordgo.ApplicationCommandInteractionDataOption) *discordgo.InteractionCreate {
	i := commandInteraction(name, opts...)
	i.Type = discordgo.InteractionApplicationCommandAutocomplete
	return i
}

func stringOpt(name, value string) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{Name: name, Type: discordgo.ApplicationCommandOptionString, Value: value}
}

func numberOpt(name string, value float64) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{Name: name, Type: discordgo.ApplicationCommandOptionNumber, Value: value}
}

func integerOpt(name string, value float64) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{Name: name, Type: discordgo.ApplicationCommandOptionInteger, Value: value}
}

func subCommandOpt(name string, opts ...*discordgo.ApplicationCommandInteractionDataOption) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{Name: name, Type: discordgo.ApplicationCommandOptionSubCommand, Options: opts}
}

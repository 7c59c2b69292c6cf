package command

import "github.com/bwmarrin/discordgo"

// Kind classifies a Node. Nested kinds carry children, scalar kinds are leaf options.
type Kind int

const (
	KindCommand Kind = iota
	KindSubCommandGroup
	KindSubCommand
	KindString
	KindInteger
	KindNumber
	KindBoolean
	KindUser
	KindChannel
	KindRole
	KindMentionable
	KindAttachment
)

var kindNames = map[Kind]string{
	KindCommand:         "command",
	KindSubCommandGroup: "sub_command_group",
	KindSubCommand:      "sub_command",
	KindString:          "string",
	KindInteger:         "integer",
	KindNumber:          "number",
	KindBoolean:         "boolean",
	KindUser:            "user",
	KindChannel:         "channel",
	KindRole:            "role",
	KindMentionable:     "mentionable",
	KindAttachment:      "attachment",
}

var optionTypes = map[Kind]discordgo.ApplicationCommandOptionType{
	KindSubCommandGroup: discordgo.ApplicationCommandOptionSubCommandGroup,
	KindSubCommand:      discordgo.ApplicationCommandOptionSubCommand,
	KindString:          discordgo.ApplicationCommandOptionString,
	KindInteger:         discordgo.ApplicationCommandOptionInteger,
	KindNumber:          discordgo.ApplicationCommandOptionNumber,
	KindBoolean:         discordgo.ApplicationCommandOptionBoolean,
	KindUser:            discordgo.ApplicationCommandOptionUser,
	KindChannel:         discordgo.ApplicationCommandOptionChannel,
	KindRole:            discordgo.ApplicationCommandOptionRole,
	KindMentionable:     discordgo.ApplicationCommandOptionMentionable,
	KindAttachment:      discordgo.ApplicationCommandOptionAttachment,
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// IsScalar reports whether k is a leaf option kind.
func (k Kind) IsScalar() bool {
	return k >= KindString && k <= KindAttachment
}

// IsNested reports whether k is a sub-command or sub-command group.
func (k Kind) IsNested() bool {
	return k == KindSubCommand || k == KindSubCommandGroup
}

// OptionType returns the discordgo option type for k. KindCommand has none and maps to 0.
func (k Kind) OptionType() discordgo.ApplicationCommandOptionType {
	return optionTypes[k]
}

// KindFromOptionType maps a discordgo option type back to a Kind.
func KindFromOptionType(t discordgo.ApplicationCommandOptionType) (Kind, bool) {
	for k, ot := range optionTypes {
		if ot == t {
			return k, true
		}
	}
	return 0, false
}

// ParseKind resolves a kind by its String form.
func ParseKind(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return k, true
		}
	}
	return 0, false
}

var channelTypeNames = map[string][]discordgo.ChannelType{
	"text":     {discordgo.ChannelTypeGuildText},
	"voice":    {discordgo.ChannelTypeGuildVoice},
	"category": {discordgo.ChannelTypeGuildCategory},
	"news":     {discordgo.ChannelTypeGuildNews},
	"stage":    {discordgo.ChannelTypeGuildStageVoice},
	"forum":    {discordgo.ChannelTypeGuildForum},
	"thread":   {discordgo.ChannelTypeGuildPublicThread, discordgo.ChannelTypeGuildPrivateThread, discordgo.ChannelTypeGuildNewsThread},
}

// ParseChannelTypes resolves a short channel type name ("text", "voice", "thread", ...)
// to the discordgo channel types it allows.
func ParseChannelTypes(name string) ([]discordgo.ChannelType, bool) {
	types, ok := channelTypeNames[name]
	if !ok {
		return nil, false
	}
	return append([]discordgo.ChannelType(nil), types...), true
}

package options

import (
	"strings"

	"slashbind/pkg/command"

	"github.com/bwmarrin/discordgo"
)

// Invocation is the parsed form of one chat-input interaction.
type Invocation struct {
	// Command is the top-level command name.
	Command string
	// Path lists every selected node below the command, e.g. ["math", "add"].
	Path []string
	// Node is the command or sub-command whose options were parsed.
	Node *command.Node
	// Options holds the provided options keyed by name. Absent optional options are missing.
	Options map[string]Value
	// Resolved carries the users, roles, channels and attachments referenced by ID.
	Resolved *discordgo.ApplicationCommandInteractionDataResolved
	// Focused names the option being typed in an autocomplete interaction.
	Focused string
}

// FullName joins the command and the selected path: "math add".
func (inv *Invocation) FullName() string {
	return strings.Join(append([]string{inv.Command}, inv.Path...), " ")
}

func (inv *Invocation) Has(name string) bool {
	_, ok := inv.Options[name]
	return ok
}

func (inv *Invocation) Get(name string) (any, bool) {
	v, ok := inv.Options[name]
	if !ok {
		return nil, false
	}
	return v.Value, true
}

func (inv *Invocation) String(name string) string {
	v, _ := inv.Get(name)
	switch s := v.(type) {
	case string:
		return s
	case UserID:
		return string(s)
	case ChannelID:
		return string(s)
	case RoleID:
		return string(s)
	case MentionableID:
		return string(s)
	case AttachmentID:
		return string(s)
	}
	return ""
}

func (inv *Invocation) Int(name string) int64 {
	v, _ := inv.Get(name)
	i, _ := v.(int64)
	return i
}

func (inv *Invocation) Float(name string) float64 {
	v, _ := inv.Get(name)
	switch f := v.(type) {
	case float64:
		return f
	case int64:
		return float64(f)
	}
	return 0
}

func (inv *Invocation) Bool(name string) bool {
	v, _ := inv.Get(name)
	b, _ := v.(bool)
	return b
}

// FocusedValue returns the partial input of the focused option.
func (inv *Invocation) FocusedValue() string {
	if inv.Focused == "" {
		return ""
	}
	return inv.String(inv.Focused)
}

// User returns the resolved user behind a user or mentionable option.
func (inv *Invocation) User(name string) *discordgo.User {
	id := inv.String(name)
	if id == "" || inv.Resolved == nil {
		return nil
	}
	return inv.Resolved.Users[id]
}

func (inv *Invocation) Role(name string) *discordgo.Role {
	id := inv.String(name)
	if id == "" || inv.Resolved == nil {
		return nil
	}
	return inv.Resolved.Roles[id]
}

func (inv *Invocation) Channel(name string) *discordgo.Channel {
	id := inv.String(name)
	if id == "" || inv.Resolved == nil {
		return nil
	}
	return inv.Resolved.Channels[id]
}

func (inv *Invocation) Attachment(name string) *discordgo.MessageAttachment {
	id := inv.String(name)
	if id == "" || inv.Resolved == nil {
		return nil
	}
	return inv.Resolved.Attachments[id]
}

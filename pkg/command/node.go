// Package command holds the canonical description of a slash-command surface and
// turns it into the registration descriptors discordgo submits to Discord.
//
// A Node tree is built once, validated, and then treated as read-only. Nodes are
// usually produced by the derive or manifest packages, but literal trees work too:
//
//	echo := &command.Node{
//	    Name:        "echo",
//	    Description: "Echo a message.",
//	    Kind:        command.KindCommand,
//	    Children: []*command.Node{
//	        {Name: "message", Description: "The message to echo.", Kind: command.KindString, Required: true},
//	    },
//	}
package command

import "github.com/bwmarrin/discordgo"

// Choice is a fixed value offered for a string, integer or number option.
// Value is a string, int64 or float64 matching the option kind.
type Choice struct {
	Name              string
	Value             any
	NameLocalizations map[discordgo.Locale]string
}

// Node describes one command, sub-command group, sub-command or option.
type Node struct {
	Name        string
	Description string
	Kind        Kind
	Required    bool

	Autocomplete bool
	Choices      []Choice
	MinValue     *float64
	MaxValue     *float64
	MinLength    *int
	MaxLength    *int
	ChannelTypes []discordgo.ChannelType

	NameLocalizations        map[discordgo.Locale]string
	DescriptionLocalizations map[discordgo.Locale]string

	// Only meaningful on KindCommand.
	DefaultMemberPermissions *int64
	NSFW                     bool

	Children []*Node
}

// Child returns the direct child with the given name.
func (n *Node) Child(name string) (*Node, bool) {
	for _, c := range n.Children {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// IsSelector reports whether the node's children are sub-commands or groups, meaning
// an invocation must pick exactly one of them.
func (n *Node) IsSelector() bool {
	if n.Kind == KindSubCommandGroup {
		return true
	}
	return n.Kind == KindCommand && len(n.Children) > 0 && n.Children[0].Kind.IsNested()
}

// ApplicationCommand emits the chat-input command descriptor for a KindCommand node.
func (n *Node) ApplicationCommand() *discordgo.ApplicationCommand {
	cmd := &discordgo.ApplicationCommand{
		Type:                     discordgo.ChatApplicationCommand,
		Name:                     n.Name,
		Description:              n.Description,
		DefaultMemberPermissions: n.DefaultMemberPermissions,
		Options:                  emitOptions(n.Children),
	}
	if len(n.NameLocalizations) > 0 {
		loc := copyLocalizations(n.NameLocalizations)
		cmd.NameLocalizations = &loc
	}
	if len(n.DescriptionLocalizations) > 0 {
		loc := copyLocalizations(n.DescriptionLocalizations)
		cmd.DescriptionLocalizations = &loc
	}
	if n.NSFW {
		nsfw := true
		cmd.NSFW = &nsfw
	}
	return cmd
}

// Option emits the option descriptor for any non-command node.
func (n *Node) Option() *discordgo.ApplicationCommandOption {
	opt := &discordgo.ApplicationCommandOption{
		Type:                     n.Kind.OptionType(),
		Name:                     n.Name,
		Description:              n.Description,
		NameLocalizations:        copyLocalizations(n.NameLocalizations),
		DescriptionLocalizations: copyLocalizations(n.DescriptionLocalizations),
		Autocomplete:             n.Autocomplete,
		Options:                  emitOptions(n.Children),
	}

	if n.Kind.IsScalar() {
		opt.Required = n.Required
	}
	if len(n.ChannelTypes) > 0 {
		opt.ChannelTypes = append([]discordgo.ChannelType(nil), n.ChannelTypes...)
	}
	if n.MinValue != nil {
		v := *n.MinValue
		opt.MinValue = &v
	}
	if n.MaxValue != nil {
		opt.MaxValue = *n.MaxValue
	}
	if n.MinLength != nil {
		v := *n.MinLength
		opt.MinLength = &v
	}
	if n.MaxLength != nil {
		opt.MaxLength = *n.MaxLength
	}
	for _, c := range n.Choices {
		opt.Choices = append(opt.Choices, &discordgo.ApplicationCommandOptionChoice{
			Name:              c.Name,
			NameLocalizations: copyLocalizations(c.NameLocalizations),
			Value:             c.Value,
		})
	}

	return opt
}

func emitOptions(children []*Node) []*discordgo.ApplicationCommandOption {
	if len(children) == 0 {
		return nil
	}
	opts := make([]*discordgo.ApplicationCommandOption, len(children))
	for i, c := range children {
		opts[i] = c.Option()
	}
	return opts
}

func copyLocalizations(src map[discordgo.Locale]string) map[discordgo.Locale]string {
	if len(src) == 0 {
		return nil
	}
	dst := make(map[discordgo.Locale]string, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

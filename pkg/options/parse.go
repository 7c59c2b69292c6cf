// Package options parses interaction payloads against registered command trees.
//
// Parsing is a pure function of the node tree and the payload: it performs no I/O,
// holds no locks of its own and can be called from any number of goroutines. The
// first failure ends the walk and is returned as a *ParseError.
package options

import (
	"fmt"
	"slices"

	"slashbind/pkg/command"

	"github.com/bwmarrin/discordgo"
)

// Lookup resolves top-level commands by name. *command.Registry implements it.
type Lookup interface {
	Lookup(name string) (*command.Node, bool)
}

type mode int

const (
	strict mode = iota
	autocomplete
)

// Parse maps a chat-input interaction onto the registered command it names.
func Parse(reg Lookup, data discordgo.ApplicationCommandInteractionData) (*Invocation, error) {
	return parse(reg, data, strict)
}

// ParseAutocomplete parses a partially filled interaction. Missing required options
// are tolerated, choices are not enforced and the focused option keeps the raw
// text the user has typed so far.
func ParseAutocomplete(reg Lookup, data discordgo.ApplicationCommandInteractionData) (*Invocation, error) {
	return parse(reg, data, autocomplete)
}

// ParseNode parses options against a single command node without a registry.
func ParseNode(node *command.Node, opts []*discordgo.ApplicationCommandInteractionDataOption) (*Invocation, error) {
	inv := &Invocation{Command: node.Name}
	if err := strict.walk(node, opts, nil, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

func parse(reg Lookup, data discordgo.ApplicationCommandInteractionData, m mode) (*Invocation, error) {
	node, ok := reg.Lookup(data.Name)
	if !ok {
		return nil, parseErr(ErrUnknownVariant, data.Name, nil)
	}

	inv := &Invocation{
		Command:  data.Name,
		Resolved: data.Resolved,
	}
	if err := m.walk(node, data.Options, nil, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

func (m mode) walk(node *command.Node, opts []*discordgo.ApplicationCommandInteractionDataOption, path []string, inv *Invocation) error {
	if node.IsSelector() {
		return m.selectVariant(node, opts, path, inv)
	}
	return m.fill(node, opts, path, inv)
}

func (m mode) selectVariant(node *command.Node, opts []*discordgo.ApplicationCommandInteractionDataOption, path []string, inv *Invocation) error {
	opts = compact(opts)

	switch {
	case len(opts) == 0:
		e := parseErr(ErrMalformedNesting, node.Name, path)
		e.Expected = "a sub-command"
		e.Actual = "nothing"
		return e
	case len(opts) > 1:
		names := make([]string, len(opts))
		for i, o := range opts {
			names[i] = o.Name
		}
		slices.Sort(names)
		e := parseErr(ErrAmbiguousSelection, node.Name, path)
		e.Expected = "one sub-command"
		e.Actual = fmt.Sprintf("%v", names)
		return e
	}

	selected := opts[0]
	child, ok := node.Child(selected.Name)
	if !ok {
		return parseErr(ErrUnknownVariant, selected.Name, path)
	}
	if selected.Type != 0 && selected.Type != child.Kind.OptionType() {
		e := parseErr(ErrMalformedNesting, selected.Name, path)
		e.Expected = child.Kind.String()
		e.Actual = optionTypeName(selected.Type)
		return e
	}

	path = append(slices.Clone(path), child.Name)
	inv.Path = path
	return m.walk(child, selected.Options, path, inv)
}

func (m mode) fill(node *command.Node, opts []*discordgo.ApplicationCommandInteractionDataOption, path []string, inv *Invocation) error {
	given := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(opts))
	var unknown []string

	for _, o := range compact(opts) {
		if _, dup := given[o.Name]; dup {
			return parseErr(ErrMalformedNesting, o.Name, path)
		}
		child, ok := node.Child(o.Name)
		if !ok {
			unknown = append(unknown, o.Name)
			continue
		}
		if len(o.Options) > 0 || o.Type == discordgo.ApplicationCommandOptionSubCommand ||
			o.Type == discordgo.ApplicationCommandOptionSubCommandGroup {
			e := parseErr(ErrMalformedNesting, o.Name, path)
			e.Expected = child.Kind.String()
			e.Actual = optionTypeName(o.Type)
			return e
		}
		given[o.Name] = o
	}

	if len(unknown) > 0 {
		slices.Sort(unknown)
		return parseErr(ErrUnknownOption, unknown[0], path)
	}

	inv.Node = node
	inv.Options = make(map[string]Value, len(given))

	for _, child := range node.Children {
		o, ok := given[child.Name]
		if !ok || o.Value == nil {
			if child.Required && m == strict {
				return parseErr(ErrMissingRequiredOption, child.Name, path)
			}
			continue
		}

		if m == autocomplete && o.Focused {
			inv.Focused = child.Name
			inv.Options[child.Name] = Value{Name: child.Name, Kind: child.Kind, Value: partial(o.Value)}
			continue
		}

		if o.Type != 0 && o.Type != child.Kind.OptionType() {
			return mismatch(child.Name, path, child.Kind.String(), optionTypeName(o.Type))
		}

		v, ok := convert(child.Kind, o.Value)
		if !ok {
			return mismatch(child.Name, path, child.Kind.String(), describe(o.Value))
		}

		if m == strict && len(child.Choices) > 0 && !hasChoice(child.Choices, v) {
			e := parseErr(ErrUnknownChoice, child.Name, path)
			e.Expected = "one of the declared choices"
			e.Actual = fmt.Sprintf("%v", v)
			return e
		}

		inv.Options[child.Name] = Value{Name: child.Name, Kind: child.Kind, Value: v}
	}

	return nil
}

func compact(opts []*discordgo.ApplicationCommandInteractionDataOption) []*discordgo.ApplicationCommandInteractionDataOption {
	out := make([]*discordgo.ApplicationCommandInteractionDataOption, 0, len(opts))
	for _, o := range opts {
		if o != nil {
			out = append(out, o)
		}
	}
	return out
}

func hasChoice(choices []command.Choice, v any) bool {
	for _, c := range choices {
		if c.Value == v {
			return true
		}
	}
	return false
}

func partial(raw any) string {
	if s, ok := raw.(string); ok {
		return s
	}
	return fmt.Sprint(raw)
}

func optionTypeName(t discordgo.ApplicationCommandOptionType) string {
	if k, ok := command.KindFromOptionType(t); ok {
		return k.String()
	}
	return fmt.Sprintf("option type %d", int(t))
}

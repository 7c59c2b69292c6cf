// Package manifest declares slash commands in a YAML or TOML file instead of Go types.
//
// A manifest lists commands with their options using the same vocabulary Discord does:
//
//	commands:
//	  - name: greet
//	    description: Say hello.
//	    response: "Hello {{.Options.who}}!"
//	    options:
//	      - name: who
//	        description: Who to greet.
//	        type: user
//	        required: true
//
// Nodes converts the file into validated command.Node trees; Render produces the canned
// reply for an invocation of a manifest command.
package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"slashbind/pkg/command"

	"github.com/bwmarrin/discordgo"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format selects the decoder for a manifest.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

var (
	ErrUnknownFormat   = errors.New("unknown manifest format")
	ErrUnknownLocale   = errors.New("unknown locale")
	ErrInvalidResponse = errors.New("invalid response template")
)

type Manifest struct {
	Commands []Command `yaml:"commands" toml:"commands"`
}

type Command struct {
	Name                     string            `yaml:"name" toml:"name"`
	Description              string            `yaml:"description" toml:"description"`
	NameLocalizations        map[string]string `yaml:"name_localizations" toml:"name_localizations"`
	DescriptionLocalizations map[string]string `yaml:"description_localizations" toml:"description_localizations"`
	DefaultMemberPermissions *int64            `yaml:"default_member_permissions" toml:"default_member_permissions"`
	NSFW                     bool              `yaml:"nsfw" toml:"nsfw"`
	// Response is a text/template body rendered with the parsed options.
	Response string   `yaml:"response" toml:"response"`
	Options  []Option `yaml:"options" toml:"options"`
}

// Option is an option, sub-command or sub-command group, depending on Type.
type Option struct {
	Name                     string            `yaml:"name" toml:"name"`
	Description              string            `yaml:"description" toml:"description"`
	Type                     string            `yaml:"type" toml:"type"`
	Required                 bool              `yaml:"required" toml:"required"`
	Autocomplete             bool              `yaml:"autocomplete" toml:"autocomplete"`
	Choices                  []Choice          `yaml:"choices" toml:"choices"`
	MinValue                 *float64          `yaml:"min_value" toml:"min_value"`
	MaxValue                 *float64          `yaml:"max_value" toml:"max_value"`
	MinLength                *int              `yaml:"min_length" toml:"min_length"`
	MaxLength                *int              `yaml:"max_length" toml:"max_length"`
	ChannelTypes             []string          `yaml:"channel_types" toml:"channel_types"`
	NameLocalizations        map[string]string `yaml:"name_localizations" toml:"name_localizations"`
	DescriptionLocalizations map[string]string `yaml:"description_localizations" toml:"description_localizations"`
	// Response overrides the command's response when this sub-command is selected.
	Response string   `yaml:"response" toml:"response"`
	Options  []Option `yaml:"options" toml:"options"`
}

type Choice struct {
	Name              string            `yaml:"name" toml:"name"`
	Value             any               `yaml:"value" toml:"value"`
	NameLocalizations map[string]string `yaml:"name_localizations" toml:"name_localizations"`
}

// Load reads a manifest, choosing the decoder from the file extension.
func Load(path string) (*Manifest, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	m, err := Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// FormatFromPath maps .yaml, .yml and .toml to a Format.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
}

// Decode parses manifest data. Unknown keys are rejected so typos surface early.
func Decode(data []byte, format Format) (*Manifest, error) {
	var m Manifest

	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&m); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decode yaml manifest: %w", err)
		}
	case FormatTOML:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&m); err != nil {
			return nil, fmt.Errorf("decode toml manifest: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	return &m, nil
}

// Nodes converts the manifest into command trees and validates them as a set.
// Every problem found is reported, each tagged with its manifest path.
func (m *Manifest) Nodes() ([]*command.Node, error) {
	var errs []error
	nodes := make([]*command.Node, 0, len(m.Commands))

	for i := range m.Commands {
		node, err := m.Commands[i].node()
		if err != nil {
			errs = append(errs, err)
			continue
		}
		nodes = append(nodes, node)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	if err := command.NewRegistry().Register(nodes...); err != nil {
		return nil, err
	}
	return nodes, nil
}

// Lookup returns the manifest command with the given name.
func (m *Manifest) Lookup(name string) (*Command, bool) {
	for i := range m.Commands {
		if m.Commands[i].Name == name {
			return &m.Commands[i], true
		}
	}
	return nil, false
}

func (c *Command) node() (*command.Node, error) {
	var errs []error

	node := &command.Node{
		Name:                     c.Name,
		Description:              c.Description,
		Kind:                     command.KindCommand,
		DefaultMemberPermissions: c.DefaultMemberPermissions,
		NSFW:                     c.NSFW,
	}

	var err error
	if node.NameLocalizations, err = locales(c.Name, c.NameLocalizations); err != nil {
		errs = append(errs, err)
	}
	if node.DescriptionLocalizations, err = locales(c.Name, c.DescriptionLocalizations); err != nil {
		errs = append(errs, err)
	}
	if err := checkTemplate(c.Name, c.Response); err != nil {
		errs = append(errs, err)
	}

	for i := range c.Options {
		child, err := c.Options[i].node(c.Name)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		node.Children = append(node.Children, child)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return node, nil
}

func (o *Option) node(parent string) (*command.Node, error) {
	path := parent + "." + o.Name
	var errs []error

	kind, ok := command.ParseKind(o.Type)
	if !ok || kind == command.KindCommand {
		return nil, &command.DefinitionError{Path: path, Err: command.ErrUnsupportedType, Detail: fmt.Sprintf("type %q", o.Type)}
	}

	node := &command.Node{
		Name:         o.Name,
		Description:  o.Description,
		Kind:         kind,
		Required:     o.Required,
		Autocomplete: o.Autocomplete,
		MinValue:     o.MinValue,
		MaxValue:     o.MaxValue,
		MinLength:    o.MinLength,
		MaxLength:    o.MaxLength,
	}

	var err error
	if node.NameLocalizations, err = locales(path, o.NameLocalizations); err != nil {
		errs = append(errs, err)
	}
	if node.DescriptionLocalizations, err = locales(path, o.DescriptionLocalizations); err != nil {
		errs = append(errs, err)
	}

	for _, name := range o.ChannelTypes {
		types, ok := command.ParseChannelTypes(name)
		if !ok {
			errs = append(errs, &command.DefinitionError{Path: path, Err: command.ErrInvalidConstraint, Detail: fmt.Sprintf("unknown channel type %q", name)})
			continue
		}
		node.ChannelTypes = append(node.ChannelTypes, types...)
	}

	for _, c := range o.Choices {
		value, err := choiceValue(kind, c.Value)
		if err != nil {
			errs = append(errs, &command.DefinitionError{Path: path, Err: command.ErrInvalidChoice, Detail: fmt.Sprintf("%q: %v", c.Name, err)})
			continue
		}
		names, err := locales(path, c.NameLocalizations)
		if err != nil {
			errs = append(errs, err)
		}
		node.Choices = append(node.Choices, command.Choice{Name: c.Name, Value: value, NameLocalizations: names})
	}

	if o.Response != "" {
		if kind != command.KindSubCommand {
			errs = append(errs, &command.DefinitionError{Path: path, Err: ErrInvalidResponse, Detail: "only sub-commands carry a response"})
		} else if err := checkTemplate(path, o.Response); err != nil {
			errs = append(errs, err)
		}
	}

	for i := range o.Options {
		child, err := o.Options[i].node(path)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		node.Children = append(node.Children, child)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return node, nil
}

func locales(path string, in map[string]string) (map[discordgo.Locale]string, error) {
	if len(in) == 0 {
		return nil, nil
	}
	out := make(map[discordgo.Locale]string, len(in))
	for code, text := range in {
		locale := discordgo.Locale(code)
		if _, ok := discordgo.Locales[locale]; !ok {
			return nil, &command.DefinitionError{Path: path, Err: ErrUnknownLocale, Detail: code}
		}
		out[locale] = text
	}
	return out, nil
}

// choiceValue normalises decoded choice values: YAML yields int, TOML yields int64,
// both yield float64 for decimals.
func choiceValue(kind command.Kind, v any) (any, error) {
	switch kind {
	case command.KindString:
		if s, ok := v.(string); ok {
			return s, nil
		}
	case command.KindInteger:
		switch n := v.(type) {
		case int:
			return int64(n), nil
		case int64:
			return n, nil
		case uint64:
			if n <= math.MaxInt64 {
				return int64(n), nil
			}
		case float64:
			if n == math.Trunc(n) && math.Abs(n) <= 1<<53 {
				return int64(n), nil
			}
		}
	case command.KindNumber:
		switch n := v.(type) {
		case float64:
			return n, nil
		case int:
			return float64(n), nil
		case int64:
			return float64(n), nil
		}
	default:
		return nil, fmt.Errorf("%s options take no choices", kind)
	}
	return nil, fmt.Errorf("%v (%T) is not a valid %s", v, v, kind)
}

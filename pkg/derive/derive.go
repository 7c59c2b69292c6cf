// Package derive builds command trees from Go types and binds parsed interactions back
// into values of those types.
//
// A selector struct embeds Selector; each of its exported pointer-to-struct fields is
// one variant. Any other struct is an option group whose fields are options:
//
//	type Commands struct {
//	    derive.Selector
//	    Ping *struct{}     `desc:"Ping the bot."`
//	    Echo *Echo         `desc:"Echo a message."`
//	    Math *MathCommand  `desc:"Perform math operations."`
//	}
//
//	type Echo struct {
//	    Message string `desc:"The message to echo."`
//	    Times   *int   `desc:"How many times." slash:"min=1,max=5"`
//	}
//
// Names default to the kebab-cased field name and can be overridden with a name tag.
// Pointer fields are optional options. Every variant and option needs a desc tag.
// Derivation happens once in New; all failures are reported there.
package derive

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"slashbind/pkg/command"
	"slashbind/pkg/options"

	"github.com/bwmarrin/discordgo"
)

// Selector marks a struct whose variant fields are mutually exclusive.
type Selector struct{}

// ChoiceProvider is implemented by named string, integer or float types that only
// accept a fixed set of values. Choices is called on the zero value.
type ChoiceProvider interface {
	Choices() []command.Choice
}

// OptionType lets a user-defined type stand in for a scalar option. Implement it on the
// pointer receiver: OptionKind is called on a zero value and names the wire kind, and
// UnmarshalOption receives the converted value. An error from UnmarshalOption fails the
// parse with options.ErrCustom.
type OptionType interface {
	OptionKind() command.Kind
	UnmarshalOption(v options.Value) error
}

// OptionMarshaler is the inverse of OptionType.UnmarshalOption, used by Encode. It
// returns the payload value: string, int64, float64, bool or a snowflake string.
type OptionMarshaler interface {
	MarshalOption() (any, error)
}

var (
	selectorType       = reflect.TypeFor[Selector]()
	choiceProviderType = reflect.TypeFor[ChoiceProvider]()
	optionTypeType     = reflect.TypeFor[OptionType]()

	snowflakeKinds = map[reflect.Type]command.Kind{
		reflect.TypeFor[options.UserID]():        command.KindUser,
		reflect.TypeFor[options.ChannelID]():     command.KindChannel,
		reflect.TypeFor[options.RoleID]():        command.KindRole,
		reflect.TypeFor[options.MentionableID](): command.KindMentionable,
		reflect.TypeFor[options.AttachmentID]():  command.KindAttachment,
	}
)

// Deepest level a node may sit at: command (0) > group (1) > sub-command (2).
const maxLevel = 2

// binding ties a node to the Go struct it was derived from.
type binding struct {
	node     *command.Node
	typ      reflect.Type
	selector bool
	fields   []fieldBinding
	byName   map[string]int
}

type fieldBinding struct {
	name     string
	index    []int
	optional bool
	elem     reflect.Type
	kind     command.Kind
	custom   bool
	child    *binding
}

func (b *binding) field(name string) (*fieldBinding, bool) {
	i, ok := b.byName[name]
	if !ok {
		return nil, false
	}
	return &b.fields[i], true
}

func isSelector(t reflect.Type) bool {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Anonymous && f.Type == selectorType {
			return true
		}
	}
	return false
}

func deriveRoot(t reflect.Type) (*binding, error) {
	if t.Kind() != reflect.Struct || !isSelector(t) {
		return nil, &command.DefinitionError{
			Path:   t.String(),
			Err:    command.ErrUnsupportedType,
			Detail: "top-level type must be a struct embedding derive.Selector",
		}
	}

	root := &binding{typ: t, selector: true, byName: map[string]int{}}
	var errs []error

	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if skipField(sf) {
			continue
		}
		fb, err := deriveVariant(sf, "", 0)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		root.byName[fb.name] = len(root.fields)
		root.fields = append(root.fields, *fb)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return root, nil
}

// deriveVariant derives the node for a selector field sitting at level.
func deriveVariant(sf reflect.StructField, parent string, level int) (*fieldBinding, error) {
	name, path := fieldName(sf, parent)

	if sf.Type.Kind() != reflect.Pointer || sf.Type.Elem().Kind() != reflect.Struct {
		return nil, &command.DefinitionError{
			Path:   path,
			Err:    command.ErrUnsupportedType,
			Detail: fmt.Sprintf("variant field %s must be a pointer to a struct, got %s", sf.Name, sf.Type),
		}
	}

	desc := strings.TrimSpace(sf.Tag.Get("desc"))
	if desc == "" {
		return nil, &command.DefinitionError{Path: path, Err: command.ErrMissingDescription, Detail: "add a desc tag to " + sf.Name}
	}

	elem := sf.Type.Elem()
	selector := isSelector(elem)

	var kind command.Kind
	switch {
	case level == 0:
		kind = command.KindCommand
	case selector && level == 1:
		kind = command.KindSubCommandGroup
	case selector:
		return nil, &command.DefinitionError{
			Path:   path,
			Err:    command.ErrTooDeep,
			Detail: "sub-command groups can only sit directly below a command",
		}
	default:
		kind = command.KindSubCommand
	}

	node := &command.Node{Name: name, Description: desc, Kind: kind}
	tag := parseTag(sf.Tag.Get("slash"))
	if level == 0 {
		if tag.has("admin") {
			perms := int64(discordgo.PermissionAdministrator)
			node.DefaultMemberPermissions = &perms
		}
		node.NSFW = tag.has("nsfw")
	}

	b := &binding{node: node, typ: elem, selector: selector, byName: map[string]int{}}
	var errs []error

	for i := 0; i < elem.NumField(); i++ {
		child := elem.Field(i)
		if skipField(child) {
			continue
		}

		var fb *fieldBinding
		var err error
		if selector {
			fb, err = deriveVariant(child, path, level+1)
		} else {
			fb, err = deriveOption(child, path)
		}
		if err != nil {
			errs = append(errs, err)
			continue
		}

		b.byName[fb.name] = len(b.fields)
		b.fields = append(b.fields, *fb)
		if fb.child != nil {
			node.Children = append(node.Children, fb.child.node)
		}
	}

	if selector && len(b.fields) == 0 {
		errs = append(errs, &command.DefinitionError{Path: path, Err: command.ErrEmptyGroup, Detail: elem.String() + " declares no variants"})
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return &fieldBinding{
		name:  name,
		index: sf.Index,
		elem:  elem,
		kind:  kind,
		child: b,
	}, nil
}

func deriveOption(sf reflect.StructField, parent string) (*fieldBinding, error) {
	name, path := fieldName(sf, parent)

	optional := false
	elem := sf.Type
	if elem.Kind() == reflect.Pointer {
		optional = true
		elem = elem.Elem()
	}

	custom := isCustom(elem)
	kind, choices, err := scalarKind(elem)
	if err != nil {
		return nil, &command.DefinitionError{Path: path, Err: command.ErrUnsupportedType, Detail: fmt.Sprintf("field %s: %v", sf.Name, err)}
	}

	desc := strings.TrimSpace(sf.Tag.Get("desc"))
	if desc == "" {
		return nil, &command.DefinitionError{Path: path, Err: command.ErrMissingDescription, Detail: "add a desc tag to " + sf.Name}
	}

	node := &command.Node{
		Name:        name,
		Description: desc,
		Kind:        kind,
		Required:    !optional,
		Choices:     choices,
	}
	if err := applyTag(node, elem, parseTag(sf.Tag.Get("slash"))); err != nil {
		return nil, &command.DefinitionError{Path: path, Err: command.ErrInvalidConstraint, Detail: err.Error()}
	}

	return &fieldBinding{
		name:     name,
		index:    sf.Index,
		optional: optional,
		elem:     elem,
		kind:     kind,
		custom:   custom,
		child:    &binding{node: node},
	}, nil
}

func isCustom(t reflect.Type) bool {
	return reflect.PointerTo(t).Implements(optionTypeType)
}

func scalarKind(t reflect.Type) (command.Kind, []command.Choice, error) {
	if isCustom(t) {
		kind := reflect.New(t).Interface().(OptionType).OptionKind()
		if !kind.IsScalar() {
			return 0, nil, fmt.Errorf("%s.OptionKind returned %s, want a scalar kind", t, kind)
		}
		return kind, nil, nil
	}
	if k, ok := snowflakeKinds[t]; ok {
		return k, nil, nil
	}

	var kind command.Kind
	switch t.Kind() {
	case reflect.String:
		kind = command.KindString
	case reflect.Bool:
		kind = command.KindBoolean
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		kind = command.KindInteger
	case reflect.Float32, reflect.Float64:
		kind = command.KindNumber
	default:
		return 0, nil, fmt.Errorf("%s is not an option type", t)
	}

	if !t.Implements(choiceProviderType) {
		return kind, nil, nil
	}

	provider := reflect.Zero(t).Interface().(ChoiceProvider)
	raw := provider.Choices()
	choices := make([]command.Choice, len(raw))
	for i, c := range raw {
		v, err := canonical(kind, c.Value)
		if err != nil {
			return 0, nil, fmt.Errorf("choice %q: %w", c.Name, err)
		}
		choices[i] = command.Choice{Name: c.Name, Value: v, NameLocalizations: c.NameLocalizations}
	}
	return kind, choices, nil
}

// canonical converts a choice value to the representation the parser produces.
func canonical(kind command.Kind, v any) (any, error) {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return nil, fmt.Errorf("nil value")
	}
	switch kind {
	case command.KindString:
		if rv.Kind() == reflect.String {
			return rv.String(), nil
		}
	case command.KindInteger:
		if rv.CanInt() {
			return rv.Int(), nil
		}
		if rv.CanUint() {
			if rv.Uint() > math.MaxInt64 {
				return nil, fmt.Errorf("%d overflows int64", rv.Uint())
			}
			return int64(rv.Uint()), nil
		}
	case command.KindNumber:
		if rv.CanFloat() {
			return rv.Float(), nil
		}
		if rv.CanInt() {
			return float64(rv.Int()), nil
		}
	}
	return nil, fmt.Errorf("%T is not a valid %s value", v, kind)
}

func skipField(sf reflect.StructField) bool {
	if sf.Anonymous && sf.Type == selectorType {
		return true
	}
	return !sf.IsExported() || sf.Tag.Get("slash") == "-"
}

func fieldName(sf reflect.StructField, parent string) (name, path string) {
	name = sf.Tag.Get("name")
	if name == "" {
		name = command.KebabCase(sf.Name)
	}
	path = name
	if parent != "" {
		path = parent + "." + name
	}
	return name, path
}

type tagOptions map[string]string

func parseTag(tag string) tagOptions {
	opts := tagOptions{}
	for _, part := range strings.Split(tag, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, value, _ := strings.Cut(part, "=")
		opts[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return opts
}

func (t tagOptions) has(key string) bool {
	_, ok := t[key]
	return ok
}

func applyTag(node *command.Node, elem reflect.Type, tag tagOptions) error {
	node.Autocomplete = tag.has("autocomplete")

	for key, value := range tag {
		switch key {
		case "autocomplete":
		case "min", "max":
			f, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return fmt.Errorf("%s=%q: %w", key, value, err)
			}
			if key == "min" {
				node.MinValue = &f
			} else {
				node.MaxValue = &f
			}
		case "minlen", "maxlen":
			n, err := strconv.Atoi(value)
			if err != nil {
				return fmt.Errorf("%s=%q: %w", key, value, err)
			}
			if key == "minlen" {
				node.MinLength = &n
			} else {
				node.MaxLength = &n
			}
		case "channels":
			for _, name := range strings.Split(value, "|") {
				types, ok := command.ParseChannelTypes(strings.TrimSpace(name))
				if !ok {
					return fmt.Errorf("unknown channel type %q", name)
				}
				node.ChannelTypes = append(node.ChannelTypes, types...)
			}
		default:
			return fmt.Errorf("unknown slash tag option %q", key)
		}
	}

	if node.Kind == command.KindInteger && node.MinValue == nil && isUnsigned(elem) {
		zero := 0.0
		node.MinValue = &zero
	}
	return nil
}

func isUnsigned(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}

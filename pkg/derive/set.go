package derive

import (
	"fmt"
	"reflect"

	"slashbind/pkg/command"
	"slashbind/pkg/options"

	"github.com/bwmarrin/discordgo"
)

// Set is the command surface derived from the selector type T.
// A Set is immutable after New and safe for concurrent use.
type Set[T any] struct {
	root     *binding
	registry *command.Registry
	nodes    []*command.Node
}

// New derives and validates the commands described by T.
func New[T any]() (*Set[T], error) {
	root, err := deriveRoot(reflect.TypeFor[T]())
	if err != nil {
		return nil, fmt.Errorf("derive %s: %w", reflect.TypeFor[T](), err)
	}

	nodes := make([]*command.Node, len(root.fields))
	for i, f := range root.fields {
		nodes[i] = f.child.node
	}

	reg := command.NewRegistry()
	if err := reg.Register(nodes...); err != nil {
		return nil, fmt.Errorf("derive %s: %w", reflect.TypeFor[T](), err)
	}

	return &Set[T]{root: root, registry: reg, nodes: nodes}, nil
}

// MustNew is New for package-level variables; it panics on error.
func MustNew[T any]() *Set[T] {
	s, err := New[T]()
	if err != nil {
		panic(err)
	}
	return s
}

// Commands returns the derived top-level command nodes in declaration order.
func (s *Set[T]) Commands() []*command.Node {
	return append([]*command.Node(nil), s.nodes...)
}

// Register adds the derived commands to a shared registry.
func (s *Set[T]) Register(reg *command.Registry) error {
	return reg.Register(s.nodes...)
}

func (s *Set[T]) ApplicationCommands() []*discordgo.ApplicationCommand {
	return s.registry.ApplicationCommands()
}

// Handles reports whether the set declares a top-level command with this name.
func (s *Set[T]) Handles(name string) bool {
	_, ok := s.registry.Lookup(name)
	return ok
}

// Parse converts an interaction payload into a T with exactly one variant set.
func (s *Set[T]) Parse(data discordgo.ApplicationCommandInteractionData) (*T, error) {
	inv, err := options.Parse(s.registry, data)
	if err != nil {
		return nil, err
	}
	return s.Bind(inv)
}

// ParseAutocomplete parses a partially filled interaction. The result is untyped
// because the focused option may hold text that does not fit its Go field yet.
func (s *Set[T]) ParseAutocomplete(data discordgo.ApplicationCommandInteractionData) (*options.Invocation, error) {
	return options.ParseAutocomplete(s.registry, data)
}

// Bind builds a T from an invocation parsed against this set's commands.
func (s *Set[T]) Bind(inv *options.Invocation) (*T, error) {
	out := new(T)
	sv := reflect.ValueOf(out).Elem()

	fb, ok := s.root.field(inv.Command)
	if !ok {
		return nil, &options.ParseError{Err: options.ErrUnknownVariant, Name: inv.Command}
	}

	for depth := 0; ; depth++ {
		ptr := reflect.New(fb.elem)
		sv.FieldByIndex(fb.index).Set(ptr)
		sv = ptr.Elem()
		b := fb.child

		if depth == len(inv.Path) {
			if b.selector {
				return nil, &options.ParseError{Err: options.ErrMalformedNesting, Name: b.node.Name, Path: inv.Path}
			}
			if err := bindOptions(b, sv, inv); err != nil {
				return nil, err
			}
			return out, nil
		}

		next, ok := b.field(inv.Path[depth])
		if !ok || !b.selector {
			return nil, &options.ParseError{Err: options.ErrUnknownVariant, Name: inv.Path[depth], Path: inv.Path[:depth]}
		}
		fb = next
	}
}

func bindOptions(b *binding, sv reflect.Value, inv *options.Invocation) error {
	for i := range b.fields {
		f := &b.fields[i]
		v, ok := inv.Options[f.name]
		if !ok {
			if !f.optional {
				return &options.ParseError{Err: options.ErrMissingRequiredOption, Name: f.name, Path: inv.Path}
			}
			continue
		}

		if f.custom {
			rv, err := unmarshalCustom(f, v)
			if err != nil {
				return &options.ParseError{Err: options.ErrCustom, Name: f.name, Path: inv.Path, Cause: err}
			}
			setField(sv.FieldByIndex(f.index), f, rv)
			continue
		}

		rv, err := assignable(f, v.Value)
		if err != nil {
			return &options.ParseError{
				Err:      options.ErrTypeMismatch,
				Name:     f.name,
				Path:     inv.Path,
				Expected: f.elem.String(),
				Actual:   err.Error(),
			}
		}

		setField(sv.FieldByIndex(f.index), f, rv)
	}
	return nil
}

func setField(target reflect.Value, f *fieldBinding, rv reflect.Value) {
	if f.optional {
		ptr := reflect.New(f.elem)
		ptr.Elem().Set(rv)
		target.Set(ptr)
		return
	}
	target.Set(rv)
}

func unmarshalCustom(f *fieldBinding, v options.Value) (reflect.Value, error) {
	ptr := reflect.New(f.elem)
	if err := ptr.Interface().(OptionType).UnmarshalOption(v); err != nil {
		return reflect.Value{}, err
	}
	return ptr.Elem(), nil
}

// assignable converts a parsed option value into the field's element type, refusing
// values that would overflow it.
func assignable(f *fieldBinding, value any) (reflect.Value, error) {
	rv := reflect.ValueOf(value)
	if !rv.IsValid() {
		return reflect.Value{}, fmt.Errorf("nil")
	}

	switch f.elem.Kind() {
	case reflect.String:
		if rv.Kind() != reflect.String {
			return reflect.Value{}, fmt.Errorf("%T", value)
		}
	case reflect.Bool:
		if rv.Kind() != reflect.Bool {
			return reflect.Value{}, fmt.Errorf("%T", value)
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if !rv.CanInt() {
			return reflect.Value{}, fmt.Errorf("%T", value)
		}
		if reflect.Zero(f.elem).OverflowInt(rv.Int()) {
			return reflect.Value{}, fmt.Errorf("%d overflows", rv.Int())
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if !rv.CanInt() {
			return reflect.Value{}, fmt.Errorf("%T", value)
		}
		if rv.Int() < 0 || reflect.Zero(f.elem).OverflowUint(uint64(rv.Int())) {
			return reflect.Value{}, fmt.Errorf("%d out of range", rv.Int())
		}
		return reflect.ValueOf(uint64(rv.Int())).Convert(f.elem), nil
	case reflect.Float32:
		if !rv.CanFloat() {
			return reflect.Value{}, fmt.Errorf("%T", value)
		}
		if reflect.Zero(f.elem).OverflowFloat(rv.Float()) {
			return reflect.Value{}, fmt.Errorf("%v overflows", rv.Float())
		}
	}

	if !rv.Type().ConvertibleTo(f.elem) {
		return reflect.Value{}, fmt.Errorf("%T", value)
	}
	return rv.Convert(f.elem), nil
}

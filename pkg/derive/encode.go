package derive

import (
	"fmt"
	"reflect"

	"slashbind/pkg/options"

	"github.com/bwmarrin/discordgo"
)

// Encode builds the interaction payload that parses back into v. Exactly one variant
// must be set at every selector level.
func (s *Set[T]) Encode(v *T) (discordgo.ApplicationCommandInteractionData, error) {
	if v == nil {
		return discordgo.ApplicationCommandInteractionData{}, fmt.Errorf("encode: nil value")
	}

	sv := reflect.ValueOf(v).Elem()
	fb, elem, err := selected(s.root, sv, nil)
	if err != nil {
		return discordgo.ApplicationCommandInteractionData{}, fmt.Errorf("encode: %w", err)
	}

	opts, err := encodeBinding(fb.child, elem, nil)
	if err != nil {
		return discordgo.ApplicationCommandInteractionData{}, fmt.Errorf("encode %s: %w", fb.name, err)
	}

	return discordgo.ApplicationCommandInteractionData{
		Name:        fb.name,
		CommandType: discordgo.ChatApplicationCommand,
		Options:     opts,
	}, nil
}

// selected returns the single non-nil variant of a selector struct.
func selected(b *binding, sv reflect.Value, path []string) (*fieldBinding, reflect.Value, error) {
	var found *fieldBinding
	var names []string

	for i := range b.fields {
		f := &b.fields[i]
		fv := sv.FieldByIndex(f.index)
		if fv.IsNil() {
			continue
		}
		names = append(names, f.name)
		found = f
	}

	name := ""
	if b.node != nil {
		name = b.node.Name
	}

	switch len(names) {
	case 0:
		return nil, reflect.Value{}, &options.ParseError{Err: options.ErrMalformedNesting, Name: name, Path: path, Expected: "one variant", Actual: "none"}
	case 1:
		return found, sv.FieldByIndex(found.index).Elem(), nil
	default:
		return nil, reflect.Value{}, &options.ParseError{Err: options.ErrAmbiguousSelection, Name: name, Path: path, Expected: "one variant", Actual: fmt.Sprintf("%v", names)}
	}
}

func encodeBinding(b *binding, sv reflect.Value, path []string) ([]*discordgo.ApplicationCommandInteractionDataOption, error) {
	if b.selector {
		fb, elem, err := selected(b, sv, path)
		if err != nil {
			return nil, err
		}
		childPath := append(append([]string(nil), path...), fb.name)
		nested, err := encodeBinding(fb.child, elem, childPath)
		if err != nil {
			return nil, err
		}
		return []*discordgo.ApplicationCommandInteractionDataOption{{
			Name:    fb.name,
			Type:    fb.kind.OptionType(),
			Options: nested,
		}}, nil
	}

	var opts []*discordgo.ApplicationCommandInteractionDataOption
	for i := range b.fields {
		f := &b.fields[i]
		fv := sv.FieldByIndex(f.index)
		if f.optional {
			if fv.IsNil() {
				continue
			}
			fv = fv.Elem()
		}

		var raw any
		var err error
		if f.custom {
			raw, err = marshalCustom(fv)
		} else {
			raw, err = payloadValue(fv)
		}
		if err != nil {
			return nil, &options.ParseError{Err: options.ErrTypeMismatch, Name: f.name, Path: path, Expected: f.kind.String(), Actual: err.Error()}
		}
		opts = append(opts, &discordgo.ApplicationCommandInteractionDataOption{
			Name:  f.name,
			Type:  f.kind.OptionType(),
			Value: raw,
		})
	}
	return opts, nil
}

// payloadValue renders a field the way it arrives from the gateway: snowflakes and
// strings as string, integers as int64, numbers as float64.
func payloadValue(fv reflect.Value) (any, error) {
	switch fv.Kind() {
	case reflect.String:
		return fv.String(), nil
	case reflect.Bool:
		return fv.Bool(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return fv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := fv.Uint()
		if u > 1<<63-1 {
			return nil, fmt.Errorf("%d overflows int64", u)
		}
		return int64(u), nil
	case reflect.Float32, reflect.Float64:
		return fv.Float(), nil
	}
	return nil, fmt.Errorf("unsupported %s", fv.Type())
}

func marshalCustom(fv reflect.Value) (any, error) {
	v := fv.Interface()
	if fv.CanAddr() {
		v = fv.Addr().Interface()
	}
	m, ok := v.(OptionMarshaler)
	if !ok {
		return nil, fmt.Errorf("%s does not implement OptionMarshaler", fv.Type())
	}
	return m.MarshalOption()
}

package options

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"slashbind/pkg/command"
)

// Snowflake-valued option types. They carry the raw ID; resolved objects live in
// Invocation.Resolved.
type (
	UserID        string
	ChannelID     string
	RoleID        string
	MentionableID string
	AttachmentID  string
)

// Value is one converted scalar option.
//
// Value holds string for KindString, int64 for KindInteger, float64 for KindNumber,
// bool for KindBoolean and the matching snowflake type for the mention kinds.
type Value struct {
	Name  string
	Kind  command.Kind
	Value any
}

// convert turns a raw payload value into the Go representation of kind.
// JSON decoding hands integers over as float64, so whole floats are accepted as integers.
func convert(kind command.Kind, raw any) (any, bool) {
	switch kind {
	case command.KindString:
		s, ok := raw.(string)
		return s, ok
	case command.KindInteger:
		return toInt64(raw)
	case command.KindNumber:
		return toFloat64(raw)
	case command.KindBoolean:
		b, ok := raw.(bool)
		return b, ok
	case command.KindUser, command.KindChannel, command.KindRole,
		command.KindMentionable, command.KindAttachment:
		id, ok := snowflake(raw)
		if !ok {
			return nil, false
		}
		return typedID(kind, id), true
	}
	return nil, false
}

func typedID(kind command.Kind, id string) any {
	switch kind {
	case command.KindUser:
		return UserID(id)
	case command.KindChannel:
		return ChannelID(id)
	case command.KindRole:
		return RoleID(id)
	case command.KindMentionable:
		return MentionableID(id)
	default:
		return AttachmentID(id)
	}
}

func snowflake(raw any) (string, bool) {
	switch v := raw.(type) {
	case string:
		if v == "" {
			return "", false
		}
		if _, err := strconv.ParseUint(v, 10, 64); err != nil {
			return "", false
		}
		return v, true
	case UserID:
		return snowflake(string(v))
	case ChannelID:
		return snowflake(string(v))
	case RoleID:
		return snowflake(string(v))
	case MentionableID:
		return snowflake(string(v))
	case AttachmentID:
		return snowflake(string(v))
	}
	return "", false
}

// maxExactFloat is the largest magnitude up to which every integer is exactly
// representable as a float64.
const maxExactFloat = 1 << 53

func toInt64(raw any) (any, bool) {
	switch v := raw.(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case int32:
		return int64(v), true
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) || math.Abs(v) > maxExactFloat {
			return nil, false
		}
		return int64(v), true
	case json.Number:
		i, err := v.Int64()
		if err != nil {
			return nil, false
		}
		return i, true
	}
	return nil, false
}

func toFloat64(raw any) (any, bool) {
	switch v := raw.(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, false
		}
		return v, true
	case float32:
		return float64(v), true
	case int64:
		return float64(v), true
	case int:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return nil, false
		}
		return f, true
	}
	return nil, false
}

func describe(raw any) string {
	if raw == nil {
		return "null"
	}
	return fmt.Sprintf("%T(%v)", raw, raw)
}

package options

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMissingRequiredOption = errors.New("missing required option")
	ErrUnknownVariant        = errors.New("unknown variant")
	ErrUnknownOption         = errors.New("unknown option")
	ErrTypeMismatch          = errors.New("type mismatch")
	ErrMalformedNesting      = errors.New("malformed nesting")
	ErrAmbiguousSelection    = errors.New("ambiguous selection")
	ErrUnknownChoice         = errors.New("unknown choice")
	ErrCustom                = errors.New("invalid option value")
)

// ParseError explains why a payload did not fit the registered command tree.
// Err is one of the package sentinels; Cause holds the underlying failure of an
// ErrCustom.
type ParseError struct {
	Err      error
	Name     string
	Path     []string
	Expected string
	Actual   string
	Cause    error
}

func (e *ParseError) Error() string {
	var b strings.Builder
	b.WriteString(e.Err.Error())
	if e.Name != "" {
		fmt.Fprintf(&b, " %q", e.Name)
	}
	if len(e.Path) > 0 {
		fmt.Fprintf(&b, " in %q", strings.Join(e.Path, " "))
	}
	if e.Expected != "" || e.Actual != "" {
		fmt.Fprintf(&b, ": expected %s, got %s", e.Expected, e.Actual)
	}
	if e.Cause != nil {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}
	return b.String()
}

func (e *ParseError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.Cause}
}

func parseErr(err error, name string, path []string) *ParseError {
	return &ParseError{Err: err, Name: name, Path: append([]string(nil), path...)}
}

func mismatch(name string, path []string, expected, actual string) *ParseError {
	e := parseErr(ErrTypeMismatch, name, path)
	e.Expected = expected
	e.Actual = actual
	return e
}

// Reason returns a short stable label for err, for metrics and logs.
func Reason(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrMissingRequiredOption):
		return "missing_required_option"
	case errors.Is(err, ErrUnknownVariant):
		return "unknown_variant"
	case errors.Is(err, ErrUnknownOption):
		return "unknown_option"
	case errors.Is(err, ErrTypeMismatch):
		return "type_mismatch"
	case errors.Is(err, ErrMalformedNesting):
		return "malformed_nesting"
	case errors.Is(err, ErrAmbiguousSelection):
		return "ambiguous_selection"
	case errors.Is(err, ErrUnknownChoice):
		return "unknown_choice"
	case errors.Is(err, ErrCustom):
		return "custom"
	default:
		return "other"
	}
}

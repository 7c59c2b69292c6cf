package command

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Platform limits for chat-input commands.
const (
	maxNameLength        = 32
	maxDescriptionLength = 100
	maxChildren          = 25
	maxChoices           = 25
	maxChoiceNameLength  = 100
	maxCommands          = 100
	maxStringLength      = 6000
)

// MaxChoiceValueLength bounds a string choice value, declared or sent as an
// autocomplete suggestion.
const MaxChoiceValueLength = 100

var (
	ErrInvalidName           = errors.New("invalid name")
	ErrMissingDescription    = errors.New("missing description")
	ErrDescriptionTooLong    = errors.New("description too long")
	ErrEmptyGroup            = errors.New("sub-command group has no sub-commands")
	ErrDuplicateName         = errors.New("duplicate name")
	ErrInvalidNesting        = errors.New("invalid nesting")
	ErrTooManyOptions        = errors.New("too many options")
	ErrRequiredAfterOptional = errors.New("required option declared after an optional one")
	ErrInvalidChoice         = errors.New("invalid choice")
	ErrInvalidConstraint     = errors.New("invalid constraint")
	ErrUnsupportedType       = errors.New("unsupported type")
	ErrTooDeep               = errors.New("nesting too deep")
)

// DefinitionError locates a definition failure inside a Node tree.
type DefinitionError struct {
	Path   string
	Err    error
	Detail string
}

func (e *DefinitionError) Error() string {
	msg := e.Err.Error()
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Path == "" {
		return msg
	}
	return e.Path + ": " + msg
}

func (e *DefinitionError) Unwrap() error {
	return e.Err
}

func defErr(path string, err error, format string, args ...any) error {
	return &DefinitionError{Path: path, Err: err, Detail: fmt.Sprintf(format, args...)}
}

// Validate checks the node and all of its descendants against the platform rules.
// Every failure is reported, joined with errors.Join.
func (n *Node) Validate() error {
	var errs []error
	n.validate("", &errs)
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

func (n *Node) validate(parent string, errs *[]error) {
	path := n.Name
	if parent != "" {
		path = parent + "." + n.Name
	}
	add := func(err error) {
		if err != nil {
			*errs = append(*errs, err)
		}
	}

	add(ValidateName(path, n.Name))
	add(validateDescription(path, n.Description))

	switch {
	case n.Kind == KindCommand:
		add(n.validateCommandChildren(path))
	case n.Kind == KindSubCommandGroup:
		if len(n.Children) == 0 {
			add(defErr(path, ErrEmptyGroup, "declare at least one sub-command"))
		}
		for _, c := range n.Children {
			if c.Kind != KindSubCommand {
				add(defErr(path, ErrInvalidNesting, "%q is a %s, groups only hold sub-commands", c.Name, c.Kind))
			}
		}
	case n.Kind == KindSubCommand:
		for _, c := range n.Children {
			if !c.Kind.IsScalar() {
				add(defErr(path, ErrInvalidNesting, "%q is a %s, sub-commands only hold options", c.Name, c.Kind))
			}
		}
	case n.Kind.IsScalar():
		if len(n.Children) > 0 {
			add(defErr(path, ErrInvalidNesting, "%s option cannot have children", n.Kind))
		}
		add(n.validateConstraints(path))
	default:
		add(defErr(path, ErrInvalidNesting, "unknown kind %d", int(n.Kind)))
	}

	if len(n.Children) > maxChildren {
		add(defErr(path, ErrTooManyOptions, "%d children, limit is %d", len(n.Children), maxChildren))
	}

	seen := make(map[string]bool, len(n.Children))
	optionalSeen := false
	for _, c := range n.Children {
		if seen[c.Name] {
			add(defErr(path, ErrDuplicateName, "%q", c.Name))
		}
		seen[c.Name] = true

		if c.Kind.IsScalar() {
			if c.Required && optionalSeen {
				add(defErr(path, ErrRequiredAfterOptional, "%q", c.Name))
			}
			if !c.Required {
				optionalSeen = true
			}
		}

		c.validate(path, errs)
	}
}

func (n *Node) validateCommandChildren(path string) error {
	var scalars, nested int
	for _, c := range n.Children {
		switch {
		case c.Kind.IsScalar():
			scalars++
		case c.Kind.IsNested():
			nested++
		default:
			return defErr(path, ErrInvalidNesting, "%q is a %s and cannot be nested in a command", c.Name, c.Kind)
		}
	}
	if scalars > 0 && nested > 0 {
		return defErr(path, ErrInvalidNesting, "options and sub-commands cannot be mixed")
	}
	return nil
}

func (n *Node) validateConstraints(path string) error {
	var errs []error

	if len(n.Choices) > 0 {
		if n.Kind != KindString && n.Kind != KindInteger && n.Kind != KindNumber {
			errs = append(errs, defErr(path, ErrInvalidChoice, "%s options cannot have choices", n.Kind))
		}
		if n.Autocomplete {
			errs = append(errs, defErr(path, ErrInvalidChoice, "choices and autocomplete are exclusive"))
		}
		if len(n.Choices) > maxChoices {
			errs = append(errs, defErr(path, ErrTooManyOptions, "%d choices, limit is %d", len(n.Choices), maxChoices))
		}
		for _, c := range n.Choices {
			if err := n.validateChoice(path, c); err != nil {
				errs = append(errs, err)
			}
		}
	}

	if n.Autocomplete && n.Kind != KindString && n.Kind != KindInteger && n.Kind != KindNumber {
		errs = append(errs, defErr(path, ErrInvalidConstraint, "autocomplete is only allowed on string, integer and number options"))
	}

	if (n.MinValue != nil || n.MaxValue != nil) && n.Kind != KindInteger && n.Kind != KindNumber {
		errs = append(errs, defErr(path, ErrInvalidConstraint, "min/max value only applies to integer and number options"))
	}
	if n.MinValue != nil && n.MaxValue != nil && *n.MinValue > *n.MaxValue {
		errs = append(errs, defErr(path, ErrInvalidConstraint, "min value %v exceeds max value %v", *n.MinValue, *n.MaxValue))
	}

	if n.MinLength != nil || n.MaxLength != nil {
		if n.Kind != KindString {
			errs = append(errs, defErr(path, ErrInvalidConstraint, "min/max length only applies to string options"))
		}
		if n.MinLength != nil && (*n.MinLength < 0 || *n.MinLength > maxStringLength) {
			errs = append(errs, defErr(path, ErrInvalidConstraint, "min length must be between 0 and %d", maxStringLength))
		}
		if n.MaxLength != nil && (*n.MaxLength < 1 || *n.MaxLength > maxStringLength) {
			errs = append(errs, defErr(path, ErrInvalidConstraint, "max length must be between 1 and %d", maxStringLength))
		}
		if n.MinLength != nil && n.MaxLength != nil && *n.MinLength > *n.MaxLength {
			errs = append(errs, defErr(path, ErrInvalidConstraint, "min length %d exceeds max length %d", *n.MinLength, *n.MaxLength))
		}
	}

	if len(n.ChannelTypes) > 0 && n.Kind != KindChannel {
		errs = append(errs, defErr(path, ErrInvalidConstraint, "channel types only apply to channel options"))
	}

	return errors.Join(errs...)
}

func (n *Node) validateChoice(path string, c Choice) error {
	if c.Name == "" || utf8.RuneCountInString(c.Name) > maxChoiceNameLength {
		return defErr(path, ErrInvalidChoice, "choice name must be 1-%d characters", maxChoiceNameLength)
	}

	switch n.Kind {
	case KindString:
		s, ok := c.Value.(string)
		if !ok {
			return defErr(path, ErrInvalidChoice, "choice %q: expected string value, got %T", c.Name, c.Value)
		}
		if utf8.RuneCountInString(s) > MaxChoiceValueLength {
			return defErr(path, ErrInvalidChoice, "choice %q: value longer than %d characters", c.Name, MaxChoiceValueLength)
		}
	case KindInteger:
		if _, ok := c.Value.(int64); !ok {
			return defErr(path, ErrInvalidChoice, "choice %q: expected int64 value, got %T", c.Name, c.Value)
		}
	case KindNumber:
		if _, ok := c.Value.(float64); !ok {
			return defErr(path, ErrInvalidChoice, "choice %q: expected float64 value, got %T", c.Name, c.Value)
		}
	}
	return nil
}

// ValidateName checks a command or option name: 1-32 lower-case letters, digits,
// dashes or underscores.
func ValidateName(path, name string) error {
	count := utf8.RuneCountInString(name)
	if count == 0 || count > maxNameLength {
		return defErr(path, ErrInvalidName, "%q must be 1-%d characters", name, maxNameLength)
	}
	for _, r := range name {
		if r == '-' || r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r) {
			continue
		}
		return defErr(path, ErrInvalidName, "%q contains %q", name, r)
	}
	if cases.Lower(language.Und).String(name) != name {
		return defErr(path, ErrInvalidName, "%q must be lower case", name)
	}
	return nil
}

func validateDescription(path, desc string) error {
	if strings.TrimSpace(desc) == "" {
		return defErr(path, ErrMissingDescription, "every command and option needs a description")
	}
	if n := utf8.RuneCountInString(desc); n > maxDescriptionLength {
		return defErr(path, ErrDescriptionTooLong, "%d characters, limit is %d", n, maxDescriptionLength)
	}
	return nil
}

package options

import (
	"errors"
	"math"
	"testing"

	"slashbind/pkg/command"

	"github.com/bwmarrin/discordgo"
)

func testRegistry(t *testing.T) *command.Registry {
	t.Helper()

	binary := func(name string) *command.Node {
		return &command.Node{
			Name:        name,
			Description: "Binary operation.",
			Kind:        command.KindSubCommand,
			Children: []*command.Node{
				{Name: "a", Description: "The first number.", Kind: command.KindNumber, Required: true},
				{Name: "b", Description: "The second number.", Kind: command.KindNumber, Required: true},
			},
		}
	}

	reg := command.NewRegistry()
	reg.MustRegister(
		&command.Node{Name: "ping", Description: "Ping the bot.", Kind: command.KindCommand},
		&command.Node{
			Name:        "echo",
			Description: "Echo a message.",
			Kind:        command.KindCommand,
			Children: []*command.Node{
				{Name: "message", Description: "The message to echo.", Kind: command.KindString, Required: true},
				{Name: "times", Description: "Repeat count.", Kind: command.KindInteger},
				{Name: "loud", Description: "Shout it.", Kind: command.KindBoolean},
			},
		},
		&command.Node{
			Name:        "math",
			Description: "Perform math operations.",
			Kind:        command.KindCommand,
			Children:    []*command.Node{binary("add"), binary("subtract")},
		},
		&command.Node{
			Name:        "admin",
			Description: "Administration.",
			Kind:        command.KindCommand,
			Children: []*command.Node{
				{
					Name:        "roles",
					Description: "Role management.",
					Kind:        command.KindSubCommandGroup,
					Children: []*command.Node{
						{
							Name:        "grant",
							Description: "Grant a role.",
							Kind:        command.KindSubCommand,
							Children: []*command.Node{
								{Name: "user", Description: "Target.", Kind: command.KindUser, Required: true},
								{Name: "role", Description: "Role.", Kind: command.KindRole, Required: true},
							},
						},
					},
				},
			},
		},
		&command.Node{
			Name:        "roll",
			Description: "Roll dice.",
			Kind:        command.KindCommand,
			Children: []*command.Node{
				{Name: "sides", Description: "Die.", Kind: command.KindInteger, Required: true, Choices: []command.Choice{
					{Name: "D6", Value: int64(6)},
					{Name: "D20", Value: int64(20)},
				}},
				{Name: "label", Description: "Label.", Kind: command.KindString, Autocomplete: true},
			},
		},
	)
	return reg
}

func data(name string, opts ...*discordgo.ApplicationCommandInteractionDataOption) discordgo.ApplicationCommandInteractionData {
	return discordgo.ApplicationCommandInteractionData{Name: name, Options: opts}
}

func opt(name string, typ discordgo.ApplicationCommandOptionType, value any) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{Name: name, Type: typ, Value: value}
}

func sub(name string, opts ...*discordgo.ApplicationCommandInteractionDataOption) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{Name: name, Type: discordgo.ApplicationCommandOptionSubCommand, Options: opts}
}

func assertParseError(t *testing.T, err, want error, name string) {
	t.Helper()

	if !errors.Is(err, want) {
		t.Fatalf("expected %v, got %v", want, err)
	}
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %T", err)
	}
	if pe.Name != name {
		t.Errorf("expected error for %q, got %q", name, pe.Name)
	}
}

func TestParse_UnitCommand(t *testing.T) {
	inv, err := Parse(testRegistry(t), data("ping"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if inv.Command != "ping" || len(inv.Path) != 0 {
		t.Errorf("unexpected invocation %q %v", inv.Command, inv.Path)
	}
	if len(inv.Options) != 0 {
		t.Errorf("expected no options, got %v", inv.Options)
	}
}

func TestParse_EchoMessage(t *testing.T) {
	inv, err := Parse(testRegistry(t), data("echo", opt("message", discordgo.ApplicationCommandOptionString, "hi")))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := inv.String("message"); got != "hi" {
		t.Errorf("expected message 'hi', got %q", got)
	}
	if inv.Has("times") || inv.Has("loud") {
		t.Error("absent optional options must stay absent")
	}
}

func TestParse_EchoMissingMessage(t *testing.T) {
	_, err := Parse(testRegistry(t), data("echo"))
	assertParseError(t, err, ErrMissingRequiredOption, "message")
}

func TestParse_JSONIntegers(t *testing.T) {
	inv, err := Parse(testRegistry(t), data("echo",
		opt("message", discordgo.ApplicationCommandOptionString, "hi"),
		opt("times", discordgo.ApplicationCommandOptionInteger, float64(3)),
		opt("loud", discordgo.ApplicationCommandOptionBoolean, true),
	))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := inv.Int("times"); got != 3 {
		t.Errorf("expected times=3, got %d", got)
	}
	if !inv.Bool("loud") {
		t.Error("expected loud=true")
	}
}

func TestParse_IntegerAtExactFloatLimit(t *testing.T) {
	inv, err := Parse(testRegistry(t), data("echo",
		opt("message", discordgo.ApplicationCommandOptionString, "hi"),
		opt("times", discordgo.ApplicationCommandOptionInteger, -math.Exp2(53)),
	))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := inv.Int("times"); got != -1<<53 {
		t.Errorf("expected times=-2^53, got %d", got)
	}
}

func TestParse_NestedSubCommand(t *testing.T) {
	inv, err := Parse(testRegistry(t), data("math", sub("add",
		opt("a", discordgo.ApplicationCommandOptionNumber, 3.0),
		opt("b", discordgo.ApplicationCommandOptionNumber, 4.0),
	)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if inv.FullName() != "math add" {
		t.Errorf("expected 'math add', got %q", inv.FullName())
	}
	if inv.Node == nil || inv.Node.Name != "add" {
		t.Errorf("expected add node, got %v", inv.Node)
	}
	if inv.Float("a") != 3 || inv.Float("b") != 4 {
		t.Errorf("unexpected operands %v", inv.Options)
	}
}

func TestParse_NestedMissingOperand(t *testing.T) {
	_, err := Parse(testRegistry(t), data("math", sub("add",
		opt("a", discordgo.ApplicationCommandOptionNumber, 3.0),
	)))
	assertParseError(t, err, ErrMissingRequiredOption, "b")

	var pe *ParseError
	errors.As(err, &pe)
	if len(pe.Path) != 1 || pe.Path[0] != "add" {
		t.Errorf("expected path [add], got %v", pe.Path)
	}
}

func TestParse_SubCommandGroup(t *testing.T) {
	group := &discordgo.ApplicationCommandInteractionDataOption{
		Name: "roles",
		Type: discordgo.ApplicationCommandOptionSubCommandGroup,
		Options: []*discordgo.ApplicationCommandInteractionDataOption{
			sub("grant",
				opt("role", discordgo.ApplicationCommandOptionRole, "222"),
				opt("user", discordgo.ApplicationCommandOptionUser, "111"),
			),
		},
	}
	d := data("admin", group)
	d.Resolved = &discordgo.ApplicationCommandInteractionDataResolved{
		Users: map[string]*discordgo.User{"111": {ID: "111", Username: "alice"}},
		Roles: map[string]*discordgo.Role{"222": {ID: "222", Name: "mods"}},
	}

	inv, err := Parse(testRegistry(t), d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if inv.FullName() != "admin roles grant" {
		t.Errorf("unexpected path %q", inv.FullName())
	}
	if v, _ := inv.Get("user"); v != UserID("111") {
		t.Errorf("expected UserID 111, got %#v", v)
	}
	if u := inv.User("user"); u == nil || u.Username != "alice" {
		t.Errorf("expected resolved alice, got %v", u)
	}
	if r := inv.Role("role"); r == nil || r.Name != "mods" {
		t.Errorf("expected resolved mods, got %v", r)
	}
}

func TestParse_OrderIndependence(t *testing.T) {
	reg := testRegistry(t)
	a := opt("a", discordgo.ApplicationCommandOptionNumber, 1.5)
	b := opt("b", discordgo.ApplicationCommandOptionNumber, 2.5)

	first, err := Parse(reg, data("math", sub("subtract", a, b)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Parse(reg, data("math", sub("subtract", b, a)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, name := range []string{"a", "b"} {
		if first.Float(name) != second.Float(name) {
			t.Errorf("option %q differs: %v vs %v", name, first.Float(name), second.Float(name))
		}
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name     string
		data     discordgo.ApplicationCommandInteractionData
		wantErr  error
		wantName string
	}{
		{
			name:     "unknown command",
			data:     data("dance"),
			wantErr:  ErrUnknownVariant,
			wantName: "dance",
		},
		{
			name:     "unknown sub-command",
			data:     data("math", sub("modulo")),
			wantErr:  ErrUnknownVariant,
			wantName: "modulo",
		},
		{
			name:     "no sub-command selected",
			data:     data("math"),
			wantErr:  ErrMalformedNesting,
			wantName: "math",
		},
		{
			name:     "two sub-commands selected",
			data:     data("math", sub("add"), sub("subtract")),
			wantErr:  ErrAmbiguousSelection,
			wantName: "math",
		},
		{
			name:     "scalar where sub-command expected",
			data:     data("math", opt("add", discordgo.ApplicationCommandOptionNumber, 1.0)),
			wantErr:  ErrMalformedNesting,
			wantName: "add",
		},
		{
			name:     "nested payload inside option group",
			data:     data("echo", sub("message")),
			wantErr:  ErrMalformedNesting,
			wantName: "message",
		},
		{
			name: "duplicate option",
			data: data("echo",
				opt("message", discordgo.ApplicationCommandOptionString, "a"),
				opt("message", discordgo.ApplicationCommandOptionString, "b"),
			),
			wantErr:  ErrMalformedNesting,
			wantName: "message",
		},
		{
			name: "unknown option",
			data: data("echo",
				opt("message", discordgo.ApplicationCommandOptionString, "hi"),
				opt("volume", discordgo.ApplicationCommandOptionInteger, 11.0),
			),
			wantErr:  ErrUnknownOption,
			wantName: "volume",
		},
		{
			name:     "unknown option on unit command",
			data:     data("ping", opt("extra", discordgo.ApplicationCommandOptionString, "x")),
			wantErr:  ErrUnknownOption,
			wantName: "extra",
		},
		{
			name:     "declared type mismatch",
			data:     data("echo", opt("message", discordgo.ApplicationCommandOptionInteger, 5.0)),
			wantErr:  ErrTypeMismatch,
			wantName: "message",
		},
		{
			name:     "value type mismatch",
			data:     data("echo", opt("message", 0, 5.0)),
			wantErr:  ErrTypeMismatch,
			wantName: "message",
		},
		{
			name: "fractional integer",
			data: data("echo",
				opt("message", discordgo.ApplicationCommandOptionString, "hi"),
				opt("times", discordgo.ApplicationCommandOptionInteger, 2.5),
			),
			wantErr:  ErrTypeMismatch,
			wantName: "times",
		},
		{
			name: "integer beyond exact float range",
			data: data("echo",
				opt("message", discordgo.ApplicationCommandOptionString, "hi"),
				opt("times", discordgo.ApplicationCommandOptionInteger, math.Exp2(53)+2),
			),
			wantErr:  ErrTypeMismatch,
			wantName: "times",
		},
		{
			name: "integer at int64 overflow",
			data: data("echo",
				opt("message", discordgo.ApplicationCommandOptionString, "hi"),
				opt("times", discordgo.ApplicationCommandOptionInteger, math.Exp2(63)),
			),
			wantErr:  ErrTypeMismatch,
			wantName: "times",
		},
		{
			name:     "unknown choice",
			data:     data("roll", opt("sides", discordgo.ApplicationCommandOptionInteger, 7.0)),
			wantErr:  ErrUnknownChoice,
			wantName: "sides",
		},
		{
			name: "invalid snowflake",
			data: data("admin", &discordgo.ApplicationCommandInteractionDataOption{
				Name: "roles",
				Type: discordgo.ApplicationCommandOptionSubCommandGroup,
				Options: []*discordgo.ApplicationCommandInteractionDataOption{
					sub("grant",
						opt("user", discordgo.ApplicationCommandOptionUser, "not-an-id"),
						opt("role", discordgo.ApplicationCommandOptionRole, "222"),
					),
				},
			}),
			wantErr:  ErrTypeMismatch,
			wantName: "user",
		},
	}

	reg := testRegistry(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv, err := Parse(reg, tt.data)
			if inv != nil {
				t.Errorf("expected nil invocation on error, got %+v", inv)
			}
			assertParseError(t, err, tt.wantErr, tt.wantName)
		})
	}
}

func TestParse_TypeMismatchDetails(t *testing.T) {
	_, err := Parse(testRegistry(t), data("echo", opt("message", discordgo.ApplicationCommandOptionInteger, 5.0)))

	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if pe.Expected != "string" || pe.Actual != "integer" {
		t.Errorf("expected string/integer, got %q/%q", pe.Expected, pe.Actual)
	}
}

func TestParse_ChoiceAccepted(t *testing.T) {
	inv, err := Parse(testRegistry(t), data("roll", opt("sides", discordgo.ApplicationCommandOptionInteger, 20.0)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inv.Int("sides") != 20 {
		t.Errorf("expected 20, got %d", inv.Int("sides"))
	}
}

func TestParseAutocomplete(t *testing.T) {
	focused := opt("label", discordgo.ApplicationCommandOptionString, "fir")
	focused.Focused = true

	inv, err := ParseAutocomplete(testRegistry(t), data("roll", focused))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if inv.Focused != "label" {
		t.Errorf("expected focused label, got %q", inv.Focused)
	}
	if inv.FocusedValue() != "fir" {
		t.Errorf("expected partial 'fir', got %q", inv.FocusedValue())
	}
}

func TestParseAutocomplete_FocusedIntegerKeepsRawText(t *testing.T) {
	focused := opt("times", discordgo.ApplicationCommandOptionInteger, "1")
	focused.Focused = true

	inv, err := ParseAutocomplete(testRegistry(t), data("echo", focused))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inv.FocusedValue() != "1" {
		t.Errorf("expected raw '1', got %q", inv.FocusedValue())
	}
}

func TestParseNode(t *testing.T) {
	node := &command.Node{
		Name:        "greet",
		Description: "Greet someone.",
		Kind:        command.KindCommand,
		Children: []*command.Node{
			{Name: "who", Description: "Name.", Kind: command.KindString, Required: true},
		},
	}

	inv, err := ParseNode(node, []*discordgo.ApplicationCommandInteractionDataOption{
		opt("who", discordgo.ApplicationCommandOptionString, "bob"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inv.String("who") != "bob" {
		t.Errorf("expected bob, got %q", inv.String("who"))
	}
}

func TestReason(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "ok"},
		{parseErr(ErrMissingRequiredOption, "x", nil), "missing_required_option"},
		{parseErr(ErrAmbiguousSelection, "x", nil), "ambiguous_selection"},
		{&ParseError{Err: ErrCustom, Name: "x", Cause: errors.New("bad")}, "custom"},
		{errors.New("boom"), "other"},
	}

	for _, tt := range tests {
		if got := Reason(tt.err); got != tt.want {
			t.Errorf("Reason(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestParseError_Cause(t *testing.T) {
	cause := errors.New("not a colour")
	err := &ParseError{Err: ErrCustom, Name: "wall", Path: []string{"paint"}, Cause: cause}

	if !errors.Is(err, ErrCustom) || !errors.Is(err, cause) {
		t.Errorf("expected both the sentinel and the cause to match, got %v", err)
	}
	want := `invalid option value "wall" in "paint": not a colour`
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
}

func TestParseError_Message(t *testing.T) {
	err := mismatch("a", []string{"add"}, "number", "string(x)")

	want := `type mismatch "a" in "add": expected number, got string(x)`
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
}

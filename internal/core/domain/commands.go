package domain

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"

	"slashbind/pkg/command"
	"slashbind/pkg/derive"
	"slashbind/pkg/options"
)

var ErrDivisionByZero = errors.New("division by zero")

// Commands is the bot's built-in command surface. Exactly one field is set per
// parsed interaction.
type Commands struct {
	derive.Selector
	Ping    *struct{} `desc:"Check that the bot is alive."`
	Echo    *Echo     `desc:"Repeat a message back."`
	Math    *Math     `desc:"Do some arithmetic."`
	Misc    *Misc     `desc:"Miscellaneous helpers."`
	Roll    *Roll     `desc:"Roll some dice."`
	Whois   *Whois    `desc:"Show who a user is."`
	History *History  `desc:"Show the latest commands used in this server." slash:"admin"`
}

type Echo struct {
	Message string `desc:"The message to repeat." slash:"autocomplete,maxlen=2000"`
}

type Operands struct {
	A float64 `desc:"The first number."`
	B float64 `desc:"The second number."`
}

type Operand struct {
	A float64 `desc:"The number."`
}

type Math struct {
	derive.Selector
	Add      *Operands `desc:"Add two numbers."`
	Subtract *Operands `desc:"Subtract the second number from the first."`
	Multiply *Operands `desc:"Multiply two numbers."`
	Divide   *Operands `desc:"Divide the first number by the second."`
	Negate   *Operand  `desc:"Negate a number."`
}

// Eval computes the selected operation and renders it as an equation.
func (m *Math) Eval() (string, error) {
	switch {
	case m.Add != nil:
		return equation(m.Add.A, "+", m.Add.B, m.Add.A+m.Add.B), nil
	case m.Subtract != nil:
		return equation(m.Subtract.A, "-", m.Subtract.B, m.Subtract.A-m.Subtract.B), nil
	case m.Multiply != nil:
		return equation(m.Multiply.A, "×", m.Multiply.B, m.Multiply.A*m.Multiply.B), nil
	case m.Divide != nil:
		if m.Divide.B == 0 {
			return "", ErrDivisionByZero
		}
		return equation(m.Divide.A, "÷", m.Divide.B, m.Divide.A/m.Divide.B), nil
	case m.Negate != nil:
		return fmt.Sprintf("-(%s) = %s", formatNumber(m.Negate.A), formatNumber(-m.Negate.A)), nil
	}
	return "", errors.New("no math operation selected")
}

func equation(a float64, op string, b, result float64) string {
	return fmt.Sprintf("%s %s %s = %s", formatNumber(a), op, formatNumber(b), formatNumber(result))
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

type Misc struct {
	derive.Selector
	Time     *struct{} `desc:"Show the current time."`
	OneOrTwo *OneOrTwo `desc:"Sum one or two numbers."`
}

type OneOrTwo struct {
	First  float64  `desc:"The first number."`
	Second *float64 `desc:"An optional second number."`
}

func (o *OneOrTwo) Sum() float64 {
	if o.Second == nil {
		return o.First
	}
	return o.First + *o.Second
}

func (o *OneOrTwo) String() string {
	if o.Second == nil {
		return fmt.Sprintf("Only one number: %s", formatNumber(o.First))
	}
	return fmt.Sprintf("%s + %s = %s", formatNumber(o.First), formatNumber(*o.Second), formatNumber(o.Sum()))
}

// Die is the number of sides of a die.
type Die int

func (Die) Choices() []command.Choice {
	return []command.Choice{
		{Name: "d4", Value: Die(4)},
		{Name: "d6", Value: Die(6)},
		{Name: "d8", Value: Die(8)},
		{Name: "d10", Value: Die(10)},
		{Name: "d12", Value: Die(12)},
		{Name: "d20", Value: Die(20)},
	}
}

const maxDice = 10

type Roll struct {
	Sides Die  `desc:"Which die to roll."`
	Count *int `desc:"How many dice to roll." slash:"min=1,max=10"`
}

// Throw rolls the dice with intn, which returns a value in [0, n).
func (r *Roll) Throw(intn func(n int) int) []int {
	if intn == nil {
		intn = rand.IntN
	}
	count := 1
	if r.Count != nil {
		count = min(max(*r.Count, 1), maxDice)
	}

	results := make([]int, count)
	for i := range results {
		results[i] = intn(int(r.Sides)) + 1
	}
	return results
}

// FormatRoll renders results as "🎲 2d6: 3 + 5 = 8".
func FormatRoll(sides Die, results []int) string {
	parts := make([]string, len(results))
	total := 0
	for i, v := range results {
		parts[i] = strconv.Itoa(v)
		total += v
	}
	if len(results) == 1 {
		return fmt.Sprintf("🎲 d%d: %d", sides, total)
	}
	return fmt.Sprintf("🎲 %dd%d: %s = %d", len(results), sides, strings.Join(parts, " + "), total)
}

type Whois struct {
	User options.UserID `desc:"The user to look up."`
}

type History struct {
	Limit *int `desc:"How many entries to show." slash:"min=1,max=25"`
}

package manifest

import (
	"fmt"
	"strings"
	"text/template"

	"slashbind/pkg/command"
	"slashbind/pkg/options"
)

// DefaultResponse is used when neither the command nor the selected sub-command
// declares one.
const DefaultResponse = "Done."

// ResponseData is what a response template sees.
type ResponseData struct {
	// Command is the full invoked name, e.g. "role grant".
	Command string
	Options map[string]any
}

var funcs = template.FuncMap{
	"upper": strings.ToUpper,
	"lower": strings.ToLower,
	"join":  strings.Join,
}

func parseTemplate(name, body string) (*template.Template, error) {
	return template.New(name).Funcs(funcs).Option("missingkey=zero").Parse(body)
}

func checkTemplate(path, body string) error {
	if body == "" {
		return nil
	}
	if _, err := parseTemplate(path, body); err != nil {
		return &command.DefinitionError{Path: path, Err: ErrInvalidResponse, Detail: err.Error()}
	}
	return nil
}

// ResponseFor picks the template for an invocation: the deepest selected sub-command that
// declares one, otherwise the command's own.
func (c *Command) ResponseFor(path []string) string {
	body := c.Response
	opts := c.Options
	for _, name := range path {
		found := false
		for i := range opts {
			if opts[i].Name != name {
				continue
			}
			if opts[i].Response != "" {
				body = opts[i].Response
			}
			opts = opts[i].Options
			found = true
			break
		}
		if !found {
			break
		}
	}
	return body
}

// Render executes the response template for inv.
func (c *Command) Render(inv *options.Invocation) (string, error) {
	body := c.ResponseFor(inv.Path)
	if body == "" {
		return DefaultResponse, nil
	}

	tmpl, err := parseTemplate(inv.FullName(), body)
	if err != nil {
		return "", fmt.Errorf("parse response for %s: %w", inv.FullName(), err)
	}

	data := ResponseData{
		Command: inv.FullName(),
		Options: make(map[string]any, len(inv.Options)),
	}
	for name, v := range inv.Options {
		data.Options[name] = v.Value
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("render response for %s: %w", inv.FullName(), err)
	}
	return sb.String(), nil
}

package command

import (
	"errors"
	"fmt"
	"sync"

	"github.com/bwmarrin/discordgo"
)

// Registry holds the validated top-level commands of one application.
// Lookups are safe for concurrent use; registered nodes must not be mutated.
type Registry struct {
	mu       sync.RWMutex
	commands []*Node
	index    map[string]*Node
}

func NewRegistry() *Registry {
	return &Registry{
		index: make(map[string]*Node),
	}
}

// Register validates and adds top-level commands. Nothing is added if any node fails.
func (r *Registry) Register(nodes ...*Node) error {
	var errs []error
	batch := make(map[string]bool, len(nodes))

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, n := range nodes {
		if n == nil {
			errs = append(errs, defErr("", ErrInvalidNesting, "nil command"))
			continue
		}
		if n.Kind != KindCommand {
			errs = append(errs, defErr(n.Name, ErrInvalidNesting, "top-level node must be a command, got %s", n.Kind))
			continue
		}
		if err := n.Validate(); err != nil {
			errs = append(errs, err)
			continue
		}
		if _, exists := r.index[n.Name]; exists || batch[n.Name] {
			errs = append(errs, defErr(n.Name, ErrDuplicateName, "command already registered"))
			continue
		}
		batch[n.Name] = true
	}

	if total := len(r.commands) + len(batch); total > maxCommands {
		errs = append(errs, defErr("", ErrTooManyOptions, "%d commands, limit is %d", total, maxCommands))
	}

	if len(errs) > 0 {
		return fmt.Errorf("register commands: %w", errors.Join(errs...))
	}

	for _, n := range nodes {
		r.commands = append(r.commands, n)
		r.index[n.Name] = n
	}
	return nil
}

// MustRegister is Register for package-level setup; it panics on error.
func (r *Registry) MustRegister(nodes ...*Node) {
	if err := r.Register(nodes...); err != nil {
		panic(err)
	}
}

func (r *Registry) Lookup(name string) (*Node, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n, ok := r.index[name]
	return n, ok
}

// Commands returns the registered commands in registration order.
func (r *Registry) Commands() []*Node {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*Node(nil), r.commands...)
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.commands)
}

// ApplicationCommands emits the descriptors for every registered command, ready for
// ApplicationCommandBulkOverwrite.
func (r *Registry) ApplicationCommands() []*discordgo.ApplicationCommand {
	nodes := r.Commands()
	cmds := make([]*discordgo.ApplicationCommand, len(nodes))
	for i, n := range nodes {
		cmds[i] = n.ApplicationCommand()
	}
	return cmds
}

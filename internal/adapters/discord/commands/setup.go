package commands

import (
	"fmt"

	"slashbind/pkg/command"
	"slashbind/pkg/manifest"
)

// Setup registers the built-in commands and, when m is non-nil, the manifest commands
// in registry, and routes each of them. Commands carrying default member permissions
// are additionally gated by WithAdmin.
func Setup(registry *command.Registry, router *Router, h *BotHandler, m *manifest.Manifest) error {
	if err := BuiltinCommands.Register(registry); err != nil {
		return fmt.Errorf("register built-in commands: %w", err)
	}
	for _, node := range BuiltinCommands.Commands() {
		router.Register(node.Name, guard(node, h.Handle))
	}
	router.RegisterAutocomplete("echo", h.EchoAutocomplete)

	if m == nil {
		return nil
	}

	nodes, err := m.Nodes()
	if err != nil {
		return fmt.Errorf("manifest commands: %w", err)
	}
	if err := registry.Register(nodes...); err != nil {
		return fmt.Errorf("register manifest commands: %w", err)
	}
	mh := &ManifestHandler{Manifest: m}
	for _, node := range nodes {
		router.Register(node.Name, guard(node, mh.Handle))
	}
	return nil
}

func guard(node *command.Node, handler CommandHandler) CommandHandler {
	handler = WithRecover(handler)
	if node.DefaultMemberPermissions != nil {
		handler = WithAdmin(handler)
	}
	return handler
}

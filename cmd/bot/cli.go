package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"slashbind/internal/adapters/discord/commands"
	"slashbind/internal/config"
	"slashbind/pkg/command"
	"slashbind/pkg/manifest"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "bot",
		Short:        "Discord bot serving slash commands derived from Go types and manifests",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBot(cmd.Context())
		},
	}

	root.AddCommand(newRunCmd(), newSchemaCmd(), newValidateCmd())
	return root
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Connect to Discord, register the commands and serve interactions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBot(cmd.Context())
		},
	}
}

func runBot(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		InitLogger(slog.LevelInfo)
		slog.Error("Failed to load configuration", "error", err)
		return err
	}
	InitLogger(cfg.SlogLevel())

	app, err := NewApp(ctx, cfg)
	if err != nil {
		slog.Error("Failed to initialize application", "error", err)
		return err
	}

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := app.Shutdown(shutdownCtx); err != nil {
			slog.Error("Application shutdown error", "error", err)
		}
	}()

	if err := app.Run(); err != nil {
		slog.Error("Failed to start application", "error", err)
		return err
	}

	WaitForShutdown()
	return nil
}

func newSchemaCmd() *cobra.Command {
	var manifestPath string

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the application command descriptors sent to Discord as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, _, err := buildCommands(&commands.BotHandler{}, nil, manifestPath)
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(registry.ApplicationCommands(), "", "  ")
			if err != nil {
				return fmt.Errorf("encode schema: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return err
		},
	}

	cmd.Flags().StringVarP(&manifestPath, "manifest", "m", "", "YAML or TOML command manifest to include")
	return cmd
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE",
		Short: "Check a command manifest without connecting to Discord",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, _, err := buildCommands(&commands.BotHandler{}, nil, args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: ok, %d commands\n", args[0], registry.Len()-len(commands.BuiltinCommands.Commands()))
			return err
		},
	}
}

// buildCommands registers the built-in commands and, when manifestPath is set, the
// manifest commands in a fresh registry, routed through a new router.
func buildCommands(h *commands.BotHandler, recorder commands.Recorder, manifestPath string) (*command.Registry, *commands.Router, error) {
	var m *manifest.Manifest
	if manifestPath != "" {
		var err error
		if m, err = manifest.Load(manifestPath); err != nil {
			return nil, nil, err
		}
	}

	registry := command.NewRegistry()
	router := commands.NewRouter(registry, recorder)
	if err := commands.Setup(registry, router, h, m); err != nil {
		return nil, nil, err
	}
	slog.Info("Commands registered", "commands", registry.Len())
	return registry, router, nil
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"slashbind/internal/adapters/discord"
	"slashbind/internal/adapters/discord/commands"
	"slashbind/internal/adapters/storage/memory"
	"slashbind/internal/adapters/storage/postgres"
	"slashbind/internal/config"
	"slashbind/internal/core/ports"
	"slashbind/internal/core/services"
	"slashbind/internal/metrics"

	"github.com/bwmarrin/discordgo"
)

type App struct {
	config        *config.Config
	store         ports.InvocationRepository
	discord       *discordgo.Session
	router        *commands.Router
	commands      []*discordgo.ApplicationCommand
	registered    []*discordgo.ApplicationCommand
	metricsServer *http.Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	store, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	history := services.NewHistoryService(store, cfg.HistorySize)
	registry, router, err := buildCommands(&commands.BotHandler{History: history}, history, cfg.CommandsFile)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("build commands: %w", err)
	}

	session, err := discord.NewSession(cfg)
	if err != nil {
		store.Close()
		return nil, err
	}

	session.AddHandler(commands.ReadyHandler)
	session.AddHandler(router.HandleFunc())

	return &App{
		config:   cfg,
		store:    store,
		discord:  session,
		router:   router,
		commands: registry.ApplicationCommands(),
	}, nil
}

func openStore(ctx context.Context, cfg *config.Config) (ports.InvocationRepository, error) {
	if cfg.DatabaseURL == "" {
		slog.Info("DATABASE_URL is not set, keeping command history in memory")
		return memory.NewStore(memory.DefaultCapacity), nil
	}

	store, err := postgres.NewPostgresStore(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("Failed to connect to storage", "error", err)
		return nil, err
	}
	return store, nil
}

func (a *App) Run() error {
	if err := a.discord.Open(); err != nil {
		slog.Error("Failed to open discord session", "error", err)
		return err
	}

	a.registered = commands.RegisterCommands(a.discord, a.commands, a.discord.State.User.ID, a.config.DiscordGuildID)
	a.startMetricsServer()

	slog.Info("Slash command bot is online!", "commands", len(a.registered))
	return nil
}

func (a *App) startMetricsServer() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())

	a.metricsServer = &http.Server{
		Addr:              a.config.MetricsAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("Metrics server listening", "addr", a.config.MetricsAddr)
		if err := a.metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Metrics server failed", "error", err)
		}
	}()
}

func (a *App) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down...")
	var errs []error

	if a.discord != nil {
		if a.config.CleanupCommands && a.discord.State != nil && a.discord.State.User != nil {
			commands.CleanupCommands(a.discord, a.registered, a.discord.State.User.ID, a.config.DiscordGuildID)
		}
		if err := a.discord.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close discord session: %w", err))
		}
	}

	if a.metricsServer != nil {
		if err := a.metricsServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown metrics server: %w", err))
		}
	}

	if a.store != nil {
		a.store.Close()
	}

	return errors.Join(errs...)
}

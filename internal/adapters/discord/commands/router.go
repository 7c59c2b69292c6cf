package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"slashbind/internal/adapters/discord/formatting"
	"slashbind/internal/core/domain"
	"slashbind/internal/metrics"
	"slashbind/pkg/command"
	"slashbind/pkg/options"

	"github.com/bwmarrin/discordgo"
)

// CommandHandler runs a chat-input command whose options already parsed. It replies
// itself, including on failure; the returned error only decides the recorded outcome.
type CommandHandler func(s DiscordSession, i *discordgo.InteractionCreate, inv *options.Invocation) error

// AutocompleteHandler suggests values for the focused option of inv.
type AutocompleteHandler func(ctx context.Context, i *discordgo.InteractionCreate, inv *options.Invocation) []*discordgo.ApplicationCommandOptionChoice

// Recorder stores the audit trail of handled interactions.
type Recorder interface {
	Record(ctx context.Context, inv domain.Invocation) (domain.Invocation, error)
}

type Router struct {
	registry     *command.Registry
	routes       map[string]CommandHandler
	autocomplete map[string]AutocompleteHandler
	recorder     Recorder
	timeout      time.Duration
}

// NewRouter parses every interaction against registry. recorder may be nil.
func NewRouter(registry *command.Registry, recorder Recorder) *Router {
	return &Router{
		registry:     registry,
		routes:       make(map[string]CommandHandler),
		autocomplete: make(map[string]AutocompleteHandler),
		recorder:     recorder,
		timeout:      5 * time.Second,
	}
}

func (r *Router) Register(name string, handler CommandHandler) {
	r.routes[name] = handler
}

func (r *Router) RegisterAutocomplete(name string, handler AutocompleteHandler) {
	r.autocomplete[name] = handler
}

func (r *Router) Handle(s DiscordSession, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		r.handleCommand(s, i)
	case discordgo.InteractionApplicationCommandAutocomplete:
		r.handleAutocomplete(s, i)
	}
}

func (r *Router) HandleFunc() func(*discordgo.Session, *discordgo.InteractionCreate) {
	return func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		r.Handle(s, i)
	}
}

func (r *Router) handleCommand(s DiscordSession, i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()
	if data.CommandType != 0 && data.CommandType != discordgo.ChatApplicationCommand {
		return
	}
	slog.Info("Router received interaction", "type", i.Type, "name", data.Name)

	inv, err := options.Parse(r.registry, data)
	if err != nil {
		reason := options.Reason(err)
		slog.Warn("Failed to parse interaction", "name", data.Name, "reason", reason, "error", err)
		metrics.ParseErrors.WithLabelValues(reason).Inc()
		metrics.InteractionsTotal.WithLabelValues(data.Name, reason).Inc()
		r.record(i, data.Name, nil, reason)
		respond(s, i, formatting.MsgParseError(err), true)
		return
	}

	handler, ok := r.routes[inv.Command]
	if !ok {
		slog.Warn("No handler found for command", "name", inv.Command)
		metrics.InteractionsTotal.WithLabelValues(inv.Command, "unhandled").Inc()
		respond(s, i, formatting.MsgUnknownCommand, true)
		return
	}

	start := time.Now()
	err = handler(s, i, inv)
	metrics.HandlerDuration.WithLabelValues(inv.Command).Observe(time.Since(start).Seconds())

	status := handlerStatus(err)
	if status == domain.StatusHandlerError {
		slog.Error("Command handler failed", "command", inv.FullName(), "error", err)
	}
	metrics.InteractionsTotal.WithLabelValues(inv.Command, status).Inc()

	r.record(i, inv.FullName(), optionValues(inv), status)
}

func handlerStatus(err error) string {
	switch {
	case err == nil:
		return domain.StatusOK
	case errors.Is(err, ErrForbidden):
		return domain.StatusForbidden
	default:
		return domain.StatusHandlerError
	}
}

func (r *Router) handleAutocomplete(s DiscordSession, i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()

	inv, err := options.ParseAutocomplete(r.registry, data)
	if err != nil {
		slog.Warn("Failed to parse autocomplete interaction", "name", data.Name, "error", err)
		metrics.ParseErrors.WithLabelValues(options.Reason(err)).Inc()
		return
	}

	handler, ok := r.autocomplete[inv.Command]
	if !ok {
		slog.Warn("No autocomplete handler found for command", "name", inv.Command)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	_ = respondAutocomplete(s, i, handler(ctx, i, inv))
}

func (r *Router) record(i *discordgo.InteractionCreate, name string, opts map[string]any, status string) {
	if r.recorder == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	_, err := r.recorder.Record(ctx, domain.Invocation{
		GuildID:   i.GuildID,
		ChannelID: i.ChannelID,
		UserID:    invokingUserID(i),
		Command:   name,
		Options:   opts,
		Status:    status,
	})
	if err != nil {
		slog.Error("Failed to record invocation", "command", name, "error", err)
	}
}

func optionValues(inv *options.Invocation) map[string]any {
	out := make(map[string]any, len(inv.Options))
	for name, v := range inv.Options {
		out[name] = v.Value
	}
	return out
}

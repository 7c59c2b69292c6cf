package domain

import (
	"time"

	"github.com/google/uuid"
)

// Invocation is the audit record of one handled interaction.
type Invocation struct {
	ID        uuid.UUID
	GuildID   string
	ChannelID string
	UserID    string
	// Command is the full invoked name, e.g. "math add".
	Command string
	Options map[string]any
	// Status is "ok", a handler outcome, or the parse failure reason.
	Status    string
	CreatedAt time.Time
}

const (
	StatusOK           = "ok"
	StatusForbidden    = "forbidden"
	StatusHandlerError = "handler_error"
)

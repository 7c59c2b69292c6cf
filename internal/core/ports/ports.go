package ports

import (
	"context"

	"slashbind/internal/core/domain"
)

type InvocationRepository interface {
	SaveInvocation(ctx context.Context, inv domain.Invocation) error
	// RecentInvocations returns at most limit records for the guild, newest first.
	RecentInvocations(ctx context.Context, guildID string, limit int) ([]domain.Invocation, error)
	Close()
}

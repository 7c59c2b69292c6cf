package services

import (
	"context"
	"fmt"
	"time"

	"slashbind/internal/core/domain"
	"slashbind/internal/core/ports"

	"github.com/google/uuid"
)

type HistoryService struct {
	repo  ports.InvocationRepository
	limit int
	now   func() time.Time
}

// NewHistoryService keeps at most limit entries in every Recent answer.
func NewHistoryService(repo ports.InvocationRepository, limit int) *HistoryService {
	return &HistoryService{repo: repo, limit: limit, now: time.Now}
}

// Record stores an invocation, assigning its ID and timestamp.
func (s *HistoryService) Record(ctx context.Context, inv domain.Invocation) (domain.Invocation, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return inv, fmt.Errorf("generate invocation id: %w", err)
	}
	inv.ID = id
	inv.CreatedAt = s.now().UTC()

	if err := s.repo.SaveInvocation(ctx, inv); err != nil {
		return inv, fmt.Errorf("save invocation: %w", err)
	}
	return inv, nil
}

// Recent returns the latest invocations in a guild. A non-positive or oversized
// limit falls back to the configured one.
func (s *HistoryService) Recent(ctx context.Context, guildID string, limit int) ([]domain.Invocation, error) {
	if limit <= 0 || limit > s.limit {
		limit = s.limit
	}
	invs, err := s.repo.RecentInvocations(ctx, guildID, limit)
	if err != nil {
		return nil, fmt.Errorf("recent invocations: %w", err)
	}
	return invs, nil
}

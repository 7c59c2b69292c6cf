package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"slashbind/internal/core/domain"

	"github.com/google/uuid"
)

type mockRepo struct {
	saveFunc   func(ctx context.Context, inv domain.Invocation) error
	recentFunc func(ctx context.Context, guildID string, limit int) ([]domain.Invocation, error)
}

func (m *mockRepo) SaveInvocation(ctx context.Context, inv domain.Invocation) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, inv)
	}
	return nil
}

func (m *mockRepo) RecentInvocations(ctx context.Context, guildID string, limit int) ([]domain.Invocation, error) {
	if m.recentFunc != nil {
		return m.recentFunc(ctx, guildID, limit)
	}
	return nil, nil
}

func (m *mockRepo) Close() {}

func TestHistoryService_Record(t *testing.T) {
	var saved domain.Invocation
	repo := &mockRepo{saveFunc: func(_ context.Context, inv domain.Invocation) error {
		saved = inv
		return nil
	}}
	svc := NewHistoryService(repo, 10)
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	got, err := svc.Record(context.Background(), domain.Invocation{GuildID: "g", Command: "ping", Status: domain.StatusOK})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID == uuid.Nil || saved.ID != got.ID {
		t.Error("expected a generated ID to be stored")
	}
	if !saved.CreatedAt.Equal(fixed) {
		t.Errorf("expected timestamp %v, got %v", fixed, saved.CreatedAt)
	}
}

func TestHistoryService_RecordError(t *testing.T) {
	dbErr := errors.New("connection refused")
	svc := NewHistoryService(&mockRepo{saveFunc: func(context.Context, domain.Invocation) error { return dbErr }}, 10)

	if _, err := svc.Record(context.Background(), domain.Invocation{}); !errors.Is(err, dbErr) {
		t.Errorf("expected wrapped repository error, got %v", err)
	}
}

func TestHistoryService_RecentLimit(t *testing.T) {
	tests := []struct {
		name      string
		requested int
		want      int
	}{
		{"within bounds", 5, 5},
		{"zero uses configured", 0, 10},
		{"too many uses configured", 25, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotLimit int
			repo := &mockRepo{recentFunc: func(_ context.Context, guildID string, limit int) ([]domain.Invocation, error) {
				gotLimit = limit
				return nil, nil
			}}
			svc := NewHistoryService(repo, 10)
			if _, err := svc.Recent(context.Background(), "g", tt.requested); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if gotLimit != tt.want {
				t.Errorf("expected limit %d, got %d", tt.want, gotLimit)
			}
		})
	}
}

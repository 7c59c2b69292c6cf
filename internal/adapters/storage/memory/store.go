package memory

import (
	"context"
	"maps"
	"sync"

	"slashbind/internal/core/domain"
)

// DefaultCapacity bounds how many invocations a guild keeps.
const DefaultCapacity = 100

// Store keeps the latest invocations of every guild in memory. It is used when no
// DATABASE_URL is configured.
type Store struct {
	mu       sync.RWMutex
	capacity int
	byGuild  map[string][]domain.Invocation
}

func NewStore(capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Store{capacity: capacity, byGuild: make(map[string][]domain.Invocation)}
}

func (s *Store) SaveInvocation(_ context.Context, inv domain.Invocation) error {
	inv.Options = maps.Clone(inv.Options)

	s.mu.Lock()
	defer s.mu.Unlock()

	list := append(s.byGuild[inv.GuildID], inv)
	if len(list) > s.capacity {
		list = append([]domain.Invocation(nil), list[len(list)-s.capacity:]...)
	}
	s.byGuild[inv.GuildID] = list
	return nil
}

func (s *Store) RecentInvocations(_ context.Context, guildID string, limit int) ([]domain.Invocation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := s.byGuild[guildID]
	if limit > len(list) {
		limit = len(list)
	}

	out := make([]domain.Invocation, 0, max(limit, 0))
	for i := len(list) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, list[i])
	}
	return out, nil
}

func (s *Store) Close() {}

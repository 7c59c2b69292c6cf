package postgres

import (
	"context"
	"fmt"

	"slashbind/internal/core/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresStore struct {
	pool *pgxpool.Pool
	q    *Queries
}

// NewPostgresStore connects, pings and creates the invocations table if needed.
func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	q := NewQueries(pool)
	if err := q.Migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &PostgresStore{pool: pool, q: q}, nil
}

func (s *PostgresStore) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *PostgresStore) SaveInvocation(ctx context.Context, inv domain.Invocation) error {
	opts := inv.Options
	if opts == nil {
		opts = map[string]any{}
	}

	err := s.q.InsertInvocation(ctx, InsertInvocationParams{
		ID:        inv.ID,
		GuildID:   inv.GuildID,
		ChannelID: inv.ChannelID,
		UserID:    inv.UserID,
		Command:   inv.Command,
		Options:   opts,
		Status:    inv.Status,
		CreatedAt: inv.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("insert invocation: %w", err)
	}
	return nil
}

func (s *PostgresStore) RecentInvocations(ctx context.Context, guildID string, limit int) ([]domain.Invocation, error) {
	rows, err := s.q.ListRecentInvocations(ctx, guildID, int32(limit))
	if err != nil {
		return nil, fmt.Errorf("list recent invocations: %w", err)
	}

	result := make([]domain.Invocation, 0, len(rows))
	for _, row := range rows {
		result = append(result, domain.Invocation{
			ID:        row.ID,
			GuildID:   row.GuildID,
			ChannelID: row.ChannelID,
			UserID:    row.UserID,
			Command:   row.Command,
			Options:   row.Options,
			Status:    row.Status,
			CreatedAt: row.CreatedAt,
		})
	}
	return result, nil
}

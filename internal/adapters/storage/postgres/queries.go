package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, arguments ...any) (pgx.Rows, error)
}

type Queries struct {
	db DBTX
}

func NewQueries(db DBTX) *Queries {
	return &Queries{db: db}
}

const createInvocationsTable = `
CREATE TABLE IF NOT EXISTS invocations (
    id          UUID PRIMARY KEY,
    guild_id    TEXT NOT NULL,
    channel_id  TEXT NOT NULL,
    user_id     TEXT NOT NULL,
    command     TEXT NOT NULL,
    options     JSONB NOT NULL DEFAULT '{}'::jsonb,
    status      TEXT NOT NULL,
    created_at  TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS invocations_guild_created_idx ON invocations (guild_id, created_at DESC);
`

func (q *Queries) Migrate(ctx context.Context) error {
	_, err := q.db.Exec(ctx, createInvocationsTable)
	return err
}

const insertInvocation = `
INSERT INTO invocations (id, guild_id, channel_id, user_id, command, options, status, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`

type InsertInvocationParams struct {
	ID        uuid.UUID
	GuildID   string
	ChannelID string
	UserID    string
	Command   string
	Options   map[string]any
	Status    string
	CreatedAt time.Time
}

func (q *Queries) InsertInvocation(ctx context.Context, arg InsertInvocationParams) error {
	_, err := q.db.Exec(ctx, insertInvocation,
		arg.ID,
		arg.GuildID,
		arg.ChannelID,
		arg.UserID,
		arg.Command,
		arg.Options,
		arg.Status,
		arg.CreatedAt,
	)
	return err
}

const listRecentInvocations = `
SELECT id, guild_id, channel_id, user_id, command, options, status, created_at
FROM invocations
WHERE guild_id = $1
ORDER BY created_at DESC
LIMIT $2
`

type InvocationRow struct {
	ID        uuid.UUID
	GuildID   string
	ChannelID string
	UserID    string
	Command   string
	Options   map[string]any
	Status    string
	CreatedAt time.Time
}

func (q *Queries) ListRecentInvocations(ctx context.Context, guildID string, limit int32) ([]InvocationRow, error) {
	rows, err := q.db.Query(ctx, listRecentInvocations, guildID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []InvocationRow
	for rows.Next() {
		var i InvocationRow
		if err := rows.Scan(
			&i.ID,
			&i.GuildID,
			&i.ChannelID,
			&i.UserID,
			&i.Command,
			&i.Options,
			&i.Status,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

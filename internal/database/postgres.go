package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

const createPlayersSQL = `
CREATE TABLE IF NOT EXISTS players (
	user_id             TEXT PRIMARY KEY,
	correct_moves       INT    NOT NULL DEFAULT 0,
	wrong_moves         INT    NOT NULL DEFAULT 0,
	hands_played        INT    NOT NULL DEFAULT 0,
	credits             BIGINT NOT NULL DEFAULT 0,
	longest_win_streak  INT    NOT NULL DEFAULT 0,
	longest_loss_streak INT    NOT NULL DEFAULT 0,
	created_at          TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at          TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_players_hands ON players(hands_played DESC);
`

// IsPostgresURL reports whether a DATABASE_URL points at Postgres rather
// than a SQLite file.
func IsPostgresURL(url string) bool {
	return strings.HasPrefix(url, "postgres://") || strings.HasPrefix(url, "postgresql://")
}

// NewPostgres connects and makes sure the players table exists.
func NewPostgres(ctx context.Context, url string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := pool.Exec(ctx, createPlayersSQL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}
	return pool, nil
}

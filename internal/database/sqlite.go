package database

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

type DB struct {
	*sql.DB
}

func New(path string) (*DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err = migrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	return &DB{db}, nil
}

func migrate(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS players (
		user_id TEXT PRIMARY KEY,
		correct_moves INTEGER NOT NULL DEFAULT 0,
		wrong_moves INTEGER NOT NULL DEFAULT 0,
		hands_played INTEGER NOT NULL DEFAULT 0,
		credits INTEGER NOT NULL DEFAULT 0,
		longest_win_streak INTEGER NOT NULL DEFAULT 0,
		longest_loss_streak INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_players_hands ON players(hands_played);
	`

	_, err := db.Exec(schema)
	return err
}

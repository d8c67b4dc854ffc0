package player

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository stores records in the players table of a Postgres
// database. A nil repository loads fresh records and drops writes.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

var _ Repository = (*PostgresRepository)(nil)

func (r *PostgresRepository) Load(ctx context.Context, userID string, startCredits int64) (*Record, error) {
	rec := &Record{UserID: userID, Credits: startCredits}
	if r == nil || r.pool == nil {
		return rec, nil
	}

	err := r.pool.QueryRow(ctx, `
		SELECT correct_moves, wrong_moves, hands_played, credits,
			longest_win_streak, longest_loss_streak
		FROM players WHERE user_id = $1`,
		userID).Scan(
		&rec.CorrectMoves, &rec.WrongMoves, &rec.HandsPlayed, &rec.Credits,
		&rec.LongestWinStreak, &rec.LongestLossStreak,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		if _, err := r.pool.Exec(ctx, `
			INSERT INTO players (user_id, credits) VALUES ($1, $2)
			ON CONFLICT (user_id) DO NOTHING`,
			userID, startCredits); err != nil {
			return nil, fmt.Errorf("failed to create player: %w", err)
		}
		return rec, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	return rec, nil
}

func (r *PostgresRepository) Save(ctx context.Context, rec *Record) error {
	if r == nil || r.pool == nil {
		return nil
	}
	if rec.UserID == "" {
		return ErrNoUser
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO players (
			user_id, correct_moves, wrong_moves, hands_played, credits,
			longest_win_streak, longest_loss_streak
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id) DO UPDATE SET
			correct_moves = EXCLUDED.correct_moves,
			wrong_moves = EXCLUDED.wrong_moves,
			hands_played = EXCLUDED.hands_played,
			credits = EXCLUDED.credits,
			longest_win_streak = EXCLUDED.longest_win_streak,
			longest_loss_streak = EXCLUDED.longest_loss_streak,
			updated_at = now()`,
		rec.UserID, rec.CorrectMoves, rec.WrongMoves, rec.HandsPlayed, rec.Credits,
		rec.LongestWinStreak, rec.LongestLossStreak)
	if err != nil {
		return fmt.Errorf("failed to save player: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Top(ctx context.Context, limit int) ([]Standing, error) {
	if r == nil || r.pool == nil {
		return []Standing{}, nil
	}
	rows, err := r.pool.Query(ctx, `
		SELECT user_id, hands_played, credits, correct_moves, wrong_moves
		FROM players
		WHERE hands_played > 0
		ORDER BY hands_played DESC, user_id
		LIMIT $1`,
		clampLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Standing
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.UserID, &rec.HandsPlayed, &rec.Credits, &rec.CorrectMoves, &rec.WrongMoves); err != nil {
			return nil, err
		}
		out = append(out, standing(rec))
	}
	return out, rows.Err()
}

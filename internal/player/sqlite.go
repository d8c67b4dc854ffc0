package player

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

var _ Repository = (*SQLiteRepository)(nil)

func (r *SQLiteRepository) Load(ctx context.Context, userID string, startCredits int64) (*Record, error) {
	rec := &Record{UserID: userID}

	err := r.db.QueryRowContext(ctx, `
		SELECT correct_moves, wrong_moves, hands_played, credits,
			longest_win_streak, longest_loss_streak
		FROM players WHERE user_id = ?
	`, userID).Scan(
		&rec.CorrectMoves, &rec.WrongMoves, &rec.HandsPlayed, &rec.Credits,
		&rec.LongestWinStreak, &rec.LongestLossStreak,
	)

	if errors.Is(err, sql.ErrNoRows) {
		rec.Credits = startCredits

		_, err = r.db.ExecContext(ctx, `
			INSERT INTO players (user_id, credits)
			VALUES (?, ?)
		`, userID, rec.Credits)

		if err != nil {
			return nil, fmt.Errorf("failed to create player: %w", err)
		}
		return rec, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}

	return rec, nil
}

func (r *SQLiteRepository) Save(ctx context.Context, rec *Record) error {
	if rec.UserID == "" {
		return ErrNoUser
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO players (
			user_id, correct_moves, wrong_moves, hands_played, credits,
			longest_win_streak, longest_loss_streak
		) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			correct_moves = excluded.correct_moves,
			wrong_moves = excluded.wrong_moves,
			hands_played = excluded.hands_played,
			credits = excluded.credits,
			longest_win_streak = excluded.longest_win_streak,
			longest_loss_streak = excluded.longest_loss_streak,
			updated_at = CURRENT_TIMESTAMP
	`, rec.UserID, rec.CorrectMoves, rec.WrongMoves, rec.HandsPlayed, rec.Credits,
		rec.LongestWinStreak, rec.LongestLossStreak)

	if err != nil {
		return fmt.Errorf("failed to save player: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Top(ctx context.Context, limit int) ([]Standing, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT user_id, hands_played, credits, correct_moves, wrong_moves
		FROM players
		WHERE hands_played > 0
		ORDER BY hands_played DESC, user_id
		LIMIT ?
	`, clampLimit(limit))
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

func standing(rec Record) Standing {
	return Standing{
		UserID:      rec.UserID,
		HandsPlayed: rec.HandsPlayed,
		Credits:     rec.Credits,
		Accuracy:    rec.Accuracy(),
	}
}

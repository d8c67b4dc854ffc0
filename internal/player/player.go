package player

import (
	"context"
	"errors"
	"math"
)

// ErrNoUser is returned when a record is saved without a user id.
var ErrNoUser = errors.New("player: empty user id")

// Record is the stored aggregate for one account.
type Record struct {
	UserID            string `json:"userId"`
	CorrectMoves      int    `json:"correctMoves"`
	WrongMoves        int    `json:"wrongMoves"`
	HandsPlayed       int    `json:"handsPlayed"`
	Credits           int64  `json:"credits"`
	LongestWinStreak  int    `json:"longestWinStreak"`
	LongestLossStreak int    `json:"longestLossStreak"`
}

// Accuracy is the share of correct decisions as a whole percentage.
func (r Record) Accuracy() int {
	total := r.CorrectMoves + r.WrongMoves
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(r.CorrectMoves) / float64(total) * 100))
}

// Standing is one leaderboard row.
type Standing struct {
	UserID      string `json:"userId"`
	HandsPlayed int    `json:"handsPlayed"`
	Credits     int64  `json:"credits"`
	Accuracy    int    `json:"accuracy"`
}

type Repository interface {
	// Load returns the record for userID, creating it with startCredits
	// when the account has never played.
	Load(ctx context.Context, userID string, startCredits int64) (*Record, error)
	// Save upserts the whole record, so repeating it is harmless.
	Save(ctx context.Context, r *Record) error
	// Top lists players by hands played, most first.
	Top(ctx context.Context, limit int) ([]Standing, error)
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return 10
	}
	if limit > 100 {
		return 100
	}
	return limit
}

package game

import (
	"context"
	"errors"
	"fmt"
)

// Shoe supplies shuffled cards. Draw either returns exactly count cards or
// an error, never a partial draw.
type Shoe interface {
	Draw(ctx context.Context, count int) ([]Card, error)
	Remaining() int
	// Reshuffle replaces the shoe with a fresh one.
	Reshuffle(ctx context.Context) error
}

// SupplyError is returned when the shoe fails to deliver cards.
type SupplyError struct {
	Op  string
	Err error
}

func (e *SupplyError) Error() string {
	return fmt.Sprintf("shoe %s: %v", e.Op, e.Err)
}

func (e *SupplyError) Unwrap() error { return e.Err }

// draw wraps shoe failures in a SupplyError and guards against shoes that
// return short.
func draw(ctx context.Context, s Shoe, count int) ([]Card, error) {
	cards, err := s.Draw(ctx, count)
	if err != nil {
		var se *SupplyError
		if errors.As(err, &se) {
			return nil, err
		}
		return nil, &SupplyError{Op: "draw", Err: err}
	}
	if len(cards) != count {
		return nil, &SupplyError{Op: "draw", Err: fmt.Errorf("wanted %d cards, got %d", count, len(cards))}
	}
	return cards, nil
}

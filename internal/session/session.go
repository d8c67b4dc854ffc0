package session

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/charmbracelet/log"

	"highrollers/internal/auth"
	"highrollers/internal/game"
	"highrollers/internal/player"
	"highrollers/internal/stats"
)

// ErrSignedOut is returned when credit play is asked for without an identity.
var ErrSignedOut = errors.New("sign in to play for credits")

// Saver queues a record for persistence without blocking.
type Saver interface {
	Enqueue(rec player.Record)
}

// Session is one player's seat: a table, its tallies and who is sitting
// at it. Anonymous sessions only play practice rounds and are never saved.
type Session struct {
	key      string
	table    *game.Table
	stats    *stats.Accumulator
	identity atomic.Pointer[auth.Identity]

	repo         player.Repository
	saver        Saver
	startCredits int64
	logger       *log.Logger
}

func (s *Session) Key() string {
	return s.key
}

func (s *Session) Table() *game.Table {
	return s.table
}

func (s *Session) Stats() stats.Summary {
	return s.stats.Summary()
}

// Identity is nil for an anonymous session.
func (s *Session) Identity() *auth.Identity {
	return s.identity.Load()
}

// SignIn loads the stored tallies for id and switches to credit play. Any
// round in progress is abandoned.
func (s *Session) SignIn(ctx context.Context, id *auth.Identity) error {
	if id == nil || id.UserID == "" {
		return ErrSignedOut
	}
	rec, err := s.repo.Load(ctx, id.UserID, s.startCredits)
	if err != nil {
		return fmt.Errorf("load player: %w", err)
	}

	s.table.Reset()
	s.stats.Restore(*rec)
	s.identity.Store(id)
	if err := s.table.SetMode(game.Credit); err != nil {
		return err
	}
	s.logger.Info("Signed in", "session", s.key, "user", id.UserID, "credits", rec.Credits)
	return nil
}

// SignOut forgets the identity and zeroes the tallies.
func (s *Session) SignOut() {
	if id := s.identity.Swap(nil); id != nil {
		s.logger.Info("Signed out", "session", s.key, "user", id.UserID)
	}
	s.table.Reset()
	s.stats.Reset()
	if err := s.table.SetMode(game.Practice); err != nil {
		s.logger.Warn("Practice mode not set", "session", s.key, "err", err)
	}
}

// SetPractice switches between practice and credit rounds. It only takes
// effect between rounds.
func (s *Session) SetPractice(practice bool) error {
	if practice {
		return s.table.SetMode(game.Practice)
	}
	if s.Identity() == nil {
		return ErrSignedOut
	}
	return s.table.SetMode(game.Credit)
}

// roundFinished runs under the table lock.
func (s *Session) roundFinished(o game.Outcome) {
	s.logger.Debug("Round finished",
		"session", s.key,
		"round", o.RoundID,
		"mode", o.Mode,
		"stake", o.TotalStake,
		"net", o.Net())

	id := s.identity.Load()
	if id == nil || s.saver == nil {
		return
	}
	s.saver.Enqueue(s.stats.Snapshot(id.UserID))
}

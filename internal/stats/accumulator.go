// Package stats keeps the running decision and round tallies for a session.
package stats

import (
	"math"
	"sync"

	"highrollers/internal/game"
	"highrollers/internal/player"
)

// Summary is what the stats panels render.
type Summary struct {
	CorrectMoves      int     `json:"correctMoves"`
	WrongMoves        int     `json:"wrongMoves"`
	HandsPlayed       int     `json:"handsPlayed"`
	Credits           int64   `json:"credits"`
	WinStreak         int     `json:"winStreak"`
	LossStreak        int     `json:"lossStreak"`
	LongestWinStreak  int     `json:"longestWinStreak"`
	LongestLossStreak int     `json:"longestLossStreak"`
	Accuracy          float64 `json:"accuracy"`
}

// Percent is accuracy as a rounded whole percentage.
func (s Summary) Percent() int {
	return int(math.Round(s.Accuracy * 100))
}

// Accumulator counts events from a game.Table. It doubles as the table's
// credit wallet.
type Accumulator struct {
	mu sync.Mutex

	correct     int
	wrong       int
	hands       int
	credits     int64
	winStreak   int
	lossStreak  int
	longestWin  int
	longestLoss int
}

var (
	_ game.Recorder = (*Accumulator)(nil)
	_ game.Wallet   = (*Accumulator)(nil)
)

func New() *Accumulator {
	return &Accumulator{}
}

// FromRecord starts an accumulator from stored totals. Current streaks are
// not stored and start at zero.
func FromRecord(r player.Record) *Accumulator {
	a := New()
	a.Restore(r)
	return a
}

func (a *Accumulator) RecordDecision(correct bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if correct {
		a.correct++
	} else {
		a.wrong++
	}
}

// RecordRound counts one finished round however many hands it had. Only an
// all-win or all-loss round extends a streak; anything else breaks both.
func (a *Accumulator) RecordRound(o game.Outcome) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.hands++
	switch {
	case o.AllWon():
		a.winStreak++
		a.lossStreak = 0
	case o.AllLost():
		a.lossStreak++
		a.winStreak = 0
	default:
		a.winStreak = 0
		a.lossStreak = 0
	}
	a.longestWin = max(a.longestWin, a.winStreak)
	a.longestLoss = max(a.longestLoss, a.lossStreak)
}

func (a *Accumulator) Balance() int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.credits
}

func (a *Accumulator) Adjust(delta int64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.credits += delta
}

// Accuracy is correct / (correct + wrong), or 0 before any decision.
func (a *Accumulator) Accuracy() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.accuracy()
}

func (a *Accumulator) accuracy() float64 {
	total := a.correct + a.wrong
	if total == 0 {
		return 0
	}
	return float64(a.correct) / float64(total)
}

func (a *Accumulator) Summary() Summary {
	a.mu.Lock()
	defer a.mu.Unlock()
	return Summary{
		CorrectMoves:      a.correct,
		WrongMoves:        a.wrong,
		HandsPlayed:       a.hands,
		Credits:           a.credits,
		WinStreak:         a.winStreak,
		LossStreak:        a.lossStreak,
		LongestWinStreak:  a.longestWin,
		LongestLossStreak: a.longestLoss,
		Accuracy:          a.accuracy(),
	}
}

// Snapshot returns the persisted part of the tallies for userID.
func (a *Accumulator) Snapshot(userID string) player.Record {
	a.mu.Lock()
	defer a.mu.Unlock()
	return player.Record{
		UserID:            userID,
		CorrectMoves:      a.correct,
		WrongMoves:        a.wrong,
		HandsPlayed:       a.hands,
		Credits:           a.credits,
		LongestWinStreak:  a.longestWin,
		LongestLossStreak: a.longestLoss,
	}
}

func (a *Accumulator) Restore(r player.Record) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.correct = r.CorrectMoves
	a.wrong = r.WrongMoves
	a.hands = r.HandsPlayed
	a.credits = r.Credits
	a.longestWin = r.LongestWinStreak
	a.longestLoss = r.LongestLossStreak
	a.winStreak = 0
	a.lossStreak = 0
}

// Reset zeroes everything, as on sign-out.
func (a *Accumulator) Reset() {
	a.Restore(player.Record{})
}

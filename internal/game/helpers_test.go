package game

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// cards parses a space separated list of card codes.
func cards(t testing.TB, s string) []Card {
	t.Helper()
	var out []Card
	for _, f := range strings.Fields(s) {
		c, err := ParseCard(f)
		require.NoError(t, err)
		out = append(out, c)
	}
	return out
}

var errShoeDown = errors.New("shoe unavailable")

// scriptedShoe deals a fixed sequence. failOn makes the nth Draw call fail.
type scriptedShoe struct {
	cards      []Card
	calls      int
	failOn     int
	reshuffles int
	remaining  int
}

func newScriptedShoe(t testing.TB, s string) *scriptedShoe {
	return &scriptedShoe{cards: cards(t, s), remaining: 1000}
}

func (s *scriptedShoe) Draw(_ context.Context, n int) ([]Card, error) {
	s.calls++
	if s.failOn == s.calls {
		return nil, errShoeDown
	}
	if n > len(s.cards) {
		return nil, errors.New("script exhausted")
	}
	out := append([]Card(nil), s.cards[:n]...)
	s.cards = s.cards[n:]
	return out, nil
}

func (s *scriptedShoe) Remaining() int { return s.remaining }

func (s *scriptedShoe) Reshuffle(context.Context) error {
	s.reshuffles++
	s.remaining = 1000
	return nil
}

func always(a Action) Advisor {
	return AdvisorFunc(func(Situation) Action { return a })
}

type purse struct{ balance int64 }

func (p *purse) Balance() int64     { return p.balance }
func (p *purse) Adjust(delta int64) { p.balance += delta }

type tally struct {
	correct, wrong int
	rounds         []Outcome
}

func (r *tally) RecordDecision(correct bool) {
	if correct {
		r.correct++
	} else {
		r.wrong++
	}
}

func (r *tally) RecordRound(o Outcome) { r.rounds = append(r.rounds, o) }

func testRules() Rules {
	r := DefaultRules()
	r.ReshuffleAt = 0
	return r
}

func creditTable(t testing.TB, shoe Shoe, balance int64, opts ...Option) (*Table, *purse, *tally) {
	t.Helper()
	w := &purse{balance: balance}
	rec := &tally{}
	opts = append([]Option{WithWallet(w), WithRecorder(rec)}, opts...)
	tbl := NewTable(shoe, always(Stand), testRules(), opts...)
	require.NoError(t, tbl.SetMode(Credit))
	return tbl, w, rec
}

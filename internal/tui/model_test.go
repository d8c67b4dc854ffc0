package tui

import (
	"context"
	"io"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"highrollers/internal/game"
	"highrollers/internal/session"
	"highrollers/internal/strategy"
)

type stackedShoe struct {
	cards []game.Card
	n     int
}

func (s *stackedShoe) Draw(_ context.Context, count int) ([]game.Card, error) {
	out := make([]game.Card, count)
	for i := range out {
		out[i] = s.cards[s.n%len(s.cards)]
		s.n++
	}
	return out, nil
}

func (s *stackedShoe) Remaining() int                  { return 1000 }
func (s *stackedShoe) Reshuffle(context.Context) error { return nil }

func newTestModel(t *testing.T, cards ...game.Card) *Model {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
	rules := game.DefaultRules()
	rules.ReshuffleAt = 0
	sessions := session.NewManager(session.Config{
		Rules:   rules,
		Advisor: strategy.Basic{},
		NewShoe: func() game.Shoe { return &stackedShoe{cards: cards} },
		Logger:  logger,
	})
	return NewModel(context.Background(), sessions, logger)
}

func key(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

// press sends a key and, if it started an action, delivers its result.
func press(t *testing.T, m *Model, r rune) {
	t.Helper()
	_, cmd := m.Update(key(r))
	if cmd == nil {
		return
	}
	msg := cmd()
	_, ok := msg.(actionDoneMsg)
	require.True(t, ok, "unexpected message %T", msg)
	m.Update(msg)
}

func tenNineVsSevenKing() []game.Card {
	return []game.Card{
		game.NewCard(game.Ten, game.Spades),
		game.NewCard(game.Seven, game.Hearts),
		game.NewCard(game.Nine, game.Diamonds),
		game.NewCard(game.King, game.Clubs),
	}
}

func TestDealAndStand(t *testing.T) {
	m := newTestModel(t, tenNineVsSevenKing()...)
	assert.Contains(t, m.View(), "No cards dealt yet.")

	press(t, m, 'd')
	assert.Equal(t, "playing", m.view.Phase)
	assert.Contains(t, m.status, "h hit · s stand · x double")
	out := m.View()
	assert.Contains(t, out, "7♥ ??")
	assert.Contains(t, out, "10♠ 9♦")

	press(t, m, 's')
	assert.Equal(t, "finished", m.view.Phase)
	assert.False(t, m.failed)
	out = m.View()
	assert.Contains(t, out, "WIN")
	assert.Contains(t, out, "✓ Hand 1: stand is correct.")
	assert.Contains(t, out, "Hands     1")
	assert.Contains(t, out, "Accuracy  100%")
}

func TestKeysIgnoredWhileBusy(t *testing.T) {
	m := newTestModel(t, tenNineVsSevenKing()...)

	_, first := m.Update(key('d'))
	require.NotNil(t, first)
	_, second := m.Update(key('h'))
	assert.Nil(t, second)

	m.Update(first())
	assert.False(t, m.busy)
}

func TestRejectedActionShowsError(t *testing.T) {
	m := newTestModel(t, tenNineVsSevenKing()...)

	press(t, m, 'p')
	assert.True(t, m.failed)
	assert.Contains(t, m.status, "Not allowed")
	assert.Equal(t, "waiting", m.view.Phase)
}

func TestDealerDrawsAreForwarded(t *testing.T) {
	// player 10,8 against dealer 6,10; the dealer draws a 5
	m := newTestModel(t,
		game.NewCard(game.Ten, game.Spades),
		game.NewCard(game.Six, game.Hearts),
		game.NewCard(game.Eight, game.Diamonds),
		game.NewCard(game.Ten, game.Clubs),
		game.NewCard(game.Five, game.Clubs),
	)
	press(t, m, 'd')
	press(t, m, 's')

	msg := m.listen()()
	drawn, ok := msg.(dealerCardMsg)
	require.True(t, ok)
	assert.Len(t, drawn.view.Dealer, 3)

	_, cmd := m.Update(drawn)
	assert.NotNil(t, cmd, "keeps listening")
}

func TestQuit(t *testing.T) {
	m := newTestModel(t, tenNineVsSevenKing()...)

	_, cmd := m.Update(key('q'))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, m.View())
}

package shoe

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"

	"highrollers/internal/game"
)

// ErrExhausted is returned when a draw asks for more cards than remain.
var ErrExhausted = errors.New("shoe exhausted")

// Local is an in-process shoe of several shuffled 52 card decks.
type Local struct {
	mu    sync.Mutex
	decks int
	rng   *rand.Rand
	cards []game.Card
}

// NewLocal builds a shuffled shoe. A nil rng seeds from the global source.
func NewLocal(decks int, rng *rand.Rand) *Local {
	if decks < 1 {
		decks = 1
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	l := &Local{decks: decks, rng: rng}
	l.fill()
	return l
}

func (l *Local) fill() {
	l.cards = make([]game.Card, 0, 52*l.decks)
	for i := 0; i < l.decks; i++ {
		for _, s := range game.Suits {
			for _, r := range game.Ranks {
				l.cards = append(l.cards, game.NewCard(r, s))
			}
		}
	}
	l.rng.Shuffle(len(l.cards), func(i, j int) {
		l.cards[i], l.cards[j] = l.cards[j], l.cards[i]
	})
}

func (l *Local) Draw(_ context.Context, count int) ([]game.Card, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if count < 1 {
		return nil, fmt.Errorf("draw %d cards: count must be positive", count)
	}
	if count > len(l.cards) {
		return nil, fmt.Errorf("draw %d of %d: %w", count, len(l.cards), ErrExhausted)
	}
	out := make([]game.Card, count)
	copy(out, l.cards[:count])
	l.cards = l.cards[count:]
	return out, nil
}

func (l *Local) Remaining() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.cards)
}

func (l *Local) Reshuffle(context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.fill()
	return nil
}

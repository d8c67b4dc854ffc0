package shoe

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"highrollers/internal/game"
)

func TestLocalHoldsEveryCard(t *testing.T) {
	l := NewLocal(5, rand.New(rand.NewSource(1)))
	require.Equal(t, 260, l.Remaining())

	all, err := l.Draw(context.Background(), 260)
	require.NoError(t, err)

	counts := make(map[game.Card]int)
	for _, c := range all {
		counts[c]++
	}
	assert.Len(t, counts, 52)
	for c, n := range counts {
		assert.Equal(t, 5, n, "card %s", c)
	}
	assert.Zero(t, l.Remaining())
}

func TestLocalSeedIsDeterministic(t *testing.T) {
	a, err := NewLocal(2, rand.New(rand.NewSource(7))).Draw(context.Background(), 10)
	require.NoError(t, err)
	b, err := NewLocal(2, rand.New(rand.NewSource(7))).Draw(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestLocalExhausted(t *testing.T) {
	ctx := context.Background()
	l := NewLocal(1, rand.New(rand.NewSource(1)))

	_, err := l.Draw(ctx, 50)
	require.NoError(t, err)

	_, err = l.Draw(ctx, 3)
	assert.ErrorIs(t, err, ErrExhausted)
	assert.Equal(t, 2, l.Remaining(), "a failed draw takes nothing")

	require.NoError(t, l.Reshuffle(ctx))
	assert.Equal(t, 52, l.Remaining())
}

func TestLocalDrivesTable(t *testing.T) {
	ctx := context.Background()
	l := NewLocal(1, rand.New(rand.NewSource(3)))
	rules := game.DefaultRules()
	tbl := game.NewTable(l, game.AdvisorFunc(func(game.Situation) game.Action { return game.Stand }), rules)

	for i := 0; i < 50; i++ {
		require.NoError(t, tbl.Deal(ctx, 0))
		for tbl.Round().Phase == game.Playing {
			require.NoError(t, tbl.Stand(ctx))
		}
		require.Equal(t, game.Finished, tbl.Round().Phase)
	}
}

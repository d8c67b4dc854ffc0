package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTotal(t *testing.T) {
	tests := []struct {
		hand    string
		total   int
		bust    bool
		soft    bool
		natural bool
	}{
		{hand: "AS KD", total: 21, soft: true, natural: true},
		{hand: "AS AD", total: 12, soft: true},
		{hand: "AS AD AH AC", total: 14, soft: true},
		{hand: "AS 6D", total: 17, soft: true},
		{hand: "AS 6D 10C", total: 17},
		{hand: "10S 6D", total: 16},
		{hand: "10S 6D 10C", total: 26, bust: true},
		{hand: "7S 7D 7C", total: 21},
		{hand: "AS 5D 5C", total: 21, soft: true},
		{hand: "AS AD 9C", total: 21, soft: true},
		{hand: "KS QD AC", total: 21},
		{hand: "KS QD AC AH", total: 22, bust: true},
	}
	for _, tt := range tests {
		t.Run(tt.hand, func(t *testing.T) {
			hand := cards(t, tt.hand)
			total, bust := Total(hand)
			assert.Equal(t, tt.total, total)
			assert.Equal(t, tt.bust, bust)
			assert.Equal(t, tt.bust, IsBust(hand))
			assert.Equal(t, tt.soft, IsSoft(hand))
			assert.Equal(t, tt.natural, IsNatural(hand))
		})
	}
}

// bestByEnumeration tries every ace as 1 or 11 and keeps the best total.
func bestByEnumeration(hand []Card) int {
	totals := []int{0}
	for _, c := range hand {
		var next []int
		for _, t := range totals {
			if c.Rank == Ace {
				next = append(next, t+1, t+11)
			} else {
				next = append(next, t+c.Rank.Pip())
			}
		}
		totals = next
	}
	best, lowest := -1, totals[0]
	for _, t := range totals {
		if t <= 21 && t > best {
			best = t
		}
		if t < lowest {
			lowest = t
		}
	}
	if best < 0 {
		return lowest
	}
	return best
}

func TestTotalMatchesEnumeration(t *testing.T) {
	var walk func(hand []Card, depth int)
	walk = func(hand []Card, depth int) {
		if len(hand) > 0 {
			want := bestByEnumeration(hand)
			got, bust := Total(hand)
			require.Equal(t, want, got, "hand %v", hand)
			require.Equal(t, want > 21, bust, "hand %v", hand)
		}
		if depth == 0 {
			return
		}
		for _, r := range Ranks {
			walk(append(hand[:len(hand):len(hand)], NewCard(r, Spades)), depth-1)
		}
	}
	walk(nil, 4)
}

func TestHandPayout(t *testing.T) {
	tests := []struct {
		name   string
		hand   Hand
		payout int64
	}{
		{name: "win", hand: Hand{Stake: 10, Result: Win}, payout: 20},
		{name: "natural", hand: Hand{Stake: 10, Result: Win, Natural: true}, payout: 25},
		{name: "odd natural rounds down", hand: Hand{Stake: 5, Result: Win, Natural: true}, payout: 12},
		{name: "single credit natural pays even money", hand: Hand{Stake: 1, Result: Win, Natural: true}, payout: 2},
		{name: "push", hand: Hand{Stake: 10, Result: Push}, payout: 10},
		{name: "lose", hand: Hand{Stake: 10, Result: Lose}, payout: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.payout, tt.hand.Payout())
		})
	}
}

func TestIsPairByPipValue(t *testing.T) {
	assert.True(t, NewHand(0, cards(t, "10S KD")...).IsPair())
	assert.True(t, NewHand(0, cards(t, "AS AD")...).IsPair())
	assert.False(t, NewHand(0, cards(t, "9S 10D")...).IsPair())
	assert.False(t, NewHand(0, cards(t, "8S 8D 8C")...).IsPair())
}

func TestParseCard(t *testing.T) {
	c, err := ParseCard("0h")
	require.NoError(t, err)
	assert.Equal(t, NewCard(Ten, Hearts), c)
	assert.Equal(t, "0H", c.Code())

	c, err = ParseCard("AS")
	require.NoError(t, err)
	assert.Equal(t, "A♠", c.String())

	_, err = ParseCard("ZZ")
	assert.Error(t, err)
	_, err = ParseCard("AX")
	assert.Error(t, err)
}

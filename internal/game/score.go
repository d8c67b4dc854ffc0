package game

// points is the largest contribution of a card to a hand total.
func points(r Rank) int {
	if r == Ace {
		return 11
	}
	return r.Pip()
}

// Total returns the best total for cards: the highest total not above 21
// when one exists, otherwise the lowest possible total, which is a bust.
func Total(cards []Card) (value int, bust bool) {
	score, aces := rawTotal(cards)
	for score > 21 && aces > 0 {
		score -= 10
		aces--
	}
	return score, score > 21
}

// rawTotal counts every ace as 11.
func rawTotal(cards []Card) (score, aces int) {
	for _, c := range cards {
		score += points(c.Rank)
		if c.Rank == Ace {
			aces++
		}
	}
	return score, aces
}

// IsSoft reports whether the best total still counts an ace as 11.
func IsSoft(cards []Card) bool {
	score, aces := rawTotal(cards)
	for score > 21 && aces > 0 {
		score -= 10
		aces--
	}
	return aces > 0 && score <= 21
}

// IsNatural reports a two card 21.
func IsNatural(cards []Card) bool {
	if len(cards) != 2 {
		return false
	}
	v, _ := Total(cards)
	return v == 21
}

func IsBust(cards []Card) bool {
	_, bust := Total(cards)
	return bust
}

// Pips returns the strategy lookup values of cards, aces as 1.
func Pips(cards []Card) []int {
	out := make([]int, len(cards))
	for i, c := range cards {
		out[i] = c.Rank.Pip()
	}
	return out
}

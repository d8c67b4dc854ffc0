package game

// Rules are the table rules in force. The same value is handed to the
// Advisor so its recommendations match the game actually being played.
type Rules struct {
	Decks int
	// ReshuffleAt is the low-water mark: a fresh shoe is requested before
	// a deal when fewer cards remain.
	ReshuffleAt int
	HitSoft17   bool
	// MaxHands caps the number of player hands after splitting.
	MaxHands int
	// MaxSplits is the number of splits allowed per round.
	MaxSplits        int
	DoubleAfterSplit bool
	MinBet           int64
	MaxBet           int64
	// SplitNaturalsPayBonus makes a two card 21 on a split hand a natural.
	SplitNaturalsPayBonus bool
}

func DefaultRules() Rules {
	return Rules{
		Decks:            5,
		ReshuffleAt:      30,
		MaxHands:         4,
		MaxSplits:        1,
		DoubleAfterSplit: true,
		MinBet:           1,
	}
}

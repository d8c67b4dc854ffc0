package game

type Result int

const (
	Undecided Result = iota
	Win
	Lose
	Push
)

func (r Result) String() string {
	switch r {
	case Win:
		return "win"
	case Lose:
		return "lose"
	case Push:
		return "push"
	}
	return "undecided"
}

// Hand is one player seat. Cards keep draw order.
type Hand struct {
	Cards     []Card
	Stake     int64
	Result    Result
	Natural   bool
	Doubled   bool
	FromSplit bool
}

func NewHand(stake int64, cards ...Card) *Hand {
	h := &Hand{
		Cards: make([]Card, 0, 8),
		Stake: stake,
	}
	h.Cards = append(h.Cards, cards...)
	return h
}

func (h *Hand) Score() int {
	v, _ := Total(h.Cards)
	return v
}

func (h *Hand) IsBust() bool {
	return IsBust(h.Cards)
}

func (h *Hand) Resolved() bool {
	return h.Result != Undecided
}

// IsPair reports two cards of equal pip value, so 10-K counts as a pair.
func (h *Hand) IsPair() bool {
	return len(h.Cards) == 2 && h.Cards[0].Rank.Pip() == h.Cards[1].Rank.Pip()
}

// Payout is what the hand returns at settlement. The stake was taken when
// the bet was placed, so a loss pays nothing.
func (h *Hand) Payout() int64 {
	switch h.Result {
	case Win:
		p := h.Stake * 2
		if h.Natural {
			p += h.Stake / 2
		}
		return p
	case Push:
		return h.Stake
	}
	return 0
}

func (h *Hand) clone() *Hand {
	c := *h
	c.Cards = append([]Card(nil), h.Cards...)
	return &c
}

package game

type Phase int

const (
	Waiting Phase = iota
	Dealing
	Playing
	DealerTurn
	Finished
)

func (p Phase) String() string {
	switch p {
	case Waiting:
		return "waiting"
	case Dealing:
		return "dealing"
	case Playing:
		return "playing"
	case DealerTurn:
		return "dealer"
	case Finished:
		return "finished"
	}
	return "unknown"
}

type Mode int

const (
	Practice Mode = iota
	Credit
)

func (m Mode) String() string {
	if m == Credit {
		return "credit"
	}
	return "practice"
}

// Round is one deal. It is replaced when the next deal starts.
type Round struct {
	ID       string
	Mode     Mode
	Phase    Phase
	Dealer   []Card
	Hands    []*Hand
	Current  int
	Splits   int
	Feedback []Feedback
	Outcome  *Outcome
}

// HasSplit reports whether a split already happened this round.
func (r *Round) HasSplit() bool {
	return r.Splits > 0
}

func (r *Round) current() *Hand {
	if r.Current < 0 || r.Current >= len(r.Hands) {
		return nil
	}
	return r.Hands[r.Current]
}

func (r *Round) upcard() Card {
	return r.Dealer[0]
}

func (r *Round) allResolved() bool {
	for _, h := range r.Hands {
		if !h.Resolved() {
			return false
		}
	}
	return true
}

// TotalStake is the sum of every hand's stake, including doubles and splits.
func (r *Round) TotalStake() int64 {
	var total int64
	for _, h := range r.Hands {
		total += h.Stake
	}
	return total
}

func (r *Round) clone() *Round {
	c := *r
	c.Dealer = append([]Card(nil), r.Dealer...)
	c.Hands = make([]*Hand, len(r.Hands))
	for i, h := range r.Hands {
		c.Hands[i] = h.clone()
	}
	c.Feedback = append([]Feedback(nil), r.Feedback...)
	if r.Outcome != nil {
		o := *r.Outcome
		o.Hands = append([]HandOutcome(nil), r.Outcome.Hands...)
		c.Outcome = &o
	}
	return &c
}

type HandOutcome struct {
	Result  Result
	Stake   int64
	Payout  int64
	Natural bool
}

// Outcome is the settled result of a finished round.
type Outcome struct {
	RoundID     string
	Mode        Mode
	Hands       []HandOutcome
	DealerTotal int
	TotalStake  int64
	Payout      int64
}

// Net is the credit change over the whole round.
func (o Outcome) Net() int64 {
	return o.Payout - o.TotalStake
}

// AllWon reports a round where every hand won. A round with any push is
// neither all won nor all lost.
func (o Outcome) AllWon() bool {
	return o.all(Win)
}

func (o Outcome) AllLost() bool {
	return o.all(Lose)
}

func (o Outcome) all(r Result) bool {
	if len(o.Hands) == 0 {
		return false
	}
	for _, h := range o.Hands {
		if h.Result != r {
			return false
		}
	}
	return true
}

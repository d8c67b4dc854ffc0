package game

import "context"

// dealerHits is the dealer's fixed drawing rule: below 17 always, and on a
// soft 17 when the table says so.
func (t *Table) dealerHits(cards []Card) bool {
	total, _ := Total(cards)
	if total < 17 {
		return true
	}
	return total == 17 && t.rules.HitSoft17 && IsSoft(cards)
}

// playDealer draws the dealer out even when every player hand is already
// decided, then resolves and settles the round.
func (t *Table) playDealer(ctx context.Context, r *Round, p *pending) error {
	for t.dealerHits(r.Dealer) {
		t.wait()
		cards, err := draw(ctx, t.shoe, 1)
		if err != nil {
			return err
		}
		r.Dealer = append(r.Dealer, cards[0])
		if t.onDealerCard != nil {
			t.onDealerCard(t.view(r))
		}
	}
	t.resolve(r)
	t.finish(r, p)
	return nil
}

func (t *Table) wait() {
	if t.pace <= 0 {
		return
	}
	fired := make(chan struct{})
	t.clock.AfterFunc(t.pace, func() { close(fired) }, "dealer")
	<-fired
}

func (t *Table) resolve(r *Round) {
	dealerTotal, dealerBust := Total(r.Dealer)
	dealerNatural := IsNatural(r.Dealer)

	for _, h := range r.Hands {
		if h.Result == Lose {
			continue
		}
		total, bust := Total(h.Cards)
		natural := t.isNatural(r, h)
		h.Natural = natural
		switch {
		case bust:
			h.Result = Lose
		case natural:
			h.Result = Win
		case dealerNatural:
			h.Result = Lose
		case dealerBust || total > dealerTotal:
			h.Result = Win
		case total == dealerTotal:
			h.Result = Push
		default:
			h.Result = Lose
		}
	}
}

func (t *Table) finish(r *Round, p *pending) {
	r.Phase = Finished
	dealerTotal, _ := Total(r.Dealer)
	o := Outcome{
		RoundID:     r.ID,
		Mode:        r.Mode,
		Hands:       make([]HandOutcome, 0, len(r.Hands)),
		DealerTotal: dealerTotal,
		TotalStake:  r.TotalStake(),
	}
	for _, h := range r.Hands {
		ho := HandOutcome{
			Result:  h.Result,
			Stake:   h.Stake,
			Payout:  h.Payout(),
			Natural: h.Natural,
		}
		o.Payout += ho.Payout
		o.Hands = append(o.Hands, ho)
	}
	r.Outcome = &o
	p.finished = true
}

package game

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/coder/quartz"
	"github.com/google/uuid"
)

// Recorder receives statistics events from the table.
type Recorder interface {
	RecordDecision(correct bool)
	RecordRound(o Outcome)
}

// Wallet holds the credit balance staked in credit mode.
type Wallet interface {
	Balance() int64
	Adjust(delta int64)
}

type nopRecorder struct{}

func (nopRecorder) RecordDecision(bool) {}
func (nopRecorder) RecordRound(Outcome) {}

type Option func(*Table)

func WithRecorder(r Recorder) Option {
	return func(t *Table) { t.recorder = r }
}

func WithWallet(w Wallet) Option {
	return func(t *Table) { t.wallet = w }
}

// WithDealerPace waits d on clock before each dealer draw. The wait only
// paces the display; it never changes the order of events.
func WithDealerPace(clock quartz.Clock, d time.Duration) Option {
	return func(t *Table) {
		t.clock = clock
		t.pace = d
	}
}

// OnDealerCard is called after every dealer draw. It runs with the table
// locked and must not call back into the table.
func OnDealerCard(fn func(View)) Option {
	return func(t *Table) { t.onDealerCard = fn }
}

// OnRoundFinished is called once per round after settlement, with the
// table locked.
func OnRoundFinished(fn func(Outcome)) Option {
	return func(t *Table) { t.onFinished = fn }
}

// Table runs rounds for a single player seat. All methods are safe for
// concurrent use; actions are serialized so at most one draw is ever
// outstanding.
type Table struct {
	mu       sync.Mutex
	shoe     Shoe
	advisor  Advisor
	rules    Rules
	recorder Recorder
	wallet   Wallet
	mode     Mode
	round    *Round

	clock quartz.Clock
	pace  time.Duration

	onDealerCard func(View)
	onFinished   func(Outcome)
}

func NewTable(shoe Shoe, advisor Advisor, rules Rules, opts ...Option) *Table {
	t := &Table{
		shoe:     shoe,
		advisor:  advisor,
		rules:    rules,
		recorder: nopRecorder{},
		clock:    quartz.NewReal(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// pending collects the side effects of an action. They are applied only
// after the action has fully succeeded.
type pending struct {
	debit    int64
	decision *Feedback
	finished bool
}

func (t *Table) Rules() Rules {
	return t.rules
}

func (t *Table) Mode() Mode {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.mode
}

// SetMode switches between practice and credit play between rounds.
func (t *Table) SetMode(m Mode) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.inProgress() {
		return ErrNotAllowed
	}
	if m == Credit && t.wallet == nil {
		return ErrNotAllowed
	}
	t.mode = m
	return nil
}

// Reset discards the current round without settling it.
func (t *Table) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.round = nil
}

func (t *Table) inProgress() bool {
	return t.round != nil && t.round.Phase != Waiting && t.round.Phase != Finished
}

// Round returns a copy of the current round, or nil before the first deal.
func (t *Table) Round() *Round {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.round == nil {
		return nil
	}
	return t.round.clone()
}

func (t *Table) View() View {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.view(t.round)
}

func (t *Table) view(r *Round) View {
	v := viewOf(r, t.mode)
	if r != nil && r.Phase == Playing {
		v.CanDouble = t.checkDouble(r) == nil
		v.CanSplit = t.checkSplit(r) == nil
	}
	return v
}

func (t *Table) CanDouble() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.round != nil && t.round.Phase == Playing && t.checkDouble(t.round) == nil
}

func (t *Table) CanSplit() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.round != nil && t.round.Phase == Playing && t.checkSplit(t.round) == nil
}

// Deal starts a new round. In credit mode the bet is escrowed up front and
// paid back at settlement.
func (t *Table) Deal(ctx context.Context, bet int64) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.inProgress() {
		return ErrNotAllowed
	}
	if t.mode == Credit {
		if bet < t.rules.MinBet || (t.rules.MaxBet > 0 && bet > t.rules.MaxBet) {
			return ErrInvalidBet
		}
		if bet > t.wallet.Balance() {
			return ErrInsufficientCredits
		}
	} else {
		bet = 0
	}

	if t.shoe.Remaining() < t.rules.ReshuffleAt {
		if err := t.shoe.Reshuffle(ctx); err != nil {
			var se *SupplyError
			if errors.As(err, &se) {
				return err
			}
			return &SupplyError{Op: "reshuffle", Err: err}
		}
	}

	cards, err := draw(ctx, t.shoe, 4)
	if err != nil {
		return err
	}

	r := &Round{
		ID:     uuid.NewString(),
		Mode:   t.mode,
		Phase:  Dealing,
		Dealer: []Card{cards[1], cards[3]},
		Hands:  []*Hand{NewHand(bet, cards[0], cards[2])},
	}
	p := &pending{debit: bet}

	if IsNatural(r.Dealer) {
		// The player gets no decisions against a dealer natural.
		r.Phase = DealerTurn
		if err := t.playDealer(ctx, r, p); err != nil {
			return err
		}
	} else {
		t.markNaturals(r)
		if r.allResolved() {
			t.finish(r, p)
		} else {
			r.Phase = Playing
			r.Current = 0
		}
	}

	t.round = r
	t.commit(r, p)
	return nil
}

func (t *Table) Hit(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.act(func(r *Round, p *pending) error {
		h := r.current()
		rec := t.recommend(r)
		cards, err := draw(ctx, t.shoe, 1)
		if err != nil {
			return err
		}
		h.Cards = append(h.Cards, cards[0])
		t.decide(r, p, Hit, rec)
		if h.IsBust() {
			h.Result = Lose
			return t.advance(ctx, r, p)
		}
		return nil
	})
}

func (t *Table) Stand(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.act(func(r *Round, p *pending) error {
		t.decide(r, p, Stand, t.recommend(r))
		return t.advance(ctx, r, p)
	})
}

// Double doubles the current hand's stake and draws exactly one card. The
// hand is finished afterwards whatever its total.
func (t *Table) Double(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.act(func(r *Round, p *pending) error {
		if err := t.checkDouble(r); err != nil {
			return err
		}
		h := r.current()
		rec := t.recommend(r)
		cards, err := draw(ctx, t.shoe, 1)
		if err != nil {
			return err
		}
		p.debit = h.Stake
		h.Stake *= 2
		h.Doubled = true
		h.Cards = append(h.Cards, cards[0])
		t.decide(r, p, Double, rec)
		if h.IsBust() {
			h.Result = Lose
		}
		return t.advance(ctx, r, p)
	})
}

// Split turns the current pair into two hands, each topped up with a fresh
// card and carrying the original stake.
func (t *Table) Split(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.act(func(r *Round, p *pending) error {
		if err := t.checkSplit(r); err != nil {
			return err
		}
		h := r.current()
		rec := t.recommend(r)
		cards, err := draw(ctx, t.shoe, 2)
		if err != nil {
			return err
		}

		first := NewHand(h.Stake, h.Cards[0], cards[0])
		second := NewHand(h.Stake, h.Cards[1], cards[1])
		first.FromSplit, second.FromSplit = true, true

		hands := make([]*Hand, 0, len(r.Hands)+1)
		hands = append(hands, r.Hands[:r.Current]...)
		hands = append(hands, first, second)
		hands = append(hands, r.Hands[r.Current+1:]...)
		r.Hands = hands
		r.Splits++
		p.debit = h.Stake

		t.decide(r, p, Split, rec)
		t.markNaturals(r)
		if r.current().Resolved() {
			return t.advance(ctx, r, p)
		}
		return nil
	})
}

// act runs fn on a copy of the current round and swaps the copy in only
// when fn succeeds, so a failed draw leaves the round untouched.
func (t *Table) act(fn func(r *Round, p *pending) error) error {
	if t.round == nil || t.round.Phase != Playing {
		return ErrNotAllowed
	}
	r := t.round.clone()
	p := &pending{}
	if err := fn(r, p); err != nil {
		return err
	}
	t.round = r
	t.commit(r, p)
	return nil
}

func (t *Table) commit(r *Round, p *pending) {
	if r.Mode == Credit && p.debit > 0 {
		t.wallet.Adjust(-p.debit)
	}
	if p.decision != nil {
		t.recorder.RecordDecision(p.decision.Correct)
	}
	if !p.finished {
		return
	}
	if r.Mode == Credit {
		t.wallet.Adjust(r.Outcome.Payout)
	}
	t.recorder.RecordRound(*r.Outcome)
	if t.onFinished != nil {
		t.onFinished(*r.Outcome)
	}
}

func (t *Table) checkDouble(r *Round) error {
	h := r.current()
	if h == nil || len(h.Cards) != 2 {
		return ErrDoubleNotAllowed
	}
	if h.FromSplit && !t.rules.DoubleAfterSplit {
		return ErrDoubleNotAllowed
	}
	if r.Mode == Credit && h.Stake > t.wallet.Balance() {
		return ErrInsufficientCredits
	}
	return nil
}

func (t *Table) checkSplit(r *Round) error {
	h := r.current()
	if h == nil || !h.IsPair() {
		return ErrSplitNotAllowed
	}
	if len(r.Hands) >= t.rules.MaxHands || r.Splits >= t.rules.MaxSplits {
		return ErrSplitNotAllowed
	}
	if r.Mode == Credit && h.Stake > t.wallet.Balance() {
		return ErrInsufficientCredits
	}
	return nil
}

func (t *Table) recommend(r *Round) Action {
	h := r.current()
	return t.advisor.Recommend(Situation{
		PlayerPips:   Pips(h.Cards),
		DealerUpcard: r.upcard().Rank.Pip(),
		HandCount:    len(r.Hands),
		FirstAction:  len(h.Cards) == 2,
		Rules:        t.rules,
	})
}

func (t *Table) decide(r *Round, p *pending, chosen, recommended Action) {
	f := newFeedback(r.Current, chosen, recommended)
	r.Feedback = append(r.Feedback, f)
	p.decision = &f
}

// isNatural: a two card 21 pays 3:2 only on the sole unsplit hand unless
// the table pays the bonus on split hands too.
func (t *Table) isNatural(r *Round, h *Hand) bool {
	if !IsNatural(h.Cards) {
		return false
	}
	if h.FromSplit {
		return t.rules.SplitNaturalsPayBonus
	}
	return len(r.Hands) == 1
}

func (t *Table) markNaturals(r *Round) {
	for _, h := range r.Hands {
		if !h.Resolved() && t.isNatural(r, h) {
			h.Natural = true
			h.Result = Win
		}
	}
}

// advance moves to the next undecided hand, or hands over to the dealer.
func (t *Table) advance(ctx context.Context, r *Round, p *pending) error {
	for i := r.Current + 1; i < len(r.Hands); i++ {
		if !r.Hands[i].Resolved() {
			r.Current = i
			return nil
		}
	}
	r.Phase = DealerTurn
	return t.playDealer(ctx, r, p)
}

package game

// CardView is a card as shown to a client. A hidden card carries no rank.
type CardView struct {
	Rank   string `json:"rank,omitempty"`
	Suit   string `json:"suit,omitempty"`
	Code   string `json:"code,omitempty"`
	Image  string `json:"image,omitempty"`
	Hidden bool   `json:"hidden,omitempty"`
}

type HandView struct {
	Cards   []CardView `json:"cards"`
	Total   int        `json:"total"`
	Soft    bool       `json:"soft"`
	Stake   int64      `json:"stake"`
	Result  string     `json:"result"`
	Natural bool       `json:"natural,omitempty"`
	Doubled bool       `json:"doubled,omitempty"`
}

type FeedbackView struct {
	Hand        int    `json:"hand"`
	Action      string `json:"action"`
	Recommended string `json:"recommended"`
	Correct     bool   `json:"correct"`
	Message     string `json:"message"`
}

type OutcomeView struct {
	Results     []string `json:"results"`
	DealerTotal int      `json:"dealerTotal"`
	TotalStake  int64    `json:"totalStake"`
	Payout      int64    `json:"payout"`
	Net         int64    `json:"net"`
}

// View is a read-only snapshot of the table for rendering. The dealer's
// hole card stays hidden until the player's decisions are over.
type View struct {
	RoundID     string         `json:"roundId,omitempty"`
	Mode        string         `json:"mode"`
	Phase       string         `json:"phase"`
	Dealer      []CardView     `json:"dealer"`
	DealerTotal int            `json:"dealerTotal"`
	Hands       []HandView     `json:"hands"`
	Current     int            `json:"current"`
	HasSplit    bool           `json:"hasSplit"`
	CanDouble   bool           `json:"canDouble"`
	CanSplit    bool           `json:"canSplit"`
	Feedback    []FeedbackView `json:"feedback,omitempty"`
	Outcome     *OutcomeView   `json:"outcome,omitempty"`
}

func cardView(c Card) CardView {
	return CardView{
		Rank:  c.Rank.String(),
		Suit:  string(c.Suit),
		Code:  c.Code(),
		Image: c.Image,
	}
}

func viewOf(r *Round, mode Mode) View {
	if r == nil {
		return View{Mode: mode.String(), Phase: Waiting.String()}
	}
	v := View{
		RoundID:  r.ID,
		Mode:     r.Mode.String(),
		Phase:    r.Phase.String(),
		Current:  r.Current,
		HasSplit: r.HasSplit(),
	}

	hideHole := r.Phase == Dealing || r.Phase == Playing
	for i, c := range r.Dealer {
		if hideHole && i == 1 {
			v.Dealer = append(v.Dealer, CardView{Hidden: true})
			continue
		}
		v.Dealer = append(v.Dealer, cardView(c))
	}
	if hideHole {
		v.DealerTotal, _ = Total(r.Dealer[:1])
	} else {
		v.DealerTotal, _ = Total(r.Dealer)
	}

	for _, h := range r.Hands {
		hv := HandView{
			Total:   h.Score(),
			Soft:    IsSoft(h.Cards),
			Stake:   h.Stake,
			Result:  h.Result.String(),
			Natural: h.Natural,
			Doubled: h.Doubled,
		}
		for _, c := range h.Cards {
			hv.Cards = append(hv.Cards, cardView(c))
		}
		v.Hands = append(v.Hands, hv)
	}

	for _, f := range r.Feedback {
		v.Feedback = append(v.Feedback, FeedbackView{
			Hand:        f.HandIndex,
			Action:      f.Action.String(),
			Recommended: f.Recommended.String(),
			Correct:     f.Correct,
			Message:     f.Message,
		})
	}

	if o := r.Outcome; o != nil {
		ov := &OutcomeView{
			DealerTotal: o.DealerTotal,
			TotalStake:  o.TotalStake,
			Payout:      o.Payout,
			Net:         o.Net(),
		}
		for _, h := range o.Hands {
			ov.Results = append(ov.Results, h.Result.String())
		}
		v.Outcome = ov
	}
	return v
}

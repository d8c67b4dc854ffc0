package game

import "fmt"

// Action is a player decision. Recommendations are compared structurally,
// never by name.
type Action int

const (
	Hit Action = iota + 1
	Stand
	Double
	Split
)

func (a Action) String() string {
	switch a {
	case Hit:
		return "hit"
	case Stand:
		return "stand"
	case Double:
		return "double"
	case Split:
		return "split"
	}
	return "unknown"
}

func ParseAction(s string) (Action, error) {
	switch s {
	case "hit":
		return Hit, nil
	case "stand":
		return Stand, nil
	case "double":
		return Double, nil
	case "split":
		return Split, nil
	}
	return 0, fmt.Errorf("unknown action %q", s)
}

// Situation is what the advisor sees at a decision point: the pre-action
// hand as pip values (aces are 1) and the dealer's visible card.
type Situation struct {
	PlayerPips   []int
	DealerUpcard int
	HandCount    int
	FirstAction  bool
	Rules        Rules
}

// Advisor returns the textbook action for a situation. Implementations
// must be pure.
type Advisor interface {
	Recommend(s Situation) Action
}

// AdvisorFunc adapts a function to Advisor.
type AdvisorFunc func(Situation) Action

func (f AdvisorFunc) Recommend(s Situation) Action { return f(s) }

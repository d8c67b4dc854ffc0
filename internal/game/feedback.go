package game

import "fmt"

// Feedback records how one decision compared with basic strategy.
type Feedback struct {
	HandIndex   int
	Action      Action
	Recommended Action
	Correct     bool
	Message     string
}

func newFeedback(handIndex int, chosen, recommended Action) Feedback {
	f := Feedback{
		HandIndex:   handIndex,
		Action:      chosen,
		Recommended: recommended,
		Correct:     chosen == recommended,
	}
	if f.Correct {
		f.Message = fmt.Sprintf("Hand %d: %s is correct.", handIndex+1, chosen)
	} else {
		f.Message = fmt.Sprintf("Hand %d: you chose %s, basic strategy says %s.", handIndex+1, chosen, recommended)
	}
	return f
}

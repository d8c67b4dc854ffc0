package game

import "errors"

// Validation errors. None of them change round state.
var (
	ErrNotAllowed          = errors.New("action not allowed right now")
	ErrInvalidBet          = errors.New("invalid bet")
	ErrInsufficientCredits = errors.New("insufficient credits")
	ErrDoubleNotAllowed    = errors.New("double not allowed")
	ErrSplitNotAllowed     = errors.New("split not allowed")
)

// IsValidation reports whether err is a rejected action rather than a
// failure.
func IsValidation(err error) bool {
	return errors.Is(err, ErrNotAllowed) ||
		errors.Is(err, ErrInvalidBet) ||
		errors.Is(err, ErrInsufficientCredits) ||
		errors.Is(err, ErrDoubleNotAllowed) ||
		errors.Is(err, ErrSplitNotAllowed)
}

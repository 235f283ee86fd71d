package reading

import (
	"errors"
)

var (
	// ErrInvalidSpread is returned when a spread size is outside the allowed bounds.
	ErrInvalidSpread = errors.New("invalid spread size")
	// ErrInvalidQuestion is returned for an empty question.
	ErrInvalidQuestion = errors.New("question is required")
	// ErrUnknownCard is returned when a card id is not in the deck.
	ErrUnknownCard = errors.New("unknown card")
	// ErrCardNotFound is returned when an index falls outside a resolved spread.
	ErrCardNotFound = errors.New("card not found")
	// ErrProvider wraps failures of the text or image provider on strict paths.
	ErrProvider = errors.New("provider failure")
)

// IsValidation reports whether err is caused by bad caller input.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidSpread) ||
		errors.Is(err, ErrInvalidQuestion) ||
		errors.Is(err, ErrUnknownCard)
}

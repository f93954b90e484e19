package domain

import "errors"

var (
	ErrInvalidCurrency            = errors.New("invalid currency")
	ErrUnsupportedCounterCurrency = errors.New("unsupported counter currency")

	// ErrValueNotFound covers both "the date is beyond the knowable horizon"
	// and "the date is knowable but the source quoted no value for it".
	// Splitting the two is a possible future refinement.
	ErrValueNotFound = errors.New("currency value not found")
)

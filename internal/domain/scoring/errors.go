package scoring

import "errors"

var (
	// ErrInsufficientInput is returned when a record cannot be scored.
	ErrInsufficientInput = errors.New("insufficient input to score")
	// ErrInvalidWeights is returned for a malformed rule table.
	ErrInvalidWeights = errors.New("invalid scoring weights")
)

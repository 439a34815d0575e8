package similarity

import "errors"

// ErrInvalidWeights is returned for a malformed attribute table.
var ErrInvalidWeights = errors.New("invalid similarity weights")

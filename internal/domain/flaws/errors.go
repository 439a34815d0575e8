package flaws

import "errors"

// ErrNoOptimalBand is returned when an angle has no configured band.
var ErrNoOptimalBand = errors.New("no optimal band configured")

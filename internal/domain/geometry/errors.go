package geometry

import "errors"

// ErrDegenerateGeometry marks an angle whose arms have zero length.
var ErrDegenerateGeometry = errors.New("degenerate geometry")

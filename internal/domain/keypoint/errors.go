package keypoint

import "errors"

// Sentinel kinds for keypoint validation.
var (
	ErrUnknownJoint        = errors.New("unknown joint name")
	ErrDuplicateJoint      = errors.New("duplicate joint name")
	ErrInvalidConfidence   = errors.New("confidence outside [0,1]")
	ErrNonFiniteCoordinate = errors.New("non-finite coordinate")
)

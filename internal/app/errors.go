package service

import (
	"errors"
	"fmt"
)

// Sentinel kinds for service errors.
var (
	ErrAnalysisUnavailable = errors.New("analysis unavailable")
	ErrInvalidKeypoints    = errors.New("invalid keypoints")
	ErrInvalidJob          = errors.New("invalid job")
	ErrBackpressure        = errors.New("queue full, retry later")
	ErrNotFound            = errors.New("not found")
	ErrNotStarted          = errors.New("service not started")
)

// Reasons attached to unavailable analyses.
const (
	ReasonInsufficientData   = "insufficient_data"
	ReasonDegenerateGeometry = "degenerate_geometry"
	ReasonInvalidKeypoints   = "invalid_keypoints"
)

// FrameError is returned when one frame cannot be analyzed. It matches its
// kind (ErrAnalysisUnavailable or ErrInvalidKeypoints) and its cause under
// errors.Is.
type FrameError struct {
	kind   error
	reason string
	cause  error
}

func unavailable(reason string, cause error) *FrameError {
	return &FrameError{kind: ErrAnalysisUnavailable, reason: reason, cause: cause}
}

func invalidKeypoints(cause error) *FrameError {
	return &FrameError{kind: ErrInvalidKeypoints, reason: ReasonInvalidKeypoints, cause: cause}
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("%s (%s): %v", e.kind, e.reason, e.cause)
}

// Reason is a short machine-readable cause.
func (e *FrameError) Reason() string { return e.reason }

func (e *FrameError) Unwrap() []error {
	return []error{e.kind, e.cause}
}

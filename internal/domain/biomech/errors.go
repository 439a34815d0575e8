package biomech

import (
	"errors"

	"github.com/okian/shotform/internal/domain/geometry"
)

// Sentinel kinds for extraction failures. Both mean the frame is unavailable.
var (
	ErrInsufficientData   = errors.New("insufficient keypoint data")
	ErrDegenerateGeometry = geometry.ErrDegenerateGeometry
)

package corpus

import "errors"

// Sentinel error kinds for this package.
var (
	ErrInvalidReference = errors.New("invalid shooter reference")
	ErrEmptyCorpus      = errors.New("empty shooter corpus")
	ErrShooterNotFound  = errors.New("shooter not found")
	ErrLoadCorpus       = errors.New("load corpus failed")
)

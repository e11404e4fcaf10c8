package pipeline

import "errors"

// Sentinel kinds for pipeline errors.
var (
	ErrLengthMismatch = errors.New("texts and labels lengths differ")
	ErrNotFitted      = errors.New("pipeline not fitted")
	ErrInvalidModel   = errors.New("invalid model snapshot")
)

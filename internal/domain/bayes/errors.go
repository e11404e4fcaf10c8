package bayes

import "errors"

// Sentinel kinds for classifier errors.
var (
	ErrLengthMismatch = errors.New("samples and labels lengths differ")
	ErrNoSamples      = errors.New("no training samples")
	ErrNotFitted      = errors.New("classifier not fitted")
	ErrDimension      = errors.New("feature index out of range")
	ErrInvalidState   = errors.New("invalid classifier state")
)

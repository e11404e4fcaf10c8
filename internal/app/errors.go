package service

import (
	"errors"
)

// Failure kinds of a training run. Every error returned by Trainer.Train
// wraps exactly one of them.
var (
	ErrDataUnavailable = errors.New("training data unavailable")
	ErrEmptyDataset    = errors.New("empty dataset")
	ErrLengthMismatch  = errors.New("content and classification lengths differ")
	ErrTraining        = errors.New("training failed")
	ErrSerialization   = errors.New("model serialization failed")
)

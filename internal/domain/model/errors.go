package model

import "errors"

// Sentinel kinds for dataset errors.
var (
	ErrLengthMismatch = errors.New("content and classification lengths differ")
	ErrEmptyDataset   = errors.New("dataset is empty")
)

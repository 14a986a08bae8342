package segmenter

import "errors"

var (
	// ErrInvalidBound is returned when the block length bound is outside [MinBound, MaxBound].
	ErrInvalidBound = errors.New("block length bound out of range")
)

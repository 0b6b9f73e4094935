package watermark

import "errors"

var (
	ErrDegenerateHistogram  = errors.New("degenerate histogram")
	ErrInsufficientCapacity = errors.New("insufficient capacity")
	ErrDimensionMismatch    = errors.New("dimension mismatch")
	ErrIntensityOverflow    = errors.New("intensity overflow")
)

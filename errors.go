package watermark

import (
	"errors"

	"github.com/yyyoichi/watermark_rdh/internal/watermark"
	"github.com/yyyoichi/watermark_rdh/mark"
)

var (
	// ErrDegenerateHistogram is returned when a cover has fewer than two distinct intensities.
	ErrDegenerateHistogram = watermark.ErrDegenerateHistogram
	// ErrInsufficientCapacity is returned when the peak intensity occurs fewer times than the mark has bits.
	ErrInsufficientCapacity = watermark.ErrInsufficientCapacity
	// ErrDimensionMismatch is returned when image or mark sizes disagree between calls.
	ErrDimensionMismatch = watermark.ErrDimensionMismatch
	// ErrIntensityOverflow is returned when the shifted band would leave the 0..255 range.
	ErrIntensityOverflow     = watermark.ErrIntensityOverflow
	ErrInvalidWatermarkValue = mark.ErrInvalidValue
	ErrInvalidKey            = errors.New("invalid key")
)

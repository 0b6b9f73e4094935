package watermark

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yyyoichi/watermark_rdh/mark"
)

type Option func(*Watermark) error

// WithMarkSize sets the watermark size in pixels. Embed rejects marks of any other size
// and Extract rejects keys recorded for any other size. The default is 64x64.
func WithMarkSize(width, height int) Option {
	return func(w *Watermark) error {
		if width <= 0 || height <= 0 {
			return fmt.Errorf("%w: %dx%d", mark.ErrInvalidSize, width, height)
		}
		w.markWidth, w.markHeight = width, height
		return nil
	}
}

// WithLogger sets the logger that records each stage at debug level.
// By default nothing is logged.
func WithLogger(l zerolog.Logger) Option {
	return func(w *Watermark) error {
		w.logger = &l
		return nil
	}
}

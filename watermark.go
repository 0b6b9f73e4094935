package watermark

import (
	"context"
	"fmt"
	"image"

	"github.com/rs/zerolog"
	"github.com/yyyoichi/watermark_rdh/internal/watermark"
	"github.com/yyyoichi/watermark_rdh/mark"
)

// Embed embeds a binary mark into a gray version of src with the specified options.
// This is a convenience function that creates a Watermark instance and calls its Embed method.
func Embed(ctx context.Context, src image.Image, m EmbedMark, opts ...Option) (*Embedded, error) {
	w, err := New(opts...)
	if err != nil {
		return nil, err
	}
	return w.Embed(ctx, src, m)
}

// Extract recovers the mark and the original cover from an embedded image with the specified options.
// This is a convenience function that creates a Watermark instance and calls its Extract method.
func Extract(ctx context.Context, src image.Image, key *Key, opts ...Option) (*Extracted, error) {
	w, err := New(opts...)
	if err != nil {
		return nil, err
	}
	return w.Extract(ctx, src, key)
}

type Watermark struct {
	markWidth, markHeight int
	logger                *zerolog.Logger
}

// Embedded is the result of Embed.
type Embedded struct {
	// Image is the watermarked cover.
	Image *image.Gray
	// Shifted is the cover after histogram shifting, before any bit is written.
	Shifted *image.Gray
	// Diff is 255 where Shifted equals the gray cover and 0 where shifting changed it.
	Diff *image.Gray
	// Key is required by Extract.
	Key *Key
}

// Extracted is the result of Extract.
type Extracted struct {
	Mark *mark.Bitmap
	// Restored equals the gray cover passed to Embed, pixel for pixel.
	Restored *image.Gray
}

// New initializes a watermark processing structure.
// The mark size and logger can be optionally specified.
// For default values, refer to the init function.
func New(opts ...Option) (*Watermark, error) {
	w := new(Watermark)
	if err := w.init(opts...); err != nil {
		return nil, err
	}
	return w, nil
}

// Embed embeds a binary mark into a cover image.
//
// Process:
//  1. Converts the image to 8-bit gray.
//  2. Picks the peak and secondary intensities from the histogram.
//  3. Shifts the intensities between them one step away from peak, freeing the embed point.
//  4. Writes one bit per peak pixel in row-major order: on bits move to the embed point.
//
// Returns ErrDimensionMismatch if the mark size differs from the configured one,
// and ErrInsufficientCapacity if the peak occurs fewer times than the mark has bits.
func (w *Watermark) Embed(ctx context.Context, src image.Image, m EmbedMark) (*Embedded, error) {
	if err := w.checkMark(m); err != nil {
		return nil, err
	}
	img := watermark.NewImageCore(src)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	peak, secondary, err := watermark.Analyze(img)
	if err != nil {
		return nil, err
	}
	return w.embed(ctx, img, m, peak, secondary, nil)
}

// Extract reads the mark from an embedded image and restores the cover.
//
// Process:
//  1. Converts the image to 8-bit gray.
//  2. Reads one bit per peak or embed point pixel in row-major order and moves it back to peak.
//  3. Reverses the histogram shift using the save points recorded in key.
//
// Returns ErrInvalidKey if key is inconsistent, and ErrDimensionMismatch if the image
// or the configured mark size differs from key.
func (w *Watermark) Extract(ctx context.Context, src image.Image, key *Key) (*Extracted, error) {
	if key == nil {
		return nil, fmt.Errorf("%w: nil key", ErrInvalidKey)
	}
	if err := key.validate(); err != nil {
		return nil, err
	}
	if key.MarkWidth != w.markWidth || key.MarkHeight != w.markHeight {
		return nil, fmt.Errorf("%w: key mark %dx%d, configured %dx%d",
			ErrDimensionMismatch, key.MarkWidth, key.MarkHeight, w.markWidth, w.markHeight)
	}
	img := watermark.NewImageCore(src)
	if img.Width() != key.Width || img.Height() != key.Height {
		return nil, fmt.Errorf("%w: key cover %dx%d, image %dx%d",
			ErrDimensionMismatch, key.Width, key.Height, img.Width(), img.Height())
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bits, shifted, err := watermark.Extract(img, key.MarkWidth*key.MarkHeight, key.Peak, key.EmbedPoint)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	restored, err := watermark.Restore(shifted, key.Peak, key.Secondary, key.SavePoints)
	if err != nil {
		return nil, err
	}
	bm, err := mark.NewBools(key.MarkWidth, key.MarkHeight, bits)
	if err != nil {
		return nil, err
	}
	w.logger.Debug().
		Uint8("peak", key.Peak).
		Uint8("secondary", key.Secondary).
		Uint8("embed_point", key.EmbedPoint).
		Int("on_bits", bm.OnBits()).
		Msg("extracted")
	return &Extracted{Mark: bm, Restored: restored.Build()}, nil
}

// embed runs the shift and embed stages. A non-nil cached shift result is reused.
func (w *Watermark) embed(ctx context.Context, img watermark.ImageSource, m EmbedMark, peak, secondary uint8, cached *watermark.ShiftResult) (*Embedded, error) {
	capacity := watermark.Capacity(img, peak)
	w.logger.Debug().
		Uint8("peak", peak).
		Uint8("secondary", secondary).
		Int("capacity", capacity).
		Msg("analyzed histogram")
	if err := watermark.Enable(capacity, m.Len()); err != nil {
		return nil, err
	}

	res := cached
	if res == nil {
		var err error
		if res, err = watermark.Shift(img, peak, secondary); err != nil {
			return nil, err
		}
	}
	w.logger.Debug().
		Uint8("embed_point", res.EmbedPoint).
		Int("save_points", res.SavePoints.Len()).
		Msg("shifted histogram")
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	embedded, err := watermark.Embed(res.Shifted, m, peak, res.EmbedPoint)
	if err != nil {
		return nil, err
	}
	return &Embedded{
		Image:   embedded.Build(),
		Shifted: res.Shifted.Build(),
		Diff:    res.Diff.Build(),
		Key: &Key{
			Peak:       peak,
			Secondary:  secondary,
			EmbedPoint: res.EmbedPoint,
			Width:      img.Width(),
			Height:     img.Height(),
			MarkWidth:  m.Width(),
			MarkHeight: m.Height(),
			SavePoints: res.SavePoints,
		},
	}, nil
}

func (w *Watermark) checkMark(m EmbedMark) error {
	if m.Width() != w.markWidth || m.Height() != w.markHeight {
		return fmt.Errorf("%w: mark %dx%d, configured %dx%d",
			ErrDimensionMismatch, m.Width(), m.Height(), w.markWidth, w.markHeight)
	}
	if m.Len() != m.Width()*m.Height() {
		return fmt.Errorf("%w: mark of %d bits for %dx%d", ErrDimensionMismatch, m.Len(), m.Width(), m.Height())
	}
	return nil
}

func (w *Watermark) init(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(w); err != nil {
			return err
		}
	}
	if w.markWidth == 0 {
		w.markWidth = mark.DefaultWidth
		w.markHeight = mark.DefaultHeight
	}
	if w.logger == nil {
		l := zerolog.Nop()
		w.logger = &l
	}
	return nil
}

// Batch enables efficient multiple watermark operations on a single cover
// by caching intermediate computation results (gray conversion, analysis and shift).
type Batch struct {
	original        watermark.ImageSource
	peak, secondary uint8
	shifted         *watermark.ShiftResult
	err             error
}

// NewBatch creates a new Batch instance and pre-computes the histogram analysis
// and shift for the given image. An analysis failure is returned by every Embed call.
func NewBatch(src image.Image) *Batch {
	b := &Batch{original: watermark.NewImageCore(src)}
	b.peak, b.secondary, b.err = watermark.Analyze(b.original)
	if b.err == nil {
		b.shifted, b.err = watermark.Shift(b.original, b.peak, b.secondary)
	}
	return b
}

// Embed embeds a mark into the cached cover with specified options.
// Every call writes into its own buffers, so the returned keys are independent.
func (b *Batch) Embed(ctx context.Context, m EmbedMark, opts ...Option) (*Embedded, error) {
	if b.err != nil {
		return nil, b.err
	}
	w, err := New(opts...)
	if err != nil {
		return nil, err
	}
	if err := w.checkMark(m); err != nil {
		return nil, err
	}
	// Uses the pre-computed shift; the cached buffers are only read.
	return w.embed(ctx, b.original, m, b.peak, b.secondary, b.shifted)
}

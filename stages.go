package watermark

import (
	"errors"
	"fmt"
	"image"

	"github.com/yyyoichi/watermark_rdh/internal/quality"
	"github.com/yyyoichi/watermark_rdh/internal/watermark"
	"github.com/yyyoichi/watermark_rdh/mark"
)

// The functions below expose the individual stages of Embed and Extract.
// Every image is converted to 8-bit gray first and no input is modified.

// SavePoints is the set of pixels whose value equalled secondary before shifting.
// It belongs to exactly one Shift and its matching Restore.
type SavePoints = watermark.SavePoints

// NewSavePoints builds a save-point set from a row-major mask of width*height entries.
func NewSavePoints(width, height int, mask []bool) (SavePoints, error) {
	return watermark.NewSavePoints(width, height, mask)
}

// Shifted is the result of Shift.
type Shifted struct {
	Image      *image.Gray
	Diff       *image.Gray
	EmbedPoint uint8
	SavePoints SavePoints
}

// Histogram returns the pixel count of every intensity of the gray version of src.
func Histogram(src image.Image) [256]int {
	return watermark.NewHistogram(watermark.NewImageCore(src))
}

// Analyze returns the most and second most frequent intensities of src.
// Ties are broken by the lower intensity.
func Analyze(src image.Image) (peak, secondary uint8, err error) {
	return watermark.Analyze(watermark.NewImageCore(src))
}

// Shift opens the embed point next to peak.
func Shift(src image.Image, peak, secondary uint8) (*Shifted, error) {
	res, err := watermark.Shift(watermark.NewImageCore(src), peak, secondary)
	if err != nil {
		return nil, err
	}
	return &Shifted{
		Image:      res.Shifted.Build(),
		Diff:       res.Diff.Build(),
		EmbedPoint: res.EmbedPoint,
		SavePoints: res.SavePoints,
	}, nil
}

// EmbedShifted writes m into a shifted image.
func EmbedShifted(shifted image.Image, m EmbedMark, peak, embedPoint uint8) (*image.Gray, error) {
	if m.Len() != m.Width()*m.Height() {
		return nil, fmt.Errorf("%w: mark of %d bits for %dx%d", ErrDimensionMismatch, m.Len(), m.Width(), m.Height())
	}
	dist, err := watermark.Embed(watermark.NewImageCore(shifted), m, peak, embedPoint)
	if err != nil {
		return nil, err
	}
	return dist.Build(), nil
}

// ExtractEmbedded reads a width x height mark from an embedded image and returns it with
// the image every carried bit has been moved back to peak in, which equals the shifted image.
func ExtractEmbedded(embedded image.Image, width, height int, peak, embedPoint uint8) (*mark.Bitmap, *image.Gray, error) {
	if width < 0 || height < 0 {
		return nil, nil, fmt.Errorf("%w: mark %dx%d", ErrDimensionMismatch, width, height)
	}
	bits, dist, err := watermark.Extract(watermark.NewImageCore(embedded), width*height, peak, embedPoint)
	if err != nil {
		return nil, nil, err
	}
	bm, err := mark.NewBools(width, height, bits)
	if err != nil {
		return nil, nil, err
	}
	return bm, dist.Build(), nil
}

// Restore reverses Shift.
func Restore(shifted image.Image, peak, secondary uint8, points SavePoints) (*image.Gray, error) {
	dist, err := watermark.Restore(watermark.NewImageCore(shifted), peak, secondary, points)
	if err != nil {
		return nil, err
	}
	return dist.Build(), nil
}

// PSNR returns the peak signal-to-noise ratio of two equally sized images in dB,
// or 100 when they are identical.
func PSNR(a, b image.Image) (float64, error) {
	return compare(a, b, quality.PSNR)
}

// SSIM returns the structural similarity of two equally sized images over a single global window.
func SSIM(a, b image.Image) (float64, error) {
	return compare(a, b, quality.SSIM)
}

func compare(a, b image.Image, metric func(a, b []uint8) (float64, error)) (float64, error) {
	ga, gb := watermark.NewImageCore(a), watermark.NewImageCore(b)
	if ga.Width() != gb.Width() || ga.Height() != gb.Height() {
		return 0, fmt.Errorf("%w: %dx%d and %dx%d", ErrDimensionMismatch, ga.Width(), ga.Height(), gb.Width(), gb.Height())
	}
	v, err := metric(ga.Pix(), gb.Pix())
	if errors.Is(err, quality.ErrSizeMismatch) {
		return 0, fmt.Errorf("%w: %w", ErrDimensionMismatch, err)
	}
	return v, err
}

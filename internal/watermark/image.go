package watermark

import (
	"image"
	"image/color"

	"github.com/yyyoichi/watermark_rdh/internal/yuv"
)

// ImageSource is a row-major 8-bit gray pixel buffer.
type ImageSource struct {
	bounds        image.Rectangle
	width, height int
	area          int

	pix []uint8
}

// NewImageCore converts src to gray. *image.Gray sources are copied without conversion.
func NewImageCore(src image.Image) ImageSource {
	s := newImageSource(src.Bounds())
	if g, ok := src.(*image.Gray); ok {
		for y := range s.height {
			off := g.PixOffset(s.bounds.Min.X, s.bounds.Min.Y+y)
			_ = copy(s.pix[y*s.width:(y+1)*s.width], g.Pix[off:off+s.width])
		}
		return s
	}

	pixels := make([]color.Color, s.area)
	idx := 0
	for y := range s.height {
		for x := range s.width {
			pixels[idx] = src.At(s.bounds.Min.X+x, s.bounds.Min.Y+y)
			idx++
		}
	}
	yuv.ColorToYBatch(pixels, s.pix)
	return s
}

// NewImageSource wraps a copy of pix, which must hold width*height row-major values.
func NewImageSource(width, height int, pix []uint8) (ImageSource, error) {
	if width < 0 || height < 0 || len(pix) != width*height {
		return ImageSource{}, ErrDimensionMismatch
	}
	s := newImageSource(image.Rect(0, 0, width, height))
	_ = copy(s.pix, pix)
	return s, nil
}

func newImageSource(bounds image.Rectangle) ImageSource {
	var s ImageSource
	s.bounds = bounds
	s.width, s.height = bounds.Dx(), bounds.Dy()
	s.area = s.width * s.height
	s.pix = make([]uint8, s.area)
	return s
}

func (s ImageSource) Copy() ImageSource {
	tmp := make([]uint8, s.area)
	_ = copy(tmp, s.pix)
	s.pix = tmp
	return s
}

// Build returns the buffer as a new *image.Gray with the source bounds.
func (s ImageSource) Build() *image.Gray {
	dist := image.NewGray(s.bounds)
	_ = copy(dist.Pix, s.pix)
	return dist
}

func (s ImageSource) Bounds() image.Rectangle { return s.bounds }
func (s ImageSource) Width() int              { return s.width }
func (s ImageSource) Height() int             { return s.height }

// Pix returns a copy of the pixel values in row-major order.
func (s ImageSource) Pix() []uint8 {
	tmp := make([]uint8, s.area)
	_ = copy(tmp, s.pix)
	return tmp
}

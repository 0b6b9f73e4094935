// Package mark provides the binary watermark bitmaps embedded by the watermark package.
//
// A bitmap holds one bit per pixel: 255 (white) is an on bit, 0 (black) is an off bit.
// Bits are addressed in row-major order.
package mark

import (
	"errors"
	"fmt"
	"image"
	"slices"

	"github.com/yyyoichi/watermark_rdh/internal/bitconv"
)

const (
	Off uint8 = 0
	On  uint8 = 255
)

var (
	// ErrInvalidValue is returned when a pixel of a watermark is neither 0 nor 255.
	ErrInvalidValue = errors.New("invalid watermark value")
	ErrInvalidSize  = errors.New("invalid watermark size")
)

// Bitmap is a fixed-size binary watermark.
type Bitmap struct {
	width, height int
	bits          []bool
}

// New creates a bitmap from row-major values, each of which must be 0 or 255.
func New(width, height int, values []uint8) (*Bitmap, error) {
	if err := checkSize(width, height, len(values)); err != nil {
		return nil, err
	}
	bits := make([]bool, len(values))
	for i, v := range values {
		switch v {
		case On:
			bits[i] = true
		case Off:
		default:
			return nil, fmt.Errorf("%w: %d at (%d, %d)", ErrInvalidValue, v, i/width, i%width)
		}
	}
	return &Bitmap{width: width, height: height, bits: bits}, nil
}

// NewBools creates a bitmap from row-major bits.
func NewBools(width, height int, bits []bool) (*Bitmap, error) {
	if err := checkSize(width, height, len(bits)); err != nil {
		return nil, err
	}
	return &Bitmap{width: width, height: height, bits: slices.Clone(bits)}, nil
}

// NewBytes creates a bitmap from bits packed by Bytes.
func NewBytes(width, height int, b []byte) (*Bitmap, error) {
	if width < 0 || height < 0 || len(b) != (width*height+7)/8 {
		return nil, fmt.Errorf("%w: %d bytes for %dx%d", ErrInvalidSize, len(b), width, height)
	}
	return &Bitmap{width: width, height: height, bits: bitconv.BytesToBools(b, width*height)}, nil
}

// FromGray creates a bitmap from an already binarized gray image.
func FromGray(src *image.Gray) (*Bitmap, error) {
	r := src.Bounds()
	values := make([]uint8, 0, r.Dx()*r.Dy())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		off := src.PixOffset(r.Min.X, y)
		values = append(values, src.Pix[off:off+r.Dx()]...)
	}
	return New(r.Dx(), r.Dy(), values)
}

func checkSize(width, height, n int) error {
	if width < 0 || height < 0 || width*height != n {
		return fmt.Errorf("%w: %d values for %dx%d", ErrInvalidSize, n, width, height)
	}
	return nil
}

func (m *Bitmap) Width() int  { return m.width }
func (m *Bitmap) Height() int { return m.height }

// Len returns the number of bits, width*height.
func (m *Bitmap) Len() int { return len(m.bits) }

// GetBit reports whether the bit at the row-major index is on.
func (m *Bitmap) GetBit(at int) bool { return m.bits[at] }

// OnBits returns the number of on (255) bits.
func (m *Bitmap) OnBits() int {
	n := 0
	for _, v := range m.bits {
		if v {
			n++
		}
	}
	return n
}

func (m *Bitmap) DecodeToBools() []bool { return slices.Clone(m.bits) }

// Values returns the row-major pixel values, 0 or 255.
func (m *Bitmap) Values() []uint8 {
	values := make([]uint8, len(m.bits))
	for i, v := range m.bits {
		if v {
			values[i] = On
		}
	}
	return values
}

// Bytes packs the bits MSB-first, eight per byte.
func (m *Bitmap) Bytes() []byte {
	return bitconv.BoolsToBytes(m.bits)
}

// Image renders the bitmap as a black and white gray image.
func (m *Bitmap) Image() *image.Gray {
	dist := image.NewGray(image.Rect(0, 0, m.width, m.height))
	_ = copy(dist.Pix, m.Values())
	return dist
}

func (m *Bitmap) Equal(o *Bitmap) bool {
	if m == nil || o == nil {
		return m == o
	}
	return m.width == o.width && m.height == o.height && slices.Equal(m.bits, o.bits)
}

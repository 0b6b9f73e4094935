package mark

import (
	"fmt"
	"image"

	"github.com/skip2/go-qrcode"
	"golang.org/x/image/draw"
)

// FromImage resizes src to the bitmap size and binarizes it.
func FromImage(src image.Image, opts ...Option) (*Bitmap, error) {
	o := newOptions(opts...)
	if o.width <= 0 || o.height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, o.width, o.height)
	}
	gray := image.NewGray(image.Rect(0, 0, o.width, o.height))
	draw.BiLinear.Scale(gray, gray.Bounds(), src, src.Bounds(), draw.Src, nil)

	bits := make([]bool, len(gray.Pix))
	for i, v := range gray.Pix {
		bits[i] = v > o.threshold
	}
	return &Bitmap{width: o.width, height: o.height, bits: bits}, nil
}

// NewQRCode encodes content as a QR code and renders it as a bitmap.
// Light modules become on bits.
func NewQRCode(content string, opts ...Option) (*Bitmap, error) {
	o := newOptions(opts...)
	q, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("failed to encode qr code: %w", err)
	}
	return FromImage(q.Image(max(o.width, o.height)), opts...)
}

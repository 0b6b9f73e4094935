package watermark

import "github.com/yyyoichi/watermark_rdh/mark"

// EmbedMark is a binary watermark addressed in row-major order.
// Len must equal Width*Height.
type EmbedMark interface {
	Width() int
	Height() int
	Len() int
	GetBit(at int) bool
}

var _ EmbedMark = (*mark.Bitmap)(nil)

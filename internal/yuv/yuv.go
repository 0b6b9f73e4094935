package yuv

import "image/color"

// https://github.com/opencv/opencv/blob/0e88b49a53842f0f7cdc4c61b98c283be7e5057c/modules/imgproc/src/opencl/color_yuv.cl#L148-L234

const (
	yr = 0.299
	yg = 0.587
	yb = 0.114
)

// ColorToY returns the 8-bit luma of c, rounded to the nearest integer.
// Gray colors are returned as-is.
func ColorToY(c color.Color) uint8 {
	switch g := c.(type) {
	case color.Gray:
		return g.Y
	case color.Gray16:
		return uint8(g.Y >> 8)
	}
	r32, g32, b32, _ := c.RGBA()
	r := float32(r32 >> 8)
	g := float32(g32 >> 8)
	b := float32(b32 >> 8)
	return clip8(yr*r + yg*g + yb*b)
}

// ColorToYBatch converts pixels to luma values, y must be at least as long as pixels.
func ColorToYBatch(pixels []color.Color, y []uint8) {
	for i, pixel := range pixels {
		y[i] = ColorToY(pixel)
	}
}

func clip8(v float32) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + .5)
}

package watermark

import "fmt"

// Enable reports whether there are enough positions to carry markLen bits.
func Enable(positions, markLen int) error {
	if positions < markLen {
		return fmt.Errorf("%w: %d positions < mark length %d", ErrInsufficientCapacity, positions, markLen)
	}
	return nil
}

// Capacity returns the number of bits a shifted image can carry at peak.
func Capacity(src ImageSource, peak uint8) int {
	return NewHistogram(src)[peak]
}

// Embed writes the mark into a shifted image. An on bit moves its peak pixel to embedPoint,
// an off bit leaves it at peak; every bit consumes one position either way.
func Embed(src ImageSource, mark EmbedMark, peak, embedPoint uint8) (ImageSource, error) {
	if peak == embedPoint {
		return ImageSource{}, fmt.Errorf("%w: embed point equals peak %d", ErrDegenerateHistogram, peak)
	}
	positions := Positions(src, peak)
	if err := Enable(len(positions), mark.Len()); err != nil {
		return ImageSource{}, err
	}
	dist := src.Copy()
	for p := range mark.Len() {
		if mark.GetBit(p) {
			dist.pix[positions[p]] = embedPoint
		}
	}
	return dist, nil
}

// Extract reads markLen bits from an embedded image and returns them together with
// the image where every carried bit has been moved back to peak.
func Extract(src ImageSource, markLen int, peak, embedPoint uint8) ([]bool, ImageSource, error) {
	if peak == embedPoint {
		return nil, ImageSource{}, fmt.Errorf("%w: embed point equals peak %d", ErrDegenerateHistogram, peak)
	}
	positions := Positions(src, peak, embedPoint)
	if err := Enable(len(positions), markLen); err != nil {
		return nil, ImageSource{}, err
	}
	bits := make([]bool, markLen)
	dist := src.Copy()
	for p := range markLen {
		at := positions[p]
		if dist.pix[at] == embedPoint {
			bits[p] = true
			dist.pix[at] = peak
		}
	}
	return bits, dist, nil
}

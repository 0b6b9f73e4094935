package watermark

import "fmt"

// SavePoints marks the pixels whose value equalled secondary before shifting.
type SavePoints struct {
	width, height int
	mask          []bool
	count         int
}

// NewSavePoints builds a set from a row-major mask of width*height entries.
func NewSavePoints(width, height int, mask []bool) (SavePoints, error) {
	if width < 0 || height < 0 || len(mask) != width*height {
		return SavePoints{}, fmt.Errorf("%w: mask of %d entries for %dx%d", ErrDimensionMismatch, len(mask), width, height)
	}
	p := SavePoints{width: width, height: height, mask: make([]bool, len(mask))}
	for i, v := range mask {
		p.mask[i] = v
		if v {
			p.count++
		}
	}
	return p, nil
}

func (p SavePoints) Contains(row, col int) bool {
	if row < 0 || row >= p.height || col < 0 || col >= p.width {
		return false
	}
	return p.mask[row*p.width+col]
}

func (p SavePoints) Len() int { return p.count }

// Mask returns a copy of the row-major membership mask.
func (p SavePoints) Mask() []bool {
	mask := make([]bool, len(p.mask))
	_ = copy(mask, p.mask)
	return mask
}

// ShiftResult is the output of Shift.
type ShiftResult struct {
	Shifted ImageSource
	// Diff is 255 where Shifted equals the input and 0 where it changed.
	Diff       ImageSource
	EmbedPoint uint8
	SavePoints SavePoints
}

// EmbedPoint returns the intensity next to peak on the side facing secondary.
func EmbedPoint(peak, secondary uint8) uint8 {
	if peak < secondary {
		return peak + 1
	}
	return peak - 1
}

// Shift moves the intensities between peak and secondary one step away from peak,
// freeing the embed point. Values are read from src only; src is left untouched.
//
//	peak < secondary: [peak+1, secondary] += 1
//	peak > secondary: [secondary, peak-1] -= 1
func Shift(src ImageSource, peak, secondary uint8) (*ShiftResult, error) {
	if peak == secondary {
		return nil, fmt.Errorf("%w: peak and secondary are both %d", ErrDegenerateHistogram, peak)
	}
	be, en, step := shiftBand(peak, secondary)
	if peak < secondary && secondary == 255 {
		return nil, fmt.Errorf("%w: cannot shift secondary %d up", ErrIntensityOverflow, secondary)
	}
	if peak > secondary && secondary == 0 {
		return nil, fmt.Errorf("%w: cannot shift secondary %d down", ErrIntensityOverflow, secondary)
	}

	var (
		shifted = newImageSource(src.bounds)
		diff    = newImageSource(src.bounds)
		mask    = make([]bool, src.area)
		count   int
	)
	for i, v := range src.pix {
		cur := int(v)
		if v == secondary {
			mask[i] = true
			count++
		}
		if be <= cur && cur <= en {
			cur += step
		}
		shifted.pix[i] = uint8(cur)
		if shifted.pix[i] == v {
			diff.pix[i] = 255
		}
	}
	return &ShiftResult{
		Shifted:    shifted,
		Diff:       diff,
		EmbedPoint: EmbedPoint(peak, secondary),
		SavePoints: SavePoints{width: src.width, height: src.height, mask: mask, count: count},
	}, nil
}

// Restore reverses Shift. A pixel that lands on secondary without being a save point
// was above (or below) secondary originally and is pushed back by one step.
//
//	peak < secondary: [peak+2, secondary+1] -= 1
//	peak > secondary: [secondary-1, peak-2] += 1
func Restore(src ImageSource, peak, secondary uint8, points SavePoints) (ImageSource, error) {
	if peak == secondary {
		return ImageSource{}, fmt.Errorf("%w: peak and secondary are both %d", ErrDegenerateHistogram, peak)
	}
	if points.width != src.width || points.height != src.height {
		return ImageSource{}, fmt.Errorf("%w: save points for %dx%d, image %dx%d",
			ErrDimensionMismatch, points.width, points.height, src.width, src.height)
	}
	be, en, step := restoreBand(peak, secondary)

	restored := newImageSource(src.bounds)
	for i, v := range src.pix {
		cur := int(v)
		if be <= cur && cur <= en {
			cur += step
			if cur == int(secondary) && !points.mask[i] {
				cur -= step
			}
		}
		restored.pix[i] = uint8(cur)
	}
	return restored, nil
}

func shiftBand(peak, secondary uint8) (be, en, step int) {
	be, en = int(min(peak, secondary)), int(max(peak, secondary))
	if peak < secondary {
		return be + 1, en, 1
	}
	return be, en - 1, -1
}

func restoreBand(peak, secondary uint8) (be, en, step int) {
	be, en = int(min(peak, secondary)), int(max(peak, secondary))
	if peak < secondary {
		return be + 2, en + 1, -1
	}
	return be - 1, en - 2, 1
}

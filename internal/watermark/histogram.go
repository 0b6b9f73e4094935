package watermark

import (
	"cmp"
	"fmt"
	"slices"
)

// Histogram holds the pixel count of every intensity.
type Histogram [256]int

func NewHistogram(src ImageSource) Histogram {
	var h Histogram
	for _, v := range src.pix {
		h[v]++
	}
	return h
}

// Rank returns all intensities ordered by count, highest first.
// Equal counts keep ascending intensity order.
func (h Histogram) Rank() []uint8 {
	rank := make([]uint8, len(h))
	for i := range rank {
		rank[i] = uint8(i)
	}
	slices.SortStableFunc(rank, func(a, b uint8) int {
		return cmp.Compare(h[b], h[a])
	})
	return rank
}

// Analyze selects the most frequent intensity (peak) and the second most frequent one (secondary).
// The lower intensity wins ties.
func Analyze(src ImageSource) (peak, secondary uint8, err error) {
	h := NewHistogram(src)
	rank := h.Rank()
	peak, secondary = rank[0], rank[1]
	if h[secondary] == 0 {
		return 0, 0, fmt.Errorf("%w: only intensity %d is present", ErrDegenerateHistogram, peak)
	}
	return peak, secondary, nil
}

package watermark

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestImage(t testing.TB, width, height int, pix ...uint8) ImageSource {
	t.Helper()
	s, err := NewImageSource(width, height, pix)
	require.NoError(t, err)
	return s
}

// newNormalImage draws pixels around mean so that the peak bin is well populated.
func newNormalImage(t testing.TB, seed int64, width, height int, mean, sigma float64) ImageSource {
	t.Helper()
	rd := rand.New(rand.NewSource(seed))
	pix := make([]uint8, width*height)
	for i := range pix {
		v := mean + rd.NormFloat64()*sigma
		pix[i] = uint8(min(max(v, 1), 254) + .5)
	}
	return newTestImage(t, width, height, pix...)
}

func newRandomMark(seed int64, n int) bitsMark {
	rd := rand.New(rand.NewSource(seed))
	m := make(bitsMark, n)
	for i := range m {
		m[i] = rd.Intn(2) == 1
	}
	return m
}

type bitsMark []bool

func (m bitsMark) GetBit(at int) bool { return m[at] }
func (m bitsMark) Len() int           { return len(m) }

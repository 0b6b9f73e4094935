package watermark_test

import (
	"image"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yyyoichi/watermark_rdh/mark"
)

// newCover draws pixels around mean so that the peak bin is well populated.
func newCover(seed int64, width, height int, mean, sigma float64) *image.Gray {
	rd := rand.New(rand.NewSource(seed))
	img := image.NewGray(image.Rect(0, 0, width, height))
	for i := range img.Pix {
		v := mean + rd.NormFloat64()*sigma
		img.Pix[i] = uint8(min(max(v, 0), 255) + .5)
	}
	return img
}

func newRandomMark(t testing.TB, seed int64, width, height int) *mark.Bitmap {
	t.Helper()
	rd := rand.New(rand.NewSource(seed))
	bits := make([]bool, width*height)
	for i := range bits {
		bits[i] = rd.Intn(2) == 1
	}
	m, err := mark.NewBools(width, height, bits)
	require.NoError(t, err)
	return m
}

func newFilledMark(t testing.TB, width, height int, on bool) *mark.Bitmap {
	t.Helper()
	bits := make([]bool, width*height)
	for i := range bits {
		bits[i] = on
	}
	m, err := mark.NewBools(width, height, bits)
	require.NoError(t, err)
	return m
}

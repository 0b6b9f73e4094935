package watermark

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbed(t *testing.T) {
	// peak 10 at six pixels, embed point 11 is free
	src := newTestImage(t, 4, 2,
		10, 12, 10, 10,
		10, 30, 10, 10,
	)
	mark := bitsMark{true, false, true, true}
	dist, err := Embed(src, mark, 10, 11)
	require.NoError(t, err)
	assert.Equal(t, []uint8{
		11, 12, 10, 11,
		11, 30, 10, 10,
	}, dist.Pix())

	h := NewHistogram(dist)
	assert.Equal(t, 3, h[11], "one embed point pixel per on bit")
	assert.Equal(t, 6-3, h[10])
	assert.Equal(t, uint8(10), src.Pix()[0], "input must not be mutated")
}

func TestEmbedCapacity(t *testing.T) {
	src := newTestImage(t, 3, 1, 10, 10, 20)
	dist, err := Embed(src, bitsMark{false, false, false}, 10, 11)
	assert.ErrorIs(t, err, ErrInsufficientCapacity)
	assert.Zero(t, dist.Width())

	_, err = Embed(src, bitsMark{false}, 10, 10)
	assert.ErrorIs(t, err, ErrDegenerateHistogram)

	// a 64x64 mark needs 4096 peak pixels
	img := newTestImage(t, 64, 64, make([]uint8, 64*64)...)
	img.pix[0] = 1
	_, err = Embed(img, make(bitsMark, 64*64), 0, 1)
	assert.ErrorIs(t, err, ErrInsufficientCapacity)
}

func TestExtract(t *testing.T) {
	src := newTestImage(t, 4, 2,
		11, 12, 10, 11,
		11, 30, 10, 10,
	)
	bits, dist, err := Extract(src, 4, 10, 11)
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false, true, true}, bits)
	assert.Equal(t, []uint8{
		10, 12, 10, 10,
		10, 30, 10, 10,
	}, dist.Pix())
	assert.Zero(t, NewHistogram(dist)[11])

	_, _, err = Extract(src, 7, 10, 11)
	assert.ErrorIs(t, err, ErrInsufficientCapacity)
	_, _, err = Extract(src, 1, 10, 10)
	assert.ErrorIs(t, err, ErrDegenerateHistogram)
}

func TestEmbedExtractRoundTrip(t *testing.T) {
	test := []struct {
		name  string
		seed  int64
		mean  float64
		sigma float64
		bits  int
	}{
		{"dark", 1, 40, 3, 16 * 16},
		{"mid", 2, 128, 3, 16 * 16},
		{"bright", 3, 220, 3, 16 * 16},
		{"wide", 4, 128, 30, 4 * 4},
	}
	for _, tt := range test {
		t.Run(tt.name, func(t *testing.T) {
			src := newNormalImage(t, tt.seed, 64, 64, tt.mean, tt.sigma)
			peak, secondary, err := Analyze(src)
			require.NoError(t, err)
			res, err := Shift(src, peak, secondary)
			require.NoError(t, err)

			mark := newRandomMark(tt.seed, tt.bits)
			embedded, err := Embed(res.Shifted, mark, peak, res.EmbedPoint)
			require.NoError(t, err)

			bits, extracted, err := Extract(embedded, mark.Len(), peak, res.EmbedPoint)
			require.NoError(t, err)
			assert.Equal(t, []bool(mark), bits)
			assert.Equal(t, res.Shifted.Pix(), extracted.Pix())

			restored, err := Restore(extracted, peak, secondary, res.SavePoints)
			require.NoError(t, err)
			assert.Equal(t, src.Pix(), restored.Pix())
		})
	}
}

func TestScenario4x4(t *testing.T) {
	src := newTestImage(t, 4, 4,
		10, 10, 10, 20,
		30, 30, 10, 20,
		30, 10, 30, 20,
		10, 30, 30, 20,
	)
	peak, secondary, err := Analyze(src)
	require.NoError(t, err)
	assert.Equal(t, uint8(10), peak)
	assert.Equal(t, uint8(30), secondary)

	res, err := Shift(src, peak, secondary)
	require.NoError(t, err)
	mark := bitsMark{false, false, false, false}
	embedded, err := Embed(res.Shifted, mark, peak, res.EmbedPoint)
	require.NoError(t, err)
	assert.Equal(t, res.Shifted.Pix(), embedded.Pix(), "an all-zero mark changes nothing")

	bits, extracted, err := Extract(embedded, mark.Len(), peak, res.EmbedPoint)
	require.NoError(t, err)
	assert.Equal(t, []bool(mark), bits)

	restored, err := Restore(extracted, peak, secondary, res.SavePoints)
	require.NoError(t, err)
	assert.Equal(t, src.Pix(), restored.Pix())
}

func TestImageSourceBuild(t *testing.T) {
	src := newTestImage(t, 2, 2, 1, 2, 3, 4)
	g := src.Build()
	assert.Equal(t, []uint8{1, 2, 3, 4}, g.Pix)

	back := NewImageCore(g.SubImage(g.Rect))
	assert.Equal(t, src.Pix(), back.Pix())

	sub := NewImageCore(g.SubImage(image.Rect(1, 0, 2, 2)))
	assert.Equal(t, 1, sub.Width())
	assert.Equal(t, []uint8{2, 4}, sub.Pix())

	rgba := image.NewRGBA(image.Rect(0, 0, 1, 1))
	rgba.Set(0, 0, color.RGBA{200, 200, 200, 255})
	assert.Equal(t, []uint8{200}, NewImageCore(rgba).Pix())

	_, err := NewImageSource(2, 2, []uint8{1})
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

package watermark_test

import (
	"context"
	_ "embed"
	"encoding/json"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	watermark "github.com/yyyoichi/watermark_rdh"
)

//go:embed testdata/shift_cases.json
var shiftCasesJSON []byte

func TestShiftRestore(t *testing.T) {
	type testcase struct {
		Name      string `json:"name"`
		Width     int    `json:"width"`
		Height    int    `json:"height"`
		Pix       []int  `json:"pix"`
		Peak      uint8  `json:"peak"`
		Secondary uint8  `json:"secondary"`
		Expected  struct {
			Shifted    []int  `json:"shifted"`
			EmbedPoint uint8  `json:"embed_point"`
			SavePoints []bool `json:"save_points"`
		} `json:"expected"`
	}
	var test []testcase
	err := json.Unmarshal(shiftCasesJSON, &test)
	require.NoError(t, err)
	require.NotEmpty(t, test)

	for _, tt := range test {
		t.Run(tt.Name, func(t *testing.T) {
			src := image.NewGray(image.Rect(0, 0, tt.Width, tt.Height))
			require.Len(t, tt.Pix, len(src.Pix))
			pix := toUint8(tt.Pix)
			copy(src.Pix, pix)

			shifted, err := watermark.Shift(src, tt.Peak, tt.Secondary)
			require.NoError(t, err)
			assert.Equal(t, toUint8(tt.Expected.Shifted), shifted.Image.Pix)
			assert.Equal(t, tt.Expected.EmbedPoint, shifted.EmbedPoint)
			assert.Equal(t, tt.Expected.SavePoints, shifted.SavePoints.Mask())
			assert.Zero(t, watermark.Histogram(shifted.Image)[shifted.EmbedPoint])

			restored, err := watermark.Restore(shifted.Image, tt.Peak, tt.Secondary, shifted.SavePoints)
			require.NoError(t, err)
			assert.Equal(t, pix, restored.Pix)
			assert.Equal(t, pix, src.Pix, "input must not be modified")
		})
	}
}

func toUint8(v []int) []uint8 {
	out := make([]uint8, len(v))
	for i := range v {
		out[i] = uint8(v[i])
	}
	return out
}

func TestStages(t *testing.T) {
	cover := newCover(60, 200, 100, 70, 9)
	m := newRandomMark(t, 60, 20, 10)

	peak, secondary, err := watermark.Analyze(cover)
	require.NoError(t, err)
	h := watermark.Histogram(cover)
	assert.GreaterOrEqual(t, h[peak], h[secondary])
	for v, c := range h {
		if uint8(v) != peak {
			assert.LessOrEqual(t, c, h[secondary])
		}
	}

	shifted, err := watermark.Shift(cover, peak, secondary)
	require.NoError(t, err)
	embedded, err := watermark.EmbedShifted(shifted.Image, m, peak, shifted.EmbedPoint)
	require.NoError(t, err)

	// the same pipeline through Embed yields the same image
	want, err := watermark.Embed(context.Background(), cover, m, watermark.WithMarkSize(20, 10))
	require.NoError(t, err)
	assert.Equal(t, want.Image.Pix, embedded.Pix)

	got, unembedded, err := watermark.ExtractEmbedded(embedded, 20, 10, peak, shifted.EmbedPoint)
	require.NoError(t, err)
	assert.True(t, m.Equal(got))
	assert.Equal(t, shifted.Image.Pix, unembedded.Pix)

	restored, err := watermark.Restore(unembedded, peak, secondary, shifted.SavePoints)
	require.NoError(t, err)
	assert.Equal(t, cover.Pix, restored.Pix)
}

func TestStageErrors(t *testing.T) {
	cover := newCover(70, 32, 32, 128, 4)
	peak, secondary, err := watermark.Analyze(cover)
	require.NoError(t, err)
	shifted, err := watermark.Shift(cover, peak, secondary)
	require.NoError(t, err)

	_, err = watermark.Shift(cover, peak, peak)
	assert.ErrorIs(t, err, watermark.ErrDegenerateHistogram)

	_, err = watermark.EmbedShifted(shifted.Image, newRandomMark(t, 70, 64, 64), peak, shifted.EmbedPoint)
	assert.ErrorIs(t, err, watermark.ErrInsufficientCapacity)

	_, _, err = watermark.ExtractEmbedded(shifted.Image, 64, 64, peak, shifted.EmbedPoint)
	assert.ErrorIs(t, err, watermark.ErrInsufficientCapacity)

	points, err := watermark.NewSavePoints(8, 8, make([]bool, 64))
	require.NoError(t, err)
	_, err = watermark.Restore(shifted.Image, peak, secondary, points)
	assert.ErrorIs(t, err, watermark.ErrDimensionMismatch)

	_, err = watermark.NewSavePoints(8, 8, make([]bool, 63))
	assert.ErrorIs(t, err, watermark.ErrDimensionMismatch)
}

func TestPSNR(t *testing.T) {
	a := newCover(80, 64, 64, 128, 20)
	psnr, err := watermark.PSNR(a, a)
	require.NoError(t, err)
	assert.Equal(t, 100.0, psnr)

	ssim, err := watermark.SSIM(a, a)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, ssim, 1e-9)

	// flipping more pixels lowers the score
	prev := psnr
	b := image.NewGray(a.Bounds())
	copy(b.Pix, a.Pix)
	for _, n := range []int{1, 10, 100, 1000} {
		for i := range n {
			b.Pix[i] = a.Pix[i] ^ 0x80
		}
		psnr, err := watermark.PSNR(a, b)
		require.NoError(t, err)
		assert.Less(t, psnr, prev)
		prev = psnr
	}

	_, err = watermark.PSNR(a, newCover(80, 32, 64, 128, 20))
	assert.ErrorIs(t, err, watermark.ErrDimensionMismatch)
	_, err = watermark.SSIM(a, newCover(80, 64, 32, 128, 20))
	assert.ErrorIs(t, err, watermark.ErrDimensionMismatch)
}

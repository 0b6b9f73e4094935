package watermark

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPositions(t *testing.T) {
	src := newTestImage(t, 3, 3,
		5, 1, 5,
		2, 5, 1,
		1, 2, 5,
	)
	assert.Equal(t, []int{0, 2, 4, 8}, Positions(src, 5))
	assert.Equal(t, []int{0, 1, 2, 4, 5, 6, 8}, Positions(src, 5, 1))
	assert.Equal(t, []int{0, 1, 2, 4, 5, 6, 8}, Positions(src, 1, 5), "order follows the scan, not the arguments")
	assert.Empty(t, Positions(src, 200))
}

func TestPositionsMatchAcrossEmbedding(t *testing.T) {
	src := newNormalImage(t, 7, 32, 32, 90, 4)
	peak, secondary, err := Analyze(src)
	require.NoError(t, err)
	res, err := Shift(src, peak, secondary)
	require.NoError(t, err)

	before := Positions(res.Shifted, peak)
	embedded, err := Embed(res.Shifted, newRandomMark(3, len(before)), peak, res.EmbedPoint)
	require.NoError(t, err)
	assert.Equal(t, before, Positions(embedded, peak, res.EmbedPoint))
}

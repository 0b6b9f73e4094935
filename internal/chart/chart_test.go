package chart

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	var counts [256]int
	counts[10], counts[30] = 6, 6
	counts[20] = 4

	var buf bytes.Buffer
	err := Render(&buf,
		Histogram{
			Title:  "Original",
			Counts: counts,
			Highlights: []Highlight{
				{Value: 10, Label: "peak", Color: "#d62728"},
				{Value: 30, Label: "secondary", Color: "#2ca02c"},
			},
		},
		Histogram{
			Title:   "Restored",
			Counts:  counts,
			PSNR:    100,
			HasPSNR: true,
		},
	)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Original")
	assert.Contains(t, out, "Restored")
	assert.Contains(t, out, "PSNR 100.00 dB")
	assert.Contains(t, out, "secondary")
	assert.Contains(t, out, "#d62728")
	assert.Contains(t, out, "#2ca02c")
}

func TestNewBar(t *testing.T) {
	bar := NewBar(Histogram{Title: "Shifted"})
	require.NotNil(t, bar)
	require.Len(t, bar.MultiSeries, 1)
	assert.Equal(t, "count", bar.MultiSeries[0].Name)
}

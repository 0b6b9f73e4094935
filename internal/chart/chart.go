// Package chart renders intensity histograms as an HTML page.
package chart

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

const barColor = "#5470c6"

// Highlight draws one intensity bar in its own color.
type Highlight struct {
	Value uint8
	Label string
	Color string
}

// Histogram is one chart of the page.
type Histogram struct {
	Title  string
	Counts [256]int
	// PSNR against the original, shown in the subtitle when HasPSNR is set.
	PSNR       float64
	HasPSNR    bool
	Highlights []Highlight
}

// NewBar builds a 256-bar chart of h.
func NewBar(h Histogram) *charts.Bar {
	bar := charts.NewBar()

	subtitle := ""
	if h.HasPSNR {
		subtitle = fmt.Sprintf("PSNR %.2f dB", h.PSNR)
	}
	for _, hl := range h.Highlights {
		if subtitle != "" {
			subtitle += "  "
		}
		subtitle += fmt.Sprintf("%s=%d", hl.Label, hl.Value)
	}
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    h.Title,
			Subtitle: subtitle,
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: "Intensity",
			Type: "category",
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: "Pixels",
			Type: "value",
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithDataZoomOpts(opts.DataZoom{
			Type:  "slider",
			Start: 0,
			End:   100,
		}),
	)

	colors := make(map[uint8]Highlight, len(h.Highlights))
	for _, hl := range h.Highlights {
		colors[hl.Value] = hl
	}
	xAxis := make([]string, 256)
	data := make([]opts.BarData, 256)
	for v := range 256 {
		xAxis[v] = strconv.Itoa(v)
		color := barColor
		name := xAxis[v]
		if hl, ok := colors[uint8(v)]; ok {
			color = hl.Color
			name = fmt.Sprintf("%d (%s)", v, hl.Label)
		}
		data[v] = opts.BarData{
			Name:      name,
			Value:     h.Counts[v],
			ItemStyle: &opts.ItemStyle{Color: color},
		}
	}
	bar.SetXAxis(xAxis).AddSeries("count", data)
	return bar
}

// Render writes every histogram as one chart of a single HTML page.
func Render(w io.Writer, histograms ...Histogram) error {
	page := components.NewPage()
	for _, h := range histograms {
		page.AddCharts(NewBar(h))
	}
	return page.Render(w)
}

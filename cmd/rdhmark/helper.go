package main

import (
	"fmt"
	"image"
	"os"

	"github.com/spf13/cobra"
	watermark "github.com/yyyoichi/watermark_rdh"
	"github.com/yyyoichi/watermark_rdh/internal/chart"
	"github.com/yyyoichi/watermark_rdh/internal/images"
	"github.com/yyyoichi/watermark_rdh/mark"
)

// markFlags configures how a watermark source becomes a bitmap.
type markFlags struct {
	MarkWidth  int
	MarkHeight int
	Threshold  uint8
}

func (f *markFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.MarkWidth, "mark-width", mark.DefaultWidth, "Watermark width in bits")
	cmd.Flags().IntVar(&f.MarkHeight, "mark-height", mark.DefaultHeight, "Watermark height in bits")
	cmd.Flags().Uint8Var(&f.Threshold, "threshold", mark.DefaultThreshold, "Gray values above it become on bits")
}

// load reads the mark from an image path, or encodes qr when path is empty.
func (f *markFlags) load(path, qr string) (*mark.Bitmap, error) {
	opts := []mark.Option{
		mark.WithSize(f.MarkWidth, f.MarkHeight),
		mark.WithThreshold(f.Threshold),
	}
	if path == "" {
		return mark.NewQRCode(qr, opts...)
	}
	src, err := images.Open(path)
	if err != nil {
		return nil, err
	}
	return mark.FromImage(src, opts...)
}

func saveOptional(path string, img image.Image) error {
	if path == "" {
		return nil
	}
	return images.Save(path, img)
}

const (
	peakColor       = "#d62728"
	secondaryColor  = "#2ca02c"
	embedPointColor = "#ff7f0e"
)

// histograms builds the original, shifted, embedded and, when restored is not nil,
// restored histograms of one round trip. PSNR is measured against cover.
func histograms(cover *image.Gray, embedded *watermark.Embedded, restored *image.Gray) ([]chart.Histogram, error) {
	key := embedded.Key
	hs := []chart.Histogram{{
		Title:  "Original",
		Counts: watermark.Histogram(cover),
		Highlights: []chart.Highlight{
			{Value: key.Peak, Label: "peak", Color: peakColor},
			{Value: key.Secondary, Label: "secondary", Color: secondaryColor},
		},
	}}
	stages := []struct {
		title string
		img   *image.Gray
	}{
		{"Shifted", embedded.Shifted},
		{"Embedded", embedded.Image},
		{"Restored", restored},
	}
	for _, st := range stages {
		if st.img == nil {
			continue
		}
		psnr, err := watermark.PSNR(cover, st.img)
		if err != nil {
			return nil, err
		}
		hs = append(hs, chart.Histogram{
			Title:   st.title,
			Counts:  watermark.Histogram(st.img),
			PSNR:    psnr,
			HasPSNR: true,
			Highlights: []chart.Highlight{
				{Value: key.Peak, Label: "peak", Color: peakColor},
				{Value: key.EmbedPoint, Label: "embed point", Color: embedPointColor},
			},
		})
	}
	return hs, nil
}

func writeChart(path string, cover *image.Gray, embedded *watermark.Embedded, restored *image.Gray) error {
	hs, err := histograms(cover, embedded, restored)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := chart.Render(f, hs...); err != nil {
		f.Close()
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return f.Close()
}

// pix returns the row-major values of img.
func pix(img *image.Gray) []uint8 {
	r := img.Bounds()
	out := make([]uint8, 0, r.Dx()*r.Dy())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		off := img.PixOffset(r.Min.X, y)
		out = append(out, img.Pix[off:off+r.Dx()]...)
	}
	return out
}

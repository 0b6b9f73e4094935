package main

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	watermark "github.com/yyyoichi/watermark_rdh"
	"github.com/yyyoichi/watermark_rdh/internal/db"
	"github.com/yyyoichi/watermark_rdh/internal/images"
	"github.com/yyyoichi/watermark_rdh/mark"
)

var qualityFlags struct {
	List     string
	DB       string
	Charts   string
	Mark     string
	QR       string
	Workers  int
	Width    int
	Height   int
	CacheDir string
	markFlags
}

var qualityCmd = &cobra.Command{
	Use:   "quality",
	Short: "Run the full round trip over a list of covers",
	Long: `Embeds one watermark into every cover listed in --list (one path or URL per line),
extracts it again and checks that the mark and the cover come back unchanged.
Covers are processed concurrently; results can be stored in SQLite and plotted as HTML.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(qualityFlags.List)
		if err != nil {
			return fmt.Errorf("failed to open list: %w", err)
		}
		uris, err := images.ParseList(f)
		f.Close()
		if err != nil {
			return err
		}
		if len(uris) == 0 {
			return fmt.Errorf("no covers in %s", qualityFlags.List)
		}

		qr := qualityFlags.QR
		if qualityFlags.Mark == "" && qr == "" {
			qr = "watermark_rdh"
		}
		m, err := qualityFlags.load(qualityFlags.Mark, qr)
		if err != nil {
			return err
		}

		var database *db.DB
		if qualityFlags.DB != "" {
			if database, err = db.Open(qualityFlags.DB); err != nil {
				return err
			}
			defer database.Close()
		}
		if qualityFlags.Charts != "" {
			if err := os.MkdirAll(qualityFlags.Charts, 0o755); err != nil {
				return fmt.Errorf("failed to create chart directory: %w", err)
			}
		}

		opts := []images.Option{images.WithSize(qualityFlags.Width, qualityFlags.Height)}
		if qualityFlags.CacheDir != "" {
			opts = append(opts, images.WithCacheDir(qualityFlags.CacheDir))
		}
		r := &runner{
			loader:    images.NewLoader(opts...),
			mark:      m,
			db:        database,
			chartsDir: qualityFlags.Charts,
		}

		log.Info().Int("covers", len(uris)).Int("workers", qualityFlags.Workers).Msg("starting quality evaluation")
		start := time.Now()
		results := r.run(cmd.Context(), uris, qualityFlags.Workers)

		passed := 0
		for _, res := range results {
			if res.ok() {
				passed++
			}
		}
		fmt.Printf("\n=== Results ===\n")
		fmt.Printf("Total covers: %d\n", len(results))
		fmt.Printf("Passed: %d (%.2f%%)\n", passed, float64(passed)/float64(len(results))*100)
		fmt.Printf("Failed: %d\n", len(results)-passed)
		fmt.Printf("Time: %v\n", time.Since(start).Round(time.Millisecond))
		if database != nil {
			s, err := database.GetSummary()
			if err != nil {
				return err
			}
			fmt.Printf("Stored: %d results, average PSNR embedded %.2f dB (min %.2f dB)\n",
				s.Count, s.AvgPSNREmbedded, s.MinPSNREmbedded)
		}
		if passed != len(results) {
			return fmt.Errorf("%d of %d covers failed", len(results)-passed, len(results))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(qualityCmd)

	f := qualityCmd.Flags()
	f.StringVarP(&qualityFlags.List, "list", "l", "", "File with one cover path or URL per line (required)")
	qualityCmd.MarkFlagRequired("list")
	f.StringVar(&qualityFlags.DB, "db", "", "Optional SQLite database the results are stored in")
	f.StringVar(&qualityFlags.Charts, "charts", "", "Optional directory for one histogram HTML page per cover")
	f.StringVarP(&qualityFlags.Mark, "mark", "m", "", "Watermark image path")
	f.StringVar(&qualityFlags.QR, "qr", "", "Text encoded as a QR code watermark (default \"watermark_rdh\")")
	qualityCmd.MarkFlagsMutuallyExclusive("mark", "qr")
	f.IntVarP(&qualityFlags.Workers, "workers", "w", 4, "Number of covers processed at once")
	f.IntVar(&qualityFlags.Width, "width", images.DefaultWidth, "Working width of the covers")
	f.IntVar(&qualityFlags.Height, "height", images.DefaultHeight, "Working height of the covers")
	f.StringVar(&qualityFlags.CacheDir, "cache-dir", "", "Directory remote covers are cached in")
	qualityFlags.markFlags.register(qualityCmd)
}

type runner struct {
	loader    *images.Loader
	mark      *mark.Bitmap
	db        *db.DB
	chartsDir string
}

// evaluation is the outcome of one cover.
type evaluation struct {
	URI    string
	Err    error
	Result db.Result
}

func (e *evaluation) ok() bool {
	return e.Err == nil && e.Result.Lossless && e.Result.MarkMatch
}

// run evaluates every cover with at most workers goroutines. Results keep the order of uris.
func (r *runner) run(ctx context.Context, uris []string, workers int) []*evaluation {
	results := make([]*evaluation, len(uris))
	sem := make(chan struct{}, max(workers, 1))
	var wg sync.WaitGroup
	for i, uri := range uris {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			res := r.evaluate(ctx, i, uri)
			results[i] = res
			r.report(i+1, len(uris), res)
		}()
	}
	wg.Wait()
	return results
}

// evaluate runs one round trip with its own buffers and key.
func (r *runner) evaluate(ctx context.Context, index int, uri string) *evaluation {
	e := &evaluation{URI: uri}
	cover, err := r.loader.Load(uri)
	if err != nil {
		e.Err = err
		return e
	}

	w, err := watermark.New(watermark.WithMarkSize(r.mark.Width(), r.mark.Height()))
	if err != nil {
		e.Err = err
		return e
	}
	embedded, err := w.Embed(ctx, cover, r.mark)
	if err != nil {
		e.Err = fmt.Errorf("embed: %w", err)
		return e
	}
	// the key travels in its serialized form, as between embed and extract
	data, err := embedded.Key.MarshalBinary()
	if err != nil {
		e.Err = err
		return e
	}
	var key watermark.Key
	if err := key.UnmarshalBinary(data); err != nil {
		e.Err = err
		return e
	}
	extracted, err := w.Extract(ctx, embedded.Image, &key)
	if err != nil {
		e.Err = fmt.Errorf("extract: %w", err)
		return e
	}

	res := &e.Result
	res.Peak, res.Secondary, res.EmbedPoint = key.Peak, key.Secondary, key.EmbedPoint
	res.Capacity = watermark.Histogram(cover)[key.Peak]
	res.SavePoints = key.SavePoints.Len()
	for _, m := range []struct {
		img *image.Gray
		v   *float64
	}{
		{embedded.Shifted, &res.PSNRShifted},
		{embedded.Image, &res.PSNREmbedded},
		{extracted.Restored, &res.PSNRRestored},
	} {
		if *m.v, err = watermark.PSNR(cover, m.img); err != nil {
			e.Err = err
			return e
		}
	}
	if res.SSIMEmbedded, err = watermark.SSIM(cover, embedded.Image); err != nil {
		e.Err = err
		return e
	}
	res.Lossless = bytes.Equal(pix(cover), pix(extracted.Restored))
	res.MarkMatch = r.mark.Equal(extracted.Mark)

	if r.chartsDir != "" {
		path := filepath.Join(r.chartsDir, fmt.Sprintf("cover%03d.html", index))
		if err := writeChart(path, cover, embedded, extracted.Restored); err != nil {
			e.Err = err
			return e
		}
	}
	if r.db != nil {
		if err := r.store(uri, cover.Bounds().Dx(), cover.Bounds().Dy(), res); err != nil {
			e.Err = err
		}
	}
	return e
}

func (r *runner) store(uri string, width, height int, res *db.Result) error {
	imageID, err := r.db.InsertImage(uri)
	if err != nil {
		return err
	}
	if res.ImageSizeID, err = r.db.InsertImageSize(imageID, width, height); err != nil {
		return err
	}
	if res.MarkID, err = r.db.InsertMark(r.mark.Bytes(), r.mark.Width(), r.mark.Height()); err != nil {
		return err
	}
	res.ID, err = r.db.InsertResult(res)
	return err
}

func (r *runner) report(n, total int, e *evaluation) {
	if e.Err != nil {
		log.Error().Err(e.Err).Str("uri", e.URI).Msg("round trip failed")
		fmt.Printf("%s [%d/%d] %s: %v\n", failColor("[FAIL]"), n, total, e.URI, e.Err)
		return
	}
	status := okColor("[OK]")
	if !e.ok() {
		status = failColor("[FAIL]")
	}
	res := e.Result
	fmt.Printf("%s [%d/%d] %s peak=%d secondary=%d capacity=%d PSNR shifted=%.2f embedded=%.2f restored=%.2f lossless=%t mark=%t\n",
		status, n, total, e.URI, res.Peak, res.Secondary, res.Capacity,
		res.PSNRShifted, res.PSNREmbedded, res.PSNRRestored, res.Lossless, res.MarkMatch)
}

// Package images loads cover images from files or URLs and brings them
// to the gray working resolution.
package images

import (
	"bufio"
	"fmt"
	"image"
	"image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "image/gif"
	_ "image/jpeg"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/yyyoichi/httpcache-go"
	"github.com/yyyoichi/watermark_rdh/internal/yuv"
	"golang.org/x/image/draw"
)

const (
	DefaultWidth  = 960
	DefaultHeight = 540
)

// ParseList reads one image path or URL per line. Empty lines and lines starting with # are skipped.
func ParseList(r io.Reader) ([]string, error) {
	var uris []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		uris = append(uris, line)
	}
	return uris, scanner.Err()
}

// rateLimitedClient wraps an HTTP client with rate limiting between requests
// Thread-safe for concurrent requests
type rateLimitedClient struct {
	client   *http.Client
	interval time.Duration
	lastCall time.Time
	mu       sync.Mutex
}

func newRateLimitedClient(client *http.Client, interval time.Duration) *rateLimitedClient {
	return &rateLimitedClient{
		client:   client,
		interval: interval,
	}
}

func (r *rateLimitedClient) Do(req *http.Request) (*http.Response, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	// Wait if needed to maintain the interval between requests
	elapsed := time.Since(r.lastCall)
	if elapsed < r.interval {
		time.Sleep(r.interval - elapsed)
	}

	resp, err := r.client.Do(req)
	r.lastCall = time.Now()

	return resp, err
}

// Loader reads covers and converts them to gray images of a fixed size.
type Loader struct {
	width, height int
	cacheDir      string
	interval      time.Duration
	httpClient    *http.Client

	client httpcache.Client
}

type Option func(*Loader)

// WithSize sets the working resolution. The default is 960x540.
func WithSize(width, height int) Option {
	return func(l *Loader) {
		l.width, l.height = width, height
	}
}

// WithCacheDir sets the directory remote images are cached in.
func WithCacheDir(dir string) Option {
	return func(l *Loader) {
		l.cacheDir = dir
	}
}

// WithInterval sets the minimum interval between two remote requests.
func WithInterval(d time.Duration) Option {
	return func(l *Loader) {
		l.interval = d
	}
}

func WithHTTPClient(c *http.Client) Option {
	return func(l *Loader) {
		l.httpClient = c
	}
}

func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		width:      DefaultWidth,
		height:     DefaultHeight,
		cacheDir:   filepath.Join(os.TempDir(), "watermark_rdh_http_cache"),
		interval:   250 * time.Millisecond,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.client = httpcache.Client{
		Client:  newRateLimitedClient(l.httpClient, l.interval),
		Cache:   httpcache.NewStorageCache(l.cacheDir),
		Handler: httpcache.NewDefaultHandler(),
	}
	return l
}

// Load reads the image at uri, a local path or an http(s) URL,
// center-crops it to the working aspect ratio, resizes it and converts it to gray.
func (l *Loader) Load(uri string) (*image.Gray, error) {
	src, err := l.decode(uri)
	if err != nil {
		return nil, err
	}
	return ToGray(Resize(src, l.width, l.height)), nil
}

func (l *Loader) decode(uri string) (image.Image, error) {
	if !isRemote(uri) {
		return Open(uri)
	}

	resp, err := l.client.Get(uri)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bad status: %d", resp.StatusCode)
	}
	src, _, err := image.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", uri, err)
	}
	return src, nil
}

func isRemote(uri string) bool {
	return strings.HasPrefix(uri, "http://") || strings.HasPrefix(uri, "https://")
}

// Resize center-crops src to the aspect ratio of width x height and scales it.
func Resize(src image.Image, width, height int) *image.RGBA {
	bounds := src.Bounds()
	srcWidth, srcHeight := bounds.Dx(), bounds.Dy()
	srcRect := bounds
	srcRatio := float64(srcWidth) / float64(srcHeight)
	targetRatio := float64(width) / float64(height)

	if srcRatio > targetRatio {
		// source too wide - center crop
		newWidth := int(float64(srcHeight) * targetRatio)
		x := bounds.Min.X + (srcWidth-newWidth)/2
		srcRect = image.Rect(x, bounds.Min.Y, x+newWidth, bounds.Max.Y)
	} else if srcRatio < targetRatio {
		// source too tall - center crop
		newHeight := int(float64(srcWidth) / targetRatio)
		y := bounds.Min.Y + (srcHeight-newHeight)/2
		srcRect = image.Rect(bounds.Min.X, y, bounds.Max.X, y+newHeight)
	}

	dist := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dist, dist.Bounds(), src, srcRect, draw.Src, nil)
	return dist
}

// ToGray converts src to 8-bit luma.
func ToGray(src image.Image) *image.Gray {
	if g, ok := src.(*image.Gray); ok {
		return g
	}
	bounds := src.Bounds()
	dist := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			dist.Pix[dist.PixOffset(x, y)] = yuv.ColorToY(src.At(x, y))
		}
	}
	return dist
}

// Save writes img as PNG, the format that keeps every gray value intact.
func Save(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return f.Close()
}

// Open decodes the image at path without resizing.
func Open(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()
	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}
	return src, nil
}

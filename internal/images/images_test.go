package images

import (
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseList(t *testing.T) {
	uris, err := ParseList(strings.NewReader(`
# covers
https://example.com/a.jpg

  testdata/b.png  
`))
	require.NoError(t, err)
	assert.Equal(t, []string{"https://example.com/a.jpg", "testdata/b.png"}, uris)
}

func TestResize(t *testing.T) {
	test := []struct {
		name string
		src  image.Rectangle
	}{
		{"wide", image.Rect(0, 0, 400, 100)},
		{"tall", image.Rect(0, 0, 100, 400)},
		{"same ratio", image.Rect(0, 0, 320, 180)},
		{"offset", image.Rect(10, 20, 330, 200)},
	}
	for _, tt := range test {
		t.Run(tt.name, func(t *testing.T) {
			src := image.NewGray(tt.src)
			dist := Resize(src, 96, 54)
			assert.Equal(t, image.Rect(0, 0, 96, 54), dist.Bounds())
		})
	}

	// the crop keeps the center: a wide image with a white center band
	src := image.NewGray(image.Rect(0, 0, 400, 100))
	for y := range 100 {
		for x := 150; x < 250; x++ {
			src.SetGray(x, y, color.Gray{Y: 255})
		}
	}
	dist := Resize(src, 100, 100)
	assert.GreaterOrEqual(t, dist.RGBAAt(50, 50).R, uint8(250))
	assert.GreaterOrEqual(t, dist.RGBAAt(0, 0).R, uint8(250))
}

func TestToGray(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 1))
	src.Set(0, 0, color.RGBA{255, 0, 0, 255})
	src.Set(1, 0, color.RGBA{10, 10, 10, 255})
	g := ToGray(src)
	assert.Equal(t, []uint8{76, 10}, g.Pix)

	gray := image.NewGray(image.Rect(0, 0, 1, 1))
	assert.Same(t, gray, ToGray(gray))
}

func newPNG(t *testing.T, width, height int) *image.Gray {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, width, height))
	for i := range img.Pix {
		img.Pix[i] = uint8(i % 251)
	}
	return img
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cover.png")
	src := newPNG(t, 64, 36)
	require.NoError(t, Save(path, src))

	opened, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, src.Pix, ToGray(opened).Pix)

	l := NewLoader(WithSize(32, 18))
	img, err := l.Load(path)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 32, 18), img.Bounds())

	_, err = l.Load(filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)
}

func TestLoadRemote(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Path != "/cover.png" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_ = png.Encode(w, newPNG(t, 120, 80))
	}))
	defer srv.Close()

	l := NewLoader(WithSize(60, 40), WithCacheDir(t.TempDir()), WithInterval(0), WithHTTPClient(srv.Client()))
	img, err := l.Load(srv.URL + "/cover.png")
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 60, 40), img.Bounds())
	assert.NotZero(t, calls.Load())

	_, err = l.Load(srv.URL + "/missing.png")
	assert.Error(t, err)
}

package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yyyoichi/watermark_rdh/internal/db"
)

func seedResults(t *testing.T) *db.DB {
	t.Helper()
	database, err := db.Open(filepath.Join(t.TempDir(), "results.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	markID, err := database.InsertMark([]byte{0xf0, 0x0f}, 4, 4)
	require.NoError(t, err)
	for i, uri := range []string{"a.png", "b.png"} {
		imageID, err := database.InsertImage(uri)
		require.NoError(t, err)
		sizeID, err := database.InsertImageSize(imageID, 160, 90)
		require.NoError(t, err)
		_, err = database.InsertResult(&db.Result{
			ImageSizeID:  sizeID,
			MarkID:       markID,
			Peak:         120,
			Secondary:    121,
			EmbedPoint:   121,
			PSNRShifted:  52,
			PSNREmbedded: 50 - float64(i),
			PSNRRestored: 100,
			Lossless:     i == 0,
			MarkMatch:    true,
		})
		require.NoError(t, err)
	}
	return database
}

func TestRunQuery(t *testing.T) {
	database := seedResults(t)
	t.Cleanup(func() { queryFlags.Failed, queryFlags.Image, queryFlags.JSON = false, "", false })

	test := []struct {
		name     string
		failed   bool
		image    string
		contains []string
		excludes []string
	}{
		{
			name:     "summary",
			contains: []string{"Total results: 2", "Lossless: 1", "Mark match: 2", "49.50 / 49.00 dB"},
		},
		{
			name:     "failed",
			failed:   true,
			contains: []string{"[FAIL]", "b.png", "1 results"},
			excludes: []string{"a.png"},
		},
		{
			name:     "image",
			image:    "a.png",
			contains: []string{"[OK]", "a.png 160x90 mark=4x4 peak=120", "1 results"},
			excludes: []string{"b.png"},
		},
		{
			name:     "unknown image",
			image:    "c.png",
			contains: []string{"0 results"},
		},
	}
	for _, tt := range test {
		t.Run(tt.name, func(t *testing.T) {
			queryFlags.Failed, queryFlags.Image, queryFlags.JSON = tt.failed, tt.image, false
			var buf bytes.Buffer
			require.NoError(t, runQuery(&buf, database))
			for _, s := range tt.contains {
				assert.Contains(t, buf.String(), s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, buf.String(), s)
			}
		})
	}

	t.Run("json", func(t *testing.T) {
		queryFlags.Failed, queryFlags.Image, queryFlags.JSON = true, "", true
		var buf bytes.Buffer
		require.NoError(t, runQuery(&buf, database))
		var got []db.DetailedResult
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		require.Len(t, got, 1)
		assert.Equal(t, "b.png", got[0].ImageURI)
		assert.False(t, got[0].Lossless)
		assert.Equal(t, 49.0, got[0].PSNREmbedded)
	})
}

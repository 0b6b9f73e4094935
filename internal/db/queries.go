package db

import (
	"fmt"
)

// DetailedResult contains all joined information for a result
type DetailedResult struct {
	ID int64

	// Image info
	ImageURI string
	Width    int
	Height   int

	// Mark info
	MarkWidth  int
	MarkHeight int

	// Analysis
	Peak       uint8
	Secondary  uint8
	EmbedPoint uint8
	Capacity   int
	SavePoints int

	// Metrics
	PSNRShifted  float64
	PSNREmbedded float64
	PSNRRestored float64
	SSIMEmbedded float64
	Lossless     bool
	MarkMatch    bool
}

// Summary aggregates all results
type Summary struct {
	Count           int
	Lossless        int
	MarkMatch       int
	AvgPSNRShifted  float64
	AvgPSNREmbedded float64
	MinPSNREmbedded float64
}

// QueryDetailed executes a query on the results_detailed view
func (d *DB) QueryDetailed(query string, args ...any) ([]*DetailedResult, error) {
	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query: %w", err)
	}
	defer rows.Close()

	var results []*DetailedResult
	for rows.Next() {
		var r DetailedResult
		err := rows.Scan(
			&r.ID,
			&r.ImageURI,
			&r.Width,
			&r.Height,
			&r.MarkWidth,
			&r.MarkHeight,
			&r.Peak,
			&r.Secondary,
			&r.EmbedPoint,
			&r.Capacity,
			&r.SavePoints,
			&r.PSNRShifted,
			&r.PSNREmbedded,
			&r.PSNRRestored,
			&r.SSIMEmbedded,
			&r.Lossless,
			&r.MarkMatch,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan: %w", err)
		}
		results = append(results, &r)
	}
	return results, rows.Err()
}

// GetFailedResults returns the round trips that lost a pixel or a bit
func (d *DB) GetFailedResults() ([]*DetailedResult, error) {
	return d.QueryDetailed(`
		SELECT * FROM results_detailed
		WHERE lossless = 0 OR mark_match = 0
		ORDER BY id
	`)
}

// GetResultsByImage returns the results of one cover
func (d *DB) GetResultsByImage(uri string) ([]*DetailedResult, error) {
	return d.QueryDetailed(`
		SELECT * FROM results_detailed
		WHERE image_uri = ?
		ORDER BY psnr_embedded DESC
	`, uri)
}

// GetSummary aggregates all results. Averages are zero when there is none.
func (d *DB) GetSummary() (*Summary, error) {
	var s Summary
	err := d.db.QueryRow(`
		SELECT COUNT(*),
		       COALESCE(SUM(lossless), 0),
		       COALESCE(SUM(mark_match), 0),
		       COALESCE(AVG(psnr_shifted), 0),
		       COALESCE(AVG(psnr_embedded), 0),
		       COALESCE(MIN(psnr_embedded), 0)
		FROM results
	`).Scan(&s.Count, &s.Lossless, &s.MarkMatch, &s.AvgPSNRShifted, &s.AvgPSNREmbedded, &s.MinPSNREmbedded)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize results: %w", err)
	}
	return &s, nil
}

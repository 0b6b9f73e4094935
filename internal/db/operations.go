package db

import (
	"fmt"
)

// InsertImage inserts or gets an existing image by URI
func (d *DB) InsertImage(uri string) (int64, error) {
	if _, err := d.db.Exec("INSERT INTO images (uri) VALUES (?) ON CONFLICT(uri) DO NOTHING", uri); err != nil {
		return 0, fmt.Errorf("failed to insert image: %w", err)
	}
	var id int64
	if err := d.db.QueryRow("SELECT id FROM images WHERE uri = ?", uri).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to query image: %w", err)
	}
	return id, nil
}

// InsertImageSize inserts or gets an existing image size
func (d *DB) InsertImageSize(imageID int64, width, height int) (int64, error) {
	if _, err := d.db.Exec(
		"INSERT INTO image_sizes (image_id, width, height) VALUES (?, ?, ?) ON CONFLICT DO NOTHING",
		imageID, width, height,
	); err != nil {
		return 0, fmt.Errorf("failed to insert image size: %w", err)
	}
	var id int64
	if err := d.db.QueryRow(
		"SELECT id FROM image_sizes WHERE image_id = ? AND width = ? AND height = ?",
		imageID, width, height,
	).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to query image size: %w", err)
	}
	return id, nil
}

// InsertMark inserts or gets an existing mark
func (d *DB) InsertMark(mark []byte, width, height int) (int64, error) {
	if _, err := d.db.Exec(
		"INSERT INTO marks (mark, width, height) VALUES (?, ?, ?) ON CONFLICT DO NOTHING",
		mark, width, height,
	); err != nil {
		return 0, fmt.Errorf("failed to insert mark: %w", err)
	}
	var id int64
	if err := d.db.QueryRow(
		"SELECT id FROM marks WHERE mark = ? AND width = ? AND height = ?",
		mark, width, height,
	).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to query mark: %w", err)
	}
	return id, nil
}

// InsertResult inserts a result, replacing the metrics of an earlier run
// of the same image size and mark.
func (d *DB) InsertResult(r *Result) (int64, error) {
	_, err := d.db.Exec(`
		INSERT INTO results (
			image_size_id, mark_id,
			peak, secondary, embed_point, capacity, save_points,
			psnr_shifted, psnr_embedded, psnr_restored, ssim_embedded,
			lossless, mark_match
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(image_size_id, mark_id) DO UPDATE SET
			peak = excluded.peak,
			secondary = excluded.secondary,
			embed_point = excluded.embed_point,
			capacity = excluded.capacity,
			save_points = excluded.save_points,
			psnr_shifted = excluded.psnr_shifted,
			psnr_embedded = excluded.psnr_embedded,
			psnr_restored = excluded.psnr_restored,
			ssim_embedded = excluded.ssim_embedded,
			lossless = excluded.lossless,
			mark_match = excluded.mark_match`,
		r.ImageSizeID,
		r.MarkID,
		r.Peak,
		r.Secondary,
		r.EmbedPoint,
		r.Capacity,
		r.SavePoints,
		r.PSNRShifted,
		r.PSNREmbedded,
		r.PSNRRestored,
		r.SSIMEmbedded,
		r.Lossless,
		r.MarkMatch,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert result: %w", err)
	}
	var id int64
	if err := d.db.QueryRow(
		"SELECT id FROM results WHERE image_size_id = ? AND mark_id = ?",
		r.ImageSizeID, r.MarkID,
	).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to query result: %w", err)
	}
	return id, nil
}

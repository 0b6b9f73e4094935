package db

const schema = `
-- Cover images
CREATE TABLE IF NOT EXISTS images (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    uri TEXT NOT NULL UNIQUE
);

-- Working sizes of a cover
CREATE TABLE IF NOT EXISTS image_sizes (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    image_id INTEGER NOT NULL,
    width INTEGER NOT NULL,
    height INTEGER NOT NULL,
    FOREIGN KEY (image_id) REFERENCES images(id) ON DELETE CASCADE,
    UNIQUE(image_id, width, height)
);

-- Watermark bitmaps, packed one bit per pixel
CREATE TABLE IF NOT EXISTS marks (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    mark BLOB NOT NULL,
    width INTEGER NOT NULL,
    height INTEGER NOT NULL,
    UNIQUE(mark, width, height)
);

-- One embed/extract round trip
CREATE TABLE IF NOT EXISTS results (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    image_size_id INTEGER NOT NULL,
    mark_id INTEGER NOT NULL,

    peak INTEGER NOT NULL,
    secondary INTEGER NOT NULL,
    embed_point INTEGER NOT NULL,
    capacity INTEGER NOT NULL,
    save_points INTEGER NOT NULL,

    psnr_shifted REAL NOT NULL,
    psnr_embedded REAL NOT NULL,
    psnr_restored REAL NOT NULL,
    ssim_embedded REAL NOT NULL,

    lossless BOOLEAN NOT NULL,
    mark_match BOOLEAN NOT NULL,

    FOREIGN KEY (image_size_id) REFERENCES image_sizes(id) ON DELETE CASCADE,
    FOREIGN KEY (mark_id) REFERENCES marks(id) ON DELETE CASCADE,
    UNIQUE(image_size_id, mark_id)
);

CREATE INDEX IF NOT EXISTS idx_results_lossless ON results(lossless);
CREATE INDEX IF NOT EXISTS idx_results_psnr_embedded ON results(psnr_embedded);
CREATE INDEX IF NOT EXISTS idx_image_sizes_image ON image_sizes(image_id);

CREATE VIEW IF NOT EXISTS results_detailed AS
SELECT
    r.id,
    i.uri as image_uri,
    isz.width,
    isz.height,
    m.width as mark_width,
    m.height as mark_height,
    r.peak,
    r.secondary,
    r.embed_point,
    r.capacity,
    r.save_points,
    r.psnr_shifted,
    r.psnr_embedded,
    r.psnr_restored,
    r.ssim_embedded,
    r.lossless,
    r.mark_match
FROM results r
JOIN image_sizes isz ON r.image_size_id = isz.id
JOIN images i ON isz.image_id = i.id
JOIN marks m ON r.mark_id = m.id;
`

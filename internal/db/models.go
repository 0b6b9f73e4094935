package db

type (
	// Result represents one round trip
	Result struct {
		ID          int64
		ImageSizeID int64
		MarkID      int64

		Peak       uint8
		Secondary  uint8
		EmbedPoint uint8
		Capacity   int
		SavePoints int

		PSNRShifted  float64
		PSNREmbedded float64
		PSNRRestored float64
		SSIMEmbedded float64

		// Restored equals the cover pixel for pixel
		Lossless bool
		// Extracted mark equals the embedded one bit for bit
		MarkMatch bool

		// Unique constraint on (ImageSizeID, MarkID)
	}
)

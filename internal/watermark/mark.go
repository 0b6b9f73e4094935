package watermark

// EmbedMark is a binary mark read in row-major order.
type EmbedMark interface {
	// GetBit reports whether the bit at the given index is on (white).
	GetBit(at int) bool
	Len() int
}

package mark

const (
	DefaultWidth     = 64
	DefaultHeight    = 64
	DefaultThreshold = 127
)

type (
	// Option configures how a source image is turned into a bitmap.
	Option  func(*options)
	options struct {
		width, height int
		threshold     uint8
	}
)

// WithSize sets the bitmap size the source is resized to. The default is 64x64.
func WithSize(width, height int) Option {
	return func(o *options) {
		o.width, o.height = width, height
	}
}

// WithThreshold sets the binarization threshold: a gray value above t becomes an on bit.
// The default is 127.
func WithThreshold(t uint8) Option {
	return func(o *options) {
		o.threshold = t
	}
}

func newOptions(opts ...Option) options {
	o := options{
		width:     DefaultWidth,
		height:    DefaultHeight,
		threshold: DefaultThreshold,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

package ndarray

import "go.uber.org/zap"

const (
	// DefaultMaxElements caps the element count a decoder accepts from a
	// header before allocating.
	DefaultMaxElements = 1 << 30
	// DefaultChunkSize is the scratch buffer size used to pack and unpack
	// payloads.
	DefaultChunkSize = 64 << 10
)

// Option configures Serialize and Deserialize calls.
type Option func(*options)

type options struct {
	maxElements      int
	chunkSize        int
	unsafePrimitives bool
	log              *zap.Logger
}

func newOptions(opts []Option) *options {
	o := &options{
		maxElements: DefaultMaxElements,
		chunkSize:   DefaultChunkSize,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.log == nil {
		o.log = Logger()
	}
	return o
}

// WithMaxElements sets the largest element count a decoder accepts.
// Values below 1 are ignored.
func WithMaxElements(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxElements = n
		}
	}
}

// WithChunkSize sets the scratch buffer size in bytes used to pack and
// unpack payloads. Values below 8 are ignored.
func WithChunkSize(n int) Option {
	return func(o *options) {
		if n >= 8 {
			o.chunkSize = n
		}
	}
}

// WithUnsafePrimitives lets the codec move payloads as aliased byte views
// of the element buffer instead of packing them through a scratch buffer.
// It only takes effect on little-endian hosts.
func WithUnsafePrimitives() Option {
	return func(o *options) {
		o.unsafePrimitives = true
	}
}

// WithLogger sets the logger for a single call.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		o.log = l
	}
}

package pixparse

// Option configures an Extractor during creation.
//
// Example:
//
//	// Default software rasterizer, 1 GiB limit
//	ex, _ := pixparse.New()
//
//	// golang.org/x/image/draw backend with a 64 MiB limit
//	ex, err := pixparse.New(
//	    pixparse.WithBackend(pixparse.RasterizerXDraw),
//	    pixparse.WithMaxBytes(64<<20),
//	)
type Option func(*options)

// options holds optional configuration for Extractor creation.
type options struct {
	rasterizer   Rasterizer
	backend      string
	maxBytes     int
	scratchLimit int
}

// defaultOptions returns the default extractor options.
func defaultOptions() options {
	return options{
		rasterizer:   nil, // resolved from backend or the registry
		maxBytes:     DefaultMaxBytes,
		scratchLimit: 2,
	}
}

// WithRasterizer sets the rasterizer directly, bypassing the registry.
// Takes precedence over WithBackend.
func WithRasterizer(r Rasterizer) Option {
	return func(o *options) {
		o.rasterizer = r
	}
}

// WithBackend selects a registered rasterizer by name.
// New fails with ErrUnknownRasterizer if the name is not registered.
func WithBackend(name string) Option {
	return func(o *options) {
		o.backend = name
	}
}

// WithMaxBytes limits the size of a single output buffer.
// Extractions needing more than n bytes fail with ErrAllocation.
// Non-positive values restore DefaultMaxBytes.
func WithMaxBytes(n int) Option {
	return func(o *options) {
		if n <= 0 {
			n = DefaultMaxBytes
		}
		o.maxBytes = n
	}
}

// WithScratchBuffers sets how many scratch buffers of each size the
// extractor keeps for re-orienting images. Zero keeps no limit.
func WithScratchBuffers(n int) Option {
	return func(o *options) {
		if n < 0 {
			n = 0
		}
		o.scratchLimit = n
	}
}

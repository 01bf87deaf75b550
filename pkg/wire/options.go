package wire

import "log/slog"

const (
	// Default bounded-read size for each pull from the transport.
	defaultChunkSize = 1024

	// Default cap on bytes consumed while hunting for a usable header
	// block (1MB).
	defaultMaxHeaderBytes = 1024 * 1024
)

// config holds decoder/encoder configuration.
type config struct {
	logger         *slog.Logger
	chunkSize      int
	maxHeaderBytes int
}

func newConfig(opts []Option) *config {
	cfg := &config{
		logger:         slog.Default(),
		chunkSize:      defaultChunkSize,
		maxHeaderBytes: defaultMaxHeaderBytes,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Option configures a Decoder or Encoder.
type Option func(*config)

// ChunkSize sets the maximum number of bytes requested per read call.
// Smaller chunks increase syscall traffic but bound per-read latency.
//
// Default: 1024 bytes.
func ChunkSize(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.chunkSize = n
		}
	}
}

// MaxHeaderBytes caps the total bytes the decoder will consume while
// looking for a header block with a usable Content-Length field. Without
// a cap, a peer that streams garbage (or header blocks that never carry a
// length) would be buffered forever; once the cap is exceeded the stream
// is treated as fatally malformed and Decode returns ErrHeaderTooLarge.
//
// Default: 1MB (1048576 bytes).
func MaxHeaderBytes(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxHeaderBytes = n
		}
	}
}

// WithLogger sets the logger used for protocol-error and message-traffic
// logging.
//
// Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

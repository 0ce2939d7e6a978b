package stream

import "github.com/rs/zerolog"

const defaultChunkSize = 4 * 1024

type options struct {
	logger    zerolog.Logger
	peer      string
	metrics   bool
	chunkSize int
}

func defaultOptions() options {
	return options{
		logger:    zerolog.Nop(),
		peer:      "unknown",
		chunkSize: defaultChunkSize,
	}
}

// Option configures a Reader or Writer.
type Option func(*options)

// WithLogger attaches a structured logger. Readers and writers log state
// transitions at debug level; the default logger discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithPeerLabel sets the peer label used in logs and metrics. Split fills
// it from the connection's remote address when not set explicitly.
func WithPeerLabel(peer string) Option {
	return func(o *options) {
		if peer != "" {
			o.peer = peer
		}
	}
}

// WithMetrics enables prometheus instrumentation of frames, bytes, and
// decode failures.
func WithMetrics() Option {
	return func(o *options) {
		o.metrics = true
	}
}

// WithReadChunkSize sets the size of the scratch buffer used per transport
// read attempt.
func WithReadChunkSize(size int) Option {
	return func(o *options) {
		if size > 0 {
			o.chunkSize = size
		}
	}
}

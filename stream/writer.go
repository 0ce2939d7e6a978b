package stream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"syscall"
	"time"

	"github.com/danmuck/framewire/codec"
	"github.com/danmuck/framewire/internal/observability"
	"github.com/danmuck/framewire/wire"
)

// Writer flushes encoded frames to the write half of a transport in strict
// enqueue order. Frames are serialized once, at Queue time; Write resumes
// a partially flushed frame from where the last attempt stopped, tracking
// the cursor internally by re-slicing the front frame.
type Writer[T any, H wire.Header] struct {
	half   WriteHalf
	origin *net.TCPConn
	codec  codec.Codec[T, H]
	opts   options

	// pending[0] holds only the unflushed remainder of the front frame.
	pending [][]byte
}

// NewWriter wraps the write half of a transport.
func NewWriter[T any, H wire.Header](half WriteHalf, c codec.Codec[T, H], opts ...Option) *Writer[T, H] {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Writer[T, H]{
		half:  half,
		codec: c,
		opts:  o,
	}
}

// Queue encodes payload into one contiguous frame and appends it to the
// back of the pending queue. On serialization failure the queue is left
// untouched. The queue is unbounded; see the package documentation.
func (w *Writer[T, H]) Queue(payload T) error {
	frame, err := w.codec.Encode(payload)
	if err != nil {
		return err
	}
	w.pending = append(w.pending, frame)
	w.opts.logger.Debug().
		Int("frame_bytes", len(frame)).
		Int("pending", len(w.pending)).
		Msg("frame queued")
	return nil
}

// Write attempts exactly one transport write of the front frame's
// unflushed remainder. An empty queue succeeds trivially. A partial
// acceptance advances the cursor and succeeds; full acceptance pops the
// frame. Zero bytes accepted with no transport error while bytes remain
// means the peer is gone and yields ErrDisconnected, as do EPIPE,
// ECONNRESET, and writes on a closed connection. Other transport errors
// are returned unchanged, cursor already advanced by whatever was taken.
func (w *Writer[T, H]) Write(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(w.pending) == 0 {
		return nil
	}

	interrupted := false
	if done := ctx.Done(); done != nil {
		stop := make(chan struct{})
		exited := make(chan struct{})
		go func() {
			defer close(exited)
			select {
			case <-done:
				interrupted = true
				_ = w.half.SetWriteDeadline(time.Unix(1, 0))
			case <-stop:
			}
		}()
		defer func() {
			close(stop)
			<-exited
			if interrupted {
				_ = w.half.SetWriteDeadline(time.Time{})
			}
		}()
	}

	front := w.pending[0]
	n, err := w.half.Write(front)
	if n > 0 {
		w.pending[0] = front[n:]
		if w.opts.metrics {
			observability.RecordBytesWritten(w.opts.peer, n)
		}
	}
	if len(w.pending[0]) == 0 {
		w.pending = w.pending[1:]
		if w.opts.metrics {
			observability.RecordFrameWritten(w.opts.peer)
		}
		w.opts.logger.Debug().
			Int("pending", len(w.pending)).
			Msg("frame flushed")
	}

	switch {
	case err != nil:
		if errors.Is(err, os.ErrDeadlineExceeded) && ctx.Err() != nil {
			return ctx.Err()
		}
		if isDisconnect(err) {
			if w.opts.metrics {
				observability.RecordDisconnect(w.opts.peer)
			}
			return fmt.Errorf("%w: %w", ErrDisconnected, err)
		}
		return err
	case n == 0:
		// The transport accepted nothing and reported no error while frame
		// bytes remain: the peer is gone.
		if w.opts.metrics {
			observability.RecordDisconnect(w.opts.peer)
		}
		return ErrDisconnected
	}
	return nil
}

func isDisconnect(err error) bool {
	return errors.Is(err, net.ErrClosed) ||
		errors.Is(err, io.ErrClosedPipe) ||
		errors.Is(err, syscall.EPIPE) ||
		errors.Is(err, syscall.ECONNRESET)
}

// Pending reports how many frames await flushing, counting a partially
// flushed front frame.
func (w *Writer[T, H]) Pending() int {
	return len(w.pending)
}

// PendingBytes reports the total unflushed byte count across the queue.
func (w *Writer[T, H]) PendingBytes() int {
	total := 0
	for _, frame := range w.pending {
		total += len(frame)
	}
	return total
}

// Half exposes the underlying write half.
func (w *Writer[T, H]) Half() WriteHalf {
	return w.half
}

package stream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net"
	"os"
	"time"

	"github.com/danmuck/framewire/codec"
	"github.com/danmuck/framewire/internal/observability"
	"github.com/danmuck/framewire/wire"
)

// readState tracks how far the reader has progressed into the frame at the
// front of its buffer. Accumulating states (awaitingHeader, awaitingBody)
// advance to their full counterparts once the buffer holds enough bytes;
// full states are consumed by Update.
type readState int

const (
	stateIdle readState = iota
	stateAwaitingHeader
	stateHeaderFull
	stateAwaitingBody
	stateBodyFull
)

func (s readState) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case stateAwaitingHeader:
		return "awaiting-header"
	case stateHeaderFull:
		return "header-full"
	case stateAwaitingBody:
		return "awaiting-body"
	case stateBodyFull:
		return "body-full"
	default:
		return "unknown"
	}
}

// Reader incrementally reassembles frames from an arbitrarily fragmented
// byte stream. One Read call performs exactly one transport read attempt;
// one Update call decodes at most one complete frame from the buffer. The
// two are split so that only Read ever touches the network.
type Reader[T any, H wire.Header] struct {
	half   ReadHalf
	origin *net.TCPConn
	codec  codec.Codec[T, H]
	opts   options

	headerSize int
	buf        []byte
	scratch    []byte
	state      readState
	header     H
	ready      []T
	failed     error
}

// NewReader wraps the read half of a transport. The codec supplies both
// the header layout and the payload serialization strategy.
func NewReader[T any, H wire.Header](half ReadHalf, c codec.Codec[T, H], opts ...Option) *Reader[T, H] {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Reader[T, H]{
		half:       half,
		codec:      c,
		opts:       o,
		headerSize: c.Format().HeaderSize(),
		scratch:    make([]byte, o.chunkSize),
	}
}

// Read issues exactly one read attempt against the transport and appends
// whatever arrives to the accumulation buffer. It performs no decoding.
//
// Read is cancellation safe: when ctx is cancelled mid-read, a past read
// deadline unblocks the transport and any bytes it had already delivered
// are appended to the buffer before the context error is returned. A later
// Read resumes from exactly where the stream left off.
//
// A graceful close at a frame boundary returns ErrPeerClosed; a close that
// strands a partially received frame returns ErrDisconnected. Transport
// errors are returned unchanged.
func (r *Reader[T, H]) Read(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
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
				_ = r.half.SetReadDeadline(time.Unix(1, 0))
			case <-stop:
			}
		}()
		defer func() {
			close(stop)
			<-exited
			if interrupted {
				_ = r.half.SetReadDeadline(time.Time{})
			}
		}()
	}

	n, err := r.half.Read(r.scratch)
	// Appending before any error handling is what keeps cancellation from
	// dropping delivered bytes.
	if n > 0 {
		r.buf = append(r.buf, r.scratch[:n]...)
		if r.opts.metrics {
			observability.RecordBytesRead(r.opts.peer, n)
		}
	}
	if r.state == stateIdle {
		r.state = stateAwaitingHeader
	}
	r.promote()

	switch {
	case err == nil && n == 0, errors.Is(err, io.EOF):
		if r.midFrame() {
			if r.opts.metrics {
				observability.RecordDisconnect(r.opts.peer)
			}
			return ErrDisconnected
		}
		return ErrPeerClosed
	case err != nil:
		if errors.Is(err, os.ErrDeadlineExceeded) && ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}

	r.opts.logger.Debug().
		Str("state", r.state.String()).
		Int("read", n).
		Int("buffered", len(r.buf)).
		Msg("transport read")
	return nil
}

// Update decodes at most one complete frame already held in the buffer: a
// header parse, a payload parse, or both when the buffer covers the whole
// frame. It never touches the transport and returns promptly.
//
// The boolean reports whether a new message was queued. Decode failures
// are terminal for the stream: every later Update returns the same error,
// without re-attempting the decode, until ClearState.
func (r *Reader[T, H]) Update() (bool, error) {
	if r.failed != nil {
		return false, r.failed
	}

	if r.state == stateHeaderFull {
		if err := r.consumeHeader(); err != nil {
			return false, err
		}
	}
	if r.state == stateBodyFull {
		if err := r.consumeBody(); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}

func (r *Reader[T, H]) consumeHeader() error {
	head := r.buf[:r.headerSize]
	h, err := r.codec.Format().Decode(head)
	if err != nil {
		r.failed = fmt.Errorf("%w: %w", ErrHeaderDecode, err)
		if r.opts.metrics {
			observability.RecordDecodeError(r.opts.peer, "header")
		}
		return r.failed
	}
	if h.PayloadLen() > math.MaxInt-uint64(r.headerSize) {
		r.failed = fmt.Errorf("%w: %w: %d", ErrHeaderDecode, wire.ErrLengthOutOfRange, h.PayloadLen())
		return r.failed
	}
	r.buf = r.buf[r.headerSize:]
	r.header = h
	r.state = stateAwaitingBody
	r.promote()
	r.opts.logger.Debug().
		Uint64("payload_len", h.PayloadLen()).
		Int("buffered", len(r.buf)).
		Msg("header decoded")
	return nil
}

func (r *Reader[T, H]) consumeBody() error {
	bodyLen := int(r.header.PayloadLen())
	body := r.buf[:bodyLen]
	msg, err := r.codec.Decode(body)
	if err != nil {
		r.failed = fmt.Errorf("%w: %w", ErrMessageDecode, err)
		if r.opts.metrics {
			observability.RecordDecodeError(r.opts.peer, "message")
		}
		return r.failed
	}
	r.buf = r.buf[bodyLen:]
	r.ready = append(r.ready, msg)
	var blank H
	r.header = blank
	r.state = stateAwaitingHeader
	r.promote()
	if r.opts.metrics {
		observability.RecordFrameRead(r.opts.peer)
	}
	r.opts.logger.Debug().
		Int("queued", len(r.ready)).
		Int("buffered", len(r.buf)).
		Msg("frame decoded")
	return nil
}

// promote moves an accumulating state to its full counterpart once the
// buffer holds enough bytes. It runs after every append and after every
// consume so buffered back-to-back frames advance without new reads.
func (r *Reader[T, H]) promote() {
	switch r.state {
	case stateAwaitingHeader:
		if len(r.buf) >= r.headerSize {
			r.state = stateHeaderFull
		}
	case stateAwaitingBody:
		if uint64(len(r.buf)) >= r.header.PayloadLen() {
			r.state = stateBodyFull
		}
	}
}

// midFrame reports whether buffered bytes or reader state would be
// stranded by a peer close right now.
func (r *Reader[T, H]) midFrame() bool {
	if len(r.buf) > 0 {
		return true
	}
	return r.state == stateAwaitingBody || r.state == stateBodyFull
}

// Messages removes and returns every queued decoded message in arrival
// order. State machine progress is unaffected.
func (r *Reader[T, H]) Messages() []T {
	out := r.ready
	r.ready = nil
	return out
}

// Next removes and returns the oldest queued message.
func (r *Reader[T, H]) Next() (T, bool) {
	if len(r.ready) == 0 {
		var zero T
		return zero, false
	}
	msg := r.ready[0]
	r.ready = r.ready[1:]
	return msg, true
}

// Buffered reports how many bytes sit in the accumulation buffer, not yet
// attributed to a decoded frame.
func (r *Reader[T, H]) Buffered() int {
	return len(r.buf)
}

// Queued reports how many decoded messages await draining.
func (r *Reader[T, H]) Queued() int {
	return len(r.ready)
}

// ClearState resets the reader to its initial state, discarding buffered
// bytes, queued messages, and any sticky decode failure. It is the
// designated recovery path after a decode error, when the stream is
// presumed desynchronized.
func (r *Reader[T, H]) ClearState() {
	r.buf = nil
	r.ready = nil
	r.failed = nil
	var blank H
	r.header = blank
	r.state = stateIdle
}

// Half exposes the underlying read half.
func (r *Reader[T, H]) Half() ReadHalf {
	return r.half
}

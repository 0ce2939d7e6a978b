package stream

import "errors"

var (
	// ErrPeerClosed reports a graceful close of the read half at a frame
	// boundary: no buffered bytes were awaiting a header or body.
	ErrPeerClosed = errors.New("stream: peer closed")

	// ErrDisconnected reports a peer that went away mid-frame: a write was
	// accepted for zero bytes while frame bytes remained unflushed, or the
	// read half closed with a partially received frame.
	ErrDisconnected = errors.New("stream: peer disconnected")

	// ErrHeaderDecode wraps header validation failures. The stream is
	// presumed desynchronized; the reader stays failed until ClearState.
	ErrHeaderDecode = errors.New("stream: header decode failed")

	// ErrMessageDecode wraps payload deserialization failures. As with
	// header failures, the reader stays failed until ClearState.
	ErrMessageDecode = errors.New("stream: message decode failed")

	// ErrReunite reports a Join of halves that did not originate from the
	// same transport connection.
	ErrReunite = errors.New("stream: halves originate from different connections")
)

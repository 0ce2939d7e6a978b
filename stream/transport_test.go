package stream

import (
	"bytes"
	"io"
	"os"
	"sync"
	"time"
)

// chunkHalf replays scripted byte chunks, one chunk per Read call, then
// reports EOF. It stands in for an arbitrarily fragmented transport.
type chunkHalf struct {
	chunks [][]byte
	i      int
}

func (h *chunkHalf) Read(p []byte) (int, error) {
	if h.i >= len(h.chunks) {
		return 0, io.EOF
	}
	n := copy(p, h.chunks[h.i])
	h.i++
	return n, nil
}

func (h *chunkHalf) SetReadDeadline(time.Time) error { return nil }

// splitIntoChunks cuts data into size-byte pieces.
func splitIntoChunks(data []byte, size int) [][]byte {
	var chunks [][]byte
	for len(data) > 0 {
		n := size
		if n > len(data) {
			n = len(data)
		}
		chunks = append(chunks, data[:n])
		data = data[n:]
	}
	return chunks
}

// stallHalf blocks its first Read until a past read deadline is set, then
// returns partial bytes together with the deadline error, mimicking a
// kernel read interrupted with data already delivered. Later Reads replay
// rest.
type stallHalf struct {
	partial []byte
	rest    [][]byte

	reading  chan struct{}
	released chan struct{}
	onceRead sync.Once
	onceRel  sync.Once
	calls    int
}

func newStallHalf(partial []byte, rest ...[]byte) *stallHalf {
	return &stallHalf{
		partial:  partial,
		rest:     rest,
		reading:  make(chan struct{}),
		released: make(chan struct{}),
	}
}

func (h *stallHalf) Read(p []byte) (int, error) {
	if h.calls == 0 {
		h.calls++
		h.onceRead.Do(func() { close(h.reading) })
		<-h.released
		n := copy(p, h.partial)
		return n, os.ErrDeadlineExceeded
	}
	idx := h.calls - 1
	h.calls++
	if idx >= len(h.rest) {
		return 0, io.EOF
	}
	n := copy(p, h.rest[idx])
	return n, nil
}

func (h *stallHalf) SetReadDeadline(t time.Time) error {
	if !t.IsZero() && !t.After(time.Now()) {
		h.onceRel.Do(func() { close(h.released) })
	}
	return nil
}

// sinkHalf records written bytes, optionally accepting at most acceptCap
// bytes per call. zeroAccept simulates a transport that takes nothing and
// reports no error.
type sinkHalf struct {
	wrote      bytes.Buffer
	acceptCap  int
	zeroAccept bool
	err        error
	calls      int
}

func (h *sinkHalf) Write(p []byte) (int, error) {
	h.calls++
	if h.zeroAccept {
		return 0, nil
	}
	if h.err != nil {
		return 0, h.err
	}
	n := len(p)
	if h.acceptCap > 0 && h.acceptCap < n {
		n = h.acceptCap
	}
	h.wrote.Write(p[:n])
	return n, nil
}

func (h *sinkHalf) SetWriteDeadline(time.Time) error { return nil }

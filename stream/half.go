package stream

import (
	"io"
	"net"
	"time"

	"github.com/danmuck/framewire/codec"
	"github.com/danmuck/framewire/wire"
)

// ReadHalf is the read direction of a split duplex transport. The deadline
// hook is what makes Read cancellable: a context watcher sets a past
// deadline to unblock an in-flight read without losing delivered bytes.
// *net.TCPConn and both ends of net.Pipe satisfy it.
type ReadHalf interface {
	io.Reader
	SetReadDeadline(t time.Time) error
}

// WriteHalf is the write direction of a split duplex transport.
type WriteHalf interface {
	io.Writer
	SetWriteDeadline(t time.Time) error
}

// Split produces the reader/writer pair for one TCP connection. Each half
// is exclusively owned by the side it is handed to; the connection itself
// stays open until the caller closes it (or Joins the halves back).
func Split[T any, H wire.Header](conn *net.TCPConn, c codec.Codec[T, H], opts ...Option) (*Reader[T, H], *Writer[T, H]) {
	peered := append([]Option{WithPeerLabel(conn.RemoteAddr().String())}, opts...)
	r := NewReader(conn, c, peered...)
	w := NewWriter(conn, c, peered...)
	r.origin = conn
	w.origin = conn
	return r, w
}

// Join recombines halves previously produced by Split into the original
// connection. It fails with ErrReunite when the halves did not come from
// the same Split call.
func Join[T any, H wire.Header](r *Reader[T, H], w *Writer[T, H]) (*net.TCPConn, error) {
	if r.origin == nil || r.origin != w.origin {
		return nil, ErrReunite
	}
	return r.origin, nil
}

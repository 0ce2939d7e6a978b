package stream

import (
	"context"
	"fmt"
	"net"

	"github.com/danmuck/framewire/wire"
)

// Conn pairs a Reader and Writer with the peer they talk to. It owns
// neither half's internals; every operation forwards to the two
// primitives.
type Conn[T any, H wire.Header] struct {
	reader *Reader[T, H]
	writer *Writer[T, H]
	addr   net.Addr
}

func NewConn[T any, H wire.Header](r *Reader[T, H], w *Writer[T, H], addr net.Addr) *Conn[T, H] {
	return &Conn[T, H]{reader: r, writer: w, addr: addr}
}

// Read performs one transport read on the read half. See Reader.Read.
func (c *Conn[T, H]) Read(ctx context.Context) error {
	return c.reader.Read(ctx)
}

// Poll advances both halves without touching the network on the read side:
// one reader Update and one writer Write. The first failure is returned
// wrapped with the side that produced it; the boolean reports whether a
// new message was queued.
func (c *Conn[T, H]) Poll(ctx context.Context) (bool, error) {
	newMsg, err := c.reader.Update()
	if err != nil {
		return false, fmt.Errorf("read side: %w", err)
	}
	if err := c.writer.Write(ctx); err != nil {
		return newMsg, fmt.Errorf("write side: %w", err)
	}
	return newMsg, nil
}

// WaitForMessage reads and polls until a decoded message is available,
// then removes and returns it. Queued outgoing frames are flushed along
// the way. Cancellation is imposed through ctx; no internal timeout
// exists.
func (c *Conn[T, H]) WaitForMessage(ctx context.Context) (T, error) {
	var zero T
	for {
		if msg, ok := c.reader.Next(); ok {
			return msg, nil
		}
		if err := c.reader.Read(ctx); err != nil {
			return zero, err
		}
		newMsg, err := c.Poll(ctx)
		if err != nil {
			return zero, err
		}
		if newMsg {
			msg, ok := c.reader.Next()
			if !ok {
				panic("stream: Poll reported a queued message but the queue is empty")
			}
			return msg, nil
		}
	}
}

// Queue serializes payload onto the outgoing FIFO. The frame goes out on
// later Poll or Flush calls.
func (c *Conn[T, H]) Queue(payload T) error {
	return c.writer.Queue(payload)
}

// Flush drives the writer until every pending frame is on the wire.
func (c *Conn[T, H]) Flush(ctx context.Context) error {
	for c.writer.Pending() > 0 {
		if err := c.writer.Write(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Messages drains every decoded incoming message in arrival order.
func (c *Conn[T, H]) Messages() []T {
	return c.reader.Messages()
}

// Next removes and returns the oldest decoded incoming message.
func (c *Conn[T, H]) Next() (T, bool) {
	return c.reader.Next()
}

// RemoteAddr reports the peer address the conn was built with.
func (c *Conn[T, H]) RemoteAddr() net.Addr {
	return c.addr
}

func (c *Conn[T, H]) Reader() *Reader[T, H] {
	return c.reader
}

func (c *Conn[T, H]) Writer() *Writer[T, H] {
	return c.writer
}

// Detach releases both halves, consuming the facade.
func (c *Conn[T, H]) Detach() (*Reader[T, H], *Writer[T, H]) {
	return c.reader, c.writer
}

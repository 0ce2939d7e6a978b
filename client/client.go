// Package client dials framed TCP connections.
package client

import (
	"context"
	"fmt"
	"net"

	"github.com/danmuck/framewire/codec"
	"github.com/danmuck/framewire/stream"
	"github.com/danmuck/framewire/wire"
)

// Dial establishes a TCP connection to addr and wraps it in a framed Conn.
// The codec fixes the header layout and payload serialization for the life
// of the connection.
func Dial[T any, H wire.Header](ctx context.Context, addr string, c codec.Codec[T, H], opts ...stream.Option) (*stream.Conn[T, H], error) {
	var d net.Dialer
	raw, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("client: dial %s: %w", addr, err)
	}
	tcp, ok := raw.(*net.TCPConn)
	if !ok {
		_ = raw.Close()
		return nil, fmt.Errorf("client: dial %s: unexpected connection type %T", addr, raw)
	}
	r, w := stream.Split(tcp, c, opts...)
	return stream.NewConn(r, w, tcp.RemoteAddr()), nil
}

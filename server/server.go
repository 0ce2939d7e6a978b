// Package server accepts framed TCP connections.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/danmuck/framewire/codec"
	"github.com/danmuck/framewire/stream"
	"github.com/danmuck/framewire/wire"
)

// Handler processes one accepted connection. Serve runs each handler in
// its own goroutine; returning an error tears the whole server down.
type Handler[T any, H wire.Header] func(ctx context.Context, conn *stream.Conn[T, H]) error

// Server listens for incoming connections and hands out framed
// reader/writer pairs, one Conn per accepted peer.
type Server[T any, H wire.Header] struct {
	listener *net.TCPListener
	codec    codec.Codec[T, H]
	opts     []stream.Option
}

// Listen binds addr and returns a server ready to Accept.
func Listen[T any, H wire.Header](addr string, c codec.Codec[T, H], opts ...stream.Option) (*Server[T, H], error) {
	tcpAddr, err := net.ResolveTCPAddr("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("server: resolve %s: %w", addr, err)
	}
	ln, err := net.ListenTCP("tcp", tcpAddr)
	if err != nil {
		return nil, fmt.Errorf("server: listen %s: %w", addr, err)
	}
	return &Server[T, H]{listener: ln, codec: c, opts: opts}, nil
}

// Accept blocks for the next incoming connection and wraps it. ctx
// cancellation unblocks a pending accept.
func (s *Server[T, H]) Accept(ctx context.Context) (*stream.Conn[T, H], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
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
				_ = s.listener.SetDeadline(time.Unix(1, 0))
			case <-stop:
			}
		}()
		defer func() {
			close(stop)
			<-exited
			if interrupted {
				_ = s.listener.SetDeadline(time.Time{})
			}
		}()
	}

	tcp, err := s.listener.AcceptTCP()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("server: accept: %w", err)
	}
	r, w := stream.Split(tcp, s.codec, s.opts...)
	return stream.NewConn(r, w, tcp.RemoteAddr()), nil
}

// Serve accepts connections until ctx is cancelled or the listener fails,
// running handler once per connection. A handler error cancels the group
// and is returned from Serve.
func (s *Server[T, H]) Serve(ctx context.Context, handler Handler[T, H]) error {
	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		for {
			conn, err := s.Accept(ctx)
			if err != nil {
				if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
					return ctx.Err()
				}
				return err
			}
			log.Info().Str("peer", conn.RemoteAddr().String()).Msg("connection accepted")
			group.Go(func() error {
				defer log.Info().Str("peer", conn.RemoteAddr().String()).Msg("connection done")
				return handler(ctx, conn)
			})
		}
	})

	err := group.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// Addr reports the bound listen address.
func (s *Server[T, H]) Addr() net.Addr {
	return s.listener.Addr()
}

// Close shuts the listener down, unblocking pending accepts.
func (s *Server[T, H]) Close() error {
	return s.listener.Close()
}

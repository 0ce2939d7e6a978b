package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/danmuck/framewire/client"
	"github.com/danmuck/framewire/codec"
	"github.com/danmuck/framewire/internal/demo"
	"github.com/danmuck/framewire/internal/logging"
	"github.com/danmuck/framewire/stream"
	"github.com/danmuck/framewire/wire"
)

func main() {
	logging.ConfigureRuntime()

	addr := flag.String("addr", "127.0.0.1:7420", "echod address")
	format := flag.String("format", "sealed", "header format: length or sealed")
	from := flag.String("from", "echoctl", "sender label stamped on envelopes")
	flag.Parse()

	body := strings.Join(flag.Args(), " ")
	if body == "" {
		body = "ping"
	}

	if err := run(*addr, *format, *from, body); err != nil {
		fmt.Fprintf(os.Stderr, "echoctl: %v\n", err)
		os.Exit(1)
	}
}

func run(addr, format, from, body string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch strings.ToLower(strings.TrimSpace(format)) {
	case "length":
		return send(ctx, addr, from, body, codec.New[demo.Envelope, wire.LengthHeader](wire.LengthFormat{}, codec.JSON{}))
	case "sealed":
		return send(ctx, addr, from, body, codec.New[demo.Envelope, wire.SealedHeader](wire.SealedFormat{}, codec.JSON{}))
	default:
		return fmt.Errorf("unknown header format %q", format)
	}
}

func send[H wire.Header](ctx context.Context, addr, from, body string, c codec.Codec[demo.Envelope, H]) error {
	conn, err := client.Dial(ctx, addr, c, stream.WithLogger(log.Logger))
	if err != nil {
		return err
	}
	defer func() {
		if tcp, err := stream.Join(conn.Detach()); err == nil {
			_ = tcp.Close()
		}
	}()

	out := demo.Envelope{From: from, Body: body, Seq: 1, SentAt: time.Now().UTC()}
	if err := conn.Queue(out); err != nil {
		return err
	}
	if err := conn.Flush(ctx); err != nil {
		return err
	}
	log.Info().Str("addr", addr).Uint64("seq", out.Seq).Msg("envelope sent")

	in, err := conn.WaitForMessage(ctx)
	if err != nil {
		return err
	}
	latency := time.Since(out.SentAt)
	log.Info().
		Str("from", in.From).
		Uint64("seq", in.Seq).
		Dur("latency", latency).
		Msg("echo received")
	fmt.Println(in.Body)
	return nil
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/danmuck/framewire/codec"
	"github.com/danmuck/framewire/internal/demo"
	"github.com/danmuck/framewire/internal/logging"
	"github.com/danmuck/framewire/internal/observability"
	"github.com/danmuck/framewire/server"
	"github.com/danmuck/framewire/stream"
	"github.com/danmuck/framewire/wire"
)

func main() {
	logging.ConfigureRuntime()

	configPath := flag.String("config", "", "path to echod config (toml)")
	flag.Parse()

	cfg, err := loadServiceConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "echod: %v\n", err)
		os.Exit(1)
	}
	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "echod: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg serviceConfig) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch cfg.Format {
	case formatLength:
		return serve(ctx, cfg, codec.New[demo.Envelope, wire.LengthHeader](wire.LengthFormat{}, codec.JSON{}))
	default:
		return serve(ctx, cfg, codec.New[demo.Envelope, wire.SealedHeader](wire.SealedFormat{MaxPayload: cfg.MaxPayload}, codec.JSON{}))
	}
}

func serve[H wire.Header](ctx context.Context, cfg serviceConfig, c codec.Codec[demo.Envelope, H]) error {
	observability.RegisterMetrics()

	srv, err := server.Listen(cfg.ListenAddr, c, stream.WithMetrics(), stream.WithLogger(log.Logger))
	if err != nil {
		return err
	}
	defer srv.Close()
	log.Info().
		Str("addr", srv.Addr().String()).
		Str("format", cfg.Format).
		Msg("echod listening")

	group, ctx := errgroup.WithContext(ctx)

	if cfg.AdminAddr != "" {
		admin := adminServer(cfg)
		group.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return admin.Shutdown(shutdownCtx)
		})
		group.Go(func() error {
			log.Info().Str("addr", cfg.AdminAddr).Msg("admin endpoint listening")
			if err := admin.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}

	group.Go(func() error {
		return srv.Serve(ctx, echo[H])
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// echo queues every received envelope straight back to its sender.
func echo[H wire.Header](ctx context.Context, conn *stream.Conn[demo.Envelope, H]) error {
	for {
		msg, err := conn.WaitForMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, stream.ErrPeerClosed) || errors.Is(err, stream.ErrDisconnected) {
				return nil
			}
			log.Warn().Err(err).Str("peer", conn.RemoteAddr().String()).Msg("echo receive failed")
			return err
		}
		log.Debug().
			Str("peer", conn.RemoteAddr().String()).
			Uint64("seq", msg.Seq).
			Msg("echoing envelope")
		if err := conn.Queue(msg); err != nil {
			return err
		}
		if err := conn.Flush(ctx); err != nil {
			return err
		}
	}
}

func adminServer(cfg serviceConfig) *http.Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	if len(cfg.CorsOrigins) > 0 {
		corsCfg := cors.DefaultConfig()
		corsCfg.AllowOrigins = cfg.CorsOrigins
		router.Use(cors.New(corsCfg))
	}

	started := time.Now()
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"uptime":    time.Since(started).String(),
			"component": "echod",
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return &http.Server{Addr: cfg.AdminAddr, Handler: router}
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	"github.com/BruksfildServices01/barber-booking/internal/infra/cache"
	"github.com/BruksfildServices01/barber-booking/internal/metrics"
	"github.com/BruksfildServices01/barber-booking/internal/routes"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context())
		},
	}
}

// slotCache is the cache plus its shutdown hook.
type slotCache interface {
	routes.SlotCache
	Close() error
}

func (a *app) serve(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := a.openDB()
	if err != nil {
		return err
	}
	defer closeDB(db)

	// --------------------------------------------------
	// Slot cache
	// --------------------------------------------------
	var slots slotCache = cache.NoopSlotCache{}
	if a.cfg.CacheEnabled() {
		client := cache.NewRedisClient(a.cfg.RedisAddr, a.cfg.RedisPassword, a.cfg.RedisDB)
		if err := client.Ping(ctx).Err(); err != nil {
			// the cache is optional; the breaker keeps retrying later
			a.logger.Warn().Err(err).Str("addr", a.cfg.RedisAddr).Msg("redis unreachable at startup")
		}
		slots = cache.NewRedisSlotCache(client, a.cfg.SlotsCacheTTL, a.logger)
	}
	defer func() { _ = slots.Close() }()

	// --------------------------------------------------
	// Audit sinks
	// --------------------------------------------------
	sinks := []audit.Sink{audit.New(db)}
	if a.cfg.EventsEnabled() {
		publisher, err := audit.NewAMQPPublisher(a.cfg.AMQPUrl, a.logger)
		if err != nil {
			return err
		}
		defer func() { _ = publisher.Close() }()
		sinks = append(sinks, publisher)
	}
	dispatcher := audit.NewDispatcher(a.logger, sinks...)

	// --------------------------------------------------
	// HTTP
	// --------------------------------------------------
	metrics.Register()
	gin.SetMode(gin.ReleaseMode)

	engine := routes.NewEngine(a.cfg, a.logger)
	routes.RegisterRoutes(engine, db, a.cfg, slots, dispatcher)

	srv := &http.Server{
		Addr:              a.cfg.Addr(),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info().Str("addr", srv.Addr).Str("driver", a.cfg.DBDriver).Msg("server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		a.logger.Info().Msg("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.logger.Error().Err(err).Msg("http shutdown")
	}
	if err := dispatcher.Close(shutdownCtx); err != nil {
		a.logger.Error().Err(err).Msg("audit queue not drained")
	}
	return nil
}

/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the leave ledger server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load configuration (.env, environment, flags)
  2. Build the zap logger
  3. Open the ledger store (memory or sqlite) and seed it
  4. Choose the event publisher (Kafka when brokers are configured)
  5. Create ledger service, desk, API handler and router
  6. Start server with graceful shutdown

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close the event publisher and the store
  4. Exit

EXAMPLES:
  # In-memory ledger with seed data
  ./server

  # SQLite ledger, JSON logs, events to Kafka
  ./server -store=sqlite -db=./ledger.db -log-format=json -kafka-brokers=localhost:9092

SEE ALSO:
  - config/config.go: Flags and environment variables
  - api/server.go: Router configuration
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/warp/leave-ledger/api"
	"github.com/warp/leave-ledger/config"
	"github.com/warp/leave-ledger/events"
	"github.com/warp/leave-ledger/ledger"
	"github.com/warp/leave-ledger/store/memory"
	"github.com/warp/leave-ledger/store/sqlite"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(2)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}

func run(cfg config.Config, logger *zap.Logger) error {
	ctx := context.Background()

	// Initialize store
	store, closeStore, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if err := closeStore.Close(); err != nil {
			logger.Warn("failed to close store", zap.Error(err))
		}
	}()

	if !cfg.NoSeed {
		if err := ledger.Seed(ctx, store, ledger.DefaultSeed()); err != nil {
			return fmt.Errorf("seed ledger: %w", err)
		}
		logger.Info("ledger seeded")
	}

	// Event publisher
	var publisher events.Publisher = events.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		kp := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, events.WithPublishTimeout(cfg.KafkaTimeout))
		defer func() {
			if err := kp.Close(); err != nil {
				logger.Warn("failed to close kafka publisher", zap.Error(err))
			}
		}()
		publisher = kp
		logger.Info("publishing ledger events",
			zap.Strings("brokers", cfg.KafkaBrokers),
			zap.String("topic", cfg.KafkaTopic),
			zap.Duration("timeout", cfg.KafkaTimeout),
		)
	}

	svc := ledger.NewService(store, ledger.Options{
		Entitlement:     cfg.Entitlement,
		RestoreOnCancel: cfg.RestoreOnCancel,
		Audit:           memory.NewAuditLog(),
		Publisher:       publisher,
		Logger:          logger,
	})
	handler := api.NewHandler(ledger.NewDesk(svc), logger)
	router := api.NewRouter(handler, cfg.CORSOrigins)

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			zap.String("addr", server.Addr),
			zap.String("store", cfg.Store),
			zap.Int("entitlement", svc.Entitlement()),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serverErr:
		return err
	case sig := <-quit:
		logger.Info("shutting down server", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}

// openStore returns the configured ledger store and the handle that closes it.
func openStore(cfg config.Config) (ledger.Store, io.Closer, error) {
	switch cfg.Store {
	case config.StoreSQLite:
		s, err := sqlite.New(cfg.SQLiteDSN)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	default:
		return memory.NewStore(), io.NopCloser(nil), nil
	}
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	zc := zap.NewDevelopmentConfig()
	if cfg.LogFormat == "json" {
		zc = zap.NewProductionConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"golang.org/x/sync/errgroup"

	"github.com/mmynk/javoucar/internal/app"
	"github.com/mmynk/javoucar/internal/auth"
	"github.com/mmynk/javoucar/internal/feedback"
	"github.com/mmynk/javoucar/internal/remote"
	"github.com/mmynk/javoucar/internal/storage"
	"github.com/mmynk/javoucar/internal/storage/memory"
	"github.com/mmynk/javoucar/internal/storage/postgres"
	"github.com/mmynk/javoucar/internal/storage/sqlite"
	"github.com/mmynk/javoucar/pkg/logging"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logging.Setup("server")

	cfg, err := parseConfig(os.Args[1:], os.LookupEnv)
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

// openKV opens the configured snapshot backend.
func openKV(ctx context.Context, cfg *config) (storage.KV, func() error, error) {
	switch cfg.StoreBackend {
	case backendPostgres:
		store, err := postgres.Open(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	case backendMemory:
		return memory.New(), func() error { return nil }, nil
	default:
		store, err := sqlite.New(cfg.DBPath)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	}
}

func run(ctx context.Context, cfg *config) error {
	kv, closeKV, err := openKV(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() {
		if err := closeKV(); err != nil {
			slog.Warn("Failed to close storage", "error", err)
		}
	}()
	slog.Info("Storage initialized", "backend", cfg.StoreBackend)

	if cfg.SessionSecret == defaultSessionSecret {
		slog.Warn("Using the development session secret", "env", envSessionSecret)
	}
	jwtManager := auth.NewJWTManager(cfg.SessionSecret, sessionTTL)

	store := storage.NewSnapshotStore(kv, storage.SnapshotKey)
	svc := remote.NewMock(jwtManager,
		remote.WithLatency(cfg.RemoteLatency),
		remote.WithFailureRate(cfg.RemoteFailureRate),
		remote.WithSeed(store.Load(ctx)),
	)

	hub := feedback.NewHub(nil)
	notifier := feedback.NewNotifier(hub)
	hub.SetReportHandler(notifier.Apply)
	alerts := feedback.NewAlerts(hub, feedback.NewBeeper(hub), notifier)

	ctrl := app.New(ctx, svc, store, alerts)
	defer ctrl.Close()

	staticDir, err := filepath.Abs(cfg.StaticPath)
	if err != nil {
		return fmt.Errorf("failed to resolve static path: %w", err)
	}
	slog.Info("Serving static files", "path", staticDir)

	srv := &http.Server{
		Addr: ":" + cfg.Port,
		// h2c serves HTTP/2 without TLS for Connect clients.
		Handler:           h2c.NewHandler(newRouter(staticDir, ctrl, hub, jwtManager), &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("Server starting", "address", srv.Addr, "url", "http://localhost"+srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		hub.Close()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

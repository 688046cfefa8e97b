// Command edge runs the offline cache in front of the app server. It
// precaches the page shell, drops stale caches, then serves cache-first.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	appmw "github.com/mmynk/javoucar/internal/middleware"
	"github.com/mmynk/javoucar/internal/offline"
	"github.com/mmynk/javoucar/pkg/logging"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logging.Setup("edge")

	cfg, err := parseConfig(os.Args[1:], os.LookupEnv)
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("Edge failed", "error", err)
		os.Exit(1)
	}
}

func openStorage(ctx context.Context, cfg *config) (offline.Storage, error) {
	if cfg.CacheBackend == backendMinio {
		return offline.NewMinioStorage(ctx, offline.MinioConfig{
			Endpoint:        cfg.MinioEndpoint,
			AccessKeyID:     cfg.MinioUser,
			SecretAccessKey: cfg.MinioPassword,
			BucketName:      cfg.MinioBucket,
		})
	}
	return offline.NewMemoryStorage(), nil
}

func run(ctx context.Context, cfg *config) error {
	cache, err := openStorage(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open cache storage: %w", err)
	}
	slog.Info("Cache storage ready", "backend", cfg.CacheBackend)

	var opts []offline.Option
	if cfg.CacheName != "" {
		opts = append(opts, offline.WithCacheName(cfg.CacheName))
	}
	worker := offline.NewWorker(cfg.Origin, cache, opts...)

	// A failed install leaves the previous caches in place and skips activation.
	if err := worker.Install(ctx); err != nil {
		slog.Warn("Install failed, serving without a fresh precache", "error", err)
	} else if _, err := worker.Activate(ctx); err != nil {
		slog.Warn("Activate failed", "error", err)
	}

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(appmw.RequestLogger)
	r.Handle("/edge/metrics", promhttp.Handler())
	r.Handle("/*", worker)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("Edge starting", "address", srv.Addr, "origin", cfg.Origin.String(), "cache", worker.CacheName)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

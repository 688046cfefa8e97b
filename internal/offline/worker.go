// Package offline is a cache-first edge in front of the app server. It
// precaches the page shell on install, serves static GETs from the cache,
// passes API traffic straight through, and drops stale caches on activate.
package offline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"
	"slices"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mmynk/javoucar/internal/metrics"
)

const (
	// DefaultCacheName is the current cache version.
	DefaultCacheName = "javoucar-v1"

	// APIMarker marks requests that must never be cached.
	APIMarker = "/api/"

	installConcurrency = 4
)

// DefaultAssets is the page shell cached on install.
var DefaultAssets = []string{
	"/",
	"/index.html",
	"/manifest.json",
	"/script.js",
	"/styles.css",
	"/icons/icon-192x192.png",
	"/icons/icon-512x512.png",
	"/assets/notification.mp3",
}

// ErrInstall is returned when the precache could not be filled.
var ErrInstall = errors.New("offline install failed")

// Worker serves requests cache-first in front of an origin.
type Worker struct {
	CacheName string
	Assets    []string

	origin  *url.URL
	storage Storage
	client  *http.Client
	proxy   *httputil.ReverseProxy
	now     func() time.Time
}

// Option configures a Worker.
type Option func(*Worker)

// WithCacheName overrides DefaultCacheName.
func WithCacheName(name string) Option {
	return func(w *Worker) { w.CacheName = name }
}

// WithAssets overrides DefaultAssets.
func WithAssets(assets []string) Option {
	return func(w *Worker) { w.Assets = assets }
}

// WithHTTPClient sets the client used for origin fetches.
func WithHTTPClient(c *http.Client) Option {
	return func(w *Worker) { w.client = c }
}

// NewWorker creates a Worker in front of origin, caching into storage.
func NewWorker(origin *url.URL, storage Storage, opts ...Option) *Worker {
	w := &Worker{
		CacheName: DefaultCacheName,
		Assets:    slices.Clone(DefaultAssets),
		origin:    origin,
		storage:   storage,
		client:    &http.Client{Timeout: 30 * time.Second},
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}

	w.proxy = &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(origin)
			pr.SetXForwarded()
		},
		ErrorHandler: func(rw http.ResponseWriter, r *http.Request, err error) {
			slog.Warn("Origin unreachable", "method", r.Method, "path", r.URL.Path, "error", err)
			rw.WriteHeader(http.StatusBadGateway)
		},
	}
	return w
}

// Install fetches every asset concurrently and stores them in the current
// cache. Either every asset is cached or none is.
func (w *Worker) Install(ctx context.Context) error {
	entries := make([]*Entry, len(w.Assets))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(installConcurrency)
	for i, asset := range w.Assets {
		g.Go(func() error {
			entry, err := w.fetch(gctx, asset, nil)
			if err != nil {
				return fmt.Errorf("%w: %s: %w", ErrInstall, asset, err)
			}
			if !cacheable(entry.Status) {
				return fmt.Errorf("%w: %s: status %d", ErrInstall, asset, entry.Status)
			}
			entries[i] = entry
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	bucket, err := w.storage.Open(ctx, w.CacheName)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInstall, err)
	}
	for i, asset := range w.Assets {
		if err := bucket.Put(ctx, asset, entries[i]); err != nil {
			if _, derr := w.storage.Delete(ctx, w.CacheName); derr != nil {
				slog.Warn("Failed to roll back partial install", "cache", w.CacheName, "error", derr)
			}
			return fmt.Errorf("%w: %s: %w", ErrInstall, asset, err)
		}
	}

	slog.Info("Offline cache installed", "cache", w.CacheName, "assets", len(w.Assets))
	return nil
}

// Activate deletes every cache other than the current one and returns the
// deleted names.
func (w *Worker) Activate(ctx context.Context) ([]string, error) {
	names, err := w.storage.Keys(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list caches: %w", err)
	}

	var deleted []string
	for _, name := range names {
		if name == w.CacheName {
			continue
		}
		if _, err := w.storage.Delete(ctx, name); err != nil {
			return deleted, fmt.Errorf("failed to delete cache %q: %w", name, err)
		}
		deleted = append(deleted, name)
	}

	slog.Info("Offline cache activated", "cache", w.CacheName, "deleted", deleted)
	return deleted, nil
}

// ServeHTTP answers a fetch. API calls, non-GET requests and upgrades go
// straight to the origin; other requests are served cache-first.
func (w *Worker) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	if bypass(r) {
		metrics.OfflineRequests.WithLabelValues(metrics.ResultBypass).Inc()
		w.proxy.ServeHTTP(rw, r)
		return
	}

	ctx := r.Context()
	key := r.URL.RequestURI()

	bucket, err := w.storage.Open(ctx, w.CacheName)
	if err != nil {
		slog.Warn("Cache unavailable", "cache", w.CacheName, "error", err)
		bucket = nil
	}

	if bucket != nil {
		entry, ok, err := bucket.Match(ctx, key)
		if err != nil {
			slog.Warn("Cache lookup failed", "key", key, "error", err)
		}
		if ok {
			metrics.OfflineRequests.WithLabelValues(metrics.ResultHit).Inc()
			writeEntry(rw, entry)
			return
		}
	}

	metrics.OfflineRequests.WithLabelValues(metrics.ResultMiss).Inc()
	entry, err := w.fetch(ctx, key, r.Header)
	if err != nil {
		slog.Warn("Origin fetch failed", "key", key, "error", err)
		http.Error(rw, http.StatusText(http.StatusBadGateway), http.StatusBadGateway)
		return
	}

	if bucket != nil && cacheable(entry.Status) {
		if err := bucket.Put(ctx, key, entry); err != nil {
			slog.Warn("Failed to cache response", "key", key, "error", err)
		}
	}
	writeEntry(rw, entry)
}

func bypass(r *http.Request) bool {
	return strings.Contains(r.URL.Path, APIMarker) ||
		r.Method != http.MethodGet ||
		r.Header.Get("Upgrade") != ""
}

// cacheable reports whether a response may be stored under its request URI.
// Only complete bodies qualify, so partial content is never cached.
func cacheable(status int) bool {
	return status == http.StatusOK
}

// uncachedHeaders are dropped from cache-filling fetches. The transport
// negotiates compression itself, and the others let the origin answer with
// less than the full resource.
var uncachedHeaders = []string{
	"Accept-Encoding",
	"Range",
	"If-Range",
	"If-Match",
	"If-None-Match",
	"If-Modified-Since",
	"If-Unmodified-Since",
}

// fetch GETs uri from the origin and buffers the whole response.
func (w *Worker) fetch(ctx context.Context, uri string, header http.Header) (*Entry, error) {
	ref, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("invalid uri %q: %w", uri, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.origin.ResolveReference(ref).String(), nil)
	if err != nil {
		return nil, err
	}
	if header != nil {
		req.Header = header.Clone()
		for _, h := range uncachedHeaders {
			req.Header.Del(h)
		}
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", uri, err)
	}

	h := resp.Header.Clone()
	h.Del("Content-Length")
	h.Del("Connection")
	h.Del("Transfer-Encoding")
	return &Entry{Status: resp.StatusCode, Header: h, Body: body, StoredAt: w.now()}, nil
}

func writeEntry(rw http.ResponseWriter, e *Entry) {
	for k, vs := range e.Header {
		for _, v := range vs {
			rw.Header().Add(k, v)
		}
	}
	rw.WriteHeader(e.Status)
	if _, err := rw.Write(e.Body); err != nil {
		slog.Debug("Failed to write response", "error", err)
	}
}

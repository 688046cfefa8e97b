package main

import (
	"flag"
	"fmt"
	"net/url"
)

const (
	envEdgePort      = "EDGE_PORT"
	envOriginURL     = "ORIGIN_URL"
	envCacheName     = "CACHE_NAME"
	envCacheBackend  = "CACHE_BACKEND"
	envMinioEndpoint = "MINIO_ENDPOINT"
	envMinioUser     = "MINIO_USER"
	envMinioPassword = "MINIO_PASSWORD"
	envMinioBucket   = "MINIO_BUCKET"

	defaultEdgePort      = "8081"
	defaultOriginURL     = "http://localhost:8080"
	defaultCacheBackend  = backendMemory
	defaultMinioEndpoint = "localhost:9000"
	defaultMinioUser     = "minioadmin"
	defaultMinioPassword = "minioadmin"
	defaultMinioBucket   = "javoucar-cache"
)

// Cache storage backends.
const (
	backendMemory = "memory"
	backendMinio  = "minio"
)

type config struct {
	Port          string
	Origin        *url.URL
	CacheName     string
	CacheBackend  string
	MinioEndpoint string
	MinioUser     string
	MinioPassword string
	MinioBucket   string
}

// parseConfig reads flags, then environment variables for flags left unset,
// then defaults. An empty cache name means the worker default.
func parseConfig(args []string, lookupEnv func(string) (string, bool)) (*config, error) {
	fs := flag.NewFlagSet("edge", flag.ContinueOnError)

	var origin string
	cfg := &config{}
	fs.StringVar(&cfg.Port, "port", "", fmt.Sprintf("HTTP port (env: %s, default: %s)", envEdgePort, defaultEdgePort))
	fs.StringVar(&origin, "origin", "", fmt.Sprintf("App server URL (env: %s, default: %s)", envOriginURL, defaultOriginURL))
	fs.StringVar(&cfg.CacheName, "cache-name", "", fmt.Sprintf("Current cache version (env: %s)", envCacheName))
	fs.StringVar(&cfg.CacheBackend, "cache", "", fmt.Sprintf("Cache storage: memory or minio (env: %s)", envCacheBackend))
	fs.StringVar(&cfg.MinioEndpoint, "minio-endpoint", "", fmt.Sprintf("MinIO address (env: %s)", envMinioEndpoint))
	fs.StringVar(&cfg.MinioBucket, "minio-bucket", "", fmt.Sprintf("MinIO bucket (env: %s)", envMinioBucket))

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	fallback := func(dst *string, env, def string) {
		if *dst != "" {
			return
		}
		if value, ok := lookupEnv(env); ok && value != "" {
			*dst = value
			return
		}
		*dst = def
	}
	fallback(&cfg.Port, envEdgePort, defaultEdgePort)
	fallback(&origin, envOriginURL, defaultOriginURL)
	fallback(&cfg.CacheName, envCacheName, "")
	fallback(&cfg.CacheBackend, envCacheBackend, defaultCacheBackend)
	fallback(&cfg.MinioEndpoint, envMinioEndpoint, defaultMinioEndpoint)
	fallback(&cfg.MinioUser, envMinioUser, defaultMinioUser)
	fallback(&cfg.MinioPassword, envMinioPassword, defaultMinioPassword)
	fallback(&cfg.MinioBucket, envMinioBucket, defaultMinioBucket)

	u, err := url.Parse(origin)
	if err != nil {
		return nil, fmt.Errorf("invalid origin %q: %w", origin, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("origin must be an absolute http(s) URL, got %q", origin)
	}
	cfg.Origin = u

	switch cfg.CacheBackend {
	case backendMemory, backendMinio:
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.CacheBackend)
	}
	return cfg, nil
}

package main

import (
	"errors"
	"flag"
	"fmt"
	"strconv"
	"time"
)

const (
	envPort              = "PORT"
	envStaticPath        = "STATIC_PATH"
	envStoreBackend      = "STORE_BACKEND"
	envDBPath            = "DB_PATH"
	envDatabaseDSN       = "DATABASE_DSN"
	envRemoteLatency     = "REMOTE_LATENCY"
	envRemoteFailureRate = "REMOTE_FAILURE_RATE"
	envSessionSecret     = "SESSION_SECRET"

	defaultPort          = "8080"
	defaultStaticPath    = "./web/static"
	defaultStoreBackend  = backendSQLite
	defaultDBPath        = "./data/javoucar.db"
	defaultRemoteLatency = time.Second
	defaultSessionSecret = "javoucar-dev-secret"
	sessionTTL           = 24 * time.Hour
)

// Snapshot store backends.
const (
	backendSQLite   = "sqlite"
	backendPostgres = "postgres"
	backendMemory   = "memory"
)

type config struct {
	Port              string
	StaticPath        string
	StoreBackend      string
	DBPath            string
	DatabaseDSN       string
	RemoteLatency     time.Duration
	RemoteFailureRate float64
	SessionSecret     string
}

// parseConfig reads flags, then environment variables for flags left unset,
// then defaults.
func parseConfig(args []string, lookupEnv func(string) (string, bool)) (*config, error) {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)

	var latency, failureRate string
	cfg := &config{}
	fs.StringVar(&cfg.Port, "port", "", fmt.Sprintf("HTTP port (env: %s, default: %s)", envPort, defaultPort))
	fs.StringVar(&cfg.StaticPath, "static-path", "", fmt.Sprintf("Directory of the page shell (env: %s)", envStaticPath))
	fs.StringVar(&cfg.StoreBackend, "store", "", fmt.Sprintf("Snapshot backend: sqlite, postgres or memory (env: %s)", envStoreBackend))
	fs.StringVar(&cfg.DBPath, "db-path", "", fmt.Sprintf("SQLite database file (env: %s)", envDBPath))
	fs.StringVar(&cfg.DatabaseDSN, "database-dsn", "", fmt.Sprintf("Postgres connection string (env: %s)", envDatabaseDSN))
	fs.StringVar(&latency, "remote-latency", "", fmt.Sprintf("Simulated remote latency (env: %s, default: %s)", envRemoteLatency, defaultRemoteLatency))
	fs.StringVar(&failureRate, "remote-failure-rate", "", fmt.Sprintf("Probability of a remote call failing (env: %s)", envRemoteFailureRate))
	fs.StringVar(&cfg.SessionSecret, "session-secret", "", fmt.Sprintf("Session token signing key (env: %s)", envSessionSecret))

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
	fallback(&cfg.Port, envPort, defaultPort)
	fallback(&cfg.StaticPath, envStaticPath, defaultStaticPath)
	fallback(&cfg.StoreBackend, envStoreBackend, defaultStoreBackend)
	fallback(&cfg.DBPath, envDBPath, defaultDBPath)
	fallback(&cfg.DatabaseDSN, envDatabaseDSN, "")
	fallback(&latency, envRemoteLatency, defaultRemoteLatency.String())
	fallback(&failureRate, envRemoteFailureRate, "0")
	fallback(&cfg.SessionSecret, envSessionSecret, defaultSessionSecret)

	var err error
	if cfg.RemoteLatency, err = time.ParseDuration(latency); err != nil {
		return nil, fmt.Errorf("invalid remote latency %q: %w", latency, err)
	}
	if cfg.RemoteLatency < 0 {
		return nil, fmt.Errorf("remote latency must not be negative, got %s", cfg.RemoteLatency)
	}
	if cfg.RemoteFailureRate, err = strconv.ParseFloat(failureRate, 64); err != nil {
		return nil, fmt.Errorf("invalid remote failure rate %q: %w", failureRate, err)
	}
	if cfg.RemoteFailureRate < 0 || cfg.RemoteFailureRate > 1 {
		return nil, fmt.Errorf("remote failure rate must be within [0, 1], got %v", cfg.RemoteFailureRate)
	}

	switch cfg.StoreBackend {
	case backendSQLite, backendMemory:
	case backendPostgres:
		if cfg.DatabaseDSN == "" {
			return nil, errors.New("postgres store needs a connection string (--database-dsn or " + envDatabaseDSN + ")")
		}
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}

	return cfg, nil
}

// Package storage provides the persistent snapshot store and its key-value backends.
package storage

import (
	"context"
	"log/slog"

	"github.com/mmynk/javoucar/internal/metrics"
	"github.com/mmynk/javoucar/internal/models"
)

// SnapshotKey is the fixed durable key the application state lives under.
const SnapshotKey = "javoucar_state"

// KV defines the durable key-value storage the snapshot is written to.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, memory)
// without changing the snapshot logic.
type KV interface {
	// Get returns the value stored under key.
	// found is false (with a nil error) when the key is absent.
	Get(ctx context.Context, key string) (value string, found bool, err error)

	// Set stores value under key, fully overwriting any prior value.
	Set(ctx context.Context, key, value string) error
}

// SnapshotStore persists the whole application snapshot under a single key.
// Writes are best-effort: failures are logged and counted, never returned.
type SnapshotStore struct {
	kv  KV
	key string
}

// NewSnapshotStore creates a store writing to key in kv.
// An empty key falls back to SnapshotKey.
func NewSnapshotStore(kv KV, key string) *SnapshotStore {
	if key == "" {
		key = SnapshotKey
	}
	return &SnapshotStore{kv: kv, key: key}
}

// Save serializes the snapshot and overwrites the stored value.
func (s *SnapshotStore) Save(ctx context.Context, snapshot models.Snapshot) {
	data, err := Encode(snapshot)
	if err != nil {
		metrics.SnapshotSaveFailures.Inc()
		slog.Warn("Snapshot encode failed, dropping write", "key", s.key, "error", err)
		return
	}

	if err := s.kv.Set(ctx, s.key, data); err != nil {
		metrics.SnapshotSaveFailures.Inc()
		slog.Warn("Snapshot write failed, dropping write", "key", s.key, "error", err)
		return
	}

	slog.Debug("Snapshot saved",
		"key", s.key,
		"vehicles", len(snapshot.Vehicles),
		"alerts", len(snapshot.Alerts),
	)
}

// Load reads the stored snapshot.
// An absent, unreadable, or corrupt value yields an empty snapshot.
func (s *SnapshotStore) Load(ctx context.Context) models.Snapshot {
	data, found, err := s.kv.Get(ctx, s.key)
	if err != nil {
		slog.Warn("Snapshot read failed, starting empty", "key", s.key, "error", err)
		return models.EmptySnapshot()
	}
	if !found {
		return models.EmptySnapshot()
	}

	snapshot, err := Decode(data)
	if err != nil {
		slog.Warn("Snapshot is corrupt, starting empty", "key", s.key, "error", err)
		return models.EmptySnapshot()
	}

	slog.Info("Snapshot loaded",
		"key", s.key,
		"signed_in", snapshot.CurrentUser != nil,
		"vehicles", len(snapshot.Vehicles),
		"alerts", len(snapshot.Alerts),
	)
	return snapshot
}

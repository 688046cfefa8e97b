package storage_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/javoucar/internal/metrics"
	"github.com/mmynk/javoucar/internal/models"
	"github.com/mmynk/javoucar/internal/storage"
	"github.com/mmynk/javoucar/internal/storage/memory"
)

// failingKV rejects every operation.
type failingKV struct{}

func (failingKV) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("storage unavailable")
}

func (failingKV) Set(context.Context, string, string) error {
	return errors.New("quota exceeded")
}

func sampleSnapshot() models.Snapshot {
	return models.Snapshot{
		CurrentUser: &models.User{Email: "ana@example.com", Name: "Ana"},
		Vehicles: []models.Vehicle{
			{ID: "0190-a", Plate: "XYZ9876", Model: "Civic", Color: "Black", State: "SP", Owner: "ana@example.com"},
			{ID: "0190-b", Plate: "ABC1234", Model: "Gol", Color: "White", State: "RJ"},
		},
		Alerts: []models.Alert{
			{VehicleID: "XYZ9876", Message: "Lights on", Timestamp: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)},
			{VehicleID: "ABC1234", Message: "Flat tire", Timestamp: time.Date(2024, 5, 1, 9, 30, 0, 500, time.UTC)},
		},
	}
}

func TestSnapshotStore_RoundTrip(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		snapshot models.Snapshot
	}{
		{name: "full snapshot", snapshot: sampleSnapshot()},
		{name: "signed out", snapshot: func() models.Snapshot {
			s := sampleSnapshot()
			s.CurrentUser = nil
			return s
		}()},
		{name: "empty", snapshot: models.EmptySnapshot()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := storage.NewSnapshotStore(memory.New(), "")
			store.Save(ctx, tt.snapshot)

			got := store.Load(ctx)
			assert.Equal(t, tt.snapshot, got)
		})
	}
}

func TestSnapshotStore_LoadAbsentKey(t *testing.T) {
	store := storage.NewSnapshotStore(memory.New(), storage.SnapshotKey)
	got := store.Load(context.Background())
	assert.Equal(t, models.EmptySnapshot(), got)
}

func TestSnapshotStore_LoadDefaults(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name         string
		stored       string
		wantUser     bool
		wantVehicles int
	}{
		{
			name:     "missing vehicles and alerts",
			stored:   `{"currentUser":{"email":"ana@example.com","name":"Ana"}}`,
			wantUser: true,
		},
		{
			name:         "missing alerts only",
			stored:       `{"currentUser":null,"vehicles":[{"id":"1","plate":"AAA1111","model":"Uno","color":"Red","state":"MG"}]}`,
			wantVehicles: 1,
		},
		{
			name:   "null sequences",
			stored: `{"currentUser":null,"vehicles":null,"alerts":null}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := memory.New()
			require.NoError(t, kv.Set(ctx, storage.SnapshotKey, tt.stored))

			got := storage.NewSnapshotStore(kv, storage.SnapshotKey).Load(ctx)
			assert.Equal(t, tt.wantUser, got.CurrentUser != nil)
			require.NotNil(t, got.Vehicles)
			require.NotNil(t, got.Alerts)
			assert.Len(t, got.Vehicles, tt.wantVehicles)
			assert.Empty(t, got.Alerts)
		})
	}
}

func TestSnapshotStore_LoadCorrupt(t *testing.T) {
	ctx := context.Background()
	kv := memory.New()
	require.NoError(t, kv.Set(ctx, storage.SnapshotKey, "{not json"))

	got := storage.NewSnapshotStore(kv, storage.SnapshotKey).Load(ctx)
	assert.Equal(t, models.EmptySnapshot(), got)
}

func TestSnapshotStore_SaveOverwrites(t *testing.T) {
	ctx := context.Background()
	store := storage.NewSnapshotStore(memory.New(), "")

	store.Save(ctx, sampleSnapshot())
	store.Save(ctx, models.EmptySnapshot())

	assert.Equal(t, models.EmptySnapshot(), store.Load(ctx))
}

func TestSnapshotStore_BestEffort(t *testing.T) {
	ctx := context.Background()
	store := storage.NewSnapshotStore(failingKV{}, "")

	before := testutil.ToFloat64(metrics.SnapshotSaveFailures)
	assert.NotPanics(t, func() { store.Save(ctx, sampleSnapshot()) })
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.SnapshotSaveFailures))

	assert.Equal(t, models.EmptySnapshot(), store.Load(ctx))
}

func TestEncodeNilSequences(t *testing.T) {
	data, err := storage.Encode(models.Snapshot{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"currentUser":null,"vehicles":[],"alerts":[]}`, data)
}

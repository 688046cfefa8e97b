package storage

import (
	"encoding/json"
	"fmt"

	"github.com/mmynk/javoucar/internal/models"
)

// Encode serializes a snapshot to its durable JSON text.
func Encode(snapshot models.Snapshot) (string, error) {
	if snapshot.Vehicles == nil {
		snapshot.Vehicles = []models.Vehicle{}
	}
	if snapshot.Alerts == nil {
		snapshot.Alerts = []models.Alert{}
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		return "", fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return string(data), nil
}

// Decode parses durable JSON text into a snapshot.
// Missing vehicles or alerts default to empty sequences so older snapshots still load.
func Decode(data string) (models.Snapshot, error) {
	var snapshot models.Snapshot
	if err := json.Unmarshal([]byte(data), &snapshot); err != nil {
		return models.Snapshot{}, fmt.Errorf("failed to decode snapshot: %w", err)
	}

	if snapshot.Vehicles == nil {
		snapshot.Vehicles = []models.Vehicle{}
	}
	if snapshot.Alerts == nil {
		snapshot.Alerts = []models.Alert{}
	}
	return snapshot, nil
}

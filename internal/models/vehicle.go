package models

import "strings"

// Vehicle represents a registered car.
// Vehicles are never updated or deleted and survive logout.
type Vehicle struct {
	// ID is an opaque, time-derived unique identifier (UUIDv7).
	ID string `json:"id"`

	// Plate is the normalized (upper-case) license plate. It is the business key.
	Plate string `json:"plate"`

	// Model is the car model (e.g., "Civic").
	Model string `json:"model"`

	// Color is the car color as typed by the user.
	Color string `json:"color"`

	// State is the two-letter Brazilian state code (UF) of the registration.
	State string `json:"state"`

	// Owner is the email of the user who registered the vehicle.
	// Empty for vehicles persisted before ownership was tracked.
	Owner string `json:"owner,omitempty"`
}

// NormalizePlate returns the canonical form of a plate: trimmed and upper-cased.
func NormalizePlate(plate string) string {
	return strings.ToUpper(strings.TrimSpace(plate))
}

package models

import "time"

// Alert is a message posted against a vehicle plate.
type Alert struct {
	// VehicleID holds the plate of the alerted vehicle, not Vehicle.ID.
	VehicleID string `json:"vehicleId"`

	// Message is the free-text (or predefined) alert message.
	Message string `json:"message"`

	// Timestamp is when the alert was submitted. Encoded as an RFC 3339 string.
	Timestamp time.Time `json:"timestamp"`
}

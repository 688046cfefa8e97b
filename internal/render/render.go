// Package render turns snapshot records into the view models the page draws.
// Everything here is pure: no I/O, no clocks, inputs are never modified.
package render

import (
	"sort"
	"time"

	"github.com/mmynk/javoucar/internal/models"
)

// Option is one entry of the vehicle selector. Choosing it fills the alert
// form with Plate.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Plate string `json:"plate"`
}

// FeedEntry is one row of the alert feed.
type FeedEntry struct {
	Plate     string    `json:"plate"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// VehicleOptions builds the selector entries in registration order.
// The label is "PLATE - Model" and the value is the vehicle id.
func VehicleOptions(vehicles []models.Vehicle) []Option {
	options := make([]Option, 0, len(vehicles))
	for _, v := range vehicles {
		options = append(options, Option{
			Value: v.ID,
			Label: v.Plate + " - " + v.Model,
			Plate: v.Plate,
		})
	}
	return options
}

// AlertFeed returns the alerts newest first.
// Alerts with equal timestamps keep their insertion order.
func AlertFeed(alerts []models.Alert) []FeedEntry {
	feed := make([]FeedEntry, 0, len(alerts))
	for _, a := range alerts {
		feed = append(feed, FeedEntry{
			Plate:     a.VehicleID,
			Message:   a.Message,
			Timestamp: a.Timestamp,
		})
	}

	sort.SliceStable(feed, func(i, j int) bool {
		return feed[i].Timestamp.After(feed[j].Timestamp)
	})
	return feed
}

// HasVehicle reports whether email owns at least one of vehicles.
func HasVehicle(vehicles []models.Vehicle, email string) bool {
	if email == "" {
		return false
	}
	for _, v := range vehicles {
		if v.Owner == email {
			return true
		}
	}
	return false
}

package models

// Snapshot is the complete persisted application state.
// It is the sole unit of persistence and must be saved after every mutation.
type Snapshot struct {
	// CurrentUser is the signed-in user, or nil when signed out.
	CurrentUser *User `json:"currentUser"`

	// Vehicles are all registered vehicles in registration order.
	Vehicles []Vehicle `json:"vehicles"`

	// Alerts are all recorded alerts in submission order.
	Alerts []Alert `json:"alerts"`
}

// EmptySnapshot returns a snapshot with no user and empty sequences.
func EmptySnapshot() Snapshot {
	return Snapshot{
		Vehicles: []Vehicle{},
		Alerts:   []Alert{},
	}
}

// FindVehicle returns the first vehicle whose plate matches the given plate
// after normalization.
func (s Snapshot) FindVehicle(plate string) (Vehicle, bool) {
	plate = NormalizePlate(plate)
	for _, v := range s.Vehicles {
		if v.Plate == plate {
			return v, true
		}
	}
	return Vehicle{}, false
}

// VehiclesOwnedBy returns the vehicles registered by the given email.
func (s Snapshot) VehiclesOwnedBy(email string) []Vehicle {
	var owned []Vehicle
	for _, v := range s.Vehicles {
		if v.Owner != "" && v.Owner == email {
			owned = append(owned, v)
		}
	}
	return owned
}

// Clone returns a deep copy, so callers can mutate the sequences freely.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		Vehicles: append([]Vehicle{}, s.Vehicles...),
		Alerts:   append([]Alert{}, s.Alerts...),
	}
	if s.CurrentUser != nil {
		u := *s.CurrentUser
		out.CurrentUser = &u
	}
	return out
}

// Package models defines the core domain records for JáVouCar.
//
// # Records
//
//   - User: the person currently using the app (one at a time)
//   - Vehicle: a registered car, keyed by its normalized plate
//   - Alert: a short message posted against a plate
//   - Snapshot: the whole persisted application state
//
// # Design Principles
//
// 1. **Plate is the business key**: alerts reference vehicles by plate, not by ID
// 2. **Snapshot is the unit of persistence**: it is written whole after every mutation
// 3. **Forward compatibility**: missing sequences decode as empty, new fields use omitempty
//
// # Known inconsistency
//
// Alert.VehicleID stores the plate string rather than Vehicle.ID. The rest of the
// system (feed rendering, plate lookup) expects the plate, so it is kept that way.
package models

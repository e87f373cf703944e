// Package arran implements a wizard/stepper state machine for multi-step
// data-entry flows. It tracks the active step, records per-step
// completion/skip/visit state, coordinates field-level validation against a
// declarative schema, persists progress across reloads, and exposes
// navigation guards with pluggable business rules.
package arran

const (
	// Name is the service name reported in logs
	Name = "arran"

	// Version is the engine version reported in logs
	Version = "0.1.0"
)

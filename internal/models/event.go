package models

import "time"

// ControllerState is the lifecycle state of the reconciliation controller.
type ControllerState string

const (
	StateUninitialized      ControllerState = "uninitialized"
	StateAwaitingActivation ControllerState = "awaiting_activation"
	StateActive             ControllerState = "active"
	StateInactive           ControllerState = "inactive"
	StateDisabled           ControllerState = "disabled" // enable gate refused
)

// EventKind names a controller transition.
type EventKind string

const (
	EventEnabled       EventKind = "enabled"
	EventEnableFailed  EventKind = "enable_failed"
	EventRestored      EventKind = "restored"
	EventRestoreAbsent EventKind = "restore_absent"
	EventRestoreFailed EventKind = "restore_failed"
	EventSaved         EventKind = "saved"
	EventSaveSkipped   EventKind = "save_skipped"
	EventSaveFailed    EventKind = "save_failed"
	EventLiveryChanged EventKind = "livery_changed"
	EventDisabled      EventKind = "disabled"
)

// Valid reports whether k is one of the kinds the controller publishes.
func (k EventKind) Valid() bool {
	switch k {
	case EventEnabled, EventEnableFailed, EventRestored, EventRestoreAbsent,
		EventRestoreFailed, EventSaved, EventSaveSkipped, EventSaveFailed,
		EventLiveryChanged, EventDisabled:
		return true
	}
	return false
}

// Event describes one controller transition, published on the event bus.
// Seq is assigned by the bus and increases by one per published event.
type Event struct {
	Seq     uint64          `json:"seq"`
	Kind    EventKind       `json:"kind"`
	State   ControllerState `json:"state"`
	Livery  LiveryKey       `json:"livery,omitempty"`
	Session string          `json:"session,omitempty"`
	Error   string          `json:"error,omitempty"`
	Time    time.Time       `json:"time"`
}

// Status is a point-in-time view of the controller.
type Status struct {
	State     ControllerState `json:"state"`
	Livery    LiveryKey       `json:"livery,omitempty"`
	Session   string          `json:"session,omitempty"`
	LastEvent *Event          `json:"last_event,omitempty"`
}

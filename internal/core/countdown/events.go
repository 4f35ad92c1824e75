package countdown

import "time"

// State represents the current countdown mode.
type State string

const (
	StateIdle     State = "idle"
	StateRunning  State = "running"
	StateFinished State = "finished"
)

// EventType defines the type of countdown event.
type EventType string

const (
	EventStateChange EventType = "state_change"
	EventTick        EventType = "tick"
)

// Snapshot is a read-only copy of the countdown state.
type Snapshot struct {
	State       State
	Remaining   int
	Minutes     int
	Seconds     int
	IsActive    bool
	HasFinished bool
	Progress    float64
}

// Event represents a countdown update for observers.
type Event struct {
	Type     EventType
	Snapshot Snapshot
	At       time.Time
}

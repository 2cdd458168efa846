package model

import "time"

type LifecycleState string

const (
	StateIdle      LifecycleState = "IDLE"
	StatePlanned   LifecycleState = "PLANNED"
	StateRunning   LifecycleState = "RUNNING"
	StatePaused    LifecycleState = "PAUSED"
	StateCompleted LifecycleState = "COMPLETED"
)

// IsInitial reports whether a trip in this state has not been started yet.
// Routine trips are created IDLE, event trips PLANNED; both are legal
// start-transition sources.
func (s LifecycleState) IsInitial() bool {
	return s == StateIdle || s == StatePlanned
}

// IsActive reports whether the trip is in flight (running or paused).
func (s LifecycleState) IsActive() bool {
	return s == StateRunning || s == StatePaused
}

type TripKind string

const (
	KindRoutine TripKind = "ROUTINE"
	KindEvent   TripKind = "EVENT"
)

// Fix is the last reported live position of the vehicle.
type Fix struct {
	Lat        float64
	Lng        float64
	ObservedAt time.Time
}

// Trip is the persisted state of one journey instance for one vehicle.
type Trip struct {
	ID        string // uuid
	CreatedAt time.Time
	UpdatedAt time.Time

	VehicleID string
	DriverID  string
	Kind      TripKind
	State     LifecycleState

	// Event trips carry an explicit destination instead of the stop list.
	Destination string
	Reason      string

	StartedAt      time.Time // set once, on the first start
	EndedAt        time.Time // set once, on completion
	PauseStartedAt time.Time // zero unless State == PAUSED
	PausedDuration time.Duration

	// SegmentMinutes holds the expected travel time of each leg, copied from
	// the route table at creation. A later schedule change does not alter an
	// in-flight trip.
	SegmentMinutes []int
	TotalMinutes   int

	LastFix *Fix
}

// HasFix reports whether the vehicle has ever reported a live position.
func (t *Trip) HasFix() bool {
	return t.LastFix != nil
}

package myerrors

import "errors"

var (
	// ErrTripNotFound - no trip record with the requested id.
	ErrTripNotFound = errors.New("trip not found")

	// ErrVehicleNotFound - the roster has no route table for the vehicle.
	ErrVehicleNotFound = errors.New("vehicle not found")

	// ErrInvalidTransition - the requested lifecycle transition is not legal
	// from the trip's current state.
	ErrInvalidTransition = errors.New("invalid trip transition")

	// ErrInvalidLocation - missing or out-of-range coordinates.
	ErrInvalidLocation = errors.New("invalid location data")

	// ErrInvalidRequest - malformed creation payload.
	ErrInvalidRequest = errors.New("invalid trip request")

	// ErrDegenerateRoute - total scheduled duration is zero, no progress
	// can be derived.
	ErrDegenerateRoute = errors.New("route has zero scheduled duration")

	// ErrInvariantViolation - internal state inconsistency, e.g. a paused
	// trip without a pause timestamp. Should be unreachable.
	ErrInvariantViolation = errors.New("trip record invariant violated")
)

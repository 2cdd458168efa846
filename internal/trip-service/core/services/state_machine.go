package services

import (
	"fmt"
	"time"

	"bus-tracking/internal/trip-service/core/domain/model"
	"bus-tracking/internal/trip-service/core/myerrors"
)

// Lifecycle: IDLE/PLANNED -> RUNNING -> PAUSED <-> RUNNING -> COMPLETED.
// PAUSED may also go straight to COMPLETED. COMPLETED is terminal.
//
// Transitions mutate the record in place; persisting them atomically against
// concurrent transitions on the same vehicle is the repository's job.

// StartTrip moves an unstarted trip to RUNNING and stamps StartedAt.
func StartTrip(t *model.Trip, now time.Time) error {
	if !t.State.IsInitial() {
		return fmt.Errorf("%w: cannot start a %s trip", myerrors.ErrInvalidTransition, t.State)
	}
	t.StartedAt = now
	t.PausedDuration = 0
	t.PauseStartedAt = time.Time{}
	t.State = model.StateRunning
	return nil
}

// PauseTrip freezes a running trip.
func PauseTrip(t *model.Trip, now time.Time) error {
	if t.State != model.StateRunning {
		return fmt.Errorf("%w: cannot pause a %s trip", myerrors.ErrInvalidTransition, t.State)
	}
	t.PauseStartedAt = now
	t.State = model.StatePaused
	return nil
}

// ResumeTrip adds the completed pause interval to the accumulated total and
// returns the trip to RUNNING.
func ResumeTrip(t *model.Trip, now time.Time) error {
	if t.State != model.StatePaused {
		return fmt.Errorf("%w: cannot resume a %s trip", myerrors.ErrInvalidTransition, t.State)
	}
	if t.PauseStartedAt.IsZero() {
		// Unreachable while the pause invariant holds.
		return fmt.Errorf("%w: paused trip has no pause timestamp", myerrors.ErrInvariantViolation)
	}
	t.PausedDuration += now.Sub(t.PauseStartedAt)
	t.PauseStartedAt = time.Time{}
	t.State = model.StateRunning
	return nil
}

// EndTrip completes the trip from any non-terminal state. A second end call
// is rejected rather than overwriting EndedAt.
func EndTrip(t *model.Trip, now time.Time) error {
	if t.State == model.StateCompleted {
		return fmt.Errorf("%w: trip already completed", myerrors.ErrInvalidTransition)
	}
	t.EndedAt = now
	t.PauseStartedAt = time.Time{}
	t.State = model.StateCompleted
	return nil
}

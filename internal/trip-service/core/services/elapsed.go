package services

import (
	"fmt"
	"time"

	"bus-tracking/internal/trip-service/core/domain/model"
	"bus-tracking/internal/trip-service/core/myerrors"
)

// EffectiveElapsed converts a running or paused trip plus a reference time
// into its effective running duration, net of paused intervals. While paused,
// time is frozen at the moment of pausing. The result is clamped at zero to
// guard clock skew; the upper bound is the estimator's job.
//
// Undefined for IDLE/PLANNED/COMPLETED trips - callers check the state first.
func EffectiveElapsed(t *model.Trip, now time.Time) (time.Duration, error) {
	var elapsed time.Duration

	switch t.State {
	case model.StateRunning:
		elapsed = now.Sub(t.StartedAt) - t.PausedDuration
	case model.StatePaused:
		if t.PauseStartedAt.IsZero() {
			return 0, fmt.Errorf("%w: paused trip has no pause timestamp", myerrors.ErrInvariantViolation)
		}
		elapsed = t.PauseStartedAt.Sub(t.StartedAt) - t.PausedDuration
	default:
		return 0, fmt.Errorf("%w: elapsed time undefined for %s trip", myerrors.ErrInvariantViolation, t.State)
	}

	if elapsed < 0 {
		elapsed = 0
	}
	return elapsed, nil
}

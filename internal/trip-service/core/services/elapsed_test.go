package services

import (
	"testing"
	"time"

	"bus-tracking/internal/trip-service/core/domain/model"
	"bus-tracking/internal/trip-service/core/myerrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tripStart = time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

func TestEffectiveElapsedWhileRunning(t *testing.T) {
	trip := &model.Trip{
		State:          model.StateRunning,
		StartedAt:      tripStart,
		PausedDuration: 5 * time.Minute,
	}

	elapsed, err := EffectiveElapsed(trip, tripStart.Add(25*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 20*time.Minute, elapsed)
}

func TestEffectiveElapsedFrozenWhilePaused(t *testing.T) {
	trip := &model.Trip{
		State:          model.StatePaused,
		StartedAt:      tripStart,
		PauseStartedAt: tripStart.Add(10 * time.Minute),
	}

	// The reference time keeps advancing but paused elapsed does not.
	for _, lag := range []time.Duration{time.Minute, time.Hour, 24 * time.Hour} {
		elapsed, err := EffectiveElapsed(trip, tripStart.Add(10*time.Minute+lag))
		require.NoError(t, err)
		assert.Equal(t, 10*time.Minute, elapsed)
	}
}

// Scenario: pause at 10 minutes for 5 minutes, resume, then read 10 real
// minutes after the pause began. The 5 paused minutes are excluded.
func TestPausedIntervalExcludedFromElapsed(t *testing.T) {
	trip := &model.Trip{State: model.StateIdle}
	require.NoError(t, StartTrip(trip, tripStart))

	pausedAt := tripStart.Add(10 * time.Minute)
	require.NoError(t, PauseTrip(trip, pausedAt))
	require.NoError(t, ResumeTrip(trip, pausedAt.Add(5*time.Minute)))

	elapsed, err := EffectiveElapsed(trip, pausedAt.Add(15*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 20*time.Minute, elapsed)
}

func TestEffectiveElapsedClampedAtZero(t *testing.T) {
	// Reader clock behind the recorded start.
	trip := &model.Trip{
		State:     model.StateRunning,
		StartedAt: tripStart,
	}

	elapsed, err := EffectiveElapsed(trip, tripStart.Add(-time.Minute))
	require.NoError(t, err)
	assert.Zero(t, elapsed)
}

func TestEffectiveElapsedUndefinedOutsideActiveStates(t *testing.T) {
	for _, state := range []model.LifecycleState{model.StateIdle, model.StatePlanned, model.StateCompleted} {
		trip := &model.Trip{State: state, StartedAt: tripStart}
		_, err := EffectiveElapsed(trip, tripStart.Add(time.Minute))
		assert.ErrorIs(t, err, myerrors.ErrInvariantViolation, "state %s", state)
	}
}

func TestEffectiveElapsedPausedWithoutTimestamp(t *testing.T) {
	trip := &model.Trip{State: model.StatePaused, StartedAt: tripStart}
	_, err := EffectiveElapsed(trip, tripStart)
	assert.ErrorIs(t, err, myerrors.ErrInvariantViolation)
}

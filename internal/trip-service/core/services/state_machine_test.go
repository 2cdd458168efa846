package services

import (
	"testing"
	"time"

	"bus-tracking/internal/trip-service/core/domain/model"
	"bus-tracking/internal/trip-service/core/myerrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartTrip(t *testing.T) {
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	for _, initial := range []model.LifecycleState{model.StateIdle, model.StatePlanned} {
		trip := &model.Trip{State: initial}
		require.NoError(t, StartTrip(trip, now))
		assert.Equal(t, model.StateRunning, trip.State)
		assert.Equal(t, now, trip.StartedAt)
		assert.Zero(t, trip.PausedDuration)
		assert.True(t, trip.PauseStartedAt.IsZero())
	}
}

func TestStartTripRejectsNonInitialStates(t *testing.T) {
	now := time.Now()

	for _, state := range []model.LifecycleState{model.StateRunning, model.StatePaused, model.StateCompleted} {
		trip := &model.Trip{State: state}
		err := StartTrip(trip, now)
		assert.ErrorIs(t, err, myerrors.ErrInvalidTransition, "state %s", state)
		assert.Equal(t, state, trip.State, "rejected transition must not mutate the record")
	}
}

func TestPauseOnlyFromRunning(t *testing.T) {
	now := time.Now()

	trip := &model.Trip{State: model.StateRunning, StartedAt: now.Add(-10 * time.Minute)}
	require.NoError(t, PauseTrip(trip, now))
	assert.Equal(t, model.StatePaused, trip.State)
	assert.Equal(t, now, trip.PauseStartedAt)

	for _, state := range []model.LifecycleState{model.StateIdle, model.StatePlanned, model.StatePaused, model.StateCompleted} {
		trip := &model.Trip{State: state}
		assert.ErrorIs(t, PauseTrip(trip, now), myerrors.ErrInvalidTransition)
	}
}

func TestResumeAccumulatesPausedDuration(t *testing.T) {
	start := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	trip := &model.Trip{
		State:          model.StatePaused,
		StartedAt:      start,
		PauseStartedAt: start.Add(10 * time.Minute),
		PausedDuration: 2 * time.Minute,
	}

	require.NoError(t, ResumeTrip(trip, start.Add(15*time.Minute)))
	assert.Equal(t, model.StateRunning, trip.State)
	assert.Equal(t, 7*time.Minute, trip.PausedDuration)
	assert.True(t, trip.PauseStartedAt.IsZero())
}

func TestResumeWithoutPauseTimestampIsInvariantViolation(t *testing.T) {
	trip := &model.Trip{State: model.StatePaused}
	assert.ErrorIs(t, ResumeTrip(trip, time.Now()), myerrors.ErrInvariantViolation)
}

func TestResumeOnlyFromPaused(t *testing.T) {
	for _, state := range []model.LifecycleState{model.StateIdle, model.StateRunning, model.StateCompleted} {
		trip := &model.Trip{State: state}
		assert.ErrorIs(t, ResumeTrip(trip, time.Now()), myerrors.ErrInvalidTransition)
	}
}

func TestEndFromAnyNonTerminalState(t *testing.T) {
	now := time.Now()

	for _, state := range []model.LifecycleState{model.StateIdle, model.StatePlanned, model.StateRunning, model.StatePaused} {
		trip := &model.Trip{State: state, PauseStartedAt: now}
		require.NoError(t, EndTrip(trip, now), "state %s", state)
		assert.Equal(t, model.StateCompleted, trip.State)
		assert.Equal(t, now, trip.EndedAt)
		assert.True(t, trip.PauseStartedAt.IsZero())
	}
}

func TestEndTwiceKeepsFirstTimestamp(t *testing.T) {
	firstEnd := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	trip := &model.Trip{State: model.StateRunning}
	require.NoError(t, EndTrip(trip, firstEnd))

	err := EndTrip(trip, firstEnd.Add(time.Hour))
	assert.ErrorIs(t, err, myerrors.ErrInvalidTransition)
	assert.Equal(t, firstEnd, trip.EndedAt)
}

func TestPauseResumeRoundTripWithZeroElapsedPause(t *testing.T) {
	start := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	trip := &model.Trip{State: model.StateIdle}
	require.NoError(t, StartTrip(trip, start))

	at := start.Add(10 * time.Minute)
	require.NoError(t, PauseTrip(trip, at))
	require.NoError(t, ResumeTrip(trip, at))

	assert.Zero(t, trip.PausedDuration)

	elapsed, err := EffectiveElapsed(trip, start.Add(20*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 20*time.Minute, elapsed)
}

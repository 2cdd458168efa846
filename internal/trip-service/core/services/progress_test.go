package services

import (
	"testing"
	"time"

	"bus-tracking/internal/trip-service/core/domain/model"
	"bus-tracking/internal/trip-service/core/myerrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func threeStopTrip() (*model.Trip, []model.Stop) {
	trip := &model.Trip{
		VehicleID:      "KA-01",
		Kind:           model.KindRoutine,
		State:          model.StateRunning,
		StartedAt:      tripStart,
		SegmentMinutes: []int{10, 20},
		TotalMinutes:   30,
	}
	stops := []model.Stop{
		{Name: "Main Gate", Lat: 12.97, Lng: 77.59},
		{Name: "Library", Lat: 12.98, Lng: 77.60},
		{Name: "Hostel", Lat: 12.99, Lng: 77.61},
	}
	return trip, stops
}

// Route [A,B,C] with legs [10,20] minutes, read at 10 minutes elapsed:
// A completed, B current, C upcoming, ~33.3%.
func TestEstimateProgressMidRoute(t *testing.T) {
	trip, stops := threeStopTrip()

	p, err := EstimateProgress(trip, stops, 10*time.Minute)
	require.NoError(t, err)

	assert.Equal(t, StopCompleted, p.Stops[0].Status)
	assert.Equal(t, StopCurrent, p.Stops[1].Status)
	assert.Equal(t, StopUpcoming, p.Stops[2].Status)
	assert.Equal(t, 0, p.CurrentStopIndex)
	assert.InDelta(t, 33.3, p.Percent, 0.1)
}

// Tie goes to completed: elapsed exactly equal to the cumulative time of a
// stop marks the stop completed, not current.
func TestEstimateProgressBoundaryInclusive(t *testing.T) {
	trip, stops := threeStopTrip()

	p, err := EstimateProgress(trip, stops, 30*time.Minute)
	require.NoError(t, err)

	assert.Equal(t, StopCompleted, p.Stops[2].Status)
	assert.Equal(t, 2, p.CurrentStopIndex)
	assert.Equal(t, 100.0, p.Percent)
}

func TestEstimateProgressExactlyOneCurrentStop(t *testing.T) {
	trip, stops := threeStopTrip()

	for _, elapsed := range []time.Duration{0, 5 * time.Minute, 10 * time.Minute, 29 * time.Minute} {
		p, err := EstimateProgress(trip, stops, elapsed)
		require.NoError(t, err)

		current := 0
		for i, sp := range p.Stops {
			if sp.Status == StopCurrent {
				current++
				assert.Equal(t, p.CurrentStopIndex+1, i, "current stop follows the last completed one")
			}
		}
		assert.Equal(t, 1, current, "elapsed %v", elapsed)
	}
}

func TestEstimateProgressPercentMonotonic(t *testing.T) {
	trip, stops := threeStopTrip()

	prev := -1.0
	for elapsed := time.Duration(0); elapsed <= 45*time.Minute; elapsed += time.Minute {
		p, err := EstimateProgress(trip, stops, elapsed)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, p.Percent, prev)
		assert.LessOrEqual(t, p.Percent, 100.0)
		prev = p.Percent
	}
}

func TestEstimateProgressProjectedArrivalsReAddPausedTime(t *testing.T) {
	trip, stops := threeStopTrip()
	trip.PausedDuration = 5 * time.Minute

	p, err := EstimateProgress(trip, stops, 10*time.Minute)
	require.NoError(t, err)

	assert.Equal(t, tripStart.Add(5*time.Minute), p.Stops[0].ProjectedArrival)
	assert.Equal(t, tripStart.Add(15*time.Minute), p.Stops[1].ProjectedArrival)
	assert.Equal(t, tripStart.Add(35*time.Minute), p.Stops[2].ProjectedArrival)
}

func TestEstimateProgressDegenerateRoute(t *testing.T) {
	trip, stops := threeStopTrip()
	trip.TotalMinutes = 0

	_, err := EstimateProgress(trip, stops, time.Minute)
	assert.ErrorIs(t, err, myerrors.ErrDegenerateRoute)
}

func TestEstimateProgressStopLegMismatch(t *testing.T) {
	trip, stops := threeStopTrip()
	trip.SegmentMinutes = []int{10}

	_, err := EstimateProgress(trip, stops, time.Minute)
	assert.ErrorIs(t, err, myerrors.ErrInvariantViolation)
}

func TestEstimateProgressEventTripPercentOnly(t *testing.T) {
	trip := &model.Trip{
		VehicleID:    "KA-02",
		Kind:         model.KindEvent,
		State:        model.StateRunning,
		StartedAt:    tripStart,
		TotalMinutes: 60,
	}

	p, err := EstimateProgress(trip, nil, 30*time.Minute)
	require.NoError(t, err)
	assert.Empty(t, p.Stops)
	assert.InDelta(t, 50.0, p.Percent, 0.01)
}

// Whole-minute leg times convert through a single boundary.
func TestMinutesToDuration(t *testing.T) {
	assert.Equal(t, time.Duration(0), minutesToDuration(0))
	assert.Equal(t, time.Minute, minutesToDuration(1))
	assert.Equal(t, 90*time.Minute, minutesToDuration(90))
}

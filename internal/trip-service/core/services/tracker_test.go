package services

import (
	"math"
	"testing"
	"time"

	"bus-tracking/internal/trip-service/core/domain/model"
	"bus-tracking/internal/trip-service/core/myerrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func coord(v float64) *float64 { return &v }

func TestRecordFixStoresLastWriteWins(t *testing.T) {
	trip := &model.Trip{State: model.StateRunning}
	first := time.Date(2025, 3, 10, 8, 30, 0, 0, time.UTC)

	require.NoError(t, RecordFix(trip, coord(12.97), coord(77.59), first))
	require.NoError(t, RecordFix(trip, coord(12.98), coord(77.60), first.Add(-time.Minute)))

	// No ordering check: the late report overwrote the fresher one.
	assert.Equal(t, 12.98, trip.LastFix.Lat)
	assert.Equal(t, first.Add(-time.Minute), trip.LastFix.ObservedAt)
}

func TestRecordFixValidation(t *testing.T) {
	trip := &model.Trip{}
	now := time.Now()

	assert.ErrorIs(t, RecordFix(trip, nil, coord(77.59), now), myerrors.ErrInvalidLocation)
	assert.ErrorIs(t, RecordFix(trip, coord(12.97), nil, now), myerrors.ErrInvalidLocation)
	assert.ErrorIs(t, RecordFix(trip, coord(91), coord(77.59), now), myerrors.ErrInvalidLocation)
	assert.ErrorIs(t, RecordFix(trip, coord(12.97), coord(-181), now), myerrors.ErrInvalidLocation)
	assert.ErrorIs(t, RecordFix(trip, coord(math.NaN()), coord(77.59), now), myerrors.ErrInvalidLocation)
	assert.False(t, trip.HasFix())
}

// A read 40 seconds after the report falls back to the schedule estimate;
// a read 10 seconds after presents GPS.
func TestSelectModeFreshnessWindow(t *testing.T) {
	reported := time.Date(2025, 3, 10, 8, 30, 0, 0, time.UTC)
	trip := &model.Trip{State: model.StateRunning}
	require.NoError(t, RecordFix(trip, coord(12.97), coord(77.59), reported))

	assert.Equal(t, ModeGPS, SelectMode(trip, reported.Add(10*time.Second), DefaultFreshnessThreshold))
	assert.Equal(t, ModeTime, SelectMode(trip, reported.Add(40*time.Second), DefaultFreshnessThreshold))
}

func TestSelectModeThresholdIsExclusive(t *testing.T) {
	reported := time.Date(2025, 3, 10, 8, 30, 0, 0, time.UTC)
	trip := &model.Trip{State: model.StateRunning}
	require.NoError(t, RecordFix(trip, coord(12.97), coord(77.59), reported))

	assert.Equal(t, ModeTime, SelectMode(trip, reported.Add(DefaultFreshnessThreshold), DefaultFreshnessThreshold))
}

func TestSelectModeWithoutAnyFix(t *testing.T) {
	trip := &model.Trip{State: model.StateRunning}
	assert.False(t, IsFresh(trip, time.Now(), DefaultFreshnessThreshold))
	assert.Equal(t, ModeTime, SelectMode(trip, time.Now(), DefaultFreshnessThreshold))
}

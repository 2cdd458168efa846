package services

import (
	"fmt"
	"time"

	"bus-tracking/internal/trip-service/core/domain/model"
	"bus-tracking/internal/trip-service/core/myerrors"
)

type StopStatus string

const (
	StopCompleted StopStatus = "completed"
	StopCurrent   StopStatus = "current"
	StopUpcoming  StopStatus = "upcoming"
)

type StopProgress struct {
	Stop             model.Stop
	Status           StopStatus
	ProjectedArrival time.Time
}

type Progress struct {
	Stops []StopProgress

	// CurrentStopIndex is the last completed stop - how far along the route
	// the vehicle has gotten, not the next destination. Callers wanting the
	// next destination use CurrentStopIndex+1.
	CurrentStopIndex int

	Percent float64
}

// minutesToDuration is the single minutes-to-Duration conversion boundary.
// Schedule leg times are stored in whole minutes; all progress arithmetic
// runs in time.Duration.
func minutesToDuration(minutes int) time.Duration {
	return time.Duration(minutes) * time.Minute
}

// EstimateProgress maps the effective elapsed duration onto the stop list.
//
// Walking the stops in order, a stop whose cumulative leg time has been
// reached is completed (ties included), the first stop still ahead is
// current, the rest are upcoming. Each stop carries a projected arrival
// instant: paused time is re-added to convert the relative cumulative
// duration back into wall clock.
func EstimateProgress(t *model.Trip, stops []model.Stop, elapsed time.Duration) (Progress, error) {
	if t.TotalMinutes == 0 {
		return Progress{}, fmt.Errorf("%w: vehicle %s", myerrors.ErrDegenerateRoute, t.VehicleID)
	}
	if len(stops) == 0 {
		// Event trips track a bare destination: percentage only.
		return Progress{Percent: clampPercent(elapsed, minutesToDuration(t.TotalMinutes))}, nil
	}
	if len(stops) != len(t.SegmentMinutes)+1 {
		return Progress{}, fmt.Errorf("%w: %d stops but %d leg durations",
			myerrors.ErrInvariantViolation, len(stops), len(t.SegmentMinutes))
	}

	p := Progress{
		Stops: make([]StopProgress, 0, len(stops)),
	}

	cumulative := time.Duration(0)
	currentAssigned := false

	for i, stop := range stops {
		if i > 0 {
			cumulative += minutesToDuration(t.SegmentMinutes[i-1])
		}

		status := StopUpcoming
		if elapsed >= cumulative {
			status = StopCompleted
			p.CurrentStopIndex = i
		} else if !currentAssigned {
			status = StopCurrent
			currentAssigned = true
		}

		p.Stops = append(p.Stops, StopProgress{
			Stop:             stop,
			Status:           status,
			ProjectedArrival: t.StartedAt.Add(cumulative + t.PausedDuration),
		})
	}

	p.Percent = clampPercent(elapsed, minutesToDuration(t.TotalMinutes))

	return p, nil
}

func clampPercent(elapsed, total time.Duration) float64 {
	percent := 100 * float64(elapsed) / float64(total)
	if percent > 100 {
		percent = 100
	}
	return percent
}

package services

import (
	"fmt"
	"math"
	"time"

	"bus-tracking/internal/trip-service/core/domain/model"
	"bus-tracking/internal/trip-service/core/myerrors"
)

// DefaultFreshnessThreshold is how old a live fix may be before tracking
// falls back to the schedule-based estimate.
const DefaultFreshnessThreshold = 30 * time.Second

type TrackingMode string

const (
	ModeGPS  TrackingMode = "gps"
	ModeTime TrackingMode = "time"
)

// RecordFix validates and stores a live position report. Last write wins:
// there is no ordering check against the previous report, so a late
// out-of-order fix can overwrite a fresher one.
func RecordFix(t *model.Trip, lat, lng *float64, observedAt time.Time) error {
	if err := validateCoordinates(lat, lng); err != nil {
		return err
	}
	t.LastFix = &model.Fix{
		Lat:        *lat,
		Lng:        *lng,
		ObservedAt: observedAt,
	}
	return nil
}

// IsFresh reports whether the last fix is recent enough to present.
func IsFresh(t *model.Trip, now time.Time, threshold time.Duration) bool {
	if !t.HasFix() {
		return false
	}
	return now.Sub(t.LastFix.ObservedAt) < threshold
}

// SelectMode decides whether a tracking read presents the live GPS fix or
// the schedule-based estimate. The ETA list is computed either way.
func SelectMode(t *model.Trip, now time.Time, threshold time.Duration) TrackingMode {
	if IsFresh(t, now, threshold) {
		return ModeGPS
	}
	return ModeTime
}

func validateCoordinates(lat, lng *float64) error {
	if lat == nil || lng == nil {
		return fmt.Errorf("%w: lat and lng are required", myerrors.ErrInvalidLocation)
	}
	if math.IsNaN(*lat) || math.Abs(*lat) > 90 {
		return fmt.Errorf("%w: latitude out of range [-90, 90]", myerrors.ErrInvalidLocation)
	}
	if math.IsNaN(*lng) || math.Abs(*lng) > 180 {
		return fmt.Errorf("%w: longitude out of range [-180, 180]", myerrors.ErrInvalidLocation)
	}
	return nil
}

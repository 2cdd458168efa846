package ports

import (
	"time"

	"bus-tracking/internal/trip-service/core/domain/dto"
	"bus-tracking/internal/trip-service/core/domain/model"
)

type ITripsService interface {
	// CreateTrip enforces "at most one open trip per vehicle": when an open
	// trip already exists, it is returned with created == false.
	CreateTrip(req dto.CreateTripRequest) (res dto.TripResponse, created bool, err error)

	StartTrip(tripID string) (dto.TripResponse, error)
	PauseTrip(tripID string) (dto.TripResponse, error)
	ResumeTrip(tripID string) (dto.TripResponse, error)
	EndTrip(tripID string) (dto.TripResponse, error)

	// ReportLocation validates and stores a live fix. The updated record is
	// returned so callers can fan the fix out to websocket subscribers.
	ReportLocation(tripID string, report dto.LocationReport, observedAt time.Time) (model.Trip, error)

	// Tracking derives the point-in-time progress view for the given now.
	// active is false for a trip that has not started yet, which readers
	// render as an idle state rather than an error.
	Tracking(tripID string, now time.Time) (res dto.TrackingResponse, active bool, err error)

	// ActiveTrip returns the vehicle's open trip; found is false when the
	// vehicle is idle, which is a valid non-error outcome.
	ActiveTrip(vehicleID string) (res dto.TripResponse, found bool, err error)

	// VehicleTracking is the student-facing read keyed by vehicle rather
	// than trip id.
	VehicleTracking(vehicleID string, now time.Time) (res dto.TrackingResponse, found bool, err error)
}

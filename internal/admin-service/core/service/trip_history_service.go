package service

import (
	"context"
	"errors"
	"fmt"

	"bus-tracking/internal/admin-service/core/domain/dto"
	"bus-tracking/internal/admin-service/core/ports"
	"bus-tracking/internal/mylogger"
)

var (
	ErrTripNotFound     = errors.New("trip not found")
	ErrTripNotCompleted = errors.New("only completed trips can be deleted")
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type TripHistoryService struct {
	ctx             context.Context
	mylog           mylogger.Logger
	tripHistoryRepo ports.ITripHistoryRepo
}

func NewTripHistoryService(ctx context.Context, mylog mylogger.Logger, tripHistoryRepo ports.ITripHistoryRepo) *TripHistoryService {
	return &TripHistoryService{
		ctx:             ctx,
		mylog:           mylog,
		tripHistoryRepo: tripHistoryRepo,
	}
}

func (ts *TripHistoryService) ListTrips(ctx context.Context, vehicleID string, page, pageSize int) (dto.TripHistory, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	total, trips, err := ts.tripHistoryRepo.ListTrips(ctx, vehicleID, page, pageSize)
	if err != nil {
		return dto.TripHistory{}, fmt.Errorf("failed to list trips: %w", err)
	}

	return dto.TripHistory{
		Total:    total,
		Page:     page,
		PageSize: pageSize,
		Trips:    trips,
	}, nil
}

// DeleteTrip removes a finished trip from history. Open trips are protected:
// the driver has to end the trip first.
func (ts *TripHistoryService) DeleteTrip(ctx context.Context, tripID string) error {
	deleted, err := ts.tripHistoryRepo.DeleteCompleted(ctx, tripID)
	if err != nil {
		return fmt.Errorf("failed to delete trip: %w", err)
	}
	if deleted {
		ts.mylog.Action("trip_deleted").With("trip_id", tripID).Info("Trip removed from history")
		return nil
	}

	// Nothing deleted: work out which refusal this is.
	state, err := ts.tripHistoryRepo.GetTripState(ctx, tripID)
	if err != nil {
		return ErrTripNotFound
	}
	if state != "COMPLETED" {
		return ErrTripNotCompleted
	}
	return ErrTripNotFound
}

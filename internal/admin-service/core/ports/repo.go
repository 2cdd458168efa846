package ports

import (
	"context"

	"bus-tracking/internal/admin-service/core/domain/dto"

	"github.com/jackc/pgx/v5"
)

type IDB interface {
	GetConn() *pgx.Conn
	IsAlive() error
	Close() error
}

type ITripHistoryRepo interface {
	// ListTrips returns the total count plus one page, newest first. An
	// empty vehicleID lists the whole fleet.
	ListTrips(ctx context.Context, vehicleID string, page, pageSize int) (int, []dto.TripRecord, error)

	// GetTripState returns the lifecycle state of the given trip.
	GetTripState(ctx context.Context, tripID string) (string, error)

	// DeleteCompleted removes a trip only if it is COMPLETED. Returns true
	// when a row was deleted.
	DeleteCompleted(ctx context.Context, tripID string) (bool, error)
}

type IFleetOverviewRepo interface {
	GetStateCounts(ctx context.Context) (dto.StateCounts, error)
	GetActivitySummary(ctx context.Context) (openTrips, completedToday, withLiveFix int, avgPausedMin float64, err error)
}

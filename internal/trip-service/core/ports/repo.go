package ports

import (
	"context"

	"bus-tracking/internal/trip-service/core/domain/model"

	"github.com/jackc/pgx/v5"
)

type IDB interface {
	GetConn() *pgx.Conn
	IsAlive() error
	Close() error
}

type ITripsRepo interface {
	// InsertTrip creates the record unless the vehicle already has an open
	// (non-completed) trip. When it does, the existing record is returned
	// and created is false. The check-and-insert is a single atomic
	// statement, not a read-then-write.
	InsertTrip(ctx context.Context, t model.Trip) (trip model.Trip, created bool, err error)

	FindByID(ctx context.Context, tripID string) (model.Trip, error)

	// FindOpenByVehicle returns the vehicle's non-completed trip, if any.
	FindOpenByVehicle(ctx context.Context, vehicleID string) (model.Trip, error)

	// FindActiveByVehicle returns the vehicle's running or paused trip.
	FindActiveByVehicle(ctx context.Context, vehicleID string) (model.Trip, error)

	// UpdateTransition persists a lifecycle transition conditionally: the
	// row is only written while its stored state is one of expected.
	// Returns ErrInvalidTransition when a concurrent transition won.
	UpdateTransition(ctx context.Context, t model.Trip, expected []model.LifecycleState) error

	// SaveFix stores the last known position, last-write-wins.
	SaveFix(ctx context.Context, tripID string, fix model.Fix) error
}

type IRoutesRepo interface {
	FindByVehicle(ctx context.Context, vehicleID string) (model.Route, error)
}

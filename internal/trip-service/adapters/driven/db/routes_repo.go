package db

import (
	"context"
	"database/sql"
	"fmt"

	"bus-tracking/internal/trip-service/core/domain/model"
	"bus-tracking/internal/trip-service/core/myerrors"
	"bus-tracking/internal/trip-service/core/ports"
)

// RoutesRepo is a read-only view over the roster collaborator's tables. The
// engine never writes them.
//
//	buses(vehicle_id text PRIMARY KEY, route_name text NOT NULL, ...)
//	bus_stops(vehicle_id text, position int, stop_name text,
//	          lat double precision, lng double precision,
//	          outbound_time text, return_time text,
//	          leg_minutes int,  -- travel time from the previous stop, NULL for the first
//	          PRIMARY KEY (vehicle_id, position))
type RoutesRepo struct {
	db ports.IDB
}

func NewRoutesRepo(db ports.IDB) ports.IRoutesRepo {
	return &RoutesRepo{
		db: db,
	}
}

func (rr *RoutesRepo) FindByVehicle(ctx context.Context, vehicleID string) (model.Route, error) {
	q := `
	SELECT
		b.route_name,
		s.stop_name,
		s.lat,
		s.lng,
		s.outbound_time,
		s.return_time,
		s.leg_minutes
	FROM buses b
	JOIN bus_stops s ON s.vehicle_id = b.vehicle_id
	WHERE b.vehicle_id = $1
	ORDER BY s.position`

	rows, err := rr.db.GetConn().Query(ctx, q, vehicleID)
	if err != nil {
		return model.Route{}, fmt.Errorf("load route table: %w", err)
	}
	defer rows.Close()

	route := model.Route{VehicleID: vehicleID}

	for rows.Next() {
		var (
			stop       model.Stop
			lat, lng   sql.NullFloat64
			legMinutes sql.NullInt32
		)
		if err := rows.Scan(
			&route.RouteName,
			&stop.Name,
			&lat,
			&lng,
			&stop.OutboundTime,
			&stop.ReturnTime,
			&legMinutes,
		); err != nil {
			return model.Route{}, fmt.Errorf("scan route stop: %w", err)
		}
		stop.Lat = lat.Float64
		stop.Lng = lng.Float64

		if len(route.Stops) > 0 {
			route.SegmentMinutes = append(route.SegmentMinutes, int(legMinutes.Int32))
		}
		route.Stops = append(route.Stops, stop)
	}
	if err := rows.Err(); err != nil {
		return model.Route{}, fmt.Errorf("read route table: %w", err)
	}

	if len(route.Stops) == 0 {
		return model.Route{}, fmt.Errorf("%w: %s", myerrors.ErrVehicleNotFound, vehicleID)
	}

	return route, nil
}

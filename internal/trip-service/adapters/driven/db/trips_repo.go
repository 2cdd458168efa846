package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"bus-tracking/internal/trip-service/core/domain/model"
	"bus-tracking/internal/trip-service/core/myerrors"
	"bus-tracking/internal/trip-service/core/ports"

	"github.com/jackc/pgx/v5"
)

// Schema (owned by this service):
//
//	CREATE TABLE trips (
//	    trip_id            uuid PRIMARY KEY DEFAULT gen_random_uuid(),
//	    created_at         timestamptz NOT NULL DEFAULT now(),
//	    updated_at         timestamptz NOT NULL DEFAULT now(),
//	    vehicle_id         text NOT NULL,
//	    driver_id          text,
//	    kind               text NOT NULL,
//	    state              text NOT NULL,
//	    destination        text,
//	    reason             text,
//	    started_at         timestamptz,
//	    ended_at           timestamptz,
//	    pause_started_at   timestamptz,
//	    paused_duration_ms bigint NOT NULL DEFAULT 0,
//	    segment_minutes    int[] NOT NULL DEFAULT '{}',
//	    total_minutes      int NOT NULL,
//	    last_lat           double precision,
//	    last_lng           double precision,
//	    last_fix_at        timestamptz
//	);
//	CREATE UNIQUE INDEX trips_one_open_per_vehicle
//	    ON trips (vehicle_id) WHERE state <> 'COMPLETED';
type TripsRepo struct {
	db ports.IDB
}

func NewTripsRepo(db ports.IDB) ports.ITripsRepo {
	return &TripsRepo{
		db: db,
	}
}

const tripColumns = `
	trip_id, created_at, updated_at, vehicle_id, driver_id, kind, state,
	destination, reason, started_at, ended_at, pause_started_at,
	paused_duration_ms, segment_minutes, total_minutes,
	last_lat, last_lng, last_fix_at`

// InsertTrip relies on the partial unique index over open trips: the
// conditional insert and the duplicate check are one atomic statement.
func (tr *TripsRepo) InsertTrip(ctx context.Context, t model.Trip) (model.Trip, bool, error) {
	q := `
	INSERT INTO trips (
		vehicle_id, driver_id, kind, state, destination, reason,
		segment_minutes, total_minutes
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	ON CONFLICT (vehicle_id) WHERE state <> 'COMPLETED' DO NOTHING
	RETURNING ` + tripColumns

	conn := tr.db.GetConn()
	row := conn.QueryRow(ctx, q,
		t.VehicleID,
		nullStr(t.DriverID),
		string(t.Kind),
		string(t.State),
		nullStr(t.Destination),
		nullStr(t.Reason),
		toInt32s(t.SegmentMinutes),
		t.TotalMinutes,
	)

	created, err := scanTrip(row)
	if err == nil {
		return created, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return model.Trip{}, false, fmt.Errorf("insert trip: %w", err)
	}

	// Insert lost to an existing open trip: hand that record back.
	existing, err := tr.FindOpenByVehicle(ctx, t.VehicleID)
	if err != nil {
		return model.Trip{}, false, err
	}
	return existing, false, nil
}

func (tr *TripsRepo) FindByID(ctx context.Context, tripID string) (model.Trip, error) {
	q := `SELECT ` + tripColumns + ` FROM trips WHERE trip_id = $1`

	t, err := scanTrip(tr.db.GetConn().QueryRow(ctx, q, tripID))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Trip{}, fmt.Errorf("%w: %s", myerrors.ErrTripNotFound, tripID)
	}
	return t, err
}

func (tr *TripsRepo) FindOpenByVehicle(ctx context.Context, vehicleID string) (model.Trip, error) {
	q := `SELECT ` + tripColumns + ` FROM trips WHERE vehicle_id = $1 AND state <> 'COMPLETED'`

	t, err := scanTrip(tr.db.GetConn().QueryRow(ctx, q, vehicleID))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Trip{}, fmt.Errorf("%w: no open trip for vehicle %s", myerrors.ErrTripNotFound, vehicleID)
	}
	return t, err
}

func (tr *TripsRepo) FindActiveByVehicle(ctx context.Context, vehicleID string) (model.Trip, error) {
	q := `SELECT ` + tripColumns + ` FROM trips WHERE vehicle_id = $1 AND state IN ('RUNNING', 'PAUSED')`

	t, err := scanTrip(tr.db.GetConn().QueryRow(ctx, q, vehicleID))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Trip{}, fmt.Errorf("%w: no active trip for vehicle %s", myerrors.ErrTripNotFound, vehicleID)
	}
	return t, err
}

// UpdateTransition writes the transitioned record only while the stored
// state is still one of expected, so two racing transitions resolve to a
// single winner.
func (tr *TripsRepo) UpdateTransition(ctx context.Context, t model.Trip, expected []model.LifecycleState) error {
	q := `
	UPDATE trips SET
		state = $2,
		started_at = $3,
		ended_at = $4,
		pause_started_at = $5,
		paused_duration_ms = $6,
		updated_at = now()
	WHERE trip_id = $1 AND state = ANY($7)`

	states := make([]string, 0, len(expected))
	for _, s := range expected {
		states = append(states, string(s))
	}

	tag, err := tr.db.GetConn().Exec(ctx, q,
		t.ID,
		string(t.State),
		nullTime(t.StartedAt),
		nullTime(t.EndedAt),
		nullTime(t.PauseStartedAt),
		t.PausedDuration.Milliseconds(),
		states,
	)
	if err != nil {
		return fmt.Errorf("update trip transition: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	// Nothing matched: either the trip is gone or a concurrent transition won.
	if _, err := tr.FindByID(ctx, t.ID); err != nil {
		return err
	}
	return fmt.Errorf("%w: concurrent transition on trip %s", myerrors.ErrInvalidTransition, t.ID)
}

// SaveFix is last-write-wins, no ordering check against the stored fix.
func (tr *TripsRepo) SaveFix(ctx context.Context, tripID string, fix model.Fix) error {
	q := `
	UPDATE trips SET
		last_lat = $2,
		last_lng = $3,
		last_fix_at = $4,
		updated_at = now()
	WHERE trip_id = $1`

	tag, err := tr.db.GetConn().Exec(ctx, q, tripID, fix.Lat, fix.Lng, fix.ObservedAt)
	if err != nil {
		return fmt.Errorf("save location fix: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", myerrors.ErrTripNotFound, tripID)
	}
	return nil
}

func scanTrip(row pgx.Row) (model.Trip, error) {
	var (
		t              model.Trip
		kind, state    string
		driverID       sql.NullString
		destination    sql.NullString
		reason         sql.NullString
		startedAt      sql.NullTime
		endedAt        sql.NullTime
		pauseStartedAt sql.NullTime
		pausedMs       int64
		segments       []int32
		lastLat        sql.NullFloat64
		lastLng        sql.NullFloat64
		lastFixAt      sql.NullTime
	)

	err := row.Scan(
		&t.ID, &t.CreatedAt, &t.UpdatedAt, &t.VehicleID, &driverID, &kind, &state,
		&destination, &reason, &startedAt, &endedAt, &pauseStartedAt,
		&pausedMs, &segments, &t.TotalMinutes,
		&lastLat, &lastLng, &lastFixAt,
	)
	if err != nil {
		return model.Trip{}, err
	}

	t.DriverID = driverID.String
	t.Kind = model.TripKind(kind)
	t.State = model.LifecycleState(state)
	t.Destination = destination.String
	t.Reason = reason.String
	t.StartedAt = startedAt.Time
	t.EndedAt = endedAt.Time
	t.PauseStartedAt = pauseStartedAt.Time
	// Pause accounting is persisted in milliseconds; everything in the core
	// runs on time.Duration.
	t.PausedDuration = time.Duration(pausedMs) * time.Millisecond
	t.SegmentMinutes = fromInt32s(segments)
	if lastLat.Valid && lastLng.Valid && lastFixAt.Valid {
		t.LastFix = &model.Fix{
			Lat:        lastLat.Float64,
			Lng:        lastLng.Float64,
			ObservedAt: lastFixAt.Time,
		}
	}

	return t, nil
}

func nullStr(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}

func toInt32s(in []int) []int32 {
	out := make([]int32, 0, len(in))
	for _, v := range in {
		out = append(out, int32(v))
	}
	return out
}

func fromInt32s(in []int32) []int {
	out := make([]int, 0, len(in))
	for _, v := range in {
		out = append(out, int(v))
	}
	return out
}

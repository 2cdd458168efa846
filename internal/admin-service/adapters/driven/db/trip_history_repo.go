package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"bus-tracking/internal/admin-service/core/domain/dto"
	"bus-tracking/internal/admin-service/core/ports"
)

type TripHistoryRepo struct {
	db ports.IDB
}

func NewTripHistoryRepo(db ports.IDB) *TripHistoryRepo {
	return &TripHistoryRepo{db: db}
}

func (tr *TripHistoryRepo) ListTrips(ctx context.Context, vehicleID string, page, pageSize int) (int, []dto.TripRecord, error) {
	countQ := `
	SELECT COUNT(*)
	FROM trips
	WHERE ($1 = '' OR vehicle_id = $1);
	`

	listQ := `
	SELECT
		trip_id, vehicle_id, driver_id, kind, state, destination,
		started_at, ended_at, paused_duration_ms, total_minutes, created_at
	FROM trips
	WHERE ($1 = '' OR vehicle_id = $1)
	ORDER BY created_at DESC
	LIMIT $2 OFFSET $3;
	`

	conn := tr.db.GetConn()

	total := 0
	if err := conn.QueryRow(ctx, countQ, vehicleID).Scan(&total); err != nil {
		return 0, nil, fmt.Errorf("failed to count trips: %w", err)
	}

	offset := (page - 1) * pageSize
	rows, err := conn.Query(ctx, listQ, vehicleID, pageSize, offset)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to query trips: %w", err)
	}
	defer rows.Close()

	var trips []dto.TripRecord
	for rows.Next() {
		var (
			rec         dto.TripRecord
			driverID    sql.NullString
			destination sql.NullString
			startedAt   sql.NullTime
			endedAt     sql.NullTime
			pausedMs    int64
			createdAt   time.Time
		)

		err := rows.Scan(
			&rec.TripID,
			&rec.VehicleID,
			&driverID,
			&rec.TripKind,
			&rec.State,
			&destination,
			&startedAt,
			&endedAt,
			&pausedMs,
			&rec.TotalMinutes,
			&createdAt,
		)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to scan trip: %w", err)
		}

		rec.DriverID = driverID.String
		rec.Destination = destination.String
		rec.StartedAt = formatNullTime(startedAt)
		rec.EndedAt = formatNullTime(endedAt)
		rec.PausedMinutes = float64(pausedMs) / 60000.0
		rec.CreatedAt = createdAt.Format(time.RFC3339)

		trips = append(trips, rec)
	}
	if err := rows.Err(); err != nil {
		return 0, nil, fmt.Errorf("failed to read trips: %w", err)
	}

	return total, trips, nil
}

func (tr *TripHistoryRepo) GetTripState(ctx context.Context, tripID string) (string, error) {
	q := `SELECT state FROM trips WHERE trip_id = $1;`

	var state string
	if err := tr.db.GetConn().QueryRow(ctx, q, tripID).Scan(&state); err != nil {
		return "", fmt.Errorf("failed to get trip state: %w", err)
	}
	return state, nil
}

func (tr *TripHistoryRepo) DeleteCompleted(ctx context.Context, tripID string) (bool, error) {
	q := `DELETE FROM trips WHERE trip_id = $1 AND state = 'COMPLETED';`

	tag, err := tr.db.GetConn().Exec(ctx, q, tripID)
	if err != nil {
		return false, fmt.Errorf("failed to delete trip: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func formatNullTime(t sql.NullTime) *string {
	if !t.Valid {
		return nil
	}
	s := t.Time.Format(time.RFC3339)
	return &s
}

package db

import (
	"context"
	"fmt"

	"bus-tracking/internal/admin-service/core/domain/dto"
	"bus-tracking/internal/admin-service/core/ports"
)

type FleetOverviewRepo struct {
	db ports.IDB
}

func NewFleetOverviewRepo(db ports.IDB) *FleetOverviewRepo {
	return &FleetOverviewRepo{db: db}
}

func (fr *FleetOverviewRepo) GetStateCounts(ctx context.Context) (dto.StateCounts, error) {
	q := `
	SELECT
		COUNT(*) FILTER (WHERE state = 'IDLE') as idle_trips,
		COUNT(*) FILTER (WHERE state = 'PLANNED') as planned_trips,
		COUNT(*) FILTER (WHERE state = 'RUNNING') as running_trips,
		COUNT(*) FILTER (WHERE state = 'PAUSED') as paused_trips,
		COUNT(*) FILTER (WHERE state = 'COMPLETED') as completed_trips
	FROM trips;
	`

	var counts dto.StateCounts
	err := fr.db.GetConn().QueryRow(ctx, q).Scan(
		&counts.Idle,
		&counts.Planned,
		&counts.Running,
		&counts.Paused,
		&counts.Completed,
	)
	if err != nil {
		return dto.StateCounts{}, fmt.Errorf("failed to get state counts: %w", err)
	}

	return counts, nil
}

func (fr *FleetOverviewRepo) GetActivitySummary(ctx context.Context) (int, int, int, float64, error) {
	q := `
	SELECT
		COUNT(*) FILTER (WHERE state <> 'COMPLETED') as open_trips,
		COUNT(*) FILTER (WHERE state = 'COMPLETED' AND ended_at::date = current_date) as completed_today,
		COUNT(DISTINCT vehicle_id) FILTER (WHERE state IN ('RUNNING', 'PAUSED') AND last_fix_at IS NOT NULL) as with_live_fix,
		COALESCE(AVG(paused_duration_ms / 60000.0) FILTER (WHERE state = 'COMPLETED'), 0)::float as avg_paused_min
	FROM trips;
	`

	var (
		openTrips      int
		completedToday int
		withLiveFix    int
		avgPausedMin   float64
	)
	err := fr.db.GetConn().QueryRow(ctx, q).Scan(
		&openTrips,
		&completedToday,
		&withLiveFix,
		&avgPausedMin,
	)
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("failed to get activity summary: %w", err)
	}

	return openTrips, completedToday, withLiveFix, avgPausedMin, nil
}

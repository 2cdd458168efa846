package service

import (
	"context"
	"fmt"
	"time"

	"bus-tracking/internal/admin-service/core/domain/dto"
	"bus-tracking/internal/admin-service/core/ports"
	"bus-tracking/internal/mylogger"
)

type FleetOverviewService struct {
	ctx               context.Context
	mylog             mylogger.Logger
	fleetOverviewRepo ports.IFleetOverviewRepo
}

func NewFleetOverviewService(ctx context.Context, mylog mylogger.Logger, fleetOverviewRepo ports.IFleetOverviewRepo) *FleetOverviewService {
	return &FleetOverviewService{
		ctx:               ctx,
		mylog:             mylog,
		fleetOverviewRepo: fleetOverviewRepo,
	}
}

func (fs *FleetOverviewService) GetFleetOverview(ctx context.Context) (dto.FleetOverview, error) {
	counts, err := fs.fleetOverviewRepo.GetStateCounts(ctx)
	if err != nil {
		return dto.FleetOverview{}, fmt.Errorf("failed to get state counts: %w", err)
	}

	openTrips, completedToday, withLiveFix, avgPausedMin, err := fs.fleetOverviewRepo.GetActivitySummary(ctx)
	if err != nil {
		return dto.FleetOverview{}, fmt.Errorf("failed to get activity summary: %w", err)
	}

	overview := dto.FleetOverview{
		Timestamp:           time.Now().Format(time.RFC3339),
		Counts:              counts,
		OpenTrips:           openTrips,
		CompletedToday:      completedToday,
		VehiclesWithLiveFix: withLiveFix,
		AveragePausedMin:    avgPausedMin,
	}

	return overview, nil
}

package handle

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"bus-tracking/internal/admin-service/core/service"
	"bus-tracking/internal/mylogger"
)

type FleetOverviewHandler struct {
	fleetOverviewService *service.FleetOverviewService
	mylog                mylogger.Logger
}

func NewFleetOverviewHandler(mylog mylogger.Logger, fleetOverviewService *service.FleetOverviewService) *FleetOverviewHandler {
	return &FleetOverviewHandler{
		fleetOverviewService: fleetOverviewService,
		mylog:                mylog,
	}
}

func (fh *FleetOverviewHandler) GetFleetOverview() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(context.Background(), WaitTime*time.Second)
		defer cancel()

		overview, err := fh.fleetOverviewService.GetFleetOverview(ctx)
		if err != nil {
			jsonError(w, http.StatusInternalServerError, fmt.Errorf("failed to get fleet overview: %v", err))
			return
		}

		jsonResponse(w, http.StatusOK, overview)
	}
}

package handle

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"bus-tracking/internal/admin-service/core/service"
	"bus-tracking/internal/mylogger"
)

type TripHistoryHandler struct {
	tripHistoryService *service.TripHistoryService
	mylog              mylogger.Logger
}

func NewTripHistoryHandler(mylog mylogger.Logger, tripHistoryService *service.TripHistoryService) *TripHistoryHandler {
	return &TripHistoryHandler{
		tripHistoryService: tripHistoryService,
		mylog:              mylog,
	}
}

func (th *TripHistoryHandler) ListTrips() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(context.Background(), WaitTime*time.Second)
		defer cancel()

		page := queryInt(r, "page", 1)
		pageSize := queryInt(r, "pageSize", 0)

		history, err := th.tripHistoryService.ListTrips(ctx, "", page, pageSize)
		if err != nil {
			jsonError(w, http.StatusInternalServerError, fmt.Errorf("failed to list trips: %v", err))
			return
		}

		jsonResponse(w, http.StatusOK, history)
	}
}

func (th *TripHistoryHandler) ListVehicleTrips() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(context.Background(), WaitTime*time.Second)
		defer cancel()

		vehicleID := r.PathValue("vehicle_id")
		page := queryInt(r, "page", 1)
		pageSize := queryInt(r, "pageSize", 0)

		history, err := th.tripHistoryService.ListTrips(ctx, vehicleID, page, pageSize)
		if err != nil {
			jsonError(w, http.StatusInternalServerError, fmt.Errorf("failed to list trips: %v", err))
			return
		}

		jsonResponse(w, http.StatusOK, history)
	}
}

func (th *TripHistoryHandler) DeleteTrip() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(context.Background(), WaitTime*time.Second)
		defer cancel()

		tripID := r.PathValue("trip_id")

		err := th.tripHistoryService.DeleteTrip(ctx, tripID)
		switch {
		case errors.Is(err, service.ErrTripNotFound):
			jsonError(w, http.StatusNotFound, err)
		case errors.Is(err, service.ErrTripNotCompleted):
			jsonError(w, http.StatusConflict, err)
		case err != nil:
			jsonError(w, http.StatusInternalServerError, fmt.Errorf("failed to delete trip: %v", err))
		default:
			jsonResponse(w, http.StatusOK, map[string]string{"message": "Trip deleted"})
		}
	}
}

func queryInt(r *http.Request, key string, def int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return def
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return def
	}
	return n
}

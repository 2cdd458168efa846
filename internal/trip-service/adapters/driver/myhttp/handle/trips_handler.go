package handle

import (
	"encoding/json"
	"net/http"
	"time"

	"bus-tracking/internal/metrics"
	"bus-tracking/internal/mylogger"
	"bus-tracking/internal/trip-service/core/domain/dto"
	"bus-tracking/internal/trip-service/core/ports"

	websocketdto "bus-tracking/internal/trip-service/core/domain/websocket_dto"
)

type TripsHandler struct {
	tripsService ports.ITripsService
	dispatcher   ports.INotifyWebsocket
	collector    *metrics.Collector
	log          mylogger.Logger
}

func NewTripsHandler(ts ports.ITripsService, dispatcher ports.INotifyWebsocket, collector *metrics.Collector, log mylogger.Logger) *TripsHandler {
	return &TripsHandler{
		tripsService: ts,
		dispatcher:   dispatcher,
		collector:    collector,
		log:          log,
	}
}

func (th *TripsHandler) CreateTrip() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := dto.CreateTripRequest{}

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			JsonError(w, http.StatusBadRequest, err)
			return
		}

		res, created, err := th.tripsService.CreateTrip(req)
		if err != nil {
			JsonError(w, statusFromError(err), err)
			return
		}
		if !created {
			// Duplicate open trip: hand the existing record back.
			th.collector.RejectedOps.WithLabelValues("conflict").Inc()
			JsonResponse(w, http.StatusConflict, res)
			return
		}

		th.collector.TripsCreated.Inc()
		th.collector.OpenTrips.Inc()
		JsonResponse(w, http.StatusCreated, res)
	}
}

func (th *TripsHandler) StartTrip() http.HandlerFunc {
	return th.transition("start", th.tripsService.StartTrip)
}

func (th *TripsHandler) PauseTrip() http.HandlerFunc {
	return th.transition("pause", th.tripsService.PauseTrip)
}

func (th *TripsHandler) ResumeTrip() http.HandlerFunc {
	return th.transition("resume", th.tripsService.ResumeTrip)
}

func (th *TripsHandler) EndTrip() http.HandlerFunc {
	return th.transition("end", th.tripsService.EndTrip)
}

func (th *TripsHandler) transition(name string, do func(string) (dto.TripResponse, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tripID := r.PathValue("trip_id")

		res, err := do(tripID)
		if err != nil {
			th.collector.RejectedOps.WithLabelValues(rejectionReason(err, "invalid_transition")).Inc()
			JsonError(w, statusFromError(err), err)
			return
		}

		th.collector.TripTransitions.WithLabelValues(name).Inc()
		if name == "end" {
			th.collector.OpenTrips.Dec()
		}
		th.notifyStatus(res)
		JsonResponse(w, http.StatusOK, res)
	}
}

func (th *TripsHandler) notifyStatus(res dto.TripResponse) {
	payload, err := json.Marshal(websocketdto.TripStatusUpdateDto{
		TripID:         res.TripID,
		VehicleID:      res.VehicleID,
		LifecycleState: res.LifecycleState,
		Timestamp:      time.Now().Format(time.RFC3339),
	})
	if err != nil {
		return
	}
	th.dispatcher.Broadcast(res.TripID, websocketdto.Event{
		Type: websocketdto.TripStatusUpdate,
		Data: payload,
	})
}

func (th *TripsHandler) ReportLocation() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tripID := r.PathValue("trip_id")

		req := dto.LocationReport{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			JsonError(w, http.StatusBadRequest, err)
			return
		}

		trip, err := th.tripsService.ReportLocation(tripID, req, time.Now())
		if err != nil {
			th.collector.RejectedOps.WithLabelValues(rejectionReason(err, "invalid_location")).Inc()
			JsonError(w, statusFromError(err), err)
			return
		}

		th.collector.LocationReports.WithLabelValues("http").Inc()

		payload, err := json.Marshal(websocketdto.VehicleLocationUpdateDto{
			TripID:    trip.ID,
			VehicleID: trip.VehicleID,
			Lat:       trip.LastFix.Lat,
			Lng:       trip.LastFix.Lng,
		})
		if err == nil {
			th.dispatcher.Broadcast(trip.ID, websocketdto.Event{
				Type: websocketdto.VehicleLocationUpdate,
				Data: payload,
			})
		}

		JsonResponse(w, http.StatusOK, map[string]string{"message": "Location updated successfully"})
	}
}

func (th *TripsHandler) Tracking() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tripID := r.PathValue("trip_id")

		res, active, err := th.tripsService.Tracking(tripID, time.Now())
		if err != nil {
			JsonError(w, statusFromError(err), err)
			return
		}
		if !active {
			JsonResponse(w, http.StatusOK, dto.NoActiveTrip{Message: "No active trip"})
			return
		}

		th.collector.TrackingReads.WithLabelValues(res.TrackingMode).Inc()
		JsonResponse(w, http.StatusOK, res)
	}
}

func (th *TripsHandler) ActiveTrip() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vehicleID := r.PathValue("vehicle_id")

		res, found, err := th.tripsService.ActiveTrip(vehicleID)
		if err != nil {
			JsonError(w, statusFromError(err), err)
			return
		}
		if !found {
			JsonResponse(w, http.StatusOK, dto.NoActiveTrip{VehicleID: vehicleID, Message: "No active trip"})
			return
		}

		JsonResponse(w, http.StatusOK, res)
	}
}

func (th *TripsHandler) VehicleTracking() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vehicleID := r.PathValue("vehicle_id")

		res, found, err := th.tripsService.VehicleTracking(vehicleID, time.Now())
		if err != nil {
			JsonError(w, statusFromError(err), err)
			return
		}
		if !found {
			JsonResponse(w, http.StatusOK, dto.NoActiveTrip{VehicleID: vehicleID, Message: "No active trip"})
			return
		}

		th.collector.TrackingReads.WithLabelValues(res.TrackingMode).Inc()
		JsonResponse(w, http.StatusOK, res)
	}
}

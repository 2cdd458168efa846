package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"bus-tracking/internal/mylogger"
	"bus-tracking/internal/trip-service/core/domain/dto"
	"bus-tracking/internal/trip-service/core/domain/model"
	"bus-tracking/internal/trip-service/core/myerrors"
	"bus-tracking/internal/trip-service/core/ports"

	messagebrokerdto "bus-tracking/internal/trip-service/core/domain/message_broker_dto"
)

const storeTimeout = 15 * time.Second

type TripsService struct {
	ctx        context.Context
	mylog      mylogger.Logger
	TripsRepo  ports.ITripsRepo
	RoutesRepo ports.IRoutesRepo
	Broker     ports.ITripsBroker

	freshness time.Duration
}

func NewTripsService(ctx context.Context,
	log mylogger.Logger,
	tripsRepo ports.ITripsRepo,
	routesRepo ports.IRoutesRepo,
	broker ports.ITripsBroker,
	freshness time.Duration,
) ports.ITripsService {
	if freshness <= 0 {
		freshness = DefaultFreshnessThreshold
	}
	return &TripsService{
		ctx:        ctx,
		mylog:      log,
		TripsRepo:  tripsRepo,
		RoutesRepo: routesRepo,
		Broker:     broker,
		freshness:  freshness,
	}
}

func (ts *TripsService) CreateTrip(req dto.CreateTripRequest) (dto.TripResponse, bool, error) {
	log := ts.mylog.Action("CreateTrip")

	kind, err := validateCreateRequest(req)
	if err != nil {
		return dto.TripResponse{}, false, err
	}

	ctx, cancel := context.WithTimeout(ts.ctx, storeTimeout)
	defer cancel()

	t := model.Trip{
		VehicleID: *req.VehicleID,
		Kind:      kind,
	}
	if req.DriverID != nil {
		t.DriverID = *req.DriverID
	}

	switch kind {
	case model.KindRoutine:
		route, err := ts.RoutesRepo.FindByVehicle(ctx, t.VehicleID)
		if err != nil {
			log.Error("cannot load route table", err, "vehicle_id", t.VehicleID)
			return dto.TripResponse{}, false, err
		}
		// Leg times are copied once at creation; a later schedule change
		// does not retroactively alter an in-flight trip.
		t.SegmentMinutes = append([]int(nil), route.SegmentMinutes...)
		t.TotalMinutes = route.TotalMinutes()
		t.State = model.StateIdle
	case model.KindEvent:
		t.Destination = *req.Destination
		if req.Reason != nil {
			t.Reason = *req.Reason
		}
		t.TotalMinutes = *req.TotalMinutes
		t.State = model.StatePlanned
	}

	stored, created, err := ts.TripsRepo.InsertTrip(ctx, t)
	if err != nil {
		log.Error("cannot create trip", err, "vehicle_id", t.VehicleID)
		return dto.TripResponse{}, false, err
	}
	if !created {
		log.Info("vehicle already has an open trip", "vehicle_id", t.VehicleID, "trip_id", stored.ID)
		return toTripResponse(stored), false, nil
	}

	log.Info("trip created", "trip_id", stored.ID, "vehicle_id", t.VehicleID, "kind", kind)
	return toTripResponse(stored), true, nil
}

func (ts *TripsService) StartTrip(tripID string) (dto.TripResponse, error) {
	return ts.transition(tripID, "start", StartTrip,
		[]model.LifecycleState{model.StateIdle, model.StatePlanned})
}

func (ts *TripsService) PauseTrip(tripID string) (dto.TripResponse, error) {
	return ts.transition(tripID, "pause", PauseTrip,
		[]model.LifecycleState{model.StateRunning})
}

func (ts *TripsService) ResumeTrip(tripID string) (dto.TripResponse, error) {
	return ts.transition(tripID, "resume", ResumeTrip,
		[]model.LifecycleState{model.StatePaused})
}

func (ts *TripsService) EndTrip(tripID string) (dto.TripResponse, error) {
	return ts.transition(tripID, "end", EndTrip,
		[]model.LifecycleState{model.StateIdle, model.StatePlanned, model.StateRunning, model.StatePaused})
}

// transition is the shared read-modify-write path. The conditional update is
// keyed by the states the transition is legal from, so a lost-update race
// between concurrent transitions on the same vehicle resolves to exactly one
// winner.
func (ts *TripsService) transition(
	tripID, name string,
	apply func(*model.Trip, time.Time) error,
	expected []model.LifecycleState,
) (dto.TripResponse, error) {
	log := ts.mylog.Action("TripTransition").With("transition", name, "trip_id", tripID)

	ctx, cancel := context.WithTimeout(ts.ctx, storeTimeout)
	defer cancel()

	trip, err := ts.TripsRepo.FindByID(ctx, tripID)
	if err != nil {
		return dto.TripResponse{}, err
	}

	if err := apply(&trip, time.Now()); err != nil {
		log.Warn("transition rejected", "state", trip.State)
		return dto.TripResponse{}, err
	}

	if err := ts.TripsRepo.UpdateTransition(ctx, trip, expected); err != nil {
		log.Error("cannot persist transition", err)
		return dto.TripResponse{}, err
	}

	ts.publishStatus(trip)

	log.Info("transition applied", "vehicle_id", trip.VehicleID, "state", trip.State)
	return toTripResponse(trip), nil
}

// publishStatus is best-effort: a broker outage must not fail the transition
// the store already accepted.
func (ts *TripsService) publishStatus(t model.Trip) {
	if ts.Broker == nil {
		return
	}

	ctx, cancel := context.WithTimeout(ts.ctx, storeTimeout)
	defer cancel()

	msg := messagebrokerdto.TripStatus{
		TripID:    t.ID,
		VehicleID: t.VehicleID,
		Status:    string(t.State),
		Timestamp: time.Now().Format(time.RFC3339),
	}
	if err := ts.Broker.PushStatus(ctx, msg); err != nil {
		ts.mylog.Action("publishStatus").Error("cannot publish trip status", err, "trip_id", t.ID)
	}
}

func (ts *TripsService) ReportLocation(tripID string, report dto.LocationReport, observedAt time.Time) (model.Trip, error) {
	log := ts.mylog.Action("ReportLocation")

	ctx, cancel := context.WithTimeout(ts.ctx, storeTimeout)
	defer cancel()

	trip, err := ts.TripsRepo.FindByID(ctx, tripID)
	if err != nil {
		return model.Trip{}, err
	}

	if err := RecordFix(&trip, report.Lat, report.Lng, observedAt); err != nil {
		return model.Trip{}, err
	}

	if err := ts.TripsRepo.SaveFix(ctx, trip.ID, *trip.LastFix); err != nil {
		log.Error("cannot store location fix", err, "trip_id", trip.ID)
		return model.Trip{}, err
	}

	return trip, nil
}

func (ts *TripsService) Tracking(tripID string, now time.Time) (dto.TrackingResponse, bool, error) {
	ctx, cancel := context.WithTimeout(ts.ctx, storeTimeout)
	defer cancel()

	trip, err := ts.TripsRepo.FindByID(ctx, tripID)
	if err != nil {
		return dto.TrackingResponse{}, false, err
	}

	if trip.State.IsInitial() {
		// Progress is undefined before the first start.
		return dto.TrackingResponse{}, false, nil
	}

	res, err := ts.buildTracking(ctx, trip, now)
	if err != nil {
		return dto.TrackingResponse{}, false, err
	}
	return res, true, nil
}

func (ts *TripsService) ActiveTrip(vehicleID string) (dto.TripResponse, bool, error) {
	ctx, cancel := context.WithTimeout(ts.ctx, storeTimeout)
	defer cancel()

	trip, err := ts.TripsRepo.FindOpenByVehicle(ctx, vehicleID)
	if err != nil {
		if errors.Is(err, myerrors.ErrTripNotFound) {
			return dto.TripResponse{}, false, nil
		}
		return dto.TripResponse{}, false, err
	}
	return toTripResponse(trip), true, nil
}

func (ts *TripsService) VehicleTracking(vehicleID string, now time.Time) (dto.TrackingResponse, bool, error) {
	ctx, cancel := context.WithTimeout(ts.ctx, storeTimeout)
	defer cancel()

	trip, err := ts.TripsRepo.FindActiveByVehicle(ctx, vehicleID)
	if err != nil {
		if errors.Is(err, myerrors.ErrTripNotFound) {
			return dto.TrackingResponse{}, false, nil
		}
		return dto.TrackingResponse{}, false, err
	}

	res, err := ts.buildTracking(ctx, trip, now)
	if err != nil {
		return dto.TrackingResponse{}, false, err
	}
	return res, true, nil
}

// buildTracking assembles the tracking payload: effective elapsed time,
// per-stop schedule estimate, and the presentation mode folded in from the
// last live fix. Completed trips report 100%.
func (ts *TripsService) buildTracking(ctx context.Context, trip model.Trip, now time.Time) (dto.TrackingResponse, error) {
	var stops []model.Stop
	if trip.Kind == model.KindRoutine {
		route, err := ts.RoutesRepo.FindByVehicle(ctx, trip.VehicleID)
		if err != nil {
			return dto.TrackingResponse{}, err
		}
		stops = route.Stops
	}

	elapsed := minutesToDuration(trip.TotalMinutes)
	if trip.State.IsActive() {
		var err error
		elapsed, err = EffectiveElapsed(&trip, now)
		if err != nil {
			return dto.TrackingResponse{}, err
		}
	}

	progress, err := EstimateProgress(&trip, stops, elapsed)
	if err != nil {
		return dto.TrackingResponse{}, err
	}

	res := dto.TrackingResponse{
		TripID:           trip.ID,
		VehicleID:        trip.VehicleID,
		LifecycleState:   string(trip.State),
		TrackingMode:     string(SelectMode(&trip, now, ts.freshness)),
		ProgressPercent:  progress.Percent,
		CurrentStopIndex: progress.CurrentStopIndex,
		Stops:            make([]dto.StopETA, 0, len(progress.Stops)),
	}
	if trip.HasFix() {
		res.LiveLocation = &dto.LiveLocation{
			Lat:        trip.LastFix.Lat,
			Lng:        trip.LastFix.Lng,
			ObservedAt: trip.LastFix.ObservedAt,
		}
	}
	for _, sp := range progress.Stops {
		res.Stops = append(res.Stops, dto.StopETA{
			Name:             sp.Stop.Name,
			Lat:              sp.Stop.Lat,
			Lng:              sp.Stop.Lng,
			ProjectedArrival: sp.ProjectedArrival,
			Status:           string(sp.Status),
		})
	}

	return res, nil
}

func validateCreateRequest(req dto.CreateTripRequest) (model.TripKind, error) {
	if req.VehicleID == nil || *req.VehicleID == "" {
		return "", fmt.Errorf("%w: vehicleId is required", myerrors.ErrInvalidRequest)
	}
	if req.TripKind == nil || *req.TripKind == "" {
		return "", fmt.Errorf("%w: tripKind is required", myerrors.ErrInvalidRequest)
	}

	switch model.TripKind(strings.ToUpper(*req.TripKind)) {
	case model.KindRoutine:
		return model.KindRoutine, nil
	case model.KindEvent:
		if req.Destination == nil || *req.Destination == "" {
			return "", fmt.Errorf("%w: event trip needs a destination", myerrors.ErrInvalidRequest)
		}
		if req.TotalMinutes == nil || *req.TotalMinutes < 0 {
			return "", fmt.Errorf("%w: event trip needs a scheduled duration", myerrors.ErrInvalidRequest)
		}
		return model.KindEvent, nil
	default:
		return "", fmt.Errorf("%w: unknown trip kind %q", myerrors.ErrInvalidRequest, *req.TripKind)
	}
}

func toTripResponse(t model.Trip) dto.TripResponse {
	res := dto.TripResponse{
		TripID:         t.ID,
		VehicleID:      t.VehicleID,
		DriverID:       t.DriverID,
		TripKind:       string(t.Kind),
		LifecycleState: string(t.State),
		Destination:    t.Destination,
		Reason:         t.Reason,
		PausedMinutes:  t.PausedDuration.Minutes(),
		SegmentMinutes: t.SegmentMinutes,
		TotalMinutes:   t.TotalMinutes,
		CreatedAt:      t.CreatedAt,
	}
	if !t.StartedAt.IsZero() {
		startedAt := t.StartedAt
		res.StartedAt = &startedAt
	}
	if !t.EndedAt.IsZero() {
		endedAt := t.EndedAt
		res.EndedAt = &endedAt
	}
	return res
}

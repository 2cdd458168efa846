package handle

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bus-tracking/internal/metrics"
	"bus-tracking/internal/mylogger"
	"bus-tracking/internal/trip-service/core/domain/dto"
	"bus-tracking/internal/trip-service/core/domain/model"
	"bus-tracking/internal/trip-service/core/myerrors"

	websocketdto "bus-tracking/internal/trip-service/core/domain/websocket_dto"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTripsService struct {
	createRes     dto.TripResponse
	created       bool
	createErr     error
	transitionRes dto.TripResponse
	transitionErr error
	reportTrip    model.Trip
	reportErr     error
	trackingRes   dto.TrackingResponse
	trackingOK    bool
	trackingErr   error
	activeRes     dto.TripResponse
	activeFound   bool

	lastTripID string
}

func (f *fakeTripsService) CreateTrip(req dto.CreateTripRequest) (dto.TripResponse, bool, error) {
	return f.createRes, f.created, f.createErr
}

func (f *fakeTripsService) StartTrip(tripID string) (dto.TripResponse, error) {
	f.lastTripID = tripID
	return f.transitionRes, f.transitionErr
}

func (f *fakeTripsService) PauseTrip(tripID string) (dto.TripResponse, error) {
	f.lastTripID = tripID
	return f.transitionRes, f.transitionErr
}

func (f *fakeTripsService) ResumeTrip(tripID string) (dto.TripResponse, error) {
	f.lastTripID = tripID
	return f.transitionRes, f.transitionErr
}

func (f *fakeTripsService) EndTrip(tripID string) (dto.TripResponse, error) {
	f.lastTripID = tripID
	return f.transitionRes, f.transitionErr
}

func (f *fakeTripsService) ReportLocation(tripID string, report dto.LocationReport, observedAt time.Time) (model.Trip, error) {
	f.lastTripID = tripID
	return f.reportTrip, f.reportErr
}

func (f *fakeTripsService) Tracking(tripID string, now time.Time) (dto.TrackingResponse, bool, error) {
	f.lastTripID = tripID
	return f.trackingRes, f.trackingOK, f.trackingErr
}

func (f *fakeTripsService) ActiveTrip(vehicleID string) (dto.TripResponse, bool, error) {
	return f.activeRes, f.activeFound, nil
}

func (f *fakeTripsService) VehicleTracking(vehicleID string, now time.Time) (dto.TrackingResponse, bool, error) {
	return f.trackingRes, f.trackingOK, f.trackingErr
}

type fakeDispatcher struct {
	events []websocketdto.Event
}

func (f *fakeDispatcher) Broadcast(tripID string, event websocketdto.Event) {
	f.events = append(f.events, event)
}

func newTestHandler(t *testing.T, svc *fakeTripsService) (*TripsHandler, *fakeDispatcher) {
	t.Helper()

	log, err := mylogger.New("trip-handler-test", mylogger.LevelError)
	require.NoError(t, err)

	dispatcher := &fakeDispatcher{}
	return NewTripsHandler(svc, dispatcher, metrics.NewCollector(), log), dispatcher
}

func serve(handler http.HandlerFunc, method, pattern, target string, body []byte) *httptest.ResponseRecorder {
	mux := http.NewServeMux()
	mux.Handle(method+" "+pattern, handler)

	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestCreateTripCreated(t *testing.T) {
	svc := &fakeTripsService{
		createRes: dto.TripResponse{TripID: "t-1", VehicleID: "KA-01", LifecycleState: "IDLE"},
		created:   true,
	}
	handler, _ := newTestHandler(t, svc)

	body := []byte(`{"vehicleId":"KA-01","tripKind":"ROUTINE"}`)
	rec := serve(handler.CreateTrip(), "POST", "/trips", "/trips", body)

	require.Equal(t, http.StatusCreated, rec.Code)

	var res dto.TripResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "t-1", res.TripID)
}

func TestCreateTripConflictReturnsExisting(t *testing.T) {
	svc := &fakeTripsService{
		createRes: dto.TripResponse{TripID: "t-open", VehicleID: "KA-01", LifecycleState: "RUNNING"},
		created:   false,
	}
	handler, _ := newTestHandler(t, svc)

	body := []byte(`{"vehicleId":"KA-01","tripKind":"ROUTINE"}`)
	rec := serve(handler.CreateTrip(), "POST", "/trips", "/trips", body)

	require.Equal(t, http.StatusConflict, rec.Code)

	var res dto.TripResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "t-open", res.TripID)
}

func TestCreateTripBadBody(t *testing.T) {
	handler, _ := newTestHandler(t, &fakeTripsService{})

	rec := serve(handler.CreateTrip(), "POST", "/trips", "/trips", []byte(`{not json`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStartTripBroadcastsStatus(t *testing.T) {
	svc := &fakeTripsService{
		transitionRes: dto.TripResponse{TripID: "t-1", VehicleID: "KA-01", LifecycleState: "RUNNING"},
	}
	handler, dispatcher := newTestHandler(t, svc)

	rec := serve(handler.StartTrip(), "POST", "/trips/{trip_id}/start", "/trips/t-1/start", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "t-1", svc.lastTripID)

	require.Len(t, dispatcher.events, 1)
	assert.Equal(t, websocketdto.TripStatusUpdate, dispatcher.events[0].Type)
}

func TestTransitionErrorStatusCodes(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", myerrors.ErrTripNotFound, http.StatusNotFound},
		{"illegal transition", myerrors.ErrInvalidTransition, http.StatusBadRequest},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			handler, dispatcher := newTestHandler(t, &fakeTripsService{transitionErr: tc.err})

			rec := serve(handler.PauseTrip(), "POST", "/trips/{trip_id}/pause", "/trips/t-1/pause", nil)

			assert.Equal(t, tc.want, rec.Code)
			assert.Empty(t, dispatcher.events)
		})
	}
}

func TestRejectionMetricDistinguishesNotFound(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantReason string
	}{
		{"missing trip", myerrors.ErrTripNotFound, "not_found"},
		{"illegal transition", myerrors.ErrInvalidTransition, "invalid_transition"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			log, err := mylogger.New("trip-handler-test", mylogger.LevelError)
			require.NoError(t, err)

			collector := metrics.NewCollector()
			handler := NewTripsHandler(&fakeTripsService{transitionErr: tc.err}, &fakeDispatcher{}, collector, log)

			serve(handler.StartTrip(), "POST", "/trips/{trip_id}/start", "/trips/t-1/start", nil)

			got := testutil.ToFloat64(collector.RejectedOps.WithLabelValues(tc.wantReason))
			assert.Equal(t, 1.0, got)
		})
	}
}

func TestReportLocationBroadcastsFix(t *testing.T) {
	svc := &fakeTripsService{
		reportTrip: model.Trip{
			ID:        "t-1",
			VehicleID: "KA-01",
			State:     model.StateRunning,
			LastFix:   &model.Fix{Lat: 12.97, Lng: 77.59, ObservedAt: time.Now()},
		},
	}
	handler, dispatcher := newTestHandler(t, svc)

	body := []byte(`{"lat":12.97,"lng":77.59}`)
	rec := serve(handler.ReportLocation(), "POST", "/trips/{trip_id}/location", "/trips/t-1/location", body)

	require.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, dispatcher.events, 1)
	assert.Equal(t, websocketdto.VehicleLocationUpdate, dispatcher.events[0].Type)

	var update websocketdto.VehicleLocationUpdateDto
	require.NoError(t, json.Unmarshal(dispatcher.events[0].Data, &update))
	assert.Equal(t, "KA-01", update.VehicleID)
	assert.InDelta(t, 12.97, update.Lat, 1e-9)
}

func TestReportLocationRejected(t *testing.T) {
	handler, dispatcher := newTestHandler(t, &fakeTripsService{reportErr: myerrors.ErrInvalidLocation})

	body := []byte(`{"lat":95.0,"lng":77.59}`)
	rec := serve(handler.ReportLocation(), "POST", "/trips/{trip_id}/location", "/trips/t-1/location", body)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, dispatcher.events)
}

func TestTrackingActive(t *testing.T) {
	svc := &fakeTripsService{
		trackingRes: dto.TrackingResponse{TripID: "t-1", TrackingMode: "time", ProgressPercent: 50},
		trackingOK:  true,
	}
	handler, _ := newTestHandler(t, svc)

	rec := serve(handler.Tracking(), "GET", "/trips/{trip_id}/tracking", "/trips/t-1/tracking", nil)

	require.Equal(t, http.StatusOK, rec.Code)

	var res dto.TrackingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.InDelta(t, 50, res.ProgressPercent, 1e-9)
}

func TestTrackingNotStartedYet(t *testing.T) {
	handler, _ := newTestHandler(t, &fakeTripsService{trackingOK: false})

	rec := serve(handler.Tracking(), "GET", "/trips/{trip_id}/tracking", "/trips/t-1/tracking", nil)

	require.Equal(t, http.StatusOK, rec.Code)

	var res dto.NoActiveTrip
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "No active trip", res.Message)
}

func TestTrackingDegenerateRoute(t *testing.T) {
	handler, _ := newTestHandler(t, &fakeTripsService{trackingErr: myerrors.ErrDegenerateRoute})

	rec := serve(handler.Tracking(), "GET", "/trips/{trip_id}/tracking", "/trips/t-1/tracking", nil)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestActiveTripIdleVehicle(t *testing.T) {
	handler, _ := newTestHandler(t, &fakeTripsService{activeFound: false})

	rec := serve(handler.ActiveTrip(), "GET", "/vehicles/{vehicle_id}/trip", "/vehicles/KA-01/trip", nil)

	require.Equal(t, http.StatusOK, rec.Code)

	var res dto.NoActiveTrip
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "KA-01", res.VehicleID)
}

package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"bus-tracking/internal/metrics"
	"bus-tracking/internal/mylogger"

	websocketdto "bus-tracking/internal/trip-service/core/domain/websocket_dto"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDispatcher(t *testing.T) *Dispatcher {
	t.Helper()

	log, err := mylogger.New("ws-test", mylogger.LevelError)
	require.NoError(t, err)

	return NewDispatcher(log, metrics.NewCollector())
}

func dialTracking(t *testing.T, d *Dispatcher, tripID string) *websocket.Conn {
	t.Helper()

	mux := http.NewServeMux()
	mux.Handle("/ws/trips/{trip_id}", d.TrackingHandler())

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/trips/" + tripID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return conn
}

func TestBroadcastReachesClientAfterHandlerReturns(t *testing.T) {
	d := newTestDispatcher(t)
	conn := dialTracking(t, d, "t-1")

	// The upgrade handler has long since returned by the time this
	// broadcast fires; the subscription must survive that.
	time.Sleep(300 * time.Millisecond)

	payload, err := json.Marshal(websocketdto.TripStatusUpdateDto{
		TripID:         "t-1",
		VehicleID:      "KA-01",
		LifecycleState: "RUNNING",
	})
	require.NoError(t, err)

	d.Broadcast("t-1", websocketdto.Event{
		Type: websocketdto.TripStatusUpdate,
		Data: payload,
	})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	var event websocketdto.Event
	require.NoError(t, json.Unmarshal(raw, &event))
	assert.Equal(t, websocketdto.TripStatusUpdate, event.Type)

	var update websocketdto.TripStatusUpdateDto
	require.NoError(t, json.Unmarshal(event.Data, &update))
	assert.Equal(t, "t-1", update.TripID)
	assert.Equal(t, "RUNNING", update.LifecycleState)
}

func TestBroadcastScopedToTrip(t *testing.T) {
	d := newTestDispatcher(t)
	conn := dialTracking(t, d, "t-1")

	time.Sleep(100 * time.Millisecond)

	d.Broadcast("t-other", websocketdto.Event{Type: websocketdto.TripStatusUpdate})
	d.Broadcast("t-1", websocketdto.Event{Type: websocketdto.VehicleLocationUpdate})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	var event websocketdto.Event
	require.NoError(t, json.Unmarshal(raw, &event))
	assert.Equal(t, websocketdto.VehicleLocationUpdate, event.Type)
}

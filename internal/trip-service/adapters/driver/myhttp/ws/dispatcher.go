package ws

import (
	"context"
	"net/http"
	"sync"

	"bus-tracking/internal/metrics"
	"bus-tracking/internal/mylogger"

	websocketdto "bus-tracking/internal/trip-service/core/domain/websocket_dto"

	"github.com/gorilla/websocket"
)

// websocketUpgrader upgrades incoming HTTP requests into persistent
// websocket connections.
var websocketUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

type ClientList map[*Client]bool

// Dispatcher tracks which clients watch which trip and fans tracking events
// out to them.
type Dispatcher struct {
	clients ClientList
	sync.RWMutex
	log       mylogger.Logger
	collector *metrics.Collector
}

func NewDispatcher(log mylogger.Logger, collector *metrics.Collector) *Dispatcher {
	return &Dispatcher{
		clients:   make(ClientList),
		log:       log,
		collector: collector,
	}
}

// TrackingHandler upgrades GET /ws/trips/{trip_id} and registers the client
// as a watcher of that trip.
func (d *Dispatcher) TrackingHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := d.log.Action("wsTrackingHandler")

		tripID := r.PathValue("trip_id")
		if tripID == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		conn, err := websocketUpgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Error("cannot upgrade connection", err)
			return
		}

		// The request context dies when this handler returns; the client
		// has to outlive it for as long as the connection is open.
		client := NewClient(context.Background(), conn, d, tripID)
		d.addClient(client)

		go client.ReadMessages()
		go client.WriteMessages()
	}
}

// Broadcast delivers the event to every client watching the trip. Slow
// clients are skipped rather than blocking the fan-out.
func (d *Dispatcher) Broadcast(tripID string, event websocketdto.Event) {
	d.RLock()
	defer d.RUnlock()

	for client := range d.clients {
		if client.tripID != tripID {
			continue
		}
		select {
		case client.egress <- event:
		default:
		}
	}
}

func (d *Dispatcher) addClient(client *Client) {
	d.Lock()
	defer d.Unlock()

	d.clients[client] = true
	d.collector.WebsocketClients.Inc()
}

func (d *Dispatcher) removeClient(client *Client) {
	d.Lock()
	defer d.Unlock()

	if _, ok := d.clients[client]; ok {
		client.conn.Close()
		delete(d.clients, client)
		d.collector.WebsocketClients.Dec()
	}
}

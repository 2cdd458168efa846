package ports

import websocketdto "bus-tracking/internal/trip-service/core/domain/websocket_dto"

type INotifyWebsocket interface {
	// Broadcast delivers the event to every client watching the trip.
	Broadcast(tripID string, event websocketdto.Event)
}

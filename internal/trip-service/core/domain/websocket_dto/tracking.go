package websocketdto

import "encoding/json"

const (
	TripStatusUpdate      = "trip_status_update"
	VehicleLocationUpdate = "vehicle_location_update"
)

// Event is the envelope pushed to tracking websocket clients.
type Event struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type TripStatusUpdateDto struct {
	TripID         string `json:"tripId"`
	VehicleID      string `json:"vehicleId"`
	LifecycleState string `json:"lifecycleState"`
	Timestamp      string `json:"timestamp"`
}

type VehicleLocationUpdateDto struct {
	TripID    string  `json:"tripId"`
	VehicleID string  `json:"vehicleId"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
}

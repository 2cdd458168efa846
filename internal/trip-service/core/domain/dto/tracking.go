package dto

import "time"

type LiveLocation struct {
	Lat        float64   `json:"lat"`
	Lng        float64   `json:"lng"`
	ObservedAt time.Time `json:"observedAt"`
}

type StopETA struct {
	Name             string    `json:"name"`
	Lat              float64   `json:"lat"`
	Lng              float64   `json:"lng"`
	ProjectedArrival time.Time `json:"projectedArrival"`
	Status           string    `json:"status"` // completed | current | upcoming
}

// TrackingResponse is the GET tracking payload. The schedule-based ETA list
// is always present, even when trackingMode is "gps", so clients can render
// a timeline fallback.
type TrackingResponse struct {
	TripID           string        `json:"tripId"`
	VehicleID        string        `json:"vehicleId"`
	LifecycleState   string        `json:"lifecycleState"`
	TrackingMode     string        `json:"trackingMode"` // gps | time
	LiveLocation     *LiveLocation `json:"liveLocation"`
	ProgressPercent  float64       `json:"progressPercent"`
	CurrentStopIndex int           `json:"currentStopIndex"`
	Stops            []StopETA     `json:"stops"`
}

// NoActiveTrip is the graceful read response when a vehicle has no running
// or paused trip. Not an error: dashboards render an idle state from it.
type NoActiveTrip struct {
	VehicleID string `json:"vehicleId,omitempty"`
	Message   string `json:"message"`
}

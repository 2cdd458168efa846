package messagebrokerdto

// TripStatus is published to the bus_topic exchange on every successful
// lifecycle transition, routing key trip.status.<STATE>.
type TripStatus struct {
	TripID    string `json:"trip_id"`
	VehicleID string `json:"vehicle_id"`
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"` // RFC3339
}

// LocationUpdate is consumed from trip.location.* - GPS units may report
// through the broker instead of the HTTP endpoint.
type LocationUpdate struct {
	TripID     string   `json:"trip_id"`
	VehicleID  string   `json:"vehicle_id"`
	Lat        *float64 `json:"lat"`
	Lng        *float64 `json:"lng"`
	ObservedAt string   `json:"observed_at,omitempty"` // RFC3339, defaults to receive time
}

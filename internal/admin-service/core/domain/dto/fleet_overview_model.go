package dto

// StateCounts buckets the fleet's trips by lifecycle state.
type StateCounts struct {
	Idle      int `json:"idle"`
	Planned   int `json:"planned"`
	Running   int `json:"running"`
	Paused    int `json:"paused"`
	Completed int `json:"completed"`
}

type FleetOverview struct {
	Timestamp           string      `json:"timestamp"`
	Counts              StateCounts `json:"counts"`
	OpenTrips           int         `json:"openTrips"`
	CompletedToday      int         `json:"completedTripsToday"`
	VehiclesWithLiveFix int         `json:"vehiclesWithLiveFix"`
	AveragePausedMin    float64     `json:"averagePausedMinutes"`
}

// TripRecord is one row of the trip history listing.
type TripRecord struct {
	TripID        string  `json:"tripId"`
	VehicleID     string  `json:"vehicleId"`
	DriverID      string  `json:"driverId,omitempty"`
	TripKind      string  `json:"tripKind"`
	State         string  `json:"state"`
	Destination   string  `json:"destination,omitempty"`
	StartedAt     *string `json:"startedAt,omitempty"`
	EndedAt       *string `json:"endedAt,omitempty"`
	PausedMinutes float64 `json:"pausedMinutes"`
	TotalMinutes  int     `json:"totalMinutes"`
	CreatedAt     string  `json:"createdAt"`
}

type TripHistory struct {
	Total    int          `json:"total"`
	Page     int          `json:"page"`
	PageSize int          `json:"pageSize"`
	Trips    []TripRecord `json:"trips"`
}

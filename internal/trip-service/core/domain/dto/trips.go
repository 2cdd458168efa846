package dto

import "time"

// CreateTripRequest is the POST /trips payload. Routine trips only need the
// vehicle id; event trips carry the destination block.
type CreateTripRequest struct {
	VehicleID *string `json:"vehicleId"`
	TripKind  *string `json:"tripKind"`
	DriverID  *string `json:"driverId,omitempty"`

	// Event trip fields.
	Destination  *string `json:"destination,omitempty"`
	Reason       *string `json:"reason,omitempty"`
	TotalMinutes *int    `json:"totalMinutes,omitempty"`
}

type TripResponse struct {
	TripID         string     `json:"tripId"`
	VehicleID      string     `json:"vehicleId"`
	DriverID       string     `json:"driverId,omitempty"`
	TripKind       string     `json:"tripKind"`
	LifecycleState string     `json:"lifecycleState"`
	Destination    string     `json:"destination,omitempty"`
	Reason         string     `json:"reason,omitempty"`
	StartedAt      *time.Time `json:"startedAt,omitempty"`
	EndedAt        *time.Time `json:"endedAt,omitempty"`
	PausedMinutes  float64    `json:"pausedMinutes"`
	SegmentMinutes []int      `json:"segmentMinutes"`
	TotalMinutes   int        `json:"totalMinutes"`
	CreatedAt      time.Time  `json:"createdAt"`
}

// LocationReport is the POST /trips/{trip_id}/location payload. Pointers so
// that absent coordinates are distinguishable from zero.
type LocationReport struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

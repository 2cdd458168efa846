package model

// Stop is one timetable entry of a vehicle's route. Ordering is significant
// and fixed for a given route.
type Stop struct {
	Name         string
	Lat          float64
	Lng          float64
	OutboundTime string // clock-of-day, "HH:mm"
	ReturnTime   string // clock-of-day, "HH:mm"
}

// Route is the immutable-per-request view of a vehicle's ordered stops,
// owned by the external roster collaborator.
type Route struct {
	VehicleID string
	RouteName string
	Stops     []Stop

	// SegmentMinutes has one entry per leg between consecutive stops,
	// so len(SegmentMinutes) == len(Stops)-1.
	SegmentMinutes []int
}

// TotalMinutes is the scheduled end-to-end travel time of the route.
func (r *Route) TotalMinutes() int {
	total := 0
	for _, m := range r.SegmentMinutes {
		total += m
	}
	return total
}

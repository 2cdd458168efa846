package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	reg *prometheus.Registry

	TripsCreated    prometheus.Counter
	TripTransitions *prometheus.CounterVec // transition label: start|pause|resume|end
	LocationReports *prometheus.CounterVec // source label: http|broker
	TrackingReads   *prometheus.CounterVec // mode label: gps|time
	RejectedOps     *prometheus.CounterVec // reason label: invalid_transition|invalid_location|not_found|conflict

	WebsocketClients prometheus.Gauge
	OpenTrips        prometheus.Gauge
}

func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		TripsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bustrack_trips_created_total",
			Help: "Total trip records created.",
		}),
		TripTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bustrack_trip_transitions_total",
			Help: "Total successful lifecycle transitions.",
		}, []string{"transition"}),
		LocationReports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bustrack_location_reports_total",
			Help: "Total accepted location reports.",
		}, []string{"source"}),
		TrackingReads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bustrack_tracking_reads_total",
			Help: "Total tracking reads by presentation mode.",
		}, []string{"mode"}),
		RejectedOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bustrack_rejected_operations_total",
			Help: "Total operations rejected by validation or lifecycle rules.",
		}, []string{"reason"}),
		WebsocketClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "bustrack_websocket_clients",
			Help: "Number of connected tracking websocket clients.",
		}),
		OpenTrips: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "bustrack_open_trips",
			Help: "Number of non-completed trips at last count.",
		}),
	}

	reg.MustRegister(
		c.TripsCreated, c.TripTransitions,
		c.LocationReports, c.TrackingReads, c.RejectedOps,
		c.WebsocketClients, c.OpenTrips,
	)

	return c
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{})
}

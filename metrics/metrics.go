// Package metrics holds the prometheus collectors shared by every component.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	EventsRecorded = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "missioncontrol_events_recorded_total",
		Help: "Analytics events written to the record, by kind.",
	}, []string{"kind"})
	EventsDropped = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "missioncontrol_events_dropped_total",
		Help: "Analytics events rejected before reaching the record, by reason.",
	}, []string{"reason"})
	CacheHit = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "missioncontrol_space_cache_hit_total",
		Help: "Space data cache hits.",
	}, []string{"widget"})
	CacheMiss = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "missioncontrol_space_cache_miss_total",
		Help: "Space data cache misses.",
	}, []string{"widget"})
	UpstreamFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "missioncontrol_upstream_failures_total",
		Help: "Failed calls to third-party space APIs.",
	}, []string{"widget"})
	DashboardStreams = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "missioncontrol_dashboard_streams",
		Help: "Open dashboard panels with a live refresh stream.",
	})
)

func init() {
	prometheus.MustRegister(EventsRecorded, EventsDropped, CacheHit, CacheMiss, UpstreamFailures, DashboardStreams)
}

// Handler serves the default registry in the prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}

package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search and geodistance Prometheus metrics.
var (
	SearchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "talentdex",
			Name:      "search_duration_seconds",
			Help:      "Search request duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"mode"},
	)

	GeoCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "talentdex",
			Name:      "geo_cache_total",
			Help:      "Geodistance cache lookups",
		},
		[]string{"cache", "result"}, // coordinates|distance, hit|miss|error
	)

	GeocodeRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "talentdex",
			Name:      "geocode_requests_total",
			Help:      "Total number of geocoding requests",
		},
		[]string{"status"}, // ok|not_found|error
	)

	RosterRecords = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "talentdex",
			Name:      "roster_records",
			Help:      "Number of records in the last indexed roster snapshot",
		},
	)
)

var engineMetricsRegistered bool

// RegisterEngineMetrics registers search and geodistance metrics. Must be called once from main.
func RegisterEngineMetrics() {
	if engineMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchDuration)
	prometheus.MustRegister(GeoCacheTotal)
	prometheus.MustRegister(GeocodeRequestsTotal)
	prometheus.MustRegister(RosterRecords)
	engineMetricsRegistered = true
}

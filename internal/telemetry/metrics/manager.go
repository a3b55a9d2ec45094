package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Manager struct {
	// counters
	CounterRequests         *prometheus.CounterVec
	CounterTransportErrors  *prometheus.CounterVec
	CounterTolerated        *prometheus.CounterVec
	CounterStaleFetchDrops  prometheus.Counter
	CounterStorePublishDrop prometheus.Counter

	// gauges
	GaugeInFlightRequests prometheus.Gauge
	GaugeStoreWorkouts    prometheus.Gauge

	// histograms
	HistogramRequestDuration *prometheus.HistogramVec
}

func NewTestManager() *Manager {
	return NewManager("fittracker", "test_client", prometheus.NewRegistry())
}

func NewTestManagerAndRegistry() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager("fittracker", "test_client", reg), reg
}

func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	counterRequests := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "api_request",
		Help:      "The total number of requests sent to the fitness API",
	}, []string{"operation", "status"})
	counterTransportErrors := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "api_transport_errors",
		Help:      "The total number of requests that never got a response",
	}, []string{"operation"})
	counterTolerated := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "api_tolerated_responses",
		Help:      "Query responses downgraded to an empty result (404, empty or undecodable body)",
	}, []string{"operation", "reason"})
	counterStaleFetchDrops := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "store_stale_fetch_drops",
		Help:      "The total number of fetch results dropped because a newer fetch was issued",
	})
	counterStorePublishDrop := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "store_publish_replaced",
		Help:      "Snapshots replaced in a subscriber buffer before being read",
	})

	gaugeInFlightRequests := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "api_in_flight_requests",
		Help:      "Current number of requests waiting for the fitness API",
	})
	gaugeStoreWorkouts := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "store_workouts",
		Help:      "Number of workouts currently held by the store",
	})

	histogramRequestDuration := factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "api_request_duration_seconds",
		Help:      "Histogram of fitness API response time in seconds",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
	}, []string{"operation"})

	return &Manager{
		CounterRequests:          counterRequests,
		CounterTransportErrors:   counterTransportErrors,
		CounterTolerated:         counterTolerated,
		CounterStaleFetchDrops:   counterStaleFetchDrops,
		CounterStorePublishDrop:  counterStorePublishDrop,
		GaugeInFlightRequests:    gaugeInFlightRequests,
		GaugeStoreWorkouts:       gaugeStoreWorkouts,
		HistogramRequestDuration: histogramRequestDuration,
	}
}

package window

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Admission metrics
	measurementsAccepted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hyper_window_measurements_accepted_total",
			Help: "Measurements accepted into an estimation window",
		},
		[]string{"type"}, // ABSOLUTE_MEASUREMENT, RELATIVE_MEASUREMENT
	)
	measurementsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hyper_window_measurements_rejected_total",
			Help: "Measurements rejected by an estimation window",
		},
		[]string{"reason"}, // nil, ordering, invalid
	)

	// Removal metrics
	measurementsRetired = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hyper_window_measurements_retired_total",
			Help: "Measurements retired because they fell behind the window span",
		},
	)
	measurementsEvicted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hyper_window_measurements_evicted_total",
			Help: "Measurements evicted to stay within max_window_measurements",
		},
	)
)

package harness

import "github.com/prometheus/client_golang/prometheus"

var (
	initTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "harness_plugin_init_total",
			Help: "Count of plugin init() calls by plugin and outcome.",
		},
		[]string{"plugin", "outcome"},
	)
	deinitTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "harness_plugin_deinit_total",
			Help: "Count of plugin deinit() calls by plugin and outcome.",
		},
		[]string{"plugin", "outcome"},
	)
	workerPanicTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "harness_worker_panic_total",
			Help: "Count of plugin worker goroutines that panicked.",
		},
		[]string{"plugin"},
	)
)

func init() {
	prometheus.MustRegister(initTotal, deinitTotal, workerPanicTotal)
}

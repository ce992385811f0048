package supervisor

import "github.com/prometheus/client_golang/prometheus"

var (
	workersRegistered = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "fleetd",
			Subsystem: "supervisor",
			Name:      "workers_registered",
			Help:      "Workers currently registered",
		},
	)

	replicaBindings = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "fleetd",
			Subsystem: "supervisor",
			Name:      "replica_bindings",
			Help:      "Replica-to-worker bindings currently recorded",
		},
	)

	launchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fleetd",
			Subsystem: "supervisor",
			Name:      "launches_total",
			Help:      "Model launches by outcome",
		},
		[]string{"outcome"},
	)

	terminationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fleetd",
			Subsystem: "supervisor",
			Name:      "terminations_total",
			Help:      "Model terminations by outcome",
		},
		[]string{"outcome"},
	)

	workersEvictedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "fleetd",
			Subsystem: "supervisor",
			Name:      "workers_evicted_total",
			Help:      "Workers evicted by the dead-node sweep",
		},
	)
)

func init() {
	prometheus.MustRegister(workersRegistered, replicaBindings, launchesTotal, terminationsTotal, workersEvictedTotal)
}

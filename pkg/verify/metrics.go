package verify

import "github.com/prometheus/client_golang/prometheus"

// Metrics are the Verifier's prometheus instruments. Callers own the
// registry (no package-level DefaultRegisterer dependency), matching the
// injectable-registry style used across this module.
type Metrics struct {
	PreCheckFailures *prometheus.CounterVec
	SideEffects      *prometheus.CounterVec
	Recoveries       *prometheus.CounterVec
}

// NewMetrics registers the Verifier's instruments against reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		PreCheckFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "advplanner_precheck_failures_total",
			Help: "Critical pre-condition check failures, by check name.",
		}, []string{"check"}),
		SideEffects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "advplanner_side_effects_total",
			Help: "Detected post-action side effects, by kind.",
		}, []string{"kind"}),
		Recoveries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "advplanner_recoveries_total",
			Help: "Recovery strategies applied, by kind.",
		}, []string{"kind"}),
	}
	reg.MustRegister(m.PreCheckFailures, m.SideEffects, m.Recoveries)
	return m
}

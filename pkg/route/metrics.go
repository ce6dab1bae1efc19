package route

import "github.com/prometheus/client_golang/prometheus"

// Metrics are the Route Optimizer's prometheus instruments, grounded on
// 99souls/ariadne's client_golang usage (the corpus's only Prometheus
// example) and injected the same way pkg/verify.Metrics is: callers own
// the registry, never prometheus.DefaultRegisterer.
type Metrics struct {
	TSPIterations prometheus.Counter
	TourCost      prometheus.Gauge
}

// NewMetrics registers the Optimizer's instruments against reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		TSPIterations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "advplanner_route_tsp_iterations_total",
			Help: "2-opt local search iterations performed across all Plan calls.",
		}),
		TourCost: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "advplanner_route_tour_cost",
			Help: "Summed pairwise distance of the most recently planned tour.",
		}),
	}
	reg.MustRegister(m.TSPIterations, m.TourCost)
	return m
}

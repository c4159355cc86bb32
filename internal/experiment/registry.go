package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/verletsim/internal/metrics"
	"github.com/san-kum/verletsim/internal/sim"
	"github.com/san-kum/verletsim/internal/solver"
)

// MetricFactory builds a metric sized for a solver configuration.
type MetricFactory func(cfg solver.Config) (sim.Metric, error)

type Registry struct {
	metrics map[string]MetricFactory
}

func NewRegistry() *Registry {
	r := &Registry{
		metrics: make(map[string]MetricFactory),
	}

	r.metrics["kinetic_energy"] = func(solver.Config) (sim.Metric, error) {
		return metrics.NewKineticEnergy(), nil
	}
	r.metrics["peak_speed"] = func(solver.Config) (sim.Metric, error) {
		return metrics.NewPeakSpeed(), nil
	}
	r.metrics["overlap"] = func(cfg solver.Config) (sim.Metric, error) {
		return metrics.NewOverlap(cfg.Radius)
	}
	r.metrics["containment"] = func(cfg solver.Config) (sim.Metric, error) {
		return metrics.NewContainment(cfg.Width, cfg.Height, cfg.Radius), nil
	}

	return r
}

func (r *Registry) GetMetric(name string, cfg solver.Config) (sim.Metric, error) {
	fn, ok := r.metrics[name]
	if !ok {
		return nil, fmt.Errorf("unknown metric: %s", name)
	}
	return fn(cfg)
}

func (r *Registry) ListMetrics() []string {
	names := make([]string, 0, len(r.metrics))
	for name := range r.metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Metrics builds the named metrics, or every registered metric when names
// is empty.
func (r *Registry) Metrics(names []string, cfg solver.Config) ([]sim.Metric, error) {
	if len(names) == 0 {
		names = r.ListMetrics()
	}
	out := make([]sim.Metric, 0, len(names))
	for _, name := range names {
		m, err := r.GetMetric(name, cfg)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

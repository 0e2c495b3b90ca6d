package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/daisyworld/internal/metrics"
)

type Registry struct {
	metrics map[string]func() metrics.Metric
}

func NewRegistry() *Registry {
	r := &Registry{
		metrics: make(map[string]func() metrics.Metric),
	}

	r.metrics["peak_white"] = func() metrics.Metric { return metrics.NewPeakWhite() }
	r.metrics["peak_black"] = func() metrics.Metric { return metrics.NewPeakBlack() }
	r.metrics["peak_temperature"] = func() metrics.Metric { return metrics.NewPeakTemperature() }
	r.metrics["mean_temperature"] = func() metrics.Metric { return metrics.NewTemperatureMean() }
	r.metrics["temperature_stddev"] = func() metrics.Metric { return metrics.NewTemperatureSpread() }
	r.metrics["homeostasis"] = func() metrics.Metric { return metrics.NewHomeostasis() }

	return r
}

func (r *Registry) GetMetric(name string) (metrics.Metric, error) {
	fn, ok := r.metrics[name]
	if !ok {
		return nil, fmt.Errorf("unknown metric: %s", name)
	}
	return fn(), nil
}

func (r *Registry) ListMetrics() []string {
	names := make([]string, 0, len(r.metrics))
	for name := range r.metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultMetrics returns a fresh instance of every registered metric.
func (r *Registry) DefaultMetrics() []metrics.Metric {
	out := make([]metrics.Metric, 0, len(r.metrics))
	for _, name := range r.ListMetrics() {
		out = append(out, r.metrics[name]())
	}
	return out
}

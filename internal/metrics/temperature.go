package metrics

import (
	"github.com/san-kum/daisyworld/internal/dynamo"
	"gonum.org/v1/gonum/stat"
)

// TemperatureMean is the mean planetary temperature over the run.
type TemperatureMean struct {
	samples []float64
}

func NewTemperatureMean() *TemperatureMean { return &TemperatureMean{} }

func (m *TemperatureMean) Name() string { return "mean_temperature" }

func (m *TemperatureMean) Observe(s dynamo.Snapshot) {
	m.samples = append(m.samples, s.Temperature)
}

func (m *TemperatureMean) Value() float64 {
	if len(m.samples) == 0 {
		return 0
	}
	return stat.Mean(m.samples, nil)
}

func (m *TemperatureMean) Reset() { m.samples = m.samples[:0] }

// TemperatureSpread is the standard deviation of the planetary temperature
// over the run. Low values indicate regulation.
type TemperatureSpread struct {
	samples []float64
}

func NewTemperatureSpread() *TemperatureSpread { return &TemperatureSpread{} }

func (m *TemperatureSpread) Name() string { return "temperature_stddev" }

func (m *TemperatureSpread) Observe(s dynamo.Snapshot) {
	m.samples = append(m.samples, s.Temperature)
}

func (m *TemperatureSpread) Value() float64 {
	if len(m.samples) < 2 {
		return 0
	}
	return stat.StdDev(m.samples, nil)
}

func (m *TemperatureSpread) Reset() { m.samples = m.samples[:0] }

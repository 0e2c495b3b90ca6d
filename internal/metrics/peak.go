package metrics

import (
	"math"

	"github.com/san-kum/daisyworld/internal/dynamo"
)

// Peak tracks the maximum of one snapshot column.
type Peak struct {
	name    string
	field   func(dynamo.Snapshot) float64
	max     float64
	samples int
}

func NewPeakWhite() *Peak {
	return &Peak{name: "peak_white", field: func(s dynamo.Snapshot) float64 { return s.White }}
}

func NewPeakBlack() *Peak {
	return &Peak{name: "peak_black", field: func(s dynamo.Snapshot) float64 { return s.Black }}
}

func NewPeakTemperature() *Peak {
	return &Peak{name: "peak_temperature", field: func(s dynamo.Snapshot) float64 { return s.Temperature }}
}

func (p *Peak) Name() string { return p.name }

func (p *Peak) Observe(s dynamo.Snapshot) {
	v := p.field(s)
	if p.samples == 0 {
		p.max = v
	} else {
		p.max = math.Max(p.max, v)
	}
	p.samples++
}

func (p *Peak) Value() float64 {
	if p.samples == 0 {
		return 0
	}
	return p.max
}

func (p *Peak) Reset() {
	p.max = 0
	p.samples = 0
}

package metrics

import "github.com/san-kum/daisyworld/internal/dynamo"

// Homeostasis is the fraction of ticks where life held the planet inside the
// viable band: temperature strictly between MinTemp and MaxTemp with a
// combined population above the extinction threshold.
type Homeostasis struct {
	regulated int
	samples   int
}

func NewHomeostasis() *Homeostasis { return &Homeostasis{} }

func (h *Homeostasis) Name() string { return "homeostasis" }

func (h *Homeostasis) Observe(s dynamo.Snapshot) {
	h.samples++
	alive := (s.White+s.Black)/100 > dynamo.ExtinctionThreshold
	if alive && s.Temperature > dynamo.MinTemp && s.Temperature < dynamo.MaxTemp {
		h.regulated++
	}
}

func (h *Homeostasis) Value() float64 {
	if h.samples == 0 {
		return 0
	}
	return float64(h.regulated) / float64(h.samples)
}

func (h *Homeostasis) Reset() {
	h.regulated = 0
	h.samples = 0
}

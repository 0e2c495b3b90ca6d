package metrics

import "github.com/san-kum/daisyworld/internal/dynamo"

// Metric accumulates a scalar over the snapshots of one run.
type Metric interface {
	Name() string
	Observe(s dynamo.Snapshot)
	Value() float64
	Reset()
}

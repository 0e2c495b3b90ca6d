package optim

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/san-kum/daisyworld/internal/config"
	"github.com/san-kum/daisyworld/internal/dynamo"
	"github.com/san-kum/daisyworld/internal/experiment"
	"golang.org/x/sync/errgroup"
)

// Axis is one swept setting and the values it takes.
type Axis struct {
	Key    string
	Values []float64
}

// Point is the outcome of one grid cell.
type Point struct {
	Values  map[string]float64 `json:"values"`
	Params  dynamo.Params      `json:"params"`
	Outcome dynamo.EndReason   `json:"outcome"`
	Ticks   int                `json:"ticks"`
	Metrics map[string]float64 `json:"metrics"`
	Summary dynamo.Summary     `json:"summary"`
}

type GridSearch struct {
	axes     []Axis
	workers  int
	registry *experiment.Registry
	logger   *slog.Logger
}

func NewGridSearch(axes []Axis, workers int) (*GridSearch, error) {
	for _, a := range axes {
		if _, err := config.LookupField(a.Key); err != nil {
			return nil, err
		}
		if len(a.Values) == 0 {
			return nil, fmt.Errorf("axis %s has no values", a.Key)
		}
	}
	return &GridSearch{
		axes:     axes,
		workers:  workers,
		registry: experiment.NewRegistry(),
		logger:   slog.Default(),
	}, nil
}

// Size returns the number of grid cells.
func (g *GridSearch) Size() int {
	n := 1
	for _, a := range g.axes {
		n *= len(a.Values)
	}
	return n
}

// cell decodes a flat index into per-axis values, last axis fastest.
func (g *GridSearch) cell(idx int) map[string]float64 {
	values := make(map[string]float64, len(g.axes))
	for i := len(g.axes) - 1; i >= 0; i-- {
		a := g.axes[i]
		values[a.Key] = a.Values[idx%len(a.Values)]
		idx /= len(a.Values)
	}
	return values
}

// Run evaluates every cell starting from base and returns points in grid
// order. Setting values are clamped into their editor ranges.
func (g *GridSearch) Run(ctx context.Context, base dynamo.Params, maxTicks int) ([]Point, error) {
	n := g.Size()
	points := make([]Point, n)

	eg, ctx := errgroup.WithContext(ctx)
	if g.workers > 0 {
		eg.SetLimit(g.workers)
	}

	for i := 0; i < n; i++ {
		idx := i
		eg.Go(func() error {
			values := g.cell(idx)
			p := base
			for _, a := range g.axes {
				if err := config.Set(&p, a.Key, values[a.Key]); err != nil {
					return err
				}
			}
			// grid cells never need the full log
			p.HistoryLimit = 1

			exp := experiment.New(experiment.Config{Params: p, MaxTicks: maxTicks, StopOnEnd: true})
			if err := exp.Setup(g.registry.DefaultMetrics()); err != nil {
				return fmt.Errorf("cell %d: %w", idx, err)
			}
			result, err := exp.Run(ctx)
			if err != nil {
				return fmt.Errorf("cell %d: %w", idx, err)
			}

			points[idx] = Point{
				Values:  values,
				Params:  p,
				Outcome: result.Outcome(),
				Ticks:   result.Summary.Tick,
				Metrics: result.Metrics,
				Summary: result.Summary,
			}
			g.logger.Debug("sweep_cell", "index", idx, "values", values, "outcome", result.Outcome().String())
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return points, nil
}

// Best returns the point with the highest (or lowest) value of metric.
// The pseudo-metric "ticks" ranks by run length.
func Best(points []Point, metric string, maximize bool) (Point, bool) {
	best := math.Inf(1)
	if maximize {
		best = math.Inf(-1)
	}
	var out Point
	found := false
	for _, p := range points {
		v, ok := p.Metrics[metric]
		if metric == "ticks" {
			v, ok = float64(p.Ticks), true
		}
		if !ok {
			continue
		}
		if (maximize && v > best) || (!maximize && v < best) {
			best = v
			out = p
			found = true
		}
	}
	return out, found
}

// Range returns steps evenly spaced values from min to max inclusive.
func Range(min, max float64, steps int) []float64 {
	if steps <= 1 {
		return []float64{min}
	}
	out := make([]float64, steps)
	step := (max - min) / float64(steps-1)
	for i := range out {
		out[i] = min + float64(i)*step
	}
	out[steps-1] = max
	return out
}

// ParseAxis parses "key=min:max:steps" or "key=v1,v2,...".
func ParseAxis(spec string) (Axis, error) {
	key, raw, ok := strings.Cut(spec, "=")
	if !ok {
		return Axis{}, fmt.Errorf("axis %q: expected key=min:max:steps or key=v1,v2", spec)
	}
	key = strings.TrimSpace(key)

	if parts := strings.Split(raw, ":"); len(parts) == 3 {
		lo, err1 := strconv.ParseFloat(parts[0], 64)
		hi, err2 := strconv.ParseFloat(parts[1], 64)
		steps, err3 := strconv.Atoi(parts[2])
		if err1 != nil || err2 != nil || err3 != nil || steps < 1 {
			return Axis{}, fmt.Errorf("axis %q: bad range", spec)
		}
		return Axis{Key: key, Values: Range(lo, hi, steps)}, nil
	}

	var values []float64
	for _, s := range strings.Split(raw, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return Axis{}, fmt.Errorf("axis %q: %w", spec, err)
		}
		values = append(values, v)
	}
	return Axis{Key: key, Values: values}, nil
}

package experiment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/san-kum/daisyworld/internal/dynamo"
	"github.com/san-kum/daisyworld/internal/metrics"
)

// ctxCheckInterval is how many ticks run between cancellation checks.
const ctxCheckInterval = 256

var ErrNotSetup = errors.New("experiment not setup")

type Config struct {
	Params    dynamo.Params
	MaxTicks  int
	StopOnEnd bool
}

// Observer sees every snapshot as the run progresses.
type Observer interface {
	OnStep(s dynamo.Snapshot)
}

type Result struct {
	Params  dynamo.Params      `json:"params"`
	Summary dynamo.Summary     `json:"summary"`
	History []dynamo.Snapshot  `json:"-"`
	Metrics map[string]float64 `json:"metrics"`
	Elapsed time.Duration      `json:"elapsed"`
}

// Outcome is the refined end-of-run classification.
func (r *Result) Outcome() dynamo.EndReason { return r.Summary.Outcome }

type Experiment struct {
	cfg       Config
	world     *dynamo.World
	metrics   []metrics.Metric
	observers []Observer
	logger    *slog.Logger
}

func New(cfg Config) *Experiment {
	return &Experiment{
		cfg:    cfg,
		logger: slog.Default(),
	}
}

func (e *Experiment) Setup(ms []metrics.Metric) error {
	if e.cfg.MaxTicks <= 0 {
		return fmt.Errorf("max ticks must be positive, got %d", e.cfg.MaxTicks)
	}
	if err := e.cfg.Params.Validate(); err != nil {
		return err
	}
	e.world = dynamo.NewWorld(e.cfg.Params)
	e.metrics = append(e.metrics[:0], ms...)
	return nil
}

func (e *Experiment) AddObserver(o Observer) { e.observers = append(e.observers, o) }

func (e *Experiment) WithLogger(l *slog.Logger) *Experiment {
	e.logger = l
	return e
}

// Run resets the world and steps it until a terminal end reason (when
// StopOnEnd is set) or MaxTicks. On cancellation the partial result is
// returned together with the context error.
func (e *Experiment) Run(ctx context.Context) (*Result, error) {
	if e.world == nil {
		return nil, ErrNotSetup
	}

	start := time.Now()
	w := e.world
	w.Reset(e.cfg.Params)
	for _, m := range e.metrics {
		m.Reset()
	}

	e.logger.Debug("run_start",
		"max_ticks", e.cfg.MaxTicks,
		"luminosity", e.cfg.Params.LuminosityInitial,
		"stability_window", e.cfg.Params.StabilityWindow,
	)

	var runErr error
	for w.Tick() < e.cfg.MaxTicks {
		if w.Tick()%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				runErr = err
				break
			}
		}

		w.Step()

		if len(e.metrics) > 0 || len(e.observers) > 0 {
			snap := e.current()
			for _, m := range e.metrics {
				m.Observe(snap)
			}
			for _, o := range e.observers {
				o.OnStep(snap)
			}
		}

		if e.cfg.StopOnEnd && w.EndReason().Terminal() {
			break
		}
	}

	result := &Result{
		Params:  w.Params(),
		Summary: w.Summary(),
		History: w.History().Clone(),
		Metrics: make(map[string]float64, len(e.metrics)),
		Elapsed: time.Since(start),
	}
	for _, m := range e.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	e.logger.Debug("run_end",
		"tick", result.Summary.Tick,
		"end_reason", result.Summary.EndReason.String(),
		"outcome", result.Summary.Outcome.String(),
		"elapsed", result.Elapsed,
	)

	return result, runErr
}

// current builds a snapshot of the live state, independent of history
// downsampling so metrics see every tick.
func (e *Experiment) current() dynamo.Snapshot {
	w := e.world
	return dynamo.Snapshot{
		Tick:        w.Tick(),
		Temperature: w.Temperature(),
		White:       w.WhiteFraction() * 100,
		Black:       w.BlackFraction() * 100,
		Luminosity:  w.Luminosity(),
	}
}

// World returns the underlying engine for callers that drive it directly.
func (e *Experiment) World() *dynamo.World {
	return e.world
}

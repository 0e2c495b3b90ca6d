package experiment

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/san-kum/daisyworld/internal/dynamo"
)

type countingObserver struct{ ticks []int }

func (c *countingObserver) OnStep(s dynamo.Snapshot) { c.ticks = append(c.ticks, s.Tick) }

func TestRunStopsOnEnd(t *testing.T) {
	p := dynamo.DefaultParams()
	p.LuminosityInitial = 0.4
	p.LuminosityRate = 0

	exp := New(Config{Params: p, MaxTicks: 5000, StopOnEnd: true})
	if err := exp.Setup(NewRegistry().DefaultMetrics()); err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	obs := &countingObserver{}
	exp.AddObserver(obs)

	result, err := exp.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if result.Summary.Tick != dynamo.ExtinctionWarmup+1 {
		t.Errorf("expected stop at tick %d, got %d", dynamo.ExtinctionWarmup+1, result.Summary.Tick)
	}
	if result.Outcome() != dynamo.FailureToLaunch {
		t.Errorf("expected failure to launch, got %s", result.Outcome())
	}
	if len(result.History) != result.Summary.Tick {
		t.Errorf("expected %d snapshots, got %d", result.Summary.Tick, len(result.History))
	}
	if len(obs.ticks) != result.Summary.Tick || obs.ticks[0] != 1 {
		t.Errorf("observer saw %d ticks starting at %v", len(obs.ticks), obs.ticks[:1])
	}
	if len(result.Metrics) != len(NewRegistry().ListMetrics()) {
		t.Errorf("expected all metrics, got %v", result.Metrics)
	}
	if result.Metrics["homeostasis"] != 0 {
		t.Errorf("frozen world should not regulate, got %v", result.Metrics["homeostasis"])
	}
}

func TestRunHonoursMaxTicks(t *testing.T) {
	exp := New(Config{Params: dynamo.DefaultParams(), MaxTicks: 300})
	if err := exp.Setup(nil); err != nil {
		t.Fatal(err)
	}
	result, err := exp.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if result.Summary.Tick != 300 {
		t.Errorf("expected 300 ticks, got %d", result.Summary.Tick)
	}
	if result.Summary.EndReason != dynamo.Running {
		t.Errorf("expected running, got %s", result.Summary.EndReason)
	}
}

func TestRunContinuesPastEnd(t *testing.T) {
	p := dynamo.DefaultParams()
	p.LuminosityInitial = 0.4
	p.LuminosityRate = 0
	exp := New(Config{Params: p, MaxTicks: 800, StopOnEnd: false})
	if err := exp.Setup(nil); err != nil {
		t.Fatal(err)
	}
	result, err := exp.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if result.Summary.Tick != 800 || result.Summary.EndReason != dynamo.Extinct {
		t.Errorf("expected extinct run to reach 800 ticks, got %d %s", result.Summary.Tick, result.Summary.EndReason)
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	exp := New(Config{Params: dynamo.DefaultParams(), MaxTicks: 1000})
	if err := exp.Setup(nil); err != nil {
		t.Fatal(err)
	}
	result, err := exp.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if result == nil || result.Summary.Tick != 0 {
		t.Errorf("expected partial result at tick 0, got %+v", result)
	}
}

func TestRunWithoutSetup(t *testing.T) {
	if _, err := New(Config{}).Run(context.Background()); !errors.Is(err, ErrNotSetup) {
		t.Errorf("expected ErrNotSetup, got %v", err)
	}
}

func TestSetupValidates(t *testing.T) {
	p := dynamo.DefaultParams()
	p.DeathRate = -1
	if err := New(Config{Params: p, MaxTicks: 10}).Setup(nil); !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("expected ErrParameterBounds, got %v", err)
	}
	if err := New(Config{Params: dynamo.DefaultParams()}).Setup(nil); err == nil {
		t.Error("expected error for zero max ticks")
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	if _, err := r.GetMetric("homeostasis"); err != nil {
		t.Errorf("expected homeostasis metric: %v", err)
	}
	if _, err := r.GetMetric("energy"); err == nil {
		t.Error("expected error for unknown metric")
	}
	a, b := r.DefaultMetrics(), r.DefaultMetrics()
	if a[0] == b[0] {
		t.Error("DefaultMetrics should return fresh instances")
	}
}

func TestWorldKeepsRunHistory(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	exp := New(Config{Params: dynamo.DefaultParams(), MaxTicks: 300}).WithLogger(logger)
	if err := exp.Setup(nil); err != nil {
		t.Fatal(err)
	}
	result, err := exp.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	w := exp.World()
	if w.Tick() != result.Summary.Tick {
		t.Errorf("world at tick %d, result at %d", w.Tick(), result.Summary.Tick)
	}
	temps := w.History().Series(func(s dynamo.Snapshot) float64 { return s.Temperature })
	if len(temps) != len(result.History) {
		t.Fatalf("expected %d temperatures, got %d", len(result.History), len(temps))
	}
	if temps[len(temps)-1] != result.Summary.Temperature {
		t.Errorf("last temperature %f, summary %f", temps[len(temps)-1], result.Summary.Temperature)
	}
}

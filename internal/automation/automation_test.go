package automation

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/daisyworld/internal/dynamo"
	"github.com/san-kum/daisyworld/internal/experiment"
)

const scenarioYAML = `
name: hysteresis
description: warm and cool suns
steps:
  - name: cool
    preset: constant_sun
    params:
      start_luminosity: 0.9
    max_ticks: 3000
    save_as: cool
  - name: cold
    preset: constant_sun
    params:
      start_luminosity: 0.4
    max_ticks: 3000
`

type memorySaver struct {
	labels []string
}

func (m *memorySaver) Save(label string, _ *experiment.Result) (string, error) {
	m.labels = append(m.labels, label)
	return "id-" + label, nil
}

func TestLoadScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.yaml")
	if err := os.WriteFile(path, []byte(scenarioYAML), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := LoadScenario(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if s.Name != "hysteresis" || len(s.Steps) != 2 {
		t.Fatalf("unexpected scenario: %+v", s)
	}
	if s.Steps[0].Params["start_luminosity"] != 0.9 {
		t.Errorf("params not parsed: %v", s.Steps[0].Params)
	}
}

func TestParseScenarioRejectsEmpty(t *testing.T) {
	if _, err := ParseScenario([]byte("name: empty\n")); err == nil {
		t.Error("expected error for scenario without steps")
	}
}

func TestStepConfig(t *testing.T) {
	step := ScenarioStep{Preset: "constant_sun", Params: map[string]float64{"death_rate": 0.5}, MaxTicks: 42, NoStop: true}
	cfg, err := step.Config()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.World.DeathRate != 0.5 || cfg.World.LuminosityRate != 0 {
		t.Errorf("unexpected world: %+v", cfg.World)
	}
	if cfg.Run.MaxTicks != 42 || cfg.Run.StopOnEnd {
		t.Errorf("unexpected run config: %+v", cfg.Run)
	}

	if _, err := (ScenarioStep{Preset: "nope"}).Config(); err == nil {
		t.Error("expected unknown preset error")
	}
	if _, err := (ScenarioStep{Params: map[string]float64{"gravity": 1}}).Config(); err == nil {
		t.Error("expected unknown field error")
	}
}

func TestRunScenario(t *testing.T) {
	s, err := ParseScenario([]byte(scenarioYAML))
	if err != nil {
		t.Fatal(err)
	}

	saver := &memorySaver{}
	results, err := RunScenario(context.Background(), s, experiment.NewRegistry(), saver)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	if got := results[0].Result.Outcome(); got != dynamo.Stable {
		t.Errorf("expected cool sun to stabilise, got %s", got)
	}
	if got := results[1].Result.Outcome(); got != dynamo.FailureToLaunch {
		t.Errorf("expected cold sun to fail to launch, got %s", got)
	}

	if results[0].RunID != "id-cool" || results[1].RunID != "" {
		t.Errorf("unexpected run ids: %q %q", results[0].RunID, results[1].RunID)
	}
	if len(saver.labels) != 1 {
		t.Errorf("expected one saved run, got %v", saver.labels)
	}
	if _, ok := results[0].Result.Metrics["homeostasis"]; !ok {
		t.Error("expected default metrics on scenario runs")
	}
}

func TestRunMonteCarlo(t *testing.T) {
	base := dynamo.DefaultParams()
	base.LuminosityInitial = 1.0
	base.LuminosityRate = 0
	base.StabilityWindow = 50

	cfg := &MonteCarloConfig{
		Base:         base,
		Keys:         []string{"albedo_white", "albedo_black"},
		Perturbation: 0.02,
		NumTrials:    5,
		MaxTicks:     5000,
		Seed:         7,
	}

	a, err := RunMonteCarlo(context.Background(), cfg)
	if err != nil {
		t.Fatalf("monte carlo failed: %v", err)
	}
	if len(a) != 5 {
		t.Fatalf("expected 5 trials, got %d", len(a))
	}

	b, err := RunMonteCarlo(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	for i := range a {
		if a[i].Params != b[i].Params || a[i].Summary != b[i].Summary {
			t.Fatalf("trial %d not reproducible with a fixed seed", i)
		}
		if d := a[i].Params.AlbedoWhite - base.AlbedoWhite; d > 0.0201 || d < -0.0201 {
			t.Errorf("perturbation out of range: %f", d)
		}
	}

	counts := MonteCarloStats(a)
	total := 0
	for _, n := range counts {
		total += n
	}
	if total != 5 {
		t.Errorf("expected 5 tallied outcomes, got %d", total)
	}
	if counts[dynamo.Stable] == 0 {
		t.Errorf("expected small perturbations of a 1.0 sun to stay regulated, got %v", counts)
	}
}

func TestRunMonteCarloRejectsBadInput(t *testing.T) {
	ctx := context.Background()
	if _, err := RunMonteCarlo(ctx, &MonteCarloConfig{Base: dynamo.DefaultParams(), NumTrials: 0, MaxTicks: 10}); err == nil {
		t.Error("expected error for zero trials")
	}
	if _, err := RunMonteCarlo(ctx, &MonteCarloConfig{Base: dynamo.DefaultParams(), Keys: []string{"mass"}, NumTrials: 1, MaxTicks: 10}); err == nil {
		t.Error("expected error for unknown key")
	}
}

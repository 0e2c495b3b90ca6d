package automation

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"sort"
	"time"

	"github.com/san-kum/daisyworld/internal/config"
	"github.com/san-kum/daisyworld/internal/dynamo"
	"github.com/san-kum/daisyworld/internal/experiment"
	"gopkg.in/yaml.v3"
)

// Scenario defines a scripted sequence of runs
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is a single run in a scenario. Params are settings-table keys
// applied on top of the preset.
type ScenarioStep struct {
	Name     string             `yaml:"name"`
	Preset   string             `yaml:"preset"`
	Params   map[string]float64 `yaml:"params"`
	MaxTicks int                `yaml:"max_ticks"`
	NoStop   bool               `yaml:"no_stop"`
	SaveAs   string             `yaml:"save_as"`
}

// Saver persists a finished run and returns its id.
type Saver interface {
	Save(label string, result *experiment.Result) (string, error)
}

// StepResult pairs a step with its run and, when saved, the stored id.
type StepResult struct {
	Step   ScenarioStep
	Result *experiment.Result
	RunID  string
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", scenario.Name)
	}
	return &scenario, nil
}

// Config resolves the run configuration for a step.
func (s ScenarioStep) Config() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if s.Preset != "" {
		cfg = config.GetPreset(s.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s", s.Preset)
		}
	}

	keys := make([]string, 0, len(s.Params))
	for k := range s.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := config.Set(&cfg.World, k, s.Params[k]); err != nil {
			return nil, err
		}
	}

	if s.MaxTicks > 0 {
		cfg.Run.MaxTicks = s.MaxTicks
	}
	if s.NoStop {
		cfg.Run.StopOnEnd = false
	}
	return cfg, cfg.Validate()
}

// RunScenario executes all steps in order. Steps with save_as are persisted
// through saver when one is given.
func RunScenario(ctx context.Context, scenario *Scenario, registry *experiment.Registry, saver Saver) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		slog.Info("scenario_step", "scenario", scenario.Name, "step", i+1, "of", len(scenario.Steps), "name", step.Name)

		cfg, err := step.Config()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		exp := experiment.New(experiment.Config{
			Params:    cfg.World,
			MaxTicks:  cfg.Run.MaxTicks,
			StopOnEnd: cfg.Run.StopOnEnd,
		})
		if err := exp.Setup(registry.DefaultMetrics()); err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		sr := StepResult{Step: step, Result: result}
		if step.SaveAs != "" && saver != nil {
			id, err := saver.Save(step.SaveAs, result)
			if err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
			sr.RunID = id
		}
		results = append(results, sr)
	}

	return results, nil
}

// MonteCarloConfig defines a robustness study: the base parameters are
// jittered by up to Perturbation on each perturbed key.
type MonteCarloConfig struct {
	Base         dynamo.Params
	Keys         []string
	Perturbation float64
	NumTrials    int
	MaxTicks     int
	Seed         int64
}

// MonteCarloResult holds one trial
type MonteCarloResult struct {
	TrialID int
	Params  dynamo.Params
	Summary dynamo.Summary
}

// RunMonteCarlo executes trials with random parameter perturbations
func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig) ([]MonteCarloResult, error) {
	if cfg.NumTrials <= 0 {
		return nil, fmt.Errorf("trials must be positive, got %d", cfg.NumTrials)
	}
	for _, k := range cfg.Keys {
		if _, err := config.LookupField(k); err != nil {
			return nil, err
		}
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	if cfg.Seed == 0 {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	results := make([]MonteCarloResult, 0, cfg.NumTrials)
	for trial := 0; trial < cfg.NumTrials; trial++ {
		p := cfg.Base
		for _, k := range cfg.Keys {
			f, _ := config.LookupField(k)
			v := f.Get(&p) + (rng.Float64()-0.5)*2*cfg.Perturbation
			if err := config.Set(&p, k, v); err != nil {
				return nil, err
			}
		}

		exp := experiment.New(experiment.Config{Params: p, MaxTicks: cfg.MaxTicks, StopOnEnd: true})
		if err := exp.Setup(nil); err != nil {
			return nil, err
		}
		result, err := exp.Run(ctx)
		if err != nil {
			return nil, err
		}

		results = append(results, MonteCarloResult{
			TrialID: trial,
			Params:  p,
			Summary: result.Summary,
		})

		if (trial+1)%10 == 0 {
			slog.Info("monte_carlo", "done", trial+1, "trials", cfg.NumTrials)
		}
	}

	return results, nil
}

// MonteCarloStats tallies trial outcomes.
func MonteCarloStats(results []MonteCarloResult) map[dynamo.EndReason]int {
	counts := make(map[dynamo.EndReason]int)
	for _, r := range results {
		counts[r.Summary.Outcome]++
	}
	return counts
}

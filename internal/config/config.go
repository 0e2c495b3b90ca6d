package config

import (
	"fmt"
	"os"

	"github.com/san-kum/daisyworld/internal/dynamo"
	"gopkg.in/yaml.v3"
)

const (
	DefaultMaxTicks = 10000
)

type Config struct {
	World dynamo.Params `yaml:"world"`
	Run   RunConfig     `yaml:"run"`
}

type RunConfig struct {
	// MaxTicks bounds a headless run that never reaches a terminal state.
	MaxTicks int `yaml:"max_ticks"`
	// StopOnEnd halts the run on the first terminal end reason, the way the
	// interactive front end stops calling Step.
	StopOnEnd bool `yaml:"stop_on_end"`
}

func DefaultConfig() *Config {
	return &Config{
		World: dynamo.DefaultParams(),
		Run: RunConfig{
			MaxTicks:  DefaultMaxTicks,
			StopOnEnd: true,
		},
	}
}

func Load(path string) (*Config, error) {
	return LoadOnto(path, DefaultConfig())
}

// LoadOnto reads the file over a copy of base. Keys absent from the file
// keep base's values; base itself is not modified.
func LoadOnto(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := base.Clone()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Run.MaxTicks <= 0 {
		return fmt.Errorf("run.max_ticks must be positive, got %d", c.Run.MaxTicks)
	}
	if err := c.World.Validate(); err != nil {
		return fmt.Errorf("world: %w", err)
	}
	return nil
}

// Clone returns a deep copy; Config holds only values.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

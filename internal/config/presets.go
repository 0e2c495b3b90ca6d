package config

import (
	"sort"

	"github.com/san-kum/daisyworld/internal/dynamo"
)

func preset(mutate func(p *dynamo.Params)) *Config {
	cfg := DefaultConfig()
	mutate(&cfg.World)
	return cfg
}

var Presets = map[string]*Config{
	// standard parameters with the 1.8 luminosity ceiling
	"web": DefaultConfig(),
	// fixed parameters of the desktop build: lower ceiling
	"classic": preset(func(p *dynamo.Params) {
		p.LuminosityMax = 1.6
	}),
	"constant_sun": preset(func(p *dynamo.Params) {
		p.LuminosityInitial = 1.0
		p.LuminosityRate = 0
		p.StabilityWindow = 50
	}),
	"harsh": preset(func(p *dynamo.Params) {
		p.DeathRate = 0.6
	}),
	// no local heating: both species see the planetary mean
	"gray_world": preset(func(p *dynamo.Params) {
		p.HeatingFactor = 0
	}),
	"fast_warming": preset(func(p *dynamo.Params) {
		p.LuminosityRate = 0.002
		p.StabilityWindow = 100
	}),
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

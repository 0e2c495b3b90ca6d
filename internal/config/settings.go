package config

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/san-kum/daisyworld/internal/dynamo"
)

var ErrUnknownField = errors.New("config: unknown setting")

// Field describes one user-editable parameter: its bounds, increment and how
// to read and write it on a Params value.
type Field struct {
	Key      string
	Label    string
	Desc     string
	Min      float64
	Max      float64
	Step     float64
	Decimals int

	get func(p *dynamo.Params) float64
	set func(p *dynamo.Params, v float64)
}

func (f Field) Get(p *dynamo.Params) float64 { return f.get(p) }

func (f Field) Format(p *dynamo.Params) string {
	return strconv.FormatFloat(f.get(p), 'f', f.Decimals, 64)
}

// apply clamps v into the field's range, rounds to four decimals and stores it.
func (f Field) apply(p *dynamo.Params, v float64) {
	v = math.Round(v*1e4) / 1e4
	v = math.Max(f.Min, math.Min(f.Max, v))
	f.set(p, v)
}

var fields = []Field{
	{
		Key: "albedo_white", Label: "Albedo White",
		Desc: "Reflectivity of white daisies (higher is more reflective).",
		Min:  0.5, Max: 1.0, Step: 0.05, Decimals: 2,
		get: func(p *dynamo.Params) float64 { return p.AlbedoWhite },
		set: func(p *dynamo.Params, v float64) { p.AlbedoWhite = v },
	},
	{
		Key: "albedo_black", Label: "Albedo Black",
		Desc: "Reflectivity of black daisies (lower is more absorbent).",
		Min:  0.0, Max: 0.5, Step: 0.05, Decimals: 2,
		get: func(p *dynamo.Params) float64 { return p.AlbedoBlack },
		set: func(p *dynamo.Params, v float64) { p.AlbedoBlack = v },
	},
	{
		Key: "albedo_ground", Label: "Albedo Ground",
		Desc: "Reflectivity of the bare ground.",
		Min:  0.0, Max: 1.0, Step: 0.05, Decimals: 2,
		get: func(p *dynamo.Params) float64 { return p.AlbedoGround },
		set: func(p *dynamo.Params, v float64) { p.AlbedoGround = v },
	},
	{
		Key: "death_rate", Label: "Death Rate",
		Desc: "Natural death rate of daisies. Higher is less stable.",
		Min:  0.1, Max: 1.0, Step: 0.05, Decimals: 2,
		get: func(p *dynamo.Params) float64 { return p.DeathRate },
		set: func(p *dynamo.Params, v float64) { p.DeathRate = v },
	},
	{
		Key: "start_luminosity", Label: "Start Luminosity",
		Desc: "The initial energy output of the sun.",
		Min:  0.4, Max: 1.4, Step: 0.05, Decimals: 2,
		get: func(p *dynamo.Params) float64 { return p.LuminosityInitial },
		set: func(p *dynamo.Params, v float64) { p.LuminosityInitial = v },
	},
	{
		Key: "luminosity_change", Label: "Luminosity Change",
		Desc: "Rate of solar warming. Set to 0 for a constant sun.",
		Min:  0.0, Max: 0.002, Step: 0.0001, Decimals: 4,
		get: func(p *dynamo.Params) float64 { return p.LuminosityRate },
		set: func(p *dynamo.Params, v float64) { p.LuminosityRate = v },
	},
	{
		Key: "heating_effect", Label: "Heating Effect",
		Desc: "How much a daisy's color affects its local temperature.",
		Min:  0, Max: 50, Step: 2, Decimals: 0,
		get: func(p *dynamo.Params) float64 { return p.HeatingFactor },
		set: func(p *dynamo.Params, v float64) { p.HeatingFactor = v },
	},
	{
		Key: "stability_turns", Label: "Stability Turns",
		Desc: "Turns of no change before ending due to stability.",
		Min:  5, Max: 500, Step: 5, Decimals: 0,
		get: func(p *dynamo.Params) float64 { return float64(p.StabilityWindow) },
		set: func(p *dynamo.Params, v float64) { p.StabilityWindow = int(math.Round(v)) },
	},
}

// Fields returns the editable settings in display order.
func Fields() []Field {
	out := make([]Field, len(fields))
	copy(out, fields)
	return out
}

func LookupField(key string) (Field, error) {
	for _, f := range fields {
		if f.Key == key {
			return f, nil
		}
	}
	return Field{}, fmt.Errorf("%w: %s", ErrUnknownField, key)
}

// Increment raises a setting by one step, saturating at its maximum.
func Increment(p *dynamo.Params, key string) error {
	f, err := LookupField(key)
	if err != nil {
		return err
	}
	f.apply(p, f.get(p)+f.Step)
	return nil
}

// Decrement lowers a setting by one step, saturating at its minimum.
func Decrement(p *dynamo.Params, key string) error {
	f, err := LookupField(key)
	if err != nil {
		return err
	}
	f.apply(p, f.get(p)-f.Step)
	return nil
}

// Set stores value clamped into the setting's range.
func Set(p *dynamo.Params, key string, value float64) error {
	f, err := LookupField(key)
	if err != nil {
		return err
	}
	f.apply(p, value)
	return nil
}

// ApplyOverrides applies "key=value" pairs in order.
func ApplyOverrides(p *dynamo.Params, overrides []string) error {
	for _, kv := range overrides {
		key, raw, ok := strings.Cut(kv, "=")
		if !ok {
			return fmt.Errorf("override %q: expected key=value", kv)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return fmt.Errorf("override %q: %w", kv, err)
		}
		if err := Set(p, strings.TrimSpace(key), v); err != nil {
			return err
		}
	}
	return nil
}

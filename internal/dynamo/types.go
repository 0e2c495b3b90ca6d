package dynamo

import (
	"fmt"
	"math"
)

// Physical and model constants. These are fixed across runs.
const (
	StefanBoltzmann = 5.67e-8
	SolarFlux       = 917.0

	OptimalTemp = 22.5
	MinTemp     = 5.0
	MaxTemp     = 40.0

	GrowthCurvature = 0.003265
	TimeStep        = 0.1

	FractionFloor = 0.0001

	// ExtinctionThreshold is the combined daisy fraction below which a run
	// counts as extinct once the warm-up has passed. The fraction floor keeps
	// true zero unreachable, so this is a threshold, not an absolute state.
	ExtinctionThreshold = 0.01
	ExtinctionWarmup    = 500

	StabilityTolerance = 0.0001

	// LaunchThreshold is the peak population (percent) either species must
	// exceed for a collapse to count as more than a failure to launch.
	LaunchThreshold = 2.0

	kelvinOffset = 273.15
	maxSeed      = 0.01
)

// Params is the per-run configuration. It is immutable for the duration of a
// run; a new value takes effect on the next Reset.
type Params struct {
	AlbedoWhite       float64 `yaml:"albedo_white" json:"albedo_white"`
	AlbedoBlack       float64 `yaml:"albedo_black" json:"albedo_black"`
	AlbedoGround      float64 `yaml:"albedo_ground" json:"albedo_ground"`
	DeathRate         float64 `yaml:"death_rate" json:"death_rate"`
	LuminosityInitial float64 `yaml:"luminosity_initial" json:"luminosity_initial"`
	LuminosityMax     float64 `yaml:"luminosity_max" json:"luminosity_max"`
	LuminosityRate    float64 `yaml:"luminosity_rate" json:"luminosity_rate"`
	HeatingFactor     float64 `yaml:"heating_factor" json:"heating_factor"`
	StabilityWindow   int     `yaml:"stability_window" json:"stability_window"`

	// SeedFraction is the starting fraction of each species.
	SeedFraction float64 `yaml:"seed_fraction" json:"seed_fraction"`

	// HistoryLimit caps the number of retained snapshots (0 keeps all).
	// HistoryStride records every Nth tick only.
	HistoryLimit  int `yaml:"history_limit" json:"history_limit"`
	HistoryStride int `yaml:"history_stride" json:"history_stride"`
}

func DefaultParams() Params {
	return Params{
		AlbedoWhite:       0.75,
		AlbedoBlack:       0.25,
		AlbedoGround:      0.5,
		DeathRate:         0.3,
		LuminosityInitial: 0.8,
		LuminosityMax:     1.8,
		LuminosityRate:    0.0005,
		HeatingFactor:     20,
		StabilityWindow:   5,
		SeedFraction:      0.01,
		HistoryStride:     1,
	}
}

// Validate reports the first parameter outside its documented domain.
func (p Params) Validate() error {
	unit := []struct {
		name string
		v    float64
	}{
		{"albedo_white", p.AlbedoWhite},
		{"albedo_black", p.AlbedoBlack},
		{"albedo_ground", p.AlbedoGround},
	}
	for _, f := range unit {
		if math.IsNaN(f.v) || f.v < 0 || f.v > 1 {
			return &ParamError{Field: f.name, Value: f.v, Wrapped: ErrParameterBounds}
		}
	}

	if !(p.DeathRate > 0 && p.DeathRate <= 1) {
		return &ParamError{Field: "death_rate", Value: p.DeathRate, Wrapped: ErrParameterBounds}
	}
	if !(p.LuminosityInitial >= 0) || math.IsInf(p.LuminosityInitial, 0) {
		return &ParamError{Field: "luminosity_initial", Value: p.LuminosityInitial, Wrapped: ErrParameterBounds}
	}
	if !(p.LuminosityMax >= 0) || math.IsInf(p.LuminosityMax, 0) {
		return &ParamError{Field: "luminosity_max", Value: p.LuminosityMax, Wrapped: ErrParameterBounds}
	}
	if p.LuminosityInitial > p.LuminosityMax {
		return &ParamError{Field: "luminosity_initial", Value: p.LuminosityInitial, Wrapped: ErrParameterBounds}
	}
	if !(p.LuminosityRate >= 0) {
		return &ParamError{Field: "luminosity_rate", Value: p.LuminosityRate, Wrapped: ErrParameterBounds}
	}
	if !(p.HeatingFactor >= 0) {
		return &ParamError{Field: "heating_factor", Value: p.HeatingFactor, Wrapped: ErrParameterBounds}
	}
	if p.StabilityWindow < 1 {
		return &ParamError{Field: "stability_window", Value: float64(p.StabilityWindow), Wrapped: ErrParameterBounds}
	}
	if !(p.SeedFraction >= FractionFloor && p.SeedFraction <= maxSeed) {
		return &ParamError{Field: "seed_fraction", Value: p.SeedFraction, Wrapped: ErrParameterBounds}
	}
	if p.HistoryLimit < 0 {
		return &ParamError{Field: "history_limit", Value: float64(p.HistoryLimit), Wrapped: ErrParameterBounds}
	}
	if p.HistoryStride < 0 {
		return &ParamError{Field: "history_stride", Value: float64(p.HistoryStride), Wrapped: ErrParameterBounds}
	}
	return nil
}

// Sanitize clamps obviously invalid values into range. It never fails.
func (p Params) Sanitize() Params {
	p.AlbedoWhite = clamp(p.AlbedoWhite, 0, 1)
	p.AlbedoBlack = clamp(p.AlbedoBlack, 0, 1)
	p.AlbedoGround = clamp(p.AlbedoGround, 0, 1)
	p.DeathRate = clamp(p.DeathRate, 0, 1)
	p.LuminosityInitial = math.Max(0, p.LuminosityInitial)
	p.LuminosityMax = math.Max(0, p.LuminosityMax)
	p.LuminosityRate = math.Max(0, p.LuminosityRate)
	p.HeatingFactor = math.Max(0, p.HeatingFactor)
	if p.StabilityWindow < 1 {
		p.StabilityWindow = 1
	}
	if p.SeedFraction == 0 {
		p.SeedFraction = maxSeed
	}
	p.SeedFraction = clamp(p.SeedFraction, FractionFloor, maxSeed)
	if p.HistoryLimit < 0 {
		p.HistoryLimit = 0
	}
	if p.HistoryStride < 1 {
		p.HistoryStride = 1
	}
	return p
}

// clamp also maps NaN to lo.
func clamp(v, lo, hi float64) float64 {
	if !(v >= lo) {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// EndReason is the terminal classification of a run. Running is the zero
// value and means no terminal condition has been detected yet.
type EndReason int

const (
	Running EndReason = iota
	Extinct
	Stable
	HeatDeath
	FreezeDeath
	FailureToLaunch
)

var endReasonNames = [...]string{
	Running:         "running",
	Extinct:         "extinct",
	Stable:          "stable",
	HeatDeath:       "heat_death",
	FreezeDeath:     "freeze_death",
	FailureToLaunch: "failure_to_launch",
}

func (r EndReason) String() string {
	if r < 0 || int(r) >= len(endReasonNames) {
		return fmt.Sprintf("EndReason(%d)", int(r))
	}
	return endReasonNames[r]
}

// Terminal reports whether r is any classification other than Running.
func (r EndReason) Terminal() bool { return r != Running }

func (r EndReason) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *EndReason) UnmarshalText(text []byte) error {
	v, err := ParseEndReason(string(text))
	if err != nil {
		return err
	}
	*r = v
	return nil
}

func ParseEndReason(s string) (EndReason, error) {
	for i, name := range endReasonNames {
		if name == s {
			return EndReason(i), nil
		}
	}
	if s == "none" || s == "" {
		return Running, nil
	}
	return Running, fmt.Errorf("%w: %q", ErrUnknownEndReason, s)
}

// Snapshot is one history entry. White and Black are percentages.
type Snapshot struct {
	Tick        int     `json:"tick" csv:"tick"`
	Temperature float64 `json:"temperature" csv:"temperature"`
	White       float64 `json:"white" csv:"white"`
	Black       float64 `json:"black" csv:"black"`
	Luminosity  float64 `json:"luminosity" csv:"luminosity"`
}

// Stats tracks whole-run aggregates that survive history capping.
type Stats struct {
	PeakWhite float64 `json:"peak_white"`
	PeakBlack float64 `json:"peak_black"`
}

// Summary is a read-only copy of a world's current state. White, Black and
// Ground are fractions in [0, 1].
type Summary struct {
	Tick        int       `json:"tick"`
	Temperature float64   `json:"temperature"`
	Albedo      float64   `json:"albedo"`
	White       float64   `json:"white"`
	Black       float64   `json:"black"`
	Ground      float64   `json:"ground"`
	Luminosity  float64   `json:"luminosity"`
	EndReason   EndReason `json:"end_reason"`
	Outcome     EndReason `json:"outcome"`
	Stats       Stats     `json:"stats"`
}

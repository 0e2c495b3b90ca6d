package analysis

import (
	"context"
	"fmt"

	"github.com/san-kum/daisyworld/internal/dynamo"
	"github.com/san-kum/daisyworld/internal/experiment"
)

// EquilibriumPoint is the settled state of the world for one fixed luminosity.
type EquilibriumPoint struct {
	Luminosity  float64          `json:"luminosity"`
	Temperature float64          `json:"temperature"`
	BareTemp    float64          `json:"bare_temperature"`
	White       float64          `json:"white"`
	Black       float64          `json:"black"`
	Outcome     dynamo.EndReason `json:"outcome"`
	Ticks       int              `json:"ticks"`
}

// Regulated reports whether life settled the planet inside the viable band.
func (p EquilibriumPoint) Regulated() bool {
	return p.Outcome == dynamo.Stable && p.Temperature > dynamo.MinTemp && p.Temperature < dynamo.MaxTemp
}

// BarePlanetTemperature is the temperature of a planet covered only by ground.
func BarePlanetTemperature(p dynamo.Params, luminosity float64) float64 {
	return dynamo.PlanetaryTemperature(luminosity, p.AlbedoGround)
}

// EquilibriumScan holds the sun constant at steps luminosities in
// [lumMin, lumMax] and runs each world until it ends or maxTicks pass.
// Each world is seeded afresh, so the scan traces the upward branch only.
func EquilibriumScan(ctx context.Context, base dynamo.Params, lumMin, lumMax float64, steps, maxTicks, workers int) ([]EquilibriumPoint, error) {
	if steps < 1 {
		return nil, fmt.Errorf("steps must be positive, got %d", steps)
	}
	if lumMax < lumMin {
		return nil, fmt.Errorf("luminosity range inverted: %g > %g", lumMin, lumMax)
	}

	results := make([]EquilibriumPoint, steps)
	errs := make([]error, steps)

	stepSize := 0.0
	if steps > 1 {
		stepSize = (lumMax - lumMin) / float64(steps-1)
	}

	dynamo.ParallelFor(steps, workers, func(start, end int) {
		for i := start; i < end; i++ {
			lum := lumMin + float64(i)*stepSize

			p := base
			p.LuminosityInitial = lum
			p.LuminosityMax = lum
			p.LuminosityRate = 0
			p.HistoryLimit = 1

			exp := experiment.New(experiment.Config{Params: p, MaxTicks: maxTicks, StopOnEnd: true})
			if err := exp.Setup(nil); err != nil {
				errs[i] = err
				continue
			}
			result, err := exp.Run(ctx)
			if err != nil {
				errs[i] = err
				continue
			}

			s := result.Summary
			results[i] = EquilibriumPoint{
				Luminosity:  lum,
				Temperature: s.Temperature,
				BareTemp:    BarePlanetTemperature(p, lum),
				White:       s.White,
				Black:       s.Black,
				Outcome:     s.Outcome,
				Ticks:       s.Tick,
			}
		}
	})

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}

// RegulationBand returns the lowest and highest luminosity at which the scan
// found a regulated equilibrium, and false if none did.
func RegulationBand(points []EquilibriumPoint) (lo, hi float64, ok bool) {
	for _, p := range points {
		if !p.Regulated() {
			continue
		}
		if !ok || p.Luminosity < lo {
			lo = p.Luminosity
		}
		if !ok || p.Luminosity > hi {
			hi = p.Luminosity
		}
		ok = true
	}
	return lo, hi, ok
}

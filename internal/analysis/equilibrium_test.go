package analysis

import (
	"context"
	"math"
	"testing"

	"github.com/san-kum/daisyworld/internal/dynamo"
)

func TestEquilibriumScan(t *testing.T) {
	base := dynamo.DefaultParams()
	base.StabilityWindow = 50

	points, err := EquilibriumScan(context.Background(), base, 0.6, 1.4, 9, 10000, 3)
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	if len(points) != 9 {
		t.Fatalf("expected 9 points, got %d", len(points))
	}

	byLum := func(l float64) EquilibriumPoint {
		for _, p := range points {
			if math.Abs(p.Luminosity-l) < 1e-9 {
				return p
			}
		}
		t.Fatalf("no point at luminosity %v", l)
		return EquilibriumPoint{}
	}

	cold := byLum(0.6)
	if cold.Outcome != dynamo.FailureToLaunch {
		t.Errorf("expected failure to launch at 0.6, got %s", cold.Outcome)
	}
	if math.Abs(cold.Temperature-cold.BareTemp) > 0.01 {
		t.Errorf("lifeless planet should sit at bare temperature: %f vs %f", cold.Temperature, cold.BareTemp)
	}

	for _, l := range []float64{0.9, 1.0, 1.1} {
		p := byLum(l)
		if !p.Regulated() {
			t.Errorf("expected regulation at %v, got %+v", l, p)
		}
		if p.Temperature < 15 || p.Temperature > 30 {
			t.Errorf("expected near-optimal temperature at %v, got %f", l, p.Temperature)
		}
	}

	// daisies hold the planet cooler than bare ground at 1.1
	if hot := byLum(1.1); hot.Temperature >= hot.BareTemp {
		t.Errorf("expected regulation below bare temperature: %f vs %f", hot.Temperature, hot.BareTemp)
	}

	lo, hi, ok := RegulationBand(points)
	if !ok || lo > 0.9 || hi < 1.1 {
		t.Errorf("unexpected regulation band [%v, %v] ok=%v", lo, hi, ok)
	}
}

func TestEquilibriumScanArguments(t *testing.T) {
	ctx := context.Background()
	if _, err := EquilibriumScan(ctx, dynamo.DefaultParams(), 1, 0.5, 3, 100, 1); err == nil {
		t.Error("expected error for inverted range")
	}
	if _, err := EquilibriumScan(ctx, dynamo.DefaultParams(), 0.5, 1, 0, 100, 1); err == nil {
		t.Error("expected error for zero steps")
	}

	points, err := EquilibriumScan(ctx, dynamo.DefaultParams(), 0.8, 0.8, 1, 100, 1)
	if err != nil || len(points) != 1 || points[0].Luminosity != 0.8 {
		t.Errorf("single point scan: %v %v", points, err)
	}
}

func TestBarePlanetTemperature(t *testing.T) {
	p := dynamo.DefaultParams()
	if got := BarePlanetTemperature(p, 0.8); math.Abs(got-10.4535) > 1e-3 {
		t.Errorf("expected about 10.45C, got %f", got)
	}
	if BarePlanetTemperature(p, 1.2) <= BarePlanetTemperature(p, 1.0) {
		t.Error("bare temperature should rise with luminosity")
	}
}

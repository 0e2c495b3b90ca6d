package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/daisyworld/internal/dynamo"
)

func snaps() []dynamo.Snapshot {
	return []dynamo.Snapshot{
		{Tick: 1, Temperature: 10, White: 1, Black: 1},
		{Tick: 2, Temperature: 20, White: 30, Black: 40},
		{Tick: 3, Temperature: 30, White: 50, Black: 10},
		{Tick: 4, Temperature: 60, White: 0.01, Black: 0.01},
	}
}

func TestPeak(t *testing.T) {
	tests := []struct {
		m    *Peak
		want float64
	}{
		{NewPeakWhite(), 50},
		{NewPeakBlack(), 40},
		{NewPeakTemperature(), 60},
	}

	for _, tt := range tests {
		for _, s := range snaps() {
			tt.m.Observe(s)
		}
		if got := tt.m.Value(); got != tt.want {
			t.Errorf("%s: expected %v, got %v", tt.m.Name(), tt.want, got)
		}
		tt.m.Reset()
		if tt.m.Value() != 0 {
			t.Errorf("%s: expected 0 after reset", tt.m.Name())
		}
	}
}

func TestPeakNegativeTemperatures(t *testing.T) {
	m := NewPeakTemperature()
	m.Observe(dynamo.Snapshot{Temperature: -30})
	m.Observe(dynamo.Snapshot{Temperature: -12})
	if m.Value() != -12 {
		t.Errorf("expected -12, got %v", m.Value())
	}
}

func TestTemperatureStats(t *testing.T) {
	mean := NewTemperatureMean()
	spread := NewTemperatureSpread()
	for _, s := range snaps() {
		mean.Observe(s)
		spread.Observe(s)
	}

	if math.Abs(mean.Value()-30) > 1e-12 {
		t.Errorf("expected mean 30, got %v", mean.Value())
	}
	// sample standard deviation of {10, 20, 30, 60}
	want := math.Sqrt((400 + 100 + 0 + 900) / 3.0)
	if math.Abs(spread.Value()-want) > 1e-9 {
		t.Errorf("expected stddev %v, got %v", want, spread.Value())
	}

	spread.Reset()
	if spread.Value() != 0 {
		t.Error("expected zero spread after reset")
	}
}

func TestHomeostasis(t *testing.T) {
	h := NewHomeostasis()
	for _, s := range snaps() {
		h.Observe(s)
	}
	// ticks 1 (combined 2%), 2 and 3 are alive and in band; tick 4 is neither
	if got := h.Value(); got != 0.75 {
		t.Errorf("expected 0.75, got %v", got)
	}
	h.Reset()
	if h.Value() != 0 {
		t.Error("expected zero after reset")
	}
}

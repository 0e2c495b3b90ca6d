package main

import (
	"testing"

	"github.com/san-kum/daisyworld/internal/config"
)

func TestScanParamsWindow(t *testing.T) {
	world := config.GetPreset("constant_sun").World

	if got := scanParams(world, 0).StabilityWindow; got != 50 {
		t.Errorf("expected preset window 50, got %d", got)
	}
	if got := scanParams(world, 20).StabilityWindow; got != 20 {
		t.Errorf("expected override window 20, got %d", got)
	}
	if world.StabilityWindow != 50 {
		t.Errorf("preset modified: %d", world.StabilityWindow)
	}
}

package dynamo

import "math"

// World owns a single run's simulation state. The zero value is not usable;
// construct with NewWorld.
type World struct {
	params Params

	tick        int
	white       float64
	black       float64
	ground      float64
	luminosity  float64
	temperature float64
	endReason   EndReason
	stats       Stats

	history *History
	window  *window
}

func NewWorld(p Params) *World {
	w := &World{}
	w.Reset(p)
	return w
}

// Reset discards the current run and starts a fresh one from p.
func (w *World) Reset(p Params) {
	p = p.Sanitize()
	w.params = p

	w.tick = 0
	w.white = p.SeedFraction
	w.black = p.SeedFraction
	w.ground = 1 - (w.white + w.black)
	w.luminosity = p.LuminosityInitial
	w.endReason = Running
	w.stats = Stats{PeakWhite: w.white * 100, PeakBlack: w.black * 100}

	w.temperature = PlanetaryTemperature(w.luminosity, PlanetaryAlbedo(p, w.white, w.black, w.ground))

	if w.history == nil || w.history.limit != p.HistoryLimit || w.history.stride != p.HistoryStride {
		w.history = newHistory(p.HistoryLimit, p.HistoryStride)
	} else {
		w.history.clear()
	}
	if w.window == nil || len(w.window.white) != p.StabilityWindow {
		w.window = newWindow(p.StabilityWindow)
	} else {
		w.window.reset()
	}
}

// Step advances the world exactly one tick.
func (w *World) Step() {
	p := &w.params

	if w.luminosity < p.LuminosityMax {
		w.luminosity = math.Min(w.luminosity+p.LuminosityRate, p.LuminosityMax)
	}

	albedo := PlanetaryAlbedo(*p, w.white, w.black, w.ground)
	temp := PlanetaryTemperature(w.luminosity, albedo)
	w.temperature = temp

	growWhite := GrowthRate(LocalTemperature(temp, albedo, p.AlbedoWhite, p.HeatingFactor))
	growBlack := GrowthRate(LocalTemperature(temp, albedo, p.AlbedoBlack, p.HeatingFactor))

	// growth needs bare ground to colonise; mortality does not
	dWhite := w.white * (w.ground*growWhite - p.DeathRate)
	dBlack := w.black * (w.ground*growBlack - p.DeathRate)

	w.white = clamp(w.white+dWhite*TimeStep, FractionFloor, 1)
	w.black = clamp(w.black+dBlack*TimeStep, FractionFloor, 1)

	w.ground = 1 - (w.white + w.black)
	if w.ground < 0 {
		w.ground = 0
		if total := w.white + w.black; total > 1 {
			w.white /= total
			w.black /= total
		}
		// renormalising can push a floored species under the floor
		if w.white < FractionFloor {
			w.white, w.black = FractionFloor, 1-FractionFloor
		} else if w.black < FractionFloor {
			w.white, w.black = 1-FractionFloor, FractionFloor
		}
	}

	w.tick++
	w.observe()
}

// observe records the current state and runs termination checks.
func (w *World) observe() {
	whitePct, blackPct := w.white*100, w.black*100
	w.stats.PeakWhite = math.Max(w.stats.PeakWhite, whitePct)
	w.stats.PeakBlack = math.Max(w.stats.PeakBlack, blackPct)

	w.history.record(Snapshot{
		Tick:        w.tick,
		Temperature: w.temperature,
		White:       whitePct,
		Black:       blackPct,
		Luminosity:  w.luminosity,
	})

	w.checkTermination()
}

func (w *World) checkTermination() {
	combined := w.white + w.black

	if w.tick > ExtinctionWarmup && combined < ExtinctionThreshold {
		w.end(Extinct)
	}

	w.window.push(w.white, w.black)
	if !w.window.full() {
		return
	}
	dw, db := w.window.spread()
	if dw < StabilityTolerance && db < StabilityTolerance && combined > ExtinctionThreshold {
		w.end(Stable)
	}
}

// end sets the end reason once per run.
func (w *World) end(r EndReason) {
	if w.endReason == Running {
		w.endReason = r
	}
}

func (w *World) Params() Params          { return w.params }
func (w *World) Tick() int               { return w.tick }
func (w *World) WhiteFraction() float64  { return w.white }
func (w *World) BlackFraction() float64  { return w.black }
func (w *World) GroundFraction() float64 { return w.ground }
func (w *World) Luminosity() float64     { return w.luminosity }
func (w *World) EndReason() EndReason    { return w.endReason }
func (w *World) Stats() Stats            { return w.stats }
func (w *World) History() *History       { return w.history }

// Temperature returns the planetary temperature computed by the last step.
func (w *World) Temperature() float64 { return w.temperature }

// Albedo returns the planetary albedo for the current fractions.
func (w *World) Albedo() float64 {
	return PlanetaryAlbedo(w.params, w.white, w.black, w.ground)
}

// Outcome refines the end reason with end-of-run classification.
func (w *World) Outcome() EndReason {
	return Classify(w.endReason, w.temperature, w.stats)
}

func (w *World) Summary() Summary {
	return Summary{
		Tick:        w.tick,
		Temperature: w.temperature,
		Albedo:      w.Albedo(),
		White:       w.white,
		Black:       w.black,
		Ground:      w.ground,
		Luminosity:  w.luminosity,
		EndReason:   w.endReason,
		Outcome:     w.Outcome(),
		Stats:       w.stats,
	}
}

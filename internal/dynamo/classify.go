package dynamo

// Classify refines a terminal end reason using the final temperature and the
// run's peak populations. Stable and Running pass through unchanged.
func Classify(reason EndReason, finalTemp float64, stats Stats) EndReason {
	switch reason {
	case Running, Stable:
		return reason
	}
	switch {
	case stats.PeakWhite < LaunchThreshold && stats.PeakBlack < LaunchThreshold:
		return FailureToLaunch
	case finalTemp > MaxTemp:
		return HeatDeath
	case finalTemp < MinTemp:
		return FreezeDeath
	}
	return Extinct
}

// ClassifyHistory is Classify over a snapshot log. Peaks are taken from the
// retained entries only, so a capped history may classify differently from
// the engine's own Outcome.
func ClassifyHistory(reason EndReason, history []Snapshot) EndReason {
	if len(history) == 0 {
		return reason
	}
	var stats Stats
	for _, s := range history {
		if s.White > stats.PeakWhite {
			stats.PeakWhite = s.White
		}
		if s.Black > stats.PeakBlack {
			stats.PeakBlack = s.Black
		}
	}
	return Classify(reason, history[len(history)-1].Temperature, stats)
}

package narrative

import (
	"context"
	"strings"
	"time"

	"github.com/san-kum/daisyworld/internal/dynamo"
)

// Offline writes a canned report from the outcome alone. It stands in for a
// remote language model.
type Offline struct {
	// Latency simulates a slow collaborator.
	Latency time.Duration
	Outcome dynamo.EndReason
}

func (o Offline) Narrate(ctx context.Context, prompt string) (string, error) {
	if o.Latency > 0 {
		select {
		case <-time.After(o.Latency):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	var b strings.Builder
	b.WriteString("Field log, final entry. ")
	switch o.Outcome {
	case dynamo.Stable:
		b.WriteString("The meadows have settled. White and black blooms hold the planet in a gentle balance, " +
			"and the instruments barely move from one day to the next.")
	case dynamo.FailureToLaunch:
		b.WriteString("The seeds never took. The ground lies bare and the temperature follows the sun alone.")
	case dynamo.HeatDeath:
		b.WriteString("For a long season the white fields pushed back against the brightening sun. " +
			"In the end the heat outran them and the last petals browned and fell.")
	case dynamo.FreezeDeath:
		b.WriteString("The dark blooms tried to gather warmth, but the sun was too faint. Frost took the fields.")
	case dynamo.Extinct:
		b.WriteString("The daisies are gone. Whatever balance they kept has collapsed.")
	default:
		b.WriteString("The experiment is still running. Observations continue.")
	}
	return b.String(), nil
}

// OfflineFor returns an Offline narrator for a summary's outcome.
func OfflineFor(s dynamo.Summary) Offline {
	return Offline{Outcome: s.Outcome}
}

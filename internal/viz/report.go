package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/daisyworld/internal/dynamo"
)

// Section is one headed paragraph of an outcome explanation.
type Section struct {
	Header string
	Body   string
}

// Title is the headline for an outcome.
func Title(outcome dynamo.EndReason) string {
	switch outcome {
	case dynamo.Stable:
		return "Stable Equilibrium Reached"
	case dynamo.FailureToLaunch:
		return "Extinction: Failure to Launch"
	case dynamo.HeatDeath:
		return "Extinction: Heat Death"
	case dynamo.FreezeDeath:
		return "Extinction: Freeze Death"
	case dynamo.Extinct:
		return "Extinction"
	default:
		return "Experiment Complete"
	}
}

// Explanation describes what usually leads to an outcome.
func Explanation(outcome dynamo.EndReason) []Section {
	switch outcome {
	case dynamo.Stable:
		return []Section{
			{"Observation", "The run ended because both daisy populations held steady for the whole stability window."},
			{"Analysis", "The daisies found a balance and kept the planet inside the habitable band. The feedback loop regulated the climate."},
		}
	case dynamo.FailureToLaunch:
		return []Section{
			{"Initial Conditions", "Neither species ever reached 2% cover. The settings were too harsh for either to take hold."},
			{"Result", "With no life to regulate it, the temperature was set by physics alone and the planet stayed barren."},
		}
	case dynamo.HeatDeath:
		return []Section{
			{"Warming Phase", "Black daisies may have warmed the young planet at first."},
			{"Homeostasis", "For a period the daisies held the temperature near their optimum, but the brightening sun kept pushing."},
			{"Final Result", "The sun outgrew the daisies' ability to cool the planet. The temperature rose past their survival limit and life collapsed."},
		}
	case dynamo.FreezeDeath:
		return []Section{
			{"Warming Attempt", "Black daisies tried to warm the planet, but the sun was too faint or their heating too weak."},
			{"Result", "The planet never reached a temperature that sustains growth. The populations dwindled and froze."},
		}
	case dynamo.Extinct:
		return []Section{
			{"Result", "Both populations fell below the survival threshold while the temperature was still habitable."},
		}
	default:
		return []Section{
			{"Observation", "The run stopped before reaching an end state."},
		}
	}
}

// Formulas are the core relations of the model.
var Formulas = []string{
	"Temp ~ (Luminosity * (1-Albedo))^0.25",
	"Albedo = sum(Frac_i * Albedo_i)",
	"Growth = 1-k*(T_opt-T_local)^2",
	"d(Frac)/dt = Frac*(Growth-Death)",
}

func titleColor(t Theme, outcome dynamo.EndReason) lipgloss.Color {
	switch outcome {
	case dynamo.Stable:
		return t.Stable
	case dynamo.FailureToLaunch:
		return t.Muted
	case dynamo.HeatDeath:
		return t.Temp
	case dynamo.FreezeDeath:
		return t.Heading
	default:
		return t.Title
	}
}

// RenderReport renders the end-of-run screen as text.
func RenderReport(s dynamo.Summary, t Theme) string {
	st := NewStyles(t)
	var b strings.Builder

	title := lipgloss.NewStyle().Bold(true).Foreground(titleColor(t, s.Outcome))
	b.WriteString(title.Render(Title(s.Outcome)))
	b.WriteString("\n\n")

	b.WriteString(st.Heading.Render("Summary of Results"))
	b.WriteString("\n")
	for _, sec := range Explanation(s.Outcome) {
		b.WriteString(st.Value.Render(sec.Header + ":"))
		b.WriteString("\n")
		b.WriteString(st.Muted.Render("  " + sec.Body))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(st.Heading.Render("Final State"))
	b.WriteString("\n")
	b.WriteString(RenderState(s, t))
	return b.String()
}

// RenderState renders the live-state panel: time, sun, albedo, temperature
// and cover.
func RenderState(s dynamo.Summary, t Theme) string {
	st := NewStyles(t)
	var b strings.Builder

	line := func(label string, value float64, unit string, style lipgloss.Style) {
		fmt.Fprintf(&b, "%s %s\n", st.Label.Render(fmt.Sprintf("%-20s", label)), style.Render(fmt.Sprintf("%7.2f %s", value, unit)))
	}
	line("Temperature:", s.Temperature, "C", st.Temp)
	line("White Pop:", s.White*100, "%", st.White)
	line("Black Pop:", s.Black*100, "%", st.Black)
	line("Bare Ground:", s.Ground*100, "%", st.Ground)
	line("Albedo:", s.Albedo, "", st.Value)
	line("Luminosity:", s.Luminosity, "", st.Value)
	fmt.Fprintf(&b, "%s %s\n", st.Label.Render(fmt.Sprintf("%-20s", "Total Time:")), st.Value.Render(fmt.Sprintf("%7d steps", s.Tick)))
	line("Peak White:", s.Stats.PeakWhite, "%", st.White)
	line("Peak Black:", s.Stats.PeakBlack, "%", st.Black)

	b.WriteString("\n")
	b.WriteString(ProgressBar(st.White, s.White, 40) + " white\n")
	b.WriteString(ProgressBar(st.Black, s.Black, 40) + " black\n")
	b.WriteString(ProgressBar(st.Ground, s.Ground, 40) + " ground\n")
	return b.String()
}

// RenderFormulas renders the core relations in a panel.
func RenderFormulas(t Theme) string {
	st := NewStyles(t)
	return st.Panel.Render(st.Heading.Render("Core Formulas") + "\n" + st.Muted.Render(strings.Join(Formulas, "\n")))
}

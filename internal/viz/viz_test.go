package viz

import (
	"strings"
	"testing"

	"github.com/san-kum/daisyworld/internal/dynamo"
)

func TestTitle(t *testing.T) {
	tests := []struct {
		outcome dynamo.EndReason
		want    string
	}{
		{dynamo.Stable, "Stable Equilibrium Reached"},
		{dynamo.FailureToLaunch, "Extinction: Failure to Launch"},
		{dynamo.HeatDeath, "Extinction: Heat Death"},
		{dynamo.FreezeDeath, "Extinction: Freeze Death"},
		{dynamo.Extinct, "Extinction"},
		{dynamo.Running, "Experiment Complete"},
	}
	for _, tt := range tests {
		if got := Title(tt.outcome); got != tt.want {
			t.Errorf("Title(%s) = %q, want %q", tt.outcome, got, tt.want)
		}
		if len(Explanation(tt.outcome)) == 0 {
			t.Errorf("no explanation for %s", tt.outcome)
		}
	}
}

func TestRenderReport(t *testing.T) {
	s := dynamo.Summary{
		Tick:        1745,
		Temperature: 67.45,
		Albedo:      0.5,
		White:       0.005,
		Black:       0.004,
		Ground:      0.991,
		Luminosity:  1.67,
		EndReason:   dynamo.Extinct,
		Outcome:     dynamo.HeatDeath,
		Stats:       dynamo.Stats{PeakWhite: 69.1, PeakBlack: 40.2},
	}

	out := RenderReport(s, ThemeMeadow)
	for _, want := range []string{"Extinction: Heat Death", "Summary of Results", "Final State", "67.45", "1745", "69.10"} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}

func TestRenderFormulas(t *testing.T) {
	out := RenderFormulas(ThemeMinimal)
	for _, f := range Formulas {
		if !strings.Contains(out, f) {
			t.Errorf("formulas panel missing %q", f)
		}
	}
}

func TestPlotHistory(t *testing.T) {
	w := dynamo.NewWorld(dynamo.DefaultParams())
	for i := 0; i < 200; i++ {
		w.Step()
	}

	out := PlotHistory(w.History().Snapshots(), PlotOptions{Width: 40, Height: 5})
	if !strings.Contains(out, "temperature") || !strings.Contains(out, "population") {
		t.Errorf("unexpected plot:\n%s", out)
	}
	if !strings.Contains(out, "ticks 1-200") {
		t.Errorf("expected tick range in caption:\n%s", out)
	}

	if got := PlotHistory(nil, DefaultPlotOptions()); !strings.Contains(got, "not enough") {
		t.Errorf("expected short-history message, got %q", got)
	}
}

func TestSurface(t *testing.T) {
	s := NewSurface(20, 10, 1)
	s.Fill(0.3, 0.2)

	white, black, ground := s.Counts()
	if white != 60 || black != 40 || ground != 100 {
		t.Errorf("unexpected counts %d/%d/%d", white, black, ground)
	}

	a := NewSurface(20, 10, 1)
	a.Fill(0.3, 0.2)
	if a.Render(NewStyles(ThemeMinimal)) != s.Render(NewStyles(ThemeMinimal)) {
		t.Error("same seed should give the same layout")
	}

	lines := strings.Split(strings.TrimSuffix(s.Render(NewStyles(ThemeMinimal)), "\n"), "\n")
	if len(lines) != 10 {
		t.Errorf("expected 10 rows, got %d", len(lines))
	}

	s.Fill(0.9, 0.9)
	if white, black, _ := s.Counts(); white+black > 200 {
		t.Errorf("overfull surface: %d + %d", white, black)
	}
}

func TestSparklineAndBar(t *testing.T) {
	if got := Sparkline([]float64{0, 1, 2, 3}, 4); got != "▁▃▅█" {
		t.Errorf("unexpected sparkline %q", got)
	}
	if got := Sparkline(nil, 3); got != "───" {
		t.Errorf("unexpected empty sparkline %q", got)
	}

	st := NewStyles(ThemeMinimal)
	bar := ProgressBar(st.White, 0.5, 10)
	if strings.Count(bar, "█") != 5 || strings.Count(bar, "░") != 5 {
		t.Errorf("unexpected bar %q", bar)
	}
}

func TestSeparator(t *testing.T) {
	sep := Separator(NewStyles(ThemeMinimal), 60)
	if !strings.Contains(sep, "✿") || strings.Count(sep, "─") != 54 {
		t.Errorf("unexpected separator %q", sep)
	}
	if got := NewStyles(ThemeMeadow).Highlight.GetForeground(); got != ThemeMeadow.Highlight {
		t.Errorf("highlight style uses %v, want %v", got, ThemeMeadow.Highlight)
	}
}

func TestGetTheme(t *testing.T) {
	if GetTheme("minimal").Name != "minimal" {
		t.Error("expected minimal theme")
	}
	if GetTheme("nope").Name != "meadow" {
		t.Error("expected fallback to meadow")
	}
	if len(ThemeNames()) != len(Themes) {
		t.Error("theme names mismatch")
	}
}

package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles is a theme turned into lipgloss styles.
type Styles struct {
	Panel     lipgloss.Style
	Heading   lipgloss.Style
	Label     lipgloss.Style
	Value     lipgloss.Style
	Muted     lipgloss.Style
	Highlight lipgloss.Style
	Temp      lipgloss.Style
	White     lipgloss.Style
	Black     lipgloss.Style
	Ground    lipgloss.Style
}

func NewStyles(t Theme) Styles {
	return Styles{
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(1, 2),
		Heading: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Heading).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(t.Border),
		Label:     lipgloss.NewStyle().Foreground(t.Muted),
		Value:     lipgloss.NewStyle().Foreground(t.Text).Bold(true),
		Muted:     lipgloss.NewStyle().Foreground(t.Muted),
		Highlight: lipgloss.NewStyle().Foreground(t.Highlight).Bold(true),
		Temp:      lipgloss.NewStyle().Foreground(t.Temp).Bold(true),
		White:     lipgloss.NewStyle().Foreground(t.White).Bold(true),
		Black:     lipgloss.NewStyle().Foreground(t.Black).Bold(true),
		Ground:    lipgloss.NewStyle().Foreground(t.Ground),
	}
}

// ProgressBar renders a share in [0, 1] as a bar of the given width
func ProgressBar(style lipgloss.Style, share float64, width int) string {
	filled := int(share*float64(width) + 0.5)
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return style.Render(strings.Repeat("█", filled)) + strings.Repeat("░", width-filled)
}

// Sparkline renders values as a single row of block characters
func Sparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return strings.Repeat("─", max(width, 0))
	}

	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	rng := hi - lo
	if rng == 0 {
		rng = 1
	}

	step := len(values) / width
	if step < 1 {
		step = 1
	}

	var result strings.Builder
	for i := 0; i < width && i*step < len(values); i++ {
		norm := (values[i*step] - lo) / rng
		idx := int(norm * float64(len(chars)-1))
		idx = max(0, min(idx, len(chars)-1))
		result.WriteRune(chars[idx])
	}
	return result.String()
}

// Separator is a muted horizontal rule
func Separator(s Styles, width int) string {
	mid := width / 2
	left := strings.Repeat("─", max(mid-3, 0))
	right := strings.Repeat("─", max(width-mid-3, 0))
	return s.Muted.Render(left + " ✿ " + right)
}

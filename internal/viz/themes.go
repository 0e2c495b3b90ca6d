package viz

import "github.com/charmbracelet/lipgloss"

// Theme defines the report palette
type Theme struct {
	Name      string
	Title     lipgloss.Color
	Heading   lipgloss.Color
	Text      lipgloss.Color
	Muted     lipgloss.Color
	Highlight lipgloss.Color
	Temp      lipgloss.Color
	White     lipgloss.Color
	Black     lipgloss.Color
	Ground    lipgloss.Color
	Stable    lipgloss.Color
	Border    lipgloss.Color
}

var (
	ThemeMeadow = Theme{
		Name:      "meadow",
		Title:     lipgloss.Color("#ffffff"),
		Heading:   lipgloss.Color("#87ceeb"), // sky blue
		Text:      lipgloss.Color("#ffffff"),
		Muted:     lipgloss.Color("#b4b4b4"),
		Highlight: lipgloss.Color("#ffd700"),
		Temp:      lipgloss.Color("#ff5050"),
		White:     lipgloss.Color("#f0f0f0"),
		Black:     lipgloss.Color("#a0a0a0"),
		Ground:    lipgloss.Color("#96785a"),
		Stable:    lipgloss.Color("#64ff64"),
		Border:    lipgloss.Color("#505a64"),
	}

	ThemeMinimal = Theme{
		Name:      "minimal",
		Title:     lipgloss.Color("#ffffff"),
		Heading:   lipgloss.Color("#cccccc"),
		Text:      lipgloss.Color("#ffffff"),
		Muted:     lipgloss.Color("#888888"),
		Highlight: lipgloss.Color("#ffffff"),
		Temp:      lipgloss.Color("#ffffff"),
		White:     lipgloss.Color("#ffffff"),
		Black:     lipgloss.Color("#888888"),
		Ground:    lipgloss.Color("#444444"),
		Stable:    lipgloss.Color("#ffffff"),
		Border:    lipgloss.Color("#888888"),
	}

	Themes = []Theme{
		ThemeMeadow,
		ThemeMinimal,
	}
)

// GetTheme returns a theme by name, falling back to meadow
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeMeadow
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

package viz

import "github.com/charmbracelet/lipgloss"

// Theme defines the color scheme for both the intro/summary and the game grid
type Theme struct {
	Name      string
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Text      lipgloss.Color
	Muted     lipgloss.Color
	Success   lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color

	// game grid
	Sand    lipgloss.Color
	Road    lipgloss.Color
	Vehicle lipgloss.Color
	Status  lipgloss.Color
}

var (
	ThemeDesert = Theme{
		Name:      "desert",
		Primary:   lipgloss.Color("#e0a458"), // Dune
		Secondary: lipgloss.Color("#c97c5d"),
		Accent:    lipgloss.Color("#ffd166"),
		Text:      lipgloss.Color("#fff4e0"),
		Muted:     lipgloss.Color("#8a6d4b"),
		Success:   lipgloss.Color("#8fd16a"),
		Warning:   lipgloss.Color("#ffb347"),
		Error:     lipgloss.Color("#e63946"),
		Sand:      lipgloss.Color("#c2a074"),
		Road:      lipgloss.Color("#808080"),
		Vehicle:   lipgloss.Color("#ffd700"),
		Status:    lipgloss.Color("#ffffff"),
	}

	ThemeNight = Theme{
		Name:      "night",
		Primary:   lipgloss.Color("#4682b4"), // Moonlit
		Secondary: lipgloss.Color("#6a5acd"),
		Accent:    lipgloss.Color("#e0ffff"),
		Text:      lipgloss.Color("#dcdcdc"),
		Muted:     lipgloss.Color("#4f5b66"),
		Success:   lipgloss.Color("#3cb371"),
		Warning:   lipgloss.Color("#daa520"),
		Error:     lipgloss.Color("#dc143c"),
		Sand:      lipgloss.Color("#2f4f4f"),
		Road:      lipgloss.Color("#708090"),
		Vehicle:   lipgloss.Color("#f0e68c"),
		Status:    lipgloss.Color("#b0c4de"),
	}

	ThemeRetro = Theme{
		Name:      "retro",
		Primary:   lipgloss.Color("#00ff00"), // Green phosphor
		Secondary: lipgloss.Color("#00cc00"),
		Accent:    lipgloss.Color("#88ff88"),
		Text:      lipgloss.Color("#00ff00"),
		Muted:     lipgloss.Color("#005500"),
		Success:   lipgloss.Color("#88ff88"),
		Warning:   lipgloss.Color("#ffff00"),
		Error:     lipgloss.Color("#ff0000"),
		Sand:      lipgloss.Color("#006400"),
		Road:      lipgloss.Color("#00cc00"),
		Vehicle:   lipgloss.Color("#adff2f"),
		Status:    lipgloss.Color("#00ff00"),
	}

	Themes = []Theme{
		ThemeDesert,
		ThemeNight,
		ThemeRetro,
	}
)

// GetTheme returns a theme by name, falling back to desert
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeDesert
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

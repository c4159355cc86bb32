package viz

import "github.com/charmbracelet/lipgloss"

// Theme colors the live view.
type Theme struct {
	Name       string
	Particles  lipgloss.Color
	TitleStart lipgloss.Color
	TitleEnd   lipgloss.Color
	Chart      lipgloss.Color
}

var (
	ThemeCyberpunk = Theme{
		Name:       "cyberpunk",
		Particles:  lipgloss.Color("#00ffff"),
		TitleStart: lipgloss.Color("#ff00ff"),
		TitleEnd:   lipgloss.Color("#00ffff"),
		Chart:      lipgloss.Color("#ffff00"),
	}

	ThemeRetroGreen = Theme{
		Name:       "retro",
		Particles:  lipgloss.Color("#00ff00"),
		TitleStart: lipgloss.Color("#00cc00"),
		TitleEnd:   lipgloss.Color("#88ff88"),
		Chart:      lipgloss.Color("#88ff88"),
	}

	ThemeMinimal = Theme{
		Name:       "minimal",
		Particles:  lipgloss.Color("#ffffff"),
		TitleStart: lipgloss.Color("#ffffff"),
		TitleEnd:   lipgloss.Color("#0088ff"),
		Chart:      lipgloss.Color("#cccccc"),
	}

	ThemeOcean = Theme{
		Name:       "ocean",
		Particles:  lipgloss.Color("#00a8cc"),
		TitleStart: lipgloss.Color("#0077be"),
		TitleEnd:   lipgloss.Color("#ffd700"),
		Chart:      lipgloss.Color("#00ff88"),
	}

	ThemeSunset = Theme{
		Name:       "sunset",
		Particles:  lipgloss.Color("#feca57"),
		TitleStart: lipgloss.Color("#ff6b6b"),
		TitleEnd:   lipgloss.Color("#ff9ff3"),
		Chart:      lipgloss.Color("#ffc048"),
	}

	Themes = []Theme{
		ThemeCyberpunk,
		ThemeRetroGreen,
		ThemeMinimal,
		ThemeOcean,
		ThemeSunset,
	}
)

// GetTheme returns a theme by name, falling back to cyberpunk.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeCyberpunk
}

// NextTheme returns the theme after current, wrapping around.
func NextTheme(current Theme) Theme {
	for i, t := range Themes {
		if t.Name == current.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

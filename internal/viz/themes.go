package viz

import "github.com/charmbracelet/lipgloss"

// Theme is the color scheme of the reseeding view.
type Theme struct {
	Name  string
	Path  lipgloss.Color // canvas dots
	Title lipgloss.Color
	Key   lipgloss.Color
	Text  lipgloss.Color
	Muted lipgloss.Color
	Saved lipgloss.Color // stored seed readout

	// sparkline bands, fast to slow
	Fast, Medium, Slow lipgloss.Color
}

var Themes = []Theme{
	{
		Name:   "ice",
		Path:   lipgloss.Color("#9fd8ff"),
		Title:  lipgloss.Color("#e6f6ff"),
		Key:    lipgloss.Color("#ffd75f"),
		Text:   lipgloss.Color("#ffffff"),
		Muted:  lipgloss.Color("#5f87af"),
		Saved:  lipgloss.Color("#ff5f5f"),
		Fast:   lipgloss.Color("#ffffff"),
		Medium: lipgloss.Color("#87d7ff"),
		Slow:   lipgloss.Color("#005f87"),
	},
	{
		Name:   "terrain",
		Path:   lipgloss.Color("#d7af5f"),
		Title:  lipgloss.Color("#afd787"),
		Key:    lipgloss.Color("#ffff87"),
		Text:   lipgloss.Color("#ffffd7"),
		Muted:  lipgloss.Color("#878787"),
		Saved:  lipgloss.Color("#ff5f5f"),
		Fast:   lipgloss.Color("#ff8700"),
		Medium: lipgloss.Color("#d7d75f"),
		Slow:   lipgloss.Color("#5f875f"),
	},
	{
		Name:   "mono",
		Path:   lipgloss.Color("#ffffff"),
		Title:  lipgloss.Color("#ffffff"),
		Key:    lipgloss.Color("#d0d0d0"),
		Text:   lipgloss.Color("#ffffff"),
		Muted:  lipgloss.Color("#808080"),
		Saved:  lipgloss.Color("#bcbcbc"),
		Fast:   lipgloss.Color("#ffffff"),
		Medium: lipgloss.Color("#a8a8a8"),
		Slow:   lipgloss.Color("#585858"),
	},
}

// NextTheme returns the theme after t in Themes, wrapping around.
func NextTheme(t Theme) Theme {
	for i, th := range Themes {
		if th.Name == t.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

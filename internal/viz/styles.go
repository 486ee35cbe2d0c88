package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	title, subtle, label, value, key, warn lipgloss.Style
	saved, panel                           lipgloss.Style
	high, mid, low                         lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		title:  lipgloss.NewStyle().Bold(true).Foreground(t.Title),
		subtle: lipgloss.NewStyle().Foreground(t.Muted),
		label:  lipgloss.NewStyle().Foreground(t.Muted),
		value:  lipgloss.NewStyle().Bold(true).Foreground(t.Text),
		key:    lipgloss.NewStyle().Bold(true).Foreground(t.Key),
		warn:   lipgloss.NewStyle().Bold(true).Foreground(t.Key),
		saved:  lipgloss.NewStyle().Bold(true).Foreground(t.Saved),
		panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Muted).
			Foreground(t.Path),
		high: lipgloss.NewStyle().Foreground(t.Fast),
		mid:  lipgloss.NewStyle().Foreground(t.Medium),
		low:  lipgloss.NewStyle().Foreground(t.Slow),
	}
}

func (s styles) metric(label string, v float64) string {
	return s.label.Render(label+" ") + s.value.Render(fmt.Sprintf("%.4g", v))
}

func (s styles) hints(pairs ...string) string {
	var b strings.Builder
	for i := 0; i+1 < len(pairs); i += 2 {
		if i > 0 {
			b.WriteString("  ")
		}
		b.WriteString(s.key.Render(pairs[i]) + s.subtle.Render(" "+pairs[i+1]))
	}
	return b.String()
}

// sparkline renders values scaled between their min and max, resampled to
// width cells.
func (s styles) sparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return strings.Repeat("─", max(width, 0))
	}
	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo, hi = min(lo, v), max(hi, v)
	}
	rng := hi - lo
	if rng == 0 {
		rng = 1
	}

	step := len(values) / width
	if step < 1 {
		step = 1
	}

	var b strings.Builder
	for i := 0; i < width && i*step < len(values); i++ {
		norm := (values[i*step] - lo) / rng
		idx := int(norm * float64(len(chars)-1))
		idx = min(max(idx, 0), len(chars)-1)
		c := string(chars[idx])
		switch {
		case norm > 0.7:
			b.WriteString(s.high.Render(c))
		case norm > 0.3:
			b.WriteString(s.mid.Render(c))
		default:
			b.WriteString(s.low.Render(c))
		}
	}
	return b.String()
}

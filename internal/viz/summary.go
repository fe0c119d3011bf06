package viz

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/desertbus/internal/dynamo"
)

// SessionSummary is everything printed after the terminal is released.
type SessionSummary struct {
	Phase     dynamo.Phase
	Stats     dynamo.Stats
	Ticks     int
	Miles     float64
	TripMiles float64
	Metrics   map[string]float64
	Speed     []float64
	Lateral   []float64
}

func Summary(t Theme, s SessionSummary) string {
	st := NewStyles(t)
	var b strings.Builder

	switch s.Phase {
	case dynamo.PhaseFinished:
		b.WriteString(st.Good.Render("ARRIVED") + "\n\n")
	default:
		b.WriteString(st.Title.Render("Session over") + "\n\n")
	}

	row := func(label, value string) {
		b.WriteString(st.MetricLabel.Render(label) + st.MetricValue.Render(value) + "\n")
	}
	row("Score", fmt.Sprintf("%d:%d", s.Stats.Trips, s.Stats.Crashes))
	row("Ticks", fmt.Sprintf("%d", s.Ticks))
	row("Odometer", fmt.Sprintf("%.2fmi", s.Miles))

	if s.TripMiles > 0 {
		b.WriteString(st.MetricLabel.Render("Progress") + st.Graph.Render(ProgressBar(s.Miles/s.TripMiles, 30)) + "\n")
	}

	names := make([]string, 0, len(s.Metrics))
	for name := range s.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		row(name, fmt.Sprintf("%.3f", s.Metrics[name]))
	}

	var charts []string
	if c := Plot(s.Speed, "speed"); c != "" {
		charts = append(charts, st.Graph.Render(c))
	}
	if c := Plot(s.Lateral, "lateral"); c != "" {
		charts = append(charts, st.Graph.Render(c))
	}
	if len(charts) > 0 {
		b.WriteString("\n" + lipgloss.JoinVertical(lipgloss.Left, charts...))
	}

	return st.Panel.Render(b.String())
}

// Plot renders a small asciigraph chart; it is empty for fewer than two points.
func Plot(series []float64, caption string) string {
	if len(series) < 2 {
		return ""
	}
	return asciigraph.Plot(series,
		asciigraph.Height(6),
		asciigraph.Width(60),
		asciigraph.Caption(caption))
}

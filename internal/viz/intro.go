package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var introText = []string{
	"All the extended gameplay you love, in a terminal-friendly format.",
	"The road is long and straight. The bus pulls to the right.",
	"Leave the road too slowly and you crash back to the start.",
	"",
	"Up/down to accelerate/brake, left/right to steer (or h j k l).",
	"q or Esc quits at any time.",
}

// IntroInfo is shown under the intro text.
type IntroInfo struct {
	Preset    string
	Seed      int64
	Autopilot bool
	Miles     float64
}

// Intro is the pre-game screen. Enter begins the drive; q or Esc aborts.
type Intro struct {
	info     IntroInfo
	styles   Styles
	theme    Theme
	width    int
	Accepted bool
}

func NewIntro(t Theme, info IntroInfo) Intro {
	return Intro{info: info, styles: NewStyles(t), theme: t, width: 80}
}

func (m Intro) Init() tea.Cmd { return nil }

func (m Intro) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter", " ":
			m.Accepted = true
			return m, tea.Quit
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
	}
	return m, nil
}

func (m Intro) View() string {
	var b strings.Builder
	b.WriteString(GradientText("D E S E R T   B U S", m.theme.Primary, m.theme.Secondary))
	b.WriteString("\n\n")
	for _, line := range introText {
		b.WriteString(line + "\n")
	}
	b.WriteString("\n")

	mode := "manual"
	if m.info.Autopilot {
		mode = "autopilot"
	}
	row := func(label, value string) {
		b.WriteString(m.styles.MetricLabel.Render(label) + m.styles.MetricValue.Render(value) + "\n")
	}
	row("Preset", m.info.Preset)
	row("Seed", fmt.Sprintf("%d", m.info.Seed))
	row("Trip", fmt.Sprintf("%.0fmi", m.info.Miles))
	row("Driver", mode)
	b.WriteString("\n" + m.styles.KeyHint.Render("enter: start   q: quit"))

	panel := m.styles.Panel
	if m.width > 8 {
		panel = panel.MaxWidth(m.width)
	}
	return lipgloss.JoinVertical(lipgloss.Left, panel.Render(b.String())) + "\n"
}

// RunIntro shows the intro and reports whether the player chose to start.
func RunIntro(t Theme, info IntroInfo, opts ...tea.ProgramOption) (bool, error) {
	final, err := tea.NewProgram(NewIntro(t, info), opts...).Run()
	if err != nil {
		return false, fmt.Errorf("intro: %w", err)
	}
	return final.(Intro).Accepted, nil
}

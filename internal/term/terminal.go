package term

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/gdamore/tcell/v2"
	"github.com/san-kum/desertbus/internal/dynamo"
	"github.com/san-kum/desertbus/internal/viz"
)

const eventBuffer = 64

type palette struct {
	sand, road, vehicle, status tcell.Style
}

func newPalette(t viz.Theme) palette {
	base := tcell.StyleDefault
	return palette{
		sand:    base.Foreground(color(t.Sand)),
		road:    base.Foreground(color(t.Road)).Bold(true),
		vehicle: base.Foreground(color(t.Vehicle)).Bold(true),
		status:  base.Foreground(color(t.Status)),
	}
}

func color(c lipgloss.Color) tcell.Color {
	return tcell.GetColor(string(c))
}

// Terminal is a tcell-backed game.Screen and game.InputSource.
type Terminal struct {
	screen   tcell.Screen
	pal      palette
	row, col int

	// glyph runes are drawn in the vehicle color
	vehicle map[rune]bool

	events chan tcell.Event
	done   chan struct{}
	once   sync.Once
}

// Open creates and initializes the real terminal screen.
func Open(t viz.Theme, glyph []string) (*Terminal, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("new screen: %w", err)
	}
	return New(s, t, glyph)
}

// New takes ownership of s, initializing it and starting the event pump.
func New(s tcell.Screen, t viz.Theme, glyph []string) (*Terminal, error) {
	if err := s.Init(); err != nil {
		return nil, fmt.Errorf("init screen: %w", err)
	}
	s.Clear()
	s.HideCursor()

	term := &Terminal{
		screen:  s,
		pal:     newPalette(t),
		vehicle: make(map[rune]bool),
		events:  make(chan tcell.Event, eventBuffer),
		done:    make(chan struct{}),
	}
	for _, line := range glyph {
		for _, r := range line {
			term.vehicle[r] = true
		}
	}
	go term.pump()
	return term, nil
}

func (t *Terminal) pump() {
	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case t.events <- ev:
		case <-t.done:
			return
		}
	}
}

func (t *Terminal) Size() (rows, cols int) {
	cols, rows = t.screen.Size()
	return rows, cols
}

func (t *Terminal) Move(row, col int) {
	t.row, t.col = row, col
}

// Write puts text at the cursor and advances it. Cells outside the grid are dropped.
func (t *Terminal) Write(text string) {
	cols, rows := t.screen.Size()
	for _, r := range text {
		if t.row >= 0 && t.row < rows && t.col >= 0 && t.col < cols {
			t.screen.SetContent(t.col, t.row, r, nil, t.styleFor(r))
		}
		t.col++
	}
}

func (t *Terminal) styleFor(r rune) tcell.Style {
	switch {
	case r == '#':
		return t.pal.road
	case t.vehicle[r]:
		return t.pal.vehicle
	case r == '.' || r == ',' || r == ' ':
		return t.pal.sand
	}
	return t.pal.status
}

func (t *Terminal) Refresh() error {
	t.screen.Show()
	return nil
}

// Poll returns the next mapped key without blocking. Resizes resync the
// screen; unmapped keys and other events are skipped.
func (t *Terminal) Poll() (dynamo.Signal, bool) {
	for {
		select {
		case ev := <-t.events:
			switch e := ev.(type) {
			case *tcell.EventResize:
				t.screen.Sync()
			case *tcell.EventKey:
				if sig, ok := KeySignal(e); ok {
					return sig, true
				}
			}
		default:
			return 0, false
		}
	}
}

// Close restores the terminal. It is safe to call more than once.
func (t *Terminal) Close() {
	t.once.Do(func() {
		close(t.done)
		t.screen.Fini()
	})
}

// KeySignal maps a key event to a signal.
func KeySignal(e *tcell.EventKey) (dynamo.Signal, bool) {
	switch e.Key() {
	case tcell.KeyLeft:
		return dynamo.SignalLeft, true
	case tcell.KeyRight:
		return dynamo.SignalRight, true
	case tcell.KeyUp:
		return dynamo.SignalUp, true
	case tcell.KeyDown:
		return dynamo.SignalDown, true
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return dynamo.SignalQuit, true
	case tcell.KeyRune:
		switch e.Rune() {
		case 'h':
			return dynamo.SignalLeft, true
		case 'l':
			return dynamo.SignalRight, true
		case 'k':
			return dynamo.SignalUp, true
		case 'j':
			return dynamo.SignalDown, true
		case 'q', 'Q':
			return dynamo.SignalQuit, true
		}
	}
	return 0, false
}

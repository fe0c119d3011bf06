package term

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	. "github.com/onsi/gomega"
	"github.com/san-kum/desertbus/internal/dynamo"
	"github.com/san-kum/desertbus/internal/viz"
)

func newSim(t *testing.T) (*Terminal, tcell.SimulationScreen) {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	term, err := New(s, viz.ThemeDesert, []string{"**", "!!"})
	if err != nil {
		t.Fatalf("new terminal: %v", err)
	}
	s.SetSize(40, 10)
	t.Cleanup(term.Close)
	return term, s
}

func TestKeySignal(t *testing.T) {
	g := NewWithT(t)
	tests := []struct {
		ev   *tcell.EventKey
		want dynamo.Signal
	}{
		{tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone), dynamo.SignalLeft},
		{tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModNone), dynamo.SignalRight},
		{tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone), dynamo.SignalUp},
		{tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModNone), dynamo.SignalDown},
		{tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), dynamo.SignalQuit},
		{tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl), dynamo.SignalQuit},
		{tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone), dynamo.SignalQuit},
		{tcell.NewEventKey(tcell.KeyRune, 'Q', tcell.ModNone), dynamo.SignalQuit},
		{tcell.NewEventKey(tcell.KeyRune, 'h', tcell.ModNone), dynamo.SignalLeft},
		{tcell.NewEventKey(tcell.KeyRune, 'j', tcell.ModNone), dynamo.SignalDown},
	}
	for _, tt := range tests {
		sig, ok := KeySignal(tt.ev)
		g.Expect(ok).To(BeTrue(), tt.ev.Name())
		g.Expect(sig).To(Equal(tt.want), tt.ev.Name())
	}

	_, ok := KeySignal(tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone))
	g.Expect(ok).To(BeFalse())
}

func TestPollInjectedKeys(t *testing.T) {
	g := NewWithT(t)
	term, s := newSim(t)

	_, ok := term.Poll()
	g.Expect(ok).To(BeFalse())

	s.InjectKey(tcell.KeyRune, 'x', tcell.ModNone)
	s.InjectKey(tcell.KeyLeft, 0, tcell.ModNone)

	g.Eventually(func() bool {
		sig, ok := term.Poll()
		return ok && sig == dynamo.SignalLeft
	}, time.Second, 5*time.Millisecond).Should(BeTrue())
}

func TestWriteClipsToGrid(t *testing.T) {
	g := NewWithT(t)
	term, s := newSim(t)

	rows, cols := term.Size()
	g.Expect(rows).To(Equal(10))
	g.Expect(cols).To(Equal(40))

	term.Move(2, 38)
	term.Write("#**#")
	term.Move(-1, 0)
	term.Write("hidden")
	g.Expect(term.Refresh()).To(Succeed())

	cells, w, _ := s.GetContents()
	at := func(row, col int) rune { return cells[row*w+col].Runes[0] }
	g.Expect(at(2, 38)).To(Equal('#'))
	g.Expect(at(2, 39)).To(Equal('*'))
}

func TestStyleFor(t *testing.T) {
	g := NewWithT(t)
	term, _ := newSim(t)

	g.Expect(term.styleFor('#')).To(Equal(term.pal.road))
	g.Expect(term.styleFor('!')).To(Equal(term.pal.vehicle))
	g.Expect(term.styleFor('.')).To(Equal(term.pal.sand))
	g.Expect(term.styleFor('S')).To(Equal(term.pal.status))
}

func TestCloseIsIdempotent(t *testing.T) {
	term, _ := newSim(t)
	term.Close()
	term.Close()
}

package control

import "github.com/san-kum/desertbus/internal/dynamo"

// Script replays a fixed list of signals per tick. Each tick's list ends
// with a "nothing pending" report; after the last tick the script either
// stays silent or, with QuitAtEnd, reports quit.
type Script struct {
	Ticks     [][]dynamo.Signal
	QuitAtEnd bool
	tick, pos int
}

func NewScript(ticks [][]dynamo.Signal) *Script {
	return &Script{Ticks: ticks}
}

// Repeat builds a script of n identical ticks.
func Repeat(n int, signals ...dynamo.Signal) [][]dynamo.Signal {
	ticks := make([][]dynamo.Signal, n)
	for i := range ticks {
		ticks[i] = signals
	}
	return ticks
}

func (s *Script) Poll() (dynamo.Signal, bool) {
	if s.tick >= len(s.Ticks) {
		if s.QuitAtEnd {
			return dynamo.SignalQuit, true
		}
		return 0, false
	}
	cur := s.Ticks[s.tick]
	if s.pos < len(cur) {
		sig := cur[s.pos]
		s.pos++
		return sig, true
	}
	s.tick++
	s.pos = 0
	return 0, false
}

// Done reports whether every scripted tick has been drained.
func (s *Script) Done() bool {
	return s.tick >= len(s.Ticks)
}

// None never signals.
type None struct{}

func (None) Poll() (dynamo.Signal, bool) { return 0, false }

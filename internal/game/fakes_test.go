package game_test

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/san-kum/desertbus/internal/dynamo"
)

type fakeScreen struct {
	rows, cols int
	grid       [][]rune
	row, col   int
	refreshes  int
	writes     []string
}

func newFakeScreen(rows, cols int) *fakeScreen {
	g := make([][]rune, rows)
	for i := range g {
		g[i] = []rune(strings.Repeat(" ", cols))
	}
	return &fakeScreen{rows: rows, cols: cols, grid: g}
}

func (f *fakeScreen) Size() (int, int)    { return f.rows, f.cols }
func (f *fakeScreen) Move(row, col int)   { f.row, f.col = row, col }
func (f *fakeScreen) Refresh() error      { f.refreshes++; return nil }
func (f *fakeScreen) Line(row int) string { return string(f.grid[row]) }

func (f *fakeScreen) Write(text string) {
	f.writes = append(f.writes, text)
	col := f.col
	for _, r := range text {
		if f.row >= 0 && f.row < f.rows && col >= 0 && col < f.cols {
			f.grid[f.row][col] = r
		}
		col++
	}
	f.col += utf8.RuneCountInString(text)
}

func (f *fakeScreen) At(row, col int) rune { return f.grid[row][col] }

type fakeClock struct {
	now    time.Time
	step   time.Duration
	sleeps []time.Duration
}

func newFakeClock(step time.Duration) *fakeClock {
	return &fakeClock{now: time.Unix(0, 0), step: step}
}

func (c *fakeClock) Now() time.Time {
	t := c.now
	c.now = c.now.Add(c.step)
	return t
}

func (c *fakeClock) Sleep(d time.Duration) {
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
}

type intentLog struct {
	intents []dynamo.Intent
	states  []dynamo.State
}

func (l *intentLog) OnTick(_ int, s dynamo.State, in dynamo.Intent) {
	l.intents = append(l.intents, in)
	l.states = append(l.states, s)
}

package game

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/san-kum/desertbus/internal/dynamo"
	"github.com/san-kum/desertbus/internal/terrain"
)

const (
	crashNotice  = " CRASHED! "
	arriveNotice = " ARRIVED! "
	noticeRow    = 3
)

// render paints background, road, vehicle and status, in that order.
func (l *Loop) render(s dynamo.State) {
	rows, cols := l.screen.Size()
	if rows <= 0 || cols <= 0 {
		return
	}
	mid := cols / 2

	for r := 0; r < rows; r++ {
		l.screen.Move(r, 0)
		l.screen.Write(string(l.sess.Terrain.Row(terrain.ScrollIndex(r, s.Distance), cols)))
	}

	width := l.veh.Params().RoadWidth
	road := "#" + strings.Repeat(" ", width) + "#"
	for r := 0; r < rows; r++ {
		l.screen.Move(r, mid-width/2)
		l.screen.Write(road)
	}

	col := int(math.Floor(float64(mid) + s.Lateral))
	for i, line := range l.opts.Glyph {
		l.screen.Move(rows/2+i, col)
		l.screen.Write(line)
	}

	for i, line := range l.StatusLines(s) {
		l.screen.Move(1+i, 0)
		l.screen.Write(line)
	}
}

// StatusLines are the score, speed, odometer and heading readouts.
func (l *Loop) StatusLines(s dynamo.State) []string {
	mph := l.veh.EffectiveSpeed(s.Speed) * l.opts.MPHPerUnit
	miles := s.Distance * l.opts.MilesPerUnit
	return []string{
		fmt.Sprintf(" Score: %d:%d ", l.sess.Stats.Trips, l.sess.Stats.Crashes),
		fmt.Sprintf(" Speed: %.2fmph ", mph),
		fmt.Sprintf(" Odometer: %.2fmi ", miles),
		fmt.Sprintf(" Heading: %+.1f° ", s.Heading*180/math.Pi),
	}
}

func (l *Loop) notice(text string) {
	_, cols := l.screen.Size()
	l.screen.Move(noticeRow, cols/2-utf8.RuneCountInString(text)/2)
	l.screen.Write(text)
}

package game

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/san-kum/desertbus/internal/dynamo"
	"github.com/san-kum/desertbus/internal/metrics"
	"github.com/san-kum/desertbus/internal/physics"
)

// InputSource yields pending signals without blocking. ok is false once
// nothing more is pending right now.
type InputSource interface {
	Poll() (sig dynamo.Signal, ok bool)
}

// StateAware sources see the state before each drain.
type StateAware interface {
	Sync(s dynamo.State)
}

// Resetter sources are reset at the start of every attempt.
type Resetter interface {
	Reset()
}

// Screen is a character grid. Writes past the edges are clipped.
type Screen interface {
	Size() (rows, cols int)
	Move(row, col int)
	Write(text string)
	Refresh() error
}

type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

// SystemClock relies on the monotonic reading carried by time.Now.
type SystemClock struct{}

func (SystemClock) Now() time.Time        { return time.Now() }
func (SystemClock) Sleep(d time.Duration) { time.Sleep(d) }

type Observer interface {
	OnTick(tick int, s dynamo.State, in dynamo.Intent)
}

type Result struct {
	Phase   dynamo.Phase
	Stats   dynamo.Stats
	Ticks   int
	Last    dynamo.State
	Metrics map[string]float64
}

type Loop struct {
	sess      *Session
	veh       *physics.Vehicle
	input     InputSource
	screen    Screen
	clock     Clock
	opts      Options
	log       zerolog.Logger
	metrics   []dynamo.Metric
	observers []Observer
	ticks     int
	last      dynamo.State
}

func NewLoop(sess *Session, veh *physics.Vehicle, input InputSource, screen Screen, opts Options) *Loop {
	return &Loop{
		sess:   sess,
		veh:    veh,
		input:  input,
		screen: screen,
		clock:  SystemClock{},
		opts:   opts,
		log:    zerolog.Nop(),
	}
}

func (l *Loop) SetClock(c Clock)             { l.clock = c }
func (l *Loop) SetLogger(log zerolog.Logger) { l.log = log }
func (l *Loop) AddMetric(m dynamo.Metric)    { l.metrics = append(l.metrics, m) }
func (l *Loop) AddObserver(o Observer)       { l.observers = append(l.observers, o) }

// Run drives attempts until the player quits, arrives, or ctx is done.
func (l *Loop) Run(ctx context.Context) (*Result, error) {
	res := &Result{Metrics: make(map[string]float64)}
	l.log.Info().Int64("seed", l.sess.Seed).Msg("session started")

	for attempt := 1; ; attempt++ {
		phase, err := l.attempt(ctx)

		res.Stats = l.sess.Stats
		res.Ticks = l.ticks
		res.Last = l.last
		res.Metrics = metrics.Snapshot(l.metrics)
		l.logAttempt(attempt, phase, res.Metrics)

		if err != nil {
			res.Phase = dynamo.PhaseQuit
			return res, err
		}
		if phase.Terminal() {
			res.Phase = phase
			return res, nil
		}
	}
}

func (l *Loop) attempt(ctx context.Context) (dynamo.Phase, error) {
	var s dynamo.State
	metrics.ResetAll(l.metrics)
	if r, ok := l.input.(Resetter); ok {
		r.Reset()
	}

	for {
		select {
		case <-ctx.Done():
			return dynamo.PhaseQuit, ctx.Err()
		default:
		}

		start := l.clock.Now()

		if sa, ok := l.input.(StateAware); ok {
			sa.Sync(s)
		}
		in, quit := l.drain()
		if quit {
			return dynamo.PhaseQuit, nil
		}

		next, outcome := l.veh.Step(s, in)
		l.ticks++
		for _, m := range l.metrics {
			m.Observe(next, in)
		}
		for _, o := range l.observers {
			o.OnTick(l.ticks, next, in)
		}

		switch outcome {
		case dynamo.Crashed:
			l.notice(crashNotice)
			if err := l.screen.Refresh(); err != nil {
				return dynamo.PhaseQuit, l.tickError(s, err)
			}
			l.log.Debug().Str("state", s.String()).Msg("crashed")
			l.clock.Sleep(l.opts.CrashDelay)
			l.sess.Stats.Crashes++
			return dynamo.PhaseCrashed, nil

		case dynamo.Finished:
			l.sess.Stats.Trips++
			l.last = next
			l.render(next)
			l.notice(arriveNotice)
			if err := l.screen.Refresh(); err != nil {
				return dynamo.PhaseFinished, l.tickError(next, err)
			}
			return dynamo.PhaseFinished, nil
		}

		s = next
		l.last = s
		l.render(s)
		if err := l.screen.Refresh(); err != nil {
			return dynamo.PhaseQuit, l.tickError(s, err)
		}

		if wait := l.opts.TickInterval - l.clock.Now().Sub(start); wait > 0 {
			l.clock.Sleep(wait)
		}
	}
}

func (l *Loop) tickError(s dynamo.State, err error) error {
	return &dynamo.TickError{Tick: l.ticks, State: s, Wrapped: fmt.Errorf("refresh: %w", err)}
}

// drain applies every pending signal; the last steer and last throttle win.
func (l *Loop) drain() (dynamo.Intent, bool) {
	var in dynamo.Intent
	for {
		sig, ok := l.input.Poll()
		if !ok {
			return in, false
		}
		if sig == dynamo.SignalQuit {
			return in, true
		}
		in = in.Apply(sig)
	}
}

func (l *Loop) logAttempt(n int, phase dynamo.Phase, snap map[string]float64) {
	ev := l.log.Info().
		Int("attempt", n).
		Str("phase", phase.String()).
		Int("trips", l.sess.Stats.Trips).
		Int("crashes", l.sess.Stats.Crashes).
		Int("ticks", l.ticks)
	for name, v := range snap {
		ev = ev.Float64(name, v)
	}
	ev.Msg("attempt ended")
}

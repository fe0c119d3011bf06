package game_test

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/desertbus/internal/config"
	"github.com/san-kum/desertbus/internal/control"
	"github.com/san-kum/desertbus/internal/dynamo"
	"github.com/san-kum/desertbus/internal/game"
	"github.com/san-kum/desertbus/internal/physics"
)

const (
	tick  = 50 * time.Millisecond
	pause = 5 * time.Second
)

var _ = Describe("Loop", func() {
	var (
		params physics.Params
		screen *fakeScreen
		clock  *fakeClock
		sess   *game.Session
		opts   game.Options
		log    *intentLog
	)

	newLoop := func(input game.InputSource) *game.Loop {
		l := game.NewLoop(sess, physics.NewVehicle(params), input, screen, opts)
		l.SetClock(clock)
		l.AddObserver(log)
		return l
	}

	BeforeEach(func() {
		params = physics.DefaultParams()
		screen = newFakeScreen(24, 80)
		clock = newFakeClock(0)
		sess = game.NewSession(42, "  .,", time.Unix(0, 0))
		cfg := config.DefaultConfig()
		opts = game.OptionsFromConfig(cfg)
		opts.TickInterval = tick
		opts.CrashDelay = pause
		log = &intentLog{}
	})

	Context("when quit arrives mid-drain", func() {
		It("returns before any physics step or sleep", func() {
			script := control.NewScript([][]dynamo.Signal{
				{dynamo.SignalLeft, dynamo.SignalQuit, dynamo.SignalUp},
			})
			res, err := newLoop(script).Run(context.Background())

			Expect(err).NotTo(HaveOccurred())
			Expect(res.Phase).To(Equal(dynamo.PhaseQuit))
			Expect(res.Ticks).To(BeZero())
			Expect(res.Stats).To(Equal(dynamo.Stats{}))
			Expect(clock.sleeps).To(BeEmpty())
			Expect(screen.refreshes).To(BeZero())
		})
	})

	Context("when several signals arrive in one tick", func() {
		It("keeps the last steer and the last throttle", func() {
			script := control.NewScript([][]dynamo.Signal{
				{dynamo.SignalLeft, dynamo.SignalUp, dynamo.SignalRight, dynamo.SignalDown, dynamo.SignalUp},
			})
			script.QuitAtEnd = true
			res, err := newLoop(script).Run(context.Background())

			Expect(err).NotTo(HaveOccurred())
			Expect(res.Ticks).To(Equal(1))
			Expect(log.intents).To(Equal([]dynamo.Intent{{Steer: 1, Throttle: 1}}))
		})
	})

	Context("pacing", func() {
		It("sleeps the remainder of each tick", func() {
			clock.step = 20 * time.Millisecond
			script := control.NewScript(control.Repeat(3, dynamo.SignalUp))
			script.QuitAtEnd = true
			res, err := newLoop(script).Run(context.Background())

			Expect(err).NotTo(HaveOccurred())
			Expect(res.Ticks).To(Equal(3))
			Expect(clock.sleeps).To(HaveLen(3))
			for _, d := range clock.sleeps {
				Expect(d).To(Equal(tick - clock.step))
			}
		})

		It("does not sleep or catch up when a tick overruns", func() {
			clock.step = 3 * tick
			script := control.NewScript(control.Repeat(3, dynamo.SignalUp))
			script.QuitAtEnd = true
			_, err := newLoop(script).Run(context.Background())

			Expect(err).NotTo(HaveOccurred())
			Expect(clock.sleeps).To(BeEmpty())
		})
	})

	Context("when the vehicle crashes", func() {
		BeforeEach(func() {
			params.RoadWidth = 2
			params.AngleDelta = math.Pi / 4
			params.AngleLean = 0
		})

		It("pauses, counts the crash and restarts from rest", func() {
			script := control.NewScript([][]dynamo.Signal{
				{dynamo.SignalUp, dynamo.SignalLeft},
				{},
				{},
			})
			script.QuitAtEnd = true
			res, err := newLoop(script).Run(context.Background())

			Expect(err).NotTo(HaveOccurred())
			Expect(res.Phase).To(Equal(dynamo.PhaseQuit))
			Expect(res.Stats).To(Equal(dynamo.Stats{Crashes: 1}))
			Expect(clock.sleeps).To(Equal([]time.Duration{tick, pause, tick}))
			Expect(screen.writes).To(ContainElement(" CRASHED! "))

			// third tick runs in a fresh attempt from the zero state
			Expect(log.states).To(HaveLen(3))
			Expect(log.states[2]).To(Equal(dynamo.State{Heading: 0}))
		})
	})

	Context("when the trip length is reached", func() {
		It("counts the trip and ends the session", func() {
			params.TripLength = 0.004
			script := control.NewScript(control.Repeat(10, dynamo.SignalUp))
			res, err := newLoop(script).Run(context.Background())

			Expect(err).NotTo(HaveOccurred())
			Expect(res.Phase).To(Equal(dynamo.PhaseFinished))
			Expect(res.Stats).To(Equal(dynamo.Stats{Trips: 1}))
			Expect(res.Ticks).To(Equal(1))
			Expect(screen.Line(3)).To(ContainSubstring("ARRIVED!"))
		})
	})

	Context("when the context is cancelled", func() {
		It("stops with the context error", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			_, err := newLoop(control.None{}).Run(ctx)
			Expect(err).To(MatchError(context.Canceled))
		})
	})

	Describe("rendering", func() {
		It("overlays road, glyph and status on the terrain", func() {
			script := control.NewScript(control.Repeat(2, dynamo.SignalUp))
			script.QuitAtEnd = true
			_, err := newLoop(script).Run(context.Background())
			Expect(err).NotTo(HaveOccurred())

			mid := 40
			for r := 0; r < 24; r++ {
				if r >= 1 && r <= 4 {
					continue
				}
				Expect(screen.At(r, mid-10)).To(Equal('#'), "row %d", r)
				Expect(screen.At(r, mid+11)).To(Equal('#'), "row %d", r)
			}
			Expect(screen.Line(12)[mid : mid+2]).To(Equal("**"))
			Expect(screen.Line(13)[mid : mid+2]).To(Equal("!!"))
			Expect(screen.Line(14)[mid : mid+2]).To(Equal("!!"))
			Expect(strings.HasPrefix(screen.Line(1), " Score: 0:0 ")).To(BeTrue())
			Expect(screen.Line(2)).To(ContainSubstring("mph"))
			Expect(screen.Line(3)).To(ContainSubstring("Odometer"))
			Expect(screen.refreshes).To(Equal(2))
		})

		It("reports speed and distance in road units", func() {
			l := newLoop(control.None{})
			lines := l.StatusLines(dynamo.State{Speed: 2.1, Distance: 2 * 3600 / 0.05})
			Expect(lines[1]).To(Equal(" Speed: 45.00mph "))
			Expect(lines[2]).To(Equal(" Odometer: 45.00mi "))
			Expect(lines[3]).To(Equal(" Heading: +0.0° "))
		})
	})

	Describe("Recorder", func() {
		It("samples every nth tick", func() {
			rec := game.NewRecorder(2)
			for i := 1; i <= 5; i++ {
				rec.OnTick(i, dynamo.State{Speed: float64(i)}, dynamo.Intent{})
			}
			Expect(rec.Speed).To(Equal([]float64{2, 4}))
		})
	})
})

type failingScreen struct{ *fakeScreen }

func (failingScreen) Refresh() error { return errors.New("tty gone") }

var _ = Describe("Loop refresh failures", func() {
	It("reports the tick the screen failed on", func() {
		sess := game.NewSession(1, "  .,", time.Unix(0, 0))
		opts := game.OptionsFromConfig(config.DefaultConfig())
		script := control.NewScript(control.Repeat(5, dynamo.SignalUp))
		l := game.NewLoop(sess, physics.NewVehicle(physics.DefaultParams()), script, failingScreen{newFakeScreen(24, 80)}, opts)
		l.SetClock(newFakeClock(0))

		_, err := l.Run(context.Background())
		var tickErr *dynamo.TickError
		Expect(errors.As(err, &tickErr)).To(BeTrue())
		Expect(tickErr.Tick).To(Equal(1))
		Expect(err).To(MatchError(ContainSubstring("tty gone")))
	})
})

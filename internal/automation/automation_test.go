package automation_test

import (
	"context"
	"math"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/desertbus/internal/automation"
	"github.com/san-kum/desertbus/internal/config"
	"github.com/san-kum/desertbus/internal/control"
	"github.com/san-kum/desertbus/internal/dynamo"
	"github.com/san-kum/desertbus/internal/metrics"
	"github.com/san-kum/desertbus/internal/physics"
)

const plateauYAML = `
name: plateau
description: hold the throttle on a dragless road
params:
  speed_delta: 0.02
  speed_drag: 0
  speed_overreach: 0
  angle_lean: 0
segments:
  - ticks: 150
    throttle: 1
`

var _ = Describe("Scenario", func() {
	It("parses segments and fills in the tick count", func() {
		sc, err := automation.ParseScenario([]byte(plateauYAML))
		Expect(err).NotTo(HaveOccurred())
		Expect(sc.Name).To(Equal("plateau"))
		Expect(sc.Segments).To(HaveLen(1))
		Expect(sc.Ticks()).To(Equal(150))
		Expect(sc.Params).To(HaveKeyWithValue("speed_drag", 0.0))
	})

	It("loads from a file", func() {
		path := filepath.Join(GinkgoT().TempDir(), "plateau.yaml")
		Expect(os.WriteFile(path, []byte(plateauYAML), 0644)).To(Succeed())
		sc, err := automation.LoadScenario(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(sc.Description).To(ContainSubstring("throttle"))
	})

	DescribeTable("rejects bad scenarios",
		func(doc string) {
			_, err := automation.ParseScenario([]byte(doc))
			Expect(err).To(HaveOccurred())
		},
		Entry("no segments", "name: empty\n"),
		Entry("zero ticks", "segments:\n  - ticks: 0\n"),
		Entry("steer out of range", "segments:\n  - ticks: 1\n    steer: 2\n"),
		Entry("not yaml", "segments: [[["),
	)

	It("expands segments into per-tick signals", func() {
		sc := &automation.Scenario{Segments: []automation.Segment{
			{Ticks: 2, Throttle: 1},
			{Ticks: 1, Steer: -1, Throttle: -1},
		}}
		script := sc.Script()
		Expect(script.Ticks).To(Equal([][]dynamo.Signal{
			{dynamo.SignalUp},
			{dynamo.SignalUp},
			{dynamo.SignalLeft, dynamo.SignalDown},
		}))
	})
})

var _ = Describe("Run", func() {
	var params physics.Params

	BeforeEach(func() {
		params = physics.DefaultParams()
	})

	It("records the initial state and one state per tick", func() {
		src := control.NewScript(control.Repeat(20, dynamo.SignalUp))
		tr, err := automation.Run(context.Background(), physics.NewVehicle(params), src, 20, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(tr.Ticks).To(Equal(20))
		Expect(tr.States).To(HaveLen(21))
		Expect(tr.Intents).To(HaveLen(20))
		Expect(tr.States[0]).To(Equal(dynamo.State{}))

		for i := 1; i < len(tr.States); i++ {
			Expect(tr.States[i].Distance).To(BeNumerically(">=", tr.States[i-1].Distance))
			Expect(tr.States[i].Speed).To(BeNumerically(">=", 0))
		}
	})

	It("restarts from rest after a crash", func() {
		params.RoadWidth = 2
		params.AngleDelta = math.Pi / 4
		params.AngleLean = 0
		src := control.NewScript([][]dynamo.Signal{
			{dynamo.SignalUp, dynamo.SignalLeft},
			{},
			{},
		})
		tr, err := automation.Run(context.Background(), physics.NewVehicle(params), src, 3, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(tr.Crashes).To(Equal(1))
		Expect(tr.States[2]).To(Equal(dynamo.State{}))
		Expect(tr.Outcome).To(Equal(dynamo.Continue))
	})

	It("stops on arrival", func() {
		params.TripLength = 1
		src := control.NewScript(control.Repeat(1000, dynamo.SignalUp))
		tr, err := automation.Run(context.Background(), physics.NewVehicle(params), src, 1000, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(tr.Outcome).To(Equal(dynamo.Finished))
		Expect(tr.Final().Distance).To(BeNumerically(">=", 1))
		Expect(tr.Ticks).To(BeNumerically("<", 1000))
	})

	It("stops on quit", func() {
		src := control.NewScript(control.Repeat(3, dynamo.SignalUp))
		src.QuitAtEnd = true
		tr, err := automation.Run(context.Background(), physics.NewVehicle(params), src, 100, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(tr.Quit).To(BeTrue())
		Expect(tr.Ticks).To(Equal(3))
	})

	It("honors cancellation", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := automation.Run(ctx, physics.NewVehicle(params), control.None{}, 10, nil)
		Expect(err).To(MatchError(context.Canceled))
	})

	It("rejects a non-positive tick budget", func() {
		_, err := automation.Run(context.Background(), physics.NewVehicle(params), control.None{}, 0, nil)
		Expect(err).To(HaveOccurred())
	})

	It("reaches and holds the top speed on a dragless road", func() {
		sc, err := automation.ParseScenario([]byte(plateauYAML))
		Expect(err).NotTo(HaveOccurred())
		tr, err := automation.RunScenario(context.Background(), sc, config.DefaultConfig())
		Expect(err).NotTo(HaveOccurred())

		speeds := tr.Series(func(s dynamo.State) float64 { return s.Speed })
		// 0.02 per tick reaches 2 after 100 ticks
		Expect(speeds[100]).To(BeNumerically("~", 2, 1e-9))
		for _, v := range speeds[100:] {
			Expect(v).To(BeNumerically("~", 2, 1e-9))
		}
		Expect(tr.Metrics).To(HaveKey("top_speed"))
	})
})

var _ = Describe("RunSweep", func() {
	var (
		base  physics.Params
		gains control.AutopilotGains
	)

	BeforeEach(func() {
		base = physics.DefaultParams()
		base.TripLength = 500
		gains = automation.Gains(config.DefaultConfig())
	})

	It("produces one result per step across the range", func() {
		res, err := automation.RunSweep(context.Background(), base, gains, automation.ParameterSweep{
			Param: "speed_max", Min: 1, Max: 2, Steps: 3, MaxTicks: 2000,
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(res).To(HaveLen(3))
		Expect(res[0].Value).To(Equal(1.0))
		Expect(res[1].Value).To(Equal(1.5))
		Expect(res[2].Value).To(Equal(2.0))
	})

	It("accepts autopilot parameters", func() {
		res, err := automation.RunSweep(context.Background(), base, gains, automation.ParameterSweep{
			Param: "kp", Min: 0.002, Max: 0.002, Steps: 1, MaxTicks: 100,
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(res).To(HaveLen(1))
	})

	It("is deterministic", func() {
		sw := automation.ParameterSweep{Param: "angle_lean", Min: 0, Max: 0.001, Steps: 2, MaxTicks: 300}
		a, err := automation.RunSweep(context.Background(), base, gains, sw)
		Expect(err).NotTo(HaveOccurred())
		b, err := automation.RunSweep(context.Background(), base, gains, sw)
		Expect(err).NotTo(HaveOccurred())
		Expect(a).To(Equal(b))
	})

	It("tunes the autopilot to the swept vehicle", func() {
		res, err := automation.RunSweep(context.Background(), base, gains, automation.ParameterSweep{
			Param: "angle_lean", Min: 0.001, Max: 0.001, Steps: 1, MaxTicks: 3000,
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(res).To(HaveLen(1))

		p := base
		p.AngleLean = 0.001
		veh := physics.NewVehicle(p)
		tr, err := automation.Run(context.Background(), veh, control.NewAutopilot(p, gains), 3000, metrics.Default(veh.OnRoad))
		Expect(err).NotTo(HaveOccurred())

		Expect(res[0].Ticks).To(Equal(tr.Ticks))
		Expect(res[0].Crashes).To(Equal(tr.Crashes))
		Expect(res[0].Distance).To(Equal(tr.Final().Distance))
		Expect(res[0].Metrics).To(Equal(tr.Metrics))
	})

	It("reports unknown parameters", func() {
		_, err := automation.RunSweep(context.Background(), base, gains, automation.ParameterSweep{
			Param: "wheels", Min: 0, Max: 1, Steps: 2, MaxTicks: 10,
		})
		Expect(err).To(MatchError(dynamo.ErrUnknownParam))
	})
})

var _ = Describe("RunMonteCarlo", func() {
	var (
		base  physics.Params
		gains control.AutopilotGains
		cfg   automation.MonteCarloConfig
	)

	BeforeEach(func() {
		base = physics.DefaultParams()
		base.TripLength = 400
		gains = automation.Gains(config.DefaultConfig())
		cfg = automation.MonteCarloConfig{Trials: 8, Perturbation: 0.05, MaxTicks: 1000, Seed: 3, Workers: 4}
	})

	It("is deterministic for a fixed seed", func() {
		a, err := automation.RunMonteCarlo(context.Background(), base, gains, cfg)
		Expect(err).NotTo(HaveOccurred())
		b, err := automation.RunMonteCarlo(context.Background(), base, gains, cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(a).To(Equal(b))
		Expect(a).To(HaveLen(8))
		for i, r := range a {
			Expect(r.TrialID).To(Equal(i))
			Expect(math.Abs(r.InitHeading)).To(BeNumerically("<=", cfg.Perturbation))
		}
	})

	It("runs identical trials without perturbation", func() {
		cfg.Perturbation = 0
		res, err := automation.RunMonteCarlo(context.Background(), base, gains, cfg)
		Expect(err).NotTo(HaveOccurred())
		for _, r := range res[1:] {
			Expect(r.Distance).To(Equal(res[0].Distance))
			Expect(r.Ticks).To(Equal(res[0].Ticks))
		}
		finished, _ := automation.MonteCarloStats(res)
		Expect(finished).To(BeNumerically("<=", cfg.Trials))
	})

	It("rejects zero trials", func() {
		cfg.Trials = 0
		_, err := automation.RunMonteCarlo(context.Background(), base, gains, cfg)
		Expect(err).To(HaveOccurred())
	})
})

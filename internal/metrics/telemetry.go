package metrics

import (
	"math"

	"github.com/san-kum/desertbus/internal/dynamo"
)

// TopSpeed tracks the highest internal speed seen in an attempt.
type TopSpeed struct {
	max float64
}

func NewTopSpeed() *TopSpeed { return &TopSpeed{} }

func (m *TopSpeed) Name() string { return "top_speed" }

func (m *TopSpeed) Observe(s dynamo.State, in dynamo.Intent) {
	if s.Speed > m.max {
		m.max = s.Speed
	}
}

func (m *TopSpeed) Value() float64 { return m.max }
func (m *TopSpeed) Reset()         { m.max = 0 }

// OffroadRatio is the fraction of observed ticks spent off the road.
type OffroadRatio struct {
	onRoad  func(lateral float64) bool
	off     int
	samples int
}

func NewOffroadRatio(onRoad func(lateral float64) bool) *OffroadRatio {
	return &OffroadRatio{onRoad: onRoad}
}

func (m *OffroadRatio) Name() string { return "offroad_ratio" }

func (m *OffroadRatio) Observe(s dynamo.State, in dynamo.Intent) {
	m.samples++
	if !m.onRoad(s.Lateral) {
		m.off++
	}
}

func (m *OffroadRatio) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return float64(m.off) / float64(m.samples)
}

func (m *OffroadRatio) Reset() {
	m.off = 0
	m.samples = 0
}

// MaxDrift is the largest distance from the centerline.
type MaxDrift struct {
	max float64
}

func NewMaxDrift() *MaxDrift { return &MaxDrift{} }

func (m *MaxDrift) Name() string { return "max_drift" }

func (m *MaxDrift) Observe(s dynamo.State, in dynamo.Intent) {
	m.max = math.Max(m.max, math.Abs(s.Lateral))
}

func (m *MaxDrift) Value() float64 { return m.max }
func (m *MaxDrift) Reset()         { m.max = 0 }

// InputEffort is the mean number of active axes per tick, in [0, 2].
type InputEffort struct {
	sum     float64
	samples int
}

func NewInputEffort() *InputEffort { return &InputEffort{} }

func (m *InputEffort) Name() string { return "input_effort" }

func (m *InputEffort) Observe(s dynamo.State, in dynamo.Intent) {
	m.sum += math.Abs(float64(in.Steer)) + math.Abs(float64(in.Throttle))
	m.samples++
}

func (m *InputEffort) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *InputEffort) Reset() {
	m.sum = 0
	m.samples = 0
}

// Default is the metric set the game loop and headless runs attach.
func Default(onRoad func(lateral float64) bool) []dynamo.Metric {
	return []dynamo.Metric{
		NewTopSpeed(),
		NewOffroadRatio(onRoad),
		NewMaxDrift(),
		NewInputEffort(),
	}
}

// Snapshot collects current metric values by name.
func Snapshot(ms []dynamo.Metric) map[string]float64 {
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		out[m.Name()] = m.Value()
	}
	return out
}

func ResetAll(ms []dynamo.Metric) {
	for _, m := range ms {
		m.Reset()
	}
}

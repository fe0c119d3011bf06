package automation

import (
	"fmt"
	"os"

	"github.com/san-kum/desertbus/internal/control"
	"github.com/san-kum/desertbus/internal/dynamo"
	"gopkg.in/yaml.v3"
)

// Scenario defines a scripted headless drive
type Scenario struct {
	Name        string             `yaml:"name"`
	Description string             `yaml:"description"`
	Preset      string             `yaml:"preset"`
	Seed        int64              `yaml:"seed"`
	MaxTicks    int                `yaml:"max_ticks"`
	Autopilot   bool               `yaml:"autopilot"`
	Params      map[string]float64 `yaml:"params"`
	Segments    []Segment          `yaml:"segments"`
}

// Segment holds one steer/throttle pair for a number of ticks
type Segment struct {
	Ticks    int `yaml:"ticks"`
	Steer    int `yaml:"steer"`
	Throttle int `yaml:"throttle"`
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

func (s *Scenario) Validate() error {
	if !s.Autopilot && len(s.Segments) == 0 {
		return fmt.Errorf("scenario %q: no segments and no autopilot", s.Name)
	}
	if s.MaxTicks < 0 {
		return fmt.Errorf("scenario %q: max_ticks must not be negative", s.Name)
	}
	for i, seg := range s.Segments {
		if seg.Ticks <= 0 {
			return fmt.Errorf("scenario %q segment %d: ticks must be positive", s.Name, i+1)
		}
		in := dynamo.Intent{Steer: seg.Steer, Throttle: seg.Throttle}
		if err := in.Validate(); err != nil {
			return fmt.Errorf("scenario %q segment %d: %w", s.Name, i+1, err)
		}
	}
	return nil
}

// Ticks is MaxTicks, or the scripted length when MaxTicks is unset.
func (s *Scenario) Ticks() int {
	if s.MaxTicks > 0 {
		return s.MaxTicks
	}
	n := 0
	for _, seg := range s.Segments {
		n += seg.Ticks
	}
	return n
}

// Script expands the segments into per-tick signals.
func (s *Scenario) Script() *control.Script {
	var ticks [][]dynamo.Signal
	for _, seg := range s.Segments {
		ticks = append(ticks, control.Repeat(seg.Ticks, segmentSignals(seg)...)...)
	}
	return control.NewScript(ticks)
}

func segmentSignals(seg Segment) []dynamo.Signal {
	var sigs []dynamo.Signal
	switch {
	case seg.Steer < 0:
		sigs = append(sigs, dynamo.SignalLeft)
	case seg.Steer > 0:
		sigs = append(sigs, dynamo.SignalRight)
	}
	switch {
	case seg.Throttle > 0:
		sigs = append(sigs, dynamo.SignalUp)
	case seg.Throttle < 0:
		sigs = append(sigs, dynamo.SignalDown)
	}
	return sigs
}

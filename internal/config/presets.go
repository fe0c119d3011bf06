package config

import (
	"math"
	"sort"
)

var Presets = map[string]func() *Config{
	// accumulating heading, overreach buffer, crash recovery
	"accumulate": DefaultConfig,
	// the first draft: heading set from the held key each tick, lean as a constant offset
	"classic": func() *Config {
		c := DefaultConfig()
		c.Physics.Steering = "absolute"
		c.Physics.AngleDelta = math.Pi / 20
		c.Physics.AngleLean = math.Pi / 200
		return c
	},
	"easy": func() *Config {
		c := DefaultConfig()
		c.Physics.RoadWidth = 30
		c.Physics.AngleLean = math.Pi / 40000
		c.CrashDelay = 2
		return c
	},
	// about two minutes at full speed
	"sprint": func() *Config {
		c := DefaultConfig()
		c.Physics.TripLength = 4800
		c.CrashDelay = 2
		return c
	},
}

// GetPreset returns a fresh copy of the named preset, or nil.
func GetPreset(name string) *Config {
	fn, ok := Presets[name]
	if !ok {
		return nil
	}
	return fn()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

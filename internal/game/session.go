package game

import (
	"time"

	"github.com/san-kum/desertbus/internal/config"
	"github.com/san-kum/desertbus/internal/dynamo"
	"github.com/san-kum/desertbus/internal/terrain"
)

// Session holds everything that outlives a single attempt.
type Session struct {
	Seed    int64
	Stats   dynamo.Stats
	Terrain *terrain.Generator
	Started time.Time
}

func NewSession(seed int64, background string, started time.Time) *Session {
	return &Session{
		Seed:    seed,
		Terrain: terrain.New(seed, background),
		Started: started,
	}
}

// Options are the presentation and timing settings of a loop.
type Options struct {
	TickInterval time.Duration
	CrashDelay   time.Duration
	MilesPerUnit float64
	MPHPerUnit   float64
	Glyph        []string
}

func OptionsFromConfig(c *config.Config) Options {
	return Options{
		TickInterval: c.TickDuration(),
		CrashDelay:   c.CrashDuration(),
		MilesPerUnit: c.MilesPerUnit(),
		MPHPerUnit:   c.MPHPerUnit(),
		Glyph:        c.Glyph,
	}
}

package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/san-kum/desertbus/internal/physics"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	DefaultTickInterval = 0.05
	DefaultCrashDelay   = 5.0
	DefaultSpeedMaxMPH  = 45.0
	DefaultTheme        = "desert"
	DefaultPreset       = "accumulate"
	EnvPrefix           = "DESERTBUS"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid")

// DefaultGlyph is the bus seen from above. All rows must be equal width.
var DefaultGlyph = []string{"**", "!!", "!!"}

type Config struct {
	Seed         int64           `yaml:"seed" mapstructure:"seed"`
	Theme        string          `yaml:"theme" mapstructure:"theme"`
	TickInterval float64         `yaml:"tick_interval" mapstructure:"tick_interval"`
	CrashDelay   float64         `yaml:"crash_delay" mapstructure:"crash_delay"`
	SpeedMaxMPH  float64         `yaml:"speed_max_mph" mapstructure:"speed_max_mph"`
	Background   string          `yaml:"background" mapstructure:"background"`
	Glyph        []string        `yaml:"glyph" mapstructure:"glyph"`
	Physics      PhysicsConfig   `yaml:"physics" mapstructure:"physics"`
	Autopilot    AutopilotConfig `yaml:"autopilot" mapstructure:"autopilot"`
	Log          LogConfig       `yaml:"log" mapstructure:"log"`
}

type PhysicsConfig struct {
	Steering         string  `yaml:"steering" mapstructure:"steering"`
	AngleDelta       float64 `yaml:"angle_delta" mapstructure:"angle_delta"`
	AngleLean        float64 `yaml:"angle_lean" mapstructure:"angle_lean"`
	SpeedDelta       float64 `yaml:"speed_delta" mapstructure:"speed_delta"`
	SpeedMax         float64 `yaml:"speed_max" mapstructure:"speed_max"`
	SpeedOverreach   float64 `yaml:"speed_overreach" mapstructure:"speed_overreach"`
	SpeedDrag        float64 `yaml:"speed_drag" mapstructure:"speed_drag"`
	SpeedDragOffroad float64 `yaml:"speed_drag_offroad" mapstructure:"speed_drag_offroad"`
	RoadWidth        int     `yaml:"road_width" mapstructure:"road_width"`
	TripLength       float64 `yaml:"trip_length" mapstructure:"trip_length"`
}

type AutopilotConfig struct {
	Kp     float64 `yaml:"kp" mapstructure:"kp"`
	Ki     float64 `yaml:"ki" mapstructure:"ki"`
	Kd     float64 `yaml:"kd" mapstructure:"kd"`
	Cruise float64 `yaml:"cruise" mapstructure:"cruise"`
}

type LogConfig struct {
	Dir   string `yaml:"dir" mapstructure:"dir"`
	Level string `yaml:"level" mapstructure:"level"`
}

func DefaultConfig() *Config {
	p := physics.DefaultParams()
	return &Config{
		Theme:        DefaultTheme,
		TickInterval: DefaultTickInterval,
		CrashDelay:   DefaultCrashDelay,
		SpeedMaxMPH:  DefaultSpeedMaxMPH,
		Background:   "  .,",
		Glyph:        append([]string(nil), DefaultGlyph...),
		Physics: PhysicsConfig{
			Steering:         p.Steering.String(),
			AngleDelta:       p.AngleDelta,
			AngleLean:        p.AngleLean,
			SpeedDelta:       p.SpeedDelta,
			SpeedMax:         p.SpeedMax,
			SpeedOverreach:   p.SpeedOverreach,
			SpeedDrag:        p.SpeedDrag,
			SpeedDragOffroad: p.SpeedDragOffroad,
			RoadWidth:        p.RoadWidth,
			TripLength:       p.TripLength,
		},
		Autopilot: AutopilotConfig{
			Kp:     0.004,
			Ki:     0,
			Kd:     0.2,
			Cruise: 0.9,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load layers base (DefaultConfig when nil), the yaml file at path (skipped
// when empty) and DESERTBUS_* environment variables, in that order.
func Load(path string, base *Config) (*Config, error) {
	if base == nil {
		base = DefaultConfig()
	}

	v := viper.New()
	setDefaults(v, base)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, c *Config) {
	v.SetDefault("seed", c.Seed)
	v.SetDefault("theme", c.Theme)
	v.SetDefault("tick_interval", c.TickInterval)
	v.SetDefault("crash_delay", c.CrashDelay)
	v.SetDefault("speed_max_mph", c.SpeedMaxMPH)
	v.SetDefault("background", c.Background)
	v.SetDefault("glyph", c.Glyph)

	v.SetDefault("physics.steering", c.Physics.Steering)
	v.SetDefault("physics.angle_delta", c.Physics.AngleDelta)
	v.SetDefault("physics.angle_lean", c.Physics.AngleLean)
	v.SetDefault("physics.speed_delta", c.Physics.SpeedDelta)
	v.SetDefault("physics.speed_max", c.Physics.SpeedMax)
	v.SetDefault("physics.speed_overreach", c.Physics.SpeedOverreach)
	v.SetDefault("physics.speed_drag", c.Physics.SpeedDrag)
	v.SetDefault("physics.speed_drag_offroad", c.Physics.SpeedDragOffroad)
	v.SetDefault("physics.road_width", c.Physics.RoadWidth)
	v.SetDefault("physics.trip_length", c.Physics.TripLength)

	v.SetDefault("autopilot.kp", c.Autopilot.Kp)
	v.SetDefault("autopilot.ki", c.Autopilot.Ki)
	v.SetDefault("autopilot.kd", c.Autopilot.Kd)
	v.SetDefault("autopilot.cruise", c.Autopilot.Cruise)

	v.SetDefault("log.dir", c.Log.Dir)
	v.SetDefault("log.level", c.Log.Level)
}

func Marshal(cfg *Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}

func Save(path string, cfg *Config) error {
	data, err := Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if _, err := physics.ParseSteeringMode(c.Physics.Steering); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if c.TickInterval <= 0 {
		return fmt.Errorf("%w: tick_interval must be positive, got %f", ErrInvalid, c.TickInterval)
	}
	if c.CrashDelay < 0 {
		return fmt.Errorf("%w: crash_delay must not be negative", ErrInvalid)
	}
	if c.SpeedMaxMPH <= 0 {
		return fmt.Errorf("%w: speed_max_mph must be positive", ErrInvalid)
	}
	if len(c.Glyph) == 0 {
		return fmt.Errorf("%w: glyph must have at least one row", ErrInvalid)
	}
	w := utf8.RuneCountInString(c.Glyph[0])
	for i, row := range c.Glyph {
		if n := utf8.RuneCountInString(row); n != w || n == 0 {
			return fmt.Errorf("%w: glyph row %d is %d wide, want %d", ErrInvalid, i, n, w)
		}
	}
	if err := c.PhysicsParams().Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

func (c *Config) GlyphWidth() int {
	if len(c.Glyph) == 0 {
		return 0
	}
	return utf8.RuneCountInString(c.Glyph[0])
}

// PhysicsParams assumes Validate has passed; an unknown steering mode falls back to accumulate.
func (c *Config) PhysicsParams() physics.Params {
	mode, _ := physics.ParseSteeringMode(c.Physics.Steering)
	return physics.Params{
		AngleDelta:       c.Physics.AngleDelta,
		AngleLean:        c.Physics.AngleLean,
		SpeedDelta:       c.Physics.SpeedDelta,
		SpeedMax:         c.Physics.SpeedMax,
		SpeedOverreach:   c.Physics.SpeedOverreach,
		SpeedDrag:        c.Physics.SpeedDrag,
		SpeedDragOffroad: c.Physics.SpeedDragOffroad,
		RoadWidth:        c.Physics.RoadWidth,
		VehicleWidth:     c.GlyphWidth(),
		TripLength:       c.Physics.TripLength,
		Steering:         mode,
	}
}

func (c *Config) TickDuration() time.Duration {
	return seconds(c.TickInterval)
}

func (c *Config) CrashDuration() time.Duration {
	return seconds(c.CrashDelay)
}

// MilesPerUnit converts distance units to miles: at SpeedMax the vehicle
// covers SpeedMaxMPH miles per hour of ticks.
func (c *Config) MilesPerUnit() float64 {
	return c.SpeedMaxMPH / 3600.0 * c.TickInterval / c.Physics.SpeedMax
}

// MPHPerUnit converts a per-tick speed to miles per hour.
func (c *Config) MPHPerUnit() float64 {
	return c.SpeedMaxMPH / c.Physics.SpeedMax
}

// TripTicks is the idealized number of ticks for a trip at full speed.
func (c *Config) TripTicks() int {
	return int(math.Ceil(c.Physics.TripLength / c.Physics.SpeedMax))
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

package config

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/san-kum/aerodyn/internal/logging"
	"gopkg.in/yaml.v3"
)

const (
	DefaultAircraft = "glider"
	DefaultDt       = 1.0 / 120
	DefaultDuration = 60.0
	DefaultAltitude = 1000.0
	DefaultKp       = 0.02
	DefaultKi       = 0.002
	DefaultKd       = 0.01

	DefaultTurbulenceRate = 1.0
)

// Start conditions.
const (
	StartCruise   = "cruise"
	StartApproach = "approach"
	StartGround   = "ground"
	StartCatapult = "catapult"
)

// Ground kinds.
const (
	GroundFlat = "flat"
	GroundDeck = "deck"
)

var (
	starts  = []string{StartCruise, StartApproach, StartGround, StartCatapult}
	grounds = []string{GroundFlat, GroundDeck}
)

type Config struct {
	Aircraft    string             `yaml:"aircraft"`
	Start       string             `yaml:"start"`
	Dt          float64            `yaml:"dt"`
	Duration    float64            `yaml:"duration"`
	Init        InitConfig         `yaml:"init"`
	Wind        WindConfig         `yaml:"wind"`
	Turbulence  TurbulenceConfig   `yaml:"turbulence"`
	Ground      GroundConfig       `yaml:"ground"`
	Controls    map[string]float64 `yaml:"controls,omitempty"`
	Schedule    []ControlEvent     `yaml:"schedule,omitempty"`
	Autopilot   AutopilotConfig    `yaml:"autopilot"`
	StopOnCrash bool               `yaml:"stop_on_crash"`
	Log         LogConfig          `yaml:"log"`
	MetricsAddr string             `yaml:"metrics_addr,omitempty"`
}

// InitConfig overrides the start condition. Zero altitude and speed keep
// the values the start condition implies.
type InitConfig struct {
	Altitude float64 `yaml:"altitude"`
	Speed    float64 `yaml:"speed"`
	Heading  float64 `yaml:"heading_deg"`
}

// WindConfig is the wind velocity in the global frame, m/s.
type WindConfig struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

// TurbulenceConfig adds gusts on top of the wind. Magnitude runs from 0
// (off) to 1 (severe); Rate is how fast the gusts change in place, in Hz.
type TurbulenceConfig struct {
	Magnitude float64 `yaml:"magnitude"`
	Rate      float64 `yaml:"rate_hz"`
	Seed      uint32  `yaml:"seed"`
}

type GroundConfig struct {
	Kind      string  `yaml:"kind"`
	Elevation float64 `yaml:"elevation"`
	DeckSpeed float64 `yaml:"deck_speed"`
}

// ControlEvent sets an input at a point in time.
type ControlEvent struct {
	Time  float64 `yaml:"t"`
	Input string  `yaml:"input"`
	Value float64 `yaml:"value"`
}

// AutopilotConfig is a vertical speed hold flying one input.
type AutopilotConfig struct {
	Enabled       bool    `yaml:"enabled"`
	Input         string  `yaml:"input"`
	VerticalSpeed float64 `yaml:"vertical_speed"`
	Kp            float64 `yaml:"kp"`
	Ki            float64 `yaml:"ki"`
	Kd            float64 `yaml:"kd"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file,omitempty"`
	MaxSizeMB  int    `yaml:"max_size_mb,omitempty"`
	MaxBackups int    `yaml:"max_backups,omitempty"`
	Stderr     bool   `yaml:"stderr"`
}

func DefaultConfig() *Config {
	return &Config{
		Aircraft:   DefaultAircraft,
		Start:      StartCruise,
		Dt:         DefaultDt,
		Duration:   DefaultDuration,
		Init:       InitConfig{Altitude: DefaultAltitude},
		Ground:     GroundConfig{Kind: GroundFlat},
		Turbulence: TurbulenceConfig{Rate: DefaultTurbulenceRate},
		Autopilot: AutopilotConfig{
			Input: "elevator",
			Kp:    DefaultKp,
			Ki:    DefaultKi,
			Kd:    DefaultKd,
		},
		Log: LogConfig{Level: "info"},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate reports every problem found, joined.
func (c *Config) Validate() error {
	var errs []error
	if c.Aircraft == "" {
		errs = append(errs, errors.New("aircraft is required"))
	}
	if c.Dt <= 0 {
		errs = append(errs, fmt.Errorf("dt must be positive, got %v", c.Dt))
	}
	if c.Duration <= 0 {
		errs = append(errs, fmt.Errorf("duration must be positive, got %v", c.Duration))
	} else if c.Dt > c.Duration {
		errs = append(errs, fmt.Errorf("dt %v exceeds duration %v", c.Dt, c.Duration))
	}
	if !slices.Contains(starts, c.Start) {
		errs = append(errs, fmt.Errorf("start %q not one of %v", c.Start, starts))
	}
	if !slices.Contains(grounds, c.Ground.Kind) {
		errs = append(errs, fmt.Errorf("ground kind %q not one of %v", c.Ground.Kind, grounds))
	}
	if c.Start == StartCatapult && c.Ground.Kind != GroundDeck {
		errs = append(errs, errors.New("catapult start needs a deck"))
	}
	if c.Init.Altitude < 0 || c.Init.Speed < 0 {
		errs = append(errs, errors.New("initial altitude and speed must not be negative"))
	}
	if c.Turbulence.Magnitude < 0 || c.Turbulence.Magnitude > 1 {
		errs = append(errs, fmt.Errorf("turbulence magnitude %v not in [0, 1]", c.Turbulence.Magnitude))
	}
	if c.Turbulence.Rate < 0 {
		errs = append(errs, fmt.Errorf("turbulence rate must not be negative, got %v", c.Turbulence.Rate))
	}
	for i, ev := range c.Schedule {
		if ev.Input == "" || ev.Time < 0 {
			errs = append(errs, fmt.Errorf("schedule[%d]: needs an input and a non-negative time", i))
		}
	}
	if c.Autopilot.Enabled && c.Autopilot.Input == "" {
		errs = append(errs, errors.New("autopilot needs an input"))
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.Controls = maps.Clone(c.Controls)
	out.Schedule = slices.Clone(c.Schedule)
	return &out
}

package config

import (
	"slices"
)

var Presets = map[string]map[string]*Config{
	"glider": {
		"cruise": {
			Aircraft: "glider", Start: StartCruise, Duration: 60,
			Init: InitConfig{Altitude: 1000},
		},
		"thermal": {
			Aircraft: "glider", Start: StartCruise, Duration: 120,
			Init: InitConfig{Altitude: 800},
			Wind: WindConfig{Z: 2.5},
		},
		"landing": {
			Aircraft: "glider", Start: StartApproach, Duration: 40,
			Init:        InitConfig{Altitude: 40},
			Schedule:    []ControlEvent{{Time: 10, Input: "spoilers", Value: 0.5}},
			StopOnCrash: true,
		},
	},
	"trainer": {
		"cruise": {
			Aircraft: "trainer", Start: StartCruise, Duration: 60,
			Autopilot: AutopilotConfig{Enabled: true, Input: "elevator"},
		},
		"takeoff": {
			Aircraft: "trainer", Start: StartGround, Duration: 40,
			Controls: map[string]float64{"mixture": 1, "magnetos": 3, "flaps": 0.2},
			Schedule: []ControlEvent{
				{Time: 1, Input: "throttle", Value: 1},
				{Time: 14, Input: "elevator", Value: -0.3},
			},
		},
		"approach": {
			Aircraft: "trainer", Start: StartApproach, Duration: 45,
			Init:        InitConfig{Altitude: 150},
			StopOnCrash: true,
		},
		"rough-air": {
			Aircraft: "trainer", Start: StartCruise, Duration: 60,
			Turbulence: TurbulenceConfig{Magnitude: 0.5, Seed: 7},
			Autopilot:  AutopilotConfig{Enabled: true, Input: "elevator"},
		},
		"crosswind": {
			Aircraft: "trainer", Start: StartApproach, Duration: 45,
			Init: InitConfig{Altitude: 150},
			Wind: WindConfig{Y: 6},
		},
	},
	"jet": {
		"cruise": {
			Aircraft: "jet", Start: StartCruise, Duration: 60,
			Autopilot: AutopilotConfig{Enabled: true, Input: "elevator"},
		},
		"reheat-climb": {
			Aircraft: "jet", Start: StartCruise, Duration: 30,
			Init:     InitConfig{Altitude: 3000, Speed: 200},
			Controls: map[string]float64{"throttle": 1, "reheat": 1},
			Schedule: []ControlEvent{{Time: 2, Input: "elevator", Value: -0.2}},
		},
		"takeoff": {
			Aircraft: "jet", Start: StartGround, Duration: 40,
			Controls: map[string]float64{"gear": 1, "flaps": 0.5, "slats": 1},
			Schedule: []ControlEvent{
				{Time: 1, Input: "throttle", Value: 1},
				{Time: 1, Input: "reheat", Value: 1},
				{Time: 15, Input: "elevator", Value: -0.25},
			},
		},
	},
	"carrier": {
		"launch": {
			Aircraft: "carrier", Start: StartCatapult, Duration: 20,
			Ground:   GroundConfig{Kind: GroundDeck, Elevation: 20, DeckSpeed: 12},
			Controls: map[string]float64{"gear": 1, "launchbar": 1, "throttle": 1, "flaps": 0.5, "slats": 1},
			Schedule: []ControlEvent{
				{Time: 3, Input: "launch", Value: 1},
				{Time: 6, Input: "launchbar", Value: 0},
			},
		},
		"trap": {
			Aircraft: "carrier", Start: StartApproach, Duration: 30,
			Init:     InitConfig{Altitude: 60},
			Ground:   GroundConfig{Kind: GroundDeck, Elevation: 20, DeckSpeed: 12},
			Controls: map[string]float64{"hook": 1},
		},
	},
}

// GetPreset returns a copy of the preset with unset fields taken from
// DefaultConfig, or nil if there is no such preset.
func GetPreset(aircraft, preset string) *Config {
	acPresets, ok := Presets[aircraft]
	if !ok {
		return nil
	}
	p, ok := acPresets[preset]
	if !ok {
		return nil
	}
	return withDefaults(p.Clone())
}

// ListPresets returns the preset names of an aircraft in sorted order.
func ListPresets(aircraft string) []string {
	acPresets, ok := Presets[aircraft]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(acPresets))
	for name := range acPresets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func withDefaults(c *Config) *Config {
	d := DefaultConfig()
	if c.Aircraft == "" {
		c.Aircraft = d.Aircraft
	}
	if c.Start == "" {
		c.Start = d.Start
	}
	if c.Dt == 0 {
		c.Dt = d.Dt
	}
	if c.Duration == 0 {
		c.Duration = d.Duration
	}
	if c.Ground.Kind == "" {
		c.Ground.Kind = d.Ground.Kind
	}
	if c.Autopilot.Input == "" {
		c.Autopilot.Input = d.Autopilot.Input
	}
	if c.Autopilot.Kp == 0 && c.Autopilot.Ki == 0 && c.Autopilot.Kd == 0 {
		c.Autopilot.Kp, c.Autopilot.Ki, c.Autopilot.Kd = d.Autopilot.Kp, d.Autopilot.Ki, d.Autopilot.Kd
	}
	if c.Turbulence.Rate == 0 {
		c.Turbulence.Rate = d.Turbulence.Rate
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	return c
}

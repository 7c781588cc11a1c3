package config

import (
	"sort"

	"github.com/san-kum/turretlab/internal/control"
	"github.com/san-kum/turretlab/internal/physics"
)

// Presets holds named variants of each scenario. Every scenario has a
// "default" variant, which is what the scenario name alone selects.
var Presets = map[string]map[string]func() *Config{
	"track": {
		"default": func() *Config {
			return with("track", 10, func(c *Config) {
				c.Target = physics.Target{Bearing: 25, FOV: 60}
			})
		},
		"noisy": func() *Config {
			return with("track", 10, func(c *Config) {
				c.Target = physics.Target{Bearing: -20, FOV: 60, Noise: 0.5}
			})
		},
		"drifting": func() *Config {
			return with("track", 20, func(c *Config) {
				c.Target = physics.Target{Bearing: 0, Rate: 8, FOV: 60}
			})
		},
	},
	"orbit": {
		"default": func() *Config {
			return with("orbit", 25, func(c *Config) {
				c.Target = physics.Target{Bearing: 0, Rate: 40, FOV: 60}
			})
		},
		"fast": func() *Config {
			return with("orbit", 20, func(c *Config) {
				c.Target = physics.Target{Bearing: 0, Rate: 70, FOV: 60}
			})
		},
		"occluded": func() *Config {
			return with("orbit", 25, func(c *Config) {
				c.Target = physics.Target{Bearing: 0, Rate: 40, FOV: 60,
					Hidden: []physics.Window{{From: 8.5, To: 12}}}
			})
		},
		"near_limit": func() *Config {
			return with("orbit", 15, func(c *Config) {
				c.InitState.TurretDeg = 330
				c.Target = physics.Target{Bearing: 330, Rate: 20, FOV: 60}
			})
		},
	},
	"turn": {
		"default": func() *Config {
			return with("turn", 6, func(c *Config) {
				c.Target = physics.Target{Bearing: 0, FOV: 60}
				c.Events = []control.Event{{At: 0.5, Kind: control.TurnRelative, Value: 90}}
			})
		},
		"about_face": func() *Config {
			return with("turn", 8, func(c *Config) {
				c.Target = physics.Target{Bearing: 0, FOV: 60}
				c.Events = []control.Event{{At: 0.5, Kind: control.TurnAbsolute, Value: 180}}
			})
		},
		"sluggish": func() *Config {
			return with("turn", 8, func(c *Config) {
				c.Plant.ChassisTau = 0.3
				c.Target = physics.Target{Bearing: 0, FOV: 60}
				c.Events = []control.Event{{At: 0.5, Kind: control.TurnRelative, Value: 90}}
			})
		},
	},
	"square": {
		"default": func() *Config {
			return with("square", 16, func(c *Config) {
				c.Target = physics.Target{Bearing: 45, FOV: 60}
				c.Events = []control.Event{
					{At: 1, Kind: control.TurnRelative, Value: 90},
					{At: 5, Kind: control.TurnRelative, Value: 90},
					{At: 9, Kind: control.TurnRelative, Value: 90},
					{At: 13, Kind: control.TurnRelative, Value: 90},
				}
			})
		},
	},
	"combined": {
		"default": func() *Config {
			return with("combined", 30, func(c *Config) {
				c.Target = physics.Target{Bearing: 0, Rate: 25, FOV: 60, Noise: 0.2}
				c.Events = []control.Event{
					{At: 2, Kind: control.TurnRelative, Value: -90},
					{At: 6, Kind: control.TrackingSpeed, Value: 1.5},
					{At: 12, Kind: control.TurnAbsolute, Value: 135},
					{At: 20, Kind: control.TurnRelative, Value: 45},
					{At: 20.2, Kind: control.TurnRelative, Value: -45},
				}
			})
		},
	},
}

func with(scenario string, duration float64, mutate func(*Config)) *Config {
	c := DefaultConfig()
	c.Scenario = scenario
	c.Duration = duration
	mutate(c)
	return c
}

// GetPreset returns a fresh copy of a preset, or nil.
func GetPreset(scenario, preset string) *Config {
	scenarioPresets, ok := Presets[scenario]
	if !ok {
		return nil
	}
	fn, ok := scenarioPresets[preset]
	if !ok {
		return nil
	}
	return fn()
}

func ListPresets(scenario string) []string {
	scenarioPresets, ok := Presets[scenario]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(scenarioPresets))
	for name := range scenarioPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Scenarios lists every scenario that has presets.
func Scenarios() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

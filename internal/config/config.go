package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/turretlab/internal/control"
	"github.com/san-kum/turretlab/internal/heading"
	"github.com/san-kum/turretlab/internal/physics"
	"github.com/san-kum/turretlab/internal/turret"
)

var ErrInvalidConfig = errors.New("config: invalid")

const (
	DefaultDt       = 0.02
	DefaultDuration = 10.0
	DefaultGain     = 0.006
)

type Config struct {
	Scenario   string              `yaml:"scenario"`
	Integrator string              `yaml:"integrator"`
	Controller string              `yaml:"controller"`
	Dt         float64             `yaml:"dt"`
	Duration   float64             `yaml:"duration"`
	Seed       int64               `yaml:"seed"`
	Gain       float64             `yaml:"gain"`
	InitState  InitStateConfig     `yaml:"init_state"`
	Turret     turret.Config       `yaml:"turret"`
	Heading    heading.Config      `yaml:"heading"`
	Plant      physics.RobotParams `yaml:"plant"`
	Target     physics.Target      `yaml:"target"`
	Events     []control.Event     `yaml:"events,omitempty"`
}

type InitStateConfig struct {
	TurretDeg float64 `yaml:"turret_deg"`
	Yaw       float64 `yaml:"yaw"`
}

func DefaultConfig() *Config {
	return &Config{
		Scenario:   "track",
		Integrator: "rk4",
		Controller: "robot",
		Dt:         DefaultDt,
		Duration:   DefaultDuration,
		Gain:       DefaultGain,
		Turret:     turret.DefaultConfig(),
		Heading:    heading.DefaultConfig(),
		Plant:      physics.DefaultRobotParams(),
		Target:     physics.DefaultTarget(),
	}
}

// Load reads a YAML file over the defaults, so a file only needs the keys
// it changes.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
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

func (c *Config) Validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %g", ErrInvalidConfig, c.Dt)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %g", ErrInvalidConfig, c.Duration)
	}
	if c.Gain < 0 {
		return fmt.Errorf("%w: gain must be >= 0, got %g", ErrInvalidConfig, c.Gain)
	}
	if c.Plant.GearRatio != c.Turret.GearRatio {
		return fmt.Errorf("%w: plant gear_ratio %g does not match turret gear_ratio %g",
			ErrInvalidConfig, c.Plant.GearRatio, c.Turret.GearRatio)
	}
	if c.Target.FOV < 0 || c.Target.FOV > 360 {
		return fmt.Errorf("%w: target fov must be in [0, 360], got %g", ErrInvalidConfig, c.Target.FOV)
	}
	if err := c.Turret.Validate(); err != nil {
		return err
	}
	if err := c.Heading.Validate(); err != nil {
		return err
	}
	for _, e := range c.Events {
		if err := e.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Clone returns a deep copy; presets and sweeps mutate their copies.
func (c *Config) Clone() *Config {
	out := *c
	out.Events = append([]control.Event(nil), c.Events...)
	out.Target.Hidden = append([]physics.Window(nil), c.Target.Hidden...)
	return &out
}

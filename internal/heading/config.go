package heading

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidConfig = errors.New("heading: invalid config")

// Config holds the auto-turn tunables. Speeds are percent output, angles
// are degrees.
type Config struct {
	TurnSpeed       float64       `yaml:"turn_speed"`
	MinTurnSpeed    float64       `yaml:"min_turn_speed"`
	SlowdownAngle   float64       `yaml:"slowdown_angle"`
	YawTolerance    float64       `yaml:"yaw_tolerance"`
	StopTolerance   float64       `yaml:"stop_tolerance"`
	SettleTime      time.Duration `yaml:"settle_time"`
	MaxOscillations int           `yaml:"max_oscillations"`
	StallTimeout    time.Duration `yaml:"stall_timeout"`
	StallEpsilon    float64       `yaml:"stall_epsilon"`
	Period          time.Duration `yaml:"period"`
}

func DefaultConfig() Config {
	return Config{
		TurnSpeed:       0.5,
		MinTurnSpeed:    0.2,
		SlowdownAngle:   25,
		YawTolerance:    2,
		StopTolerance:   6,
		SettleTime:      150 * time.Millisecond,
		MaxOscillations: 3,
		StallTimeout:    2 * time.Second,
		StallEpsilon:    0.5,
		Period:          20 * time.Millisecond,
	}
}

func (c Config) Validate() error {
	switch {
	case c.TurnSpeed <= 0 || c.TurnSpeed > 1:
		return fmt.Errorf("%w: turn_speed must be in (0, 1], got %g", ErrInvalidConfig, c.TurnSpeed)
	case c.MinTurnSpeed < 0 || c.MinTurnSpeed > c.TurnSpeed:
		return fmt.Errorf("%w: min_turn_speed must be in [0, turn_speed], got %g", ErrInvalidConfig, c.MinTurnSpeed)
	case c.YawTolerance <= 0:
		return fmt.Errorf("%w: yaw_tolerance must be > 0, got %g", ErrInvalidConfig, c.YawTolerance)
	case c.StopTolerance < c.YawTolerance:
		return fmt.Errorf("%w: stop_tolerance (%g) below yaw_tolerance (%g)", ErrInvalidConfig, c.StopTolerance, c.YawTolerance)
	case c.SlowdownAngle < c.StopTolerance:
		return fmt.Errorf("%w: slowdown_angle (%g) below stop_tolerance (%g)", ErrInvalidConfig, c.SlowdownAngle, c.StopTolerance)
	case c.SettleTime < 0:
		return fmt.Errorf("%w: settle_time must be >= 0, got %v", ErrInvalidConfig, c.SettleTime)
	case c.MaxOscillations < 1:
		return fmt.Errorf("%w: max_oscillations must be >= 1, got %d", ErrInvalidConfig, c.MaxOscillations)
	case c.StallTimeout <= 0:
		return fmt.Errorf("%w: stall_timeout must be > 0, got %v", ErrInvalidConfig, c.StallTimeout)
	case c.StallEpsilon < 0:
		return fmt.Errorf("%w: stall_epsilon must be >= 0, got %g", ErrInvalidConfig, c.StallEpsilon)
	case c.Period <= 0:
		return fmt.Errorf("%w: period must be > 0, got %v", ErrInvalidConfig, c.Period)
	}
	return nil
}

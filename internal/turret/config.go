package turret

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is returned by New and Config.Validate.
var ErrInvalidConfig = errors.New("turret: invalid config")

const (
	// MinTrackingSpeed and MaxTrackingSpeed bound the tracking multiplier.
	MinTrackingSpeed = 0.1
	MaxTrackingSpeed = 2.0
)

// Config is the complete set of tunables for one turret.
type Config struct {
	GearRatio       float64 `yaml:"gear_ratio"`        // motor rotations per turret revolution
	TravelLimit     float64 `yaml:"travel_limit"`      // degrees either side of home
	WrapTrigger     float64 `yaml:"wrap_trigger"`      // |angle| at which wrap may start
	WrapSearchStart float64 `yaml:"wrap_search_start"` // blind travel before looking for the target
	WrapMaxTravel   float64 `yaml:"wrap_max_travel"`   // give up after this much travel
	WrapSpeed       float64 `yaml:"wrap_speed"`        // percent output while wrapping
	TrackingSpeed   float64 `yaml:"tracking_speed"`    // tracking multiplier
}

// DefaultConfig matches the 250:14 turret gearbox.
func DefaultConfig() Config {
	return Config{
		GearRatio:       250.0 / 14.0,
		TravelLimit:     360.0,
		WrapTrigger:     345.0,
		WrapSearchStart: 100.0,
		WrapMaxTravel:   360.0,
		WrapSpeed:       0.25,
		TrackingSpeed:   1.0,
	}
}

// MaxRotations is the hard travel limit expressed in encoder rotations.
func (c Config) MaxRotations() float64 {
	return c.TravelLimit / 360.0 * c.GearRatio
}

func (c Config) Validate() error {
	switch {
	case c.GearRatio <= 0:
		return fmt.Errorf("%w: gear_ratio must be > 0, got %g", ErrInvalidConfig, c.GearRatio)
	case c.TravelLimit <= 0:
		return fmt.Errorf("%w: travel_limit must be > 0, got %g", ErrInvalidConfig, c.TravelLimit)
	case c.WrapTrigger <= 0 || c.WrapTrigger > c.TravelLimit:
		return fmt.Errorf("%w: wrap_trigger must be in (0, travel_limit], got %g", ErrInvalidConfig, c.WrapTrigger)
	case c.WrapSearchStart < 0:
		return fmt.Errorf("%w: wrap_search_start must be >= 0, got %g", ErrInvalidConfig, c.WrapSearchStart)
	case c.WrapMaxTravel <= c.WrapSearchStart:
		return fmt.Errorf("%w: wrap_max_travel (%g) must exceed wrap_search_start (%g)", ErrInvalidConfig, c.WrapMaxTravel, c.WrapSearchStart)
	case c.WrapSpeed <= 0 || c.WrapSpeed > 1:
		return fmt.Errorf("%w: wrap_speed must be in (0, 1], got %g", ErrInvalidConfig, c.WrapSpeed)
	case c.TrackingSpeed < MinTrackingSpeed || c.TrackingSpeed > MaxTrackingSpeed:
		return fmt.Errorf("%w: tracking_speed must be in [%g, %g], got %g", ErrInvalidConfig, MinTrackingSpeed, MaxTrackingSpeed, c.TrackingSpeed)
	}
	return nil
}

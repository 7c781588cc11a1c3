package physics

import (
	"fmt"

	"github.com/san-kum/turretlab/internal/angle"
	"github.com/san-kum/turretlab/internal/dynamo"
)

// State layout of the robot plant.
const (
	TurretRot  = iota // motor-side rotations
	TurretRate        // motor-side rotations per second
	Yaw               // chassis heading, degrees
	YawRate           // degrees per second
)

// Control layout of the robot plant.
const (
	TurretOut = iota // percent output to the turret motor
	TurnOut          // percent output to the drive base, positive = counter-clockwise
)

type RobotParams struct {
	GearRatio       float64 `yaml:"gear_ratio"`        // motor rotations per turret revolution
	TurretFreeSpeed float64 `yaml:"turret_free_speed"` // motor rotations per second at full output
	TurretTau       float64 `yaml:"turret_tau"`        // motor time constant, seconds
	TurretDeadband  float64 `yaml:"turret_deadband"`   // outputs below this do not move the turret
	ChassisMaxRate  float64 `yaml:"chassis_max_rate"`  // degrees per second at full turn output
	ChassisTau      float64 `yaml:"chassis_tau"`
}

func DefaultRobotParams() RobotParams {
	return RobotParams{
		GearRatio:       250.0 / 14.0,
		TurretFreeSpeed: 100,
		TurretTau:       0.04,
		ChassisMaxRate:  360,
		ChassisTau:      0.05,
	}
}

// Robot is a drive base carrying a geared turret. Both axes are modelled
// as first-order velocity lags behind their commanded output.
type Robot struct {
	RobotParams
}

func NewRobot(p RobotParams) *Robot {
	return &Robot{RobotParams: p}
}

func (r *Robot) StateDim() int   { return 4 }
func (r *Robot) ControlDim() int { return 2 }

func (r *Robot) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	turretCmd := angle.Clamp(u.At(TurretOut), -1, 1)
	if turretCmd > -r.TurretDeadband && turretCmd < r.TurretDeadband {
		turretCmd = 0
	}
	turnCmd := angle.Clamp(u.At(TurnOut), -1, 1)

	turretAccel := (turretCmd*r.TurretFreeSpeed - x[TurretRate]) / r.TurretTau
	yawAccel := (turnCmd*r.ChassisMaxRate - x[YawRate]) / r.ChassisTau

	return dynamo.State{x[TurretRate], turretAccel, x[YawRate], yawAccel}
}

// InitialState places the turret at turretDeg from home and the chassis at
// yaw, both at rest.
func (r *Robot) InitialState(turretDeg, yaw float64) dynamo.State {
	return dynamo.State{angle.DegreesToRotations(turretDeg, r.GearRatio), 0, yaw, 0}
}

// TurretAngle is the true turret angle from home in degrees.
func (r *Robot) TurretAngle(x dynamo.State) float64 {
	return angle.RotationsToDegrees(x[TurretRot], r.GearRatio)
}

// CameraHeading is the world heading the turret camera points along.
func (r *Robot) CameraHeading(x dynamo.State) float64 {
	return x[Yaw] + r.TurretAngle(x)
}

func (r *Robot) GetParams() map[string]float64 {
	return map[string]float64{
		"gear_ratio":        r.GearRatio,
		"turret_free_speed": r.TurretFreeSpeed,
		"turret_tau":        r.TurretTau,
		"turret_deadband":   r.TurretDeadband,
		"chassis_max_rate":  r.ChassisMaxRate,
		"chassis_tau":       r.ChassisTau,
	}
}

func (r *Robot) SetParam(name string, value float64) error {
	switch name {
	case "gear_ratio", "turret_tau", "chassis_tau":
		if value <= 0 {
			return fmt.Errorf("%w: %s must be > 0, got %g", dynamo.ErrParameterBounds, name, value)
		}
	case "turret_deadband":
		if value < 0 || value >= 1 {
			return fmt.Errorf("%w: %s must be in [0, 1), got %g", dynamo.ErrParameterBounds, name, value)
		}
	}
	switch name {
	case "gear_ratio":
		r.GearRatio = value
	case "turret_free_speed":
		r.TurretFreeSpeed = value
	case "turret_tau":
		r.TurretTau = value
	case "turret_deadband":
		r.TurretDeadband = value
	case "chassis_max_rate":
		r.ChassisMaxRate = value
	case "chassis_tau":
		r.ChassisTau = value
	default:
		return fmt.Errorf("%w: %s", dynamo.ErrUnknownParameter, name)
	}
	return nil
}

package analysis

import (
	"math"

	"github.com/san-kum/turretlab/internal/angle"
	"github.com/san-kum/turretlab/internal/dynamo"
	"github.com/san-kum/turretlab/internal/physics"
)

// Report summarises the motion of both axes over a run.
type Report struct {
	Duration float64 `json:"duration_s"`

	TurretPeak      float64 `json:"turret_peak_deg"`
	TurretFinal     float64 `json:"turret_final_deg"`
	TurretTravel    float64 `json:"turret_travel_deg"`
	TurretReversals int     `json:"turret_reversals"`
	TurretHuntHz    float64 `json:"turret_hunt_hz"`

	YawFinal     float64 `json:"yaw_final_deg"`
	YawReversals int     `json:"yaw_reversals"`
	YawHuntHz    float64 `json:"yaw_hunt_hz"`
}

// Hunting reports whether the turret reversed often enough, over the tail
// of the run, to count as oscillating around its setpoint.
func (r Report) Hunting() bool {
	return r.TurretReversals >= 6 && r.TurretHuntHz > 0.5
}

// TurretDegrees converts the turret rotation column to degrees.
func TurretDegrees(result *dynamo.Result, gearRatio float64) []float64 {
	rot := result.Series(physics.TurretRot)
	out := make([]float64, len(rot))
	for i, v := range rot {
		out[i] = angle.RotationsToDegrees(v-rot[0], gearRatio)
	}
	return out
}

// Analyze builds a Report. Turret angles are measured from the first
// recorded position.
func Analyze(result *dynamo.Result, gearRatio float64) Report {
	var rep Report
	if len(result.States) == 0 {
		return rep
	}
	dt := 0.0
	if len(result.Times) > 1 {
		dt = result.Times[1] - result.Times[0]
		rep.Duration = result.Times[len(result.Times)-1] - result.Times[0]
	}

	turret := TurretDegrees(result, gearRatio)
	for i, v := range turret {
		rep.TurretPeak = math.Max(rep.TurretPeak, math.Abs(v))
		if i > 0 {
			rep.TurretTravel += math.Abs(v - turret[i-1])
		}
	}
	rep.TurretFinal = turret[len(turret)-1]
	rep.TurretReversals = Reversals(turret, 0.05)
	rep.TurretHuntHz = DominantFrequency(tail(turret), dt)

	yaw := result.Series(physics.Yaw)
	rep.YawFinal = angle.Normalize180(yaw[len(yaw)-1])
	rep.YawReversals = Reversals(yaw, 0.05)
	rep.YawHuntHz = DominantFrequency(tail(yaw), dt)
	return rep
}

// Reversals counts direction changes in series. Steps smaller than
// deadband are ignored.
func Reversals(series []float64, deadband float64) int {
	count, last := 0, 0
	for i := 1; i < len(series); i++ {
		d := series[i] - series[i-1]
		if math.Abs(d) <= deadband {
			continue
		}
		s := angle.Sign(d)
		if last != 0 && s != last {
			count++
		}
		last = s
	}
	return count
}

func tail(series []float64) []float64 {
	return series[len(series)/2:]
}

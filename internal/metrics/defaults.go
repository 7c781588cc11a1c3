package metrics

import (
	"github.com/san-kum/turretlab/internal/control"
	"github.com/san-kum/turretlab/internal/dynamo"
	"github.com/san-kum/turretlab/internal/physics"
)

// Default is the metric set recorded for every scenario run.
func Default(src FrameSource, gearRatio, wrapTrigger float64) []dynamo.Metric {
	return []dynamo.Metric{
		NewControlEffort("turret_effort", physics.TurretOut),
		NewControlEffort("turn_effort", physics.TurnOut),
		NewLimitSafety(gearRatio, wrapTrigger),
		NewPeakAngle(gearRatio),
		NewTrackingError(src),
		NewVisibility(src),
		NewGauge("wraps", src, func(f control.Frame) float64 { return float64(f.Turret.WrapCount) }),
		NewGauge("turns_completed", src, func(f control.Frame) float64 { return float64(f.Heading.Completed) }),
		NewGauge("turns_aborted", src, func(f control.Frame) float64 { return float64(f.Heading.Aborted) }),
	}
}

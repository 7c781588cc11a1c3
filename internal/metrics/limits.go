package metrics

import (
	"math"

	"github.com/san-kum/turretlab/internal/angle"
	"github.com/san-kum/turretlab/internal/dynamo"
	"github.com/san-kum/turretlab/internal/physics"
)

// LimitSafety is the fraction of ticks the turret spent below a threshold
// angle from home. 1.0 means it never got there.
type LimitSafety struct {
	name       string
	gearRatio  float64
	threshold  float64
	violations int
	samples    int
}

func NewLimitSafety(gearRatio, thresholdDeg float64) *LimitSafety {
	return &LimitSafety{
		name:      "limit_safety",
		gearRatio: gearRatio,
		threshold: thresholdDeg,
	}
}

func (s *LimitSafety) Name() string {
	return s.name
}

func (s *LimitSafety) Observe(x dynamo.State, u dynamo.Control, t float64) {
	s.samples++
	if math.Abs(angle.RotationsToDegrees(x[physics.TurretRot], s.gearRatio)) >= s.threshold {
		s.violations++
	}
}

func (s *LimitSafety) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *LimitSafety) Reset() {
	s.violations = 0
	s.samples = 0
}

// PeakAngle is the largest |turret angle| seen, in degrees.
type PeakAngle struct {
	gearRatio float64
	peak      float64
}

func NewPeakAngle(gearRatio float64) *PeakAngle {
	return &PeakAngle{gearRatio: gearRatio}
}

func (p *PeakAngle) Name() string { return "peak_turret_deg" }

func (p *PeakAngle) Observe(x dynamo.State, u dynamo.Control, t float64) {
	p.peak = math.Max(p.peak, math.Abs(angle.RotationsToDegrees(x[physics.TurretRot], p.gearRatio)))
}

func (p *PeakAngle) Value() float64 { return p.peak }

func (p *PeakAngle) Reset() { p.peak = 0 }

package physics

import "github.com/san-kum/turretlab/internal/dynamo"

// Encoder is the turret motor's integrated rotation sensor. It reports
// whatever was sampled last, like a CAN status frame.
type Encoder struct {
	pos float64
}

func (e *Encoder) Sample(x dynamo.State) { e.pos = x[TurretRot] }

func (e *Encoder) Position() float64 { return e.pos }

// Gyro reports chassis yaw relative to its last reset.
type Gyro struct {
	raw  float64
	zero float64
}

func (g *Gyro) Sample(x dynamo.State) { g.raw = x[Yaw] }

func (g *Gyro) Yaw() float64 { return g.raw - g.zero }

// ResetYaw makes the current heading read as yaw.
func (g *Gyro) ResetYaw(yaw float64) { g.zero = g.raw - yaw }

// Latch is an actuator sink that holds the last commanded output until the
// plant reads it.
type Latch struct {
	out    float64
	writes int
}

func (l *Latch) Set(output float64) {
	l.out = output
	l.writes++
}

func (l *Latch) Value() float64 { return l.out }

// Writes counts Set calls, including repeats of the same value.
func (l *Latch) Writes() int { return l.writes }

package physics

import (
	"math"
	"math/rand"

	"github.com/san-kum/turretlab/internal/angle"
)

// Window is a closed time interval in seconds.
type Window struct {
	From float64 `yaml:"from"`
	To   float64 `yaml:"to"`
}

func (w Window) Contains(t float64) bool { return t >= w.From && t <= w.To }

// Target describes a vision target moving around the robot at a constant
// angular rate.
type Target struct {
	Bearing float64  `yaml:"bearing"` // world bearing at t=0, degrees
	Rate    float64  `yaml:"rate"`    // degrees per second
	FOV     float64  `yaml:"fov"`     // camera horizontal field of view
	Noise   float64  `yaml:"noise"`   // offset noise standard deviation, degrees
	Hidden  []Window `yaml:"hidden"`  // intervals with the target occluded
}

func DefaultTarget() Target {
	return Target{Bearing: 30, FOV: 60}
}

func (t Target) BearingAt(sec float64) float64 {
	return angle.Normalize180(t.Bearing + t.Rate*sec)
}

// Sighting is one frame of the vision feed.
type Sighting struct {
	Visible bool    `json:"visible"`
	Offset  float64 `json:"offset_deg"`
}

// Camera turns a camera heading into sightings of a target.
type Camera struct {
	target Target
	rng    *rand.Rand
}

func NewCamera(t Target, seed int64) *Camera {
	return &Camera{target: t, rng: rand.New(rand.NewSource(seed))}
}

func (c *Camera) Target() Target { return c.target }

// Observe reports the horizontal offset of the target from the camera
// centre. Positive offset means the camera points counter-clockwise of the
// target. A hidden or out-of-frame target yields a zero offset.
func (c *Camera) Observe(cameraHeading, sec float64) Sighting {
	for _, w := range c.target.Hidden {
		if w.Contains(sec) {
			return Sighting{}
		}
	}
	offset := angle.Normalize180(cameraHeading - c.target.BearingAt(sec))
	if math.Abs(offset) > c.target.FOV/2 {
		return Sighting{}
	}
	if c.target.Noise > 0 {
		offset += c.rng.NormFloat64() * c.target.Noise
	}
	return Sighting{Visible: true, Offset: offset}
}

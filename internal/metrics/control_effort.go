package metrics

import (
	"math"

	"github.com/san-kum/turretlab/internal/dynamo"
)

// ControlEffort is the mean absolute output on one actuator channel.
type ControlEffort struct {
	name    string
	channel int
	sum     float64
	samples int
}

func NewControlEffort(name string, channel int) *ControlEffort {
	return &ControlEffort{
		name:    name,
		channel: channel,
	}
}

func (c *ControlEffort) Name() string {
	return c.name
}

func (c *ControlEffort) Observe(x dynamo.State, u dynamo.Control, t float64) {
	c.sum += math.Abs(u.At(c.channel))
	c.samples++
}

func (c *ControlEffort) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.sum / float64(c.samples)
}

func (c *ControlEffort) Reset() {
	c.sum = 0
	c.samples = 0
}

package control

import "github.com/san-kum/turretlab/internal/dynamo"

// None commands zero on every actuator. It is the passive baseline that
// scenario metrics are compared against.
type None struct {
	dim int
}

func NewNone(dim int) *None {
	return &None{
		dim: dim,
	}
}

func (n *None) Compute(x dynamo.State, t float64) dynamo.Control {
	return make(dynamo.Control, n.dim)
}

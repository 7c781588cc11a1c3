package integrators

import "github.com/san-kum/turretlab/internal/dynamo"

// RK4 is the classic fourth-order Runge-Kutta step. The actuator command u
// is held for the whole tick, the way a motor controller latches the last
// percent output until the next loop writes it.
//
// Stage buffers are reused between calls, so one RK4 must not be shared
// between runs.
type RK4 struct {
	k     [4]dynamo.State
	probe dynamo.State
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) resize(n int) {
	if len(r.probe) == n {
		return
	}
	for i := range r.k {
		r.k[i] = make(dynamo.State, n)
	}
	r.probe = make(dynamo.State, n)
}

// stage evaluates the derivative at x + h*prev into dst.
func (r *RK4) stage(dst dynamo.State, dyn dynamo.System, x, prev dynamo.State, u dynamo.Control, t, h float64) {
	for i := range x {
		r.probe[i] = x[i] + h*prev[i]
	}
	copy(dst, dyn.Derive(r.probe, u, t+h))
}

func (r *RK4) Step(dyn dynamo.System, x dynamo.State, u dynamo.Control, t, dt float64) dynamo.State {
	r.resize(len(x))
	half := dt / 2

	copy(r.k[0], dyn.Derive(x, u, t))
	r.stage(r.k[1], dyn, x, r.k[0], u, t, half)
	r.stage(r.k[2], dyn, x, r.k[1], u, t, half)
	r.stage(r.k[3], dyn, x, r.k[2], u, t, dt)

	next := make(dynamo.State, len(x))
	for i := range x {
		next[i] = x[i] + dt/6*(r.k[0][i]+2*r.k[1][i]+2*r.k[2][i]+r.k[3][i])
	}
	return next
}

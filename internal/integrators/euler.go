package integrators

import "github.com/san-kum/turretlab/internal/dynamo"

// Euler is the explicit forward Euler step, matching how a 50 Hz robot
// loop integrates its own estimates.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(dyn dynamo.System, x dynamo.State, u dynamo.Control, t float64, dt float64) dynamo.State {
	dx := dyn.Derive(x, u, t)
	result := make(dynamo.State, len(x))
	for i := range x {
		result[i] = x[i] + dt*dx[i]
	}
	return result
}

// ByName returns the integrator registered under name, or nil.
func ByName(name string) dynamo.Integrator {
	switch name {
	case "euler":
		return NewEuler()
	case "rk4":
		return NewRK4()
	}
	return nil
}

// Names lists the accepted integrator names.
func Names() []string { return []string{"euler", "rk4"} }

// Package dynamo provides the simulation primitives the turret rig is
// built on.
//
//   - [State]: plant state vector
//   - [Control]: actuator command vector
//   - [System]: plant interface (dX/dt = f(X, u, t))
//   - [Integrator]: fixed-step numerical integrator
//   - [Controller]: computes one tick of actuator commands from the state
//
// # Example
//
//	plant := physics.NewRobot(physics.DefaultRobotParams())
//	s := sim.New(plant, integrators.NewRK4(), rig)
//	result, err := s.Run(ctx, plant.InitialState(), dynamo.DefaultConfig())
//
// # Thread Safety
//
// None of the types here are safe for concurrent use. Parallel sweeps build
// one plant and controller per run.
package dynamo

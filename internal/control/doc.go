// Package control wires the turret and heading controllers to the
// simulated robot.
//
//   - [Robot]: the periodic robot loop (sensors, operator events,
//     controllers, actuator latches)
//   - [None]: passive baseline (zero control)
//
// # Usage
//
//	rig, err := control.NewRobot(plant, camera, control.Config{
//	    Turret:  turret.DefaultConfig(),
//	    Heading: heading.DefaultConfig(),
//	    Gain:    0.006,
//	})
//	s := sim.New(plant, integrators.NewRK4(), rig)
//
// [Robot.Enqueue] and [Robot.Frame] may be used from other goroutines; all
// controller state is touched only from Compute.
package control

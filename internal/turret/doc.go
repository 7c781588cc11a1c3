// Package turret implements the rotational position controller for a
// turret that cannot spin freely: its wiring allows at most one full
// revolution past home in either direction.
//
// The controller has two modes:
//
//   - [Tracking]: proportional control toward zero vision offset.
//   - [Wrapping]: a two-phase reverse traversal used when tracking would
//     push the mechanism past its wrap trigger angle.
//
// # Usage
//
//	ctrl, err := turret.New(turret.DefaultConfig(), encoder, motor)
//	// every 20 ms:
//	out := ctrl.Update(feed.Offset, gain, feed.Visible)
//	ctrl.SetOutput(out)
//
// The controller holds no goroutines and never blocks. All state changes
// happen synchronously inside the call that caused them.
package turret

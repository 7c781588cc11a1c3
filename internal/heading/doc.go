// Package heading turns a drive base to a requested yaw and decides when
// the turn is over.
//
// A turn ends in exactly one of three ways: the error settles inside the
// yaw tolerance for the settle time, the controller gives up because the
// error kept changing sign or stopped shrinking, or the caller cancels it.
// Requests received while a turn is in flight are dropped.
package heading

// Package physics models the robot the controllers run against: a drive
// base with a geared turret on top, the sensors that observe it, and the
// vision target the turret camera looks for.
//
// [Robot] implements [dynamo.System] and [dynamo.Configurable]. Sensors
// sample the integrated state once per tick; actuator commands go through a
// [Latch] so the plant sees exactly what the controllers last wrote.
package physics

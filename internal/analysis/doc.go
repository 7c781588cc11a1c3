// Package analysis inspects recorded runs after the fact.
//
// [Analyze] reduces a run to a [Report]: peak and final turret angle,
// how far the turret travelled, and how often each axis reversed. The
// dominant frequency of the second half of each trace, found with [FFT],
// separates a controller that hunts around its setpoint from one that
// settles.
//
//	rep := analysis.Analyze(result, params.GearRatio)
//	if rep.Hunting() {
//	    // lower the tracking gain
//	}
//
// [TurretPhase] renders turret angle against rate for terminal output.
package analysis

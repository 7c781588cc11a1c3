// Package angle holds the degree arithmetic shared by the rotational
// controllers: wrapping into (-180, 180], signs, and conversions between
// actuator rotations and mechanism degrees.
package angle

import "math"

// Normalize180 maps a value of any magnitude into (-180, 180].
// An input of -180 comes back as 180.
func Normalize180(deg float64) float64 {
	d := math.Mod(deg, 360)
	if d <= -180 {
		d += 360
	} else if d > 180 {
		d -= 360
	}
	return d
}

// Diff returns target-current wrapped into (-180, 180].
func Diff(target, current float64) float64 {
	return Normalize180(target - current)
}

// Sign returns -1, 0 or +1. NaN counts as 0.
func Sign(x float64) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}

// RotationsToDegrees converts actuator-side rotations into mechanism
// degrees through a gear ratio (actuator rotations per mechanism turn).
func RotationsToDegrees(rotations, gearRatio float64) float64 {
	return rotations / gearRatio * 360.0
}

// DegreesToRotations is the inverse of RotationsToDegrees.
func DegreesToRotations(deg, gearRatio float64) float64 {
	return deg / 360.0 * gearRatio
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

package angle

import (
	"math"
	"testing"
)

func TestNormalize180(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{180, 180},
		{-180, 180},
		{181, -179},
		{-181, 179},
		{340, -20},
		{-340, 20},
		{720, 0},
		{725, 5},
		{-900, 180},
	}

	for _, tt := range tests {
		if got := Normalize180(tt.in); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Normalize180(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNormalize180_Range(t *testing.T) {
	for raw := -1080.0; raw <= 1080.0; raw += 7.25 {
		got := Normalize180(raw)
		if got <= -180 || got > 180 {
			t.Fatalf("Normalize180(%v) = %v, outside (-180, 180]", raw, got)
		}
	}
}

func TestDiff(t *testing.T) {
	// target 350, current 10 is a short turn backwards, not +340.
	if got := Diff(350, 10); math.Abs(got+20) > 1e-9 {
		t.Errorf("Diff(350, 10) = %v, want -20", got)
	}
	if got := Diff(10, 350); math.Abs(got-20) > 1e-9 {
		t.Errorf("Diff(10, 350) = %v, want 20", got)
	}
}

func TestSign(t *testing.T) {
	if Sign(3) != 1 || Sign(-0.1) != -1 || Sign(0) != 0 || Sign(math.NaN()) != 0 {
		t.Error("Sign returned unexpected values")
	}
}

func TestRotationConversions(t *testing.T) {
	gear := 250.0 / 14.0
	if got := RotationsToDegrees(gear, gear); math.Abs(got-360) > 1e-9 {
		t.Errorf("one gear ratio of rotations = %v deg, want 360", got)
	}
	if got := DegreesToRotations(90, gear); math.Abs(got-gear/4) > 1e-9 {
		t.Errorf("90 deg = %v rotations, want %v", got, gear/4)
	}
}

func TestClamp(t *testing.T) {
	if Clamp(2, -1, 1) != 1 || Clamp(-2, -1, 1) != -1 || Clamp(0.5, -1, 1) != 0.5 {
		t.Error("Clamp returned unexpected values")
	}
}

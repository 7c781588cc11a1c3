package physics

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/turretlab/internal/dynamo"
)

func TestRobot_Derive(t *testing.T) {
	p := DefaultRobotParams()
	p.TurretDeadband = 0.05
	r := NewRobot(p)

	tests := []struct {
		name      string
		x         dynamo.State
		u         dynamo.Control
		wantTurAc float64
		wantYawAc float64
	}{
		{"at rest, no command", dynamo.State{0, 0, 0, 0}, dynamo.Control{0, 0}, 0, 0},
		{"full turret output", dynamo.State{0, 0, 0, 0}, dynamo.Control{1, 0}, p.TurretFreeSpeed / p.TurretTau, 0},
		{"saturated output", dynamo.State{0, 0, 0, 0}, dynamo.Control{5, -5}, p.TurretFreeSpeed / p.TurretTau, -p.ChassisMaxRate / p.ChassisTau},
		{"inside deadband", dynamo.State{0, 0, 0, 0}, dynamo.Control{0.04, 0}, 0, 0},
		{"coasting decays", dynamo.State{0, 10, 0, 90}, dynamo.Control{}, -10 / p.TurretTau, -90 / p.ChassisTau},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dx := r.Derive(tt.x, tt.u, 0)
			if dx[TurretRot] != tt.x[TurretRate] || dx[Yaw] != tt.x[YawRate] {
				t.Errorf("position derivatives = %v, want rates %v", dx, tt.x)
			}
			if math.Abs(dx[TurretRate]-tt.wantTurAc) > 1e-9 {
				t.Errorf("turret accel = %v, want %v", dx[TurretRate], tt.wantTurAc)
			}
			if math.Abs(dx[YawRate]-tt.wantYawAc) > 1e-9 {
				t.Errorf("yaw accel = %v, want %v", dx[YawRate], tt.wantYawAc)
			}
		})
	}
}

func TestRobot_Headings(t *testing.T) {
	r := NewRobot(DefaultRobotParams())
	x := r.InitialState(90, 45)
	if got := r.TurretAngle(x); math.Abs(got-90) > 1e-9 {
		t.Errorf("TurretAngle() = %v, want 90", got)
	}
	if got := r.CameraHeading(x); math.Abs(got-135) > 1e-9 {
		t.Errorf("CameraHeading() = %v, want 135", got)
	}
}

func TestRobot_SetParam(t *testing.T) {
	r := NewRobot(DefaultRobotParams())
	if err := r.SetParam("chassis_max_rate", 180); err != nil {
		t.Fatalf("SetParam: %v", err)
	}
	if got := r.GetParams()["chassis_max_rate"]; got != 180 {
		t.Errorf("chassis_max_rate = %v, want 180", got)
	}
	if err := r.SetParam("turret_tau", 0); !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("SetParam(turret_tau, 0) = %v, want ErrParameterBounds", err)
	}
	if err := r.SetParam("mass", 1); !errors.Is(err, dynamo.ErrUnknownParameter) {
		t.Errorf("SetParam(mass) = %v, want ErrUnknownParameter", err)
	}
}

func TestGyro_ResetYaw(t *testing.T) {
	var g Gyro
	g.Sample(dynamo.State{0, 0, 100, 0})
	g.ResetYaw(0)
	if got := g.Yaw(); got != 0 {
		t.Errorf("Yaw() after reset = %v, want 0", got)
	}
	g.Sample(dynamo.State{0, 0, 130, 0})
	if got := g.Yaw(); got != 30 {
		t.Errorf("Yaw() = %v, want 30", got)
	}
	g.ResetYaw(-90)
	if got := g.Yaw(); got != -90 {
		t.Errorf("Yaw() = %v, want -90", got)
	}
}

func TestCamera_Observe(t *testing.T) {
	target := Target{Bearing: 350, Rate: 10, FOV: 60, Hidden: []Window{{From: 5, To: 6}}}
	c := NewCamera(target, 1)

	tests := []struct {
		name    string
		heading float64
		sec     float64
		want    Sighting
	}{
		{"on target across the seam", -10, 0, Sighting{Visible: true, Offset: 0}},
		{"camera ahead of target", 5, 0, Sighting{Visible: true, Offset: 15}},
		{"target moved", -10, 2, Sighting{Visible: true, Offset: -20}},
		{"edge of frame", 20, 0, Sighting{Visible: true, Offset: 30}},
		{"out of frame", 25, 0, Sighting{}},
		{"occluded", 40, 5.5, Sighting{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Observe(tt.heading, tt.sec)
			if got.Visible != tt.want.Visible || math.Abs(got.Offset-tt.want.Offset) > 1e-9 {
				t.Errorf("Observe(%v, %v) = %+v, want %+v", tt.heading, tt.sec, got, tt.want)
			}
		})
	}
}

func TestCamera_NoiseIsSeeded(t *testing.T) {
	target := Target{FOV: 60, Noise: 0.5}
	a := NewCamera(target, 42)
	b := NewCamera(target, 42)
	for i := 0; i < 10; i++ {
		if x, y := a.Observe(1, 0), b.Observe(1, 0); x != y {
			t.Fatalf("frame %d differs: %+v vs %+v", i, x, y)
		}
	}
}

package turret

import (
	"errors"
	"log/slog"
	"math"
	"testing"

	"github.com/san-kum/turretlab/internal/angle"
)

type fakeEncoder struct{ pos float64 }

func (e *fakeEncoder) Position() float64 { return e.pos }

type fakeMotor struct {
	last  float64
	calls int
}

func (m *fakeMotor) Set(output float64) {
	m.last = output
	m.calls++
}

func newTestController(t *testing.T, cfg Config) (*Controller, *fakeEncoder, *fakeMotor) {
	t.Helper()
	enc := &fakeEncoder{}
	motor := &fakeMotor{}
	c, err := New(cfg, enc, motor, WithLogger(slog.New(slog.DiscardHandler)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c, enc, motor
}

func setAngle(enc *fakeEncoder, cfg Config, deg float64) {
	enc.pos = angle.DegreesToRotations(deg, cfg.GearRatio)
}

func TestSetOutput_HardLimits(t *testing.T) {
	cfg := DefaultConfig()
	max := cfg.MaxRotations()

	tests := []struct {
		name     string
		position float64
		speed    float64
		want     float64
	}{
		{"free travel forward", 0, 0.5, 0.5},
		{"free travel reverse", 0, -0.5, -0.5},
		{"at max forward", max, 0.5, 0},
		{"past max forward", max + 1, 1, 0},
		{"at max backing off", max, -0.3, -0.3},
		{"at min reverse", -max, -0.5, 0},
		{"past min reverse", -max - 2, -0.1, 0},
		{"at min backing off", -max, 0.4, 0.4},
		{"zero is still written", max, 0, 0},
		{"clamped above one", 0, 3, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, enc, motor := newTestController(t, cfg)
			enc.pos = tt.position
			c.SetOutput(tt.speed)
			if motor.calls != 1 {
				t.Fatalf("motor written %d times, want 1", motor.calls)
			}
			if motor.last != tt.want {
				t.Errorf("motor = %v, want %v", motor.last, tt.want)
			}
			if c.Output() != tt.want {
				t.Errorf("Output() = %v, want %v", c.Output(), tt.want)
			}
		})
	}
}

func TestSetOutput_LimitSweep(t *testing.T) {
	cfg := DefaultConfig()
	max := cfg.MaxRotations()
	c, enc, motor := newTestController(t, cfg)

	for pos := max; pos < max+5; pos += 0.25 {
		for speed := 0.05; speed <= 1; speed += 0.05 {
			enc.pos = pos
			c.SetOutput(speed)
			if motor.last != 0 {
				t.Fatalf("pos=%v speed=%v: motor = %v, want 0", pos, speed, motor.last)
			}
			enc.pos = -pos
			c.SetOutput(-speed)
			if motor.last != 0 {
				t.Fatalf("pos=%v speed=%v: motor = %v, want 0", -pos, -speed, motor.last)
			}
		}
	}
}

func TestAngleDegrees_RelativeToHome(t *testing.T) {
	cfg := DefaultConfig()
	enc := &fakeEncoder{pos: 5}
	c, err := New(cfg, enc, &fakeMotor{}, WithLogger(slog.New(slog.DiscardHandler)))
	if err != nil {
		t.Fatal(err)
	}
	if c.AngleDegrees() != 0 {
		t.Errorf("angle at construction = %v, want 0", c.AngleDegrees())
	}
	enc.pos = 5 + cfg.GearRatio/2
	if got := c.AngleDegrees(); math.Abs(got-180) > 1e-9 {
		t.Errorf("angle = %v, want 180", got)
	}
}

func TestTrackingCommand_Law(t *testing.T) {
	cfg := DefaultConfig()
	c, _, _ := newTestController(t, cfg)

	got := c.TrackingCommand(10, 0.005, true)
	if math.Abs(got-(-0.05)) > 1e-12 {
		t.Errorf("command = %v, want -0.05", got)
	}

	c.SetTrackingSpeed(2)
	got = c.TrackingCommand(10, 0.005, true)
	if math.Abs(got-(-0.1)) > 1e-12 {
		t.Errorf("command with 2x multiplier = %v, want -0.1", got)
	}
}

func TestTrackingCommand_WrapEntry(t *testing.T) {
	cfg := DefaultConfig()
	cfg.WrapTrigger = 330

	tests := []struct {
		name      string
		angle     float64
		offset    float64
		visible   bool
		wantWrap  bool
		wantDir   int
		wantValue float64
	}{
		// -0.006*50 = -0.3 pushes a negative turret further negative.
		{"negative side pushing out", -340, 50, true, true, 1, 0},
		{"positive side pushing out", 340, -50, true, true, -1, 0},
		{"positive side pulling back", 340, 50, true, false, 0, -0.3},
		{"below trigger", 300, -50, true, false, 0, 0.3},
		{"target not visible", 340, -50, false, false, 0, 0.3},
		{"just past trigger", -330.5, 50, true, true, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, enc, _ := newTestController(t, cfg)
			setAngle(enc, cfg, tt.angle)

			got := c.TrackingCommand(tt.offset, 0.006, tt.visible)
			if math.Abs(got-tt.wantValue) > 1e-9 {
				t.Errorf("command = %v, want %v", got, tt.wantValue)
			}
			if c.IsWrapping() != tt.wantWrap {
				t.Errorf("IsWrapping() = %v, want %v", c.IsWrapping(), tt.wantWrap)
			}
			if c.WrapDirection() != tt.wantDir {
				t.Errorf("WrapDirection() = %v, want %v", c.WrapDirection(), tt.wantDir)
			}
		})
	}
}

func TestTrackingCommand_IdempotentWhileWrapping(t *testing.T) {
	cfg := DefaultConfig()
	c, enc, _ := newTestController(t, cfg)
	setAngle(enc, cfg, 350)

	c.TrackingCommand(-20, 0.01, true)
	if !c.IsWrapping() || c.WrapDirection() != -1 {
		t.Fatalf("expected wrap toward -1, got wrapping=%v dir=%d", c.IsWrapping(), c.WrapDirection())
	}

	for i := 0; i < 5; i++ {
		if got := c.TrackingCommand(20, 0.01, true); got != 0 {
			t.Errorf("tracking while wrapping = %v, want 0", got)
		}
		if got := c.TrackingCommand(-20, 0.01, true); got != 0 {
			t.Errorf("tracking while wrapping = %v, want 0", got)
		}
	}
	if c.WrapDirection() != -1 {
		t.Errorf("direction changed to %d", c.WrapDirection())
	}
	if c.WrapCount() != 1 {
		t.Errorf("WrapCount() = %d, want 1", c.WrapCount())
	}
}

func TestWrapCommand_Phases(t *testing.T) {
	cfg := DefaultConfig()
	c, enc, _ := newTestController(t, cfg)
	setAngle(enc, cfg, 350)
	c.TrackingCommand(-20, 0.01, true)

	// Blind phase: visibility is ignored.
	setAngle(enc, cfg, 300)
	if got := c.WrapCommand(true); got != -cfg.WrapSpeed {
		t.Errorf("phase 1 command = %v, want %v", got, -cfg.WrapSpeed)
	}
	if !c.IsWrapping() || c.InSearchPhase() {
		t.Fatalf("expected blind phase, wrapping=%v search=%v", c.IsWrapping(), c.InSearchPhase())
	}

	// Search phase without a target keeps turning.
	setAngle(enc, cfg, 200)
	if got := c.WrapCommand(false); got != -cfg.WrapSpeed {
		t.Errorf("phase 2 command = %v, want %v", got, -cfg.WrapSpeed)
	}
	if !c.InSearchPhase() {
		t.Error("expected search phase after 150 degrees")
	}
	if math.Abs(c.WrapTravel()-150) > 1e-9 {
		t.Errorf("WrapTravel() = %v, want 150", c.WrapTravel())
	}

	setAngle(enc, cfg, 190)
	if got := c.WrapCommand(true); got != 0 {
		t.Errorf("reacquire command = %v, want 0", got)
	}
	if c.IsWrapping() || c.WrapDirection() != 0 || c.WrapTravel() != 0 {
		t.Errorf("wrap not cleared: wrapping=%v dir=%d travel=%v", c.IsWrapping(), c.WrapDirection(), c.WrapTravel())
	}
	if c.LastExit() != Reacquired {
		t.Errorf("LastExit() = %v, want reacquired", c.LastExit())
	}
}

func TestWrapCommand_Exhausted(t *testing.T) {
	cfg := DefaultConfig()
	c, enc, _ := newTestController(t, cfg)
	setAngle(enc, cfg, -346)
	c.TrackingCommand(20, 0.01, true)
	if c.WrapDirection() != 1 {
		t.Fatalf("WrapDirection() = %d, want 1", c.WrapDirection())
	}

	for a := -346.0; a < 14; a += 10 {
		setAngle(enc, cfg, a)
		if got := c.WrapCommand(false); got != cfg.WrapSpeed {
			t.Fatalf("at %v: command = %v, want %v", a, got, cfg.WrapSpeed)
		}
	}
	setAngle(enc, cfg, 15)
	if got := c.WrapCommand(false); got != 0 {
		t.Errorf("exhaustion command = %v, want 0", got)
	}
	if c.IsWrapping() || c.WrapDirection() != 0 || c.WrapTravel() != 0 {
		t.Errorf("wrap not cleared after exhaustion")
	}
	if c.LastExit() != Exhausted {
		t.Errorf("LastExit() = %v, want exhausted", c.LastExit())
	}
}

func TestWrapCommand_Inactive(t *testing.T) {
	c, _, _ := newTestController(t, DefaultConfig())
	if got := c.WrapCommand(true); got != 0 {
		t.Errorf("WrapCommand without wrap = %v, want 0", got)
	}
}

func TestResetHome_ClearsWrap(t *testing.T) {
	cfg := DefaultConfig()
	c, enc, _ := newTestController(t, cfg)
	setAngle(enc, cfg, 350)
	c.TrackingCommand(-20, 0.01, true)

	c.ResetHome()
	if c.IsWrapping() || c.Mode() != Tracking {
		t.Error("ResetHome did not return to tracking")
	}
	if c.AngleDegrees() != 0 {
		t.Errorf("angle after ResetHome = %v, want 0", c.AngleDegrees())
	}
	if c.LastExit() != Rehomed {
		t.Errorf("LastExit() = %v, want rehomed", c.LastExit())
	}
}

func TestCancelWrap(t *testing.T) {
	cfg := DefaultConfig()
	c, enc, _ := newTestController(t, cfg)
	c.CancelWrap()
	if c.LastExit() != NoExit {
		t.Error("CancelWrap without wrap should be a no-op")
	}

	setAngle(enc, cfg, 350)
	c.TrackingCommand(-20, 0.01, true)
	c.CancelWrap()
	if c.IsWrapping() || c.WrapDirection() != 0 {
		t.Error("CancelWrap left wrap active")
	}
	if c.LastExit() != Cancelled {
		t.Errorf("LastExit() = %v, want cancelled", c.LastExit())
	}
}

func TestIsNearLimit(t *testing.T) {
	cfg := DefaultConfig()
	c, enc, _ := newTestController(t, cfg)
	setAngle(enc, cfg, 200)
	if c.IsNearLimit() {
		t.Error("200 degrees should not be near limit")
	}
	setAngle(enc, cfg, -350)
	if !c.IsNearLimit() {
		t.Error("-350 degrees should be near limit")
	}
}

func TestSetTrackingSpeed_Clamp(t *testing.T) {
	c, _, _ := newTestController(t, DefaultConfig())
	tests := []struct{ in, want float64 }{
		{0, 0.1},
		{-1, 0.1},
		{1.5, 1.5},
		{5, 2.0},
	}
	for _, tt := range tests {
		c.SetTrackingSpeed(tt.in)
		if c.TrackingSpeed() != tt.want {
			t.Errorf("SetTrackingSpeed(%v) -> %v, want %v", tt.in, c.TrackingSpeed(), tt.want)
		}
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero gear", func(c *Config) { c.GearRatio = 0 }},
		{"zero travel", func(c *Config) { c.TravelLimit = 0 }},
		{"trigger past travel", func(c *Config) { c.WrapTrigger = 400 }},
		{"search past max", func(c *Config) { c.WrapSearchStart = 400 }},
		{"wrap speed too high", func(c *Config) { c.WrapSpeed = 1.5 }},
		{"tracking speed too low", func(c *Config) { c.TrackingSpeed = 0.01 }},
	}

	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() = %v, want ErrInvalidConfig", err)
			}
			if _, err := New(cfg, &fakeEncoder{}, &fakeMotor{}); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("New() = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestStatus(t *testing.T) {
	cfg := DefaultConfig()
	c, enc, _ := newTestController(t, cfg)
	setAngle(enc, cfg, 350)
	c.TrackingCommand(-20, 0.01, true)

	s := c.Status()
	if s.Mode != "wrapping" || !s.Wrapping || s.WrapDirection != -1 || s.WrapCount != 1 {
		t.Errorf("unexpected status %+v", s)
	}
	if !s.NearLimit {
		t.Error("status should report near limit")
	}
}

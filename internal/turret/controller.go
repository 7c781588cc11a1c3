package turret

import (
	"log/slog"
	"math"

	"github.com/san-kum/turretlab/internal/angle"
)

// Encoder reports the motor-side rotation count. The value is relative to
// whatever the sensor considered zero at power-up; the controller keeps its
// own home offset.
type Encoder interface {
	Position() float64
}

// Motor accepts a percent output in [-1, 1].
type Motor interface {
	Set(output float64)
}

// Mode is the controller's top-level state.
type Mode int

const (
	Tracking Mode = iota
	Wrapping
)

func (m Mode) String() string {
	switch m {
	case Tracking:
		return "tracking"
	case Wrapping:
		return "wrapping"
	}
	return "unknown"
}

// ExitReason records why the last wrap ended.
type ExitReason int

const (
	NoExit ExitReason = iota
	Reacquired
	Exhausted
	Cancelled
	Rehomed
)

func (r ExitReason) String() string {
	switch r {
	case NoExit:
		return "none"
	case Reacquired:
		return "reacquired"
	case Exhausted:
		return "exhausted"
	case Cancelled:
		return "cancelled"
	case Rehomed:
		return "rehomed"
	}
	return "unknown"
}

// wrapState is only meaningful while mode == Wrapping; direction is 0 otherwise.
type wrapState struct {
	direction  int
	startAngle float64
	lastAngle  float64
	traveled   float64
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger routes transition logs to l.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

// Controller drives one turret. It is not safe for concurrent use; call it
// from the periodic loop only.
type Controller struct {
	cfg   Config
	enc   Encoder
	motor Motor
	log   *slog.Logger

	home          float64
	trackingSpeed float64
	output        float64

	mode      Mode
	wrap      wrapState
	wrapCount int
	lastExit  ExitReason
}

// New builds a controller and treats the current encoder reading as home.
func New(cfg Config, enc Encoder, motor Motor, opts ...Option) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Controller{
		cfg:           cfg,
		enc:           enc,
		motor:         motor,
		log:           slog.Default().With("component", "turret"),
		trackingSpeed: cfg.TrackingSpeed,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.home = enc.Position()
	return c, nil
}

// Config returns the configuration the controller was built with.
func (c *Controller) Config() Config { return c.cfg }

// RawPosition is the encoder reading relative to home, in rotations.
func (c *Controller) RawPosition() float64 {
	return c.enc.Position() - c.home
}

// AngleDegrees is the mechanism angle relative to home.
func (c *Controller) AngleDegrees() float64 {
	return angle.RotationsToDegrees(c.RawPosition(), c.cfg.GearRatio)
}

// SetOutput commands the motor. A command that would push further past a
// hard limit is replaced by 0; the motor is written on every call.
func (c *Controller) SetOutput(speed float64) {
	speed = angle.Clamp(speed, -1, 1)
	if c.atHardLimit(speed, c.RawPosition()) {
		speed = 0
	}
	c.output = speed
	c.motor.Set(speed)
}

// Stop commands zero output.
func (c *Controller) Stop() {
	c.SetOutput(0)
}

// Output is the last value written to the motor.
func (c *Controller) Output() float64 { return c.output }

func (c *Controller) atHardLimit(speed, position float64) bool {
	limit := c.cfg.MaxRotations()
	if speed > 0 && position >= limit {
		return true
	}
	if speed < 0 && position <= -limit {
		return true
	}
	return false
}

// ResetHome makes the current position angle 0 and abandons any wrap.
func (c *Controller) ResetHome() {
	c.home = c.enc.Position()
	if c.mode == Wrapping {
		c.exitWrap(Rehomed, 0)
	}
	c.log.Info("home reset", "raw", c.home)
}

// SetTrackingSpeed sets the tracking multiplier, clamped to [0.1, 2.0].
func (c *Controller) SetTrackingSpeed(m float64) {
	c.trackingSpeed = angle.Clamp(m, MinTrackingSpeed, MaxTrackingSpeed)
}

// TrackingSpeed returns the current tracking multiplier.
func (c *Controller) TrackingSpeed() float64 { return c.trackingSpeed }

// TrackingCommand applies the proportional tracking law to a vision offset.
//
// When the turret is at or past the wrap trigger and the command would
// drive it further toward the limit it is on, the controller switches to
// Wrapping and returns 0 for this tick. While already wrapping it returns 0
// and leaves the wrap untouched; use WrapCommand (or Update) instead.
func (c *Controller) TrackingCommand(offset, gain float64, visible bool) float64 {
	if c.mode == Wrapping {
		return 0
	}
	cmd := -gain * offset * c.trackingSpeed
	current := c.AngleDegrees()

	if visible && math.Abs(current) >= c.cfg.WrapTrigger {
		side := angle.Sign(current)
		if side != 0 && angle.Sign(cmd) == side {
			c.enterWrap(current, -side)
			return 0
		}
	}
	return cmd
}

// WrapCommand advances an active wrap by one tick. It returns 0 when no
// wrap is active.
func (c *Controller) WrapCommand(visible bool) float64 {
	if c.mode != Wrapping {
		return 0
	}
	current := c.AngleDegrees()
	c.wrap.traveled += math.Abs(current - c.wrap.lastAngle)
	c.wrap.lastAngle = current
	cmd := float64(c.wrap.direction) * c.cfg.WrapSpeed

	// Near the old extremum the camera cannot see the target correctly.
	if c.wrap.traveled < c.cfg.WrapSearchStart {
		return cmd
	}
	if visible {
		c.exitWrap(Reacquired, current)
		return 0
	}
	if c.wrap.traveled >= c.cfg.WrapMaxTravel {
		c.exitWrap(Exhausted, current)
		return 0
	}
	return cmd
}

// Update runs whichever law the current mode calls for.
func (c *Controller) Update(offset, gain float64, visible bool) float64 {
	if c.mode == Wrapping {
		return c.WrapCommand(visible)
	}
	return c.TrackingCommand(offset, gain, visible)
}

// CancelWrap forces the controller back to Tracking.
func (c *Controller) CancelWrap() {
	if c.mode != Wrapping {
		return
	}
	c.exitWrap(Cancelled, c.AngleDegrees())
}

func (c *Controller) enterWrap(current float64, direction int) {
	c.mode = Wrapping
	c.wrap = wrapState{
		direction:  direction,
		startAngle: current,
		lastAngle:  current,
	}
	c.wrapCount++
	c.log.Info("wrap started", "angle", current, "direction", direction)
}

func (c *Controller) exitWrap(reason ExitReason, current float64) {
	c.log.Info("wrap finished",
		"reason", reason.String(),
		"from", c.wrap.startAngle,
		"to", current,
		"traveled", c.wrap.traveled,
	)
	c.mode = Tracking
	c.wrap = wrapState{}
	c.lastExit = reason
}

// Mode returns the current mode.
func (c *Controller) Mode() Mode { return c.mode }

// IsWrapping reports whether a wrap is in progress.
func (c *Controller) IsWrapping() bool { return c.mode == Wrapping }

// IsNearLimit reports whether |angle| has reached the wrap trigger.
func (c *Controller) IsNearLimit() bool {
	return math.Abs(c.AngleDegrees()) >= c.cfg.WrapTrigger
}

// InSearchPhase reports whether a wrap has passed its blind phase.
func (c *Controller) InSearchPhase() bool {
	return c.mode == Wrapping && c.wrap.traveled >= c.cfg.WrapSearchStart
}

// WrapDirection is -1, 0 or +1; 0 exactly when not wrapping.
func (c *Controller) WrapDirection() int { return c.wrap.direction }

// WrapTravel is the distance covered by the active wrap, in degrees.
func (c *Controller) WrapTravel() float64 { return c.wrap.traveled }

// WrapCount is the number of wraps started since construction.
func (c *Controller) WrapCount() int { return c.wrapCount }

// LastExit is the reason the most recent wrap ended.
func (c *Controller) LastExit() ExitReason { return c.lastExit }

// Status is a read-only snapshot for telemetry.
type Status struct {
	Mode          string  `json:"mode"`
	AngleDegrees  float64 `json:"angle_deg"`
	RawPosition   float64 `json:"raw_rot"`
	Output        float64 `json:"output"`
	NearLimit     bool    `json:"near_limit"`
	Wrapping      bool    `json:"wrapping"`
	InSearchPhase bool    `json:"search_phase"`
	WrapDirection int     `json:"wrap_direction"`
	WrapStart     float64 `json:"wrap_start_deg"`
	WrapTravel    float64 `json:"wrap_travel_deg"`
	TrackingSpeed float64 `json:"tracking_speed"`
	WrapCount     int     `json:"wrap_count"`
	LastExit      string  `json:"last_exit"`
}

func (c *Controller) Status() Status {
	return Status{
		Mode:          c.mode.String(),
		AngleDegrees:  c.AngleDegrees(),
		RawPosition:   c.RawPosition(),
		Output:        c.output,
		NearLimit:     c.IsNearLimit(),
		Wrapping:      c.IsWrapping(),
		InSearchPhase: c.InSearchPhase(),
		WrapDirection: c.wrap.direction,
		WrapStart:     c.wrap.startAngle,
		WrapTravel:    c.wrap.traveled,
		TrackingSpeed: c.trackingSpeed,
		WrapCount:     c.wrapCount,
		LastExit:      c.lastExit.String(),
	}
}

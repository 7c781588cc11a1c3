package heading

import (
	"log/slog"
	"math"
	"time"

	"github.com/san-kum/turretlab/internal/angle"
)

type Mode int

const (
	Idle Mode = iota
	Turning
)

func (m Mode) String() string {
	if m == Turning {
		return "turning"
	}
	return "idle"
}

// Outcome is how the most recent turn ended.
type Outcome int

const (
	None Outcome = iota
	Settled
	AbortedOscillation
	AbortedStall
	Cancelled
)

func (o Outcome) String() string {
	switch o {
	case None:
		return "none"
	case Settled:
		return "settled"
	case AbortedOscillation:
		return "aborted_oscillation"
	case AbortedStall:
		return "aborted_stall"
	case Cancelled:
		return "cancelled"
	}
	return "unknown"
}

// Aborted reports whether the turn gave up on its own.
func (o Outcome) Aborted() bool {
	return o == AbortedOscillation || o == AbortedStall
}

// turnState is zeroed on every start and every finish.
type turnState struct {
	target       float64
	lastError    float64
	settle       time.Duration
	stall        time.Duration
	oscillations int
	lastSign     int
	lastAbs      float64
	hasLast      bool
}

type Option func(*Controller)

func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

// Controller is the heading auto-turn state machine. Like the turret
// controller it is driven from a single periodic loop.
type Controller struct {
	cfg Config
	log *slog.Logger

	mode    Mode
	turn    turnState
	outcome Outcome

	// target survives the end of a turn for telemetry.
	target    float64
	completed int
	aborted   int
}

func New(cfg Config, opts ...Option) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Controller{
		cfg: cfg,
		log: slog.Default().With("component", "heading"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Controller) Config() Config { return c.cfg }

// TurnRelative starts a turn of delta degrees from currentYaw. It returns
// false and changes nothing if a turn is already active.
func (c *Controller) TurnRelative(delta, currentYaw float64) bool {
	return c.start(currentYaw + delta)
}

// TurnToAbsolute starts a turn to an absolute yaw. The target may lie
// outside (-180, 180]; the error is normalized each tick.
func (c *Controller) TurnToAbsolute(target float64) bool {
	return c.start(target)
}

// Tick advances the active turn by one configured period.
func (c *Controller) Tick(currentYaw float64) float64 {
	return c.Advance(currentYaw, c.cfg.Period)
}

// Advance is Tick with a measured tick duration. Inactive controllers
// return 0 without touching any state.
func (c *Controller) Advance(currentYaw float64, dt time.Duration) float64 {
	if c.mode != Turning {
		return 0
	}
	err := angle.Diff(c.turn.target, currentYaw)
	abs := math.Abs(err)
	sign := angle.Sign(err)
	c.turn.lastError = err

	if sign != 0 && c.turn.lastSign != 0 && sign != c.turn.lastSign {
		c.turn.oscillations++
	}

	if c.turn.hasLast && math.Abs(abs-c.turn.lastAbs) < c.cfg.StallEpsilon {
		c.turn.stall += dt
	} else {
		c.turn.stall = 0
	}

	if c.turn.oscillations >= c.cfg.MaxOscillations {
		c.finish(AbortedOscillation)
		return 0
	}
	if c.turn.stall >= c.cfg.StallTimeout {
		c.finish(AbortedStall)
		return 0
	}

	if sign != 0 {
		c.turn.lastSign = sign
	}
	c.turn.lastAbs = abs
	c.turn.hasLast = true

	switch {
	case abs < c.cfg.StopTolerance:
		if abs < c.cfg.YawTolerance {
			c.turn.settle += dt
			if c.turn.settle >= c.cfg.SettleTime {
				c.finish(Settled)
			}
		} else {
			c.turn.settle = 0
		}
		return 0
	case abs <= c.cfg.SlowdownAngle:
		c.turn.settle = 0
		speed := c.cfg.MinTurnSpeed + (c.cfg.TurnSpeed-c.cfg.MinTurnSpeed)*abs/c.cfg.SlowdownAngle
		return float64(sign) * speed
	default:
		c.turn.settle = 0
		return float64(sign) * c.cfg.TurnSpeed
	}
}

// Cancel stops any active turn. It is safe to call at any time.
func (c *Controller) Cancel() {
	if c.mode != Turning {
		return
	}
	c.finish(Cancelled)
}

func (c *Controller) start(target float64) bool {
	if c.mode == Turning {
		c.log.Debug("turn request dropped", "target", target, "active_target", c.turn.target)
		return false
	}
	c.mode = Turning
	c.turn = turnState{target: target}
	c.target = target
	c.outcome = None
	c.log.Info("turn started", "target", target)
	return true
}

func (c *Controller) finish(o Outcome) {
	c.log.Info("turn finished",
		"outcome", o.String(),
		"target", c.turn.target,
		"error", c.turn.lastError,
		"oscillations", c.turn.oscillations,
	)
	switch {
	case o == Settled:
		c.completed++
	case o.Aborted():
		c.aborted++
	}
	c.mode = Idle
	c.turn = turnState{}
	c.outcome = o
}

func (c *Controller) Mode() Mode { return c.mode }

func (c *Controller) IsActive() bool { return c.mode == Turning }

func (c *Controller) IsFinished() bool { return c.mode != Turning }

// Outcome is None while a turn is active or before the first turn.
func (c *Controller) Outcome() Outcome { return c.outcome }

// Target is the active or most recent turn target.
func (c *Controller) Target() float64 { return c.target }

// Status is a read-only snapshot for telemetry.
type Status struct {
	Mode         string  `json:"mode"`
	Active       bool    `json:"active"`
	Target       float64 `json:"target_deg"`
	Error        float64 `json:"error_deg"`
	SettleMs     float64 `json:"settle_ms"`
	StallMs      float64 `json:"stall_ms"`
	Oscillations int     `json:"oscillations"`
	Outcome      string  `json:"outcome"`
	Completed    int     `json:"completed"`
	Aborted      int     `json:"aborted"`
}

func (c *Controller) Status() Status {
	return Status{
		Mode:         c.mode.String(),
		Active:       c.IsActive(),
		Target:       c.target,
		Error:        c.turn.lastError,
		SettleMs:     float64(c.turn.settle) / float64(time.Millisecond),
		StallMs:      float64(c.turn.stall) / float64(time.Millisecond),
		Oscillations: c.turn.oscillations,
		Outcome:      c.outcome.String(),
		Completed:    c.completed,
		Aborted:      c.aborted,
	}
}

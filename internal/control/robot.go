package control

import (
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/san-kum/turretlab/internal/dynamo"
	"github.com/san-kum/turretlab/internal/heading"
	"github.com/san-kum/turretlab/internal/physics"
	"github.com/san-kum/turretlab/internal/turret"
)

// Config bundles what the orchestrator needs besides the plant.
type Config struct {
	Turret  turret.Config
	Heading heading.Config
	Gain    float64 // tracking gain, percent output per degree of offset
	Events  []Event
}

// Frame is one tick of everything an operator dashboard shows.
type Frame struct {
	Time          float64          `json:"t"`
	Turret        turret.Status    `json:"turret"`
	Heading       heading.Status   `json:"heading"`
	Yaw           float64          `json:"yaw_deg"`
	CameraHeading float64          `json:"camera_heading_deg"`
	TargetBearing float64          `json:"target_bearing_deg"`
	Vision        physics.Sighting `json:"vision"`
	Jog           float64          `json:"jog"`
	TurnOutput    float64          `json:"turn_output"`
}

type Option func(*Robot)

func WithLogger(l *slog.Logger) Option {
	return func(r *Robot) {
		if l != nil {
			r.log = l
		}
	}
}

// Robot is the periodic loop of the real robot program: once per tick it
// samples the sensors, applies operator commands, feeds both controllers
// and latches their outputs for the plant. It implements dynamo.Controller.
type Robot struct {
	plant  *physics.Robot
	camera *physics.Camera
	gain   float64
	log    *slog.Logger

	encoder *physics.Encoder
	gyro    *physics.Gyro
	motor   *physics.Latch
	drive   *physics.Latch

	turret  *turret.Controller
	heading *heading.Controller

	script  []Event
	next    int
	jog     float64
	lastT   float64
	started bool

	// mu guards commands queued from other goroutines and the published frame.
	mu      sync.Mutex
	pending []Event
	frame   Frame
}

func NewRobot(plant *physics.Robot, camera *physics.Camera, cfg Config, opts ...Option) (*Robot, error) {
	for _, e := range cfg.Events {
		if err := e.Validate(); err != nil {
			return nil, err
		}
	}
	r := &Robot{
		plant:   plant,
		camera:  camera,
		gain:    cfg.Gain,
		log:     slog.Default(),
		encoder: &physics.Encoder{},
		gyro:    &physics.Gyro{},
		motor:   &physics.Latch{},
		drive:   &physics.Latch{},
		script:  sortEvents(cfg.Events),
	}
	for _, opt := range opts {
		opt(r)
	}

	var err error
	r.turret, err = turret.New(cfg.Turret, r.encoder, r.motor,
		turret.WithLogger(r.log.With("component", "turret")))
	if err != nil {
		return nil, fmt.Errorf("turret: %w", err)
	}
	r.heading, err = heading.New(cfg.Heading,
		heading.WithLogger(r.log.With("component", "heading")))
	if err != nil {
		return nil, fmt.Errorf("heading: %w", err)
	}
	return r, nil
}

// Turret exposes the turret controller for tests and metrics. Only the
// goroutine driving Compute may call its mutators.
func (r *Robot) Turret() *turret.Controller { return r.turret }

func (r *Robot) Heading() *heading.Controller { return r.heading }

func (r *Robot) Gyro() *physics.Gyro { return r.gyro }

func (r *Robot) Compute(x dynamo.State, t float64) dynamo.Control {
	r.encoder.Sample(x)
	r.gyro.Sample(x)

	for _, e := range r.due(t) {
		r.apply(e)
	}

	sight := r.camera.Observe(r.plant.CameraHeading(x), t)
	if r.jog != 0 {
		r.turret.SetOutput(r.jog)
	} else {
		r.turret.SetOutput(r.turret.Update(sight.Offset, r.gain, sight.Visible))
	}
	r.drive.Set(r.heading.Advance(r.gyro.Yaw(), r.tickDuration(t)))

	r.publish(Frame{
		Time:          t,
		Turret:        r.turret.Status(),
		Heading:       r.heading.Status(),
		Yaw:           r.gyro.Yaw(),
		CameraHeading: r.plant.CameraHeading(x),
		TargetBearing: r.camera.Target().BearingAt(t),
		Vision:        sight,
		Jog:           r.jog,
		TurnOutput:    r.drive.Value(),
	})

	return dynamo.Control{r.motor.Value(), r.drive.Value()}
}

// Enqueue schedules a command for the next tick. It is safe to call from
// any goroutine; At is ignored.
func (r *Robot) Enqueue(e Event) error {
	if err := e.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	r.pending = append(r.pending, e)
	r.mu.Unlock()
	return nil
}

// Frame returns the most recent tick's snapshot. Safe for concurrent use.
func (r *Robot) Frame() Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frame
}

func (r *Robot) publish(f Frame) {
	r.mu.Lock()
	r.frame = f
	r.mu.Unlock()
}

func (r *Robot) due(t float64) []Event {
	var out []Event
	for r.next < len(r.script) && r.script[r.next].At <= t {
		out = append(out, r.script[r.next])
		r.next++
	}
	r.mu.Lock()
	out = append(out, r.pending...)
	r.pending = r.pending[:0]
	r.mu.Unlock()
	return out
}

func (r *Robot) apply(e Event) {
	r.log.Debug("event", "kind", string(e.Kind), "value", e.Value)
	switch e.Kind {
	case TurnRelative:
		r.heading.TurnRelative(e.Value, r.gyro.Yaw())
	case TurnAbsolute:
		r.heading.TurnToAbsolute(e.Value)
	case CancelTurn:
		r.heading.Cancel()
	case Rehome:
		r.turret.ResetHome()
	case CancelWrap:
		r.turret.CancelWrap()
	case TrackingSpeed:
		r.turret.SetTrackingSpeed(e.Value)
	case Jog:
		r.jog = e.Value
	case ResetYaw:
		r.gyro.ResetYaw(e.Value)
	}
}

// tickDuration measures the time since the previous tick, rounded to the
// microsecond so float drift in t cannot shave a tick off a timer.
func (r *Robot) tickDuration(t float64) time.Duration {
	if !r.started {
		r.started = true
		r.lastT = t
		return r.heading.Config().Period
	}
	dt := t - r.lastT
	r.lastT = t
	return time.Duration(math.Round(dt*1e6)) * time.Microsecond
}

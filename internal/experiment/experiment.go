package experiment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/san-kum/turretlab/internal/config"
	"github.com/san-kum/turretlab/internal/control"
	"github.com/san-kum/turretlab/internal/dynamo"
	"github.com/san-kum/turretlab/internal/metrics"
	"github.com/san-kum/turretlab/internal/physics"
	"github.com/san-kum/turretlab/internal/sim"
)

type Option func(*options)

type options struct {
	log      *slog.Logger
	registry *Registry
}

func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.log = l }
}

func WithRegistry(r *Registry) Option {
	return func(o *options) { o.registry = r }
}

// Experiment is one fully wired run: plant, camera, robot loop, simulator
// and the default metric set.
type Experiment struct {
	cfg       *config.Config
	plant     *physics.Robot
	robot     *control.Robot
	simulator *sim.Simulator
}

func New(cfg *config.Config, opts ...Option) (*Experiment, error) {
	o := options{log: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.registry == nil {
		o.registry = NewRegistry()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	integ, err := o.registry.GetIntegrator(cfg.Integrator)
	if err != nil {
		return nil, err
	}

	e := &Experiment{cfg: cfg.Clone(), plant: physics.NewRobot(cfg.Plant)}
	camera := physics.NewCamera(cfg.Target, cfg.Seed)
	e.robot, err = control.NewRobot(e.plant, camera, control.Config{
		Turret:  cfg.Turret,
		Heading: cfg.Heading,
		Gain:    cfg.Gain,
		Events:  cfg.Events,
	}, control.WithLogger(o.log.With("scenario", cfg.Scenario)))
	if err != nil {
		return nil, err
	}

	ctrl, err := o.registry.GetController(cfg.Controller, e)
	if err != nil {
		return nil, err
	}
	e.simulator = sim.New(e.plant, integ, ctrl)
	for _, m := range metrics.Default(e.robot, cfg.Turret.GearRatio, cfg.Turret.WrapTrigger) {
		e.simulator.AddMetric(m)
	}
	return e, nil
}

func (e *Experiment) Config() *config.Config { return e.cfg }

func (e *Experiment) Plant() *physics.Robot { return e.plant }

// Robot returns the robot loop. It is built even for the "none"
// controller so frames and metrics stay available.
func (e *Experiment) Robot() *control.Robot { return e.robot }

// Simulator returns the underlying simulator for adding observers.
func (e *Experiment) Simulator() *sim.Simulator { return e.simulator }

func (e *Experiment) InitialState() dynamo.State {
	return e.plant.InitialState(e.cfg.InitState.TurretDeg, e.cfg.InitState.Yaw)
}

func (e *Experiment) simConfig() dynamo.Config {
	return dynamo.Config{
		Dt:            e.cfg.Dt,
		Duration:      e.cfg.Duration,
		Seed:          e.cfg.Seed,
		ValidateState: true,
	}
}

func (e *Experiment) Run(ctx context.Context) (*dynamo.Result, error) {
	res, err := e.simulator.Run(ctx, e.InitialState(), e.simConfig())
	if err != nil {
		return res, fmt.Errorf("scenario %s: %w", e.cfg.Scenario, err)
	}
	return res, nil
}

// RunRealtime runs the scenario at wall-clock speed for its configured
// duration. Cancel ctx to stop early.
func (e *Experiment) RunRealtime(ctx context.Context, callback func(x dynamo.State, u dynamo.Control, t float64) bool) error {
	return e.simulator.RunRealtime(ctx, e.InitialState(), e.simConfig(), callback)
}

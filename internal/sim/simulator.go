package sim

import (
	"context"
	"time"

	"github.com/san-kum/turretlab/internal/dynamo"
)

type Simulator struct {
	dyn        dynamo.System
	integrator dynamo.Integrator
	controller dynamo.Controller
	metrics    []dynamo.Metric
	observers  []dynamo.Observer
}

func New(dyn dynamo.System, integrator dynamo.Integrator, controller dynamo.Controller) *Simulator {
	return &Simulator{
		dyn:        dyn,
		integrator: integrator,
		controller: controller,
		metrics:    make([]dynamo.Metric, 0),
		observers:  make([]dynamo.Observer, 0),
	}
}

func (s *Simulator) AddMetric(m dynamo.Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o dynamo.Observer) { s.observers = append(s.observers, o) }

// Run steps the plant as fast as possible for cfg.Duration and records
// every tick.
func (s *Simulator) Run(ctx context.Context, x0 dynamo.State, cfg dynamo.Config) (*dynamo.Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	steps := cfg.Steps()
	result := &dynamo.Result{
		States:   make([]dynamo.State, 0, steps+1),
		Controls: make([]dynamo.Control, 0, steps),
		Times:    make([]float64, 0, steps+1),
		Metrics:  make(map[string]float64),
		Errors:   make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	x := x0.Clone()
	result.States = append(result.States, x.Clone())
	result.Times = append(result.Times, 0)

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			s.collect(result)
			return result, ctx.Err()
		default:
		}

		t := float64(i) * cfg.Dt
		newX, u, err := s.step(x, t, i, cfg)
		if err != nil {
			result.Errors = append(result.Errors, err)
			break
		}
		x = newX
		result.StepsTaken++
		result.States = append(result.States, x.Clone())
		result.Controls = append(result.Controls, u)
		result.Times = append(result.Times, float64(i+1)*cfg.Dt)
	}

	s.collect(result)
	return result, nil
}

// RunRealtime paces the loop to the wall clock, one tick per cfg.Dt, and
// hands every tick to callback instead of recording it. It stops after
// cfg.Duration, when ctx is done, or when callback returns false. A
// non-positive duration runs until ctx is done.
func (s *Simulator) RunRealtime(ctx context.Context, x0 dynamo.State, cfg dynamo.Config, callback func(x dynamo.State, u dynamo.Control, t float64) bool) error {
	if cfg.Dt <= 0 {
		return cfg.Validate()
	}
	for _, m := range s.metrics {
		m.Reset()
	}

	ticker := time.NewTicker(time.Duration(cfg.Dt * float64(time.Second)))
	defer ticker.Stop()

	x := x0.Clone()
	steps := -1
	if cfg.Duration > 0 {
		steps = cfg.Steps()
	}
	for i := 0; steps < 0 || i < steps; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		t := float64(i) * cfg.Dt
		newX, u, err := s.step(x, t, i, cfg)
		if err != nil {
			return err
		}
		x = newX
		if callback != nil && !callback(x, u, t+cfg.Dt) {
			return nil
		}
	}
	return nil
}

func (s *Simulator) step(x dynamo.State, t float64, i int, cfg dynamo.Config) (dynamo.State, dynamo.Control, error) {
	u := s.controller.Compute(x, t)

	for _, m := range s.metrics {
		m.Observe(x, u, t)
	}
	for _, obs := range s.observers {
		obs.OnStep(x, u, t)
	}

	newX := s.integrator.Step(s.dyn, x, u, t, cfg.Dt)
	if cfg.ValidateState && !newX.IsValid() {
		return nil, nil, &dynamo.SimError{Step: i, Time: t, State: x.Clone(), Wrapped: dynamo.ErrInvalidState}
	}
	return newX, u, nil
}

func (s *Simulator) collect(result *dynamo.Result) {
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

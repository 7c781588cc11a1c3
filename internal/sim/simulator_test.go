package sim

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/san-kum/turretlab/internal/dynamo"
)

type decay struct{}

func (decay) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	return dynamo.State{-x[0] + u.At(0)}
}

func (decay) StateDim() int   { return 1 }
func (decay) ControlDim() int { return 1 }

type eulerStep struct{}

func (eulerStep) Step(dyn dynamo.System, x dynamo.State, u dynamo.Control, t float64, dt float64) dynamo.State {
	dx := dyn.Derive(x, u, t)
	return dynamo.State{x[0] + dt*dx[0]}
}

type constant struct {
	u     float64
	calls int
}

func (c *constant) Compute(x dynamo.State, t float64) dynamo.Control {
	c.calls++
	return dynamo.Control{c.u}
}

func TestSimulatorRun(t *testing.T) {
	ctrl := &constant{}
	s := New(decay{}, eulerStep{}, ctrl)

	result, err := s.Run(context.Background(), dynamo.State{1.0}, dynamo.Config{Dt: 0.1, Duration: 1.0})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(result.States) != 11 {
		t.Errorf("expected 11 states, got %d", len(result.States))
	}
	if len(result.Times) != 11 || result.Times[10] != 1.0 {
		t.Errorf("times = %v", result.Times)
	}
	if ctrl.calls != 10 {
		t.Errorf("controller called %d times, want once per tick (10)", ctrl.calls)
	}

	final := result.States[len(result.States)-1][0]
	if want := math.Exp(-1.0); math.Abs(final-want) > 0.2 {
		t.Errorf("expected final state ~%.4f, got %.4f", want, final)
	}
}

func TestSimulatorInvalidConfig(t *testing.T) {
	s := New(decay{}, eulerStep{}, &constant{})

	tests := []struct {
		name string
		cfg  dynamo.Config
	}{
		{"zero dt", dynamo.Config{Dt: 0, Duration: 1.0}},
		{"negative dt", dynamo.Config{Dt: -0.1, Duration: 1.0}},
		{"zero duration", dynamo.Config{Dt: 0.1, Duration: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Run(context.Background(), dynamo.State{1.0}, tt.cfg)
			if !errors.Is(err, dynamo.ErrInvalidConfig) {
				t.Errorf("Run() error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestSimulatorInvalidState(t *testing.T) {
	s := New(decay{}, eulerStep{}, &constant{u: math.Inf(1)})
	cfg := dynamo.Config{Dt: 0.1, Duration: 1.0, ValidateState: true}

	result, err := s.Run(context.Background(), dynamo.State{0}, cfg)
	if err != nil {
		t.Fatalf("Run() = %v", err)
	}
	if result.StepsTaken != 0 || len(result.Errors) != 1 {
		t.Fatalf("steps = %d, errors = %v", result.StepsTaken, result.Errors)
	}
	var simErr *dynamo.SimError
	if !errors.As(result.Errors[0], &simErr) || simErr.Step != 0 {
		t.Errorf("error = %v, want SimError at step 0", result.Errors[0])
	}
}

type counter struct {
	count int
	sum   float64
}

func (c *counter) Name() string { return "mean" }
func (c *counter) Observe(x dynamo.State, u dynamo.Control, time float64) {
	c.count++
	c.sum += x[0]
}
func (c *counter) Value() float64 {
	if c.count == 0 {
		return 0
	}
	return c.sum / float64(c.count)
}
func (c *counter) Reset() {
	c.count = 0
	c.sum = 0
}

func TestSimulatorMetrics(t *testing.T) {
	s := New(decay{}, eulerStep{}, &constant{})
	metric := &counter{}
	s.AddMetric(metric)

	result, err := s.Run(context.Background(), dynamo.State{1.0}, dynamo.Config{Dt: 0.1, Duration: 1.0})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if _, ok := result.Metrics["mean"]; !ok {
		t.Error("metric not found in result")
	}
	if metric.count != 10 {
		t.Errorf("expected 10 observations, got %d", metric.count)
	}
}

func TestSimulatorCancel(t *testing.T) {
	s := New(decay{}, eulerStep{}, &constant{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := s.Run(ctx, dynamo.State{1.0}, dynamo.Config{Dt: 0.1, Duration: 1.0})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
	if result == nil || result.StepsTaken != 0 {
		t.Errorf("cancelled run result = %+v", result)
	}
}

func TestRunRealtime(t *testing.T) {
	s := New(decay{}, eulerStep{}, &constant{})
	cfg := dynamo.Config{Dt: 0.005, Duration: 0.05}

	var ticks []float64
	start := time.Now()
	err := s.RunRealtime(context.Background(), dynamo.State{1.0}, cfg, func(x dynamo.State, u dynamo.Control, t float64) bool {
		ticks = append(ticks, t)
		return true
	})
	if err != nil {
		t.Fatalf("RunRealtime() = %v", err)
	}
	if len(ticks) != 10 {
		t.Errorf("got %d ticks, want 10", len(ticks))
	}
	if elapsed := time.Since(start); elapsed < 40*time.Millisecond {
		t.Errorf("finished in %v, loop is not paced", elapsed)
	}
}

func TestRunRealtime_StopsOnCallback(t *testing.T) {
	s := New(decay{}, eulerStep{}, &constant{})
	n := 0
	err := s.RunRealtime(context.Background(), dynamo.State{1.0}, dynamo.Config{Dt: 0.001}, func(dynamo.State, dynamo.Control, float64) bool {
		n++
		return n < 3
	})
	if err != nil || n != 3 {
		t.Errorf("RunRealtime() = %v after %d ticks, want nil after 3", err, n)
	}
}

func TestSweep(t *testing.T) {
	gains := []float64{0, 1, 2, 3}
	results, err := Sweep(context.Background(), len(gains), 2, dynamo.Config{Dt: 0.1, Duration: 1.0},
		func(i int) (*Simulator, dynamo.State, error) {
			return New(decay{}, eulerStep{}, &constant{u: gains[i]}), dynamo.State{0}, nil
		})
	if err != nil {
		t.Fatalf("Sweep() = %v", err)
	}
	for i, r := range results {
		final := r.States[len(r.States)-1][0]
		want := gains[i] * (1 - math.Pow(0.9, 10))
		if math.Abs(final-want) > 1e-9 {
			t.Errorf("run %d final = %v, want %v", i, final, want)
		}
	}

	boom := errors.New("boom")
	_, err = Sweep(context.Background(), 3, 3, dynamo.Config{Dt: 0.1, Duration: 1.0},
		func(i int) (*Simulator, dynamo.State, error) {
			if i == 1 {
				return nil, nil, boom
			}
			return New(decay{}, eulerStep{}, &constant{}), dynamo.State{0}, nil
		})
	if !errors.Is(err, boom) {
		t.Errorf("Sweep() error = %v, want boom", err)
	}
}

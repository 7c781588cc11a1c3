package experiment

import (
	"context"
	"math"

	"github.com/san-kum/turretlab/internal/config"
	"github.com/san-kum/turretlab/internal/dynamo"
	"github.com/san-kum/turretlab/internal/sim"
)

// SweepPoint is one gain of a tracking-gain sweep.
type SweepPoint struct {
	Gain    float64            `json:"gain"`
	Metrics map[string]float64 `json:"metrics"`
}

// SweepGain runs base once per gain, in parallel. Run i is seeded with
// base.Seed+i so noisy scenarios stay reproducible.
func SweepGain(ctx context.Context, base *config.Config, gains []float64, workers int, opts ...Option) ([]SweepPoint, error) {
	cfg := dynamo.Config{Dt: base.Dt, Duration: base.Duration, Seed: base.Seed, ValidateState: true}
	results, err := sim.Sweep(ctx, len(gains), workers, cfg, func(i int) (*sim.Simulator, dynamo.State, error) {
		c := base.Clone()
		c.Gain = gains[i]
		c.Seed = base.Seed + int64(i)
		e, err := New(c, opts...)
		if err != nil {
			return nil, nil, err
		}
		return e.Simulator(), e.InitialState(), nil
	})
	if err != nil {
		return nil, err
	}

	points := make([]SweepPoint, len(gains))
	for i, res := range results {
		points[i] = SweepPoint{Gain: gains[i], Metrics: res.Metrics}
	}
	return points, nil
}

// Best returns the point with the lowest value of metric. ok is false when
// no point reports it.
func Best(points []SweepPoint, metric string) (best SweepPoint, ok bool) {
	lowest := math.Inf(1)
	for _, p := range points {
		v, has := p.Metrics[metric]
		if !has || math.IsNaN(v) || v >= lowest {
			continue
		}
		lowest, best, ok = v, p, true
	}
	return best, ok
}

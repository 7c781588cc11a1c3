package experiment

import (
	"errors"
	"fmt"
	"sort"

	"github.com/san-kum/turretlab/internal/config"
	"github.com/san-kum/turretlab/internal/control"
	"github.com/san-kum/turretlab/internal/dynamo"
	"github.com/san-kum/turretlab/internal/integrators"
)

var (
	ErrUnknownScenario   = errors.New("experiment: unknown scenario")
	ErrUnknownIntegrator = errors.New("experiment: unknown integrator")
	ErrUnknownController = errors.New("experiment: unknown controller")
)

var descriptions = map[string]string{
	"track":    "turret holds a target while the chassis is still",
	"orbit":    "target circles the robot; the turret has to wrap",
	"turn":     "single auto-turn while the turret holds the target",
	"square":   "four 90 degree auto-turns",
	"combined": "moving noisy target, overlapping turn requests, speed change",
}

type Registry struct {
	integrators map[string]func() dynamo.Integrator
	controllers map[string]func(e *Experiment) dynamo.Controller
}

func NewRegistry() *Registry {
	r := &Registry{
		integrators: make(map[string]func() dynamo.Integrator),
		controllers: make(map[string]func(*Experiment) dynamo.Controller),
	}

	for _, name := range integrators.Names() {
		name := name
		r.integrators[name] = func() dynamo.Integrator { return integrators.ByName(name) }
	}

	r.controllers["robot"] = func(e *Experiment) dynamo.Controller { return e.robot }
	r.controllers["none"] = func(e *Experiment) dynamo.Controller {
		return control.NewNone(e.plant.ControlDim())
	}

	return r
}

func (r *Registry) GetIntegrator(name string) (dynamo.Integrator, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownIntegrator, name)
	}
	return fn(), nil
}

func (r *Registry) GetController(name string, e *Experiment) (dynamo.Controller, error) {
	fn, ok := r.controllers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownController, name)
	}
	return fn(e), nil
}

// Scenario returns a fresh config for a scenario, optionally a named
// preset of it ("orbit/fast" or "orbit" for the default).
func (r *Registry) Scenario(name, preset string) (*config.Config, error) {
	if preset == "" {
		preset = "default"
	}
	cfg := config.GetPreset(name, preset)
	if cfg == nil {
		return nil, fmt.Errorf("%w: %s/%s", ErrUnknownScenario, name, preset)
	}
	return cfg, nil
}

func (r *Registry) ListScenarios() []string {
	return config.Scenarios()
}

func (r *Registry) Describe(scenario string) string {
	return descriptions[scenario]
}

func (r *Registry) ListIntegrators() []string {
	return sortedKeys(r.integrators)
}

func (r *Registry) ListControllers() []string {
	return sortedKeys(r.controllers)
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

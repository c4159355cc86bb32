package experiment

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/san-kum/verletsim/internal/config"
	"github.com/san-kum/verletsim/internal/sim"
	"github.com/san-kum/verletsim/internal/storage"
)

// Experiment ties a configuration to a runner and its metrics.
type Experiment struct {
	cfg    *config.Config
	runner *sim.Runner
}

func New(cfg *config.Config) *Experiment {
	return &Experiment{cfg: cfg}
}

// Setup builds the runner and attaches the named metrics (all metrics when
// names is empty).
func (e *Experiment) Setup(registry *Registry, names []string, logger *log.Logger) error {
	runner, err := e.cfg.Build()
	if err != nil {
		return err
	}
	ms, err := registry.Metrics(names, runner.Solver().Config())
	if err != nil {
		return err
	}
	for _, m := range ms {
		runner.AddMetric(m)
	}
	if logger != nil {
		runner.SetLogger(logger)
	}
	e.runner = runner
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.runner == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.runner.Run(ctx, e.cfg.RunConfig())
}

// Runner returns the underlying runner for adding observers.
func (e *Experiment) Runner() *sim.Runner {
	return e.runner
}

// Record describes the experiment for storage.
func (e *Experiment) Record() storage.Run {
	run := storage.Run{
		Preset: e.cfg.Preset,
		Seed:   e.cfg.Spawn.Seed,
		Solver: e.cfg.SolverConfig(),
		Config: e.cfg.RunConfig(),
	}
	if e.runner != nil {
		run.Solver = e.runner.Solver().Config()
	}
	return run
}

// Factory builds identically configured experiments for an ensemble. When
// varySeed is set each member gets its own emitter seed.
func Factory(cfg *config.Config, registry *Registry, names []string, varySeed bool) sim.Factory {
	return func(seed int64) (*sim.Runner, error) {
		member := *cfg
		if varySeed {
			member.Spawn.Seed = seed
		}
		exp := New(&member)
		if err := exp.Setup(registry, names, nil); err != nil {
			return nil, err
		}
		return exp.Runner(), nil
	}
}

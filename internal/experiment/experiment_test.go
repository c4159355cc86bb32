package experiment

import (
	"context"
	"strings"
	"testing"

	"github.com/san-kum/verletsim/internal/config"
	"github.com/san-kum/verletsim/internal/sim"
	"github.com/san-kum/verletsim/internal/solver"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	got := strings.Join(r.ListMetrics(), ",")
	if got != "containment,kinetic_energy,overlap,peak_speed" {
		t.Errorf("unexpected metrics %q", got)
	}

	if _, err := r.GetMetric("entropy", solver.DefaultConfig()); err == nil {
		t.Error("expected error for unknown metric")
	}

	ms, err := r.Metrics([]string{"overlap"}, solver.DefaultConfig())
	if err != nil || len(ms) != 1 || ms[0].Name() != "overlap" {
		t.Errorf("Metrics(overlap) = %v, %v", ms, err)
	}
}

func TestExperimentRun(t *testing.T) {
	cfg := config.GetPreset("fountain")
	cfg.Run.Duration = 0.5

	exp := New(cfg)
	if _, err := exp.Run(context.Background()); err == nil {
		t.Error("expected error before setup")
	}
	if err := exp.Setup(NewRegistry(), nil, nil); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	result, err := exp.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(result.Metrics) != 4 {
		t.Errorf("expected 4 metrics, got %v", result.Metrics)
	}

	rec := exp.Record()
	if rec.Preset != "fountain" || rec.Solver.CellSize != 2*rec.Solver.Radius {
		t.Errorf("unexpected record %+v", rec)
	}
}

func TestExperimentSetup_InvalidConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Solver.SubSteps = 0

	if err := New(cfg).Setup(NewRegistry(), nil, nil); err == nil {
		t.Error("expected invalid config to fail setup")
	}
}

func TestFactory(t *testing.T) {
	cfg := config.GetPreset("pile")
	cfg.Run.Duration = 0.5
	ens := sim.NewEnsemble(Factory(cfg, NewRegistry(), []string{"overlap"}, false), 3, 100)

	results, err := ens.Run(context.Background(), cfg.RunConfig())
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i < len(results); i++ {
		if slot := sim.Divergence(results[0].Final, results[i].Final); slot != -1 {
			t.Errorf("member %d diverged at slot %d", i, slot)
		}
	}
	if cfg.Spawn.Seed != config.DefaultSeed {
		t.Error("factory modified the shared config")
	}
}

package optim

import (
	"context"
	"math"
	"testing"

	"github.com/san-kum/verletsim/internal/config"
	"github.com/san-kum/verletsim/internal/experiment"
)

func smallPile() *config.Config {
	cfg := config.GetPreset("pile")
	cfg.Run.Duration = 0.5
	cfg.Spawn.Max = 60
	return cfg
}

func TestGridSearch(t *testing.T) {
	g := NewGridSearch([]string{"sub_steps", "damping"}, [][]float64{{1, 8}, {0.5, 0.8}})
	if g.Size() != 4 {
		t.Fatalf("size = %d, want 4", g.Size())
	}

	build := ConfigBuilder(smallPile(), experiment.NewRegistry(), []string{"overlap"})
	best, val, trials, err := g.Search(context.Background(), build, "overlap")
	if err != nil {
		t.Fatal(err)
	}
	if len(trials) != 4 {
		t.Fatalf("got %d trials, want 4", len(trials))
	}
	for _, tr := range trials {
		if tr.Err != nil {
			t.Errorf("trial %v failed: %v", tr.Params, tr.Err)
		}
		if tr.Value < val {
			t.Errorf("trial %v beat the best %f", tr.Params, val)
		}
	}
	if _, ok := best["sub_steps"]; !ok {
		t.Errorf("best params missing sub_steps: %v", best)
	}
}

func TestGridSearch_InvalidPoints(t *testing.T) {
	g := NewGridSearch([]string{"sub_steps"}, [][]float64{{0, 4}})
	build := ConfigBuilder(smallPile(), experiment.NewRegistry(), []string{"overlap"})

	best, _, trials, err := g.Search(context.Background(), build, "overlap")
	if err != nil {
		t.Fatal(err)
	}
	if trials[0].Err == nil || !math.IsNaN(trials[0].Value) {
		t.Errorf("sub_steps=0 should fail, got %+v", trials[0])
	}
	if best["sub_steps"] != 4 {
		t.Errorf("best = %v, want sub_steps 4", best)
	}
}

func TestGridSearch_Errors(t *testing.T) {
	build := ConfigBuilder(smallPile(), experiment.NewRegistry(), nil)

	if _, _, _, err := NewGridSearch(nil, nil).Search(context.Background(), build, "overlap"); err == nil {
		t.Error("expected error for empty grid")
	}
	if _, _, _, err := NewGridSearch([]string{"viscosity"}, [][]float64{{1}}).Search(context.Background(), build, "overlap"); err == nil {
		t.Error("expected error when every trial fails")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, trials, err := NewGridSearch([]string{"damping"}, [][]float64{{0.5, 0.6}}).Search(ctx, build, "overlap")
	if err == nil || len(trials) != 0 {
		t.Errorf("canceled search: err=%v trials=%d", err, len(trials))
	}
}

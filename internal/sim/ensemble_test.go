package sim

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/verletsim/internal/dynamo"
	"github.com/san-kum/verletsim/internal/solver"
	"github.com/san-kum/verletsim/internal/spawn"
)

func factory(fixedSeed bool) Factory {
	return func(seed int64) (*Runner, error) {
		if fixedSeed {
			seed = 42
		}
		s, err := solver.New(solver.DefaultConfig())
		if err != nil {
			return nil, err
		}
		e, err := spawn.New(spawn.Config{
			Origin:   dynamo.Vec2{X: 400, Y: 200},
			Jitter:   40,
			PerFrame: 3,
			Max:      150,
			Seed:     seed,
		})
		if err != nil {
			return nil, err
		}
		return NewRunner(s, e), nil
	}
}

func TestEnsemble_Deterministic(t *testing.T) {
	ens := NewEnsemble(factory(true), 4, 0)

	results, err := ens.Run(context.Background(), Config{FrameDt: frameDt, Duration: 1})
	if err != nil {
		t.Fatal(err)
	}

	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	for i := 1; i < len(results); i++ {
		if slot := Divergence(results[0].Final, results[i].Final); slot != -1 {
			t.Errorf("member %d diverged at slot %d", i, slot)
		}
	}
}

func TestEnsemble_SeedsDiffer(t *testing.T) {
	ens := NewEnsemble(factory(false), 2, 1)
	ens.SetLimit(1)

	results, err := ens.Run(context.Background(), Config{FrameDt: frameDt, Duration: 0.5})
	if err != nil {
		t.Fatal(err)
	}
	if Divergence(results[0].Final, results[1].Final) == -1 {
		t.Error("different seeds produced identical runs")
	}
}

func TestEnsemble_PropagatesError(t *testing.T) {
	boom := errors.New("boom")
	base := factory(false)
	ens := NewEnsemble(func(seed int64) (*Runner, error) {
		if seed == 2 {
			return nil, boom
		}
		return base(seed)
	}, 4, 0)

	if _, err := ens.Run(context.Background(), Config{FrameDt: frameDt, Duration: 0.1}); !errors.Is(err, boom) {
		t.Errorf("expected factory error, got %v", err)
	}
}

func TestDivergence(t *testing.T) {
	a := []dynamo.Particle{{Position: dynamo.Vec2{X: 1}}, {Position: dynamo.Vec2{X: 2}}}
	b := []dynamo.Particle{{Position: dynamo.Vec2{X: 1}}, {Position: dynamo.Vec2{X: 3}}}

	tests := []struct {
		name string
		a, b []dynamo.Particle
		want int
	}{
		{"identical", a, a, -1},
		{"differ", a, b, 1},
		{"shorter", a, a[:1], 1},
		{"empty", nil, nil, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Divergence(tt.a, tt.b); got != tt.want {
				t.Errorf("Divergence = %d, want %d", got, tt.want)
			}
		})
	}
}

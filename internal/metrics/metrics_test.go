package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/verletsim/internal/dynamo"
)

func moving(x, y, vx, vy float64) dynamo.Particle {
	pos := dynamo.Vec2{X: x, Y: y}
	return dynamo.Particle{Position: pos, Previous: pos.Sub(dynamo.Vec2{X: vx, Y: vy})}
}

func TestKineticEnergy(t *testing.T) {
	m := NewKineticEnergy()
	ps := []dynamo.Particle{moving(0, 0, 3, 4), moving(10, 10, 0, 0)}

	m.Observe(ps, 0.5, 0)

	// |v| = 5 / 0.5 = 10, so 0.5*100 averaged over two particles.
	if math.Abs(m.Value()-25) > 1e-9 {
		t.Errorf("expected 25, got %f", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero energy after reset")
	}
}

func TestKineticEnergy_Degenerate(t *testing.T) {
	m := NewKineticEnergy()

	m.Observe(nil, 0.1, 0)
	if m.Value() != 0 {
		t.Errorf("empty snapshot: got %f", m.Value())
	}

	m.Observe([]dynamo.Particle{moving(0, 0, 1, 1)}, 0, 0)
	if m.Value() != 0 {
		t.Errorf("zero dt: got %f", m.Value())
	}
}

func TestPeakSpeed(t *testing.T) {
	m := NewPeakSpeed()
	ps := []dynamo.Particle{moving(0, 0, 1, 0), moving(5, 5, 0, -6), moving(9, 9, 3, 4)}

	m.Observe(ps, 2, 0)

	if math.Abs(m.Value()-3) > 1e-9 {
		t.Errorf("expected 3, got %f", m.Value())
	}
}

func TestOverlap(t *testing.T) {
	tests := []struct {
		name      string
		positions []dynamo.Vec2
		want      float64
	}{
		{"empty", nil, 0},
		{"apart", []dynamo.Vec2{{X: 0, Y: 0}, {X: 20, Y: 0}}, 0},
		{"touching", []dynamo.Vec2{{X: 0, Y: 0}, {X: 10, Y: 0}}, 0},
		{"overlapping", []dynamo.Vec2{{X: 0, Y: 0}, {X: 6, Y: 0}, {X: 50, Y: 50}}, 4},
		{"across cells", []dynamo.Vec2{{X: 9, Y: 9}, {X: 11, Y: 11}}, 10 - math.Sqrt(8)},
		{"negative coordinates", []dynamo.Vec2{{X: -1, Y: -1}, {X: 1, Y: 1}}, 10 - math.Sqrt(8)},
		{"deepest wins", []dynamo.Vec2{{X: 0, Y: 0}, {X: 8, Y: 0}, {X: 100, Y: 0}, {X: 101, Y: 0}}, 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewOverlap(5)
			if err != nil {
				t.Fatal(err)
			}
			ps := make([]dynamo.Particle, len(tt.positions))
			for i, p := range tt.positions {
				ps[i] = dynamo.NewParticle(p, dynamo.Vec2{})
			}

			m.Observe(ps, 0.01, 0)

			if math.Abs(m.Value()-tt.want) > 1e-9 {
				t.Errorf("expected %f, got %f", tt.want, m.Value())
			}
		})
	}
}

func TestOverlap_PeakSurvivesObservation(t *testing.T) {
	m, _ := NewOverlap(5)
	deep := []dynamo.Particle{
		dynamo.NewParticle(dynamo.Vec2{X: 0, Y: 0}, dynamo.Vec2{}),
		dynamo.NewParticle(dynamo.Vec2{X: 2, Y: 0}, dynamo.Vec2{}),
	}
	m.Observe(deep, 0.01, 0)
	m.Observe(nil, 0.01, 0.01)

	if m.Value() != 0 || math.Abs(m.Peak()-8) > 1e-9 {
		t.Errorf("value %f peak %f", m.Value(), m.Peak())
	}
}

func TestNewOverlap_InvalidRadius(t *testing.T) {
	if _, err := NewOverlap(0); err == nil {
		t.Error("expected error for zero radius")
	}
}

func TestContainment(t *testing.T) {
	m := NewContainment(100, 50, 5)
	if m.Value() != 1 {
		t.Errorf("initial value %f", m.Value())
	}

	ps := []dynamo.Particle{
		moving(5, 5, 0, 0),
		moving(95, 45, 0, 0),
		moving(50, 25, 0, 0),
		moving(96, 25, 0, 0),
	}
	m.Observe(ps, 0.01, 0)

	if m.Value() != 0.75 {
		t.Errorf("expected 0.75, got %f", m.Value())
	}
}

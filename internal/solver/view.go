package solver

import "github.com/san-kum/verletsim/internal/dynamo"

// View is a read-only window onto a solver's particles. Accessors return
// copies; nothing reachable from a View can modify solver state.
type View struct {
	particles []dynamo.Particle
}

func (v View) Len() int { return len(v.particles) }

func (v View) At(i int) dynamo.Particle { return v.particles[i] }

func (v View) Position(i int) dynamo.Vec2 { return v.particles[i].Position }

// Positions appends every particle position to dst.
func (v View) Positions(dst []dynamo.Vec2) []dynamo.Vec2 {
	for i := range v.particles {
		dst = append(dst, v.particles[i].Position)
	}
	return dst
}

// Snapshot appends a copy of every particle to dst.
func (v View) Snapshot(dst []dynamo.Particle) []dynamo.Particle {
	return append(dst, v.particles...)
}

// Each calls fn for every particle in slot order.
func (v View) Each(fn func(slot int, p dynamo.Particle)) {
	for i, p := range v.particles {
		fn(i, p)
	}
}

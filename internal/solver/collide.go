package solver

import (
	"math"

	"github.com/san-kum/verletsim/internal/spatial"
)

// solveCollisions separates every overlapping pair once per sub-step.
func (s *Solver) solveCollisions() {
	s.forEachCandidate(s.resolve)
}

// forEachCandidate calls fn for every broad-phase pair. Pairs are
// deduplicated by slot order: slot i is only paired with slots j > i.
// Candidates come from the home cell each particle had when the index was
// rebuilt, so corrections made earlier in the pass cannot hide a pair.
func (s *Solver) forEachCandidate(fn func(i, j int)) {
	if s.cfg.Broadphase == BroadphaseBrute {
		n := len(s.particles)
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				fn(i, j)
			}
		}
		return
	}

	for i := range s.particles {
		s.neighbors = s.grid.QueryCell(s.homes[i], s.neighbors[:0])
		for _, j := range s.neighbors {
			if j <= i {
				continue
			}
			fn(i, j)
		}
	}
}

// resolve pushes an overlapping pair apart along the line between their
// centers, half the overlap each. Coincident centers have no axis and are
// left alone.
func (s *Solver) resolve(i, j int) {
	s.stats.Candidates++

	p1, p2 := &s.particles[i], &s.particles[j]
	v := p1.Position.Sub(p2.Position)
	dist2 := v.Len2()
	minDist := 2 * s.cfg.Radius
	if !(dist2 < minDist*minDist) {
		return
	}

	dist := math.Sqrt(dist2)
	if dist <= separationEpsilon {
		return
	}

	axis := v
	axis.X /= dist
	axis.Y /= dist
	shift := axis.Scale(0.5 * (minDist - dist))

	p1.Position = p1.Position.Add(shift)
	p2.Position = p2.Position.Sub(shift)
	if s.cfg.Response == ResponseDamped {
		p1.Previous = p1.Previous.Add(shift)
		p2.Previous = p2.Previous.Sub(shift)
	}
	s.stats.Contacts++
}

// homeCells records the cell of every particle at rebuild time.
func (s *Solver) homeCells() []spatial.Cell {
	if cap(s.homes) < len(s.particles) {
		s.homes = make([]spatial.Cell, len(s.particles), cap(s.particles))
	}
	s.homes = s.homes[:len(s.particles)]
	return s.homes
}

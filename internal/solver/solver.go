package solver

import (
	"math"

	"github.com/san-kum/verletsim/internal/dynamo"
	"github.com/san-kum/verletsim/internal/spatial"
)

// Stats describes the most recent Update.
type Stats struct {
	FrameDt      float64 // dt after clamping
	SubDt        float64
	SubSteps     int
	Clamped      bool
	Candidates   int // broad-phase pairs tested
	Contacts     int // overlapping pairs separated
	BoundaryHits int
}

// Solver owns a particle collection and advances it with sub-stepped
// Verlet integration, hashed collision resolution and boundary clamping.
// A Solver is not safe for concurrent use.
type Solver struct {
	cfg       Config
	particles []dynamo.Particle
	grid      *spatial.Hash
	homes     []spatial.Cell
	neighbors []int
	subDt     float64
	stats     Stats
}

// New validates cfg and returns an empty solver with storage reserved for
// cfg.Capacity particles.
func New(cfg Config) (*Solver, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	grid, err := spatial.New(cfg.CellSize)
	if err != nil {
		return nil, err
	}

	return &Solver{
		cfg:       cfg,
		particles: make([]dynamo.Particle, 0, cfg.Capacity),
		grid:      grid,
		neighbors: make([]int, 0, 64),
	}, nil
}

func (s *Solver) Config() Config { return s.cfg }
func (s *Solver) Len() int       { return len(s.particles) }
func (s *Solver) Stats() Stats   { return s.stats }

// SubDt is the sub-step length used by the last Update.
func (s *Solver) SubDt() float64 { return s.subDt }

// AddParticle appends a particle at rest at pos. The solver places no cap
// on the count; callers enforce their own maximum.
func (s *Solver) AddParticle(pos dynamo.Vec2) {
	s.particles = append(s.particles, dynamo.NewParticle(pos, s.cfg.Gravity))
}

// Reset removes all particles, keeping the reserved storage.
func (s *Solver) Reset() {
	s.particles = s.particles[:0]
	s.grid.Clear()
	s.stats = Stats{}
}

// Particles returns a read-only view of the particle collection. The view
// is invalidated by the next AddParticle, Update or Reset.
func (s *Solver) Particles() View {
	return View{particles: s.particles}
}

// Update advances the simulation by dt seconds. dt is clamped to
// MaxFrameDt and split into SubSteps equal sub-steps, each of which
// integrates, rebuilds the spatial index, resolves collisions and then
// applies the boundary. Non-positive or NaN dt is a no-op.
func (s *Solver) Update(dt float64) {
	s.stats = Stats{}
	if !(dt > 0) {
		return
	}
	if dt > s.cfg.MaxFrameDt {
		dt = s.cfg.MaxFrameDt
		s.stats.Clamped = true
	}

	subDt := dt / float64(s.cfg.SubSteps)
	s.subDt = subDt
	s.stats.FrameDt = dt
	s.stats.SubDt = subDt

	for i := 0; i < s.cfg.SubSteps; i++ {
		s.integrate(subDt)
		s.rebuild()
		s.solveCollisions()
		s.applyBoundary()
		s.stats.SubSteps++
	}
}

// integrate performs one Verlet step. Acceleration is reset to gravity
// every sub-step; forces do not accumulate.
func (s *Solver) integrate(dt float64) {
	dt2 := dt * dt
	for i := range s.particles {
		p := &s.particles[i]
		p.Acceleration = s.cfg.Gravity

		prev := p.Position
		p.Position = p.Position.Scale(2).Sub(p.Previous).Add(p.Acceleration.Scale(dt2))
		p.Previous = prev
	}
}

func (s *Solver) rebuild() {
	if s.cfg.Broadphase != BroadphaseHash {
		return
	}
	homes := s.homeCells()
	s.grid.Clear()
	for i := range s.particles {
		pos := s.particles[i].Position
		homes[i] = s.grid.CellOf(pos)
		s.grid.Insert(i, pos)
	}
}

// applyBoundary clamps each axis and side independently. A clamp reflects
// the axis velocity scaled by Damping:
// prev = pos + (pos - prev) * damping.
func (s *Solver) applyBoundary() {
	r := s.cfg.Radius
	minX, maxX := r, s.cfg.Width-r
	minY, maxY := r, s.cfg.Height-r
	d := s.cfg.Damping

	for i := range s.particles {
		p := &s.particles[i]

		if p.Position.X < minX {
			p.Position.X = minX
			p.Previous.X = p.Position.X + (p.Position.X-p.Previous.X)*d
			s.stats.BoundaryHits++
		} else if p.Position.X > maxX {
			p.Position.X = maxX
			p.Previous.X = p.Position.X + (p.Position.X-p.Previous.X)*d
			s.stats.BoundaryHits++
		}

		if p.Position.Y < minY {
			p.Position.Y = minY
			p.Previous.Y = p.Position.Y + (p.Position.Y-p.Previous.Y)*d
			s.stats.BoundaryHits++
		} else if p.Position.Y > maxY {
			p.Position.Y = maxY
			p.Previous.Y = p.Position.Y + (p.Position.Y-p.Previous.Y)*d
			s.stats.BoundaryHits++
		}
	}
}

// Valid reports the first slot holding a non-finite particle, or -1.
func (s *Solver) Valid() int {
	for i := range s.particles {
		if !s.particles[i].IsValid() {
			return i
		}
	}
	return -1
}

// MinSeparation returns the smallest center distance between any pair, or
// +Inf with fewer than two particles. O(n²); intended for tests and checks.
func (s *Solver) MinSeparation() float64 {
	best := math.Inf(1)
	for i := range s.particles {
		for j := i + 1; j < len(s.particles); j++ {
			d := s.particles[i].Position.Sub(s.particles[j].Position).Len()
			if d < best {
				best = d
			}
		}
	}
	return best
}

package metrics

import (
	"math"

	"github.com/san-kum/verletsim/internal/dynamo"
	"github.com/san-kum/verletsim/internal/spatial"
)

// Overlap is the deepest residual penetration 2r - d between any two
// particles, zero when nothing overlaps. Pairs come from a spatial hash
// sized to the particle diameter.
type Overlap struct {
	name      string
	radius    float64
	grid      *spatial.Hash
	neighbors []int
	value     float64
	peak      float64
}

func NewOverlap(radius float64) (*Overlap, error) {
	grid, err := spatial.New(2 * radius)
	if err != nil {
		return nil, err
	}
	return &Overlap{name: "overlap", radius: radius, grid: grid}, nil
}

func (o *Overlap) Name() string { return o.name }

func (o *Overlap) Observe(ps []dynamo.Particle, dt, t float64) {
	o.grid.Clear()
	for i := range ps {
		o.grid.Insert(i, ps[i].Position)
	}

	minDist := 2 * o.radius
	deepest := 0.0
	for i := range ps {
		o.neighbors = o.grid.Query(ps[i].Position, o.neighbors[:0])
		for _, j := range o.neighbors {
			if j <= i {
				continue
			}
			d := ps[i].Position.Sub(ps[j].Position).Len()
			deepest = math.Max(deepest, minDist-d)
		}
	}
	o.value = deepest
	o.peak = math.Max(o.peak, deepest)
}

func (o *Overlap) Value() float64 { return o.value }

// Peak is the deepest penetration seen since the last Reset.
func (o *Overlap) Peak() float64 { return o.peak }

func (o *Overlap) Reset() {
	o.value = 0
	o.peak = 0
}

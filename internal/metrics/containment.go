package metrics

import "github.com/san-kum/verletsim/internal/dynamo"

const containmentTolerance = 1e-9

// Containment is the fraction of particles whose centers lie inside
// [r, extent - r] on both axes. An empty snapshot is fully contained.
type Containment struct {
	name          string
	width, height float64
	radius        float64
	value         float64
}

func NewContainment(width, height, radius float64) *Containment {
	return &Containment{
		name:   "containment",
		width:  width,
		height: height,
		radius: radius,
		value:  1,
	}
}

func (c *Containment) Name() string { return c.name }

func (c *Containment) Observe(ps []dynamo.Particle, dt, t float64) {
	if len(ps) == 0 {
		c.value = 1
		return
	}
	lo := c.radius - containmentTolerance
	hiX := c.width - c.radius + containmentTolerance
	hiY := c.height - c.radius + containmentTolerance

	inside := 0
	for i := range ps {
		p := ps[i].Position
		if p.X >= lo && p.X <= hiX && p.Y >= lo && p.Y <= hiY {
			inside++
		}
	}
	c.value = float64(inside) / float64(len(ps))
}

func (c *Containment) Value() float64 { return c.value }
func (c *Containment) Reset()         { c.value = 1 }

package dynamo

import (
	"fmt"
	"math"
)

// Vec2 is a 2D vector in world units. The y axis points down, matching
// screen coordinates, so positive gravity pulls toward the floor.
type Vec2 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{v.X + o.X, v.Y + o.Y}
}

func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{v.X - o.X, v.Y - o.Y}
}

func (v Vec2) Scale(f float64) Vec2 {
	return Vec2{v.X * f, v.Y * f}
}

func (v Vec2) Dot(o Vec2) float64 {
	return v.X*o.X + v.Y*o.Y
}

func (v Vec2) Len2() float64 {
	return v.X*v.X + v.Y*v.Y
}

func (v Vec2) Len() float64 {
	return math.Sqrt(v.Len2())
}

// IsValid reports whether both components are finite.
func (v Vec2) IsValid() bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) &&
		!math.IsNaN(v.Y) && !math.IsInf(v.Y, 0)
}

func (v Vec2) String() string {
	return fmt.Sprintf("(%.3f, %.3f)", v.X, v.Y)
}

// Particle is a Verlet point particle. Velocity is implicit: it is the
// difference between Position and Previous divided by the sub-step.
type Particle struct {
	Position     Vec2
	Previous     Vec2
	Acceleration Vec2
}

// NewParticle returns a particle at rest at pos.
func NewParticle(pos, gravity Vec2) Particle {
	return Particle{
		Position:     pos,
		Previous:     pos,
		Acceleration: gravity,
	}
}

// Displacement is the distance travelled during the last sub-step.
func (p Particle) Displacement() Vec2 {
	return p.Position.Sub(p.Previous)
}

// Velocity returns the implied velocity for a sub-step of length dt.
func (p Particle) Velocity(dt float64) Vec2 {
	if dt <= 0 {
		return Vec2{}
	}
	return p.Displacement().Scale(1 / dt)
}

func (p Particle) IsValid() bool {
	return p.Position.IsValid() && p.Previous.IsValid()
}

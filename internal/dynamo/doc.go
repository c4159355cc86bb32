// Package dynamo provides the core primitives shared by the particle
// simulation packages.
//
// The package defines the value types every other package speaks:
//
//   - [Vec2]: 2D vector in world units
//   - [Particle]: Verlet particle (position, previous position, acceleration)
//   - [ConfigError]: configuration rejected at construction time
//   - [SimulationError]: a run aborted at a specific frame
//
// # Example
//
//	p := dynamo.NewParticle(dynamo.Vec2{X: 400, Y: 100}, gravity)
//	v := p.Velocity(subDt)
//
// # Thread Safety
//
// All types are plain values. Particle slices are owned by a single solver
// and must not be shared across goroutines while it updates them.
package dynamo

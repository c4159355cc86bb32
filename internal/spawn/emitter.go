// Package spawn feeds particles into a solver the way the demo harness does:
// a fixed number per frame from a jittered origin, up to a caller-side cap.
package spawn

import (
	"math"
	"math/rand"

	"github.com/san-kum/verletsim/internal/dynamo"
)

// Sink receives spawned particles. *solver.Solver satisfies it.
type Sink interface {
	AddParticle(pos dynamo.Vec2)
	Len() int
}

type Config struct {
	Origin   dynamo.Vec2
	Jitter   float64 // horizontal spread, ±Jitter around Origin.X
	PerFrame int
	Max      int
	Seed     int64
}

type Emitter struct {
	cfg        Config
	randSource *rand.Rand
	emitted    int
}

func (c Config) Validate() error {
	if !c.Origin.IsValid() {
		return &dynamo.ConfigError{Field: "origin", Value: c.Origin, Reason: "must be finite"}
	}
	if !(c.Jitter >= 0) || math.IsInf(c.Jitter, 0) {
		return &dynamo.ConfigError{Field: "jitter", Value: c.Jitter, Reason: "must be finite and non-negative"}
	}
	if c.PerFrame < 0 {
		return &dynamo.ConfigError{Field: "per_frame", Value: c.PerFrame, Reason: "must not be negative"}
	}
	if c.Max < 0 {
		return &dynamo.ConfigError{Field: "max", Value: c.Max, Reason: "must not be negative"}
	}
	return nil
}

func New(cfg Config) (*Emitter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Emitter{
		cfg:        cfg,
		randSource: rand.New(rand.NewSource(cfg.Seed)),
	}, nil
}

func (e *Emitter) Config() Config { return e.cfg }

// Emitted is the total number of particles this emitter has spawned.
func (e *Emitter) Emitted() int { return e.emitted }

// Emit adds up to PerFrame particles while the sink holds fewer than Max.
func (e *Emitter) Emit(sink Sink) int {
	return e.Burst(sink, e.cfg.PerFrame)
}

// Burst adds up to n particles regardless of the per-frame rate. Max still
// applies.
func (e *Emitter) Burst(sink Sink, n int) int {
	added := 0
	for added < n && sink.Len() < e.cfg.Max {
		sink.AddParticle(e.next())
		added++
	}
	e.emitted += added
	return added
}

// Reset rewinds the random source so the emitter replays its sequence.
func (e *Emitter) Reset() {
	e.randSource = rand.New(rand.NewSource(e.cfg.Seed))
	e.emitted = 0
}

func (e *Emitter) next() dynamo.Vec2 {
	pos := e.cfg.Origin
	if e.cfg.Jitter > 0 {
		pos.X += (e.randSource.Float64()*2 - 1) * e.cfg.Jitter
	}
	return pos
}

package sim

import (
	"time"

	"github.com/san-kum/verletsim/internal/dynamo"
	"github.com/san-kum/verletsim/internal/solver"
)

// Metric summarizes a particle snapshot. dt is the sub-step length of the
// frame, needed to turn displacements into velocities.
type Metric interface {
	Name() string
	Observe(ps []dynamo.Particle, dt, t float64)
	Value() float64
	Reset()
}

// Observer is notified after every frame. The view is only valid for the
// duration of the call.
type Observer interface {
	OnFrame(f Frame, particles solver.View)
}

type ObserverFunc func(f Frame, particles solver.View)

func (fn ObserverFunc) OnFrame(f Frame, particles solver.View) { fn(f, particles) }

type Config struct {
	FrameDt     float64
	Duration    float64
	SampleEvery int // record every Nth frame; 0 records all
	LogEvery    int // debug log every Nth frame; 0 disables
}

type Frame struct {
	Index        int
	Time         float64
	Count        int
	Contacts     int
	BoundaryHits int
	Metrics      map[string]float64
}

type Result struct {
	Frames    []Frame
	Final     []dynamo.Particle
	Metrics   map[string]float64
	FramesRun int
	Elapsed   time.Duration
}

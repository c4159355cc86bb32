package sim

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/san-kum/verletsim/internal/dynamo"
	"github.com/san-kum/verletsim/internal/solver"
	"github.com/san-kum/verletsim/internal/spawn"
)

// Runner drives a solver frame by frame: emit, update, validate, measure,
// notify. It is not safe for concurrent use.
type Runner struct {
	solver    *solver.Solver
	emitter   *spawn.Emitter
	metrics   []Metric
	observers []Observer
	logger    *log.Logger

	frame    int
	time     float64
	snapshot []dynamo.Particle
}

// NewRunner wraps s. The emitter may be nil for runs seeded up front.
func NewRunner(s *solver.Solver, e *spawn.Emitter) *Runner {
	return &Runner{
		solver:    s,
		emitter:   e,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (r *Runner) AddMetric(m Metric)      { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o Observer)  { r.observers = append(r.observers, o) }
func (r *Runner) SetLogger(l *log.Logger) { r.logger = l }
func (r *Runner) Solver() *solver.Solver  { return r.solver }
func (r *Runner) Emitter() *spawn.Emitter { return r.emitter }
func (r *Runner) Metrics() []Metric       { return r.metrics }
func (r *Runner) Time() float64           { return r.time }
func (r *Runner) FrameIndex() int         { return r.frame }

// Reset empties the solver, rewinds the emitter and clears metrics.
func (r *Runner) Reset() {
	r.solver.Reset()
	if r.emitter != nil {
		r.emitter.Reset()
	}
	for _, m := range r.metrics {
		m.Reset()
	}
	r.frame = 0
	r.time = 0
}

// Step advances one frame. A non-finite particle aborts with ErrUnstable
// wrapped in a *dynamo.SimulationError.
func (r *Runner) Step(dt float64) (Frame, error) {
	if r.emitter != nil {
		r.emitter.Emit(r.solver)
	}
	r.solver.Update(dt)

	stats := r.solver.Stats()
	r.time += stats.FrameDt
	f := Frame{
		Index:        r.frame,
		Time:         r.time,
		Count:        r.solver.Len(),
		Contacts:     stats.Contacts,
		BoundaryHits: stats.BoundaryHits,
	}
	r.frame++

	if slot := r.solver.Valid(); slot >= 0 {
		return f, &dynamo.SimulationError{Frame: f.Index, Time: f.Time, Slot: slot, Wrapped: dynamo.ErrUnstable}
	}

	view := r.solver.Particles()
	if len(r.metrics) > 0 {
		r.snapshot = view.Snapshot(r.snapshot[:0])
		f.Metrics = make(map[string]float64, len(r.metrics))
		for _, m := range r.metrics {
			m.Observe(r.snapshot, stats.SubDt, r.time)
			f.Metrics[m.Name()] = m.Value()
		}
	}
	for _, obs := range r.observers {
		obs.OnFrame(f, view)
	}
	return f, nil
}

// Run steps for cfg.Duration seconds of simulated time, continuing from the
// runner's current state. The context is checked between frames. On error
// the partial result is returned alongside it.
func (r *Runner) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	frames := frameCount(cfg)
	every := max(cfg.SampleEvery, 1)
	result := &Result{
		Frames:  make([]Frame, 0, frames/every+1),
		Metrics: make(map[string]float64),
	}

	for _, m := range r.metrics {
		m.Reset()
	}

	start := time.Now()
	if r.logger != nil {
		r.logger.Info("run started", "frames", frames, "dt", cfg.FrameDt, "particles", r.solver.Len())
	}

	for i := 0; i < frames; i++ {
		select {
		case <-ctx.Done():
			r.finish(result, start)
			return result, fmt.Errorf("%w: %w", dynamo.ErrCanceled, ctx.Err())
		default:
		}

		f, err := r.Step(cfg.FrameDt)
		result.FramesRun++
		if err != nil {
			r.finish(result, start)
			return result, err
		}

		if i%every == 0 || i == frames-1 {
			result.Frames = append(result.Frames, f)
		}
		if r.logger != nil && cfg.LogEvery > 0 && (i+1)%cfg.LogEvery == 0 {
			r.logger.Debug("frame", "n", f.Index, "t", f.Time, "particles", f.Count, "contacts", f.Contacts)
		}
	}

	r.finish(result, start)
	if r.logger != nil {
		r.logger.Info("run complete", "frames", result.FramesRun, "particles", len(result.Final), "elapsed", result.Elapsed)
	}
	return result, nil
}

func (r *Runner) finish(result *Result, start time.Time) {
	result.Final = r.solver.Particles().Snapshot(nil)
	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	result.Elapsed = time.Since(start)
}

func frameCount(cfg Config) int {
	return int(math.Floor(cfg.Duration/cfg.FrameDt + 1e-9))
}

func (cfg Config) Validate() error {
	if !(cfg.FrameDt > 0) || math.IsInf(cfg.FrameDt, 0) {
		return &dynamo.ConfigError{Field: "frame_dt", Value: cfg.FrameDt, Reason: "must be positive and finite"}
	}
	if !(cfg.Duration > 0) || math.IsInf(cfg.Duration, 0) {
		return &dynamo.ConfigError{Field: "duration", Value: cfg.Duration, Reason: "must be positive and finite"}
	}
	if cfg.SampleEvery < 0 {
		return &dynamo.ConfigError{Field: "sample_every", Value: cfg.SampleEvery, Reason: "must not be negative"}
	}
	if cfg.LogEvery < 0 {
		return &dynamo.ConfigError{Field: "log_every", Value: cfg.LogEvery, Reason: "must not be negative"}
	}
	return nil
}

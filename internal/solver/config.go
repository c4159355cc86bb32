package solver

import (
	"math"

	"github.com/san-kum/verletsim/internal/dynamo"
)

// Broadphase selects how collision candidates are found.
type Broadphase string

const (
	// BroadphaseHash queries the 3x3 neighborhood of a spatial hash.
	BroadphaseHash Broadphase = "hash"
	// BroadphaseBrute tests every pair. O(n²), kept for cross-checking.
	BroadphaseBrute Broadphase = "brute"
)

// Response selects what a collision correction does to Previous.
type Response string

const (
	// ResponseMomentum leaves Previous untouched, so the correction shows up
	// as velocity on the next integration.
	ResponseMomentum Response = "momentum"
	// ResponseDamped shifts Previous by the same correction, so separating
	// two particles adds no velocity.
	ResponseDamped Response = "damped"
)

const (
	DefaultWidth      = 800.0
	DefaultHeight     = 600.0
	DefaultRadius     = 5.0
	DefaultDamping    = 0.8
	DefaultSubSteps   = 8
	DefaultMaxFrameDt = 0.05
	DefaultCapacity   = 2000

	// separationEpsilon guards the collision axis against coincident particles.
	separationEpsilon = 1e-4
)

// Config is fixed for the lifetime of a Solver.
type Config struct {
	Gravity    dynamo.Vec2
	Width      float64
	Height     float64
	Radius     float64
	Damping    float64
	SubSteps   int
	MaxFrameDt float64
	// CellSize of the spatial hash. Zero means 2*Radius.
	CellSize   float64
	Capacity   int
	Broadphase Broadphase
	Response   Response
}

func DefaultConfig() Config {
	return Config{
		Gravity:    dynamo.Vec2{X: 0, Y: 1000},
		Width:      DefaultWidth,
		Height:     DefaultHeight,
		Radius:     DefaultRadius,
		Damping:    DefaultDamping,
		SubSteps:   DefaultSubSteps,
		MaxFrameDt: DefaultMaxFrameDt,
		Capacity:   DefaultCapacity,
		Broadphase: BroadphaseHash,
		Response:   ResponseMomentum,
	}
}

// withDefaults fills zero values that have an obvious derived default.
func (c Config) withDefaults() Config {
	if c.CellSize == 0 {
		c.CellSize = 2 * c.Radius
	}
	if c.Broadphase == "" {
		c.Broadphase = BroadphaseHash
	}
	if c.Response == "" {
		c.Response = ResponseMomentum
	}
	return c
}

// Validate reports the first invalid field as a *dynamo.ConfigError.
func (c Config) Validate() error {
	c = c.withDefaults()

	if !c.Gravity.IsValid() {
		return invalid("gravity", c.Gravity, "must be finite")
	}
	if !(c.Radius > 0) || math.IsInf(c.Radius, 0) {
		return invalid("radius", c.Radius, "must be positive and finite")
	}
	if !(c.Width > 2*c.Radius) || math.IsInf(c.Width, 0) {
		return invalid("width", c.Width, "must exceed the particle diameter")
	}
	if !(c.Height > 2*c.Radius) || math.IsInf(c.Height, 0) {
		return invalid("height", c.Height, "must exceed the particle diameter")
	}
	if !(c.Damping > 0 && c.Damping < 1) {
		return invalid("damping", c.Damping, "must be within (0, 1)")
	}
	if c.SubSteps < 1 {
		return invalid("sub_steps", c.SubSteps, "must be at least 1")
	}
	if !(c.MaxFrameDt > 0) || math.IsInf(c.MaxFrameDt, 0) {
		return invalid("max_frame_dt", c.MaxFrameDt, "must be positive and finite")
	}
	if !(c.CellSize > 0) {
		return invalid("cell_size", c.CellSize, "must be positive")
	}
	if c.CellSize < 2*c.Radius {
		return invalid("cell_size", c.CellSize, "must be at least the particle diameter")
	}
	if c.Capacity < 0 {
		return invalid("capacity", c.Capacity, "must not be negative")
	}
	switch c.Broadphase {
	case BroadphaseHash, BroadphaseBrute:
	default:
		return invalid("broadphase", c.Broadphase, "must be hash or brute")
	}
	switch c.Response {
	case ResponseMomentum, ResponseDamped:
	default:
		return invalid("response", c.Response, "must be momentum or damped")
	}
	return nil
}

func invalid(field string, value any, reason string) error {
	return &dynamo.ConfigError{Field: field, Value: value, Reason: reason}
}

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/verletsim/internal/dynamo"
	"github.com/san-kum/verletsim/internal/sim"
	"github.com/san-kum/verletsim/internal/solver"
	"github.com/san-kum/verletsim/internal/spawn"
)

const (
	DefaultFrameDt  = 1.0 / 60
	DefaultDuration = 10.0
	DefaultPerFrame = 2
	DefaultJitter   = 20.0
	DefaultSeed     = 1
)

type Config struct {
	Preset   string         `yaml:"preset,omitempty"`
	World    WorldConfig    `yaml:"world"`
	Particle ParticleConfig `yaml:"particle"`
	Solver   SolverConfig   `yaml:"solver"`
	Spawn    SpawnConfig    `yaml:"spawn"`
	Run      RunConfig      `yaml:"run"`
}

type WorldConfig struct {
	Width   float64     `yaml:"width"`
	Height  float64     `yaml:"height"`
	Gravity dynamo.Vec2 `yaml:"gravity"`
	Damping float64     `yaml:"damping"`
}

type ParticleConfig struct {
	Radius   float64 `yaml:"radius"`
	Capacity int     `yaml:"capacity"`
}

type SolverConfig struct {
	SubSteps   int     `yaml:"sub_steps"`
	MaxFrameDt float64 `yaml:"max_frame_dt"`
	CellSize   float64 `yaml:"cell_size"`
	Broadphase string  `yaml:"broadphase"`
	Response   string  `yaml:"response"`
}

type SpawnConfig struct {
	Origin   dynamo.Vec2 `yaml:"origin"`
	Jitter   float64     `yaml:"jitter"`
	PerFrame int         `yaml:"per_frame"`
	Max      int         `yaml:"max"`
	Initial  int         `yaml:"initial"`
	Seed     int64       `yaml:"seed"`
}

type RunConfig struct {
	FrameDt     float64 `yaml:"frame_dt"`
	Duration    float64 `yaml:"duration"`
	SampleEvery int     `yaml:"sample_every"`
	LogEvery    int     `yaml:"log_every"`
}

func DefaultConfig() *Config {
	return &Config{
		World: WorldConfig{
			Width:   solver.DefaultWidth,
			Height:  solver.DefaultHeight,
			Gravity: dynamo.Vec2{X: 0, Y: 1000},
			Damping: solver.DefaultDamping,
		},
		Particle: ParticleConfig{
			Radius:   solver.DefaultRadius,
			Capacity: solver.DefaultCapacity,
		},
		Solver: SolverConfig{
			SubSteps:   solver.DefaultSubSteps,
			MaxFrameDt: solver.DefaultMaxFrameDt,
			Broadphase: string(solver.BroadphaseHash),
			Response:   string(solver.ResponseMomentum),
		},
		Spawn: SpawnConfig{
			Origin:   dynamo.Vec2{X: solver.DefaultWidth / 2, Y: solver.DefaultHeight / 2},
			Jitter:   DefaultJitter,
			PerFrame: DefaultPerFrame,
			Max:      solver.DefaultCapacity,
			Seed:     DefaultSeed,
		},
		Run: RunConfig{
			FrameDt:  DefaultFrameDt,
			Duration: DefaultDuration,
		},
	}
}

// Load reads a YAML file over the defaults, so omitted fields keep their
// default values.
func Load(path string) (*Config, error) {
	return LoadWith(path, DefaultConfig())
}

// LoadWith reads a YAML file over a copy of base.
func LoadWith(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := *base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) SolverConfig() solver.Config {
	return solver.Config{
		Gravity:    c.World.Gravity,
		Width:      c.World.Width,
		Height:     c.World.Height,
		Radius:     c.Particle.Radius,
		Damping:    c.World.Damping,
		SubSteps:   c.Solver.SubSteps,
		MaxFrameDt: c.Solver.MaxFrameDt,
		CellSize:   c.Solver.CellSize,
		Capacity:   c.Particle.Capacity,
		Broadphase: solver.Broadphase(c.Solver.Broadphase),
		Response:   solver.Response(c.Solver.Response),
	}
}

func (c *Config) EmitterConfig() spawn.Config {
	return spawn.Config{
		Origin:   c.Spawn.Origin,
		Jitter:   c.Spawn.Jitter,
		PerFrame: c.Spawn.PerFrame,
		Max:      c.Spawn.Max,
		Seed:     c.Spawn.Seed,
	}
}

func (c *Config) RunConfig() sim.Config {
	return sim.Config{
		FrameDt:     c.Run.FrameDt,
		Duration:    c.Run.Duration,
		SampleEvery: c.Run.SampleEvery,
		LogEvery:    c.Run.LogEvery,
	}
}

// Validate checks every section and names the section of the first
// failure.
func (c *Config) Validate() error {
	if err := c.SolverConfig().Validate(); err != nil {
		return fmt.Errorf("solver: %w", err)
	}
	if err := c.EmitterConfig().Validate(); err != nil {
		return fmt.Errorf("spawn: %w", err)
	}
	if c.Spawn.Initial < 0 {
		return fmt.Errorf("spawn: %w", &dynamo.ConfigError{Field: "initial", Value: c.Spawn.Initial, Reason: "must not be negative"})
	}
	if err := c.RunConfig().Validate(); err != nil {
		return fmt.Errorf("run: %w", err)
	}
	return nil
}

// Build wires a solver, emitter and runner from the configuration. The
// initial burst is spawned before the runner is returned.
func (c *Config) Build() (*sim.Runner, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	s, err := solver.New(c.SolverConfig())
	if err != nil {
		return nil, err
	}
	e, err := spawn.New(c.EmitterConfig())
	if err != nil {
		return nil, err
	}
	e.Burst(s, c.Spawn.Initial)
	return sim.NewRunner(s, e), nil
}

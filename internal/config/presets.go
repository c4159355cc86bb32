package config

import (
	"sort"

	"github.com/san-kum/verletsim/internal/dynamo"
)

// Presets are complete configurations. GetPreset hands out copies.
var Presets = map[string]*Config{
	"drop":     preset("drop", dropPreset),
	"fountain": preset("fountain", fountainPreset),
	"pile":     preset("pile", pilePreset),
	"stress":   preset("stress", stressPreset),
}

func preset(name string, apply func(*Config)) *Config {
	cfg := DefaultConfig()
	cfg.Preset = name
	apply(cfg)
	return cfg
}

// A single particle falling onto the floor.
func dropPreset(c *Config) {
	c.Spawn.Origin = dynamo.Vec2{X: 400, Y: 100}
	c.Spawn.Jitter = 0
	c.Spawn.PerFrame = 0
	c.Spawn.Initial = 1
	c.Spawn.Max = 1
	c.Run.Duration = 5
}

// The demo harness: two particles per frame from the center.
func fountainPreset(c *Config) {
	c.Spawn.PerFrame = 2
	c.Spawn.Max = 1000
	c.Run.Duration = 15
}

// A wide, steady stream that settles into a heap with softened contacts.
func pilePreset(c *Config) {
	c.Solver.Response = "damped"
	c.Spawn.Origin = dynamo.Vec2{X: 400, Y: 60}
	c.Spawn.Jitter = 300
	c.Spawn.PerFrame = 4
	c.Spawn.Max = 800
	c.Run.Duration = 20
}

// Fills the world to capacity as fast as possible.
func stressPreset(c *Config) {
	c.Spawn.Origin = dynamo.Vec2{X: 400, Y: 100}
	c.Spawn.Jitter = 350
	c.Spawn.PerFrame = 20
	c.Spawn.Max = 2000
	c.Run.Duration = 10
	c.Run.LogEvery = 60
}

func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

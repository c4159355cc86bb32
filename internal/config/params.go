package config

import (
	"fmt"
	"math"
	"sort"
)

// GetParams returns the numeric parameters that SetParam accepts.
func (c *Config) GetParams() map[string]float64 {
	return map[string]float64{
		"width":        c.World.Width,
		"height":       c.World.Height,
		"gravity_x":    c.World.Gravity.X,
		"gravity_y":    c.World.Gravity.Y,
		"damping":      c.World.Damping,
		"radius":       c.Particle.Radius,
		"sub_steps":    float64(c.Solver.SubSteps),
		"max_frame_dt": c.Solver.MaxFrameDt,
		"cell_size":    c.Solver.CellSize,
		"jitter":       c.Spawn.Jitter,
		"per_frame":    float64(c.Spawn.PerFrame),
		"max":          float64(c.Spawn.Max),
		"initial":      float64(c.Spawn.Initial),
		"seed":         float64(c.Spawn.Seed),
		"duration":     c.Run.Duration,
		"frame_dt":     c.Run.FrameDt,
	}
}

// ParamNames lists the settable parameters in sorted order.
func ParamNames() []string {
	params := DefaultConfig().GetParams()
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SetParam sets a numeric parameter by name. Integer parameters are
// rounded to the nearest whole number.
func (c *Config) SetParam(name string, value float64) error {
	whole := int(math.Round(value))
	switch name {
	case "width":
		c.World.Width = value
	case "height":
		c.World.Height = value
	case "gravity_x":
		c.World.Gravity.X = value
	case "gravity_y":
		c.World.Gravity.Y = value
	case "damping":
		c.World.Damping = value
	case "radius":
		c.Particle.Radius = value
	case "sub_steps":
		c.Solver.SubSteps = whole
	case "max_frame_dt":
		c.Solver.MaxFrameDt = value
	case "cell_size":
		c.Solver.CellSize = value
	case "jitter":
		c.Spawn.Jitter = value
	case "per_frame":
		c.Spawn.PerFrame = whole
	case "max":
		c.Spawn.Max = whole
	case "initial":
		c.Spawn.Initial = whole
	case "seed":
		c.Spawn.Seed = int64(whole)
	case "duration":
		c.Run.Duration = value
	case "frame_dt":
		c.Run.FrameDt = value
	default:
		return fmt.Errorf("unknown param: %s", name)
	}
	return nil
}

package automation

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/verletsim/internal/config"
	"github.com/san-kum/verletsim/internal/experiment"
	"github.com/san-kum/verletsim/internal/sim"
	"github.com/san-kum/verletsim/internal/storage"
)

// Scenario defines a scripted sequence of runs
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is a single run in a scenario
type ScenarioStep struct {
	Preset   string             `yaml:"preset"`
	Config   string             `yaml:"config"`
	Duration float64            `yaml:"duration"`
	Params   map[string]float64 `yaml:"params"`
	Metrics  []string           `yaml:"metrics"`
	SaveAs   string             `yaml:"save_as"`
}

// StepResult pairs a step's result with the ID it was stored under.
type StepResult struct {
	Name   string
	RunID  string
	Result *sim.Result
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", scenario.Name)
	}

	return &scenario, nil
}

// StepConfig resolves a step into a full configuration: preset, then the
// step's config file, then duration and params.
func StepConfig(step ScenarioStep) (*config.Config, error) {
	name := step.Preset
	if name == "" {
		name = "fountain"
	}
	cfg := config.GetPreset(name)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset: %s", name)
	}

	if step.Config != "" {
		fileCfg, err := config.LoadWith(step.Config, cfg)
		if err != nil {
			return nil, err
		}
		cfg = fileCfg
	}
	if step.Duration > 0 {
		cfg.Run.Duration = step.Duration
	}
	for k, v := range step.Params {
		if err := cfg.SetParam(k, v); err != nil {
			return nil, err
		}
	}
	if step.SaveAs != "" {
		cfg.Preset = step.SaveAs
	}
	return cfg, cfg.Validate()
}

// RunScenario executes all steps in order. Results are stored when st is
// not nil. The results of completed steps are returned alongside an error.
func RunScenario(ctx context.Context, scenario *Scenario, registry *experiment.Registry, st *storage.Store, logger *log.Logger) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		cfg, err := StepConfig(step)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		if logger != nil {
			logger.Info("scenario step", "step", i+1, "of", len(scenario.Steps), "name", cfg.Preset)
		}

		exp := experiment.New(cfg)
		if err := exp.Setup(registry, step.Metrics, logger); err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		sr := StepResult{Name: cfg.Preset, Result: result}
		if st != nil {
			sr.RunID, err = st.Save(exp.Record(), result)
			if err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
		}
		results = append(results, sr)
	}

	return results, nil
}

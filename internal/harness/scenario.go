package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario defines a scripted match: a sport, a first server, and a
// sequence of rallies with expectations along the way. Scenarios are the
// conformance surface for the scoring engines - they assert scores in
// the same rendered form the CLI shows.
type Scenario struct {
	// Name uniquely identifies this scenario; it doubles as the fixed
	// match id and the golden file name.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Sport names a built-in sport.
	Sport string `yaml:"sport"`

	// Server is the side serving first ("1" or "2"). Defaults to "1".
	Server string `yaml:"server,omitempty"`

	// Steps is the scripted sequence of rallies and undos.
	Steps []Step `yaml:"steps"`

	// Expect asserts on the final state after all steps.
	Expect *Expect `yaml:"expect,omitempty"`
}

// Step is one scripted action: a rally won by a side, or an undo of the
// previous event. Exactly one of Rally and Undo is set.
type Step struct {
	// Rally is the side winning the rally ("1" or "2").
	Rally string `yaml:"rally,omitempty"`

	// Undo removes the most recent event instead of scoring.
	Undo bool `yaml:"undo,omitempty"`

	// Expect optionally asserts on the state after this step.
	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect asserts on a rendered match state. Only set fields are checked.
type Expect struct {
	// Sets is the expected set score line (e.g. "6-4 2-1").
	Sets string `yaml:"sets,omitempty"`

	// Game is the expected active game score (e.g. "40-15", "5-3-2").
	Game string `yaml:"game,omitempty"`

	// Serving is the side expected to serve next ("1" or "2").
	Serving string `yaml:"serving,omitempty"`

	// Complete asserts match completion when set.
	Complete *bool `yaml:"complete,omitempty"`

	// Winner is the expected match winner ("1" or "2").
	Winner string `yaml:"winner,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file. Unknown fields are
// rejected so a typoed key fails loudly instead of silently skipping an
// assertion.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario %s: %w", path, err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Sport == "" {
		return fmt.Errorf("sport is required")
	}
	if s.Server == "" {
		s.Server = "1"
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}
	for i, step := range s.Steps {
		scored := step.Rally != ""
		if scored == step.Undo {
			return fmt.Errorf("steps[%d]: exactly one of rally and undo is required", i)
		}
		if scored && step.Rally != "1" && step.Rally != "2" {
			return fmt.Errorf("steps[%d]: rally must be \"1\" or \"2\", got %q", i, step.Rally)
		}
	}
	return nil
}

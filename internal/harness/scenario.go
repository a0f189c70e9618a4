package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/carlog/internal/model"
)

// Scenario is one end-to-end test over a fresh store.
type Scenario struct {
	// Name identifies the scenario and its golden file.
	Name string `yaml:"name"`

	// Description explains what the scenario validates.
	Description string `yaml:"description"`

	// Steps run in order against the same store.
	Steps []Step `yaml:"steps"`

	// Assertions are evaluated after the last step.
	Assertions []Assertion `yaml:"assertions"`
}

// Step is one carlog invocation.
type Step struct {
	// Command is run, reconcile or check.
	Command string `yaml:"command"`

	// Source is the inline source document. Empty means no source file.
	Source string `yaml:"source,omitempty"`

	// SourceFormat is json (default) or yaml.
	SourceFormat string `yaml:"source_format,omitempty"`

	// ExpectError marks a step that must fail.
	ExpectError bool `yaml:"expect_error,omitempty"`
}

// Step commands.
const (
	CommandRun       = "run"
	CommandReconcile = "reconcile"
	CommandCheck     = "check"
)

// Source formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Assertion checks the outcome of a scenario.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Line is an exact output line (output_contains, output_excludes).
	Line string `yaml:"line,omitempty"`

	// Kind is a finding kind (finding_count).
	Kind string `yaml:"kind,omitempty"`

	// Table is fuel or rides (row_count).
	Table string `yaml:"table,omitempty"`

	// Count is the expected number (finding_count, row_count).
	Count int `yaml:"count"`
}

// Assertion type constants.
const (
	AssertOutputContains = "output_contains"
	AssertOutputExcludes = "output_excludes"
	AssertFindingCount   = "finding_count"
	AssertRowCount       = "row_count"
)

// LoadScenario reads and parses a scenario YAML file. Unknown fields are
// rejected so typos surface as errors.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
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
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		switch step.Command {
		case CommandRun, CommandReconcile, CommandCheck:
		default:
			return fmt.Errorf("steps[%d]: unknown command %q", i, step.Command)
		}
		switch step.SourceFormat {
		case "", FormatJSON, FormatYAML:
		default:
			return fmt.Errorf("steps[%d]: unknown source_format %q", i, step.SourceFormat)
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	switch a.Type {
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	case AssertOutputContains, AssertOutputExcludes:
		if a.Line == "" {
			return fmt.Errorf("assertions[%d]: line is required for %s", index, a.Type)
		}
	case AssertFindingCount:
		switch model.Kind(a.Kind) {
		case model.KindTableCreated, model.KindRowAdded, model.KindRowMismatch,
			model.KindPayment, model.KindMileage, model.KindEfficiency:
		default:
			return fmt.Errorf("assertions[%d]: unknown finding kind %q", index, a.Kind)
		}
	case AssertRowCount:
		if a.Table != model.TableFuel && a.Table != model.TableRides {
			return fmt.Errorf("assertions[%d]: unknown table %q", index, a.Table)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	if a.Count < 0 {
		return fmt.Errorf("assertions[%d]: count must be non-negative", index)
	}
	return nil
}

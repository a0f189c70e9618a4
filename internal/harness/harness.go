package harness

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/roach88/carlog/internal/engine"
	"github.com/roach88/carlog/internal/model"
	"github.com/roach88/carlog/internal/report"
	"github.com/roach88/carlog/internal/store"
)

// Run executes a scenario in a fresh temporary directory and returns the
// result. The error is non-nil only when the harness itself fails; a
// scenario that does not hold is reported through Result.Pass.
func Run(scenario *Scenario) (*Result, error) {
	dir, err := os.MkdirTemp("", "carlog-scenario-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create scenario dir: %w", err)
	}
	defer os.RemoveAll(dir)

	ctx := context.Background()
	database := filepath.Join(dir, "car.sqlite")
	result := NewResult()

	for i, step := range scenario.Steps {
		if err := runStep(ctx, dir, database, scenario.Name, i, step, result); err != nil {
			return nil, err
		}
	}

	if err := countRows(ctx, database, result); err != nil {
		return nil, err
	}

	for _, assertion := range scenario.Assertions {
		evaluateAssertion(assertion, result)
	}

	return result, nil
}

func runStep(ctx context.Context, dir, database, name string, index int, step Step, result *Result) error {
	src, err := writeSource(dir, index, step)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	collector := &report.Collector{}
	eng := engine.New(engine.Options{
		Database: database,
		Source:   src,
		Stages:   stages(step.Command),
		RunIDs:   engine.NewFixedGenerator(fmt.Sprintf("%s-%d", name, index)),
	}, nil, nil)

	runErr := eng.Run(ctx, report.Tee(report.Text(&buf), collector))

	result.Findings = append(result.Findings, collector.Findings...)
	if out := strings.TrimSuffix(buf.String(), "\n"); out != "" {
		result.Output = append(result.Output, strings.Split(out, "\n")...)
	}

	switch {
	case step.ExpectError && runErr == nil:
		result.AddError("steps[%d]: expected an error, run succeeded", index)
	case !step.ExpectError && runErr != nil:
		result.AddError("steps[%d]: %v", index, runErr)
	}
	return nil
}

// writeSource writes the step's source document and returns its path. A
// step without a source gets a path that does not exist.
func writeSource(dir string, index int, step Step) (string, error) {
	ext := ".json"
	if step.SourceFormat == FormatYAML {
		ext = ".yaml"
	}
	path := filepath.Join(dir, fmt.Sprintf("source-%d%s", index, ext))
	if step.Source == "" {
		return path, nil
	}
	if err := os.WriteFile(path, []byte(step.Source), 0o644); err != nil {
		return "", fmt.Errorf("failed to write source for steps[%d]: %w", index, err)
	}
	return path, nil
}

func stages(command string) engine.Stage {
	switch command {
	case CommandReconcile:
		return engine.StageReconcile
	case CommandCheck:
		return engine.StageCheck
	default:
		return engine.StageAll
	}
}

func countRows(ctx context.Context, database string, result *Result) error {
	st, err := store.Open(database)
	if err != nil {
		return fmt.Errorf("failed to open scenario store: %w", err)
	}
	defer st.Close()

	// A scenario whose first step failed before bootstrap has no tables.
	for _, table := range store.Tables {
		exists, err := st.TableExists(ctx, table)
		if err != nil {
			return err
		}
		if !exists {
			continue
		}

		switch table {
		case model.TableFuel:
			events, err := st.ScanFuel(ctx)
			if err != nil {
				return err
			}
			result.Rows[table] = len(events)
		case model.TableRides:
			notes, err := st.ScanRides(ctx)
			if err != nil {
				return err
			}
			result.Rows[table] = len(notes)
		}
	}
	return nil
}

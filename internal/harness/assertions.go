package harness

import (
	"slices"

	"github.com/roach88/carlog/internal/model"
)

// evaluateAssertion checks one assertion and records a failure on result.
func evaluateAssertion(a Assertion, result *Result) {
	switch a.Type {
	case AssertOutputContains:
		if !slices.Contains(result.Output, a.Line) {
			result.AddError("output_contains: line %q not in output", a.Line)
		}
	case AssertOutputExcludes:
		if slices.Contains(result.Output, a.Line) {
			result.AddError("output_excludes: line %q found in output", a.Line)
		}
	case AssertFindingCount:
		if got := countKind(result.Findings, model.Kind(a.Kind)); got != a.Count {
			result.AddError("finding_count: %s: expected %d, got %d", a.Kind, a.Count, got)
		}
	case AssertRowCount:
		if got := result.Rows[a.Table]; got != a.Count {
			result.AddError("row_count: %s: expected %d, got %d", a.Table, a.Count, got)
		}
	default:
		result.AddError("unknown assertion type %q", a.Type)
	}
}

func countKind(findings []model.Finding, kind model.Kind) int {
	n := 0
	for _, f := range findings {
		if f.Kind() == kind {
			n++
		}
	}
	return n
}

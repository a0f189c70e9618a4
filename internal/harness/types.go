package harness

import (
	"fmt"

	"github.com/roach88/carlog/internal/model"
)

// Result is the outcome of a scenario.
type Result struct {
	// Pass is true when every step behaved as expected and every
	// assertion held.
	Pass bool

	// Output is the text report of all steps, one entry per line.
	Output []string

	// Findings are all findings of all steps, in order.
	Findings []model.Finding

	// Rows counts the stored rows per table after the last step.
	Rows map[string]int

	// Errors describes every failed expectation.
	Errors []string
}

// NewResult creates an empty, passing result.
func NewResult() *Result {
	return &Result{
		Pass: true,
		Rows: map[string]int{},
	}
}

// AddError records a failure.
func (r *Result) AddError(format string, args ...any) {
	r.Pass = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

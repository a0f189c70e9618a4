package check

import (
	"iter"

	"go.uber.org/zap"

	"github.com/roach88/carlog/internal/model"
)

// Check is one validator pass over the fuel history.
type Check interface {
	// Name identifies the check in logs and metrics.
	Name() string

	// Run yields the findings for events, which must be in key order.
	Run(events []model.FuelEvent) iter.Seq[model.Finding]
}

// Default returns the checks in the order a run executes them.
func Default(log *zap.Logger) []Check {
	return []Check{
		Payment{},
		Mileage{},
		NewEfficiency(log),
	}
}

// All chains the findings of checks, in order.
func All(checks []Check, events []model.FuelEvent) iter.Seq[model.Finding] {
	return func(yield func(model.Finding) bool) {
		for _, c := range checks {
			for f := range c.Run(events) {
				if !yield(f) {
					return
				}
			}
		}
	}
}

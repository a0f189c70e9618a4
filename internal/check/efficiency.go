package check

import (
	"iter"

	"go.uber.org/zap"

	"github.com/roach88/carlog/internal/logger"
	"github.com/roach88/carlog/internal/model"
)

// Efficiency reports consumption for every interval that starts and ends with
// a full-tank fill. A partial fill on either end breaks the interval; carried
// state still moves to the current event. An odometer that went backwards
// yields negative figures; an interval with no distance is skipped.
type Efficiency struct {
	log *zap.Logger
}

// NewEfficiency creates the efficiency reporter. A nil logger discards output.
func NewEfficiency(log *zap.Logger) Efficiency {
	return Efficiency{log: logger.OrNop(log).Named("efficiency")}
}

func (Efficiency) Name() string { return "efficiency" }

func (e Efficiency) Run(events []model.FuelEvent) iter.Seq[model.Finding] {
	log := logger.OrNop(e.log)

	return func(yield func(model.Finding) bool) {
		var (
			previous     int64
			previousFull bool
			hasPrevious  bool
		)
		for _, ev := range events {
			if hasPrevious && previousFull && ev.FullTank {
				mileage := ev.Odometer - previous
				if mileage == 0 {
					log.Warn("skipping interval without distance",
						zap.Stringer("key", ev.Key),
						zap.Int64("previous_odometer", previous),
					)
				} else if !yield(model.EfficiencyReport{
					Key:        ev.Key,
					Mileage:    mileage,
					Liters:     ev.Liters,
					Efficiency: float64(mileage) / ev.Liters,
					RatePer100: ev.Liters / (float64(mileage) / 100),
				}) {
					return
				}
			}
			previous = ev.Odometer
			previousFull = ev.FullTank
			hasPrevious = true
		}
	}
}

package check

import (
	"iter"
	"math"

	"github.com/roach88/carlog/internal/model"
)

// MileageTolerance is the largest accepted gap between the odometer delta and
// the recorded distance.
const MileageTolerance = 0.5

// Mileage flags events whose recorded distance disagrees with the odometer
// delta to the previous event. The first event only seeds the carried
// odometer. Events without a recorded distance are not compared.
type Mileage struct{}

func (Mileage) Name() string { return "mileage" }

func (Mileage) Run(events []model.FuelEvent) iter.Seq[model.Finding] {
	return func(yield func(model.Finding) bool) {
		var (
			previous    int64
			hasPrevious bool
		)
		for _, ev := range events {
			if hasPrevious && ev.Distance != nil {
				calculated := ev.Odometer - previous
				if math.Abs(float64(calculated)-*ev.Distance) > MileageTolerance {
					if !yield(model.MileageMismatch{
						Key:        ev.Key,
						Calculated: calculated,
						Recorded:   *ev.Distance,
					}) {
						return
					}
				}
			}
			previous = ev.Odometer
			hasPrevious = true
		}
	}
}

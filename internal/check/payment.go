package check

import (
	"iter"

	"github.com/shopspring/decimal"

	"github.com/roach88/carlog/internal/model"
)

// PaymentTolerance is the largest accepted gap between paid and expected cost.
var PaymentTolerance = decimal.RequireFromString("0.005")

// Payment flags events whose paid amount differs from liters * unit price.
// Every row is checked on its own.
type Payment struct{}

func (Payment) Name() string { return "payment" }

func (Payment) Run(events []model.FuelEvent) iter.Seq[model.Finding] {
	return func(yield func(model.Finding) bool) {
		for _, ev := range events {
			expected := decimal.NewFromFloat(ev.Liters).Mul(decimal.NewFromFloat(ev.UnitPrice))
			paid := decimal.NewFromFloat(ev.PaidPrice)
			if expected.Sub(paid).Abs().LessThanOrEqual(PaymentTolerance) {
				continue
			}
			if !yield(model.PaymentMismatch{Key: ev.Key, Paid: paid, Expected: expected}) {
				return
			}
		}
	}
}

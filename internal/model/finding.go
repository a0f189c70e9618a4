package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Kind names a category of finding.
type Kind string

const (
	KindTableCreated Kind = "table_created"
	KindRowAdded     Kind = "row_added"
	KindRowMismatch  Kind = "row_mismatch"
	KindPayment      Kind = "payment"
	KindMileage      Kind = "mileage"
	KindEfficiency   Kind = "efficiency"
)

// Finding is one reported record of a run: a schema or reconciliation notice,
// a tolerance violation, or a derived metric. Findings are never errors.
type Finding interface {
	Kind() Kind
}

// TableCreated reports that the bootstrapper created a missing table.
type TableCreated struct {
	Table string `json:"table"`
}

func (TableCreated) Kind() Kind { return KindTableCreated }

// RowAdded reports a declared record inserted because its key was new.
type RowAdded struct {
	Table string `json:"table"`
	Key   Key    `json:"key"`
}

func (RowAdded) Kind() Kind { return KindRowAdded }

// RowMismatch reports a declared record whose key is stored with a different
// value. Neither side is assumed to be the correct one.
type RowMismatch struct {
	Table    string       `json:"table"`
	Key      Key          `json:"key"`
	Stored   fmt.Stringer `json:"stored"`
	Declared fmt.Stringer `json:"declared"`
}

func (RowMismatch) Kind() Kind { return KindRowMismatch }

// PaymentMismatch reports a paid amount that differs from liters * unit price.
type PaymentMismatch struct {
	Key      Key             `json:"key"`
	Paid     decimal.Decimal `json:"paid"`
	Expected decimal.Decimal `json:"expected"`
}

func (PaymentMismatch) Kind() Kind { return KindPayment }

// MileageMismatch reports a recorded distance that differs from the odometer
// delta to the previous event.
type MileageMismatch struct {
	Key        Key     `json:"key"`
	Calculated int64   `json:"calculated"`
	Recorded   float64 `json:"recorded"`
}

func (MileageMismatch) Kind() Kind { return KindMileage }

// EfficiencyReport carries consumption metrics for one full-to-full interval
// ending at Key.
type EfficiencyReport struct {
	Key        Key     `json:"key"`
	Mileage    int64   `json:"mileage"`
	Liters     float64 `json:"liters"`
	Efficiency float64 `json:"efficiency"`   // mileage per liter
	RatePer100 float64 `json:"rate_per_100"` // liters per 100 distance units
}

func (EfficiencyReport) Kind() Kind { return KindEfficiency }

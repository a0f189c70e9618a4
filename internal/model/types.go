package model

import (
	"fmt"
	"strconv"
)

// Table names as persisted.
const (
	TableFuel  = "fuel"
	TableRides = "rides"
)

// Key identifies a row in either table.
type Key struct {
	Date     string `json:"date"`
	Odometer int64  `json:"odometer"`
}

func (k Key) String() string {
	return fmt.Sprintf("(%s, %d)", k.Date, k.Odometer)
}

// FuelValue is the non-key portion of a fuel event, in column order.
type FuelValue struct {
	Distance  *float64 `json:"distance"` // nil when no distance was recorded
	Liters    float64  `json:"liters"`
	UnitPrice float64  `json:"unit_price"`
	PaidPrice float64  `json:"paid_price"`
	FullTank  bool     `json:"full_tank"`
}

// Equal compares field by field with exact float equality.
// A nil distance equals only another nil distance.
func (v FuelValue) Equal(other FuelValue) bool {
	switch {
	case v.Distance == nil && other.Distance != nil,
		v.Distance != nil && other.Distance == nil:
		return false
	case v.Distance != nil && *v.Distance != *other.Distance:
		return false
	}
	return v.Liters == other.Liters &&
		v.UnitPrice == other.UnitPrice &&
		v.PaidPrice == other.PaidPrice &&
		v.FullTank == other.FullTank
}

func (v FuelValue) String() string {
	distance := "null"
	if v.Distance != nil {
		distance = formatFloat(*v.Distance)
	}
	return fmt.Sprintf("(%s, %s, %s, %s, %t)",
		distance,
		formatFloat(v.Liters),
		formatFloat(v.UnitPrice),
		formatFloat(v.PaidPrice),
		v.FullTank,
	)
}

// FuelEvent is one fuel purchase.
type FuelEvent struct {
	Key
	FuelValue
}

// RideValue is the non-key portion of a ride note.
type RideValue struct {
	Description string `json:"description"`
}

// Equal compares descriptions exactly.
func (v RideValue) Equal(other RideValue) bool {
	return v.Description == other.Description
}

func (v RideValue) String() string {
	return fmt.Sprintf("(%q)", v.Description)
}

// RideNote is a trip annotation.
type RideNote struct {
	Key
	RideValue
}

// Float returns a pointer to f, for optional distances.
func Float(f float64) *float64 {
	return &f
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

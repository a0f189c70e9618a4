package source

import (
	"fmt"
	"math"

	"cuelang.org/go/cue"
	"golang.org/x/text/unicode/norm"

	"github.com/roach88/carlog/internal/model"
)

// decode extracts records from a value that already passed the schema.
func decode(v cue.Value) (*Dataset, error) {
	ds := &Dataset{}

	if fuel := v.LookupPath(cue.ParsePath(model.TableFuel)); fuel.Exists() {
		rows, err := tuples(fuel)
		if err != nil {
			return nil, fmt.Errorf("fuel: %w", err)
		}
		for i, fields := range rows {
			ev, err := decodeFuel(fields)
			if err != nil {
				return nil, fmt.Errorf("fuel[%d]: %w", i, err)
			}
			ds.Fuel = append(ds.Fuel, ev)
		}
	}

	if rides := v.LookupPath(cue.ParsePath(model.TableRides)); rides.Exists() {
		rows, err := tuples(rides)
		if err != nil {
			return nil, fmt.Errorf("rides: %w", err)
		}
		for i, fields := range rows {
			note, err := decodeRide(fields)
			if err != nil {
				return nil, fmt.Errorf("rides[%d]: %w", i, err)
			}
			ds.Rides = append(ds.Rides, note)
		}
	}

	return ds, nil
}

// tuples splits a list of lists into its element values.
func tuples(v cue.Value) ([][]cue.Value, error) {
	outer, err := v.List()
	if err != nil {
		return nil, err
	}

	var rows [][]cue.Value
	for outer.Next() {
		inner, err := outer.Value().List()
		if err != nil {
			return nil, err
		}
		var fields []cue.Value
		for inner.Next() {
			fields = append(fields, inner.Value())
		}
		rows = append(rows, fields)
	}
	return rows, nil
}

func decodeKey(fields []cue.Value) (model.Key, error) {
	date, err := fields[0].String()
	if err != nil {
		return model.Key{}, fmt.Errorf("date: %w", err)
	}
	odometer, err := decodeOdometer(fields[1])
	if err != nil {
		return model.Key{}, fmt.Errorf("odometer: %w", err)
	}
	return model.Key{Date: norm.NFC.String(date), Odometer: odometer}, nil
}

// decodeOdometer accepts an integer or a float with no fractional part.
func decodeOdometer(v cue.Value) (int64, error) {
	if v.Kind() == cue.IntKind {
		return v.Int64()
	}
	f, err := v.Float64()
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) || f >= math.MaxInt64 {
		return 0, fmt.Errorf("%v is not a whole number", f)
	}
	return int64(f), nil
}

func decodeFuel(fields []cue.Value) (model.FuelEvent, error) {
	if len(fields) != 7 {
		return model.FuelEvent{}, fmt.Errorf("expected 7 fields, got %d", len(fields))
	}

	key, err := decodeKey(fields)
	if err != nil {
		return model.FuelEvent{}, err
	}

	var v model.FuelValue
	if !fields[2].IsNull() {
		distance, err := fields[2].Float64()
		if err != nil {
			return model.FuelEvent{}, fmt.Errorf("distance: %w", err)
		}
		v.Distance = model.Float(distance)
	}
	if v.Liters, err = fields[3].Float64(); err != nil {
		return model.FuelEvent{}, fmt.Errorf("liters: %w", err)
	}
	if v.UnitPrice, err = fields[4].Float64(); err != nil {
		return model.FuelEvent{}, fmt.Errorf("unit_price: %w", err)
	}
	if v.PaidPrice, err = fields[5].Float64(); err != nil {
		return model.FuelEvent{}, fmt.Errorf("paid_price: %w", err)
	}
	if v.FullTank, err = decodeFlag(fields[6]); err != nil {
		return model.FuelEvent{}, fmt.Errorf("full_tank: %w", err)
	}

	return model.FuelEvent{Key: key, FuelValue: v}, nil
}

func decodeRide(fields []cue.Value) (model.RideNote, error) {
	if len(fields) != 3 {
		return model.RideNote{}, fmt.Errorf("expected 3 fields, got %d", len(fields))
	}

	key, err := decodeKey(fields)
	if err != nil {
		return model.RideNote{}, err
	}
	description, err := fields[2].String()
	if err != nil {
		return model.RideNote{}, fmt.Errorf("description: %w", err)
	}

	return model.RideNote{
		Key:       key,
		RideValue: model.RideValue{Description: norm.NFC.String(description)},
	}, nil
}

// decodeFlag accepts a bool or the integers 0 and 1.
func decodeFlag(v cue.Value) (bool, error) {
	if v.Kind() == cue.BoolKind {
		return v.Bool()
	}
	n, err := v.Int64()
	if err != nil {
		return false, err
	}
	return n != 0, nil
}

package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/roach88/carlog/internal/model"
)

// createTestStore creates a bootstrapped store in a temp directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	if _, err := s.Bootstrap(context.Background()); err != nil {
		t.Fatalf("Bootstrap() failed: %v", err)
	}
	return s
}

// createTestFuel creates a fuel event with a 1.5 unit price and a matching paid amount.
func createTestFuel(date string, odometer int64, distance *float64, liters float64, full bool) model.FuelEvent {
	return model.FuelEvent{
		Key: model.Key{Date: date, Odometer: odometer},
		FuelValue: model.FuelValue{
			Distance:  distance,
			Liters:    liters,
			UnitPrice: 1.5,
			PaidPrice: liters * 1.5,
			FullTank:  full,
		},
	}
}

package reconcile

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/roach88/carlog/internal/model"
	"github.com/roach88/carlog/internal/source"
	"github.com/roach88/carlog/internal/store"
)

func createTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "car.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	_, err = s.Bootstrap(context.Background())
	require.NoError(t, err)
	return s
}

func fuel(date string, odometer int64, liters, unitPrice, paid float64, full bool) model.FuelEvent {
	return model.FuelEvent{
		Key:       model.Key{Date: date, Odometer: odometer},
		FuelValue: model.FuelValue{Liters: liters, UnitPrice: unitPrice, PaidPrice: paid, FullTank: full},
	}
}

func ride(date string, odometer int64, description string) model.RideNote {
	return model.RideNote{
		Key:       model.Key{Date: date, Odometer: odometer},
		RideValue: model.RideValue{Description: description},
	}
}

func TestReconcile_EmptySourceEmptyStore(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	res, err := New(nil).Reconcile(ctx, s, &source.Dataset{})
	require.NoError(t, err)
	assert.Empty(t, res.Findings)

	events, err := s.ScanFuel(ctx)
	require.NoError(t, err)
	assert.Empty(t, events)
	rides, err := s.ScanRides(ctx)
	require.NoError(t, err)
	assert.Empty(t, rides)
}

func TestReconcile_NilDatasetSkips(t *testing.T) {
	res, err := New(nil).Reconcile(context.Background(), createTestStore(t), nil)
	require.NoError(t, err)
	assert.Empty(t, res.Findings)
	assert.Equal(t, TableStats{}, *res.Tables[model.TableFuel])
}

func TestReconcile_NewKeyAddedOnceThenIdempotent(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)
	ds := &source.Dataset{
		Fuel:  []model.FuelEvent{fuel("2023-01-01", 1000, 40, 1.5, 60, true)},
		Rides: []model.RideNote{ride("2023-01-02", 1100, "Trip to town")},
	}
	r := New(nil)

	res, err := r.Reconcile(ctx, s, ds)
	require.NoError(t, err)
	assert.Equal(t, []model.Finding{
		model.RowAdded{Table: "fuel", Key: model.Key{Date: "2023-01-01", Odometer: 1000}},
		model.RowAdded{Table: "rides", Key: model.Key{Date: "2023-01-02", Odometer: 1100}},
	}, res.Findings)
	assert.Equal(t, 1, res.Tables[model.TableFuel].Added)
	assert.Equal(t, 1, res.Tables[model.TableRides].Added)

	res, err = r.Reconcile(ctx, s, ds)
	require.NoError(t, err)
	assert.Empty(t, res.Findings)
	assert.Equal(t, 1, res.Tables[model.TableFuel].Unchanged)
	assert.Equal(t, 1, res.Tables[model.TableRides].Unchanged)

	events, err := s.ScanFuel(ctx)
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestReconcile_LogsUnderReconcileName(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	ds := &source.Dataset{Fuel: []model.FuelEvent{fuel("2023-01-01", 1000, 40, 1.5, 60, true)}}

	_, err := New(zap.New(core)).Reconcile(context.Background(), createTestStore(t), ds)
	require.NoError(t, err)

	added := logs.FilterMessage("row added").All()
	require.Len(t, added, 1)
	assert.Equal(t, "reconcile", added[0].LoggerName)
}

func TestReconcile_MismatchLeavesStoredRow(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)
	original := fuel("2023-01-01", 1000, 40, 1.5, 60, true)
	require.NoError(t, s.InsertFuel(ctx, original))

	declared := original
	declared.PaidPrice = 61
	res, err := New(nil).Reconcile(ctx, s, &source.Dataset{Fuel: []model.FuelEvent{declared}})
	require.NoError(t, err)

	require.Len(t, res.Findings, 1)
	mismatch, ok := res.Findings[0].(model.RowMismatch)
	require.True(t, ok, "expected RowMismatch, got %T", res.Findings[0])
	assert.Equal(t, "fuel", mismatch.Table)
	assert.Equal(t, original.Key, mismatch.Key)
	assert.Equal(t, original.FuelValue, mismatch.Stored)
	assert.Equal(t, declared.FuelValue, mismatch.Declared)
	assert.Equal(t, 1, res.Tables[model.TableFuel].Mismatched)

	stored, found, err := s.LookupFuel(ctx, original.Key)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 60.0, stored.PaidPrice)
}

func TestReconcile_RideMismatch(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)
	require.NoError(t, s.InsertRide(ctx, ride("2023-01-02", 1100, "Trip to town")))

	res, err := New(nil).Reconcile(ctx, s, &source.Dataset{
		Rides: []model.RideNote{ride("2023-01-02", 1100, "Trip to the city")},
	})
	require.NoError(t, err)
	require.Len(t, res.Findings, 1)
	assert.Equal(t, model.RowMismatch{
		Table:    "rides",
		Key:      model.Key{Date: "2023-01-02", Odometer: 1100},
		Stored:   model.RideValue{Description: "Trip to town"},
		Declared: model.RideValue{Description: "Trip to the city"},
	}, res.Findings[0])
}

func TestReconcile_DuplicateKeyInSource(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)
	first := fuel("2023-01-01", 1000, 40, 1.5, 60, true)
	second := fuel("2023-01-01", 1000, 41, 1.5, 61.5, true)

	res, err := New(nil).Reconcile(ctx, s, &source.Dataset{Fuel: []model.FuelEvent{first, second}})
	require.NoError(t, err)
	require.Len(t, res.Findings, 2)
	assert.Equal(t, model.KindRowAdded, res.Findings[0].Kind())
	assert.Equal(t, model.KindRowMismatch, res.Findings[1].Kind())

	stored, _, err := s.LookupFuel(ctx, first.Key)
	require.NoError(t, err)
	assert.Equal(t, 40.0, stored.Liters)
}

func TestReconcile_NullDistanceCompares(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)
	ev := fuel("2023-01-01", 1000, 40, 1.5, 60, true)
	require.NoError(t, s.InsertFuel(ctx, ev))

	withDistance := ev
	withDistance.Distance = model.Float(0)
	res, err := New(nil).Reconcile(ctx, s, &source.Dataset{Fuel: []model.FuelEvent{withDistance}})
	require.NoError(t, err)
	require.Len(t, res.Findings, 1, "null and 0 are different values")
}

// failingTables fails the first lookup or insert it is configured to.
type failingTables struct {
	Tables
	lookupErr error
	insertErr error
}

func (f *failingTables) LookupFuel(ctx context.Context, key model.Key) (model.FuelValue, bool, error) {
	if f.lookupErr != nil {
		return model.FuelValue{}, false, f.lookupErr
	}
	return f.Tables.LookupFuel(ctx, key)
}

func (f *failingTables) InsertFuel(ctx context.Context, ev model.FuelEvent) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	return f.Tables.InsertFuel(ctx, ev)
}

func TestReconcile_LookupFailureIsFatal(t *testing.T) {
	ioErr := errors.New("disk I/O error")
	tables := &failingTables{Tables: createTestStore(t), lookupErr: ioErr}

	_, err := New(nil).Reconcile(context.Background(), tables, &source.Dataset{
		Fuel: []model.FuelEvent{fuel("2023-01-01", 1000, 40, 1.5, 60, true)},
	})
	require.ErrorIs(t, err, ioErr)
	assert.Contains(t, err.Error(), "reconcile fuel")
}

func TestReconcile_InsertFailureStopsBeforeRides(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)
	ioErr := errors.New("database or disk is full")
	tables := &failingTables{Tables: s, insertErr: ioErr}

	_, err := New(nil).Reconcile(ctx, tables, &source.Dataset{
		Fuel:  []model.FuelEvent{fuel("2023-01-01", 1000, 40, 1.5, 60, true)},
		Rides: []model.RideNote{ride("2023-01-02", 1100, "Trip to town")},
	})
	require.ErrorIs(t, err, ioErr)

	rides, err := s.ScanRides(ctx)
	require.NoError(t, err)
	assert.Empty(t, rides)
}

package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/carlog/internal/model"
)

func TestOpen_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "car.sqlite")

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	_, err = os.Stat(path)
	assert.NoError(t, err, "database file was not created")
}

func TestOpen_DoesNotCreateTables(t *testing.T) {
	path := filepath.Join(t.TempDir(), "car.sqlite")

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	for _, table := range Tables {
		exists, err := s.TableExists(context.Background(), table)
		require.NoError(t, err)
		assert.False(t, exists, "table %s should not exist before Bootstrap", table)
	}
}

func TestOpen_InvalidPath(t *testing.T) {
	_, err := Open("/nonexistent/dir/car.sqlite")
	assert.Error(t, err)
}

func TestOpen_Pragmas(t *testing.T) {
	s := createTestStore(t)

	assert.NoError(t, s.verifyPragma("journal_mode", "wal"))
	assert.NoError(t, s.verifyPragma("synchronous", "1"))
	assert.NoError(t, s.verifyPragma("busy_timeout", "5000"))
	assert.NoError(t, s.verifyPragma("foreign_keys", "1"))
}

func TestClose_NilDB(t *testing.T) {
	s := &Store{db: nil}
	assert.NoError(t, s.Close())
}

func TestBootstrap_CreatesTablesOnce(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "car.sqlite")

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	created, err := s.Bootstrap(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"fuel", "rides"}, created)

	created, err = s.Bootstrap(ctx)
	require.NoError(t, err)
	assert.Empty(t, created)
}

func TestBootstrap_CreatesOnlyMissingTable(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	_, err := s.DB().Exec("DROP TABLE rides")
	require.NoError(t, err)

	created, err := s.Bootstrap(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"rides"}, created)
}

func TestFuel_InsertAndLookup(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	ev := createTestFuel("2023-01-10", 1400, model.Float(400), 30, true)
	require.NoError(t, s.InsertFuel(ctx, ev))

	got, found, err := s.LookupFuel(ctx, ev.Key)
	require.NoError(t, err)
	require.True(t, found)
	assert.True(t, ev.FuelValue.Equal(got), "got %s, want %s", got, ev.FuelValue)
}

func TestFuel_LookupMissing(t *testing.T) {
	s := createTestStore(t)

	_, found, err := s.LookupFuel(context.Background(), model.Key{Date: "2023-01-10", Odometer: 1})
	require.NoError(t, err)
	assert.False(t, found)
}

func TestFuel_NullDistanceRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	ev := createTestFuel("2023-01-01", 1000, nil, 40, false)
	require.NoError(t, s.InsertFuel(ctx, ev))

	got, found, err := s.LookupFuel(ctx, ev.Key)
	require.NoError(t, err)
	require.True(t, found)
	assert.Nil(t, got.Distance)
	assert.False(t, got.FullTank)
}

func TestFuel_DuplicateKeyRejected(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	ev := createTestFuel("2023-01-01", 1000, nil, 40, true)
	require.NoError(t, s.InsertFuel(ctx, ev))

	changed := ev
	changed.Liters = 41
	err := s.InsertFuel(ctx, changed)
	require.Error(t, err)

	got, _, err := s.LookupFuel(ctx, ev.Key)
	require.NoError(t, err)
	assert.Equal(t, 40.0, got.Liters, "first-seen value must survive")
}

func TestScanFuel_OrderedByKey(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	inserts := []model.FuelEvent{
		createTestFuel("2023-02-01", 1900, model.Float(500), 35, true),
		createTestFuel("2023-01-01", 1000, nil, 40, true),
		createTestFuel("2023-01-15", 1400, model.Float(400), 30, true),
		createTestFuel("2023-01-01", 900, nil, 10, false),
	}
	for _, ev := range inserts {
		require.NoError(t, s.InsertFuel(ctx, ev))
	}

	events, err := s.ScanFuel(ctx)
	require.NoError(t, err)

	var keys []model.Key
	for _, ev := range events {
		keys = append(keys, ev.Key)
	}
	assert.Equal(t, []model.Key{
		{Date: "2023-01-01", Odometer: 900},
		{Date: "2023-01-01", Odometer: 1000},
		{Date: "2023-01-15", Odometer: 1400},
		{Date: "2023-02-01", Odometer: 1900},
	}, keys)
}

func TestScanFuel_EmptyIsNotNil(t *testing.T) {
	s := createTestStore(t)

	events, err := s.ScanFuel(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, events)
	assert.Empty(t, events)
}

func TestRides_InsertLookupScan(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	notes := []model.RideNote{
		{Key: model.Key{Date: "2023-03-02", Odometer: 2500}, RideValue: model.RideValue{Description: "Back home"}},
		{Key: model.Key{Date: "2023-03-01", Odometer: 2100}, RideValue: model.RideValue{Description: "To the coast"}},
	}
	for _, note := range notes {
		require.NoError(t, s.InsertRide(ctx, note))
	}

	got, found, err := s.LookupRide(ctx, notes[1].Key)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "To the coast", got.Description)

	_, found, err = s.LookupRide(ctx, model.Key{Date: "2023-03-01", Odometer: 1})
	require.NoError(t, err)
	assert.False(t, found)

	scanned, err := s.ScanRides(ctx)
	require.NoError(t, err)
	require.Len(t, scanned, 2)
	assert.Equal(t, notes[1], scanned[0])
	assert.Equal(t, notes[0], scanned[1])
}

func TestInTx_CommitsOnSuccess(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	ev := createTestFuel("2023-01-01", 1000, nil, 40, true)
	err := s.InTx(ctx, func(tx *Tx) error {
		if err := tx.InsertFuel(ctx, ev); err != nil {
			return err
		}
		_, found, err := tx.LookupFuel(ctx, ev.Key)
		require.NoError(t, err)
		assert.True(t, found, "insert must be visible inside the transaction")
		return nil
	})
	require.NoError(t, err)

	_, found, err := s.LookupFuel(ctx, ev.Key)
	require.NoError(t, err)
	assert.True(t, found)
}

func TestInTx_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	boom := errors.New("boom")
	ev := createTestFuel("2023-01-01", 1000, nil, 40, true)
	note := model.RideNote{Key: ev.Key, RideValue: model.RideValue{Description: "x"}}

	err := s.InTx(ctx, func(tx *Tx) error {
		require.NoError(t, tx.InsertFuel(ctx, ev))
		require.NoError(t, tx.InsertRide(ctx, note))
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, found, err := s.LookupFuel(ctx, ev.Key)
	require.NoError(t, err)
	assert.False(t, found)

	_, found, err = s.LookupRide(ctx, note.Key)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStore_DurableAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "car.sqlite")

	s1, err := Open(path)
	require.NoError(t, err)
	_, err = s1.Bootstrap(ctx)
	require.NoError(t, err)
	ev := createTestFuel("2023-01-01", 1000, model.Float(12.5), 40, true)
	require.NoError(t, s1.InsertFuel(ctx, ev))
	require.NoError(t, s1.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()

	created, err := s2.Bootstrap(ctx)
	require.NoError(t, err)
	assert.Empty(t, created)

	got, found, err := s2.LookupFuel(ctx, ev.Key)
	require.NoError(t, err)
	require.True(t, found)
	assert.True(t, ev.FuelValue.Equal(got))
}

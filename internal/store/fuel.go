package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/carlog/internal/model"
)

// LookupFuel returns the stored value for key. The boolean is false when no
// row exists.
func (s *Store) LookupFuel(ctx context.Context, key model.Key) (model.FuelValue, bool, error) {
	return lookupFuel(ctx, s.db, key)
}

// InsertFuel inserts a full fuel event. Inserting an existing key fails with
// the SQLite constraint error; rows are never replaced.
func (s *Store) InsertFuel(ctx context.Context, ev model.FuelEvent) error {
	return insertFuel(ctx, s.db, ev)
}

// ScanFuel returns all fuel events ordered by (date, odometer).
// Returns an empty slice (not nil) if the table is empty.
func (s *Store) ScanFuel(ctx context.Context) ([]model.FuelEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT date, odometer, distance, liters, unit_price, paid_price, full_tank
		FROM fuel
		ORDER BY date, odometer
	`)
	if err != nil {
		return nil, fmt.Errorf("query fuel: %w", err)
	}
	defer rows.Close()

	events := []model.FuelEvent{}
	for rows.Next() {
		var (
			ev       model.FuelEvent
			distance sql.NullFloat64
			fullTank int64
		)
		if err := rows.Scan(
			&ev.Date,
			&ev.Odometer,
			&distance,
			&ev.Liters,
			&ev.UnitPrice,
			&ev.PaidPrice,
			&fullTank,
		); err != nil {
			return nil, fmt.Errorf("scan fuel: %w", err)
		}
		if distance.Valid {
			ev.Distance = model.Float(distance.Float64)
		}
		ev.FullTank = fullTank != 0
		events = append(events, ev)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate fuel: %w", err)
	}

	return events, nil
}

// LookupFuel is Store.LookupFuel inside the transaction.
func (t *Tx) LookupFuel(ctx context.Context, key model.Key) (model.FuelValue, bool, error) {
	return lookupFuel(ctx, t.tx, key)
}

// InsertFuel is Store.InsertFuel inside the transaction.
func (t *Tx) InsertFuel(ctx context.Context, ev model.FuelEvent) error {
	return insertFuel(ctx, t.tx, ev)
}

func lookupFuel(ctx context.Context, q querier, key model.Key) (model.FuelValue, bool, error) {
	var (
		v        model.FuelValue
		distance sql.NullFloat64
		fullTank int64
	)
	err := q.QueryRowContext(ctx, `
		SELECT distance, liters, unit_price, paid_price, full_tank
		FROM fuel
		WHERE date = ? AND odometer = ?
	`, key.Date, key.Odometer).Scan(&distance, &v.Liters, &v.UnitPrice, &v.PaidPrice, &fullTank)
	if errors.Is(err, sql.ErrNoRows) {
		return model.FuelValue{}, false, nil
	}
	if err != nil {
		return model.FuelValue{}, false, fmt.Errorf("lookup fuel %s: %w", key, err)
	}

	if distance.Valid {
		v.Distance = model.Float(distance.Float64)
	}
	v.FullTank = fullTank != 0
	return v, true, nil
}

func insertFuel(ctx context.Context, q querier, ev model.FuelEvent) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO fuel
		(date, odometer, distance, liters, unit_price, paid_price, full_tank)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		ev.Date,
		ev.Odometer,
		nullableFloat(ev.Distance),
		ev.Liters,
		ev.UnitPrice,
		ev.PaidPrice,
		boolToInt(ev.FullTank),
	)
	if err != nil {
		return fmt.Errorf("insert fuel %s: %w", ev.Key, err)
	}
	return nil
}

func nullableFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/carlog/internal/model"
)

// LookupRide returns the stored value for key. The boolean is false when no
// row exists.
func (s *Store) LookupRide(ctx context.Context, key model.Key) (model.RideValue, bool, error) {
	return lookupRide(ctx, s.db, key)
}

// InsertRide inserts a full ride note.
func (s *Store) InsertRide(ctx context.Context, note model.RideNote) error {
	return insertRide(ctx, s.db, note)
}

// ScanRides returns all ride notes ordered by (date, odometer).
// Returns an empty slice (not nil) if the table is empty.
func (s *Store) ScanRides(ctx context.Context) ([]model.RideNote, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT date, odometer, description
		FROM rides
		ORDER BY date, odometer
	`)
	if err != nil {
		return nil, fmt.Errorf("query rides: %w", err)
	}
	defer rows.Close()

	notes := []model.RideNote{}
	for rows.Next() {
		var note model.RideNote
		if err := rows.Scan(&note.Date, &note.Odometer, &note.Description); err != nil {
			return nil, fmt.Errorf("scan rides: %w", err)
		}
		notes = append(notes, note)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rides: %w", err)
	}

	return notes, nil
}

// LookupRide is Store.LookupRide inside the transaction.
func (t *Tx) LookupRide(ctx context.Context, key model.Key) (model.RideValue, bool, error) {
	return lookupRide(ctx, t.tx, key)
}

// InsertRide is Store.InsertRide inside the transaction.
func (t *Tx) InsertRide(ctx context.Context, note model.RideNote) error {
	return insertRide(ctx, t.tx, note)
}

func lookupRide(ctx context.Context, q querier, key model.Key) (model.RideValue, bool, error) {
	var v model.RideValue
	err := q.QueryRowContext(ctx, `
		SELECT description
		FROM rides
		WHERE date = ? AND odometer = ?
	`, key.Date, key.Odometer).Scan(&v.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return model.RideValue{}, false, nil
	}
	if err != nil {
		return model.RideValue{}, false, fmt.Errorf("lookup ride %s: %w", key, err)
	}
	return v, true, nil
}

func insertRide(ctx context.Context, q querier, note model.RideNote) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO rides
		(date, odometer, description)
		VALUES (?, ?, ?)
	`, note.Date, note.Odometer, note.Description)
	if err != nil {
		return fmt.Errorf("insert ride %s: %w", note.Key, err)
	}
	return nil
}

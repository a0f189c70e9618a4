package reconcile

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/roach88/carlog/internal/logger"
	"github.com/roach88/carlog/internal/model"
	"github.com/roach88/carlog/internal/source"
)

// Tables is the slice of the store the reconciler needs. It is satisfied by
// *store.Store and *store.Tx.
type Tables interface {
	LookupFuel(ctx context.Context, key model.Key) (model.FuelValue, bool, error)
	InsertFuel(ctx context.Context, ev model.FuelEvent) error
	LookupRide(ctx context.Context, key model.Key) (model.RideValue, bool, error)
	InsertRide(ctx context.Context, note model.RideNote) error
}

// TableStats counts outcomes for one table.
type TableStats struct {
	Added      int `json:"added"`
	Unchanged  int `json:"unchanged"`
	Mismatched int `json:"mismatched"`
}

// Result holds the findings of one reconciliation pass, in declared order.
type Result struct {
	Findings []model.Finding
	Tables   map[string]*TableStats
}

func newResult() *Result {
	return &Result{
		Findings: []model.Finding{},
		Tables: map[string]*TableStats{
			model.TableFuel:  {},
			model.TableRides: {},
		},
	}
}

// Reconciler merges declared records into the store.
type Reconciler struct {
	log *zap.Logger
}

// New creates a Reconciler. A nil logger discards output.
func New(log *zap.Logger) *Reconciler {
	return &Reconciler{log: logger.OrNop(log).Named("reconcile")}
}

// Reconcile merges fuel records first, then rides. A nil dataset means no
// source exists and yields an empty result. Any lookup or insert failure is
// returned as an error; the findings gathered so far are returned with it.
func (r *Reconciler) Reconcile(ctx context.Context, t Tables, ds *source.Dataset) (*Result, error) {
	res := newResult()
	if ds == nil {
		r.log.Debug("no source, skipping reconciliation")
		return res, nil
	}

	err := merge(ctx, r.log, model.TableFuel, ds.Fuel,
		func(ev model.FuelEvent) (model.Key, model.FuelValue) { return ev.Key, ev.FuelValue },
		t.LookupFuel, t.InsertFuel, res)
	if err != nil {
		return res, err
	}

	err = merge(ctx, r.log, model.TableRides, ds.Rides,
		func(note model.RideNote) (model.Key, model.RideValue) { return note.Key, note.RideValue },
		t.LookupRide, t.InsertRide, res)
	if err != nil {
		return res, err
	}

	for _, table := range []string{model.TableFuel, model.TableRides} {
		stats := res.Tables[table]
		r.log.Info("table reconciled",
			zap.String("table", table),
			zap.Int("added", stats.Added),
			zap.Int("unchanged", stats.Unchanged),
			zap.Int("mismatched", stats.Mismatched),
		)
	}
	return res, nil
}

// value is the non-key portion of a row.
type value[V any] interface {
	fmt.Stringer
	Equal(other V) bool
}

// merge applies the insert-or-compare rule to every record of one table.
func merge[R any, V value[V]](
	ctx context.Context,
	log *zap.Logger,
	table string,
	records []R,
	split func(R) (model.Key, V),
	lookup func(context.Context, model.Key) (V, bool, error),
	insert func(context.Context, R) error,
	res *Result,
) error {
	stats := res.Tables[table]
	for _, rec := range records {
		key, declared := split(rec)

		stored, found, err := lookup(ctx, key)
		if err != nil {
			return fmt.Errorf("reconcile %s: %w", table, err)
		}

		switch {
		case !found:
			if err := insert(ctx, rec); err != nil {
				return fmt.Errorf("reconcile %s: %w", table, err)
			}
			stats.Added++
			log.Debug("row added", zap.String("table", table), zap.Stringer("key", key))
			res.Findings = append(res.Findings, model.RowAdded{Table: table, Key: key})
		case stored.Equal(declared):
			stats.Unchanged++
		default:
			stats.Mismatched++
			log.Debug("row mismatch", zap.String("table", table), zap.Stringer("key", key))
			res.Findings = append(res.Findings, model.RowMismatch{
				Table:    table,
				Key:      key,
				Stored:   stored,
				Declared: declared,
			})
		}
	}
	return nil
}

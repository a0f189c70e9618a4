package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/roach88/carlog/internal/check"
	"github.com/roach88/carlog/internal/logger"
	"github.com/roach88/carlog/internal/metrics"
	"github.com/roach88/carlog/internal/model"
	"github.com/roach88/carlog/internal/reconcile"
	"github.com/roach88/carlog/internal/report"
	"github.com/roach88/carlog/internal/source"
	"github.com/roach88/carlog/internal/store"
)

// Stage selects the parts of a run after bootstrap.
type Stage uint8

const (
	StageReconcile Stage = 1 << iota
	StageCheck

	StageAll = StageReconcile | StageCheck
)

// Options configures a run.
type Options struct {
	// Database is the SQLite store path.
	Database string

	// Source is the declarative source path. A missing file skips
	// reconciliation.
	Source string

	// Stages defaults to StageAll when zero.
	Stages Stage

	// Checks defaults to check.Default when nil.
	Checks []check.Check

	// RunIDs defaults to UUIDv7Generator when nil.
	RunIDs RunIDGenerator

	// Now defaults to time.Now when nil.
	Now func() time.Time
}

// Engine runs bootstrap, reconciliation and validation against one store.
type Engine struct {
	opts    Options
	log     *zap.Logger
	metrics *metrics.Manager
}

// New creates an Engine. A nil logger discards output; a nil metrics
// manager records nothing.
func New(opts Options, log *zap.Logger, m *metrics.Manager) *Engine {
	log = logger.OrNop(log)
	if opts.Stages == 0 {
		opts.Stages = StageAll
	}
	if opts.Checks == nil {
		opts.Checks = check.Default(log)
	}
	if opts.RunIDs == nil {
		opts.RunIDs = UUIDv7Generator{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Engine{
		opts:    opts,
		log:     log,
		metrics: m,
	}
}

// Run performs one run, emitting findings to sink in order.
func (e *Engine) Run(ctx context.Context, sink report.Sink) error {
	start := e.opts.Now()
	log := e.runLogger()
	defer func() {
		end := e.opts.Now()
		e.metrics.ObserveRun(end.Sub(start), end)
		log.Debug("run finished", zap.Duration("elapsed", end.Sub(start)))
	}()

	return e.withStore(ctx, log, sink, func(st *store.Store) error {
		if e.opts.Stages&StageReconcile != 0 {
			if err := e.reconcile(ctx, log, st, sink); err != nil {
				return err
			}
		}
		if e.opts.Stages&StageCheck != 0 {
			if err := e.check(ctx, log, st, sink); err != nil {
				return err
			}
		}
		return nil
	})
}

// Rides returns the stored ride notes in key order.
func (e *Engine) Rides(ctx context.Context) ([]model.RideNote, error) {
	var notes []model.RideNote
	err := e.withStore(ctx, e.runLogger(), nil, func(st *store.Store) error {
		var err error
		notes, err = st.ScanRides(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return notes, nil
}

func (e *Engine) runLogger() *zap.Logger {
	return e.log.With(
		zap.String("run_id", e.opts.RunIDs.Generate()),
		zap.String("database", e.opts.Database),
		zap.String("source", e.opts.Source),
	)
}

// withStore opens and bootstraps the store, calls fn, and closes the store
// on every path. Created tables are emitted to sink when it is non-nil.
func (e *Engine) withStore(ctx context.Context, log *zap.Logger, sink report.Sink, fn func(*store.Store) error) error {
	st, err := store.Open(e.opts.Database)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			log.Warn("close store", zap.Error(err))
		}
	}()
	log.Debug("store opened")

	created, err := st.Bootstrap(ctx)
	if err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}
	for _, table := range created {
		e.metrics.RecordTableCreated()
		log.Info("table created", zap.String("table", table))
		if sink == nil {
			continue
		}
		if err := sink.Emit(model.TableCreated{Table: table}); err != nil {
			return err
		}
	}

	return fn(st)
}

func (e *Engine) reconcile(ctx context.Context, log *zap.Logger, st *store.Store, sink report.Sink) error {
	ds, err := source.Load(e.opts.Source)
	if errors.Is(err, source.ErrNotFound) {
		log.Info("no source, skipping reconciliation")
		return nil
	}
	if err != nil {
		return err
	}
	log.Debug("source loaded", zap.Int("fuel", len(ds.Fuel)), zap.Int("rides", len(ds.Rides)))

	var res *reconcile.Result
	err = st.InTx(ctx, func(tx *store.Tx) error {
		var err error
		res, err = reconcile.New(log).Reconcile(ctx, tx, ds)
		return err
	})
	if err != nil {
		return err
	}

	for _, table := range store.Tables {
		stats := res.Tables[table]
		e.metrics.RecordRowsAdded(table, stats.Added)
		e.metrics.RecordRowsMismatched(table, stats.Mismatched)
	}
	for _, f := range res.Findings {
		if err := sink.Emit(f); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) check(ctx context.Context, log *zap.Logger, st *store.Store, sink report.Sink) error {
	events, err := st.ScanFuel(ctx)
	if err != nil {
		return fmt.Errorf("validate: %w", err)
	}
	e.metrics.SetFuelEvents(len(events))
	log.Debug("fuel history scanned", zap.Int("events", len(events)))

	for _, c := range e.opts.Checks {
		n := 0
		for f := range c.Run(events) {
			n++
			e.metrics.RecordFinding(c.Name())
			if err := sink.Emit(f); err != nil {
				return err
			}
		}
		log.Debug("check finished", zap.String("check", c.Name()), zap.Int("findings", n))
	}
	return nil
}

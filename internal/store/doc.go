// Package store provides SQLite-backed durable storage for carlog.
//
// Two tables are kept, both keyed by (date, odometer):
//   - fuel: one row per fuel purchase
//   - rides: one row per trip annotation
//
// The store is append-only in practice. It exposes existence checks, point
// lookups, inserts and full ordered scans; there is no update or delete path.
//
// # Ordering
//
// Every scan uses ORDER BY date, odometer. Derived metrics depend on each
// row's predecessor in that order, so callers must never re-sort by rowid or
// insertion time.
//
// # Schema
//
// Open does not create tables. Bootstrap does, and reports which tables it
// had to create so the caller can tell the user.
//
// # Database Configuration
//
//   - WAL mode
//   - synchronous=NORMAL
//   - busy_timeout=5000
//   - foreign_keys=ON
//   - a single open connection
package store

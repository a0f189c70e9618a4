// Package engine drives one carlog run against a store.
//
// A run is strictly sequential:
//
//  1. Open the store and bootstrap the schema. Each table created is
//     reported before anything else.
//  2. Load the declarative source, if one exists, and reconcile it into the
//     store inside a single transaction. A fatal error rolls back every
//     insert of the run.
//  3. Scan the fuel history once in (date, odometer) order and run each
//     check over it: payment, mileage, efficiency.
//
// Findings go to a report.Sink as they are produced. Errors returned by Run
// are fatal; findings never are.
//
// The store is closed on every exit path. Each run carries a UUIDv7 run id
// on its logger so interleaved stderr output can be told apart.
package engine

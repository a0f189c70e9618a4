// Package source loads the declarative record of fuel purchases and ride
// notes that reconciliation checks the store against.
//
// The document holds up to two collections of positional tuples:
//
//	fuel:  [date, odometer, distance, liters, unit_price, paid_price, full_tank]
//	rides: [date, odometer, description]
//
// The first two fields of every tuple form the key; the rest is the value in
// table column order. JSON is the default format; files ending in .yaml or
// .yml are read as YAML. Both are validated against an embedded CUE schema
// before any record is decoded, so a malformed tuple is rejected with a
// position instead of being half-reconciled.
//
// A missing file is not an error for callers: Load returns ErrNotFound and
// reconciliation is skipped.
package source

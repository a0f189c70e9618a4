// Package model defines the records carlog stores, reconciles and checks.
//
// The package has no internal imports; every other internal package builds
// on it. Two entity kinds exist:
//   - FuelEvent: one fuel purchase, keyed by (date, odometer)
//   - RideNote: a trip annotation with the same key shape
//
// Keys order by date first and odometer second. That order is the basis for
// every derived metric: an event's "previous" event is its predecessor in key
// order, nothing else.
//
// Findings are the only output of a run. They are plain records; turning them
// into text is the job of internal/report.
package model

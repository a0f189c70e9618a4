// Package check implements the validators that run over stored fuel events.
//
// Each check is an ordered scan that recomputes a derived quantity and yields
// findings as a lazy sequence:
//
//   - payment: liters * unit price against the paid amount
//   - mileage: odometer delta to the previous event against the recorded distance
//   - efficiency: consumption between two consecutive full-tank fills
//
// Checks never touch the store. They take events already ordered by
// (date, odometer), as returned by store.ScanFuel, and carry their own state;
// no two checks share state even though they walk the same order. A sequence
// can be ranged over any number of times and recomputes on each pass.
package check

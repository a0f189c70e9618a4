// Package reconcile merges a declarative source into the store.
//
// Reconciliation is one-way and never destructive. For each declared record:
//   - key absent from the store: the full record is inserted (RowAdded)
//   - key present with an equal value: nothing happens
//   - key present with a different value: a RowMismatch is reported and the
//     stored row is left untouched
//
// The store's first-seen value is authoritative for what is persisted, but a
// mismatch report does not claim which side is wrong. Running the same source
// again after a successful pass produces no findings.
package reconcile

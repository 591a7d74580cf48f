// Package store holds the parsed controller documents.
//
// Documents fall in two groups:
//   - static: devices, rooms, functions (and rssi), fetched once by Load
//   - volatile: states and sysvars, replaced on every Refresh
//
// All six live in an immutable Snapshot published through an atomic pointer.
// Readers take one Snapshot per polling cycle and see a consistent view for
// the whole cycle even while a refresh is publishing the next one.
//
// A failed refresh never clears a document: the previous Snapshot stays
// current and callers treat its data as stale but usable.
package store

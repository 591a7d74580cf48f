// Package poll runs the exporter's refresh cycle.
//
// State machine:
//
//	Init ──(failure)──> FatalAbort
//	  │
//	  v
//	Refreshing -> Resolving & Emitting -> Sleeping -> Refreshing ...
//
// Init loads every document once and fixes the channel and system variable
// work lists. Each cycle then refreshes the state and sysvar documents. If
// either refresh fails the cycle emits nothing: the series keep their last
// values and the next cycle tries again. Otherwise every channel's
// datapoints and every system variable are resolved, classified and
// published.
//
// Failures are handled at the smallest scope:
//   - a refresh failure skips emission for one cycle
//   - an unclassifiable datapoint value drops that datapoint only
//   - an error or panic while processing one entity is logged and counted
//
// Only Init can fail the process. The loop stops when its context is
// cancelled.
package poll

// Package store is the data access layer: it translates domain
// objects to and from relational rows and sequences every mutation
// through the serial write queue.
//
// Error taxonomy, preserved deliberately because callers branch on it:
//
//   - not found        → nil value, never an error (read paths)
//   - storage failure  → reads return the error to the caller; writes
//     log it and resolve to a non-applied Result / nil value. Writes
//     never propagate errors past this boundary.
package store

// Result reports the outcome of a queued write. Failures are already
// logged by the time a Result is returned; Err is carried so tests and
// callers can inspect what went wrong without the write path ever
// "throwing".
type Result struct {
	// Applied is true when the write changed at least one row.
	Applied bool
	// Message is an optional human-readable detail, e.g. "no changes
	// made" for an empty patch.
	Message string
	// Err is the underlying storage error, if any.
	Err error
}

func applied() Result {
	return Result{Applied: true}
}

func notApplied(msg string) Result {
	return Result{Message: msg}
}

func failed(msg string, err error) Result {
	return Result{Message: msg, Err: err}
}

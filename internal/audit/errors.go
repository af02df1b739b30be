package audit

import "fmt"

// PersistenceFailure wraps an audit store error. It never escapes the
// Logger: reads degrade to empty history and writes are logged
// diagnostically, so a store outage cannot fail a formatting run.
type PersistenceFailure struct {
	Op  string
	Key string
	Err error
}

func (e *PersistenceFailure) Error() string {
	return fmt.Sprintf("audit store %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *PersistenceFailure) Unwrap() error { return e.Err }

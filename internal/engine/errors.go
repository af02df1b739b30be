package engine

import "fmt"

// ReadFailure means the document access context could not satisfy a read
// batch. No side effects have occurred; the run is fully recoverable.
type ReadFailure struct {
	Err error
}

func (e *ReadFailure) Error() string { return fmt.Sprintf("document read failed: %v", e.Err) }
func (e *ReadFailure) Unwrap() error { return e.Err }

// ConfigurationFailure means the run options were rejected before any
// document access happened.
type ConfigurationFailure struct {
	Reason string
}

func (e *ConfigurationFailure) Error() string {
	return fmt.Sprintf("invalid configuration: %s", e.Reason)
}

// ApplyFailure means one change's application failed. Already-applied
// changes remain in effect; the remaining approved changes were abandoned.
type ApplyFailure struct {
	ChangeID string
	Applied  int
	Total    int
	Err      error
}

func (e *ApplyFailure) Error() string {
	return fmt.Sprintf("%d of %d changes applied; change %s failed: %v; not fully reverted",
		e.Applied, e.Total, e.ChangeID, e.Err)
}

func (e *ApplyFailure) Unwrap() error { return e.Err }

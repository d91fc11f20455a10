package services

import "fmt"

// PartialWriteError reports a multi-row batch that failed partway. Rows
// inserted before the failure stay in the store; the operation is a
// best-effort batch, not a transaction.
type PartialWriteError struct {
	Op       string // operation name, e.g. "carry-over"
	Kind     string // row kind being written when the batch failed
	Inserted int    // rows committed before the failure
	Err      error
}

func (e *PartialWriteError) Error() string {
	return fmt.Sprintf("%s: %s insert failed after %d rows: %v", e.Op, e.Kind, e.Inserted, e.Err)
}

func (e *PartialWriteError) Unwrap() error { return e.Err }

package migration

import "fmt"

// ConflictError aborts a migration before anything is written.
type ConflictError struct {
	OldID  string
	NewID  string
	Reason string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("section mapping %q -> %q: %s", e.OldID, e.NewID, e.Reason)
}

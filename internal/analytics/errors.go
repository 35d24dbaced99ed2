package analytics

import (
	"errors"
	"fmt"
)

// ErrSuperseded reports that the filter changed while a pipeline run was in
// flight; the stale run's output must be discarded, not surfaced.
var ErrSuperseded = errors.New("filter revision superseded")

// ValidationError rejects malformed filter input before any network call.
type ValidationError struct {
	Field   string
	Message string
}

func (err *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", err.Field, err.Message)
}

// FetchError wraps a failed batch fetch. The cache is left untouched when
// one occurs.
type FetchError struct {
	Op  string
	Err error
}

func (err *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", err.Op, err.Err)
}

func (err *FetchError) Unwrap() error {
	return err.Err
}

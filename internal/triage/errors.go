package triage

import (
	"errors"
	"fmt"
)

// ErrCategoryNotFound is returned when the configured discussion category
// does not exist in the repository.
var ErrCategoryNotFound = errors.New("discussion category not found")

// FetchError reports a failed listing call against the backend.
type FetchError struct {
	// Resource is what was being listed, e.g. "issues" or "comments"
	Resource string

	// Issue is the issue number for per-issue listings, 0 otherwise
	Issue int

	Err error
}

func (e *FetchError) Error() string {
	if e.Issue != 0 {
		return fmt.Sprintf("failed to fetch %s for issue #%d: %v", e.Resource, e.Issue, e.Err)
	}
	return fmt.Sprintf("failed to fetch %s: %v", e.Resource, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// MutationError reports a failed comment, label, state or discussion call.
type MutationError struct {
	Op    string
	Issue int
	Err   error
}

func (e *MutationError) Error() string {
	return fmt.Sprintf("%s on issue #%d failed: %v", e.Op, e.Issue, e.Err)
}

func (e *MutationError) Unwrap() error { return e.Err }

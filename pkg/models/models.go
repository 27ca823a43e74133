// Package models defines data structures shared across the application.
package models

import (
	"strings"
	"time"
)

// IssueState is the open/closed state of an issue in the tracker.
type IssueState string

const (
	StateOpen   IssueState = "open"
	StateClosed IssueState = "closed"
)

// Issue is a read-only snapshot of a tracker issue for one evaluation pass.
type Issue struct {
	// Number is the issue number in the tracker (e.g., 42)
	Number int

	// Title is the issue's title or summary
	Title string

	// Body is the full description text of the issue
	Body string

	// Author is the login of the user who opened the issue
	Author string

	// Labels is a slice of label names attached to the issue
	Labels []string

	// Assignees holds the logins of assigned users; empty means unassigned
	Assignees []string

	// UpdatedAt is the timestamp when the issue was last updated
	UpdatedAt time.Time

	// IsPullRequest is true when the tracker returned a pull request
	IsPullRequest bool

	// HTMLURL is the browser link to the issue
	HTMLURL string
}

// HasLabel reports whether the issue carries the label, ignoring case.
func (i Issue) HasLabel(name string) bool {
	for _, label := range i.Labels {
		if strings.EqualFold(label, name) {
			return true
		}
	}
	return false
}

// HasAnyLabel reports whether the issue carries at least one of the given labels.
func (i Issue) HasAnyLabel(names []string) bool {
	for _, name := range names {
		if i.HasLabel(name) {
			return true
		}
	}
	return false
}

// IsAssigned reports whether anyone is assigned to the issue.
func (i Issue) IsAssigned() bool {
	return len(i.Assignees) > 0
}

// Comment is a single comment belonging to an issue.
type Comment struct {
	ID        int64
	Author    string
	Body      string
	CreatedAt time.Time
}

// DiscussionCategory is a named discussion category of a repository.
type DiscussionCategory struct {
	ID   string
	Name string
}

// Discussion is a created discussion thread.
type Discussion struct {
	URL string
}

// Page is one page of a paginated listing.
type Page[T any] struct {
	Items []T

	// IsLast is set when the backend knows no further page exists
	IsLast bool
}

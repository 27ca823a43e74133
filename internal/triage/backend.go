// Package triage implements the backlog triage policy: it fetches open issues,
// classifies each one into a single action, applies the action against the
// issue tracker and reports what was done.
package triage

import (
	"context"

	"github.com/danielolaszy/backlog/pkg/models"
)

// Backend is the issue tracker capability surface the triage run consumes.
// internal/github provides the GitHub implementation.
type Backend interface {
	ListOpenIssues(ctx context.Context, page, perPage int) (models.Page[models.Issue], error)
	ListComments(ctx context.Context, issue, page, perPage int) (models.Page[models.Comment], error)
	CreateComment(ctx context.Context, issue int, body string) error
	SetIssueState(ctx context.Context, issue int, state models.IssueState) error
	AddLabels(ctx context.Context, issue int, labels ...string) error
	ListDiscussionCategories(ctx context.Context) ([]models.DiscussionCategory, error)
	CreateDiscussion(ctx context.Context, title, body, categoryID string) (models.Discussion, error)
}

package triage

import (
	"context"

	"github.com/danielolaszy/backlog/pkg/models"
)

// FetchOpenIssues retrieves every open issue, dropping pull requests.
// A failure on any page aborts the fetch with a *FetchError; a partial
// snapshot is never returned.
func FetchOpenIssues(ctx context.Context, backend Backend, pageSize int) ([]models.Issue, error) {
	var issues []models.Issue
	for issue, err := range Paginate(ctx, pageSize, backend.ListOpenIssues) {
		if err != nil {
			return nil, &FetchError{Resource: "issues", Err: err}
		}
		if issue.IsPullRequest {
			continue
		}
		issues = append(issues, issue)
	}
	return issues, nil
}

package triage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/danielolaszy/backlog/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func numberedIssues(n int) []models.Issue {
	issues := make([]models.Issue, n)
	for i := range issues {
		issues[i] = models.Issue{Number: i + 1}
	}
	return issues
}

func TestPaginateTermination(t *testing.T) {
	testCases := []struct {
		name          string
		items         int
		perPage       int
		expectedPages []int
	}{
		{name: "Short first page", items: 3, perPage: 5, expectedPages: []int{1}},
		{name: "Empty listing", items: 0, perPage: 5, expectedPages: []int{1}},
		{name: "Short last page", items: 7, perPage: 5, expectedPages: []int{1, 2}},
		{name: "Exact multiple stops on last flag", items: 10, perPage: 5, expectedPages: []int{1, 2}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var pages []int
			items := numberedIssues(tc.items)
			fetch := func(ctx context.Context, page, perPage int) (models.Page[models.Issue], error) {
				pages = append(pages, page)
				return pageOf(items, page, perPage), nil
			}

			var got []int
			for issue, err := range Paginate(context.Background(), tc.perPage, fetch) {
				require.NoError(t, err)
				got = append(got, issue.Number)
			}

			assert.Equal(t, tc.expectedPages, pages)
			assert.Len(t, got, tc.items)
		})
	}
}

func TestPaginateStopsOnEmptyPageWithoutLastFlag(t *testing.T) {
	var pages []int
	fetch := func(ctx context.Context, page, perPage int) (models.Page[models.Issue], error) {
		pages = append(pages, page)
		if page == 1 {
			return models.Page[models.Issue]{Items: numberedIssues(2)}, nil
		}
		return models.Page[models.Issue]{}, nil
	}

	count := 0
	for _, err := range Paginate(context.Background(), 2, fetch) {
		require.NoError(t, err)
		count++
	}

	assert.Equal(t, 2, count)
	assert.Equal(t, []int{1, 2}, pages)
}

func TestPaginateEarlyBreakStopsFetching(t *testing.T) {
	var pages []int
	fetch := func(ctx context.Context, page, perPage int) (models.Page[models.Issue], error) {
		pages = append(pages, page)
		return models.Page[models.Issue]{Items: numberedIssues(perPage)}, nil
	}

	seen := 0
	for _, err := range Paginate(context.Background(), 3, fetch) {
		require.NoError(t, err)
		seen++
		if seen == 2 {
			break
		}
	}

	assert.Equal(t, []int{1}, pages)
}

func TestPaginateYieldsErrorOnce(t *testing.T) {
	fetch := func(ctx context.Context, page, perPage int) (models.Page[models.Issue], error) {
		if page == 2 {
			return models.Page[models.Issue]{}, errBackend
		}
		return models.Page[models.Issue]{Items: numberedIssues(perPage)}, nil
	}

	var items, errs int
	for _, err := range Paginate(context.Background(), 2, fetch) {
		if err != nil {
			errs++
			assert.ErrorIs(t, err, errBackend)
			assert.Contains(t, err.Error(), "page 2")
			continue
		}
		items++
	}

	assert.Equal(t, 2, items)
	assert.Equal(t, 1, errs)
}

func TestFetchOpenIssuesFiltersPullRequests(t *testing.T) {
	now := time.Now()
	backend := newFakeBackend(now,
		models.Issue{Number: 1},
		models.Issue{Number: 2, IsPullRequest: true},
		models.Issue{Number: 3},
	)

	issues, err := FetchOpenIssues(context.Background(), backend, 100)
	require.NoError(t, err)

	var numbers []int
	for _, issue := range issues {
		assert.False(t, issue.IsPullRequest)
		numbers = append(numbers, issue.Number)
	}
	assert.Equal(t, []int{1, 3}, numbers)
}

func TestFetchOpenIssuesPullRequestsCountTowardsPageSize(t *testing.T) {
	// A full page of which one item is a PR must still lead to the next page.
	backend := newFakeBackend(time.Now(),
		models.Issue{Number: 1},
		models.Issue{Number: 2, IsPullRequest: true},
		models.Issue{Number: 3},
	)

	issues, err := FetchOpenIssues(context.Background(), backend, 2)
	require.NoError(t, err)
	assert.Len(t, issues, 2)
	assert.Equal(t, []int{1, 2}, backend.issuePagesRequested)
}

func TestFetchOpenIssuesPageFailureAborts(t *testing.T) {
	backend := newFakeBackend(time.Now(), numberedIssues(5)...)
	backend.listIssuesErr = func(page int) error {
		if page == 2 {
			return errBackend
		}
		return nil
	}

	issues, err := FetchOpenIssues(context.Background(), backend, 2)
	assert.Nil(t, issues)

	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, "issues", fetchErr.Resource)
	assert.ErrorIs(t, err, errBackend)
}

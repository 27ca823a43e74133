package triage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/danielolaszy/backlog/pkg/models"
)

const testBot = "github-actions[bot]"

// fakeBackend is an in-memory Backend that records every call.
type fakeBackend struct {
	issues     []models.Issue
	comments   map[int][]models.Comment
	categories []models.DiscussionCategory
	now        func() time.Time

	// error injection
	listIssuesErr    func(page int) error
	listCommentsErr  func(issue int) error
	createCommentErr func(issue int) error
	setStateErr      func(issue int) error
	addLabelsErr     func(issue int) error
	createDiscErr    error
	listCatErr       error

	issuePagesRequested []int
	createdComments     map[int][]string
	stateChanges        map[int][]models.IssueState
	addedLabels         map[int][]string
	discussions         []string
	categoryListings    int
}

func newFakeBackend(now time.Time, issues ...models.Issue) *fakeBackend {
	return &fakeBackend{
		issues:          issues,
		comments:        make(map[int][]models.Comment),
		now:             func() time.Time { return now },
		createdComments: make(map[int][]string),
		stateChanges:    make(map[int][]models.IssueState),
		addedLabels:     make(map[int][]string),
	}
}

func pageOf[T any](items []T, page, perPage int) models.Page[T] {
	start := (page - 1) * perPage
	if start >= len(items) {
		return models.Page[T]{IsLast: true}
	}
	end := start + perPage
	if end > len(items) {
		end = len(items)
	}
	return models.Page[T]{Items: items[start:end], IsLast: end == len(items)}
}

func (f *fakeBackend) ListOpenIssues(ctx context.Context, page, perPage int) (models.Page[models.Issue], error) {
	f.issuePagesRequested = append(f.issuePagesRequested, page)
	if f.listIssuesErr != nil {
		if err := f.listIssuesErr(page); err != nil {
			return models.Page[models.Issue]{}, err
		}
	}
	return pageOf(f.issues, page, perPage), nil
}

func (f *fakeBackend) ListComments(ctx context.Context, issue, page, perPage int) (models.Page[models.Comment], error) {
	if f.listCommentsErr != nil {
		if err := f.listCommentsErr(issue); err != nil {
			return models.Page[models.Comment]{}, err
		}
	}
	return pageOf(f.comments[issue], page, perPage), nil
}

func (f *fakeBackend) CreateComment(ctx context.Context, issue int, body string) error {
	if f.createCommentErr != nil {
		if err := f.createCommentErr(issue); err != nil {
			return err
		}
	}
	f.createdComments[issue] = append(f.createdComments[issue], body)
	f.comments[issue] = append(f.comments[issue], models.Comment{
		ID:        int64(len(f.comments[issue]) + 1),
		Author:    testBot,
		Body:      body,
		CreatedAt: f.now(),
	})
	return nil
}

func (f *fakeBackend) SetIssueState(ctx context.Context, issue int, state models.IssueState) error {
	if f.setStateErr != nil {
		if err := f.setStateErr(issue); err != nil {
			return err
		}
	}
	f.stateChanges[issue] = append(f.stateChanges[issue], state)
	return nil
}

func (f *fakeBackend) AddLabels(ctx context.Context, issue int, labels ...string) error {
	if f.addLabelsErr != nil {
		if err := f.addLabelsErr(issue); err != nil {
			return err
		}
	}
	f.addedLabels[issue] = append(f.addedLabels[issue], labels...)
	return nil
}

func (f *fakeBackend) ListDiscussionCategories(ctx context.Context) ([]models.DiscussionCategory, error) {
	f.categoryListings++
	if f.listCatErr != nil {
		return nil, f.listCatErr
	}
	return f.categories, nil
}

func (f *fakeBackend) CreateDiscussion(ctx context.Context, title, body, categoryID string) (models.Discussion, error) {
	if f.createDiscErr != nil {
		return models.Discussion{}, f.createDiscErr
	}
	f.discussions = append(f.discussions, title)
	return models.Discussion{URL: fmt.Sprintf("https://github.com/o/r/discussions/%d", len(f.discussions))}, nil
}

// mutations counts every mutating call that reached the backend.
func (f *fakeBackend) mutations() int {
	n := len(f.discussions)
	for _, c := range f.createdComments {
		n += len(c)
	}
	for _, s := range f.stateChanges {
		n += len(s)
	}
	for _, l := range f.addedLabels {
		n += len(l)
	}
	return n
}

var errBackend = errors.New("backend unavailable")

// historyFunc adapts a function to ReminderHistory.
type historyFunc func(ctx context.Context, issue int, now time.Time) (bool, error)

func (h historyFunc) HasRecentAutomatedComment(ctx context.Context, issue int, now time.Time) (bool, error) {
	return h(ctx, issue, now)
}

func noHistory() ReminderHistory {
	return historyFunc(func(context.Context, int, time.Time) (bool, error) { return false, nil })
}

func daysAgo(now time.Time, days int) time.Time {
	return now.Add(-time.Duration(days) * 24 * time.Hour)
}

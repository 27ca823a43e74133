package github

import (
	"context"
	"fmt"

	"github.com/danielolaszy/backlog/internal/logging"
	"github.com/danielolaszy/backlog/pkg/models"
	"github.com/shurcooL/githubv4"
)

// Discussions are only exposed through the GraphQL API.

type categoriesQuery struct {
	Repository struct {
		ID                   string
		DiscussionCategories struct {
			Nodes []struct {
				ID   string
				Name string
			}
		} `graphql:"discussionCategories(first: 100)"`
	} `graphql:"repository(owner: $owner, name: $name)"`
}

type createDiscussionMutation struct {
	CreateDiscussion struct {
		Discussion struct {
			URL string
		}
	} `graphql:"createDiscussion(input: $input)"`
}

// ListDiscussionCategories returns the discussion categories of the repository.
// It also caches the repository node ID needed to create discussions.
func (c *Client) ListDiscussionCategories(ctx context.Context) ([]models.DiscussionCategory, error) {
	var q categoriesQuery
	vars := map[string]any{
		"owner": githubv4.String(c.owner),
		"name":  githubv4.String(c.repo),
	}
	if err := c.v4.Query(ctx, &q, vars); err != nil {
		return nil, fmt.Errorf("failed to list discussion categories for %s/%s: %w", c.owner, c.repo, err)
	}
	if q.Repository.ID == "" {
		return nil, fmt.Errorf("repository %s/%s not found", c.owner, c.repo)
	}

	c.repoID = q.Repository.ID

	categories := make([]models.DiscussionCategory, 0, len(q.Repository.DiscussionCategories.Nodes))
	for _, node := range q.Repository.DiscussionCategories.Nodes {
		categories = append(categories, models.DiscussionCategory{ID: node.ID, Name: node.Name})
	}

	logging.Debug("listed discussion categories", "count", len(categories))
	return categories, nil
}

// CreateDiscussion opens a discussion in the given category.
func (c *Client) CreateDiscussion(ctx context.Context, title, body, categoryID string) (models.Discussion, error) {
	if c.repoID == "" {
		if _, err := c.ListDiscussionCategories(ctx); err != nil {
			return models.Discussion{}, err
		}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return models.Discussion{}, err
	}

	var m createDiscussionMutation
	input := githubv4.CreateDiscussionInput{
		RepositoryID: githubv4.ID(c.repoID),
		CategoryID:   githubv4.ID(categoryID),
		Title:        githubv4.String(title),
		Body:         githubv4.String(body),
	}
	if err := c.v4.Mutate(ctx, &m, input, nil); err != nil {
		return models.Discussion{}, fmt.Errorf("failed to create discussion %q: %w", title, err)
	}

	url := m.CreateDiscussion.Discussion.URL
	logging.Debug("created discussion", "url", url)
	return models.Discussion{URL: url}, nil
}

// Package github provides functionality for interacting with the GitHub API.
package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/danielolaszy/backlog/internal/config"
	"github.com/danielolaszy/backlog/internal/logging"
	"github.com/danielolaszy/backlog/internal/triage"
	"github.com/danielolaszy/backlog/pkg/models"
	"github.com/google/go-github/v41/github"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

// Client encapsulates the GitHub API client for a single repository.
type Client struct {
	client *github.Client
	v4     *githubv4.Client
	owner  string
	repo   string

	// limiter paces mutating calls to stay clear of secondary rate limits
	limiter *rate.Limiter

	// repoID is the GraphQL node ID, resolved on first use
	repoID string
}

var _ triage.Backend = (*Client)(nil)

// APIURLs returns the REST and GraphQL endpoints for a GitHub domain.
// An empty domain means github.com.
func APIURLs(domain string) (restURL, graphqlURL string) {
	if domain == "" || domain == "github.com" {
		return "https://api.github.com/", "https://api.github.com/graphql"
	}
	return fmt.Sprintf("https://%s/api/v3/", domain), fmt.Sprintf("https://%s/api/graphql", domain)
}

// ParseRepository splits "owner/repo" into its parts.
func ParseRepository(repository string) (owner, repo string, err error) {
	parts := strings.Split(repository, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repository format: %s, expected format: owner/repo", repository)
	}
	return parts[0], parts[1], nil
}

// NewClient creates a GitHub client for repository ("owner/repo") authenticated
// with the configured token.
func NewClient(cfg config.GitHubConfig, repository string) (*Client, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("github token not found in configuration")
	}

	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: cfg.Token},
	)
	tc := oauth2.NewClient(context.Background(), ts)

	limit := rate.Inf
	if cfg.MutationsPerSecond > 0 {
		limit = rate.Limit(cfg.MutationsPerSecond)
	}

	restURL, graphqlURL := APIURLs(cfg.Domain)
	logging.Info("github configuration",
		"domain", cfg.Domain,
		"api_url", restURL,
		"repository", repository,
		"token", logging.MaskSensitive(cfg.Token))

	return newClient(tc, restURL, graphqlURL, repository, rate.NewLimiter(limit, 1))
}

func newClient(httpClient *http.Client, restURL, graphqlURL, repository string, limiter *rate.Limiter) (*Client, error) {
	owner, repo, err := ParseRepository(repository)
	if err != nil {
		return nil, err
	}

	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	client := github.NewClient(httpClient)
	if restURL != "https://api.github.com/" {
		parsedURL, err := url.Parse(restURL)
		if err != nil {
			return nil, fmt.Errorf("invalid github api url: %w", err)
		}
		// For GitHub Enterprise, set the upload URL to the same endpoint
		client.BaseURL = parsedURL
		client.UploadURL = parsedURL
	}

	return &Client{
		client:  client,
		v4:      githubv4.NewEnterpriseClient(graphqlURL, httpClient),
		owner:   owner,
		repo:    repo,
		limiter: limiter,
	}, nil
}

// AuthenticatedLogin returns the login of the user behind the token. Installation
// tokens such as the Actions GITHUB_TOKEN are not users and get an error.
func (c *Client) AuthenticatedLogin(ctx context.Context) (string, error) {
	user, _, err := c.client.Users.Get(ctx, "")
	if err != nil {
		return "", fmt.Errorf("failed to fetch authenticated user: %w", err)
	}
	return user.GetLogin(), nil
}

// ListOpenIssues returns one page of open issues. Pull requests are included
// and flagged; filtering them is left to the caller so page sizes stay intact.
func (c *Client) ListOpenIssues(ctx context.Context, page, perPage int) (models.Page[models.Issue], error) {
	opts := &github.IssueListByRepoOptions{
		State: "open",
		ListOptions: github.ListOptions{
			Page:    page,
			PerPage: perPage,
		},
	}

	issues, resp, err := c.client.Issues.ListByRepo(ctx, c.owner, c.repo, opts)
	if err != nil {
		logging.Error("failed to fetch github issues", "page", page, "error", err)
		return models.Page[models.Issue]{}, fmt.Errorf("failed to fetch GitHub issues: %w", err)
	}

	result := models.Page[models.Issue]{
		Items:  make([]models.Issue, 0, len(issues)),
		IsLast: resp.NextPage == 0,
	}
	for _, issue := range issues {
		result.Items = append(result.Items, toIssue(issue))
	}

	logging.Debug("fetched issue page", "page", page, "count", len(result.Items), "last", result.IsLast)
	return result, nil
}

func toIssue(issue *github.Issue) models.Issue {
	labels := make([]string, 0, len(issue.Labels))
	for _, label := range issue.Labels {
		labels = append(labels, label.GetName())
	}

	assignees := make([]string, 0, len(issue.Assignees))
	for _, user := range issue.Assignees {
		assignees = append(assignees, user.GetLogin())
	}

	return models.Issue{
		Number:        issue.GetNumber(),
		Title:         issue.GetTitle(),
		Body:          issue.GetBody(),
		Author:        issue.GetUser().GetLogin(),
		Labels:        labels,
		Assignees:     assignees,
		UpdatedAt:     issue.GetUpdatedAt(),
		IsPullRequest: issue.IsPullRequest(),
		HTMLURL:       issue.GetHTMLURL(),
	}
}

// ListComments returns one page of comments on an issue, oldest first.
func (c *Client) ListComments(ctx context.Context, issueNumber, page, perPage int) (models.Page[models.Comment], error) {
	opts := &github.IssueListCommentsOptions{
		ListOptions: github.ListOptions{
			Page:    page,
			PerPage: perPage,
		},
	}

	comments, resp, err := c.client.Issues.ListComments(ctx, c.owner, c.repo, issueNumber, opts)
	if err != nil {
		return models.Page[models.Comment]{}, fmt.Errorf("failed to list comments for issue %s#%d: %w", c.repo, issueNumber, err)
	}

	result := models.Page[models.Comment]{
		Items:  make([]models.Comment, 0, len(comments)),
		IsLast: resp.NextPage == 0,
	}
	for _, comment := range comments {
		result.Items = append(result.Items, models.Comment{
			ID:        comment.GetID(),
			Author:    comment.GetUser().GetLogin(),
			Body:      comment.GetBody(),
			CreatedAt: comment.GetCreatedAt(),
		})
	}
	return result, nil
}

// CreateComment posts a comment on an issue.
func (c *Client) CreateComment(ctx context.Context, issueNumber int, body string) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	_, _, err := c.client.Issues.CreateComment(ctx, c.owner, c.repo, issueNumber, &github.IssueComment{
		Body: github.String(body),
	})
	if err != nil {
		return fmt.Errorf("failed to comment on issue %s#%d: %w", c.repo, issueNumber, err)
	}

	logging.Debug("created comment", "issue_number", issueNumber)
	return nil
}

// SetIssueState opens or closes an issue.
func (c *Client) SetIssueState(ctx context.Context, issueNumber int, state models.IssueState) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	_, _, err := c.client.Issues.Edit(ctx, c.owner, c.repo, issueNumber, &github.IssueRequest{
		State: github.String(string(state)),
	})
	if err != nil {
		return fmt.Errorf("failed to set state of issue %s#%d to %s: %w", c.repo, issueNumber, state, err)
	}

	logging.Debug("updated issue state", "issue_number", issueNumber, "state", state)
	return nil
}

// AddLabels adds one or more labels to a GitHub issue. If the labels don't exist
// in the repository, GitHub will automatically create them.
func (c *Client) AddLabels(ctx context.Context, issueNumber int, labels ...string) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	logging.Debug("adding labels", "labels", labels, "issue_number", issueNumber)

	_, _, err := c.client.Issues.AddLabelsToIssue(ctx, c.owner, c.repo, issueNumber, labels)
	if err != nil {
		return fmt.Errorf("failed to add labels to issue %s#%d: %w", c.repo, issueNumber, err)
	}
	return nil
}

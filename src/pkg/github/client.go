package github

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/go-github/v66/github"
	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"

	"github.com/migops/upgrade-report/src/pkg/config"
	"github.com/migops/upgrade-report/src/pkg/template"
)

var logger = log.WithField("package", "github")

const GH_COMMENT_MARKER = template.ToolCommentSignature

// GitHubClient defines the interface for GitHub API operations
type GitHubClient interface {
	// GetPR retrieves pull request information
	GetPR(ctx context.Context, repo string, number int) (*config.PullRequest, error)
	// CreateComment creates a new comment on a pull request
	CreateComment(ctx context.Context, repo string, number int, body string) (*config.Comment, error)
	// UpdateComment updates an existing comment
	UpdateComment(ctx context.Context, repo string, commentID int64, body string) error
	// GetComments retrieves all comments for a pull request
	GetComments(ctx context.Context, repo string, number int) ([]*config.Comment, error)
	// FindToolComment finds an existing tool-generated comment
	FindToolComment(ctx context.Context, repo string, prNumber int) (*config.Comment, error)
}

// Client handles GitHub API interactions using go-github
type Client struct {
	client *github.Client
}

// Ensure Client implements GitHubClient
var _ GitHubClient = (*Client)(nil)

// NewClient creates a new GitHub client
func NewClient() (*Client, error) {
	token := os.Getenv("GH_TOKEN")
	if token == "" {
		token = os.Getenv("GITHUB_TOKEN")
	}
	if token == "" {
		return nil, fmt.Errorf("GitHub token not found. Set GH_TOKEN or GITHUB_TOKEN environment variable")
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(context.Background(), ts)
	client := github.NewClient(tc)

	return &Client{
		client: client,
	}, nil
}

// GetPR retrieves pull request information
func (c *Client) GetPR(ctx context.Context, repo string, number int) (*config.PullRequest, error) {
	owner, repo, err := ParseOwnerRepo(repo)
	if err != nil {
		return nil, fmt.Errorf("failed to parse repository: %w", err)
	}
	pr, _, err := c.client.PullRequests.Get(ctx, owner, repo, number)
	if err != nil {
		return nil, fmt.Errorf("failed to get PR: %w", err)
	}

	return &config.PullRequest{
		Number:  pr.GetNumber(),
		BaseRef: pr.GetBase().GetRef(),
		BaseSHA: pr.GetBase().GetSHA(),
		HeadRef: pr.GetHead().GetRef(),
		HeadSHA: pr.GetHead().GetSHA(),
	}, nil
}

// CreateComment creates a new comment on a pull request
func (c *Client) CreateComment(ctx context.Context, repo string, number int, body string) (*config.Comment, error) {
	owner, repo, err := ParseOwnerRepo(repo)
	if err != nil {
		return nil, fmt.Errorf("failed to parse repository: %w", err)
	}
	comment := &github.IssueComment{
		Body: github.String(body),
	}

	created, _, err := c.client.Issues.CreateComment(ctx, owner, repo, number, comment)
	if err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	return &config.Comment{
		ID:   created.GetID(),
		Body: created.GetBody(),
	}, nil
}

// UpdateComment updates an existing comment
func (c *Client) UpdateComment(ctx context.Context, repo string, commentID int64, body string) error {
	owner, repo, err := ParseOwnerRepo(repo)
	if err != nil {
		return fmt.Errorf("failed to parse repository: %w", err)
	}
	comment := &github.IssueComment{
		Body: github.String(body),
	}

	updated, res, err := c.client.Issues.EditComment(ctx, owner, repo, commentID, comment)
	logger.WithField("comment", updated).WithField("response", res).Debug("Updated comment")
	if err != nil {
		return fmt.Errorf("failed to update comment: %w", err)
	}

	return nil
}

// GetComments retrieves all comments for a pull request
func (c *Client) GetComments(ctx context.Context, repo string, prNumber int) ([]*config.Comment, error) {
	owner, repo, err := ParseOwnerRepo(repo)
	if err != nil {
		return nil, fmt.Errorf("failed to parse repository: %w", err)
	}
	opts := &github.IssueListCommentsOptions{
		ListOptions: github.ListOptions{PerPage: 100},
	}

	var allComments []*config.Comment
	for {
		comments, resp, err := c.client.Issues.ListComments(ctx, owner, repo, prNumber, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to get comments: %w", err)
		}

		for _, comment := range comments {
			allComments = append(allComments, &config.Comment{
				ID:   comment.GetID(),
				Body: comment.GetBody(),
			})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return allComments, nil
}

// FindToolComment finds an existing tool-generated comment by its marker
func (c *Client) FindToolComment(ctx context.Context, repo string, prNumber int) (*config.Comment, error) {
	comments, err := c.GetComments(ctx, repo, prNumber)
	if err != nil {
		return nil, err
	}

	for _, comment := range comments {
		if strings.Contains(comment.Body, GH_COMMENT_MARKER) {
			return comment, nil
		}
	}

	return nil, nil // not found
}

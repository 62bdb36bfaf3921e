package runner

import (
	"context"
	"fmt"
	"strings"

	"github.com/migops/upgrade-report/src/pkg/config"
	"github.com/migops/upgrade-report/src/pkg/github"
	"github.com/migops/upgrade-report/src/pkg/hooks"
	"github.com/migops/upgrade-report/src/pkg/policy"
	"github.com/migops/upgrade-report/src/pkg/template"
)

type RunnerGitHub struct {
	RunnerBase

	ghclient github.GitHubClient

	prInfo   *config.PullRequest
	comments []*config.Comment
}

// make RunnerGitHub implement RunnerInterface
var _ RunnerInterface = (*RunnerGitHub)(nil)

func NewRunnerGitHub(
	ctx context.Context,
	options *Options,
	hookRunner *hooks.Runner,
	evaluator *policy.Evaluator,
	reporter *policy.Reporter,
	renderer *template.Renderer,
	ghclient github.GitHubClient,
) (*RunnerGitHub, error) {
	if ghclient == nil {
		return nil, fmt.Errorf("GitHub client is not initialized")
	}
	baseRunner, err := NewRunnerBase(ctx, options, hookRunner, evaluator, reporter, renderer)
	if err != nil {
		return nil, err
	}
	runner := &RunnerGitHub{
		RunnerBase: *baseRunner,
		ghclient:   ghclient,
	}
	runner.Instance = runner
	return runner, nil
}

func (c *RunnerGitHub) Initialize() error {
	if err := c.RunnerBase.Initialize(); err != nil {
		return err
	}
	if err := c.fetchAndSetPullRequestInfo(); err != nil {
		return fmt.Errorf("failed to fetch pull request info: %w", err)
	}
	return nil
}

// Comments returns the PR comments fetched during initialization
func (c *RunnerGitHub) Comments() []*config.Comment {
	return c.comments
}

// PullRequest returns the PR info fetched during initialization
func (c *RunnerGitHub) PullRequest() *config.PullRequest {
	return c.prInfo
}

// Fetch and set pull request data into struct from GitHub
func (c *RunnerGitHub) fetchAndSetPullRequestInfo() error {
	// Create channels for parallel execution
	type prResult struct {
		pr  *config.PullRequest
		err error
	}
	type commentsResult struct {
		comments []*config.Comment
		err      error
	}

	prChan := make(chan prResult, 1)
	commentsChan := make(chan commentsResult, 1)

	// Fetch PR info in parallel
	go func() {
		pr, err := c.ghclient.GetPR(c.Context, c.Options.GhRepo, c.Options.GhPrNumber)
		prChan <- prResult{pr: pr, err: err}
	}()

	// Fetch comments in parallel
	go func() {
		comments, err := c.ghclient.GetComments(c.Context, c.Options.GhRepo, c.Options.GhPrNumber)
		commentsChan <- commentsResult{comments: comments, err: err}
	}()

	// Wait for both results
	select {
	case prRes := <-prChan:
		if prRes.err != nil {
			return fmt.Errorf("failed to get PR info: %w", prRes.err)
		}
		c.prInfo = prRes.pr
	case <-c.Context.Done():
		return fmt.Errorf("PR fetch cancelled: %w", c.Context.Err())
	}

	select {
	case commentsRes := <-commentsChan:
		if commentsRes.err != nil {
			return fmt.Errorf("failed to get PR comments: %w", commentsRes.err)
		}
		c.comments = commentsRes.comments
	case <-c.Context.Done():
		return fmt.Errorf("comments fetch cancelled: %w", c.Context.Err())
	}

	return nil
}

// Output creates or updates the tool comment on the pull request. The report
// json export still goes to the output directory when enabled.
func (c *RunnerGitHub) Output(rendered string, data *config.CheckReportData) error {
	logger.Info("Output: posting results to GitHub PR...")

	if n := countMarkedComments(c.comments); n > 1 {
		logger.WithField("count", n).Warn("Found multiple comments with the tool marker, will update the first one")
	}

	existingComment, err := c.ghclient.FindToolComment(c.Context, c.Options.GhRepo, c.Options.GhPrNumber)
	if err != nil {
		logger.WithField("error", err).Warn("Failed to search for existing comment, will create a new one")
	}

	if existingComment != nil {
		logger.WithField("commentID", existingComment.ID).Info("Found existing comment, updating")
		if err := c.ghclient.UpdateComment(c.Context, c.Options.GhRepo, existingComment.ID, rendered); err != nil {
			return fmt.Errorf("failed to update comment: %w", err)
		}
	} else {
		logger.Info("No existing comment found, creating new comment")
		newComment, err := c.ghclient.CreateComment(c.Context, c.Options.GhRepo, c.Options.GhPrNumber, rendered)
		if err != nil {
			return fmt.Errorf("failed to create comment: %w", err)
		}
		logger.WithField("commentID", newComment.ID).Info("Created comment")
	}

	return c.outputReportJson(data)
}

// countMarkedComments counts comments carrying the tool marker, used to warn
// about duplicates before updating
func countMarkedComments(comments []*config.Comment) int {
	count := 0
	for _, c := range comments {
		if c != nil && strings.Contains(c.Body, template.ToolCommentSignature) {
			count++
		}
	}
	return count
}

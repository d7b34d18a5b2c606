/*
Copyright 2026 CodeSentry Authors
SPDX-License-Identifier: Apache-2.0
*/

package gh

import "context"

// Collaborator is the fixed set of GitHub operations the tool layer binds
// executors to. Every operation takes a repository identifier in
// "owner/repo" form. Implementations return typed records or an error;
// translating errors into model-visible tool results is the tool layer's
// job, not this one's.
type Collaborator interface {
	// GetPullRequest returns metadata for one pull request.
	GetPullRequest(ctx context.Context, repo string, number int) (*PullRequest, error)

	// ListPullRequestFiles returns every file changed by a pull request,
	// following pagination.
	ListPullRequestFiles(ctx context.Context, repo string, number int) ([]ChangedFile, error)

	// GetPullRequestDiff returns the patch for a single file in a pull
	// request, or a descriptive message if the file has no patch.
	GetPullRequestDiff(ctx context.Context, repo string, number int, filename string) (string, error)

	// GetFileContent returns a file's decoded content at the given ref
	// (default branch when ref is empty).
	GetFileContent(ctx context.Context, repo, path, ref string) (string, error)

	// ListRepositoryFiles lists the entries under a directory at the given
	// ref (repository root when path is empty, default branch when ref is
	// empty). Listing a file path returns that single entry.
	ListRepositoryFiles(ctx context.Context, repo, path, ref string) ([]DirEntry, error)

	// GetRepository returns general repository metadata.
	GetRepository(ctx context.Context, repo string) (*Repository, error)

	// GetRepositoryStats returns the repository activity summary.
	GetRepositoryStats(ctx context.Context, repo string) (*RepositoryStats, error)

	// GetIssue returns metadata for one issue.
	GetIssue(ctx context.Context, repo string, number int) (*Issue, error)

	// ListIssueComments returns every comment on an issue or pull request
	// conversation, following pagination.
	ListIssueComments(ctx context.Context, repo string, number int) ([]Comment, error)

	// ListIssueLabels returns the label names currently on an issue.
	ListIssueLabels(ctx context.Context, repo string, number int) ([]string, error)

	// AddIssueComment posts a new comment on an issue or pull request.
	AddIssueComment(ctx context.Context, repo string, number int, body string) (*CommentResult, error)

	// AddLabelsToIssue adds the given labels to an issue.
	AddLabelsToIssue(ctx context.Context, repo string, number int, labels []string) error

	// CreateIssue opens a new issue, optionally labeled.
	CreateIssue(ctx context.Context, repo, title, body string, labels []string) (*IssueRef, error)

	// UpdateOrCreatePRComment edits the bot's previous marker-prefixed
	// comment on a pull request, or creates one if none exists.
	UpdateOrCreatePRComment(ctx context.Context, repo string, number int, body, marker string) (*CommentResult, error)

	// UpdateOrCreateIssueComment is UpdateOrCreatePRComment for issues.
	UpdateOrCreateIssueComment(ctx context.Context, repo string, number int, body, marker string) (*CommentResult, error)

	// CreatePullRequestReview submits a review with event APPROVE,
	// REQUEST_CHANGES, or COMMENT and optional inline comments. Inline
	// comment lines are validated against the pull request's diff before
	// submission.
	CreatePullRequestReview(ctx context.Context, repo string, number int, body, event string, comments []ReviewComment) (*Review, error)

	// SearchCode searches code within the repository using GitHub search
	// syntax.
	SearchCode(ctx context.Context, repo, query string) ([]SearchResult, error)
}

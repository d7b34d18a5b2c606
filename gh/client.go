/*
Copyright 2026 CodeSentry Authors
SPDX-License-Identifier: Apache-2.0
*/

package gh

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/chainguard-dev/clog"
	"github.com/google/go-github/v84/github"
	"golang.org/x/oauth2"
)

// Client implements Collaborator on top of the GitHub REST API.
type Client struct {
	api *github.Client
}

var _ Collaborator = (*Client)(nil)

// NewClient creates a token-authenticated client, the usual mode when
// running from a CI workflow with a repository-scoped token.
func NewClient(ctx context.Context, token string) (*Client, error) {
	if token == "" {
		return nil, errors.New("token cannot be empty")
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	return &Client{api: github.NewClient(oauth2.NewClient(ctx, ts))}, nil
}

// NewAppClient creates a client authenticated as a GitHub App installation,
// for deployments that run as an App instead of with a workflow token.
func NewAppClient(appID, installationID int64, privateKey []byte) (*Client, error) {
	if appID == 0 || installationID == 0 {
		return nil, errors.New("app ID and installation ID are required")
	}
	itr, err := ghinstallation.New(http.DefaultTransport, appID, installationID, privateKey)
	if err != nil {
		return nil, fmt.Errorf("creating installation transport: %w", err)
	}
	return &Client{api: github.NewClient(&http.Client{Transport: itr})}, nil
}

// NewFromGitHubClient wraps an existing API client, for alternate base URLs
// and tests.
func NewFromGitHubClient(api *github.Client) *Client {
	return &Client{api: api}
}

// splitRepo splits an "owner/repo" identifier.
func splitRepo(repo string) (string, string, error) {
	owner, name, ok := strings.Cut(repo, "/")
	if !ok || owner == "" || name == "" {
		return "", "", fmt.Errorf("invalid repository %q, want owner/repo", repo)
	}
	return owner, name, nil
}

func (c *Client) GetPullRequest(ctx context.Context, repo string, number int) (*PullRequest, error) {
	owner, name, err := splitRepo(repo)
	if err != nil {
		return nil, err
	}
	pr, _, err := c.api.PullRequests.Get(ctx, owner, name, number)
	if err != nil {
		return nil, fmt.Errorf("getting pull request %s#%d: %w", repo, number, err)
	}
	return &PullRequest{
		Number:       pr.GetNumber(),
		Title:        pr.GetTitle(),
		Body:         pr.GetBody(),
		State:        pr.GetState(),
		User:         pr.GetUser().GetLogin(),
		CreatedAt:    pr.GetCreatedAt().Time,
		UpdatedAt:    pr.GetUpdatedAt().Time,
		Merged:       pr.GetMerged(),
		Mergeable:    pr.Mergeable,
		Comments:     pr.GetComments(),
		Commits:      pr.GetCommits(),
		Additions:    pr.GetAdditions(),
		Deletions:    pr.GetDeletions(),
		ChangedFiles: pr.GetChangedFiles(),
	}, nil
}

func (c *Client) ListPullRequestFiles(ctx context.Context, repo string, number int) ([]ChangedFile, error) {
	owner, name, err := splitRepo(repo)
	if err != nil {
		return nil, err
	}
	var files []ChangedFile
	opts := &github.ListOptions{PerPage: 100}
	for {
		page, resp, err := c.api.PullRequests.ListFiles(ctx, owner, name, number, opts)
		if err != nil {
			return nil, fmt.Errorf("listing files for %s#%d: %w", repo, number, err)
		}
		for _, f := range page {
			files = append(files, ChangedFile{
				Filename:  f.GetFilename(),
				Status:    f.GetStatus(),
				Additions: f.GetAdditions(),
				Deletions: f.GetDeletions(),
				Changes:   f.GetChanges(),
				BlobURL:   f.GetBlobURL(),
				RawURL:    f.GetRawURL(),
				Patch:     f.GetPatch(),
			})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return files, nil
}

func (c *Client) GetPullRequestDiff(ctx context.Context, repo string, number int, filename string) (string, error) {
	files, err := c.ListPullRequestFiles(ctx, repo, number)
	if err != nil {
		return "", err
	}
	for _, f := range files {
		if f.Filename == filename {
			if f.Patch == "" {
				return fmt.Sprintf("No diff available for file %s", filename), nil
			}
			return f.Patch, nil
		}
	}
	return fmt.Sprintf("File %s not found in pull request %d", filename, number), nil
}

func (c *Client) GetFileContent(ctx context.Context, repo, path, ref string) (string, error) {
	owner, name, err := splitRepo(repo)
	if err != nil {
		return "", err
	}
	var opts *github.RepositoryContentGetOptions
	if ref != "" {
		opts = &github.RepositoryContentGetOptions{Ref: ref}
	}
	file, _, _, err := c.api.Repositories.GetContents(ctx, owner, name, path, opts)
	if err != nil {
		return "", fmt.Errorf("getting contents of %s in %s: %w", path, repo, err)
	}
	if file == nil {
		return "This is a directory, not a file", nil
	}
	content, err := file.GetContent()
	if err != nil {
		return "", fmt.Errorf("decoding %s: %w", path, err)
	}
	return content, nil
}

func (c *Client) ListRepositoryFiles(ctx context.Context, repo, path, ref string) ([]DirEntry, error) {
	owner, name, err := splitRepo(repo)
	if err != nil {
		return nil, err
	}
	var opts *github.RepositoryContentGetOptions
	if ref != "" {
		opts = &github.RepositoryContentGetOptions{Ref: ref}
	}
	file, dir, _, err := c.api.Repositories.GetContents(ctx, owner, name, path, opts)
	if err != nil {
		return nil, fmt.Errorf("listing contents of %q in %s: %w", path, repo, err)
	}
	if file != nil {
		return []DirEntry{contentToDirEntry(file)}, nil
	}
	entries := make([]DirEntry, 0, len(dir))
	for _, e := range dir {
		entries = append(entries, contentToDirEntry(e))
	}
	return entries, nil
}

func contentToDirEntry(c *github.RepositoryContent) DirEntry {
	return DirEntry{
		Name:        c.GetName(),
		Type:        c.GetType(),
		Size:        c.GetSize(),
		SHA:         c.GetSHA(),
		Path:        c.GetPath(),
		HTMLURL:     c.GetHTMLURL(),
		DownloadURL: c.GetDownloadURL(),
	}
}

func (c *Client) GetRepository(ctx context.Context, repo string) (*Repository, error) {
	owner, name, err := splitRepo(repo)
	if err != nil {
		return nil, err
	}
	r, _, err := c.api.Repositories.Get(ctx, owner, name)
	if err != nil {
		return nil, fmt.Errorf("getting repository %s: %w", repo, err)
	}
	return &Repository{
		Name:          r.GetName(),
		FullName:      r.GetFullName(),
		Description:   r.GetDescription(),
		Language:      r.GetLanguage(),
		Topics:        r.Topics,
		Forks:         r.GetForksCount(),
		Stars:         r.GetStargazersCount(),
		OpenIssues:    r.GetOpenIssuesCount(),
		CreatedAt:     r.GetCreatedAt().Time,
		UpdatedAt:     r.GetUpdatedAt().Time,
		DefaultBranch: r.GetDefaultBranch(),
		License:       r.GetLicense().GetName(),
	}, nil
}

func (c *Client) GetRepositoryStats(ctx context.Context, repo string) (*RepositoryStats, error) {
	owner, name, err := splitRepo(repo)
	if err != nil {
		return nil, err
	}
	r, _, err := c.api.Repositories.Get(ctx, owner, name)
	if err != nil {
		return nil, fmt.Errorf("getting repository %s: %w", repo, err)
	}

	openPRs := 0
	opts := &github.PullRequestListOptions{
		State:       "open",
		ListOptions: github.ListOptions{PerPage: 100},
	}
	for {
		page, resp, err := c.api.PullRequests.List(ctx, owner, name, opts)
		if err != nil {
			return nil, fmt.Errorf("listing open pull requests for %s: %w", repo, err)
		}
		openPRs += len(page)
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return &RepositoryStats{
		Name:             r.GetName(),
		FullName:         r.GetFullName(),
		Forks:            r.GetForksCount(),
		Stars:            r.GetStargazersCount(),
		Watchers:         r.GetWatchersCount(),
		OpenIssues:       r.GetOpenIssuesCount(),
		Subscribers:      r.GetSubscribersCount(),
		Size:             r.GetSize(),
		OpenPullRequests: openPRs,
	}, nil
}

func (c *Client) GetIssue(ctx context.Context, repo string, number int) (*Issue, error) {
	owner, name, err := splitRepo(repo)
	if err != nil {
		return nil, err
	}
	issue, _, err := c.api.Issues.Get(ctx, owner, name, number)
	if err != nil {
		return nil, fmt.Errorf("getting issue %s#%d: %w", repo, number, err)
	}
	out := &Issue{
		Number:    issue.GetNumber(),
		Title:     issue.GetTitle(),
		Body:      issue.GetBody(),
		State:     issue.GetState(),
		User:      issue.GetUser().GetLogin(),
		CreatedAt: issue.GetCreatedAt().Time,
		UpdatedAt: issue.GetUpdatedAt().Time,
		Comments:  issue.GetComments(),
	}
	for _, l := range issue.Labels {
		out.Labels = append(out.Labels, Label{Name: l.GetName(), Color: l.GetColor()})
	}
	for _, a := range issue.Assignees {
		out.Assignees = append(out.Assignees, a.GetLogin())
	}
	return out, nil
}

func (c *Client) ListIssueComments(ctx context.Context, repo string, number int) ([]Comment, error) {
	owner, name, err := splitRepo(repo)
	if err != nil {
		return nil, err
	}
	var comments []Comment
	opts := &github.IssueListCommentsOptions{
		ListOptions: github.ListOptions{PerPage: 100},
	}
	for {
		page, resp, err := c.api.Issues.ListComments(ctx, owner, name, number, opts)
		if err != nil {
			return nil, fmt.Errorf("listing comments on %s#%d: %w", repo, number, err)
		}
		for _, cm := range page {
			comments = append(comments, Comment{
				ID:        cm.GetID(),
				Body:      cm.GetBody(),
				User:      cm.GetUser().GetLogin(),
				CreatedAt: cm.GetCreatedAt().Time,
				UpdatedAt: cm.GetUpdatedAt().Time,
			})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return comments, nil
}

func (c *Client) ListIssueLabels(ctx context.Context, repo string, number int) ([]string, error) {
	owner, name, err := splitRepo(repo)
	if err != nil {
		return nil, err
	}
	var labels []string
	opts := &github.ListOptions{PerPage: 100}
	for {
		page, resp, err := c.api.Issues.ListLabelsByIssue(ctx, owner, name, number, opts)
		if err != nil {
			return nil, fmt.Errorf("listing labels on %s#%d: %w", repo, number, err)
		}
		for _, l := range page {
			labels = append(labels, l.GetName())
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return labels, nil
}

func (c *Client) AddIssueComment(ctx context.Context, repo string, number int, body string) (*CommentResult, error) {
	owner, name, err := splitRepo(repo)
	if err != nil {
		return nil, err
	}
	comment, _, err := c.api.Issues.CreateComment(ctx, owner, name, number, &github.IssueComment{
		Body: github.Ptr(body),
	})
	if err != nil {
		return nil, fmt.Errorf("commenting on %s#%d: %w", repo, number, err)
	}
	return &CommentResult{
		ID:     comment.GetID(),
		URL:    comment.GetHTMLURL(),
		Action: "created",
	}, nil
}

func (c *Client) AddLabelsToIssue(ctx context.Context, repo string, number int, labels []string) error {
	owner, name, err := splitRepo(repo)
	if err != nil {
		return err
	}
	if _, _, err := c.api.Issues.AddLabelsToIssue(ctx, owner, name, number, labels); err != nil {
		return fmt.Errorf("labeling %s#%d: %w", repo, number, err)
	}
	return nil
}

func (c *Client) CreateIssue(ctx context.Context, repo, title, body string, labels []string) (*IssueRef, error) {
	owner, name, err := splitRepo(repo)
	if err != nil {
		return nil, err
	}
	req := &github.IssueRequest{
		Title: github.Ptr(title),
		Body:  github.Ptr(body),
	}
	if len(labels) > 0 {
		req.Labels = &labels
	}
	issue, _, err := c.api.Issues.Create(ctx, owner, name, req)
	if err != nil {
		return nil, fmt.Errorf("creating issue in %s: %w", repo, err)
	}
	return &IssueRef{
		Number: issue.GetNumber(),
		ID:     issue.GetID(),
		URL:    issue.GetHTMLURL(),
		Title:  issue.GetTitle(),
	}, nil
}

// UpdateOrCreatePRComment and UpdateOrCreateIssueComment share one
// implementation: PR conversation comments live on the issues API.

func (c *Client) UpdateOrCreatePRComment(ctx context.Context, repo string, number int, body, marker string) (*CommentResult, error) {
	return c.upsertComment(ctx, repo, number, body, marker)
}

func (c *Client) UpdateOrCreateIssueComment(ctx context.Context, repo string, number int, body, marker string) (*CommentResult, error) {
	return c.upsertComment(ctx, repo, number, body, marker)
}

// upsertComment edits the first comment whose body starts with the marker,
// or creates a new comment when none matches. The marker keeps repeat runs
// from stacking duplicate reports on the same thread.
func (c *Client) upsertComment(ctx context.Context, repo string, number int, body, marker string) (*CommentResult, error) {
	if marker == "" {
		return nil, errors.New("header marker cannot be empty")
	}
	owner, name, err := splitRepo(repo)
	if err != nil {
		return nil, err
	}

	comments, err := c.ListIssueComments(ctx, repo, number)
	if err != nil {
		return nil, err
	}
	for _, existing := range comments {
		if !strings.HasPrefix(existing.Body, marker) {
			continue
		}
		clog.FromContext(ctx).With("comment_id", existing.ID).Info("Updating existing comment")
		updated, _, err := c.api.Issues.EditComment(ctx, owner, name, existing.ID, &github.IssueComment{
			Body: github.Ptr(body),
		})
		if err != nil {
			return nil, fmt.Errorf("updating comment %d on %s#%d: %w", existing.ID, repo, number, err)
		}
		return &CommentResult{
			ID:     updated.GetID(),
			URL:    updated.GetHTMLURL(),
			Action: "updated",
		}, nil
	}

	return c.AddIssueComment(ctx, repo, number, body)
}

func (c *Client) CreatePullRequestReview(ctx context.Context, repo string, number int, body, event string, comments []ReviewComment) (*Review, error) {
	owner, name, err := splitRepo(repo)
	if err != nil {
		return nil, err
	}
	switch event {
	case ReviewEventApprove, ReviewEventRequestChanges, ReviewEventComment:
	default:
		return nil, fmt.Errorf("invalid review event %q", event)
	}

	req := &github.PullRequestReviewRequest{
		Body:  github.Ptr(body),
		Event: github.Ptr(event),
	}
	if len(comments) > 0 {
		files, err := c.ListPullRequestFiles(ctx, repo, number)
		if err != nil {
			return nil, err
		}
		if err := validateReviewComments(files, comments); err != nil {
			return nil, err
		}
		for _, rc := range comments {
			draft := &github.DraftReviewComment{
				Path: github.Ptr(rc.Path),
				Body: github.Ptr(rc.Body),
				Line: github.Ptr(rc.Line),
			}
			if rc.Side != "" {
				draft.Side = github.Ptr(rc.Side)
			}
			req.Comments = append(req.Comments, draft)
		}
	}

	review, _, err := c.api.PullRequests.CreateReview(ctx, owner, name, number, req)
	if err != nil {
		return nil, fmt.Errorf("creating review on %s#%d: %w", repo, number, err)
	}
	return &Review{
		ID:          review.GetID(),
		State:       review.GetState(),
		Body:        review.GetBody(),
		SubmittedAt: review.GetSubmittedAt().Time,
	}, nil
}

func (c *Client) SearchCode(ctx context.Context, repo, query string) ([]SearchResult, error) {
	if _, _, err := splitRepo(repo); err != nil {
		return nil, err
	}
	scoped := fmt.Sprintf("%s repo:%s", query, repo)
	result, _, err := c.api.Search.Code(ctx, scoped, &github.SearchOptions{
		ListOptions: github.ListOptions{PerPage: 50},
	})
	if err != nil {
		return nil, fmt.Errorf("searching code in %s: %w", repo, err)
	}
	out := make([]SearchResult, 0, len(result.CodeResults))
	for _, r := range result.CodeResults {
		out = append(out, SearchResult{
			Name:       r.GetName(),
			Path:       r.GetPath(),
			SHA:        r.GetSHA(),
			HTMLURL:    r.GetHTMLURL(),
			Repository: r.GetRepository().GetFullName(),
		})
	}
	return out, nil
}

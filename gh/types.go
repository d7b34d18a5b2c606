/*
Copyright 2026 CodeSentry Authors
SPDX-License-Identifier: Apache-2.0
*/

package gh

import "time"

// PullRequest is the metadata surface exposed to the model for one PR.
type PullRequest struct {
	Number       int       `json:"number"`
	Title        string    `json:"title"`
	Body         string    `json:"body"`
	State        string    `json:"state"`
	User         string    `json:"user"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Merged       bool      `json:"merged"`
	Mergeable    *bool     `json:"mergeable"`
	Comments     int       `json:"comments"`
	Commits      int       `json:"commits"`
	Additions    int       `json:"additions"`
	Deletions    int       `json:"deletions"`
	ChangedFiles int       `json:"changed_files"`
}

// ChangedFile is one file touched by a pull request, including its patch
// when GitHub provides one (large or binary files come without).
type ChangedFile struct {
	Filename  string `json:"filename"`
	Status    string `json:"status"`
	Additions int    `json:"additions"`
	Deletions int    `json:"deletions"`
	Changes   int    `json:"changes"`
	BlobURL   string `json:"blob_url"`
	RawURL    string `json:"raw_url"`
	Patch     string `json:"patch,omitempty"`
}

// Repository is general repository metadata.
type Repository struct {
	Name          string    `json:"name"`
	FullName      string    `json:"full_name"`
	Description   string    `json:"description"`
	Language      string    `json:"language"`
	Topics        []string  `json:"topics"`
	Forks         int       `json:"forks"`
	Stars         int       `json:"stars"`
	OpenIssues    int       `json:"open_issues"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	DefaultBranch string    `json:"default_branch"`
	License       string    `json:"license,omitempty"`
}

// RepositoryStats is the activity summary used by the code-scan action.
type RepositoryStats struct {
	Name             string `json:"name"`
	FullName         string `json:"full_name"`
	Forks            int    `json:"forks"`
	Stars            int    `json:"stars"`
	Watchers         int    `json:"watchers"`
	OpenIssues       int    `json:"open_issues"`
	Subscribers      int    `json:"subscribers"`
	Size             int    `json:"size"`
	OpenPullRequests int    `json:"open_pull_requests"`
}

// Label is an issue label.
type Label struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Issue is the metadata surface exposed to the model for one issue.
type Issue struct {
	Number    int       `json:"number"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	State     string    `json:"state"`
	User      string    `json:"user"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Comments  int       `json:"comments"`
	Labels    []Label   `json:"labels"`
	Assignees []string  `json:"assignees"`
}

// Comment is one issue or PR conversation comment.
type Comment struct {
	ID        int64     `json:"id"`
	Body      string    `json:"body"`
	User      string    `json:"user"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CommentResult reports the outcome of posting a comment. Action is
// "created" for a new comment and "updated" when an existing marker-matched
// comment was edited in place.
type CommentResult struct {
	ID     int64  `json:"id"`
	URL    string `json:"url"`
	Action string `json:"action"`
}

// IssueRef identifies a newly created issue.
type IssueRef struct {
	Number int    `json:"number"`
	ID     int64  `json:"id"`
	URL    string `json:"url"`
	Title  string `json:"title"`
}

// ReviewComment is one inline comment attached to a pull request review.
// Line refers to the new side of the diff unless Side says otherwise.
type ReviewComment struct {
	Path string `json:"path"`
	Body string `json:"body"`
	Line int    `json:"line"`
	Side string `json:"side,omitempty"`
}

// Review reports a submitted pull request review.
type Review struct {
	ID          int64     `json:"id"`
	State       string    `json:"state"`
	Body        string    `json:"body"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// DirEntry is one entry returned when listing repository contents.
type DirEntry struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Size        int    `json:"size"`
	SHA         string `json:"sha"`
	Path        string `json:"path"`
	HTMLURL     string `json:"html_url"`
	DownloadURL string `json:"download_url,omitempty"`
}

// SearchResult is one code search hit.
type SearchResult struct {
	Name       string `json:"name"`
	Path       string `json:"path"`
	SHA        string `json:"sha"`
	HTMLURL    string `json:"html_url"`
	Repository string `json:"repository"`
}

// Review event types accepted by CreatePullRequestReview.
const (
	ReviewEventApprove        = "APPROVE"
	ReviewEventRequestChanges = "REQUEST_CHANGES"
	ReviewEventComment        = "COMMENT"
)

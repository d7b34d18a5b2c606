/*
Copyright 2026 CodeSentry Authors
SPDX-License-Identifier: Apache-2.0
*/

package ghtools

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/codesentry/ghagent/agent/registry"
	"github.com/codesentry/ghagent/gh"
)

// fakeCollaborator records the last call made through each operation and
// returns canned values. Operations not exercised by a test return zero
// values.
type fakeCollaborator struct {
	lastOp   string
	lastRepo string
	lastArgs []any
}

func (f *fakeCollaborator) record(op, repo string, args ...any) {
	f.lastOp = op
	f.lastRepo = repo
	f.lastArgs = args
}

func (f *fakeCollaborator) GetPullRequest(_ context.Context, repo string, number int) (*gh.PullRequest, error) {
	f.record("GetPullRequest", repo, number)
	return &gh.PullRequest{Number: number, Title: "add retries"}, nil
}

func (f *fakeCollaborator) ListPullRequestFiles(_ context.Context, repo string, number int) ([]gh.ChangedFile, error) {
	f.record("ListPullRequestFiles", repo, number)
	return []gh.ChangedFile{{Filename: "main.go", Status: "modified"}}, nil
}

func (f *fakeCollaborator) GetPullRequestDiff(_ context.Context, repo string, number int, filename string) (string, error) {
	f.record("GetPullRequestDiff", repo, number, filename)
	return "@@ -1 +1 @@", nil
}

func (f *fakeCollaborator) GetFileContent(_ context.Context, repo, path, ref string) (string, error) {
	f.record("GetFileContent", repo, path, ref)
	return "package main", nil
}

func (f *fakeCollaborator) ListRepositoryFiles(_ context.Context, repo, path, ref string) ([]gh.DirEntry, error) {
	f.record("ListRepositoryFiles", repo, path, ref)
	return []gh.DirEntry{{Name: "main.go", Type: "file"}}, nil
}

func (f *fakeCollaborator) GetRepository(_ context.Context, repo string) (*gh.Repository, error) {
	f.record("GetRepository", repo)
	return &gh.Repository{FullName: repo}, nil
}

func (f *fakeCollaborator) GetRepositoryStats(_ context.Context, repo string) (*gh.RepositoryStats, error) {
	f.record("GetRepositoryStats", repo)
	return &gh.RepositoryStats{FullName: repo, Stars: 7}, nil
}

func (f *fakeCollaborator) GetIssue(_ context.Context, repo string, number int) (*gh.Issue, error) {
	f.record("GetIssue", repo, number)
	return &gh.Issue{Number: number, Title: "panic on empty input"}, nil
}

func (f *fakeCollaborator) ListIssueComments(_ context.Context, repo string, number int) ([]gh.Comment, error) {
	f.record("ListIssueComments", repo, number)
	return []gh.Comment{{ID: 1, Body: "same here"}}, nil
}

func (f *fakeCollaborator) ListIssueLabels(_ context.Context, repo string, number int) ([]string, error) {
	f.record("ListIssueLabels", repo, number)
	return []string{"bug"}, nil
}

func (f *fakeCollaborator) AddIssueComment(_ context.Context, repo string, number int, body string) (*gh.CommentResult, error) {
	f.record("AddIssueComment", repo, number, body)
	return &gh.CommentResult{ID: 10, Action: "created"}, nil
}

func (f *fakeCollaborator) AddLabelsToIssue(_ context.Context, repo string, number int, labels []string) error {
	f.record("AddLabelsToIssue", repo, number, labels)
	return nil
}

func (f *fakeCollaborator) CreateIssue(_ context.Context, repo, title, body string, labels []string) (*gh.IssueRef, error) {
	f.record("CreateIssue", repo, title, body, labels)
	return &gh.IssueRef{Number: 42, Title: title}, nil
}

func (f *fakeCollaborator) UpdateOrCreatePRComment(_ context.Context, repo string, number int, body, marker string) (*gh.CommentResult, error) {
	f.record("UpdateOrCreatePRComment", repo, number, body, marker)
	return &gh.CommentResult{ID: 11, Action: "updated"}, nil
}

func (f *fakeCollaborator) UpdateOrCreateIssueComment(_ context.Context, repo string, number int, body, marker string) (*gh.CommentResult, error) {
	f.record("UpdateOrCreateIssueComment", repo, number, body, marker)
	return &gh.CommentResult{ID: 12, Action: "created"}, nil
}

func (f *fakeCollaborator) CreatePullRequestReview(_ context.Context, repo string, number int, body, event string, comments []gh.ReviewComment) (*gh.Review, error) {
	f.record("CreatePullRequestReview", repo, number, body, event, comments)
	return &gh.Review{ID: 99, State: event}, nil
}

func (f *fakeCollaborator) SearchCode(_ context.Context, repo, query string) ([]gh.SearchResult, error) {
	f.record("SearchCode", repo, query)
	return []gh.SearchResult{{Path: "main.go"}}, nil
}

var _ gh.Collaborator = (*fakeCollaborator)(nil)

func names(r *registry.Registry) []string {
	defs := r.Definitions()
	out := make([]string, 0, len(defs))
	for _, d := range defs {
		out = append(out, d.Name)
	}
	return out
}

func TestReviewToolsComposition(t *testing.T) {
	fake := &fakeCollaborator{}

	want := []string{
		"get_pull_request",
		"get_pull_request_files",
		"get_pull_request_diff",
		"get_repository",
		"get_repository_file_content",
		"list_repository_files",
		"search_code",
		"create_pull_request_review",
		"update_or_create_pr_comment",
	}
	if diff := cmp.Diff(want, names(ReviewTools(fake, false))); diff != "" {
		t.Errorf("ReviewTools(autoApprove=false) mismatch (-want +got):\n%s", diff)
	}

	withApprove := names(ReviewTools(fake, true))
	if diff := cmp.Diff(append(want, "approve_pull_request"), withApprove); diff != "" {
		t.Errorf("ReviewTools(autoApprove=true) mismatch (-want +got):\n%s", diff)
	}
}

func TestIssueToolsComposition(t *testing.T) {
	want := []string{
		"get_repository",
		"get_repository_stats",
		"get_repository_file_content",
		"list_repository_files",
		"get_issue",
		"list_issue_comments",
		"list_issue_labels",
		"add_issue_comment",
		"add_labels_to_issue",
		"update_or_create_issue_comment",
		"search_code",
	}
	if diff := cmp.Diff(want, names(IssueTools(&fakeCollaborator{}))); diff != "" {
		t.Errorf("IssueTools mismatch (-want +got):\n%s", diff)
	}
}

func TestScanToolsComposition(t *testing.T) {
	want := []string{
		"get_repository",
		"get_repository_stats",
		"get_repository_file_content",
		"list_repository_files",
		"search_code",
		"create_issue",
	}
	if diff := cmp.Diff(want, names(ScanTools(&fakeCollaborator{}))); diff != "" {
		t.Errorf("ScanTools mismatch (-want +got):\n%s", diff)
	}
}

func TestDispatchRoutesToCollaborator(t *testing.T) {
	tests := []struct {
		name     string
		toolset  func(*fakeCollaborator) *registry.Registry
		tool     string
		args     map[string]any
		wantOp   string
		wantArgs []any
	}{
		{
			name:     "get_pull_request",
			toolset:  func(f *fakeCollaborator) *registry.Registry { return ReviewTools(f, false) },
			tool:     "get_pull_request",
			args:     map[string]any{"repo": "octo/widgets", "pr_number": float64(7)},
			wantOp:   "GetPullRequest",
			wantArgs: []any{7},
		},
		{
			name:     "get_pull_request_diff",
			toolset:  func(f *fakeCollaborator) *registry.Registry { return ReviewTools(f, false) },
			tool:     "get_pull_request_diff",
			args:     map[string]any{"repo": "octo/widgets", "pr_number": float64(7), "filename": "main.go"},
			wantOp:   "GetPullRequestDiff",
			wantArgs: []any{7, "main.go"},
		},
		{
			name:     "file content defaults ref",
			toolset:  func(f *fakeCollaborator) *registry.Registry { return ScanTools(f) },
			tool:     "get_repository_file_content",
			args:     map[string]any{"repo": "octo/widgets", "path": "go.mod"},
			wantOp:   "GetFileContent",
			wantArgs: []any{"go.mod", ""},
		},
		{
			name:     "list files defaults path and ref",
			toolset:  func(f *fakeCollaborator) *registry.Registry { return ScanTools(f) },
			tool:     "list_repository_files",
			args:     map[string]any{"repo": "octo/widgets"},
			wantOp:   "ListRepositoryFiles",
			wantArgs: []any{"", ""},
		},
		{
			name:     "add_labels_to_issue",
			toolset:  func(f *fakeCollaborator) *registry.Registry { return IssueTools(f) },
			tool:     "add_labels_to_issue",
			args:     map[string]any{"repo": "octo/widgets", "issue_number": float64(3), "labels": []any{"bug", "p1"}},
			wantOp:   "AddLabelsToIssue",
			wantArgs: []any{3, []string{"bug", "p1"}},
		},
		{
			name:     "create_issue without labels",
			toolset:  func(f *fakeCollaborator) *registry.Registry { return ScanTools(f) },
			tool:     "create_issue",
			args:     map[string]any{"repo": "octo/widgets", "title": "found secrets", "body": "details"},
			wantOp:   "CreateIssue",
			wantArgs: []any{"found secrets", "details", []string(nil)},
		},
		{
			name:    "update_or_create_issue_comment",
			toolset: func(f *fakeCollaborator) *registry.Registry { return IssueTools(f) },
			tool:    "update_or_create_issue_comment",
			args: map[string]any{
				"repo": "octo/widgets", "issue_number": float64(3),
				"body": "## AI Issue Analysis\ndone", "header_marker": "## AI Issue Analysis",
			},
			wantOp:   "UpdateOrCreateIssueComment",
			wantArgs: []any{3, "## AI Issue Analysis\ndone", "## AI Issue Analysis"},
		},
		{
			name:    "search_code",
			toolset: func(f *fakeCollaborator) *registry.Registry { return ScanTools(f) },
			tool:    "search_code",
			args:    map[string]any{"repo": "octo/widgets", "query": "password language:go"},
			wantOp:  "SearchCode",
			wantArgs: []any{
				"password language:go",
			},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fake := &fakeCollaborator{}
			r := tc.toolset(fake)

			if _, err := r.Dispatch(context.Background(), tc.tool, tc.args); err != nil {
				t.Fatalf("Dispatch(%s) = %v", tc.tool, err)
			}
			if fake.lastOp != tc.wantOp {
				t.Errorf("operation = %q, want %q", fake.lastOp, tc.wantOp)
			}
			if fake.lastRepo != "octo/widgets" {
				t.Errorf("repo = %q, want octo/widgets", fake.lastRepo)
			}
			if diff := cmp.Diff(tc.wantArgs, fake.lastArgs); diff != "" {
				t.Errorf("arguments mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCreateReviewParsesInlineComments(t *testing.T) {
	fake := &fakeCollaborator{}
	r := ReviewTools(fake, false)

	args := map[string]any{
		"repo":      "octo/widgets",
		"pr_number": float64(7),
		"body":      "a few nits",
		"event":     "COMMENT",
		"comments": []any{
			map[string]any{"path": "main.go", "body": "rename this", "line": float64(12)},
			map[string]any{"path": "util.go", "body": "stale copy", "line": float64(3), "side": "LEFT"},
		},
	}
	if _, err := r.Dispatch(context.Background(), "create_pull_request_review", args); err != nil {
		t.Fatalf("Dispatch(create_pull_request_review) = %v", err)
	}

	wantArgs := []any{7, "a few nits", "COMMENT", []gh.ReviewComment{
		{Path: "main.go", Body: "rename this", Line: 12},
		{Path: "util.go", Body: "stale copy", Line: 3, Side: "LEFT"},
	}}
	if diff := cmp.Diff(wantArgs, fake.lastArgs); diff != "" {
		t.Errorf("review arguments mismatch (-want +got):\n%s", diff)
	}
}

func TestCreateReviewRejectsMalformedComments(t *testing.T) {
	tests := []struct {
		name     string
		comments []any
	}{
		{"non-object element", []any{"main.go:12 rename this"}},
		{"missing path", []any{map[string]any{"body": "x", "line": float64(1)}}},
		{"missing line", []any{map[string]any{"path": "main.go", "body": "x"}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fake := &fakeCollaborator{}
			r := ReviewTools(fake, false)

			args := map[string]any{
				"repo":      "octo/widgets",
				"pr_number": float64(7),
				"body":      "review",
				"event":     "COMMENT",
				"comments":  tc.comments,
			}
			if _, err := r.Dispatch(context.Background(), "create_pull_request_review", args); err == nil {
				t.Fatal("Dispatch succeeded, want error")
			}
			if fake.lastOp != "" {
				t.Errorf("collaborator was called (%s), want no call", fake.lastOp)
			}
		})
	}
}

func TestApproveDefaultsBody(t *testing.T) {
	fake := &fakeCollaborator{}
	r := ReviewTools(fake, true)

	args := map[string]any{"repo": "octo/widgets", "pr_number": float64(7)}
	if _, err := r.Dispatch(context.Background(), "approve_pull_request", args); err != nil {
		t.Fatalf("Dispatch(approve_pull_request) = %v", err)
	}

	wantArgs := []any{7, "Approved after review", gh.ReviewEventApprove, []gh.ReviewComment(nil)}
	if diff := cmp.Diff(wantArgs, fake.lastArgs); diff != "" {
		t.Errorf("approval arguments mismatch (-want +got):\n%s", diff)
	}
}

func TestApproveAbsentWithoutOptIn(t *testing.T) {
	fake := &fakeCollaborator{}
	r := ReviewTools(fake, false)

	_, err := r.Dispatch(context.Background(), "approve_pull_request", map[string]any{
		"repo": "octo/widgets", "pr_number": float64(7),
	})
	if err == nil {
		t.Fatal("Dispatch succeeded, want tool-not-found error")
	}
	if fake.lastOp != "" {
		t.Errorf("collaborator was called (%s), want no call", fake.lastOp)
	}
}

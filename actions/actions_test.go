/*
Copyright 2026 CodeSentry Authors
SPDX-License-Identifier: Apache-2.0
*/

package actions

import (
	"context"
	"testing"

	"github.com/codesentry/ghagent/agent"
	"github.com/codesentry/ghagent/agent/registry"
	"github.com/codesentry/ghagent/gh"
)

// stubBackend replays canned assistant messages and records the
// conversations it saw.
type stubBackend struct {
	replies       []agent.Message
	calls         int
	conversations []agent.Conversation
}

func (b *stubBackend) Model() string { return "test-model" }

func (b *stubBackend) Complete(_ context.Context, conversation agent.Conversation, _ []registry.Definition) (agent.Message, error) {
	b.conversations = append(b.conversations, conversation.Clone())
	reply := b.replies[b.calls%len(b.replies)]
	b.calls++
	return reply, nil
}

func finalAnswer(content string) *stubBackend {
	return &stubBackend{replies: []agent.Message{{Role: agent.RoleAssistant, Content: content}}}
}

// stubCollab is a configurable gh.Collaborator. Publishing operations record
// their arguments; read operations return the configured records or zero
// values. When failT is set, every operation fails the test; drivers given a
// defective event must not reach the collaborator at all.
type stubCollab struct {
	failT *testing.T

	pr    *gh.PullRequest
	files []gh.ChangedFile
	diffs map[string]string
	issue *gh.Issue
	repo  *gh.Repository
	stats *gh.RepositoryStats

	prCommentBody      string
	prCommentMarker    string
	issueCommentBody   string
	issueCommentMarker string
	createdTitle       string
	createdBody        string
	createdLabels      []string
	createIssueCalled  bool
}

func (s *stubCollab) fail(op string) {
	if s.failT != nil {
		s.failT.Errorf("collaborator operation %s was called, want none", op)
	}
}

func (s *stubCollab) GetPullRequest(context.Context, string, int) (*gh.PullRequest, error) {
	s.fail("GetPullRequest")
	return s.pr, nil
}

func (s *stubCollab) ListPullRequestFiles(context.Context, string, int) ([]gh.ChangedFile, error) {
	s.fail("ListPullRequestFiles")
	return s.files, nil
}

func (s *stubCollab) GetPullRequestDiff(_ context.Context, _ string, _ int, filename string) (string, error) {
	s.fail("GetPullRequestDiff")
	return s.diffs[filename], nil
}

func (s *stubCollab) GetFileContent(context.Context, string, string, string) (string, error) {
	s.fail("GetFileContent")
	return "", nil
}

func (s *stubCollab) ListRepositoryFiles(context.Context, string, string, string) ([]gh.DirEntry, error) {
	s.fail("ListRepositoryFiles")
	return nil, nil
}

func (s *stubCollab) GetRepository(context.Context, string) (*gh.Repository, error) {
	s.fail("GetRepository")
	return s.repo, nil
}

func (s *stubCollab) GetRepositoryStats(context.Context, string) (*gh.RepositoryStats, error) {
	s.fail("GetRepositoryStats")
	return s.stats, nil
}

func (s *stubCollab) GetIssue(context.Context, string, int) (*gh.Issue, error) {
	s.fail("GetIssue")
	return s.issue, nil
}

func (s *stubCollab) ListIssueComments(context.Context, string, int) ([]gh.Comment, error) {
	s.fail("ListIssueComments")
	return nil, nil
}

func (s *stubCollab) ListIssueLabels(context.Context, string, int) ([]string, error) {
	s.fail("ListIssueLabels")
	return nil, nil
}

func (s *stubCollab) AddIssueComment(context.Context, string, int, string) (*gh.CommentResult, error) {
	s.fail("AddIssueComment")
	return &gh.CommentResult{ID: 1, Action: "created"}, nil
}

func (s *stubCollab) AddLabelsToIssue(context.Context, string, int, []string) error {
	s.fail("AddLabelsToIssue")
	return nil
}

func (s *stubCollab) CreateIssue(_ context.Context, _ string, title, body string, labels []string) (*gh.IssueRef, error) {
	s.fail("CreateIssue")
	s.createIssueCalled = true
	s.createdTitle = title
	s.createdBody = body
	s.createdLabels = labels
	return &gh.IssueRef{Number: 101, Title: title}, nil
}

func (s *stubCollab) UpdateOrCreatePRComment(_ context.Context, _ string, _ int, body, marker string) (*gh.CommentResult, error) {
	s.fail("UpdateOrCreatePRComment")
	s.prCommentBody = body
	s.prCommentMarker = marker
	return &gh.CommentResult{ID: 2, Action: "created"}, nil
}

func (s *stubCollab) UpdateOrCreateIssueComment(_ context.Context, _ string, _ int, body, marker string) (*gh.CommentResult, error) {
	s.fail("UpdateOrCreateIssueComment")
	s.issueCommentBody = body
	s.issueCommentMarker = marker
	return &gh.CommentResult{ID: 3, Action: "updated"}, nil
}

func (s *stubCollab) CreatePullRequestReview(_ context.Context, _ string, _ int, _, event string, _ []gh.ReviewComment) (*gh.Review, error) {
	s.fail("CreatePullRequestReview")
	return &gh.Review{ID: 4, State: event}, nil
}

func (s *stubCollab) SearchCode(context.Context, string, string) ([]gh.SearchResult, error) {
	s.fail("SearchCode")
	return nil, nil
}

var _ gh.Collaborator = (*stubCollab)(nil)

/*
Copyright 2026 CodeSentry Authors
SPDX-License-Identifier: Apache-2.0
*/

package ghtools

import (
	"github.com/codesentry/ghagent/agent/registry"
	"github.com/codesentry/ghagent/gh"
)

// ReviewTools is the toolset for pull request review runs. The
// approve_pull_request tool is included only when autoApprove is set;
// otherwise the model has no way to approve.
func ReviewTools(c gh.Collaborator, autoApprove bool) *registry.Registry {
	r := registry.New().MustRegister(
		getPullRequestTool(c),
		getPullRequestFilesTool(c),
		getPullRequestDiffTool(c),
		getRepositoryTool(c),
		getRepositoryFileContentTool(c),
		listRepositoryFilesTool(c),
		searchCodeTool(c),
		createPullRequestReviewTool(c),
		updateOrCreatePRCommentTool(c),
	)
	if autoApprove {
		r.MustRegister(approvePullRequestTool(c))
	}
	return r
}

// IssueTools is the toolset for issue analysis runs.
func IssueTools(c gh.Collaborator) *registry.Registry {
	return registry.New().MustRegister(
		getRepositoryTool(c),
		getRepositoryStatsTool(c),
		getRepositoryFileContentTool(c),
		listRepositoryFilesTool(c),
		getIssueTool(c),
		listIssueCommentsTool(c),
		listIssueLabelsTool(c),
		addIssueCommentTool(c),
		addLabelsToIssueTool(c),
		updateOrCreateIssueCommentTool(c),
		searchCodeTool(c),
	)
}

// ScanTools is the toolset for repository code scan runs.
func ScanTools(c gh.Collaborator) *registry.Registry {
	return registry.New().MustRegister(
		getRepositoryTool(c),
		getRepositoryStatsTool(c),
		getRepositoryFileContentTool(c),
		listRepositoryFilesTool(c),
		searchCodeTool(c),
		createIssueTool(c),
	)
}

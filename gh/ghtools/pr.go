/*
Copyright 2026 CodeSentry Authors
SPDX-License-Identifier: Apache-2.0
*/

package ghtools

import (
	"context"
	"fmt"

	"github.com/codesentry/ghagent/agent/params"
	"github.com/codesentry/ghagent/agent/registry"
	"github.com/codesentry/ghagent/gh"
)

func getPullRequestTool(c gh.Collaborator) registry.Tool {
	return registry.Tool{
		Def: registry.Definition{
			Name:        "get_pull_request",
			Description: "Get information about a pull request",
			Parameters: []registry.Parameter{
				repoParam,
				parameter("pr_number", "integer", "Pull request number", true),
			},
		},
		Run: func(ctx context.Context, args map[string]any) (any, error) {
			repo, err := params.Extract[string](args, "repo")
			if err != nil {
				return nil, err
			}
			number, err := params.Extract[int](args, "pr_number")
			if err != nil {
				return nil, err
			}
			return c.GetPullRequest(ctx, repo, number)
		},
	}
}

func getPullRequestFilesTool(c gh.Collaborator) registry.Tool {
	return registry.Tool{
		Def: registry.Definition{
			Name:        "get_pull_request_files",
			Description: "Get the list of files changed in a pull request",
			Parameters: []registry.Parameter{
				repoParam,
				parameter("pr_number", "integer", "Pull request number", true),
			},
		},
		Run: func(ctx context.Context, args map[string]any) (any, error) {
			repo, err := params.Extract[string](args, "repo")
			if err != nil {
				return nil, err
			}
			number, err := params.Extract[int](args, "pr_number")
			if err != nil {
				return nil, err
			}
			return c.ListPullRequestFiles(ctx, repo, number)
		},
	}
}

func getPullRequestDiffTool(c gh.Collaborator) registry.Tool {
	return registry.Tool{
		Def: registry.Definition{
			Name:        "get_pull_request_diff",
			Description: "Get the diff of a specific file in a pull request",
			Parameters: []registry.Parameter{
				repoParam,
				parameter("pr_number", "integer", "Pull request number", true),
				parameter("filename", "string", "Path to the file", true),
			},
		},
		Run: func(ctx context.Context, args map[string]any) (any, error) {
			repo, err := params.Extract[string](args, "repo")
			if err != nil {
				return nil, err
			}
			number, err := params.Extract[int](args, "pr_number")
			if err != nil {
				return nil, err
			}
			filename, err := params.Extract[string](args, "filename")
			if err != nil {
				return nil, err
			}
			return c.GetPullRequestDiff(ctx, repo, number, filename)
		},
	}
}

func updateOrCreatePRCommentTool(c gh.Collaborator) registry.Tool {
	return registry.Tool{
		Def: registry.Definition{
			Name:        "update_or_create_pr_comment",
			Description: "Update this bot's existing review comment on a pull request, or create a new one",
			Parameters: []registry.Parameter{
				repoParam,
				parameter("pr_number", "integer", "Pull request number", true),
				parameter("body", "string", "Comment content, supports Markdown", true),
				parameter("header_marker", "string", "Unique identifier at the beginning of comments made by this bot", true),
			},
		},
		Run: func(ctx context.Context, args map[string]any) (any, error) {
			repo, err := params.Extract[string](args, "repo")
			if err != nil {
				return nil, err
			}
			number, err := params.Extract[int](args, "pr_number")
			if err != nil {
				return nil, err
			}
			body, err := params.Extract[string](args, "body")
			if err != nil {
				return nil, err
			}
			marker, err := params.Extract[string](args, "header_marker")
			if err != nil {
				return nil, err
			}
			return c.UpdateOrCreatePRComment(ctx, repo, number, body, marker)
		},
	}
}

func createPullRequestReviewTool(c gh.Collaborator) registry.Tool {
	return registry.Tool{
		Def: registry.Definition{
			Name:        "create_pull_request_review",
			Description: "Create a review on a pull request with event 'APPROVE', 'REQUEST_CHANGES', or 'COMMENT' and optional inline comments",
			Parameters: []registry.Parameter{
				repoParam,
				parameter("pr_number", "integer", "Pull request number", true),
				parameter("body", "string", "Overall review comment, supports Markdown", true),
				parameter("event", "string", "Review event type: 'APPROVE', 'REQUEST_CHANGES', or 'COMMENT'", true),
				parameter("comments", "array", "Inline comments, each an object with path, body, line, and optional side", false),
			},
		},
		Run: func(ctx context.Context, args map[string]any) (any, error) {
			repo, err := params.Extract[string](args, "repo")
			if err != nil {
				return nil, err
			}
			number, err := params.Extract[int](args, "pr_number")
			if err != nil {
				return nil, err
			}
			body, err := params.Extract[string](args, "body")
			if err != nil {
				return nil, err
			}
			event, err := params.Extract[string](args, "event")
			if err != nil {
				return nil, err
			}
			comments, err := reviewComments(args)
			if err != nil {
				return nil, err
			}
			return c.CreatePullRequestReview(ctx, repo, number, body, event, comments)
		},
	}
}

// approvePullRequestTool issues an APPROVE review. It is only registered
// when auto-approval is explicitly enabled, so a model without the
// capability cannot approve anything.
func approvePullRequestTool(c gh.Collaborator) registry.Tool {
	return registry.Tool{
		Def: registry.Definition{
			Name:        "approve_pull_request",
			Description: "Approve a pull request, allowing it to be merged",
			Parameters: []registry.Parameter{
				repoParam,
				parameter("pr_number", "integer", "Pull request number", true),
				parameter("body", "string", "Optional approval comment", false),
			},
		},
		Run: func(ctx context.Context, args map[string]any) (any, error) {
			repo, err := params.Extract[string](args, "repo")
			if err != nil {
				return nil, err
			}
			number, err := params.Extract[int](args, "pr_number")
			if err != nil {
				return nil, err
			}
			body, err := params.ExtractOptional(args, "body", "Approved after review")
			if err != nil {
				return nil, err
			}
			return c.CreatePullRequestReview(ctx, repo, number, body, gh.ReviewEventApprove, nil)
		},
	}
}

// reviewComments parses the optional inline-comment array of
// create_pull_request_review.
func reviewComments(args map[string]any) ([]gh.ReviewComment, error) {
	raw, ok := args["comments"]
	if !ok {
		return nil, nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("comments must be an array, got %T", raw)
	}
	out := make([]gh.ReviewComment, 0, len(list))
	for i, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("comments[%d] must be an object, got %T", i, item)
		}
		path, err := params.Extract[string](m, "path")
		if err != nil {
			return nil, fmt.Errorf("comments[%d]: %w", i, err)
		}
		body, err := params.Extract[string](m, "body")
		if err != nil {
			return nil, fmt.Errorf("comments[%d]: %w", i, err)
		}
		line, err := params.Extract[int](m, "line")
		if err != nil {
			return nil, fmt.Errorf("comments[%d]: %w", i, err)
		}
		side, err := params.ExtractOptional(m, "side", "")
		if err != nil {
			return nil, fmt.Errorf("comments[%d]: %w", i, err)
		}
		out = append(out, gh.ReviewComment{Path: path, Body: body, Line: line, Side: side})
	}
	return out, nil
}

/*
Copyright 2026 CodeSentry Authors
SPDX-License-Identifier: Apache-2.0
*/

package ghtools

import (
	"context"

	"github.com/codesentry/ghagent/agent/params"
	"github.com/codesentry/ghagent/agent/registry"
	"github.com/codesentry/ghagent/gh"
)

func getIssueTool(c gh.Collaborator) registry.Tool {
	return registry.Tool{
		Def: registry.Definition{
			Name:        "get_issue",
			Description: "Get information about an issue",
			Parameters: []registry.Parameter{
				repoParam,
				parameter("issue_number", "integer", "Issue number", true),
			},
		},
		Run: func(ctx context.Context, args map[string]any) (any, error) {
			repo, err := params.Extract[string](args, "repo")
			if err != nil {
				return nil, err
			}
			number, err := params.Extract[int](args, "issue_number")
			if err != nil {
				return nil, err
			}
			return c.GetIssue(ctx, repo, number)
		},
	}
}

func listIssueCommentsTool(c gh.Collaborator) registry.Tool {
	return registry.Tool{
		Def: registry.Definition{
			Name:        "list_issue_comments",
			Description: "List the comments on an issue",
			Parameters: []registry.Parameter{
				repoParam,
				parameter("issue_number", "integer", "Issue number", true),
			},
		},
		Run: func(ctx context.Context, args map[string]any) (any, error) {
			repo, err := params.Extract[string](args, "repo")
			if err != nil {
				return nil, err
			}
			number, err := params.Extract[int](args, "issue_number")
			if err != nil {
				return nil, err
			}
			return c.ListIssueComments(ctx, repo, number)
		},
	}
}

func listIssueLabelsTool(c gh.Collaborator) registry.Tool {
	return registry.Tool{
		Def: registry.Definition{
			Name:        "list_issue_labels",
			Description: "List the labels currently on an issue",
			Parameters: []registry.Parameter{
				repoParam,
				parameter("issue_number", "integer", "Issue number", true),
			},
		},
		Run: func(ctx context.Context, args map[string]any) (any, error) {
			repo, err := params.Extract[string](args, "repo")
			if err != nil {
				return nil, err
			}
			number, err := params.Extract[int](args, "issue_number")
			if err != nil {
				return nil, err
			}
			return c.ListIssueLabels(ctx, repo, number)
		},
	}
}

func addIssueCommentTool(c gh.Collaborator) registry.Tool {
	return registry.Tool{
		Def: registry.Definition{
			Name:        "add_issue_comment",
			Description: "Add a comment to an issue",
			Parameters: []registry.Parameter{
				repoParam,
				parameter("issue_number", "integer", "Issue number", true),
				parameter("body", "string", "Comment content, supports Markdown", true),
			},
		},
		Run: func(ctx context.Context, args map[string]any) (any, error) {
			repo, err := params.Extract[string](args, "repo")
			if err != nil {
				return nil, err
			}
			number, err := params.Extract[int](args, "issue_number")
			if err != nil {
				return nil, err
			}
			body, err := params.Extract[string](args, "body")
			if err != nil {
				return nil, err
			}
			return c.AddIssueComment(ctx, repo, number, body)
		},
	}
}

func addLabelsToIssueTool(c gh.Collaborator) registry.Tool {
	return registry.Tool{
		Def: registry.Definition{
			Name:        "add_labels_to_issue",
			Description: "Add labels to an issue",
			Parameters: []registry.Parameter{
				repoParam,
				parameter("issue_number", "integer", "Issue number", true),
				parameter("labels", "array", "Label names to add", true),
			},
		},
		Run: func(ctx context.Context, args map[string]any) (any, error) {
			repo, err := params.Extract[string](args, "repo")
			if err != nil {
				return nil, err
			}
			number, err := params.Extract[int](args, "issue_number")
			if err != nil {
				return nil, err
			}
			labels, err := stringSlice(args, "labels")
			if err != nil {
				return nil, err
			}
			if err := c.AddLabelsToIssue(ctx, repo, number, labels); err != nil {
				return nil, err
			}
			return map[string]any{"added": labels}, nil
		},
	}
}

func createIssueTool(c gh.Collaborator) registry.Tool {
	return registry.Tool{
		Def: registry.Definition{
			Name:        "create_issue",
			Description: "Create a new issue in the repository",
			Parameters: []registry.Parameter{
				repoParam,
				parameter("title", "string", "Issue title", true),
				parameter("body", "string", "Issue content, supports Markdown", true),
				parameter("labels", "array", "Label names to apply to the new issue", false),
			},
		},
		Run: func(ctx context.Context, args map[string]any) (any, error) {
			repo, err := params.Extract[string](args, "repo")
			if err != nil {
				return nil, err
			}
			title, err := params.Extract[string](args, "title")
			if err != nil {
				return nil, err
			}
			body, err := params.Extract[string](args, "body")
			if err != nil {
				return nil, err
			}
			labels, err := optionalStringSlice(args, "labels")
			if err != nil {
				return nil, err
			}
			return c.CreateIssue(ctx, repo, title, body, labels)
		},
	}
}

func updateOrCreateIssueCommentTool(c gh.Collaborator) registry.Tool {
	return registry.Tool{
		Def: registry.Definition{
			Name:        "update_or_create_issue_comment",
			Description: "Update this bot's existing comment on an issue, or create a new one",
			Parameters: []registry.Parameter{
				repoParam,
				parameter("issue_number", "integer", "Issue number", true),
				parameter("body", "string", "Comment content, supports Markdown", true),
				parameter("header_marker", "string", "Unique identifier at the beginning of comments made by this bot", true),
			},
		},
		Run: func(ctx context.Context, args map[string]any) (any, error) {
			repo, err := params.Extract[string](args, "repo")
			if err != nil {
				return nil, err
			}
			number, err := params.Extract[int](args, "issue_number")
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
			return c.UpdateOrCreateIssueComment(ctx, repo, number, body, marker)
		},
	}
}

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

func getRepositoryTool(c gh.Collaborator) registry.Tool {
	return registry.Tool{
		Def: registry.Definition{
			Name:        "get_repository",
			Description: "Get general information about the repository",
			Parameters:  []registry.Parameter{repoParam},
		},
		Run: func(ctx context.Context, args map[string]any) (any, error) {
			repo, err := params.Extract[string](args, "repo")
			if err != nil {
				return nil, err
			}
			return c.GetRepository(ctx, repo)
		},
	}
}

func getRepositoryStatsTool(c gh.Collaborator) registry.Tool {
	return registry.Tool{
		Def: registry.Definition{
			Name:        "get_repository_stats",
			Description: "Get activity statistics for the repository",
			Parameters:  []registry.Parameter{repoParam},
		},
		Run: func(ctx context.Context, args map[string]any) (any, error) {
			repo, err := params.Extract[string](args, "repo")
			if err != nil {
				return nil, err
			}
			return c.GetRepositoryStats(ctx, repo)
		},
	}
}

func getRepositoryFileContentTool(c gh.Collaborator) registry.Tool {
	return registry.Tool{
		Def: registry.Definition{
			Name:        "get_repository_file_content",
			Description: "Get the content of a file in the repository",
			Parameters: []registry.Parameter{
				repoParam,
				parameter("path", "string", "Path to the file within the repository", true),
				parameter("ref", "string", "Branch, tag, or commit SHA (default branch if omitted)", false),
			},
		},
		Run: func(ctx context.Context, args map[string]any) (any, error) {
			repo, err := params.Extract[string](args, "repo")
			if err != nil {
				return nil, err
			}
			path, err := params.Extract[string](args, "path")
			if err != nil {
				return nil, err
			}
			ref, err := params.ExtractOptional(args, "ref", "")
			if err != nil {
				return nil, err
			}
			return c.GetFileContent(ctx, repo, path, ref)
		},
	}
}

func listRepositoryFilesTool(c gh.Collaborator) registry.Tool {
	return registry.Tool{
		Def: registry.Definition{
			Name:        "list_repository_files",
			Description: "List the files and directories under a path in the repository",
			Parameters: []registry.Parameter{
				repoParam,
				parameter("path", "string", "Directory path within the repository (repository root if omitted)", false),
				parameter("ref", "string", "Branch, tag, or commit SHA (default branch if omitted)", false),
			},
		},
		Run: func(ctx context.Context, args map[string]any) (any, error) {
			repo, err := params.Extract[string](args, "repo")
			if err != nil {
				return nil, err
			}
			path, err := params.ExtractOptional(args, "path", "")
			if err != nil {
				return nil, err
			}
			ref, err := params.ExtractOptional(args, "ref", "")
			if err != nil {
				return nil, err
			}
			return c.ListRepositoryFiles(ctx, repo, path, ref)
		},
	}
}

func searchCodeTool(c gh.Collaborator) registry.Tool {
	return registry.Tool{
		Def: registry.Definition{
			Name:        "search_code",
			Description: "Search for code within the repository using GitHub code search syntax",
			Parameters: []registry.Parameter{
				repoParam,
				parameter("query", "string", "Search query (e.g., 'TODO language:go')", true),
			},
		},
		Run: func(ctx context.Context, args map[string]any) (any, error) {
			repo, err := params.Extract[string](args, "repo")
			if err != nil {
				return nil, err
			}
			query, err := params.Extract[string](args, "query")
			if err != nil {
				return nil, err
			}
			return c.SearchCode(ctx, repo, query)
		},
	}
}

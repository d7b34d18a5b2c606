/*
Copyright 2026 CodeSentry Authors
SPDX-License-Identifier: Apache-2.0
*/

package actions

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/chainguard-dev/clog"

	"github.com/codesentry/ghagent/agent"
	"github.com/codesentry/ghagent/agent/result"
	"github.com/codesentry/ghagent/gh"
	"github.com/codesentry/ghagent/gh/ghtools"
	"github.com/codesentry/ghagent/promptbuilder"
)

// IssueMarker prefixes the bot's analysis comment for update-or-create
// matching.
const IssueMarker = "## AI Issue Analysis"

// IssueCategory classifies an issue with a confidence score.
type IssueCategory struct {
	Name       string  `json:"name" jsonschema:"required,description=The name of the category"`
	Confidence float64 `json:"confidence" jsonschema:"required,description=Confidence score (0-1)"`
}

// IssueAnalysis is the structured answer an analysis run must produce.
type IssueAnalysis struct {
	Summary      string        `json:"summary" jsonschema:"required,description=A summary of the issue"`
	Category     IssueCategory `json:"category" jsonschema:"required,description=The category of the issue (e.g. bug / feature request / question)"`
	Complexity   string        `json:"complexity" jsonschema:"required,description=Estimated complexity (low / medium / high)"`
	Priority     string        `json:"priority" jsonschema:"required,description=Suggested priority (low / medium / high)"`
	RelatedAreas []string      `json:"related_areas" jsonschema:"required,description=Code areas that might be related to this issue"`
	NextSteps    []string      `json:"next_steps" jsonschema:"required,description=Suggested next steps to resolve the issue"`
}

const issueInstructions = `You are an issue analyzer that helps categorize and assess GitHub issues.

Your task is to investigate and analyze the issue using the tools provided
and generate:
1. A summary of the issue
2. The category (bug, feature request, question, etc.) with confidence level
3. Estimated complexity (low, medium, high)
4. Suggested priority (low, medium, high)
5. Code areas that might be related
6. Suggested next steps

Be thorough in your investigation and provide specific recommendations based
on the issue content and repository context. Use the provided tools to
investigate the root cause or possible solutions.

Call the add_labels_to_issue tool to add the appropriate labels to the issue.`

var issueTask = promptbuilder.MustNew(`Please analyze this GitHub issue:

Issue metadata:
{{issue}}

Repository metadata:
{{repository}}

When you are done investigating, respond with a single JSON object matching
this schema:

{{schema}}`)

// IssueAnalyze analyzes an issue and publishes the result as an
// update-or-create issue comment.
type IssueAnalyze struct {
	collab  gh.Collaborator
	backend agent.Backend
	cfg     Config
}

// NewIssueAnalyze creates the issue analysis driver.
func NewIssueAnalyze(collab gh.Collaborator, backend agent.Backend, cfg Config) (*IssueAnalyze, error) {
	if collab == nil {
		return nil, errors.New("collaborator cannot be nil")
	}
	if backend == nil {
		return nil, errors.New("backend cannot be nil")
	}
	return &IssueAnalyze{collab: collab, backend: backend, cfg: cfg}, nil
}

// Run executes one analysis for the issue named by the event.
func (a *IssueAnalyze) Run(ctx context.Context, event *Event) error {
	repo, err := event.repoName()
	if err != nil {
		return err
	}
	number, err := event.issueNumber()
	if err != nil {
		return err
	}
	log := clog.FromContext(ctx).With("action", "issue-analyze", "repo", repo, "issue", number)
	ctx = clog.WithLogger(ctx, log)

	issue, err := a.collab.GetIssue(ctx, repo, number)
	if err != nil {
		return fmt.Errorf("fetching issue: %w", err)
	}
	repository, err := a.collab.GetRepository(ctx, repo)
	if err != nil {
		return fmt.Errorf("fetching repository: %w", err)
	}

	task, err := buildIssueTask(issue, repository)
	if err != nil {
		return fmt.Errorf("building analysis prompt: %w", err)
	}

	instructions := issueInstructions
	if a.cfg.CustomPrompt != "" {
		instructions = a.cfg.CustomPrompt
	}

	res, err := runOnce(ctx, a.backend, ghtools.IssueTools(a.collab), instructions, task, a.cfg.MaxTurns)
	if err != nil {
		return fmt.Errorf("analysis run: %w", err)
	}

	analysis, err := result.Decode[IssueAnalysis](res.Content)
	if err != nil {
		return fmt.Errorf("analysis answer: %w", err)
	}

	posted, err := a.collab.UpdateOrCreateIssueComment(ctx, repo, number, renderAnalysis(analysis), IssueMarker)
	if err != nil {
		return fmt.Errorf("publishing analysis comment: %w", err)
	}
	log.With("comment_id", posted.ID).With("comment_action", posted.Action).Info("Published analysis")
	return nil
}

func buildIssueTask(issue *gh.Issue, repository *gh.Repository) (string, error) {
	p, err := issueTask.BindJSON("issue", issue)
	if err == nil {
		p, err = p.BindJSON("repository", repository)
	}
	if err == nil {
		p, err = p.BindJSON("schema", result.Schema[IssueAnalysis]())
	}
	if err != nil {
		return "", err
	}
	return p.Render()
}

// renderAnalysis formats the structured result as the Markdown comment body.
func renderAnalysis(a IssueAnalysis) string {
	var b strings.Builder
	b.WriteString(IssueMarker)
	b.WriteString("\n\n")
	b.WriteString(a.Summary)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "**Category**: %s (confidence %.0f%%)\n", a.Category.Name, a.Category.Confidence*100)
	fmt.Fprintf(&b, "**Complexity**: %s\n", a.Complexity)
	fmt.Fprintf(&b, "**Priority**: %s\n", a.Priority)
	b.WriteString("\n### Related Areas\n\n")
	writeList(&b, a.RelatedAreas, "None identified.")
	b.WriteString("\n### Next Steps\n\n")
	writeList(&b, a.NextSteps, "None suggested.")
	return b.String()
}

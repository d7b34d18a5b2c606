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

// ReviewMarker prefixes the bot's review comment so a later run edits it in
// place instead of stacking new comments.
const ReviewMarker = "## AI Code Review"

// ReviewResult is the structured answer a review run must produce.
type ReviewResult struct {
	Summary     string   `json:"summary" jsonschema:"required,description=A summary of the changes in the PR"`
	CodeQuality string   `json:"code_quality" jsonschema:"required,description=Assessment of code quality"`
	Issues      []string `json:"issues" jsonschema:"required,description=List of potential issues or bugs found"`
	Suggestions []string `json:"suggestions" jsonschema:"required,description=List of suggestions for improvement"`
	Assessment  string   `json:"assessment" jsonschema:"required,description=Overall assessment (approve / request changes / comment)"`
	ReviewEvent string   `json:"review_event" jsonschema:"required,description=The review event type: APPROVE / REQUEST_CHANGES / COMMENT"`
}

const reviewInstructions = `You are a code-review agent analyzing GitHub pull requests.

Your objectives:
- Use provided tools to gather PR data and context.
- Identify key changes, assess quality, detect issues, and suggest improvements.
- Deliver:
  - Summary of changes
  - Code quality assessment
  - Potential bugs or issues
  - Actionable suggestions
  - Overall recommendation: APPROVE, REQUEST_CHANGES, or COMMENT

Use get_repository_file_content and search_code to gather surrounding context
as needed, and create_pull_request_review to leave inline comments on specific
lines.

Guidelines:
- Be concise, clear, and constructive.
- Reference code examples in feedback.
- Explain the rationale behind each recommendation.`

const approveInstructions = `

After completing the review, if you are confident the changes meet quality
standards and are ready to merge, call the approve_pull_request tool with a
short approval message. Only call it when you would approve without
reservations.`

var reviewTask = promptbuilder.MustNew(`Please review this pull request:

Pull request metadata:
{{pull_request}}

The review covers {{file_count}} changed files. Diffs:

{{diffs}}

When you are done investigating, respond with a single JSON object matching
this schema:

{{schema}}`)

// reviewFile pairs one changed file's metadata with its patch for the task
// prompt.
type reviewFile struct {
	Filename  string `json:"filename"`
	Status    string `json:"status"`
	Additions int    `json:"additions"`
	Deletions int    `json:"deletions"`
	Diff      string `json:"diff"`
}

// PRReview reviews a pull request and publishes the result as an
// update-or-create PR comment.
type PRReview struct {
	collab  gh.Collaborator
	backend agent.Backend
	cfg     Config
}

// NewPRReview creates the pull request review driver.
func NewPRReview(collab gh.Collaborator, backend agent.Backend, cfg Config) (*PRReview, error) {
	if collab == nil {
		return nil, errors.New("collaborator cannot be nil")
	}
	if backend == nil {
		return nil, errors.New("backend cannot be nil")
	}
	return &PRReview{collab: collab, backend: backend, cfg: cfg}, nil
}

// Run executes one review for the pull request named by the event.
func (a *PRReview) Run(ctx context.Context, event *Event) error {
	repo, err := event.repoName()
	if err != nil {
		return err
	}
	number, err := event.pullRequestNumber()
	if err != nil {
		return err
	}
	log := clog.FromContext(ctx).With("action", "pr-review", "repo", repo, "pr", number)
	ctx = clog.WithLogger(ctx, log)

	pr, err := a.collab.GetPullRequest(ctx, repo, number)
	if err != nil {
		return fmt.Errorf("fetching pull request: %w", err)
	}
	files, err := a.collab.ListPullRequestFiles(ctx, repo, number)
	if err != nil {
		return fmt.Errorf("fetching pull request files: %w", err)
	}

	matched := a.cfg.matchFiles(files)
	if len(matched) == 0 {
		return fmt.Errorf("no files matched for review in %s#%d", repo, number)
	}
	log.With("total", len(files)).With("matched", len(matched)).Info("Selected files for review")

	task, err := a.buildTask(ctx, repo, number, pr, matched)
	if err != nil {
		return fmt.Errorf("building review prompt: %w", err)
	}

	instructions := reviewInstructions
	if a.cfg.AutoApprove {
		instructions += approveInstructions
	}
	if a.cfg.CustomPrompt != "" {
		instructions = a.cfg.CustomPrompt
	}

	res, err := runOnce(ctx, a.backend, ghtools.ReviewTools(a.collab, a.cfg.AutoApprove), instructions, task, a.cfg.MaxTurns)
	if err != nil {
		return fmt.Errorf("review run: %w", err)
	}

	review, err := result.Decode[ReviewResult](res.Content)
	if err != nil {
		return fmt.Errorf("review answer: %w", err)
	}

	posted, err := a.collab.UpdateOrCreatePRComment(ctx, repo, number, renderReview(review), ReviewMarker)
	if err != nil {
		return fmt.Errorf("publishing review comment: %w", err)
	}
	log.With("comment_id", posted.ID).With("comment_action", posted.Action).Info("Published review")

	if toolCalled(res.ToolCalls, "approve_pull_request") {
		log.Info("Model approved the pull request")
	}
	return nil
}

// buildTask renders the review task prompt, fetching the per-file diffs for
// the matched files. A file whose diff cannot be retrieved is still listed so
// the model knows it exists.
func (a *PRReview) buildTask(ctx context.Context, repo string, number int, pr *gh.PullRequest, matched []gh.ChangedFile) (string, error) {
	log := clog.FromContext(ctx)

	diffs := make([]reviewFile, 0, len(matched))
	for _, f := range matched {
		diff, err := a.collab.GetPullRequestDiff(ctx, repo, number, f.Filename)
		if err != nil {
			log.With("file", f.Filename).With("error", err).Warn("Could not retrieve diff")
			diff = "Error: could not retrieve diff"
		}
		diffs = append(diffs, reviewFile{
			Filename:  f.Filename,
			Status:    f.Status,
			Additions: f.Additions,
			Deletions: f.Deletions,
			Diff:      diff,
		})
	}

	p, err := reviewTask.BindJSON("pull_request", pr)
	if err == nil {
		p, err = p.BindJSON("file_count", len(diffs))
	}
	if err == nil {
		p, err = p.BindJSON("diffs", diffs)
	}
	if err == nil {
		p, err = p.BindJSON("schema", result.Schema[ReviewResult]())
	}
	if err != nil {
		return "", err
	}
	return p.Render()
}

// renderReview formats the structured result as the Markdown comment body.
func renderReview(r ReviewResult) string {
	var b strings.Builder
	b.WriteString(ReviewMarker)
	b.WriteString("\n\n")
	b.WriteString(r.Summary)
	b.WriteString("\n\n### Code Quality\n\n")
	b.WriteString(r.CodeQuality)
	b.WriteString("\n\n### Issues\n\n")
	writeList(&b, r.Issues, "No issues found.")
	b.WriteString("\n### Suggestions\n\n")
	writeList(&b, r.Suggestions, "No suggestions.")
	b.WriteString("\n### Assessment\n\n")
	fmt.Fprintf(&b, "**%s**: %s\n", r.ReviewEvent, r.Assessment)
	return b.String()
}

func writeList(b *strings.Builder, items []string, empty string) {
	if len(items) == 0 {
		b.WriteString(empty)
		b.WriteString("\n")
		return
	}
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
}

func toolCalled(calls []agent.ToolCall, name string) bool {
	for _, c := range calls {
		if c.Name == name {
			return true
		}
	}
	return false
}

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

// ScanMarker prefixes the body of the report issue a scan run files.
const ScanMarker = "## AI Code Scan"

// ScanFinding is one problem discovered during a scan.
type ScanFinding struct {
	File        string `json:"file" jsonschema:"required,description=File path where the issue was found"`
	Line        int    `json:"line,omitempty" jsonschema:"description=Line number where the issue was found"`
	Severity    string `json:"severity" jsonschema:"required,description=Severity of the issue (critical / high / medium / low)"`
	Description string `json:"description" jsonschema:"required,description=Description of the issue"`
	Suggestion  string `json:"suggestion" jsonschema:"required,description=Suggestion for fixing the issue"`
}

// ScanResult is the structured answer a scan run must produce.
type ScanResult struct {
	Overview        string        `json:"overview" jsonschema:"required,description=Overview of the code scan results"`
	Issues          []ScanFinding `json:"issues" jsonschema:"required,description=List of issues found"`
	GoodPractices   []string      `json:"good_practices" jsonschema:"required,description=Good practices observed in the code"`
	Recommendations []string      `json:"recommendations" jsonschema:"required,description=Overall recommendations for code improvements"`
}

const scanInstructions = `You are a code scan agent that analyzes code in GitHub repositories.

Your task is to scan repository files for issues and provide:
1. An overview of the code scan results
2. A list of issues with details (file, line if possible, severity, description, suggestion)
3. Good practices observed in the code
4. Overall recommendations for improvement

Look for:
- Security vulnerabilities
- Performance issues
- Code quality problems
- Potential bugs
- Anti-patterns

Explore the repository with list_repository_files, read candidate files with
get_repository_file_content, and locate suspicious patterns with search_code.
Be thorough and specific in your analysis, focusing on the most important
issues first.`

var scanTask = promptbuilder.MustNew(`Please perform a security and best practices scan on this repository:

Repository metadata:
{{repository}}

Repository activity:
{{stats}}

Scan for security vulnerabilities, code quality issues, and best practices.

When you are done investigating, respond with a single JSON object matching
this schema:

{{schema}}`)

// CodeScan scans a repository and files a report issue when it finds
// problems.
type CodeScan struct {
	collab  gh.Collaborator
	backend agent.Backend
	cfg     Config
}

// NewCodeScan creates the repository scan driver.
func NewCodeScan(collab gh.Collaborator, backend agent.Backend, cfg Config) (*CodeScan, error) {
	if collab == nil {
		return nil, errors.New("collaborator cannot be nil")
	}
	if backend == nil {
		return nil, errors.New("backend cannot be nil")
	}
	return &CodeScan{collab: collab, backend: backend, cfg: cfg}, nil
}

// Run executes one scan of the repository named by the event.
func (a *CodeScan) Run(ctx context.Context, event *Event) error {
	repo, err := event.repoName()
	if err != nil {
		return err
	}
	log := clog.FromContext(ctx).With("action", "code-scan", "repo", repo)
	ctx = clog.WithLogger(ctx, log)

	repository, err := a.collab.GetRepository(ctx, repo)
	if err != nil {
		return fmt.Errorf("fetching repository: %w", err)
	}
	stats, err := a.collab.GetRepositoryStats(ctx, repo)
	if err != nil {
		return fmt.Errorf("fetching repository stats: %w", err)
	}

	task, err := buildScanTask(repository, stats)
	if err != nil {
		return fmt.Errorf("building scan prompt: %w", err)
	}

	instructions := scanInstructions
	if a.cfg.CustomPrompt != "" {
		instructions = a.cfg.CustomPrompt
	}

	res, err := runOnce(ctx, a.backend, ghtools.ScanTools(a.collab), instructions, task, a.cfg.MaxTurns)
	if err != nil {
		return fmt.Errorf("scan run: %w", err)
	}

	scan, err := result.Decode[ScanResult](res.Content)
	if err != nil {
		return fmt.Errorf("scan answer: %w", err)
	}

	// A clean scan leaves no trace in the repository.
	if len(scan.Issues) == 0 {
		log.Info("Scan found no issues, skipping report")
		return nil
	}

	title := fmt.Sprintf("Code scan report: %d finding(s)", len(scan.Issues))
	ref, err := a.collab.CreateIssue(ctx, repo, title, renderScan(scan), []string{"code-scan"})
	if err != nil {
		return fmt.Errorf("filing scan report: %w", err)
	}
	log.With("issue", ref.Number).Info("Filed scan report")
	return nil
}

func buildScanTask(repository *gh.Repository, stats *gh.RepositoryStats) (string, error) {
	p, err := scanTask.BindJSON("repository", repository)
	if err == nil {
		p, err = p.BindJSON("stats", stats)
	}
	if err == nil {
		p, err = p.BindJSON("schema", result.Schema[ScanResult]())
	}
	if err != nil {
		return "", err
	}
	return p.Render()
}

// renderScan formats the structured result as the report issue body.
func renderScan(s ScanResult) string {
	var b strings.Builder
	b.WriteString(ScanMarker)
	b.WriteString("\n\n")
	b.WriteString(s.Overview)
	b.WriteString("\n\n### Findings\n\n")
	for _, f := range s.Issues {
		location := f.File
		if f.Line > 0 {
			location = fmt.Sprintf("%s:%d", f.File, f.Line)
		}
		fmt.Fprintf(&b, "- **[%s]** `%s`: %s\n  - Suggestion: %s\n", strings.ToUpper(f.Severity), location, f.Description, f.Suggestion)
	}
	b.WriteString("\n### Good Practices\n\n")
	writeList(&b, s.GoodPractices, "None noted.")
	b.WriteString("\n### Recommendations\n\n")
	writeList(&b, s.Recommendations, "None.")
	return b.String()
}

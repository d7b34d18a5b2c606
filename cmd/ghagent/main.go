/*
Copyright 2026 CodeSentry Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package main is the GitHub Actions entrypoint: it reads configuration from
// the environment, parses the triggering event, and runs one action driver.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/chainguard-dev/clog"
	"github.com/sethvargo/go-envconfig"

	"github.com/codesentry/ghagent/actions"
	"github.com/codesentry/ghagent/agent"
	"github.com/codesentry/ghagent/backend/anthropicbackend"
	"github.com/codesentry/ghagent/backend/googlebackend"
	"github.com/codesentry/ghagent/backend/openaibackend"
	"github.com/codesentry/ghagent/gh"
)

type config struct {
	ActionType      string `env:"ACTION_TYPE,required"`
	GitHubEventPath string `env:"GITHUB_EVENT_PATH,required"`
	LogLevel        string `env:"LOG_LEVEL,default=info"`

	// Token auth is the default; App auth is used when all three App
	// variables are set.
	GitHubToken          string `env:"GITHUB_TOKEN"`
	GitHubAppID          int64  `env:"GITHUB_APP_ID"`
	GitHubInstallationID int64  `env:"GITHUB_INSTALLATION_ID"`
	GitHubAppPrivateKey  string `env:"GITHUB_APP_PRIVATE_KEY"`

	Model           string `env:"MODEL,default=gpt-4o-mini"`
	OpenAIAPIKey    string `env:"OPENAI_API_KEY"`
	AnthropicAPIKey string `env:"ANTHROPIC_API_KEY"`
	GeminiAPIKey    string `env:"GEMINI_API_KEY"`

	MaxTurns        int    `env:"MAX_TURNS,default=10"`
	CustomPrompt    string `env:"CUSTOM_PROMPT"`
	AutoApprove     bool   `env:"AUTO_APPROVE,default=false"`
	MaxFiles        int    `env:"MAX_FILES,default=10"`
	IncludePatterns string `env:"INCLUDE_PATTERNS"`
	ExcludePatterns string `env:"EXCLUDE_PATTERNS"`
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var cfg config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		clog.FatalContextf(ctx, "processing config: %v", err)
	}

	log := clog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel(cfg.LogLevel)}))
	ctx = clog.WithLogger(ctx, log)

	event, err := actions.ParseEventFile(cfg.GitHubEventPath)
	if err != nil {
		clog.FatalContextf(ctx, "reading event: %v", err)
	}

	collab, err := newCollaborator(ctx, &cfg)
	if err != nil {
		clog.FatalContextf(ctx, "creating github client: %v", err)
	}
	backend, err := newBackend(ctx, &cfg)
	if err != nil {
		clog.FatalContextf(ctx, "creating model backend: %v", err)
	}

	acfg := actions.Config{
		MaxTurns:        cfg.MaxTurns,
		CustomPrompt:    cfg.CustomPrompt,
		AutoApprove:     cfg.AutoApprove,
		MaxFiles:        cfg.MaxFiles,
		IncludePatterns: splitPatterns(cfg.IncludePatterns),
		ExcludePatterns: splitPatterns(cfg.ExcludePatterns),
	}

	log.With("action", cfg.ActionType).With("model", cfg.Model).Info("Starting action")
	if err := runAction(ctx, cfg.ActionType, collab, backend, acfg, event); err != nil {
		clog.FatalContextf(ctx, "action %s failed: %v", cfg.ActionType, err)
	}
	log.With("action", cfg.ActionType).Info("Action completed")
}

func runAction(ctx context.Context, action string, collab gh.Collaborator, backend agent.Backend, cfg actions.Config, event *actions.Event) error {
	switch action {
	case "pr-review":
		driver, err := actions.NewPRReview(collab, backend, cfg)
		if err != nil {
			return err
		}
		return driver.Run(ctx, event)
	case "issue-analyze":
		driver, err := actions.NewIssueAnalyze(collab, backend, cfg)
		if err != nil {
			return err
		}
		return driver.Run(ctx, event)
	case "code-scan":
		driver, err := actions.NewCodeScan(collab, backend, cfg)
		if err != nil {
			return err
		}
		return driver.Run(ctx, event)
	default:
		return fmt.Errorf("unknown action type %q (want pr-review, issue-analyze, or code-scan)", action)
	}
}

func newCollaborator(ctx context.Context, cfg *config) (gh.Collaborator, error) {
	if cfg.GitHubAppID != 0 || cfg.GitHubInstallationID != 0 || cfg.GitHubAppPrivateKey != "" {
		return gh.NewAppClient(cfg.GitHubAppID, cfg.GitHubInstallationID, []byte(cfg.GitHubAppPrivateKey))
	}
	return gh.NewClient(ctx, cfg.GitHubToken)
}

// newBackend selects the model provider by model name prefix: claude-* goes
// to Anthropic, gemini-* to Google, everything else (gpt-*, o*) to OpenAI.
func newBackend(ctx context.Context, cfg *config) (agent.Backend, error) {
	switch {
	case strings.HasPrefix(cfg.Model, "claude"):
		return anthropicbackend.New(cfg.AnthropicAPIKey, cfg.Model)
	case strings.HasPrefix(cfg.Model, "gemini"):
		return googlebackend.New(ctx, cfg.GeminiAPIKey, cfg.Model)
	default:
		return openaibackend.New(cfg.OpenAIAPIKey, cfg.Model)
	}
}

// splitPatterns parses a comma-separated glob list, dropping empty entries.
func splitPatterns(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func logLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

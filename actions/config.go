/*
Copyright 2026 CodeSentry Authors
SPDX-License-Identifier: Apache-2.0
*/

package actions

import (
	"path"
	"sort"

	"github.com/codesentry/ghagent/gh"
)

// Config carries the knobs shared by all drivers. Zero values select the
// defaults noted per field.
type Config struct {
	// MaxTurns caps the number of model calls per run. Zero keeps the
	// orchestrator default.
	MaxTurns int
	// CustomPrompt replaces the driver's built-in instructions entirely
	// when non-empty.
	CustomPrompt string
	// AutoApprove registers the approve_pull_request tool for review runs.
	AutoApprove bool
	// MaxFiles caps how many changed files a review covers. Zero means 10.
	MaxFiles int
	// IncludePatterns and ExcludePatterns are path.Match globs applied to
	// changed file paths. Empty include means every file is eligible.
	IncludePatterns []string
	ExcludePatterns []string
}

const defaultMaxFiles = 10

func (c Config) maxFiles() int {
	if c.MaxFiles <= 0 {
		return defaultMaxFiles
	}
	return c.MaxFiles
}

// matchFiles filters changed files through the include/exclude globs, orders
// them by change count descending so the heaviest files survive the cap, and
// truncates to the configured maximum.
func (c Config) matchFiles(files []gh.ChangedFile) []gh.ChangedFile {
	matched := make([]gh.ChangedFile, 0, len(files))
	for _, f := range files {
		if matchAny(c.ExcludePatterns, f.Filename) {
			continue
		}
		if len(c.IncludePatterns) == 0 || matchAny(c.IncludePatterns, f.Filename) {
			matched = append(matched, f)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Changes > matched[j].Changes
	})

	if max := c.maxFiles(); len(matched) > max {
		matched = matched[:max]
	}
	return matched
}

func matchAny(patterns []string, name string) bool {
	for _, p := range patterns {
		if ok, err := path.Match(p, name); err == nil && ok {
			return true
		}
	}
	return false
}

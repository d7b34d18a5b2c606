/*
Copyright 2026 CodeSentry Authors
SPDX-License-Identifier: Apache-2.0
*/

package gh

import (
	"fmt"

	"github.com/waigani/diffparser"
)

// validateReviewComments checks each inline review comment against the pull
// request's diff before anything is sent to GitHub: the path must be among
// the changed files and the line must actually appear in the patch, on the
// requested side. GitHub rejects out-of-diff comments with an opaque 422;
// validating here turns that into an error the model can correct.
func validateReviewComments(files []ChangedFile, comments []ReviewComment) error {
	byPath := make(map[string]ChangedFile, len(files))
	for _, f := range files {
		byPath[f.Filename] = f
	}

	for _, rc := range comments {
		file, ok := byPath[rc.Path]
		if !ok {
			return fmt.Errorf("review comment path %q is not part of the pull request", rc.Path)
		}
		if file.Patch == "" {
			return fmt.Errorf("file %q has no patch to comment on", rc.Path)
		}
		if rc.Line <= 0 {
			return fmt.Errorf("review comment on %q has invalid line %d", rc.Path, rc.Line)
		}
		ok, err := lineInPatch(file.Filename, file.Patch, rc.Line, rc.Side)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("line %d of %q is not part of the diff", rc.Line, rc.Path)
		}
	}
	return nil
}

// lineInPatch reports whether the given line number appears in the patch on
// the requested side ("LEFT" for the old file, anything else for the new).
func lineInPatch(path, patch string, line int, side string) (bool, error) {
	diff, err := diffparser.Parse(withDiffHeader(path, patch))
	if err != nil {
		return false, fmt.Errorf("parsing patch for %q: %w", path, err)
	}

	left := side == "LEFT"
	for _, f := range diff.Files {
		for _, hunk := range f.Hunks {
			lines := hunk.NewRange.Lines
			if left {
				lines = hunk.OrigRange.Lines
			}
			for _, l := range lines {
				if l.Number == line {
					return true, nil
				}
			}
		}
	}
	return false, nil
}

// withDiffHeader prepends the unified-diff file header the parser expects;
// GitHub's per-file patch field carries only the hunks.
func withDiffHeader(path, patch string) string {
	return fmt.Sprintf("diff --git a/%s b/%s\n--- a/%s\n+++ b/%s\n%s", path, path, path, path, patch)
}

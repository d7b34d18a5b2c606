/*
Copyright 2026 CodeSentry Authors
SPDX-License-Identifier: Apache-2.0
*/

package gh

import (
	"strings"
	"testing"
)

const samplePatch = `@@ -1,3 +1,4 @@
 package main
+import "fmt"

 func main() {}`

func sampleFiles() []ChangedFile {
	return []ChangedFile{
		{Filename: "main.go", Status: "modified", Patch: samplePatch},
		{Filename: "assets/logo.png", Status: "added"},
	}
}

func TestValidateReviewComments(t *testing.T) {
	tests := []struct {
		name    string
		comment ReviewComment
		wantErr string
	}{
		{
			name:    "added line on new side",
			comment: ReviewComment{Path: "main.go", Body: "use log instead", Line: 2},
		},
		{
			name:    "context line on new side",
			comment: ReviewComment{Path: "main.go", Body: "nit", Line: 1},
		},
		{
			name:    "old side line",
			comment: ReviewComment{Path: "main.go", Body: "was fine before", Line: 3, Side: "LEFT"},
		},
		{
			name:    "line outside the diff",
			comment: ReviewComment{Path: "main.go", Body: "nope", Line: 99},
			wantErr: "not part of the diff",
		},
		{
			name:    "path not in pull request",
			comment: ReviewComment{Path: "missing.go", Body: "nope", Line: 1},
			wantErr: "not part of the pull request",
		},
		{
			name:    "file without patch",
			comment: ReviewComment{Path: "assets/logo.png", Body: "nope", Line: 1},
			wantErr: "no patch",
		},
		{
			name:    "non-positive line",
			comment: ReviewComment{Path: "main.go", Body: "nope", Line: 0},
			wantErr: "invalid line",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateReviewComments(sampleFiles(), []ReviewComment{tt.comment})
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("validateReviewComments() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("validateReviewComments() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateReviewCommentsEmpty(t *testing.T) {
	if err := validateReviewComments(sampleFiles(), nil); err != nil {
		t.Errorf("validateReviewComments(nil) = %v, want nil", err)
	}
}

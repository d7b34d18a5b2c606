/*
Copyright 2026 CodeSentry Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package result turns free-form model responses into typed records.
//
// Models frequently wrap their JSON answers in markdown code fences or
// surround them with prose; ExtractJSON peels that away. Extract adds
// unmarshaling, and Decode additionally enforces the required fields that
// the target type declares via jsonschema struct tags:
//
//	type Review struct {
//		Summary    string `json:"summary" jsonschema:"required"`
//		Assessment string `json:"assessment" jsonschema:"required"`
//	}
//
//	review, err := result.Decode[Review](runResult.Content)
//
// A missing required field yields a *ValidationError rather than a silently
// zero-valued struct.
package result

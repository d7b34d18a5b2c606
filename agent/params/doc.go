/*
Copyright 2026 CodeSentry Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package params provides type-safe extraction of tool parameters from the
// untyped argument maps the model produces.
//
// JSON numbers arrive as float64; Extract and ExtractOptional transparently
// convert them to the integer types tool executors expect:
//
//	number, err := params.Extract[int](args, "pr_number")
//
// Error and ErrorWithContext build the error-shaped result maps that are fed
// back to the model when a tool call cannot be honored.
package params

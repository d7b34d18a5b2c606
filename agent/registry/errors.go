/*
Copyright 2026 CodeSentry Authors
SPDX-License-Identifier: Apache-2.0
*/

package registry

import (
	"errors"
	"fmt"
)

// ErrDuplicateTool is returned by Register when a tool name is already taken.
var ErrDuplicateTool = errors.New("duplicate tool")

// ErrToolNotFound is returned by Dispatch when the model requests a name that
// was never registered. The orchestrator treats this as fatal to the run.
var ErrToolNotFound = errors.New("tool not found")

// ArgumentError reports a tool call whose arguments do not satisfy the
// declared parameter schema.
type ArgumentError struct {
	Tool   string
	Param  string
	Reason string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("tool %q parameter %q: %s", e.Tool, e.Param, e.Reason)
}

// ExecutionError wraps a failure from a tool's executor, e.g. an upstream
// GitHub API error. These are recoverable: the error text is fed back to the
// model as the tool result.
type ExecutionError struct {
	Tool string
	Err  error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("tool %q execution failed: %v", e.Tool, e.Err)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

/*
Copyright 2026 CodeSentry Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package ghtools binds the GitHub collaborator operations into registry
// tools the model can call. Each action gets its own toolset so the model
// is only offered operations relevant to its task; the approval-issuing
// tool is registered only when the caller explicitly enables it.
package ghtools

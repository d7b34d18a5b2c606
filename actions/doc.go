/*
Copyright 2026 CodeSentry Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package actions implements the three automation drivers: pull request
// review, issue analysis, and repository code scan. Each driver validates
// the triggering event, prefetches context through the GitHub collaborator,
// runs one bounded orchestrator conversation over its toolset, validates
// the model's structured answer, and publishes the result.
package actions

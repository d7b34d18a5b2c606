/*
Copyright 2026 CodeSentry Authors
SPDX-License-Identifier: Apache-2.0
*/

package agent

import (
	"errors"
	"fmt"
)

// Option is a functional option for configuring the orchestrator.
type Option func(*Orchestrator) error

// WithMaxTurns sets the iteration ceiling: the maximum number of model calls
// permitted in a single run. The run aborts with LimitReachedContent once the
// ceiling is reached, regardless of model behavior.
func WithMaxTurns(n int) Option {
	return func(o *Orchestrator) error {
		if n <= 0 {
			return fmt.Errorf("max turns must be positive, got %d", n)
		}
		o.maxTurns = n
		return nil
	}
}

// WithSystemPrompt overrides the default system prompt seeded as the first
// conversation message.
func WithSystemPrompt(prompt string) Option {
	return func(o *Orchestrator) error {
		if prompt == "" {
			return errors.New("system prompt cannot be empty")
		}
		o.systemPrompt = prompt
		return nil
	}
}

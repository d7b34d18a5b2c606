/*
Copyright 2026 CodeSentry Authors
SPDX-License-Identifier: Apache-2.0
*/

package actions

import (
	"context"
	"fmt"

	"github.com/codesentry/ghagent/agent"
	"github.com/codesentry/ghagent/agent/registry"
)

// runOnce builds the orchestrator for one driver invocation and runs it to
// completion. A budget-exhausted run is an error at this level: the driver
// has no answer to publish.
func runOnce(ctx context.Context, backend agent.Backend, reg *registry.Registry, instructions, task string, maxTurns int) (*agent.RunResult, error) {
	opts := []agent.Option{agent.WithSystemPrompt(instructions)}
	if maxTurns > 0 {
		opts = append(opts, agent.WithMaxTurns(maxTurns))
	}

	orch, err := agent.New(backend, reg, opts...)
	if err != nil {
		return nil, err
	}
	res, err := orch.Run(ctx, task)
	if err != nil {
		return nil, err
	}
	if res.State != agent.StateDone {
		return nil, fmt.Errorf("run ended in state %s: %s", res.State, res.Content)
	}
	return res, nil
}

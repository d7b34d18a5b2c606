/*
Copyright 2026 CodeSentry Authors
SPDX-License-Identifier: Apache-2.0
*/

package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/chainguard-dev/clog"

	"github.com/codesentry/ghagent/agent/metrics"
	"github.com/codesentry/ghagent/agent/params"
	"github.com/codesentry/ghagent/agent/registry"
	"github.com/codesentry/ghagent/agent/runtrace"
)

// Backend is the model provider contract the orchestrator consumes. Given
// the conversation so far and the advertised tool definitions, it returns
// the next assistant message: either final content or a list of tool calls.
type Backend interface {
	// Model returns the model identifier, used as a metric dimension.
	Model() string
	// Complete performs one model call. Implementations convert the neutral
	// conversation to provider types on every call; they hold no state.
	Complete(ctx context.Context, conversation Conversation, tools []registry.Definition) (Message, error)
}

// State names the orchestrator's position in its run loop.
type State int

const (
	StateAwaitingModel State = iota
	StateDispatchingTools
	StateDone
	StateAborted
)

func (s State) String() string {
	switch s {
	case StateAwaitingModel:
		return "AWAITING_MODEL"
	case StateDispatchingTools:
		return "DISPATCHING_TOOLS"
	case StateDone:
		return "DONE"
	case StateAborted:
		return "ABORTED"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// LimitReachedContent is the fixed final content of a run that exhausted its
// model-call budget. It is a deliberate terminal state, not an error.
const LimitReachedContent = "operation limit reached: the iteration budget was exhausted before the model produced a final answer"

// RunResult is the outcome of one orchestrator run. The caller owns it
// exclusively; no mutable state is shared with the orchestrator after return.
type RunResult struct {
	// Content is the model's final answer, or a fixed limit-reached message,
	// or the failure text on a terminal error.
	Content string
	// Conversation is the full message sequence for auditing, reflecting
	// exactly the work done, including on error paths.
	Conversation Conversation
	// ToolCalls lists every tool call the model issued, in dispatch order.
	ToolCalls []ToolCall
	// State is the terminal state: StateDone or StateAborted.
	State State
}

// Orchestrator drives the bounded model/tool conversation loop.
type Orchestrator struct {
	backend      Backend
	registry     *registry.Registry
	systemPrompt string
	maxTurns     int
	genaiMetrics *metrics.GenAI
}

const defaultSystemPrompt = "You are an AI assistant that helps with GitHub repositories. " +
	"You can analyze pull requests, issues, and code. " +
	"Provide clear, concise, and helpful responses. " +
	"Always use the available tools to gather information before making judgments."

// defaultMaxTurns bounds the number of model calls per run unless the caller
// overrides it.
const defaultMaxTurns = 10

// New creates an orchestrator for the given backend and tool registry.
func New(backend Backend, reg *registry.Registry, opts ...Option) (*Orchestrator, error) {
	if backend == nil {
		return nil, errors.New("backend cannot be nil")
	}
	if reg == nil {
		return nil, errors.New("registry cannot be nil")
	}

	o := &Orchestrator{
		backend:      backend,
		registry:     reg,
		systemPrompt: defaultSystemPrompt,
		maxTurns:     defaultMaxTurns,
		genaiMetrics: metrics.NewGenAI("codesentry.ghagent"),
	}

	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	return o, nil
}

// Run executes one bounded conversation seeded with the system prompt and
// the given task message.
//
// It returns a nil error for both a normal completion and a budget-exhausted
// abort (the latter is recognizable by StateAborted and the fixed
// LimitReachedContent). A model-call failure or a request for an
// unregistered tool returns a non-nil error together with a RunResult
// preserving the conversation collected so far, for diagnosis.
func (o *Orchestrator) Run(ctx context.Context, task string) (result *RunResult, err error) {
	log := clog.FromContext(ctx)

	trace := runtrace.Start(ctx, task)
	defer func() {
		trace.Complete(err)
	}()

	conversation := Conversation{
		{Role: RoleSystem, Content: o.systemPrompt},
		{Role: RoleUser, Content: task},
	}
	defs := o.registry.Definitions()

	var issued []ToolCall
	var pending []ToolCall
	modelCalls := 0

	finish := func(state State, content string) *RunResult {
		return &RunResult{
			Content:      content,
			Conversation: conversation.Clone(),
			ToolCalls:    issued,
			State:        state,
		}
	}

	state := StateAwaitingModel
	for {
		switch state {
		case StateAwaitingModel:
			if modelCalls >= o.maxTurns {
				log.With("model_calls", modelCalls).Warn("Iteration budget exhausted, aborting run")
				return finish(StateAborted, LimitReachedContent), nil
			}
			modelCalls++

			msg, err := o.backend.Complete(ctx, conversation, defs)
			if err != nil {
				// Model-call failures are terminal: no retry is implied here,
				// callers wrap the backend with their own policy if desired.
				err = fmt.Errorf("model call %d failed: %w", modelCalls, err)
				return finish(StateAborted, err.Error()), err
			}
			conversation = append(conversation, msg)

			if len(msg.ToolCalls) == 0 {
				log.With("model_calls", modelCalls).Info("Model produced final answer")
				return finish(StateDone, msg.Content), nil
			}

			pending = msg.ToolCalls
			state = StateDispatchingTools

		case StateDispatchingTools:
			// Every call from this assistant turn is resolved, in the order
			// the model returned them, before the next model call.
			for _, call := range pending {
				issued = append(issued, call)
				o.genaiMetrics.RecordToolCall(ctx, o.backend.Model(), call.Name)

				log.With("tool", call.Name).With("id", call.ID).Info("Dispatching tool call")

				content, fatal := o.resolveToolCall(ctx, trace, call)
				if fatal != nil {
					return finish(StateAborted, fatal.Error()), fatal
				}

				conversation = append(conversation, Message{
					Role:       RoleTool,
					Content:    content,
					ToolCallID: call.ID,
					ToolName:   call.Name,
				})
			}
			pending = nil
			state = StateAwaitingModel
		}
	}
}

// resolveToolCall dispatches one tool call and renders its outcome as tool
// message content. Execution and argument errors are captured as content so
// the model can adapt; an unregistered tool name is returned as a fatal
// error because it means the advertised and dispatchable tool sets diverged.
func (o *Orchestrator) resolveToolCall(ctx context.Context, trace *runtrace.Trace, call ToolCall) (string, error) {
	log := clog.FromContext(ctx)
	tc := trace.StartToolCall(call.ID, call.Name, call.Args)

	result, err := o.registry.Dispatch(ctx, call.Name, call.Args)
	switch {
	case err == nil:
		tc.Complete(result, nil)
		return renderToolResult(result), nil

	case errors.Is(err, registry.ErrToolNotFound):
		log.With("tool", call.Name).Error("Model requested unregistered tool")
		tc.Complete(nil, err)
		return "", err

	default:
		// Argument and execution errors feed back into the conversation.
		log.With("tool", call.Name).With("error", err).Warn("Tool call failed, feeding error back to model")
		tc.Complete(nil, err)
		return renderToolResult(params.Error("%s", err)), nil
	}
}

// renderToolResult serializes a tool's return value for the conversation.
// Strings pass through as-is; everything else is marshaled as JSON.
func renderToolResult(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}

/*
Copyright 2026 CodeSentry Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package runtrace records one orchestrator run as an OpenTelemetry span tree:
// a root span for the run with one child span per tool call. The trace also
// keeps an in-memory record of every tool call for post-run auditing.
package runtrace

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
)

const tracerName = "codesentry.ghagent.runtrace"

// ToolCall records a single tool invocation within a run.
type ToolCall struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Params    map[string]any `json:"params"`
	Result    any            `json:"result"`
	Error     error          `json:"error,omitempty"`
	StartTime time.Time      `json:"start_time"`
	EndTime   time.Time      `json:"end_time"`

	trace *Trace
	mu    sync.Mutex
	span  oteltrace.Span
}

// Trace records a complete orchestrator run from task prompt to final answer.
type Trace struct {
	ID          string      `json:"id"`
	InputPrompt string      `json:"input_prompt"`
	ToolCalls   []*ToolCall `json:"tool_calls"`
	Error       error       `json:"error,omitempty"`
	StartTime   time.Time   `json:"start_time"`
	EndTime     time.Time   `json:"end_time"`

	mu   sync.Mutex
	ctx  context.Context
	span oteltrace.Span
}

// Start begins a trace for one orchestrator run.
func Start(ctx context.Context, prompt string) *Trace {
	tr := otel.Tracer(tracerName, oteltrace.WithInstrumentationVersion("1.0.0"))
	ctx, span := tr.Start(ctx, "agent.run",
		oteltrace.WithAttributes(attribute.Int("agent.prompt_length", len(prompt))))

	return &Trace{
		ID:          generateTraceID(),
		InputPrompt: prompt,
		ToolCalls:   []*ToolCall{},
		StartTime:   time.Now(),
		ctx:         ctx,
		span:        span,
	}
}

// StartToolCall opens a child span for one tool invocation.
func (t *Trace) StartToolCall(id, name string, params map[string]any) *ToolCall {
	tr := otel.Tracer(tracerName, oteltrace.WithInstrumentationVersion("1.0.0"))
	_, span := tr.Start(t.ctx, "agent.tool_call", oteltrace.WithAttributes(
		attribute.String("tool.name", name),
		attribute.String("tool.id", id),
	))

	return &ToolCall{
		ID:        id,
		Name:      name,
		Params:    params,
		StartTime: time.Now(),
		trace:     t,
		span:      span,
	}
}

// BadToolCall records a tool call that could not be dispatched, e.g. because
// the model requested an unregistered name or supplied invalid parameters.
func (t *Trace) BadToolCall(id, name string, params map[string]any, err error) {
	tc := t.StartToolCall(id, name, params)
	tc.Complete(nil, err)
}

// Complete finalizes a tool call, attaching its result or error, and appends
// it to the parent trace.
func (tc *ToolCall) Complete(result any, err error) {
	tc.mu.Lock()
	tc.Result = result
	tc.Error = err
	tc.EndTime = time.Now()
	tc.mu.Unlock()

	if err != nil {
		tc.span.RecordError(err)
		tc.span.SetStatus(codes.Error, err.Error())
	} else {
		tc.span.SetStatus(codes.Ok, "")
	}
	tc.span.End()

	tc.trace.mu.Lock()
	tc.trace.ToolCalls = append(tc.trace.ToolCalls, tc)
	tc.trace.mu.Unlock()
}

// RecordTokenUsage attaches model and token usage to the run span so token
// consumption is visible directly in traces.
func (t *Trace) RecordTokenUsage(model string, inputTokens, outputTokens int64) {
	t.span.SetAttributes(
		attribute.String("genai.model", model),
		attribute.Int64("genai.token.prompt", inputTokens),
		attribute.Int64("genai.token.completion", outputTokens),
	)
}

// Complete finalizes the run trace.
func (t *Trace) Complete(err error) {
	t.mu.Lock()
	t.Error = err
	t.EndTime = time.Now()
	t.mu.Unlock()

	if err != nil {
		t.span.RecordError(err)
		t.span.SetStatus(codes.Error, err.Error())
	} else {
		t.span.SetStatus(codes.Ok, "")
	}
	t.span.End()
}

func generateTraceID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "trace-unknown"
	}
	return hex.EncodeToString(b)
}

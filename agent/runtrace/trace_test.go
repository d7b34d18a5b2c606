/*
Copyright 2026 CodeSentry Authors
SPDX-License-Identifier: Apache-2.0
*/

package runtrace_test

import (
	"context"
	"errors"
	"testing"

	"github.com/codesentry/ghagent/agent/runtrace"
)

func TestTraceRecordsToolCalls(t *testing.T) {
	tr := runtrace.Start(context.Background(), "review this PR")

	tc := tr.StartToolCall("call-1", "get_pull_request", map[string]any{"repo": "acme/widgets"})
	tc.Complete(map[string]any{"number": 42}, nil)

	tc2 := tr.StartToolCall("call-2", "get_issue", map[string]any{"repo": "acme/widgets"})
	tc2.Complete(nil, errors.New("not found"))

	tr.Complete(nil)

	if len(tr.ToolCalls) != 2 {
		t.Fatalf("got %d tool calls, want 2", len(tr.ToolCalls))
	}
	if tr.ToolCalls[0].Name != "get_pull_request" {
		t.Errorf("got %q, want get_pull_request", tr.ToolCalls[0].Name)
	}
	if tr.ToolCalls[1].Error == nil {
		t.Error("expected second tool call to record its error")
	}
	if tr.EndTime.Before(tr.StartTime) {
		t.Error("end time precedes start time")
	}
}

func TestBadToolCall(t *testing.T) {
	tr := runtrace.Start(context.Background(), "task")
	tr.BadToolCall("call-9", "no_such_tool", map[string]any{}, errors.New("unknown tool"))
	tr.Complete(errors.New("aborted"))

	if len(tr.ToolCalls) != 1 {
		t.Fatalf("got %d tool calls, want 1", len(tr.ToolCalls))
	}
	if tr.ToolCalls[0].Error == nil {
		t.Error("expected error on bad tool call record")
	}
	if tr.Error == nil {
		t.Error("expected run error to be recorded")
	}
}

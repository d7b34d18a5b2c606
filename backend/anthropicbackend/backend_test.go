/*
Copyright 2026 CodeSentry Authors
SPDX-License-Identifier: Apache-2.0
*/

package anthropicbackend

import (
	"encoding/json"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/codesentry/ghagent/agent"
	"github.com/codesentry/ghagent/agent/registry"
)

func TestSystemTextExtracted(t *testing.T) {
	conversation := agent.Conversation{
		{Role: agent.RoleSystem, Content: "be helpful"},
		{Role: agent.RoleUser, Content: "hi"},
	}
	if got := systemText(conversation); got != "be helpful" {
		t.Errorf("systemText() = %q", got)
	}
	if got := systemText(conversation[1:]); got != "" {
		t.Errorf("systemText() without system message = %q, want empty", got)
	}
}

func TestToMessageParamsSkipsSystem(t *testing.T) {
	conversation := agent.Conversation{
		{Role: agent.RoleSystem, Content: "system"},
		{Role: agent.RoleUser, Content: "task"},
	}
	params := toMessageParams(conversation)
	if len(params) != 1 {
		t.Fatalf("len = %d, want 1 (system carried separately)", len(params))
	}
	if params[0].Role != anthropic.MessageParamRoleUser {
		t.Errorf("role = %v, want user", params[0].Role)
	}
}

func TestToMessageParamsToolRoundtrip(t *testing.T) {
	conversation := agent.Conversation{
		{Role: agent.RoleUser, Content: "scan the repo"},
		{
			Role: agent.RoleAssistant,
			ToolCalls: []agent.ToolCall{
				{ID: "toolu_1", Name: "get_repository", Args: map[string]any{}},
				{ID: "toolu_2", Name: "get_repository_stats", Args: map[string]any{}},
			},
		},
		{Role: agent.RoleTool, Content: `{"name":"x"}`, ToolCallID: "toolu_1", ToolName: "get_repository"},
		{Role: agent.RoleTool, Content: `{"stars":2}`, ToolCallID: "toolu_2", ToolName: "get_repository_stats"},
	}

	params := toMessageParams(conversation)
	// user, assistant tool_use turn, one folded user turn with both results.
	if len(params) != 3 {
		t.Fatalf("len = %d, want 3", len(params))
	}

	assistant := params[1]
	if assistant.Role != anthropic.MessageParamRoleAssistant {
		t.Errorf("role = %v, want assistant", assistant.Role)
	}
	if len(assistant.Content) != 2 {
		t.Fatalf("assistant blocks = %d, want 2", len(assistant.Content))
	}
	if assistant.Content[0].OfToolUse == nil || assistant.Content[0].OfToolUse.ID != "toolu_1" {
		t.Errorf("first block = %+v, want tool_use toolu_1", assistant.Content[0])
	}

	results := params[2]
	if results.Role != anthropic.MessageParamRoleUser {
		t.Errorf("results role = %v, want user", results.Role)
	}
	if len(results.Content) != 2 {
		t.Fatalf("result blocks = %d, want 2", len(results.Content))
	}
	for i, wantID := range []string{"toolu_1", "toolu_2"} {
		block := results.Content[i].OfToolResult
		if block == nil || block.ToolUseID != wantID {
			t.Errorf("result block %d = %+v, want tool_result %s", i, results.Content[i], wantID)
		}
	}
}

func TestToToolParams(t *testing.T) {
	defs := []registry.Definition{{
		Name:        "search_code",
		Description: "Search code in the repository.",
		Parameters: []registry.Parameter{
			{Name: "query", Type: "string", Description: "Search query.", Required: true},
			{Name: "max_results", Type: "integer", Description: "Result cap."},
		},
	}}

	out := toToolParams(defs)
	if len(out) != 1 {
		t.Fatalf("len = %d, want 1", len(out))
	}
	tool := out[0].OfTool
	if tool == nil {
		t.Fatal("OfTool = nil")
	}
	if tool.Name != "search_code" {
		t.Errorf("name = %q", tool.Name)
	}
	properties, ok := tool.InputSchema.Properties.(map[string]any)
	if !ok {
		t.Fatalf("properties = %T, want map[string]any", tool.InputSchema.Properties)
	}
	if len(properties) != 2 {
		t.Errorf("properties = %d, want 2", len(properties))
	}
	if len(tool.InputSchema.Required) != 1 || tool.InputSchema.Required[0] != "query" {
		t.Errorf("required = %v, want [query]", tool.InputSchema.Required)
	}
}

func TestFromMessage(t *testing.T) {
	message := anthropic.Message{
		Content: []anthropic.ContentBlockUnion{
			{Type: "text", Text: "checking the diff"},
			{Type: "tool_use", ID: "toolu_9", Name: "get_pull_request_diff", Input: json.RawMessage(`{"pr_number": 4}`)},
		},
	}

	msg, err := fromMessage(message)
	if err != nil {
		t.Fatalf("fromMessage() = %v", err)
	}
	if msg.Content != "checking the diff" {
		t.Errorf("content = %q", msg.Content)
	}
	if len(msg.ToolCalls) != 1 {
		t.Fatalf("tool calls = %d, want 1", len(msg.ToolCalls))
	}
	tc := msg.ToolCalls[0]
	if tc.ID != "toolu_9" || tc.Name != "get_pull_request_diff" {
		t.Errorf("tool call = %+v", tc)
	}
	if tc.Args["pr_number"] != float64(4) {
		t.Errorf("args = %v", tc.Args)
	}
}

func TestFromMessageMalformedInput(t *testing.T) {
	message := anthropic.Message{
		Content: []anthropic.ContentBlockUnion{
			{Type: "tool_use", ID: "toolu_1", Name: "get_issue", Input: json.RawMessage(`{"broken`)},
		},
	}
	if _, err := fromMessage(message); err == nil {
		t.Error("fromMessage() = nil error, want malformed-input failure")
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   bool
	}{
		{name: "rate limited", status: 429, want: true},
		{name: "unavailable", status: 503, want: true},
		{name: "overloaded", status: 529, want: true},
		{name: "bad request", status: 400, want: false},
		{name: "unauthorized", status: 401, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := &anthropic.Error{StatusCode: tt.status}
			if got := isRetryable(err); got != tt.want {
				t.Errorf("isRetryable(%d) = %v, want %v", tt.status, got, tt.want)
			}
		})
	}
}

func TestNewValidation(t *testing.T) {
	if _, err := New("", "claude-sonnet-4-20250514"); err == nil {
		t.Error("New with empty key = nil error, want failure")
	}
	if _, err := New("sk-ant", ""); err == nil {
		t.Error("New with empty model = nil error, want failure")
	}
	if _, err := New("sk-ant", "claude-sonnet-4-20250514", WithMaxTokens(0)); err == nil {
		t.Error("New with zero max tokens = nil error, want failure")
	}
	if _, err := New("sk-ant", "claude-sonnet-4-20250514", WithTemperature(3)); err == nil {
		t.Error("New with out-of-range temperature = nil error, want failure")
	}
}

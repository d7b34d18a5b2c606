/*
Copyright 2026 CodeSentry Authors
SPDX-License-Identifier: Apache-2.0
*/

package googlebackend

import (
	"errors"
	"testing"

	"google.golang.org/genai"

	"github.com/codesentry/ghagent/agent"
	"github.com/codesentry/ghagent/agent/registry"
)

func TestToContents(t *testing.T) {
	conversation := agent.Conversation{
		{Role: agent.RoleSystem, Content: "system prompt"},
		{Role: agent.RoleUser, Content: "analyze issue 5"},
		{
			Role: agent.RoleAssistant,
			ToolCalls: []agent.ToolCall{
				{ID: "fc-1", Name: "get_issue", Args: map[string]any{"issue_number": float64(5)}},
			},
		},
		{Role: agent.RoleTool, Content: `{"title":"crash"}`, ToolCallID: "fc-1", ToolName: "get_issue"},
	}

	contents := toContents(conversation)
	// System message is carried in the config, not the contents.
	if len(contents) != 3 {
		t.Fatalf("len = %d, want 3", len(contents))
	}
	if contents[0].Role != "user" || contents[0].Parts[0].Text != "analyze issue 5" {
		t.Errorf("first content = %+v", contents[0])
	}
	if contents[1].Role != "model" {
		t.Errorf("second role = %q, want model", contents[1].Role)
	}
	fc := contents[1].Parts[0].FunctionCall
	if fc == nil || fc.Name != "get_issue" {
		t.Fatalf("function call part = %+v", contents[1].Parts[0])
	}
	fr := contents[2].Parts[0].FunctionResponse
	if fr == nil || fr.Name != "get_issue" || fr.Response["result"] != `{"title":"crash"}` {
		t.Errorf("function response part = %+v", contents[2].Parts[0])
	}
}

func TestToFunctionDeclarations(t *testing.T) {
	defs := []registry.Definition{{
		Name:        "add_labels_to_issue",
		Description: "Add labels to an issue.",
		Parameters: []registry.Parameter{
			{Name: "issue_number", Type: "integer", Description: "Issue number.", Required: true},
			{Name: "labels", Type: "array", Description: "Labels to add.", Required: true},
		},
	}}

	decls := toFunctionDeclarations(defs)
	if len(decls) != 1 {
		t.Fatalf("len = %d, want 1", len(decls))
	}
	decl := decls[0]
	if decl.Name != "add_labels_to_issue" {
		t.Errorf("name = %q", decl.Name)
	}
	if decl.Parameters.Type != genai.TypeObject {
		t.Errorf("parameters type = %v", decl.Parameters.Type)
	}
	labels := decl.Parameters.Properties["labels"]
	if labels.Type != genai.TypeArray || labels.Items == nil || labels.Items.Type != genai.TypeString {
		t.Errorf("labels schema = %+v", labels)
	}
	if len(decl.Parameters.Required) != 2 {
		t.Errorf("required = %v", decl.Parameters.Required)
	}
}

func TestToFunctionDeclarationsNoParams(t *testing.T) {
	decls := toFunctionDeclarations([]registry.Definition{{
		Name:        "get_repository",
		Description: "Get repository info.",
	}})
	if decls[0].Parameters != nil {
		t.Errorf("parameters = %+v, want nil for zero-arg tool", decls[0].Parameters)
	}
}

func TestFromResponse(t *testing.T) {
	response := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{
				Role: "model",
				Parts: []*genai.Part{
					{Text: "pulling the file list"},
					{FunctionCall: &genai.FunctionCall{Name: "get_pull_request_files", Args: map[string]any{"pr_number": float64(2)}}},
				},
			},
		}},
	}

	msg, err := fromResponse(response)
	if err != nil {
		t.Fatalf("fromResponse() = %v", err)
	}
	if msg.Content != "pulling the file list" {
		t.Errorf("content = %q", msg.Content)
	}
	if len(msg.ToolCalls) != 1 || msg.ToolCalls[0].Name != "get_pull_request_files" {
		t.Errorf("tool calls = %+v", msg.ToolCalls)
	}
}

func TestFromResponseNoCandidates(t *testing.T) {
	if _, err := fromResponse(&genai.GenerateContentResponse{}); err == nil {
		t.Error("fromResponse() = nil error, want no-candidates failure")
	}
}

func TestFromResponseNilArgs(t *testing.T) {
	response := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{
				Parts: []*genai.Part{
					{FunctionCall: &genai.FunctionCall{Name: "get_repository"}},
				},
			},
		}},
	}
	msg, err := fromResponse(response)
	if err != nil {
		t.Fatalf("fromResponse() = %v", err)
	}
	if msg.ToolCalls[0].Args == nil {
		t.Error("args = nil, want empty map")
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "resource exhausted", err: errors.New("googleapi: Error 429: RESOURCE_EXHAUSTED"), want: true},
		{name: "unavailable", err: errors.New("rpc error: code = 503 service unavailable"), want: true},
		{name: "quota", err: errors.New("quota exceeded for model"), want: true},
		{name: "invalid argument", err: errors.New("googleapi: Error 400: invalid argument"), want: false},
		{name: "nil", err: nil, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isRetryable(tt.err); got != tt.want {
				t.Errorf("isRetryable() = %v, want %v", got, tt.want)
			}
		})
	}
}

/*
Copyright 2026 CodeSentry Authors
SPDX-License-Identifier: Apache-2.0
*/

package agent

// Role identifies the author of a conversation message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// ToolCall is a provider-independent representation of one model-issued
// request to invoke a tool. Only the model produces these.
type ToolCall struct {
	ID   string
	Name string
	Args map[string]any
}

// Message is one entry in a conversation. Assistant messages may carry tool
// calls; tool messages carry the originating call's ID for correlation.
type Message struct {
	Role    Role
	Content string

	// ToolCalls is set only on assistant messages.
	ToolCalls []ToolCall

	// ToolCallID and ToolName are set only on tool messages.
	ToolCallID string
	ToolName   string
}

// Conversation is an ordered, append-only sequence of messages. The first
// message is always the system prompt.
type Conversation []Message

// Clone returns a copy of the conversation so a RunResult can be handed to
// the caller without sharing mutable state.
func (c Conversation) Clone() Conversation {
	out := make(Conversation, len(c))
	copy(out, c)
	return out
}

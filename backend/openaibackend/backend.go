/*
Copyright 2026 CodeSentry Authors
SPDX-License-Identifier: Apache-2.0
*/

package openaibackend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/chainguard-dev/clog"
	openai "github.com/sashabaranov/go-openai"

	"github.com/codesentry/ghagent/agent"
	"github.com/codesentry/ghagent/agent/metrics"
	"github.com/codesentry/ghagent/agent/registry"
	"github.com/codesentry/ghagent/agent/retry"
)

// Backend talks to the OpenAI chat completions API. It holds no conversation
// state: every Complete call converts the neutral conversation from scratch.
type Backend struct {
	client       *openai.Client
	model        string
	retryConfig  retry.Config
	genaiMetrics *metrics.GenAI
}

// New creates an OpenAI backend for the given model.
func New(apiKey, model string, opts ...Option) (*Backend, error) {
	if apiKey == "" {
		return nil, errors.New("api key cannot be empty")
	}
	if model == "" {
		return nil, errors.New("model cannot be empty")
	}

	b := &Backend{
		client:       openai.NewClient(apiKey),
		model:        model,
		retryConfig:  retry.None(),
		genaiMetrics: metrics.NewGenAI("codesentry.ghagent"),
	}

	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	return b, nil
}

// Option configures the backend.
type Option func(*Backend) error

// WithRetry enables transparent retries on transient API errors (rate
// limits and server-side failures). Off unless set.
func WithRetry(cfg retry.Config) Option {
	return func(b *Backend) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		b.retryConfig = cfg
		return nil
	}
}

// NewWithClient creates a backend around a pre-configured client, for
// alternate endpoints and tests.
func NewWithClient(client *openai.Client, model string, opts ...Option) (*Backend, error) {
	if client == nil {
		return nil, errors.New("client cannot be nil")
	}
	if model == "" {
		return nil, errors.New("model cannot be empty")
	}
	b := &Backend{
		client:       client,
		model:        model,
		retryConfig:  retry.None(),
		genaiMetrics: metrics.NewGenAI("codesentry.ghagent"),
	}
	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}
	return b, nil
}

// Model implements agent.Backend.
func (b *Backend) Model() string { return b.model }

// Complete implements agent.Backend.
func (b *Backend) Complete(ctx context.Context, conversation agent.Conversation, tools []registry.Definition) (agent.Message, error) {
	log := clog.FromContext(ctx)

	req := openai.ChatCompletionRequest{
		Model:    b.model,
		Messages: toChatMessages(conversation),
		Tools:    toChatTools(tools),
	}

	resp, err := retry.Do(ctx, b.retryConfig, "chat_completion", isRetryable, func() (openai.ChatCompletionResponse, error) {
		return b.client.CreateChatCompletion(ctx, req)
	})
	if err != nil {
		return agent.Message{}, fmt.Errorf("openai chat completion: %w", err)
	}

	if resp.Usage.PromptTokens > 0 || resp.Usage.CompletionTokens > 0 {
		b.genaiMetrics.RecordTokens(ctx, b.model,
			int64(resp.Usage.PromptTokens), int64(resp.Usage.CompletionTokens))
	}

	if len(resp.Choices) == 0 {
		return agent.Message{}, errors.New("openai response has no choices")
	}

	msg, err := fromChatMessage(resp.Choices[0].Message)
	if err != nil {
		return agent.Message{}, err
	}
	log.With("tool_calls", len(msg.ToolCalls)).Debug("Received chat completion")
	return msg, nil
}

// toChatMessages converts the neutral conversation to OpenAI chat messages.
func toChatMessages(conversation agent.Conversation) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(conversation))
	for _, m := range conversation {
		switch m.Role {
		case agent.RoleSystem:
			out = append(out, openai.ChatCompletionMessage{
				Role:    openai.ChatMessageRoleSystem,
				Content: m.Content,
			})
		case agent.RoleUser:
			out = append(out, openai.ChatCompletionMessage{
				Role:    openai.ChatMessageRoleUser,
				Content: m.Content,
			})
		case agent.RoleAssistant:
			cm := openai.ChatCompletionMessage{
				Role:    openai.ChatMessageRoleAssistant,
				Content: m.Content,
			}
			for _, tc := range m.ToolCalls {
				args, err := json.Marshal(tc.Args)
				if err != nil {
					args = []byte("{}")
				}
				cm.ToolCalls = append(cm.ToolCalls, openai.ToolCall{
					ID:   tc.ID,
					Type: openai.ToolTypeFunction,
					Function: openai.FunctionCall{
						Name:      tc.Name,
						Arguments: string(args),
					},
				})
			}
			out = append(out, cm)
		case agent.RoleTool:
			out = append(out, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				Content:    m.Content,
				Name:       m.ToolName,
				ToolCallID: m.ToolCallID,
			})
		}
	}
	return out
}

// toChatTools converts tool definitions to the OpenAI function schema.
func toChatTools(defs []registry.Definition) []openai.Tool {
	if len(defs) == 0 {
		return nil
	}
	tools := make([]openai.Tool, 0, len(defs))
	for _, def := range defs {
		properties := make(map[string]any, len(def.Parameters))
		var required []string
		for _, p := range def.Parameters {
			properties[p.Name] = map[string]any{
				"type":        p.Type,
				"description": p.Description,
			}
			if p.Required {
				required = append(required, p.Name)
			}
		}
		tools = append(tools, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: openai.FunctionDefinition{
				Name:        def.Name,
				Description: def.Description,
				Parameters: map[string]any{
					"type":       "object",
					"properties": properties,
					"required":   required,
				},
			},
		})
	}
	return tools
}

// fromChatMessage converts an OpenAI assistant message back to the neutral
// form, parsing each tool call's JSON argument string.
func fromChatMessage(m openai.ChatCompletionMessage) (agent.Message, error) {
	msg := agent.Message{
		Role:    agent.RoleAssistant,
		Content: m.Content,
	}
	for _, tc := range m.ToolCalls {
		args := map[string]any{}
		if tc.Function.Arguments != "" {
			if err := json.Unmarshal([]byte(tc.Function.Arguments), &args); err != nil {
				return agent.Message{}, fmt.Errorf("tool call %q has malformed arguments: %w", tc.Function.Name, err)
			}
		}
		msg.ToolCalls = append(msg.ToolCalls, agent.ToolCall{
			ID:   tc.ID,
			Name: tc.Function.Name,
			Args: args,
		})
	}
	return msg, nil
}

// isRetryable reports whether an OpenAI API error is transient.
func isRetryable(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case 429, 500, 502, 503, 504:
			return true
		}
	}
	return false
}

/*
Copyright 2026 CodeSentry Authors
SPDX-License-Identifier: Apache-2.0
*/

package anthropicbackend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/chainguard-dev/clog"

	"github.com/codesentry/ghagent/agent"
	"github.com/codesentry/ghagent/agent/metrics"
	"github.com/codesentry/ghagent/agent/registry"
	"github.com/codesentry/ghagent/agent/retry"
)

// Backend talks to the Anthropic Messages API. Responses are streamed and
// accumulated into a complete message before conversion.
type Backend struct {
	client       anthropic.Client
	model        string
	maxTokens    int64
	temperature  float64
	retryConfig  retry.Config
	genaiMetrics *metrics.GenAI
}

// New creates an Anthropic backend for the given model.
func New(apiKey, model string, opts ...Option) (*Backend, error) {
	if apiKey == "" {
		return nil, errors.New("api key cannot be empty")
	}
	if model == "" {
		return nil, errors.New("model cannot be empty")
	}

	b := &Backend{
		client:       anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:        model,
		maxTokens:    8192,
		temperature:  0.1,
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

// WithMaxTokens sets the per-response output token ceiling.
func WithMaxTokens(n int64) Option {
	return func(b *Backend) error {
		if n <= 0 {
			return fmt.Errorf("max tokens must be positive, got %d", n)
		}
		b.maxTokens = n
		return nil
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) Option {
	return func(b *Backend) error {
		if t < 0 || t > 1 {
			return fmt.Errorf("temperature must be in [0, 1], got %f", t)
		}
		b.temperature = t
		return nil
	}
}

// WithRetry enables transparent retries on transient API errors (rate
// limits and overloaded responses). Off unless set.
func WithRetry(cfg retry.Config) Option {
	return func(b *Backend) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		b.retryConfig = cfg
		return nil
	}
}

// Model implements agent.Backend.
func (b *Backend) Model() string { return b.model }

// Complete implements agent.Backend.
func (b *Backend) Complete(ctx context.Context, conversation agent.Conversation, tools []registry.Definition) (agent.Message, error) {
	log := clog.FromContext(ctx)

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(b.model),
		MaxTokens:   b.maxTokens,
		Temperature: anthropic.Float(b.temperature),
		Messages:    toMessageParams(conversation),
		Tools:       toToolParams(tools),
	}
	if system := systemText(conversation); system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}

	message, err := retry.Do(ctx, b.retryConfig, "stream_message", isRetryable, func() (anthropic.Message, error) {
		stream := b.client.Messages.NewStreaming(ctx, params)
		var msg anthropic.Message
		for stream.Next() {
			event := stream.Current()
			if err := msg.Accumulate(event); err != nil {
				return msg, fmt.Errorf("failed to accumulate event: %w", err)
			}
		}
		if err := stream.Err(); err != nil {
			return msg, err
		}
		return msg, nil
	})
	if err != nil {
		return agent.Message{}, fmt.Errorf("anthropic message stream: %w", err)
	}

	if message.Usage.InputTokens > 0 || message.Usage.OutputTokens > 0 {
		b.genaiMetrics.RecordTokens(ctx, b.model, message.Usage.InputTokens, message.Usage.OutputTokens)
	}

	msg, err := fromMessage(message)
	if err != nil {
		return agent.Message{}, err
	}
	log.With("tool_calls", len(msg.ToolCalls)).Debug("Received message")
	return msg, nil
}

// systemText pulls the system prompt out of the conversation; the Messages
// API carries it as a top-level field rather than a message.
func systemText(conversation agent.Conversation) string {
	for _, m := range conversation {
		if m.Role == agent.RoleSystem {
			return m.Content
		}
	}
	return ""
}

// toMessageParams converts the neutral conversation to Anthropic message
// params. Tool results become tool_result blocks on user messages;
// consecutive tool messages fold into a single user turn.
func toMessageParams(conversation agent.Conversation) []anthropic.MessageParam {
	var out []anthropic.MessageParam
	for _, m := range conversation {
		switch m.Role {
		case agent.RoleUser:
			out = append(out, anthropic.MessageParam{
				Role:    anthropic.MessageParamRoleUser,
				Content: []anthropic.ContentBlockParamUnion{anthropic.NewTextBlock(m.Content)},
			})
		case agent.RoleAssistant:
			var blocks []anthropic.ContentBlockParamUnion
			if m.Content != "" {
				blocks = append(blocks, anthropic.NewTextBlock(m.Content))
			}
			for _, tc := range m.ToolCalls {
				input, err := json.Marshal(tc.Args)
				if err != nil {
					input = []byte("{}")
				}
				blocks = append(blocks, anthropic.ContentBlockParamUnion{
					OfToolUse: &anthropic.ToolUseBlockParam{
						ID:    tc.ID,
						Name:  tc.Name,
						Input: json.RawMessage(input),
					},
				})
			}
			out = append(out, anthropic.MessageParam{
				Role:    anthropic.MessageParamRoleAssistant,
				Content: blocks,
			})
		case agent.RoleTool:
			block := anthropic.ContentBlockParamUnion{
				OfToolResult: &anthropic.ToolResultBlockParam{
					ToolUseID: m.ToolCallID,
					Content: []anthropic.ToolResultBlockParamContentUnion{{
						OfText: &anthropic.TextBlockParam{Text: m.Content},
					}},
				},
			}
			if n := len(out); n > 0 && out[n-1].Role == anthropic.MessageParamRoleUser && hasToolResult(out[n-1]) {
				out[n-1].Content = append(out[n-1].Content, block)
			} else {
				out = append(out, anthropic.MessageParam{
					Role:    anthropic.MessageParamRoleUser,
					Content: []anthropic.ContentBlockParamUnion{block},
				})
			}
		}
	}
	return out
}

func hasToolResult(m anthropic.MessageParam) bool {
	for _, b := range m.Content {
		if b.OfToolResult != nil {
			return true
		}
	}
	return false
}

// toToolParams converts tool definitions to the Anthropic input schema.
func toToolParams(defs []registry.Definition) []anthropic.ToolUnionParam {
	if len(defs) == 0 {
		return nil
	}
	out := make([]anthropic.ToolUnionParam, 0, len(defs))
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
		out = append(out, anthropic.ToolUnionParam{
			OfTool: &anthropic.ToolParam{
				Name:        def.Name,
				Description: anthropic.String(def.Description),
				InputSchema: anthropic.ToolInputSchemaParam{
					Type:       "object",
					Properties: properties,
					Required:   required,
				},
			},
		})
	}
	return out
}

// fromMessage converts an accumulated Anthropic message to the neutral form.
func fromMessage(message anthropic.Message) (agent.Message, error) {
	msg := agent.Message{Role: agent.RoleAssistant}
	for _, content := range message.Content {
		switch content.Type {
		case "text":
			msg.Content = content.Text
		case "tool_use":
			args := map[string]any{}
			if len(content.Input) > 0 {
				if err := json.Unmarshal(content.Input, &args); err != nil {
					return agent.Message{}, fmt.Errorf("tool call %q has malformed input: %w", content.Name, err)
				}
			}
			msg.ToolCalls = append(msg.ToolCalls, agent.ToolCall{
				ID:   content.ID,
				Name: content.Name,
				Args: args,
			})
		}
	}
	return msg, nil
}

// isRetryable reports whether an Anthropic API error is transient.
// Covers rate limit, overloaded, and gateway errors.
func isRetryable(err error) bool {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case 429, 503, 504, 529:
			return true
		}
	}
	return false
}

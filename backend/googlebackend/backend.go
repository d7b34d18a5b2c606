/*
Copyright 2026 CodeSentry Authors
SPDX-License-Identifier: Apache-2.0
*/

package googlebackend

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/chainguard-dev/clog"
	"google.golang.org/genai"

	"github.com/codesentry/ghagent/agent"
	"github.com/codesentry/ghagent/agent/metrics"
	"github.com/codesentry/ghagent/agent/registry"
	"github.com/codesentry/ghagent/agent/retry"
)

// Backend talks to the Gemini API through the Google GenAI SDK.
type Backend struct {
	client       *genai.Client
	model        string
	temperature  float32
	maxTokens    int32
	retryConfig  retry.Config
	genaiMetrics *metrics.GenAI
}

// New creates a Gemini backend for the given model.
func New(ctx context.Context, apiKey, model string, opts ...Option) (*Backend, error) {
	if apiKey == "" {
		return nil, errors.New("api key cannot be empty")
	}
	if model == "" {
		return nil, errors.New("model cannot be empty")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating Google AI client: %w", err)
	}

	b := &Backend{
		client:       client,
		model:        model,
		temperature:  0.1,
		maxTokens:    8192,
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

// WithTemperature sets the sampling temperature.
func WithTemperature(t float32) Option {
	return func(b *Backend) error {
		if t < 0 || t > 2 {
			return fmt.Errorf("temperature must be in [0, 2], got %f", t)
		}
		b.temperature = t
		return nil
	}
}

// WithMaxOutputTokens sets the per-response output token ceiling.
func WithMaxOutputTokens(n int32) Option {
	return func(b *Backend) error {
		if n <= 0 {
			return fmt.Errorf("max output tokens must be positive, got %d", n)
		}
		b.maxTokens = n
		return nil
	}
}

// WithRetry enables transparent retries on transient API errors. Off
// unless set.
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

	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(b.temperature),
		MaxOutputTokens: b.maxTokens,
	}
	if system := systemText(conversation); system != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: system}},
		}
	}
	if decls := toFunctionDeclarations(tools); len(decls) > 0 {
		config.Tools = []*genai.Tool{{FunctionDeclarations: decls}}
	}

	contents := toContents(conversation)

	response, err := retry.Do(ctx, b.retryConfig, "generate_content", isRetryable, func() (*genai.GenerateContentResponse, error) {
		return b.client.Models.GenerateContent(ctx, b.model, contents, config)
	})
	if err != nil {
		return agent.Message{}, fmt.Errorf("gemini generate content: %w", err)
	}

	if response.UsageMetadata != nil {
		b.genaiMetrics.RecordTokens(ctx, b.model,
			int64(response.UsageMetadata.PromptTokenCount),
			int64(response.UsageMetadata.CandidatesTokenCount))
	}

	msg, err := fromResponse(response)
	if err != nil {
		return agent.Message{}, err
	}
	log.With("tool_calls", len(msg.ToolCalls)).Debug("Received generated content")
	return msg, nil
}

// systemText pulls the system prompt out of the conversation; Gemini carries
// it as a generation-config field rather than a content entry.
func systemText(conversation agent.Conversation) string {
	for _, m := range conversation {
		if m.Role == agent.RoleSystem {
			return m.Content
		}
	}
	return ""
}

// toContents converts the neutral conversation to Gemini contents. Tool
// results become function_response parts on user-role contents.
func toContents(conversation agent.Conversation) []*genai.Content {
	var out []*genai.Content
	for _, m := range conversation {
		switch m.Role {
		case agent.RoleUser:
			out = append(out, &genai.Content{
				Role:  "user",
				Parts: []*genai.Part{{Text: m.Content}},
			})
		case agent.RoleAssistant:
			var parts []*genai.Part
			if m.Content != "" {
				parts = append(parts, &genai.Part{Text: m.Content})
			}
			for _, tc := range m.ToolCalls {
				parts = append(parts, &genai.Part{
					FunctionCall: &genai.FunctionCall{
						ID:   tc.ID,
						Name: tc.Name,
						Args: tc.Args,
					},
				})
			}
			out = append(out, &genai.Content{Role: "model", Parts: parts})
		case agent.RoleTool:
			out = append(out, &genai.Content{
				Role: "user",
				Parts: []*genai.Part{{
					FunctionResponse: &genai.FunctionResponse{
						ID:   m.ToolCallID,
						Name: m.ToolName,
						Response: map[string]any{
							"result": m.Content,
						},
					},
				}},
			})
		}
	}
	return out
}

// toFunctionDeclarations converts tool definitions to the Gemini schema.
func toFunctionDeclarations(defs []registry.Definition) []*genai.FunctionDeclaration {
	decls := make([]*genai.FunctionDeclaration, 0, len(defs))
	for _, def := range defs {
		properties := make(map[string]*genai.Schema, len(def.Parameters))
		var required []string
		for _, p := range def.Parameters {
			properties[p.Name] = parameterSchema(p)
			if p.Required {
				required = append(required, p.Name)
			}
		}
		decl := &genai.FunctionDeclaration{
			Name:        def.Name,
			Description: def.Description,
		}
		if len(properties) > 0 {
			decl.Parameters = &genai.Schema{
				Type:       genai.TypeObject,
				Properties: properties,
				Required:   required,
			}
		}
		decls = append(decls, decl)
	}
	return decls
}

func parameterSchema(p registry.Parameter) *genai.Schema {
	s := &genai.Schema{Description: p.Description}
	switch p.Type {
	case "string":
		s.Type = genai.TypeString
	case "integer":
		s.Type = genai.TypeInteger
	case "number":
		s.Type = genai.TypeNumber
	case "boolean":
		s.Type = genai.TypeBoolean
	case "array":
		s.Type = genai.TypeArray
		s.Items = &genai.Schema{Type: genai.TypeString}
	case "object":
		s.Type = genai.TypeObject
	default:
		s.Type = genai.TypeString
	}
	return s
}

// fromResponse converts a Gemini response to the neutral form.
func fromResponse(response *genai.GenerateContentResponse) (agent.Message, error) {
	if len(response.Candidates) == 0 {
		return agent.Message{}, errors.New("no content generated - no candidates")
	}
	candidate := response.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return agent.Message{}, errors.New("no content generated - candidate has no parts")
	}

	msg := agent.Message{Role: agent.RoleAssistant}
	for _, part := range candidate.Content.Parts {
		switch {
		case part.FunctionCall != nil:
			args := part.FunctionCall.Args
			if args == nil {
				args = map[string]any{}
			}
			msg.ToolCalls = append(msg.ToolCalls, agent.ToolCall{
				ID:   part.FunctionCall.ID,
				Name: part.FunctionCall.Name,
				Args: args,
			})
		case part.Text != "" && !part.Thought:
			msg.Content = part.Text
		}
	}
	return msg, nil
}

// isRetryable reports whether a Gemini API error is transient. The SDK
// surfaces quota and availability problems as message text rather than a
// typed status, so this matches on the known markers.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "RESOURCE_EXHAUSTED") ||
		strings.Contains(msg, "Resource exhausted") ||
		strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "quota exceeded") ||
		strings.Contains(msg, "503") ||
		strings.Contains(msg, "Overloaded") ||
		strings.Contains(msg, "Internal error") ||
		strings.Contains(msg, "server error")
}

/*
Copyright 2026 CodeSentry Authors
SPDX-License-Identifier: Apache-2.0
*/

package registry

import (
	"context"
	"fmt"
)

// Parameter describes a single tool parameter.
type Parameter struct {
	Name        string
	Type        string // "string", "integer", "number", "boolean"
	Description string
	Required    bool
}

// Definition describes a tool's schema (name, description, parameters).
type Definition struct {
	Name        string
	Description string
	Parameters  []Parameter
}

// Executor is the function bound to a tool. It receives the validated
// argument map from the model and returns a result that will be serialized
// back into the conversation.
type Executor func(ctx context.Context, args map[string]any) (any, error)

// Tool pairs a schema definition with its bound executor.
type Tool struct {
	Def Definition
	Run Executor
}

// Registry is a name-keyed set of tools. It is populated once per action
// and immutable during an orchestrator run. The registry itself performs no
// side effects; those belong to the executors.
type Registry struct {
	tools map[string]Tool
	order []string
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{tools: map[string]Tool{}}
}

// Register adds a tool. Registering the same name twice is a programming
// error surfaced as ErrDuplicateTool.
func (r *Registry) Register(t Tool) error {
	if t.Def.Name == "" {
		return fmt.Errorf("tool has no name")
	}
	if t.Run == nil {
		return fmt.Errorf("tool %q has no executor", t.Def.Name)
	}
	if _, exists := r.tools[t.Def.Name]; exists {
		return fmt.Errorf("registering tool %q: %w", t.Def.Name, ErrDuplicateTool)
	}
	r.tools[t.Def.Name] = t
	r.order = append(r.order, t.Def.Name)
	return nil
}

// MustRegister registers a set of tools, panicking on duplicates. Intended
// for the fixed toolset construction at action startup, where a duplicate
// name is unrecoverable.
func (r *Registry) MustRegister(tools ...Tool) *Registry {
	for _, t := range tools {
		if err := r.Register(t); err != nil {
			panic(err)
		}
	}
	return r
}

// Definitions returns all tool definitions in registration order, suitable
// for advertising to a model backend.
func (r *Registry) Definitions() []Definition {
	defs := make([]Definition, 0, len(r.order))
	for _, name := range r.order {
		defs = append(defs, r.tools[name].Def)
	}
	return defs
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	return len(r.order)
}

// Dispatch looks up a tool by name, validates the supplied arguments against
// its declared schema, and invokes the bound executor.
//
// Errors are distinguishable by kind: an unknown name wraps ErrToolNotFound
// (fatal to the run — it means the advertised and dispatchable tools have
// diverged), invalid arguments return *ArgumentError, and executor failures
// return *ExecutionError (both recoverable: the orchestrator feeds them back
// to the model as tool result content).
func (r *Registry) Dispatch(ctx context.Context, name string, args map[string]any) (any, error) {
	t, ok := r.tools[name]
	if !ok {
		return nil, fmt.Errorf("dispatching %q: %w", name, ErrToolNotFound)
	}

	if err := validateArgs(t.Def, args); err != nil {
		return nil, err
	}

	result, err := t.Run(ctx, args)
	if err != nil {
		return nil, &ExecutionError{Tool: name, Err: err}
	}
	return result, nil
}

// validateArgs checks required parameters are present and all supplied values
// match their declared types. JSON numbers arrive as float64 and satisfy both
// "integer" and "number" declarations.
func validateArgs(def Definition, args map[string]any) error {
	for _, p := range def.Parameters {
		v, ok := args[p.Name]
		if !ok {
			if p.Required {
				return &ArgumentError{Tool: def.Name, Param: p.Name, Reason: "required parameter is missing"}
			}
			continue
		}
		if !typeMatches(p.Type, v) {
			return &ArgumentError{
				Tool:   def.Name,
				Param:  p.Name,
				Reason: fmt.Sprintf("expected %s, got %T", p.Type, v),
			}
		}
	}
	return nil
}

func typeMatches(declared string, v any) bool {
	switch declared {
	case "string":
		_, ok := v.(string)
		return ok
	case "boolean":
		_, ok := v.(bool)
		return ok
	case "integer":
		switch n := v.(type) {
		case float64:
			return n == float64(int64(n))
		case int, int32, int64:
			return true
		}
		return false
	case "number":
		switch v.(type) {
		case float64, int, int32, int64:
			return true
		}
		return false
	case "array":
		_, ok := v.([]any)
		return ok
	case "object":
		_, ok := v.(map[string]any)
		return ok
	default:
		// Unknown declared type: accept anything rather than reject a tool
		// the model is allowed to call.
		return true
	}
}

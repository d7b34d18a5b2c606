/*
Copyright 2026 CodeSentry Authors
SPDX-License-Identifier: Apache-2.0
*/

package ghtools

import (
	"fmt"

	"github.com/codesentry/ghagent/agent/params"
	"github.com/codesentry/ghagent/agent/registry"
)

func parameter(name, typ, description string, required bool) registry.Parameter {
	return registry.Parameter{Name: name, Type: typ, Description: description, Required: required}
}

// repoParam is the parameter every tool shares.
var repoParam = parameter("repo", "string", "Repository name with owner (e.g., 'owner/repo')", true)

// stringSlice extracts a required array-of-strings parameter. JSON arrays
// arrive as []any, so each element is checked individually.
func stringSlice(args map[string]any, name string) ([]string, error) {
	raw, err := params.Extract[[]any](args, name)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(raw))
	for i, v := range raw {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%s[%d] must be a string, got %T", name, i, v)
		}
		out = append(out, s)
	}
	return out, nil
}

// optionalStringSlice is stringSlice with a nil default.
func optionalStringSlice(args map[string]any, name string) ([]string, error) {
	if _, ok := args[name]; !ok {
		return nil, nil
	}
	return stringSlice(args, name)
}

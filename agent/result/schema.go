/*
Copyright 2026 CodeSentry Authors
SPDX-License-Identifier: Apache-2.0
*/

package result

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
)

// ValidationError reports a final answer that parsed as JSON but does not
// conform to the declared output schema. It is a distinct error kind so
// callers can tell a malformed answer apart from transport failures.
type ValidationError struct {
	Type    string
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("response does not conform to %s schema: missing required fields [%s]",
		e.Type, strings.Join(e.Missing, ", "))
}

// reflector is configured the way tool and output schemas need: required
// fields come from jsonschema struct tags, and the top-level struct is
// expanded in place rather than referenced.
var reflector = jsonschema.Reflector{
	RequiredFromJSONSchemaTags: true,
	ExpandedStruct:             true,
	AllowAdditionalProperties:  true,
	DoNotReference:             true,
}

// Schema returns the JSON schema for T, for advertising the expected output
// shape in prompts.
func Schema[T any]() *jsonschema.Schema {
	var zero T
	return reflector.Reflect(&zero)
}

// Decode extracts JSON from a model response and unmarshals it into T,
// rejecting answers that omit any of T's required fields (per its reflected
// schema) with a *ValidationError.
func Decode[T any](responseText string) (T, error) {
	var zero T

	jsonContent := ExtractJSON(responseText)

	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(jsonContent), &raw); err != nil {
		return zero, fmt.Errorf("response is not a JSON object: %w", err)
	}

	schema := Schema[T]()
	var missing []string
	for _, field := range schema.Required {
		if _, ok := raw[field]; !ok {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return zero, &ValidationError{Type: fmt.Sprintf("%T", zero), Missing: missing}
	}

	var result T
	if err := json.Unmarshal([]byte(jsonContent), &result); err != nil {
		return zero, err
	}
	return result, nil
}

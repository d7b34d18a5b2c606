/*
Copyright 2026 CodeSentry Authors
SPDX-License-Identifier: Apache-2.0
*/

package result

import (
	"bytes"
	"encoding/json"
	"strings"
)

// ExtractJSON extracts JSON content from a model response that may contain
// markdown code blocks. It looks for content between ```json and ``` markers,
// or returns the input trimmed if no markers are found.
func ExtractJSON(responseText string) string {
	// Search for the first ```json on its own line and collect content until
	// the closing ```
	lines := strings.Split(responseText, "\n")
	var jsonBuffer bytes.Buffer
	inJSONBlock := false
	foundJSON := false

	for _, line := range lines {
		if !inJSONBlock && line == "```json" {
			inJSONBlock = true
			foundJSON = true
			continue
		}

		if inJSONBlock && line == "```" {
			break
		}

		if inJSONBlock {
			if jsonBuffer.Len() > 0 {
				jsonBuffer.WriteString("\n")
			}
			jsonBuffer.WriteString(line)
		}
	}

	if foundJSON {
		if jsonBuffer.Len() == 0 {
			// Found a ```json block but it was empty; the caller should
			// handle the empty string as an error.
			return ""
		}
		return strings.TrimSpace(jsonBuffer.String())
	}

	// Fallback: models sometimes wrap the whole response in markers without
	// newline separation, or add stray whitespace.
	responseText = strings.TrimSpace(responseText)

	if strings.HasPrefix(responseText, "```json") && strings.HasSuffix(responseText, "```") {
		responseText = strings.TrimPrefix(responseText, "```json")
		responseText = strings.TrimSuffix(responseText, "```")
		responseText = strings.TrimSpace(responseText)
	} else {
		// These do nothing if the values aren't there, so always do it.
		responseText = strings.TrimPrefix(responseText, "```")
		responseText = strings.TrimSuffix(responseText, "```")
		responseText = strings.TrimSpace(responseText)
	}

	return responseText
}

// Extract extracts JSON content from a text response and unmarshals it into
// the provided type, without schema validation. Use Decode when the type
// declares required fields.
func Extract[T any](responseText string) (T, error) {
	var result T

	jsonContent := ExtractJSON(responseText)

	if err := json.Unmarshal([]byte(jsonContent), &result); err != nil {
		return result, err
	}

	return result, nil
}

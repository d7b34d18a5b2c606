/*
Copyright 2026 CodeSentry Authors
SPDX-License-Identifier: Apache-2.0
*/

package promptbuilder

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// scan walks the template and calls visit once per placeholder occurrence,
// validating names as it goes.
func scan(template string, visit func(name string) error) error {
	for {
		start := strings.Index(template, "{{")
		if start == -1 {
			return nil
		}
		rest := template[start+2:]
		end := strings.Index(rest, "}}")
		if end == -1 {
			return errors.New("unclosed placeholder: missing '}}'")
		}
		name := strings.TrimSpace(rest[:end])
		if !validName(name) {
			return fmt.Errorf("invalid placeholder name %q", name)
		}
		if err := visit(name); err != nil {
			return err
		}
		template = rest[end+2:]
	}
}

// substitute rewrites the template with each placeholder replaced by its
// resolved value. scan and substitute share tokenization, so a name missing
// from values cannot happen for a template that parsed.
func substitute(template string, values map[string]string) (string, error) {
	var out strings.Builder
	for {
		start := strings.Index(template, "{{")
		if start == -1 {
			out.WriteString(template)
			return out.String(), nil
		}
		out.WriteString(template[:start])
		rest := template[start+2:]
		end := strings.Index(rest, "}}")
		if end == -1 {
			return "", errors.New("unclosed placeholder: missing '}}'")
		}
		name := strings.TrimSpace(rest[:end])
		v, ok := values[name]
		if !ok {
			return "", fmt.Errorf("internal error: no value for placeholder %q", name)
		}
		out.WriteString(v)
		template = rest[end+2:]
	}
}

// validName reports whether s is a placeholder name: a letter followed by
// letters, digits, or underscores.
func validName(s string) bool {
	for i, r := range s {
		if i == 0 {
			if !unicode.IsLetter(r) {
				return false
			}
			continue
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return false
		}
	}
	return s != ""
}

/*
Copyright 2026 CodeSentry Authors
SPDX-License-Identifier: Apache-2.0
*/

package promptbuilder

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// slot is the value a placeholder resolves to at render time.
type slot interface {
	render() (string, error)
}

// emptySlot is the parse-time state of a placeholder nothing has bound yet.
type emptySlot struct {
	name string
}

func (e emptySlot) render() (string, error) {
	return "", fmt.Errorf("unbound placeholder: %s", e.name)
}

type textSlot struct {
	s string
}

func (t textSlot) render() (string, error) {
	return t.s, nil
}

type jsonSlot struct {
	v any
}

func (j jsonSlot) render() (string, error) {
	b, err := json.MarshalIndent(j.v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return string(b), nil
}

type yamlSlot struct {
	v any
}

func (y yamlSlot) render() (string, error) {
	b, err := yaml.Marshal(y.v)
	if err != nil {
		return "", fmt.Errorf("failed to marshal YAML: %w", err)
	}
	return string(b), nil
}

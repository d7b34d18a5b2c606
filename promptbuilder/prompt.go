/*
Copyright 2026 CodeSentry Authors
SPDX-License-Identifier: Apache-2.0
*/

package promptbuilder

import (
	"fmt"
	"maps"
	"sort"
)

// literal is a private string type so that templates and text bindings can
// only be built from untyped string constants in source, never from data
// that arrived over the wire.
type literal string

// Prompt is a template whose {{name}} placeholders are filled through typed
// bindings. Prompts are immutable: every Bind method returns a new Prompt.
type Prompt struct {
	src   string
	slots map[string]slot
}

// New parses a template constant and records one slot per distinct
// placeholder. Placeholder names must start with a letter and may contain
// letters, digits, and underscores.
func New(template literal) (*Prompt, error) {
	slots := make(map[string]slot)
	if err := scan(string(template), func(name string) error {
		if _, ok := slots[name]; !ok {
			slots[name] = emptySlot{name: name}
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return &Prompt{src: string(template), slots: slots}, nil
}

// MustNew is New for package-level template variables; it panics on a
// malformed template.
func MustNew(template literal) *Prompt {
	p, err := New(template)
	if err != nil {
		panic(err)
	}
	return p
}

// Names returns the placeholder names in the template, sorted.
func (p *Prompt) Names() []string {
	names := make([]string, 0, len(p.slots))
	for name := range p.slots {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// BindText fills a placeholder with a string constant from the developer.
func (p *Prompt) BindText(name string, value literal) (*Prompt, error) {
	return p.bind(name, textSlot{s: string(value)})
}

// BindJSON fills a placeholder with data rendered as indented JSON.
func (p *Prompt) BindJSON(name string, data any) (*Prompt, error) {
	return p.bind(name, jsonSlot{v: data})
}

// BindYAML fills a placeholder with data rendered as YAML.
func (p *Prompt) BindYAML(name string, data any) (*Prompt, error) {
	return p.bind(name, yamlSlot{v: data})
}

func (p *Prompt) bind(name string, s slot) (*Prompt, error) {
	existing, ok := p.slots[name]
	if !ok {
		return nil, fmt.Errorf("no placeholder %q in template", name)
	}
	if _, empty := existing.(emptySlot); !empty {
		return nil, fmt.Errorf("placeholder %q already bound", name)
	}
	next := &Prompt{src: p.src, slots: maps.Clone(p.slots)}
	next.slots[name] = s
	return next, nil
}

// Render produces the final prompt text. It fails if any placeholder is
// still unbound or a structured binding cannot be marshaled.
func (p *Prompt) Render() (string, error) {
	values := make(map[string]string, len(p.slots))
	for name, s := range p.slots {
		v, err := s.render()
		if err != nil {
			return "", err
		}
		values[name] = v
	}
	return substitute(p.src, values)
}

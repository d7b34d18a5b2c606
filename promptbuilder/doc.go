/*
Copyright 2026 CodeSentry Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package promptbuilder assembles model prompts from templates with typed
// placeholder bindings.
//
// Templates use {{name}} placeholders. The template text and plain-text
// bindings can only come from string constants in source; runtime data
// enters a prompt exclusively through structured bindings (BindJSON,
// BindYAML), which marshal it rather than splicing it in raw. Rendering
// fails if any placeholder was left unbound, so a prompt cannot silently
// ship with a hole in it.
//
//	var reviewPrompt = promptbuilder.MustNew(`Review this pull request:
//
//	{{pull_request}}
//
//	Changed files:
//	{{files}}`)
//
//	p, err := reviewPrompt.BindJSON("pull_request", pr)
//	...
//	p, err = p.BindJSON("files", files)
//	...
//	text, err := p.Render()
package promptbuilder

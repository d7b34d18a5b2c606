/*
Copyright 2026 CodeSentry Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package agent drives a bounded conversation between a model backend and a
// tool registry.
//
// The orchestrator is an explicit state machine:
//
//	AwaitingModel -> DispatchingTools -> AwaitingModel (loop)
//	AwaitingModel -> Done     (model answered without tool calls)
//	AwaitingModel -> Aborted  (iteration ceiling reached, or fatal error)
//
// Tool calls within one assistant turn are dispatched strictly sequentially,
// in the order the model returned them, and every call is resolved (success
// or captured error) before the next model call. A failing tool does not
// abort the run: the error text becomes the tool result so the model can
// react to it. A model-call failure or an unregistered tool name is terminal.
//
// The loop is provably bounded: no more than the configured number of model
// calls are ever issued, regardless of model behavior.
package agent

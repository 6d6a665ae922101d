// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm defines the chat-completion collaborator used by the
// research nodes, and an OpenAI-compatible HTTP implementation.
//
// See docs/ARCHITECTURE.md § LLM Collaborator.
package llm

import "context"

// Result is the typed outcome of a completion call. Callers branch on
// Success rather than relying on errors: a failed API call is a value,
// and each caller decides whether it is fatal for its stage.
type Result struct {
	// Success reports whether the backend produced content.
	Success bool `json:"success"`

	// Content is the completion text when Success is true.
	Content string `json:"content,omitempty"`

	// Error describes the failure when Success is false.
	Error string `json:"error,omitempty"`
}

// Client produces chat completions. Implementations must return a failed
// Result rather than panic, and must respect ctx cancellation.
type Client interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string, temperature, topP float64) Result
}

// Fail builds a failed Result from an error message.
func Fail(msg string) Result {
	return Result{Success: false, Error: msg}
}

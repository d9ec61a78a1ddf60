// Package provider abstracts the text-generation service used to synthesize
// user queries, so the pipeline can run against a deterministic stub in tests.
package provider

import (
	"context"
	"fmt"
)

// Synthesizer turns an assistant response into the user query that would
// plausibly have elicited it. One outbound API call per invocation.
type Synthesizer interface {
	// Synthesize returns the generated query with incidental whitespace
	// trimmed. Failures are returned as *ServiceError.
	Synthesize(ctx context.Context, persona, responseText string) (string, error)

	// Name returns the provider name.
	Name() string

	// Close cleans up resources.
	Close() error
}

// ModelLister is implemented by providers that can enumerate their available
// models.
type ModelLister interface {
	ListModels(ctx context.Context) ([]Info, error)
}

// Info describes one model available from a provider.
type Info struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name,omitempty" yaml:"name,omitempty"`
	Provider    string `json:"provider" yaml:"provider"`
	CreatedAt   string `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// ServiceError wraps a failed call to the generation service with enough
// context to report which backend and model failed.
type ServiceError struct {
	Provider string
	Model    string
	Err      error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s call failed (model %s): %v", e.Provider, e.Model, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// QueryPrompt builds the system instruction for the query-generator call.
// The persona is embedded so the synthesized query fits the assistant the
// dataset is meant to train.
func QueryPrompt(persona string) string {
	return fmt.Sprintf(`You are a query generator for an assistant with the following persona:

%s

Given a piece of text written by that assistant, craft the user message that might have resulted in that text as the response. Reply with the user message only, no preamble or commentary.`, persona)
}

// Package llm abstracts the text-generation backend so agents can be run
// against Ollama, OpenAI or a mock without caring which.
package llm

import "context"

// Caller is a single blocking prompt -> text call. No streaming semantics
// are exposed; backends that stream internally must return the joined text.
type Caller interface {
	Invoke(ctx context.Context, prompt string) (string, error)
}

// CallerFunc adapts a plain function to the Caller interface.
type CallerFunc func(ctx context.Context, prompt string) (string, error)

func (f CallerFunc) Invoke(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

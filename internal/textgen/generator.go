// Package textgen wraps hosted text-generation models behind a single
// prompt-in, text-out interface and turns model output into advice lines.
package textgen

import (
	"context"
	"errors"
)

// ErrEmptyResponse is returned when a model answers with no usable text.
var ErrEmptyResponse = errors.New("text generation returned no content")

// Generator produces free text for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

// Generate calls f(ctx, prompt).
func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

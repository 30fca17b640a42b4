package genai

import (
	"context"
	"errors"
)

// ErrUpstream wraps any failure of the external text-generation call:
// timeouts, non-success statuses, malformed envelopes, empty candidate
// lists. Callers convert it into a safe conversational fallback; it must
// never surface to the end user.
var ErrUpstream = errors.New("text generation upstream failed")

// Engine abstracts an external text-generation backend (Gemini REST or any
// OpenAI-compatible API). The intent extractor depends on this interface so
// tests can swap in a deterministic stub.
type Engine interface {
	// GenerateText sends a single opaque prompt and returns the model's
	// single text response.
	GenerateText(ctx context.Context, prompt string) (string, error)

	// IsReady reports whether the backend is reachable with the configured
	// credentials.
	IsReady(ctx context.Context) bool

	// Name identifies the provider for logs and status output.
	Name() string
}

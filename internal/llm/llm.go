package llm

import "context"

// Generator is the boundary to a text-generation model service. Implementations
// must return a typed error on failure rather than hanging; callers treat the
// returned payload as untrusted.
type Generator interface {
	// GenerateContent sends the prompt with an optional system instruction and
	// returns the textual response.
	GenerateContent(ctx context.Context, system, prompt string) (string, error)
	// GenerateJSON requests a JSON-formatted response. The returned string is
	// still unvalidated and must pass through a parsing gate before use.
	GenerateJSON(ctx context.Context, system, prompt string) (string, error)
	// Model reports the model identifier used for generation.
	Model() string
}

package llm

import "context"

// Provider is the language-model capability injected into the interview
// engine. Implementations may fail with timeouts or malformed output; callers
// own retry and fallback policy.
type Provider interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Close() error
}

package ai

import "context"

// NarrativeProvider defines the contract for generating operator-facing text
// from an optimization digest. This interface allows swapping providers
// (Gemini, OpenAI, etc.) in the future.
type NarrativeProvider interface {
	Narrative(ctx context.Context, digest string) (string, error)
}

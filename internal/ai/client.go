package ai

import "context"

// Client is the generative-AI collaborator interface. Both calls are
// fallible and callers are expected to degrade gracefully: a failed
// generation never crashes the caller.
type Client interface {
	// GenerateText runs a plain text prompt and returns the response text.
	GenerateText(ctx context.Context, prompt string) (string, error)
	// GenerateVision runs a prompt against an image. imageFormat is the
	// image subtype ("jpeg", "png", "webp").
	GenerateVision(ctx context.Context, prompt string, imageFormat string, image []byte) (string, error)
}

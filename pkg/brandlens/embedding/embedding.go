// Package embedding turns mention text into dense vectors. Two providers
// are included: an HTTP client for OpenAI-compatible /v1/embeddings
// endpoints, and a local feature-hashing provider that needs no network
// and is fully deterministic.
package embedding

import "context"

// Provider generates embedding vectors from text. Implementations must
// return vectors of a consistent dimensionality.
type Provider interface {
	Embed(ctx context.Context, text string) ([]float64, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float64, error)
	Dimensions() int
}

// Package embedding talks to an external text-embedding API. The provider is
// consumed as a black-box embed(texts) -> vectors function by every scoring
// signal; callers are expected to catch failures and degrade.
package embedding

import "context"

// Provider maps texts to fixed-size numeric vectors.
type Provider interface {
	// Embed returns one vector per input text, in input order.
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	// Dimensions is the fixed output dimensionality of the model.
	Dimensions() int
	// Model is the model identifier used for embeddings.
	Model() string
}

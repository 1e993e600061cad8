package embeddings

import (
	"context"
	"errors"
)

// Vector is a simple float32 slice wrapper.
type Vector []float32

// ErrUnavailable indicates the embedding model cannot serve the request
// (provider down, sequence rejected, malformed response). Callers must
// surface it, never mask it as an empty alignment.
var ErrUnavailable = errors.New("embedding model unavailable")

// Embedder returns one contextual vector per input token, preserving
// order. Implementations own any warm model state and must be safe for
// concurrent use.
type Embedder interface {
	EmbedTokens(ctx context.Context, tokens []string) ([]Vector, error)
	// Ready reports whether the model is loaded and able to serve.
	Ready(ctx context.Context) error
}

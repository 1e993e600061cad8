package embeddings

import (
	"context"
	"fmt"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"word-aligner/internal/retry"
)

// OpenAIEmbedder calls OpenAI's embeddings API with batched token input.
type OpenAIEmbedder struct {
	model  openai.EmbeddingModel
	client *openai.Client
}

const (
	defaultEmbeddingTimeout = 30 * time.Second
	embedAttempts           = 3
	embedRetryBase          = 200 * time.Millisecond
)

// NewOpenAIEmbedder creates a new OpenAI embedder.
func NewOpenAIEmbedder(apiKey string, model openai.EmbeddingModel) (*OpenAIEmbedder, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("api key required")
	}
	if model == "" {
		model = openai.EmbeddingModelTextEmbedding3Small
	}
	cli := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAIEmbedder{
		model:  model,
		client: &cli,
	}, nil
}

// EmbedTokens embeds every token in one batched API call, retrying
// transient failures with exponential backoff.
func (e *OpenAIEmbedder) EmbedTokens(ctx context.Context, tokens []string) ([]Vector, error) {
	if e == nil || e.client == nil {
		return nil, ErrUnavailable
	}
	if len(tokens) == 0 {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(ctx, defaultEmbeddingTimeout)
	defer cancel()

	var resp *openai.CreateEmbeddingResponse
	err := retry.Do(ctx, embedAttempts, embedRetryBase, func() error {
		var callErr error
		resp, callErr = e.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
			Input: openai.EmbeddingNewParamsInputUnion{
				OfArrayOfStrings: tokens,
			},
			Model: e.model,
		})
		return callErr
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if len(resp.Data) != len(tokens) {
		return nil, fmt.Errorf("%w: got %d vectors for %d tokens", ErrUnavailable, len(resp.Data), len(tokens))
	}

	vecs := make([]Vector, len(tokens))
	for _, d := range resp.Data {
		i := int(d.Index)
		if i < 0 || i >= len(tokens) {
			return nil, fmt.Errorf("%w: vector index %d out of range", ErrUnavailable, i)
		}
		// Convert []float64 to []float32
		vec := make(Vector, len(d.Embedding))
		for j, v := range d.Embedding {
			vec[j] = float32(v)
		}
		vecs[i] = vec
	}
	return vecs, nil
}

// Ready reports whether the client is initialized.
func (e *OpenAIEmbedder) Ready(_ context.Context) error {
	if e == nil || e.client == nil {
		return ErrUnavailable
	}
	return nil
}

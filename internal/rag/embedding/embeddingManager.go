package embedding

import (
	"context"
	"errors"
)

// ErrEmptyEmbedding marks a provider response that contained no usable
// vector - distinguishable from transport failures so callers never index
// a zero-length embedding.
var ErrEmptyEmbedding = errors.New("provider returned an empty embedding")

type Embedder interface {
	GetEmbedding(ctx context.Context, query string) ([]float32, error)
	BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error)
}

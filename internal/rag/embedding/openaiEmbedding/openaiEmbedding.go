package openaiEmbedding

import (
	"context"
	"sync"

	"github.com/akolanti/DocQA/internal/rag/embedding"
	"github.com/akolanti/DocQA/pkg/logger_i"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

var logger *logger_i.Logger
var once sync.Once
var embeddingClient *client

type client struct {
	api   openai.Client
	model string
}

func GetOpenAIEmbeddingClient(ctx context.Context, modelName string, apikey string) embedding.Embedder {
	once.Do(func() {
		logger = logger_i.NewLogger("openai_embedding")
		if apikey == "" {
			logger.Error("OpenAI API key is empty")
			return
		}
		embeddingClient = &client{
			api:   openai.NewClient(option.WithAPIKey(apikey)),
			model: modelName,
		}
		logger.Info("OpenAI Embedding client created", "model", modelName)
	})

	if embeddingClient == nil {
		return nil
	}
	return &client{api: embeddingClient.api, model: embeddingClient.model}
}

func (c *client) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	vectors, err := c.doCall(ctx, []string{query})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (c *client) BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error) {
	return c.doCall(ctx, chunks)
}

func (c *client) doCall(ctx context.Context, inputs []string) ([][]float32, error) {
	res, err := c.api.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Model: openai.EmbeddingModel(c.model),
		Input: openai.EmbeddingNewParamsInputUnion{
			OfArrayOfStrings: inputs,
		},
	})
	if err != nil {
		logger.Error("Error getting Embeddings from OpenAI", "error", err.Error())
		return nil, err
	}
	if len(res.Data) != len(inputs) {
		logger.Error("Embedding count mismatch", "want", len(inputs), "got", len(res.Data))
		return nil, embedding.ErrEmptyEmbedding
	}

	vectors := make([][]float32, 0, len(res.Data))
	for _, item := range res.Data {
		if len(item.Embedding) == 0 {
			return nil, embedding.ErrEmptyEmbedding
		}
		vector := make([]float32, len(item.Embedding))
		for i, v := range item.Embedding {
			vector[i] = float32(v)
		}
		vectors = append(vectors, vector)
	}
	return vectors, nil
}

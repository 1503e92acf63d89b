package googleEmbedding

import (
	"context"
	"sync"

	"github.com/akolanti/DocQA/internal/config"
	"github.com/akolanti/DocQA/internal/rag/embedding"
	"github.com/akolanti/DocQA/pkg/logger_i"
	"google.golang.org/genai"
)

var logger *logger_i.Logger
var once sync.Once
var embeddingClient *client
var dimension int32 = config.EmbeddingOutputDimensionality

type client struct {
	genAi *genai.Client
	model string
}

func newGoogleEmbedder(ctx context.Context, modelName string, apikey string) {
	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apikey})
	if err != nil {
		logger.Error("Error creating Google Embedding client:", "error", err)
	}
	if c != nil {
		embeddingClient = &client{
			genAi: c,
			model: modelName,
		}
		logger.Debug("Google Embedding model name: " + modelName)
		logger.Info("Google Embedding client created")
		go closeClient(ctx, embeddingClient)
	}
}

func closeClient(ctx context.Context, embeddingClient *client) {
	<-ctx.Done()
	logger.Info("Closing Google Embedding client")
	embeddingClient.genAi = nil
	embeddingClient.model = ""
}

func GetGoogleEmbeddingClient(ctx context.Context, modelName string, apikey string) embedding.Embedder {
	once.Do(func() {
		logger = logger_i.NewLogger("google_embedding")
		newGoogleEmbedder(ctx, modelName, apikey)
	})

	//if init still fails
	if embeddingClient == nil {
		return nil
	}
	return &client{genAi: embeddingClient.genAi, model: embeddingClient.model}
}

func (c *client) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	result, err := c.doCall(ctx, genai.Text(query))
	if err != nil {
		logger.Error("Error getting Embedding from Google", "error", err.Error())
		return nil, err
	}
	if len(result.Embeddings) == 0 || len(result.Embeddings[0].Values) == 0 {
		return nil, embedding.ErrEmptyEmbedding
	}
	return result.Embeddings[0].Values, nil
}

func (c *client) BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error) {
	res, err := c.doCall(ctx, getContent(chunks))
	if err != nil {
		logger.Error("Error getting Embeddings from Google", "error", err)
		return nil, err
	}
	if len(res.Embeddings) != len(chunks) {
		logger.Error("Embedding count mismatch", "want", len(chunks), "got", len(res.Embeddings))
		return nil, embedding.ErrEmptyEmbedding
	}

	embeddingResults := make([][]float32, 0, len(res.Embeddings))
	for _, r := range res.Embeddings {
		if len(r.Values) == 0 {
			return nil, embedding.ErrEmptyEmbedding
		}
		embeddingResults = append(embeddingResults, r.Values)
	}
	return embeddingResults, nil
}

func (c *client) doCall(ctx context.Context, content []*genai.Content) (*genai.EmbedContentResponse, error) {
	result, err := c.genAi.Models.EmbedContent(ctx, c.model, content, &genai.EmbedContentConfig{OutputDimensionality: &dimension, TaskType: "RETRIEVAL_DOCUMENT"})
	return result, err
}

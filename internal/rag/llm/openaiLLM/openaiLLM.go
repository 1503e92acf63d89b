package openaiLLM

import (
	"context"
	"errors"
	"sync"

	"github.com/akolanti/DocQA/internal/rag/llm"
	"github.com/akolanti/DocQA/pkg/logger_i"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

var logger *logger_i.Logger
var once sync.Once
var instance *llmClient

type llmClient struct {
	api       openai.Client
	modelName string
}

func GetOpenAIClient(ctx context.Context, modelName string, apikey string) llm.Provider {
	once.Do(func() {
		logger = logger_i.NewLogger("llm_openai")
		if apikey == "" {
			logger.Error("OpenAI API key is empty")
			return
		}
		instance = &llmClient{
			api:       openai.NewClient(option.WithAPIKey(apikey)),
			modelName: modelName,
		}
		logger.Info("OpenAI client created", "model", modelName)
	})

	if instance == nil {
		return nil
	}
	return &llmClient{api: instance.api, modelName: instance.modelName}
}

// Complete relies on the prompt-embedded schema text; the caller's
// extraction and repair path handles replies that drift from it.
func (c *llmClient) Complete(ctx context.Context, systemPrompt string, userPrompt string, schema *llm.ResponseSchema) (string, error) {
	result, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.modelName),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPrompt),
		},
	})
	if err != nil {
		logger.Error("OpenAI generation failed", "error", err.Error())
		return "", err
	}
	if len(result.Choices) == 0 || result.Choices[0].Message.Content == "" {
		return "", errors.New("openai returned an empty completion")
	}
	return result.Choices[0].Message.Content, nil
}

package gemini

import (
	"context"
	"errors"
	"sync"

	"github.com/akolanti/DocQA/internal/config"
	"github.com/akolanti/DocQA/internal/rag/llm"
	"github.com/akolanti/DocQA/pkg/logger_i"
	"google.golang.org/genai"
)

type llmClient struct {
	client    *genai.Client
	modelName string
}

var logger *logger_i.Logger
var geminiClient *llmClient
var once sync.Once
var temperature = config.ModelTemperature

func GetGeminiClient(ctx context.Context, modelName string, apikey string) llm.Provider {
	once.Do(func() {
		logger = logger_i.NewLogger("llm_gemini")
		newGeminiClient(ctx, modelName, apikey)
	})

	if geminiClient == nil {
		return nil
	}
	return &llmClient{client: geminiClient.client, modelName: geminiClient.modelName}
}

func newGeminiClient(ctx context.Context, modelName string, apikey string) {

	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apikey})
	if err != nil {
		logger.Error("Error creating Gemini client:", "error", err)
	}
	if c != nil {
		geminiClient = &llmClient{client: c, modelName: modelName}
		logger.Info("Gemini client created", "model", modelName)
		go closeClient(ctx, geminiClient)
	}

}

func (c *llmClient) Complete(ctx context.Context, systemPrompt string, userPrompt string, schema *llm.ResponseSchema) (string, error) {
	contentConfig := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemPrompt}},
		},
		Temperature: &temperature,
	}

	if schema != nil {
		contentConfig.ResponseMIMEType = "application/json"
		//union-typed fields fall back to prompt-text schema only
		if schema.StrictlyTypable() {
			contentConfig.ResponseSchema = toGenaiSchema(schema)
		}
	}

	result, err := c.client.Models.GenerateContent(
		ctx,
		c.modelName,
		genai.Text(userPrompt),
		contentConfig,
	)
	if err != nil {
		logger.Error("Gemini generation failed", "error", err.Error())
		return "", err
	}
	text := result.Text()
	if text == "" {
		return "", errors.New("gemini returned an empty completion")
	}
	return text, nil
}

func toGenaiSchema(schema *llm.ResponseSchema) *genai.Schema {
	properties := make(map[string]*genai.Schema, len(schema.Fields))
	ordering := make([]string, 0, len(schema.Fields))
	required := make([]string, 0, len(schema.Fields))

	for _, f := range schema.Fields {
		properties[f.Name] = fieldSchema(f.Type)
		ordering = append(ordering, f.Name)
		required = append(required, f.Name)
	}
	return &genai.Schema{
		Type:             genai.TypeObject,
		Properties:       properties,
		Required:         required,
		PropertyOrdering: ordering,
	}
}

func fieldSchema(t llm.FieldType) *genai.Schema {
	switch t {
	case llm.TypeNumber:
		return &genai.Schema{Type: genai.TypeNumber}
	case llm.TypeInteger:
		return &genai.Schema{Type: genai.TypeInteger}
	case llm.TypeBoolean:
		return &genai.Schema{Type: genai.TypeBoolean}
	case llm.TypeStringArray:
		return &genai.Schema{Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}}
	case llm.TypeIntegerArray:
		return &genai.Schema{Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeInteger}}
	default:
		return &genai.Schema{Type: genai.TypeString}
	}
}

func closeClient(ctx context.Context, llmc *llmClient) {
	<-ctx.Done()
	logger.Info("Closing Gemini client")
	llmc.client = nil
	llmc.modelName = ""
}

package answer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/akolanti/DocQA/internal/domain/commonModels"
	"github.com/akolanti/DocQA/internal/rag/llm"
	"github.com/akolanti/DocQA/pkg/logger_i"
)

const contextBlockSeparator = "\n\n---\n\n"

// Generator turns a question plus retrieved context into a structured,
// schema-validated answer.
type Generator struct {
	provider llm.Provider
	logger   *logger_i.Logger
}

func NewGenerator(provider llm.Provider) *Generator {
	return &Generator{
		provider: provider,
		logger:   logger_i.NewLogger("AnswerGenerator"),
	}
}

// Answer selects the (domain, kind) prompt pair, invokes the model over the
// formatted context and parses the reply. Malformed replies go through one
// repair pass before the question fails. The returned relevant_pages are
// already validated against the retrieved set.
func (g *Generator) Answer(ctx context.Context, question string, contextChunks []commonModels.RetrievalResult, domain commonModels.Domain, kind commonModels.AnswerKind) (*commonModels.Answer, error) {
	systemPrompt, err := systemPromptFor(domain, kind)
	if err != nil {
		return nil, err
	}
	schema := schemaFor(kind)
	userPrompt := formatUserPrompt(question, contextChunks)

	var raw string
	err = llm.CallWithRetry(ctx, g.logger, "answer_generation", func() error {
		var callErr error
		raw, callErr = g.provider.Complete(ctx, systemPrompt, userPrompt, schema)
		return callErr
	})
	if err != nil {
		return nil, err
	}

	answer, parseErr := g.parseAnswer(raw, kind)
	if parseErr != nil {
		g.logger.Warn("Answer reply failed to parse, running repair pass", "error", parseErr)
		answer, err = g.repair(ctx, raw, schema, kind)
		if err != nil {
			return nil, fmt.Errorf("answer unparseable after repair: %w", err)
		}
	}

	answer.RelevantPages = ValidatePageReferences(answer.RelevantPages, contextChunks, g.logger)
	return answer, nil
}

// repair resubmits the broken reply with reformat-only instructions.
func (g *Generator) repair(ctx context.Context, broken string, schema *llm.ResponseSchema, kind commonModels.AnswerKind) (*commonModels.Answer, error) {
	var raw string
	err := llm.CallWithRetry(ctx, g.logger, "answer_repair", func() error {
		var callErr error
		raw, callErr = g.provider.Complete(ctx, repairPromptFor(schema), broken, nil)
		return callErr
	})
	if err != nil {
		return nil, err
	}
	return g.parseAnswer(raw, kind)
}

func (g *Generator) parseAnswer(raw string, kind commonModels.AnswerKind) (*commonModels.Answer, error) {
	object, err := llm.ExtractJSONObject(raw)
	if err != nil {
		return nil, err
	}

	var fields map[string]any
	if err := json.Unmarshal(object, &fields); err != nil {
		return nil, fmt.Errorf("extracted object is not valid JSON: %w", err)
	}

	finalAnswer, err := coerceFinalAnswer(kind, fields["final_answer"])
	if err != nil {
		return nil, err
	}

	return &commonModels.Answer{
		StepByStepAnalysis: stringField(fields, "step_by_step_analysis"),
		ReasoningSummary:   stringField(fields, "reasoning_summary"),
		RelevantPages:      coercePages(fields["relevant_pages"]),
		FinalAnswer:        finalAnswer,
	}, nil
}

// NoContextAnswer is the structured result for a question asked against an
// empty corpus - same envelope, no model call.
func NoContextAnswer(kind commonModels.AnswerKind) *commonModels.Answer {
	var finalAnswer any
	switch kind {
	case commonModels.KindBoolean:
		finalAnswer = false
	case commonModels.KindString:
		finalAnswer = notFoundStatement
	default:
		finalAnswer = notAvailable
	}
	return &commonModels.Answer{
		StepByStepAnalysis: "No documents were available to search, so no evidence could be examined.",
		ReasoningSummary:   "No documents available.",
		RelevantPages:      []int{},
		FinalAnswer:        finalAnswer,
	}
}

func formatUserPrompt(question string, contextChunks []commonModels.RetrievalResult) string {
	blocks := make([]string, 0, len(contextChunks))
	for _, c := range contextChunks {
		blocks = append(blocks, fmt.Sprintf("Text from %s, page %d: \"\"\"%s\"\"\"", c.DocumentID, c.Page, c.Text))
	}
	var b strings.Builder
	b.WriteString("Context:\n\n")
	b.WriteString(strings.Join(blocks, contextBlockSeparator))
	b.WriteString("\n\nQuestion: ")
	b.WriteString(question)
	return b.String()
}

func stringField(fields map[string]any, name string) string {
	if s, ok := fields[name].(string); ok {
		return s
	}
	return ""
}

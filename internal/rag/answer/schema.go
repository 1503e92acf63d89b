package answer

import (
	"fmt"

	"github.com/akolanti/DocQA/internal/domain/commonModels"
	"github.com/akolanti/DocQA/internal/rag/llm"
)

// All four answer kinds share the same envelope; only the type and the
// instructions of final_answer change.
func schemaFor(kind commonModels.AnswerKind) *llm.ResponseSchema {
	finalAnswer := llm.Field{Name: "final_answer"}
	switch kind {
	case commonModels.KindString:
		finalAnswer.Type = llm.TypeString
		finalAnswer.Description = "A coherent answer grounded only in the context. " +
			"If the context does not contain the answer, state explicitly that it was not found."
	case commonModels.KindNumber:
		finalAnswer.Type = llm.TypeNumberOrNA
		finalAnswer.Description = "The exact metric asked for, copied from the context without computation, " +
			"aggregation or inference. Normalize stated units (thousand/million) into the number itself. " +
			"Values in parentheses are negative. Answer \"N/A\" if no exact, non-derived match exists."
	case commonModels.KindBoolean:
		finalAnswer.Type = llm.TypeBoolean
		finalAnswer.Description = "Strictly true or false. Never \"N/A\": answer false when the context " +
			"does not support a positive answer."
	case commonModels.KindNames:
		finalAnswer.Type = llm.TypeNamesOrNA
		finalAnswer.Description = "Entity names exactly as written in the context, in order of appearance, " +
			"with repeated mentions of one concept deduplicated. Answer \"N/A\" if none are found."
	default:
		panic(fmt.Sprintf("no schema for answer kind %q", kind))
	}

	return &llm.ResponseSchema{
		Name: "question_answer_" + string(kind),
		Fields: []llm.Field{
			{
				Name: "step_by_step_analysis",
				Type: llm.TypeString,
				Description: "Detailed reasoning over the context blocks, citing which block " +
					"supports each step.",
			},
			{
				Name:        "reasoning_summary",
				Type:        llm.TypeString,
				Description: "One or two sentences condensing the analysis above.",
			},
			{
				Name:        "relevant_pages",
				Type:        llm.TypeIntegerArray,
				Description: "Page numbers of the context blocks the answer is based on.",
			},
			finalAnswer,
		},
	}
}

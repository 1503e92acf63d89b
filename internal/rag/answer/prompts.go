package answer

import (
	"fmt"

	"github.com/akolanti/DocQA/internal/domain/commonModels"
	"github.com/akolanti/DocQA/internal/rag/llm"
)

// Per-domain framing prepended to every answer prompt. The envelope and the
// final_answer rules come from the schema, so these stay about the domain.
var domainInstructions = map[commonModels.Domain]string{
	commonModels.DomainUniversal: `You are an assistant answering questions strictly from the provided document extracts.
Use only the context blocks below; never rely on outside knowledge.`,

	commonModels.DomainAnnualReport: `You are a financial analyst answering questions about corporate annual reports.
Use only the report extracts below. Figures must be read exactly as printed: do not
compute, annualize or aggregate values yourself, and keep currencies and reporting
periods as stated. Distinguish consolidated figures from segment figures.`,

	commonModels.DomainEducation: `You are an assistant answering questions about educational materials: textbooks,
course descriptions, curricula and academic policies. Use only the extracts below.
Preserve the source's own terminology for courses, grades and requirements.`,

	commonModels.DomainStock: `You are an equity research assistant answering questions about stock and market
documents: prospectuses, filings and market reports. Use only the extracts below.
Quote prices, ratios and share counts exactly as printed, including their units,
and never derive a figure the source does not state.`,

	commonModels.DomainAutomotive: `You are an assistant answering questions about automotive documents: vehicle
manuals, technical specifications and service documentation. Use only the extracts
below. Keep model designations, part numbers and measurement units exactly as written.`,

	commonModels.DomainMedical: `You are an assistant answering questions about medical documents: clinical
guidelines, study reports and patient information. Use only the extracts below.
Report dosages, populations and outcomes exactly as stated and never generalize
beyond what the source claims. This is document lookup, not medical advice.`,
}

const answerFraming = `Answer the question using only the context.
Think step by step inside the JSON object - do the full analysis in
step_by_step_analysis before committing to final_answer.

Respond with a single JSON object of this exact shape and nothing else:
%s`

const repairSystemPrompt = `The text below was supposed to be a single JSON object of this shape:
%s

Reformat it into exactly that JSON object. Keep every value; invent nothing.
Respond with the JSON object only.`

// systemPromptFor resolves the (domain, kind) pair into the full system
// prompt. Every pair must resolve - checkPromptTable runs at startup.
func systemPromptFor(domain commonModels.Domain, kind commonModels.AnswerKind) (string, error) {
	instruction, ok := domainInstructions[domain]
	if !ok {
		return "", fmt.Errorf("no instruction for domain %q", domain)
	}
	schema := schemaFor(kind)
	return instruction + "\n\n" + fmt.Sprintf(answerFraming, schema.PromptText()), nil
}

func repairPromptFor(schema *llm.ResponseSchema) string {
	return fmt.Sprintf(repairSystemPrompt, schema.PromptText())
}

// CheckPromptTable verifies all domain x kind pairs resolve. Called once
// from main so a missing prompt fails deployment, not the first request.
func CheckPromptTable() error {
	for _, domain := range commonModels.AllDomains() {
		for _, kind := range commonModels.AllAnswerKinds() {
			if _, err := systemPromptFor(domain, kind); err != nil {
				return err
			}
		}
	}
	return nil
}

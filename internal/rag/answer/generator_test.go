package answer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/akolanti/DocQA/internal/domain/commonModels"
	"github.com/akolanti/DocQA/internal/rag/llm"
)

// scriptedProvider returns its replies in order, repeating the last one.
type scriptedProvider struct {
	replies []string
	err     error
	calls   int
}

func (p *scriptedProvider) Complete(ctx context.Context, systemPrompt, userPrompt string, schema *llm.ResponseSchema) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	i := p.calls
	p.calls++
	if i >= len(p.replies) {
		i = len(p.replies) - 1
	}
	return p.replies[i], nil
}

func retrievalContext() []commonModels.RetrievalResult {
	return []commonModels.RetrievalResult{
		{DocumentID: "doc-1", Page: 3, Text: "Revenue grew 12 percent."},
		{DocumentID: "doc-1", Page: 5, Text: "Operating costs were flat."},
	}
}

func TestGenerator_Answer_FencedReply(t *testing.T) {
	provider := &scriptedProvider{replies: []string{
		"Here is the result:\n```json\n{\"step_by_step_analysis\": \"checked page 3\", \"reasoning_summary\": \"growth stated outright\", \"relevant_pages\": [3], \"final_answer\": \"12 percent growth\"}\n```",
	}}
	g := NewGenerator(provider)

	ans, err := g.Answer(context.Background(), "How did revenue develop?", retrievalContext(), commonModels.DomainAnnualReport, commonModels.KindString)
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if ans.FinalAnswer != "12 percent growth" {
		t.Errorf("FinalAnswer got %v", ans.FinalAnswer)
	}
	if ans.ReasoningSummary != "growth stated outright" {
		t.Errorf("ReasoningSummary got %q", ans.ReasoningSummary)
	}
	// page 3 is valid, backfilled to the minimum from retrieval order
	if len(ans.RelevantPages) != 2 || ans.RelevantPages[0] != 3 || ans.RelevantPages[1] != 5 {
		t.Errorf("RelevantPages got %v, want [3 5]", ans.RelevantPages)
	}
	if provider.calls != 1 {
		t.Errorf("made %d calls, want 1", provider.calls)
	}
}

func TestGenerator_Answer_RepairPass(t *testing.T) {
	provider := &scriptedProvider{replies: []string{
		"I think the answer is twelve.",
		`{"step_by_step_analysis": "", "reasoning_summary": "", "relevant_pages": [5], "final_answer": 12}`,
	}}
	g := NewGenerator(provider)

	ans, err := g.Answer(context.Background(), "q", retrievalContext(), commonModels.DomainUniversal, commonModels.KindNumber)
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if ans.FinalAnswer != 12.0 {
		t.Errorf("FinalAnswer got %v, want 12", ans.FinalAnswer)
	}
	if provider.calls != 2 {
		t.Errorf("made %d calls, want the answer call plus one repair", provider.calls)
	}
}

func TestGenerator_Answer_RepairExhausted(t *testing.T) {
	provider := &scriptedProvider{replies: []string{"still not json", "again not json"}}
	g := NewGenerator(provider)

	if _, err := g.Answer(context.Background(), "q", retrievalContext(), commonModels.DomainUniversal, commonModels.KindString); err == nil {
		t.Fatal("expected failure after the repair pass")
	}
	if provider.calls != 2 {
		t.Errorf("made %d calls, want 2", provider.calls)
	}
}

func TestGenerator_Answer_ProviderFailure(t *testing.T) {
	g := NewGenerator(&scriptedProvider{err: errors.New("provider down")})
	if _, err := g.Answer(context.Background(), "q", retrievalContext(), commonModels.DomainUniversal, commonModels.KindString); err == nil {
		t.Fatal("expected the provider error to surface")
	}
}

func TestFormatUserPrompt(t *testing.T) {
	prompt := formatUserPrompt("What changed?", retrievalContext())

	if !strings.HasPrefix(prompt, "Context:\n\n") {
		t.Error("prompt must open with the context header")
	}
	if !strings.Contains(prompt, `Text from doc-1, page 3: """Revenue grew 12 percent."""`) {
		t.Error("block formatting is wrong")
	}
	if !strings.Contains(prompt, contextBlockSeparator) {
		t.Error("blocks must be joined by the separator")
	}
	if !strings.HasSuffix(prompt, "Question: What changed?") {
		t.Error("prompt must close with the question")
	}
}

func TestNoContextAnswer(t *testing.T) {
	tests := []struct {
		kind commonModels.AnswerKind
		want any
	}{
		{commonModels.KindString, notFoundStatement},
		{commonModels.KindNumber, notAvailable},
		{commonModels.KindBoolean, false},
		{commonModels.KindNames, notAvailable},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			ans := NoContextAnswer(tt.kind)
			if ans.FinalAnswer != tt.want {
				t.Errorf("FinalAnswer got %v, want %v", ans.FinalAnswer, tt.want)
			}
			if ans.RelevantPages == nil || len(ans.RelevantPages) != 0 {
				t.Errorf("RelevantPages got %v, want empty", ans.RelevantPages)
			}
		})
	}
}

func TestCheckPromptTable(t *testing.T) {
	if err := CheckPromptTable(); err != nil {
		t.Fatalf("prompt table incomplete: %v", err)
	}
}

func TestSchemaFor_Typability(t *testing.T) {
	if !schemaFor(commonModels.KindString).StrictlyTypable() {
		t.Error("string schema should map onto plain JSON types")
	}
	if !schemaFor(commonModels.KindBoolean).StrictlyTypable() {
		t.Error("boolean schema should map onto plain JSON types")
	}
	if schemaFor(commonModels.KindNumber).StrictlyTypable() {
		t.Error("number schema allows N/A and cannot be strictly typed")
	}
	if schemaFor(commonModels.KindNames).StrictlyTypable() {
		t.Error("names schema allows N/A and cannot be strictly typed")
	}
}

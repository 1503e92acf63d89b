package llm

import (
	"context"
	"fmt"
	"strings"
)

// Provider is one completion call: system prompt, user prompt, and the schema
// the reply must satisfy. Providers that can enforce the schema natively do;
// the caller still owns extraction and repair for providers that cannot.
type Provider interface {
	Complete(ctx context.Context, systemPrompt string, userPrompt string, schema *ResponseSchema) (string, error)
}

type FieldType string

const (
	TypeString       FieldType = "string"
	TypeNumber       FieldType = "number"
	TypeInteger      FieldType = "integer"
	TypeBoolean      FieldType = "boolean"
	TypeStringArray  FieldType = "array of strings"
	TypeIntegerArray FieldType = "array of integers"

	// union types - not expressible in every provider's native schema,
	// always spelled out in the prompt text instead
	TypeNumberOrNA FieldType = "number or the string \"N/A\""
	TypeNamesOrNA  FieldType = "array of strings or the string \"N/A\""
)

type Field struct {
	Name        string
	Type        FieldType
	Description string
}

// ResponseSchema is the canonical, language-neutral description of the
// expected reply. It renders to prompt text here and to provider-native
// schema objects inside each provider.
type ResponseSchema struct {
	Name   string
	Fields []Field
}

// PromptText renders the schema as the block embedded into system prompts.
// Field order matters: models are asked to keep it.
func (s *ResponseSchema) PromptText() string {
	var b strings.Builder
	b.WriteString("{\n")
	for i, f := range s.Fields {
		desc := strings.ReplaceAll(strings.TrimSpace(f.Description), "\n", "\n  // ")
		fmt.Fprintf(&b, "  %q: %s", f.Name, f.Type)
		if i < len(s.Fields)-1 {
			b.WriteString(",")
		}
		if desc != "" {
			b.WriteString("\n  // " + desc)
		}
		b.WriteString("\n")
	}
	b.WriteString("}")
	return b.String()
}

// StrictlyTypable reports whether every field maps onto a plain JSON type,
// i.e. whether a provider-native schema can be attached to the call.
func (s *ResponseSchema) StrictlyTypable() bool {
	for _, f := range s.Fields {
		if f.Type == TypeNumberOrNA || f.Type == TypeNamesOrNA {
			return false
		}
	}
	return true
}

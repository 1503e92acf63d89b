package answer

import (
	"reflect"
	"testing"

	"github.com/akolanti/DocQA/internal/domain/commonModels"
	"github.com/akolanti/DocQA/pkg/logger_i"
)

func retrievedFromPages(pages ...int) []commonModels.RetrievalResult {
	out := make([]commonModels.RetrievalResult, len(pages))
	for i, p := range pages {
		out[i] = commonModels.RetrievalResult{DocumentID: "doc", Page: p, Text: "chunk"}
	}
	return out
}

func TestValidatePageReferences(t *testing.T) {
	log := logger_i.NewLogger("test")

	tests := []struct {
		name      string
		claimed   []int
		retrieved []commonModels.RetrievalResult
		want      []int
	}{
		{
			name:      "valid claims kept in claimed order",
			claimed:   []int{9, 4},
			retrieved: retrievedFromPages(4, 7, 2, 9),
			want:      []int{9, 4},
		},
		{
			name:      "hallucinated page dropped and backfilled",
			claimed:   []int{4, 99},
			retrieved: retrievedFromPages(4, 7, 2, 9),
			want:      []int{4, 7},
		},
		{
			name:      "duplicate claims collapse",
			claimed:   []int{4, 4, 9},
			retrieved: retrievedFromPages(4, 7, 2, 9),
			want:      []int{4, 9},
		},
		{
			name:      "empty claims backfill from retrieval order",
			claimed:   []int{},
			retrieved: retrievedFromPages(4, 7, 2, 9),
			want:      []int{4, 7},
		},
		{
			name:      "everything hallucinated backfills",
			claimed:   []int{55, 66},
			retrieved: retrievedFromPages(4, 7),
			want:      []int{4, 7},
		},
		{
			name:      "single retrieved page cannot backfill further",
			claimed:   []int{},
			retrieved: retrievedFromPages(3),
			want:      []int{3},
		},
		{
			name:      "capped at the maximum",
			claimed:   []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
			retrieved: retrievedFromPages(1, 2, 3, 4, 5, 6, 7, 8, 9, 10),
			want:      []int{1, 2, 3, 4, 5, 6, 7, 8},
		},
		{
			name:      "no retrieval no pages",
			claimed:   []int{1, 2},
			retrieved: nil,
			want:      []int{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidatePageReferences(tt.claimed, tt.retrieved, log)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

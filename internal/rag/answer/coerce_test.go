package answer

import (
	"reflect"
	"testing"

	"github.com/akolanti/DocQA/internal/domain/commonModels"
)

func TestParseNumericAnswer(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{in: "58,3%", want: 58.3},
		{in: "(2,124,837)", want: -2124837},
		{in: "4970,5 thousand", want: 4970500},
		{in: "1,234.56", want: 1234.56},
		{in: "1.234,56", want: 1234.56},
		{in: "$1,000", want: 1000},
		{in: "-45", want: -45},
		{in: "2.5 million", want: 2500000},
		{in: "12 bn", want: 12000000000},
		{in: "3 billions", want: 3000000000},
		{in: "€17.8", want: 17.8},
		{in: "42", want: 42},
		{in: "roughly a lot", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseNumericAnswer(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseNumericAnswer(%q) expected an error, got %v", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseNumericAnswer(%q): %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseNumericAnswer(%q) got %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestCoerceFinalAnswer(t *testing.T) {
	tests := []struct {
		name    string
		kind    commonModels.AnswerKind
		raw     any
		want    any
		wantErr bool
	}{
		{name: "string passthrough", kind: commonModels.KindString, raw: "the auditor resigned", want: "the auditor resigned"},
		{name: "string missing sentinel", kind: commonModels.KindString, raw: "-", want: notFoundStatement},
		{name: "string empty", kind: commonModels.KindString, raw: "", want: notFoundStatement},
		{name: "string wrong type", kind: commonModels.KindString, raw: 5.0, want: notFoundStatement},

		{name: "number passthrough", kind: commonModels.KindNumber, raw: 3.5, want: 3.5},
		{name: "number not available", kind: commonModels.KindNumber, raw: "N/A", want: notAvailable},
		{name: "number missing sentinel", kind: commonModels.KindNumber, raw: "-", want: notAvailable},
		{name: "number nil", kind: commonModels.KindNumber, raw: nil, want: notAvailable},
		{name: "number decimal comma string", kind: commonModels.KindNumber, raw: "58,3%", want: 58.3},
		{name: "number wrong type", kind: commonModels.KindNumber, raw: true, wantErr: true},

		{name: "boolean passthrough", kind: commonModels.KindBoolean, raw: true, want: true},
		{name: "boolean yes string", kind: commonModels.KindBoolean, raw: "Yes", want: true},
		{name: "boolean no string", kind: commonModels.KindBoolean, raw: "no", want: false},
		{name: "boolean garbage", kind: commonModels.KindBoolean, raw: "maybe", wantErr: true},
		{name: "boolean number", kind: commonModels.KindBoolean, raw: 1.0, wantErr: true},

		{name: "names list", kind: commonModels.KindNames, raw: []any{"Alice Su", " alice su ", "Bob Li"}, want: []string{"Alice Su", "Bob Li"}},
		{name: "names empty list", kind: commonModels.KindNames, raw: []any{}, want: notAvailable},
		{name: "names single string", kind: commonModels.KindNames, raw: "Jane Doe", want: []string{"Jane Doe"}},
		{name: "names not available", kind: commonModels.KindNames, raw: "N/A", want: notAvailable},
		{name: "names nil", kind: commonModels.KindNames, raw: nil, want: notAvailable},
		{name: "names non-string entry", kind: commonModels.KindNames, raw: []any{"Alice", 7.0}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := coerceFinalAnswer(tt.kind, tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected an error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("coerceFinalAnswer: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v (%T), want %v (%T)", got, got, tt.want, tt.want)
			}
		})
	}
}

func TestCoercePages(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want []int
	}{
		{name: "number list", raw: []any{1.0, 2.0, 17.0}, want: []int{1, 2, 17}},
		{name: "mixed list with string pages", raw: []any{1.0, "3"}, want: []int{1, 3}},
		{name: "scalar page", raw: 4.0, want: []int{4}},
		{name: "comma separated string", raw: "1, 2; 5", want: []int{1, 2, 5}},
		{name: "unusable string", raw: "no pages cited", want: []int{}},
		{name: "nil", raw: nil, want: []int{}},
		{name: "unusable entries dropped", raw: []any{"four", 6.0}, want: []int{6}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := coercePages(tt.raw)
			if got == nil {
				t.Fatal("coercePages must never return nil")
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDedupNames(t *testing.T) {
	got := dedupNames([]string{" Ann Chow", "ANN CHOW", "", "Ben Ode", "ben ode", "Cara Ives"})
	want := []string{"Ann Chow", "Ben Ode", "Cara Ives"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

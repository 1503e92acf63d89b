package answer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/akolanti/DocQA/internal/domain/commonModels"
)

const notAvailable = "N/A"

// missingAnswerSentinel marks an absent final_answer internally. It is
// replaced before anything leaves this package - callers never see it.
const missingAnswerSentinel = "-"

const notFoundStatement = "The answer was not found in the provided context."

var (
	thousandsPattern = regexp.MustCompile(`^\d{1,3}(,\d{3})+(\.\d+)?$`)
	unitMultipliers  = []struct {
		word       string
		multiplier float64
	}{
		{"billions", 1e9}, {"billion", 1e9}, {"bn", 1e9},
		{"millions", 1e6}, {"million", 1e6}, {"mln", 1e6},
		{"thousands", 1e3}, {"thousand", 1e3},
	}
)

// coerceFinalAnswer normalizes the model's final_answer into the value the
// kind promises: float64, bool, []string or string, with "N/A" passed
// through where the kind allows it.
func coerceFinalAnswer(kind commonModels.AnswerKind, raw any) (any, error) {
	switch kind {
	case commonModels.KindString:
		return coerceStringAnswer(raw)
	case commonModels.KindNumber:
		return coerceNumberAnswer(raw)
	case commonModels.KindBoolean:
		return coerceBooleanAnswer(raw)
	case commonModels.KindNames:
		return coerceNamesAnswer(raw)
	}
	return nil, fmt.Errorf("unknown answer kind %q", kind)
}

func coerceStringAnswer(raw any) (any, error) {
	s, ok := raw.(string)
	if !ok || strings.TrimSpace(s) == "" || strings.TrimSpace(s) == missingAnswerSentinel {
		return notFoundStatement, nil
	}
	return s, nil
}

func coerceNumberAnswer(raw any) (any, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case string:
		if isNotAvailable(v) || strings.TrimSpace(v) == missingAnswerSentinel {
			return notAvailable, nil
		}
		n, err := ParseNumericAnswer(v)
		if err != nil {
			return nil, err
		}
		return n, nil
	case nil:
		return notAvailable, nil
	}
	return nil, fmt.Errorf("number answer has type %T", raw)
}

func coerceBooleanAnswer(raw any) (any, error) {
	switch v := raw.(type) {
	case bool:
		return v, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "yes":
			return true, nil
		case "false", "no":
			return false, nil
		}
	}
	return nil, fmt.Errorf("boolean answer must be true or false, got %v", raw)
}

func coerceNamesAnswer(raw any) (any, error) {
	switch v := raw.(type) {
	case string:
		if isNotAvailable(v) || strings.TrimSpace(v) == "" || strings.TrimSpace(v) == missingAnswerSentinel {
			return notAvailable, nil
		}
		return []string{v}, nil
	case []any:
		names := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("names answer holds non-string entry %v", item)
			}
			names = append(names, s)
		}
		names = dedupNames(names)
		if len(names) == 0 {
			return notAvailable, nil
		}
		return names, nil
	case nil:
		return notAvailable, nil
	}
	return nil, fmt.Errorf("names answer has type %T", raw)
}

// ParseNumericAnswer turns number strings as models emit them into a plain
// float: decimal commas, thousands separators, percent signs, parenthesized
// negatives and spelled-out unit multipliers ("4970,5 thousand" -> 4970500).
func ParseNumericAnswer(s string) (float64, error) {
	text := strings.TrimSpace(s)
	if text == "" {
		return 0, fmt.Errorf("empty number answer")
	}

	multiplier := 1.0
	lower := strings.ToLower(text)
	for _, u := range unitMultipliers {
		if strings.Contains(lower, u.word) {
			multiplier = u.multiplier
			text = cutWordFold(text, u.word)
			break
		}
	}

	negative := false
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "(") && strings.HasSuffix(text, ")") {
		negative = true
		text = text[1 : len(text)-1]
	}
	if strings.HasPrefix(text, "-") {
		negative = !negative
		text = text[1:]
	}

	text = strings.TrimSpace(strings.Trim(text, "%$€£ \t"))
	text = normalizeSeparators(text)

	value, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("unparseable number answer %q: %w", s, err)
	}
	if negative {
		value = -value
	}
	return value * multiplier, nil
}

// normalizeSeparators resolves commas into either thousands separators or a
// decimal point. "2,124,837" groups by three so the commas are separators;
// "58,3" does not, so the comma is a decimal point.
func normalizeSeparators(text string) string {
	hasComma := strings.Contains(text, ",")
	hasDot := strings.Contains(text, ".")
	switch {
	case hasComma && hasDot:
		// rightmost of the two is the decimal separator
		if strings.LastIndex(text, ",") > strings.LastIndex(text, ".") {
			text = strings.ReplaceAll(text, ".", "")
			text = strings.Replace(text, ",", ".", 1)
		} else {
			text = strings.ReplaceAll(text, ",", "")
		}
	case hasComma:
		if thousandsPattern.MatchString(text) {
			text = strings.ReplaceAll(text, ",", "")
		} else {
			text = strings.Replace(text, ",", ".", 1)
		}
	}
	return text
}

func cutWordFold(text, word string) string {
	idx := strings.Index(strings.ToLower(text), word)
	if idx < 0 {
		return text
	}
	return strings.TrimSpace(text[:idx] + text[idx+len(word):])
}

// coercePages accepts whatever shape the model put into relevant_pages and
// always yields a list of ints: scalars become one-element lists, anything
// unusable becomes an empty list.
func coercePages(raw any) []int {
	switch v := raw.(type) {
	case []any:
		pages := make([]int, 0, len(v))
		for _, item := range v {
			if page, ok := pageFromScalar(item); ok {
				pages = append(pages, page)
			}
		}
		return pages
	case nil:
		return []int{}
	default:
		if page, ok := pageFromScalar(v); ok {
			return []int{page}
		}
		if s, ok := v.(string); ok {
			return pagesFromString(s)
		}
		return []int{}
	}
}

func pageFromScalar(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	case string:
		if page, err := strconv.Atoi(strings.TrimSpace(n)); err == nil {
			return page, true
		}
	}
	return 0, false
}

func pagesFromString(s string) []int {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ';' || r == ' '
	})
	pages := make([]int, 0, len(fields))
	for _, f := range fields {
		if page, err := strconv.Atoi(f); err == nil {
			pages = append(pages, page)
		}
	}
	return pages
}

func isNotAvailable(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), notAvailable)
}

// dedupNames removes later repetitions of the same entity, compared
// case-insensitively, keeping the first spelling and the original order.
func dedupNames(names []string) []string {
	seen := make(map[string]bool, len(names))
	unique := make([]string, 0, len(names))
	for _, name := range names {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			continue
		}
		key := strings.ToLower(trimmed)
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, trimmed)
	}
	return unique
}

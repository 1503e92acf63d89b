package llm

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

var ErrNoJSON = errors.New("no JSON object found in model output")

var fencedJSON = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")

// ExtractJSONObject pulls the first well-formed JSON object out of a model
// reply that may wrap it in code fences or surrounding prose.
func ExtractJSONObject(raw string) (json.RawMessage, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrNoJSON
	}

	//fast path: the whole reply is the object
	if strings.HasPrefix(raw, "{") {
		if candidate, ok := firstBalancedObject(raw); ok {
			return candidate, nil
		}
	}

	if m := fencedJSON.FindStringSubmatch(raw); m != nil {
		if json.Valid([]byte(m[1])) {
			return json.RawMessage(m[1]), nil
		}
	}

	//prose path: scan for the first balanced object that parses
	for i := 0; i < len(raw); i++ {
		if raw[i] != '{' {
			continue
		}
		if candidate, ok := firstBalancedObject(raw[i:]); ok {
			return candidate, nil
		}
	}
	return nil, ErrNoJSON
}

// firstBalancedObject walks braces (string-literal aware) from the leading
// '{' and validates the spanned slice.
func firstBalancedObject(s string) (json.RawMessage, bool) {
	depth := 0
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					candidate := s[:i+1]
					if json.Valid([]byte(candidate)) {
						return json.RawMessage(candidate), true
					}
					return nil, false
				}
			}
		}
	}
	return nil, false
}

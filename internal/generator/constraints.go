package generator

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"egeriactl/pkg/logging"
)

var pythonLiterals = []struct {
	pattern *regexp.Regexp
	json    string
}{
	{regexp.MustCompile(`\bTrue\b`), "true"},
	{regexp.MustCompile(`\bFalse\b`), "false"},
	{regexp.MustCompile(`\bNone\b`), "null"},
}

// ParseConstraints turns a find_constraints value into a parameter map.
//
// Maps pass through. Strings are tried as strict JSON, then as a quoted or
// escaped JSON string with the quoting removed, then with single quotes and
// Python literals rewritten to JSON. Anything else yields an empty map and a
// warning; this never fails.
func ParseConstraints(v any) map[string]any {
	switch val := v.(type) {
	case nil:
		return map[string]any{}
	case map[string]any:
		return val
	case string:
		if m, ok := parseConstraintString(val); ok {
			return m
		}
		logging.Warn("Generator", "Could not parse find_constraints %q; using no constraints", val)
		return map[string]any{}
	default:
		logging.Warn("Generator", "Unsupported find_constraints value of type %T; using no constraints", v)
		return map[string]any{}
	}
}

func parseConstraintString(s string) (map[string]any, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return map[string]any{}, true
	}

	// Strict JSON. A JSON string literal holding JSON is unwrapped once.
	if decoded, err := decodeJSON(s); err == nil {
		switch d := decoded.(type) {
		case map[string]any:
			return d, true
		case string:
			if m, err := decodeJSON(d); err == nil {
				if obj, ok := m.(map[string]any); ok {
					return obj, true
				}
			}
		}
	}

	// Quoted or escaped JSON.
	if unwrapped, ok := unwrapQuotes(s); ok {
		if m, err := decodeJSON(unwrapped); err == nil {
			if obj, ok := m.(map[string]any); ok {
				return obj, true
			}
		}
		s = unwrapped
	}

	// Python dict literal.
	rewritten := strings.ReplaceAll(s, "'", `"`)
	for _, lit := range pythonLiterals {
		rewritten = lit.pattern.ReplaceAllString(rewritten, lit.json)
	}
	if m, err := decodeJSON(rewritten); err == nil {
		if obj, ok := m.(map[string]any); ok {
			return obj, true
		}
	}
	return nil, false
}

// unwrapQuotes strips one level of surrounding quotes and backslash escaping.
func unwrapQuotes(s string) (string, bool) {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' || first == '\'') && first == last {
			s = s[1 : len(s)-1]
			return strings.NewReplacer(`\"`, `"`, `\'`, `'`, `\\`, `\`).Replace(s), true
		}
	}
	if strings.Contains(s, `\"`) {
		return strings.ReplaceAll(s, `\"`, `"`), true
	}
	return s, false
}

func decodeJSON(s string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, fmt.Errorf("unexpected data after JSON value at offset %d", dec.InputOffset())
	}
	return v, nil
}

package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ExtractJSON strips markdown code fences around a model response, returning
// the bare payload. Models regularly wrap JSON in ```json blocks even when
// asked not to.
func ExtractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

// CoerceString converts an untyped JSON value into a trimmed string.
func CoerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case fmt.Stringer:
		return strings.TrimSpace(val.String())
	default:
		if v == nil {
			return ""
		}
		bytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(bytes)
	}
}

// CoerceStringSlice converts an untyped JSON array into a slice of trimmed,
// non-empty strings. Non-array values yield nil.
func CoerceStringSlice(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}

	result := make([]string, 0, len(items))
	for _, item := range items {
		s := CoerceString(item)
		if s == "" {
			continue
		}
		result = append(result, s)
	}
	return result
}

// CoerceMap converts an untyped JSON value into a map, returning nil when the
// value is not an object.
func CoerceMap(v any) map[string]any {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	return m
}

// CoerceStringMapSlice converts an untyped JSON array of objects into a slice
// of maps, skipping non-object entries.
func CoerceStringMapSlice(v any) []map[string]any {
	items, ok := v.([]any)
	if !ok {
		return nil
	}

	result := make([]map[string]any, 0, len(items))
	for _, item := range items {
		m := CoerceMap(item)
		if m == nil {
			continue
		}
		result = append(result, m)
	}
	return result
}

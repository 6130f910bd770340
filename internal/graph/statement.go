package graph

import (
	"fmt"
	"sort"
	"strings"
)

// Statement is a single idempotent graph mutation. Query contains only static
// structure (labels and relationship types from package constants); every
// literal value is carried in Params and bound by name at execution time.
type Statement struct {
	Query  string
	Params map[string]any
}

// String renders the statement with parameter values inlined as quoted
// literals. It exists for debug logging only; execution always binds Params.
func (s Statement) String() string {
	rendered := s.Query

	keys := make([]string, 0, len(s.Params))
	for key := range s.Params {
		keys = append(keys, key)
	}
	// Longest first so $name does not clobber $nameSuffix.
	sort.Slice(keys, func(i, j int) bool { return len(keys[i]) > len(keys[j]) })

	for _, key := range keys {
		value := s.Params[key]
		var literal string
		switch v := value.(type) {
		case string:
			literal = QuoteLiteral(v)
		default:
			literal = fmt.Sprintf("%v", v)
		}
		rendered = strings.ReplaceAll(rendered, "$"+key, literal)
	}

	return rendered
}

// QuoteLiteral returns the value as a single-quoted Cypher string literal with
// backslashes and quote characters escaped. This is the single reviewed place
// where a raw value may be embedded into query text; a conforming parser must
// round-trip the original string.
func QuoteLiteral(value string) string {
	escaped := strings.ReplaceAll(value, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `'`, `\'`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	return "'" + escaped + "'"
}

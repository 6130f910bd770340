package graph

import (
	"strings"
	"testing"
)

// parseLiteral reads back a quoted Cypher string literal the way a conforming
// parser would, undoing the escapes QuoteLiteral applies.
func parseLiteral(t *testing.T, literal string) string {
	t.Helper()

	if len(literal) < 2 || literal[0] != '\'' || literal[len(literal)-1] != '\'' {
		t.Fatalf("not a quoted literal: %s", literal)
	}

	body := literal[1 : len(literal)-1]
	var b strings.Builder
	for i := 0; i < len(body); i++ {
		if body[i] == '\\' && i+1 < len(body) {
			i++
			b.WriteByte(body[i])
			continue
		}
		if body[i] == '\'' {
			t.Fatalf("unescaped quote inside literal: %s", literal)
		}
		b.WriteByte(body[i])
	}
	return b.String()
}

func TestQuoteLiteralRoundTrip(t *testing.T) {
	cases := []string{
		"plain",
		"O'Neill",
		`she said "hi"`,
		`back\slash`,
		`mixed '\" all`,
		"",
	}

	for _, value := range cases {
		literal := QuoteLiteral(value)
		if got := parseLiteral(t, literal); got != value {
			t.Fatalf("round trip of %q via %s produced %q", value, literal, got)
		}
	}
}

func TestStatementStringInlinesParams(t *testing.T) {
	statement := Statement{
		Query:  "MERGE (p:Person {id: $id}) SET p.name = $name",
		Params: map[string]any{"id": "a@x.com", "name": "O'Neill"},
	}

	rendered := statement.String()

	if strings.Contains(rendered, "$id") || strings.Contains(rendered, "$name") {
		t.Fatalf("expected all placeholders replaced: %s", rendered)
	}
	if !strings.Contains(rendered, `'a@x.com'`) {
		t.Fatalf("expected quoted id literal: %s", rendered)
	}
	if !strings.Contains(rendered, `\'`) {
		t.Fatalf("expected escaped quote in rendered literal: %s", rendered)
	}
}

package identity

import (
	"strings"
	"testing"

	"github.com/spigell/resume-screen/internal/resume"
)

func TestResolveUsesEmail(t *testing.T) {
	contact := resume.Contact{Name: "Jane", Email: "  a@x.com  "}

	if got := Resolve(contact, "any text"); got != "a@x.com" {
		t.Fatalf("expected trimmed email, got %q", got)
	}
}

func TestResolveFingerprintIsDeterministic(t *testing.T) {
	contact := resume.Contact{Name: "Jane"}
	text := "resume without an email address"

	first := Resolve(contact, text)
	second := Resolve(contact, text)

	if first != second {
		t.Fatalf("expected identical identifiers, got %q and %q", first, second)
	}
}

func TestResolveFingerprintFormat(t *testing.T) {
	got := Resolve(resume.Contact{}, "some resume")

	if !strings.HasPrefix(got, "cand-") {
		t.Fatalf("expected cand- prefix, got %q", got)
	}
	if len(got) != len("cand-")+12 {
		t.Fatalf("unexpected identifier length: %q", got)
	}
}

func TestResolveDistinctTextsDiffer(t *testing.T) {
	a := Resolve(resume.Contact{}, "resume one")
	b := Resolve(resume.Contact{}, "resume two")

	if a == b {
		t.Fatalf("expected different identifiers, both were %q", a)
	}
}

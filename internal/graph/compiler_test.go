package graph

import (
	"fmt"
	"strings"
	"testing"

	"github.com/spigell/resume-screen/internal/resume"
)

func stubUIDs(t *testing.T) {
	t.Helper()
	original := newUID
	counter := 0
	newUID = func() string {
		counter++
		return fmt.Sprintf("uid-%d", counter)
	}
	t.Cleanup(func() { newUID = original })
}

func TestCompileNilRecord(t *testing.T) {
	if got := Compile(nil, "a@x.com"); got != nil {
		t.Fatalf("expected no statements, got %d", len(got))
	}
}

func TestCompileEmptyIdentity(t *testing.T) {
	if got := Compile(&resume.Record{}, "  "); got != nil {
		t.Fatalf("expected no statements, got %d", len(got))
	}
}

func TestCompilePersonOnly(t *testing.T) {
	record := &resume.Record{Contact: resume.Contact{Name: "Jane Doe", Email: "a@x.com"}}

	statements := Compile(record, "a@x.com")

	if len(statements) != 1 {
		t.Fatalf("expected exactly one statement, got %d", len(statements))
	}
	if !strings.Contains(statements[0].Query, "MERGE (p:Person {id: $id})") {
		t.Fatalf("unexpected person statement: %s", statements[0].Query)
	}
	if statements[0].Params["email"] != "a@x.com" {
		t.Fatalf("unexpected email param: %v", statements[0].Params["email"])
	}
}

func TestCompileDefaultsCandidateName(t *testing.T) {
	statements := Compile(&resume.Record{}, "cand-abc")

	if len(statements) != 1 {
		t.Fatalf("expected one statement, got %d", len(statements))
	}
	if statements[0].Params["name"] != "Unknown Candidate" {
		t.Fatalf("unexpected name param: %v", statements[0].Params["name"])
	}
}

func TestCompileFullRecord(t *testing.T) {
	stubUIDs(t)

	record := &resume.Record{
		Contact: resume.Contact{Name: "Jane Doe", Email: "a@x.com"},
		Experience: []resume.Experience{{
			Role:       "Backend Engineer",
			Company:    "Acme",
			SkillsUsed: []string{"react.js", "Go"},
		}},
		Projects: []resume.Project{{
			Title:     "Side Project",
			TechStack: []string{"AWS"},
		}},
	}

	statements := Compile(record, "a@x.com")

	// person + experience + 2 skills + project + 1 skill
	if len(statements) != 6 {
		t.Fatalf("expected 6 statements, got %d", len(statements))
	}

	if !strings.Contains(statements[1].Query, "HAS_EXPERIENCE") {
		t.Fatalf("expected experience relationship, got %s", statements[1].Query)
	}
	if statements[1].Params["uid"] != "uid-1" {
		t.Fatalf("unexpected experience uid: %v", statements[1].Params["uid"])
	}
	if statements[2].Params["name"] != "REACT.JS" {
		t.Fatalf("expected normalized skill name, got %v", statements[2].Params["name"])
	}
	if !strings.Contains(statements[4].Query, "BUILT_PROJECT") {
		t.Fatalf("expected project relationship, got %s", statements[4].Query)
	}
	if statements[5].Params["uid"] != "uid-2" {
		t.Fatalf("expected project skill tied to project uid, got %v", statements[5].Params["uid"])
	}
}

func TestCompileCaseInsensitiveSkillDedup(t *testing.T) {
	stubUIDs(t)

	record := &resume.Record{
		Contact: resume.Contact{Name: "Jane"},
		Experience: []resume.Experience{
			{Role: "A", SkillsUsed: []string{"Python"}},
			{Role: "B", SkillsUsed: []string{"PYTHON"}},
		},
	}

	statements := Compile(record, "cand-abc")

	identities := make(map[string]struct{})
	for _, statement := range statements {
		if !strings.Contains(statement.Query, "MERGE (s:Skill") {
			continue
		}
		identities[statement.Params["name"].(string)] = struct{}{}
	}

	if len(identities) != 1 {
		t.Fatalf("expected one skill identity, got %v", identities)
	}
	if _, ok := identities["PYTHON"]; !ok {
		t.Fatalf("expected canonical PYTHON identity, got %v", identities)
	}
}

func TestCompileNoOrphanSkills(t *testing.T) {
	stubUIDs(t)

	record := &resume.Record{
		Contact:    resume.Contact{Name: "Jane"},
		Experience: []resume.Experience{{Role: "A", SkillsUsed: []string{"  ", ""}}},
	}

	statements := Compile(record, "cand-abc")

	for _, statement := range statements {
		if strings.Contains(statement.Query, "MERGE (s:Skill") {
			t.Fatalf("expected no skill statements for blank names, got %s", statement.Query)
		}
	}
}

func TestCompileOnlyBindsParameters(t *testing.T) {
	stubUIDs(t)

	record := &resume.Record{
		Contact:    resume.Contact{Name: "Robert'); DROP ALL"},
		Experience: []resume.Experience{{Role: "O'Neill", SkillsUsed: []string{"C++"}}},
	}

	for _, statement := range Compile(record, "cand-abc") {
		if strings.Contains(statement.Query, "DROP ALL") || strings.Contains(statement.Query, "O'Neill") {
			t.Fatalf("literal value leaked into query text: %s", statement.Query)
		}
	}
}

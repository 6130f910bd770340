// Package graph compiles extracted résumé records into idempotent graph
// mutation statements.
//
// Canonical schema:
//
//	(Person {id})    -[:HAS_EXPERIENCE]-> (WorkExperience {uid}) -[:USED_SKILL]-> (Skill {name})
//	(Person {id})    -[:BUILT_PROJECT]->  (Project {uid})        -[:USED_SKILL]-> (Skill {name})
//	(Skill {name})   -[:IN_CATEGORY]->    (Category {name})
//
// Skill identity is the normalized name, shared across all candidates.
package graph

import (
	"strings"

	"github.com/google/uuid"
	"github.com/spigell/resume-screen/internal/resume"
)

const (
	LabelPerson         = "Person"
	LabelWorkExperience = "WorkExperience"
	LabelProject        = "Project"
	LabelSkill          = "Skill"
	LabelCategory       = "Category"

	RelHasExperience = "HAS_EXPERIENCE"
	RelBuiltProject  = "BUILT_PROJECT"
	RelUsedSkill     = "USED_SKILL"
	RelInCategory    = "IN_CATEGORY"

	unknownCandidateName = "Unknown Candidate"
)

// newUID generates sub-identities for work experience and project nodes.
// Swapped out in tests for deterministic output.
var newUID = uuid.NewString

// NormalizeSkill canonicalizes a skill name so that casing variants resolve
// to the same Skill node.
func NormalizeSkill(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// Compile translates the record into an ordered sequence of merge statements
// keyed by the resolved candidate identity. Each statement is self-contained:
// it either merges on the shared identity keys or matches nodes created by an
// earlier statement in the same sequence.
//
// A nil record or empty identity compiles to nothing, so a failed extraction
// upstream degrades to "nothing to persist" instead of aborting a batch.
// Missing optional fields (no email, empty skill lists) degrade per-field.
func Compile(record *resume.Record, personID string) []Statement {
	personID = strings.TrimSpace(personID)
	if record == nil || personID == "" {
		return nil
	}

	name := strings.TrimSpace(record.Contact.Name)
	if name == "" {
		name = unknownCandidateName
	}

	statements := []Statement{{
		Query: "MERGE (p:" + LabelPerson + " {id: $id}) SET p.name = $name, p.email = $email",
		Params: map[string]any{
			"id":    personID,
			"name":  name,
			"email": strings.TrimSpace(record.Contact.Email),
		},
	}}

	for _, job := range record.Experience {
		uid := newUID()

		statements = append(statements, Statement{
			Query: "MATCH (p:" + LabelPerson + " {id: $id}) " +
				"MERGE (w:" + LabelWorkExperience + " {uid: $uid}) " +
				"SET w.role = $role, w.company = $company " +
				"MERGE (p)-[:" + RelHasExperience + "]->(w)",
			Params: map[string]any{
				"id":      personID,
				"uid":     uid,
				"role":    strings.TrimSpace(job.Role),
				"company": strings.TrimSpace(job.Company),
			},
		})

		statements = append(statements, skillStatements(LabelWorkExperience, uid, job.SkillsUsed)...)
	}

	for _, project := range record.Projects {
		uid := newUID()

		statements = append(statements, Statement{
			Query: "MATCH (p:" + LabelPerson + " {id: $id}) " +
				"MERGE (pr:" + LabelProject + " {uid: $uid}) " +
				"SET pr.name = $name " +
				"MERGE (p)-[:" + RelBuiltProject + "]->(pr)",
			Params: map[string]any{
				"id":   personID,
				"uid":  uid,
				"name": strings.TrimSpace(project.Title),
			},
		})

		statements = append(statements, skillStatements(LabelProject, uid, project.TechStack)...)
	}

	return statements
}

// skillStatements merges one Skill node and an owning relationship per listed
// skill. Empty names are dropped so a sloppy extraction cannot create orphan
// Skill nodes.
func skillStatements(ownerLabel, ownerUID string, skills []string) []Statement {
	statements := make([]Statement, 0, len(skills))

	for _, skill := range skills {
		normalized := NormalizeSkill(skill)
		if normalized == "" {
			continue
		}

		statements = append(statements, Statement{
			Query: "MATCH (o:" + ownerLabel + " {uid: $uid}) " +
				"MERGE (s:" + LabelSkill + " {name: $name}) " +
				"MERGE (o)-[:" + RelUsedSkill + "]->(s)",
			Params: map[string]any{
				"uid":  ownerUID,
				"name": normalized,
			},
		})
	}

	return statements
}

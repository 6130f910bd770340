// Package audit cross-references job requirements against the candidate's
// knowledge graph and produces the gap report. It sits mid-pipeline and never
// lets a read or classification failure escape: a failure degrades to a
// well-formed report tagged with an error marker.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/mitchellh/mapstructure"
	"github.com/spigell/resume-screen/internal/graph"
	"github.com/spigell/resume-screen/internal/llm"
	"github.com/spigell/resume-screen/internal/logger"
	"github.com/spigell/resume-screen/internal/utils"
	"go.uber.org/zap"
)

const defaultMaxLogLength = 200

// evidenceQuery pulls every skill reachable from the candidate through a work
// experience or project, together with category siblings usable for
// categorical matching.
const evidenceQuery = `
MATCH (p:` + graph.LabelPerson + ` {id: $pid})-[:` + graph.RelHasExperience + `|` + graph.RelBuiltProject + `]->()-[:` + graph.RelUsedSkill + `]->(s:` + graph.LabelSkill + `)
OPTIONAL MATCH (s)-[:` + graph.RelInCategory + `]->(c:` + graph.LabelCategory + `)<-[:` + graph.RelInCategory + `]-(related:` + graph.LabelSkill + `)
RETURN DISTINCT s.name AS skill, c.name AS category, related.name AS sibling
`

// EvidenceStore is the read side of the graph store the auditor depends on.
type EvidenceStore interface {
	Run(ctx context.Context, query string, params map[string]any) ([]map[string]any, error)
}

type evidenceRow struct {
	Skill    string `mapstructure:"skill"`
	Category string `mapstructure:"category"`
	Sibling  string `mapstructure:"sibling"`
}

// evidence is the graph-derived view of the candidate's skills.
type evidence struct {
	// owned maps a normalized skill name to itself for direct lookups.
	owned map[string]struct{}
	// siblings maps a normalized skill name that the candidate does NOT
	// necessarily own to the owned skill and category proving a categorical
	// match for it.
	siblings map[string]string
}

// Auditor produces gap reports for a candidate identity.
type Auditor struct {
	store     EvidenceStore
	gen       llm.Generator
	logger    *zap.Logger
	maxLogLen int
}

// NewAuditor builds an Auditor. The generator is optional: when nil the
// classification is purely graph-based; when set, the model classifies each
// requirement against the graph evidence.
func NewAuditor(store EvidenceStore, gen llm.Generator, logger *zap.Logger, maxLogLength int) *Auditor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Auditor{
		store:     store,
		gen:       gen,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

// Audit classifies every required skill as direct, categorical or missing
// based on the candidate's graph evidence. It always returns a report; any
// failure is reflected in the report's Err field instead of an error.
func (a *Auditor) Audit(ctx context.Context, personID string, required []string) *Report {
	required = dedupeRequired(required)

	if len(required) == 0 {
		return finalize(&Report{Skills: []Finding{}})
	}

	rows, err := a.store.Run(ctx, evidenceQuery, map[string]any{"pid": personID})
	if err != nil {
		a.logger.Warn("graph evidence query failed, degrading to no findings",
			zap.String(logger.FieldCandidate, personID),
			zap.Error(err),
		)
		return degradedReport(required, fmt.Sprintf("graph evidence query: %v", err))
	}

	ev, decodeErrs := decodeEvidence(rows)
	for _, decodeErr := range decodeErrs {
		a.logger.Debug("skipping malformed evidence row", zap.Error(decodeErr))
	}

	if len(ev.owned) == 0 {
		a.logger.Info("no skill evidence found in the graph",
			zap.String(logger.FieldCandidate, personID),
		)
		report := degradedReport(required, "")
		report.NoEvidence = true
		return report
	}

	if a.gen != nil {
		return a.classifyWithModel(ctx, required, ev)
	}

	return a.classify(required, ev)
}

// classify partitions the required skills against the evidence
// deterministically.
func (a *Auditor) classify(required []string, ev *evidence) *Report {
	report := &Report{Skills: make([]Finding, 0, len(required))}

	for _, skill := range required {
		normalized := graph.NormalizeSkill(skill)

		if _, ok := ev.owned[normalized]; ok {
			report.Skills = append(report.Skills, Finding{
				Skill:          skill,
				Classification: ClassDirect,
				Evidence:       normalized,
			})
			continue
		}

		if proof, ok := ev.siblings[normalized]; ok {
			report.Skills = append(report.Skills, Finding{
				Skill:          skill,
				Classification: ClassCategorical,
				Evidence:       proof,
			})
			continue
		}

		report.Skills = append(report.Skills, Finding{Skill: skill, Classification: ClassMissing})
	}

	return finalize(report)
}

// classifyWithModel asks the model to bucket each requirement against the
// graph evidence. An unparseable response degrades to a zero-filled report.
func (a *Auditor) classifyWithModel(ctx context.Context, required []string, ev *evidence) *Report {
	prompt := buildClassificationPrompt(required, ev)

	raw, err := a.gen.GenerateJSON(ctx, classificationSystem, prompt)
	if err != nil {
		a.logger.Warn("model classification failed, degrading to no findings", zap.Error(err))
		return degradedReport(required, fmt.Sprintf("model classification: %v", err))
	}

	a.logger.Debug("model classification response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, a.maxLogLen)),
	)

	findings, err := parseClassification(raw)
	if err != nil {
		a.logger.Warn("model classification unparseable, degrading to no findings", zap.Error(err))
		return degradedReport(required, fmt.Sprintf("model classification: %v", err))
	}

	// The model output is advisory per skill; completeness and counts are
	// enforced here. Unknown skills are dropped, omitted skills are missing.
	byNormalized := make(map[string]Finding, len(findings))
	for _, finding := range findings {
		key := graph.NormalizeSkill(finding.Skill)
		if key == "" {
			continue
		}
		if _, exists := byNormalized[key]; exists {
			continue
		}
		byNormalized[key] = finding
	}

	report := &Report{Skills: make([]Finding, 0, len(required))}
	for _, skill := range required {
		finding, ok := byNormalized[graph.NormalizeSkill(skill)]
		if !ok {
			report.Skills = append(report.Skills, Finding{Skill: skill, Classification: ClassMissing})
			continue
		}

		classification := finding.Classification
		switch classification {
		case ClassDirect, ClassCategorical, ClassMissing:
		default:
			classification = ClassMissing
		}

		report.Skills = append(report.Skills, Finding{
			Skill:          skill,
			Classification: classification,
			Evidence:       finding.Evidence,
		})
	}

	return finalize(report)
}

const classificationSystem = "You are an auditor verifying job requirements against facts from a " +
	"knowledge graph. Classify every required skill as exactly one of " +
	"\"direct_match\", \"categorical_match\" or \"missing\" based only on the evidence given. " +
	"Respond with a JSON array of objects {\"skill\": str, \"classification\": str, \"evidence\": str}."

func buildClassificationPrompt(required []string, ev *evidence) string {
	var b strings.Builder

	b.WriteString("CANDIDATE SKILLS (from the knowledge graph):\n")
	for skill := range ev.owned {
		b.WriteString("- ")
		b.WriteString(skill)
		b.WriteString("\n")
	}

	if len(ev.siblings) > 0 {
		b.WriteString("\nCATEGORY RELATIONS (skill the candidate lacks -> owned skill and category):\n")
		for skill, proof := range ev.siblings {
			b.WriteString("- ")
			b.WriteString(skill)
			b.WriteString(" -> ")
			b.WriteString(proof)
			b.WriteString("\n")
		}
	}

	b.WriteString("\nREQUIRED SKILLS:\n")
	for _, skill := range required {
		b.WriteString("- ")
		b.WriteString(skill)
		b.WriteString("\n")
	}

	return b.String()
}

func parseClassification(raw string) ([]Finding, error) {
	cleaned := llm.ExtractJSON(raw)

	var findings []Finding
	if err := json.Unmarshal([]byte(cleaned), &findings); err != nil {
		return nil, fmt.Errorf("parse classification response: %w", err)
	}

	return findings, nil
}

// decodeEvidence converts raw result rows into lookup sets. Malformed rows
// are reported back but do not fail the audit.
func decodeEvidence(rows []map[string]any) (*evidence, []error) {
	ev := &evidence{
		owned:    make(map[string]struct{}),
		siblings: make(map[string]string),
	}

	var errs []error
	for _, row := range rows {
		var decoded evidenceRow
		if err := mapstructure.Decode(row, &decoded); err != nil {
			errs = append(errs, err)
			continue
		}

		skill := graph.NormalizeSkill(decoded.Skill)
		if skill == "" {
			continue
		}
		ev.owned[skill] = struct{}{}

		sibling := graph.NormalizeSkill(decoded.Sibling)
		if sibling == "" || sibling == skill {
			continue
		}
		if _, exists := ev.siblings[sibling]; exists {
			continue
		}

		proof := skill
		if category := strings.TrimSpace(decoded.Category); category != "" {
			proof = fmt.Sprintf("%s via %s", skill, category)
		}
		ev.siblings[sibling] = proof
	}

	return ev, errs
}

func dedupeRequired(required []string) []string {
	seen := make(map[string]struct{}, len(required))
	result := make([]string, 0, len(required))

	for _, skill := range required {
		skill = strings.TrimSpace(skill)
		if skill == "" {
			continue
		}
		key := graph.NormalizeSkill(skill)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, skill)
	}

	return result
}

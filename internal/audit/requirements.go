package audit

import (
	"context"
	"fmt"
	"strings"

	"github.com/spigell/resume-screen/internal/llm"
)

const requirementsSystem = "You are a technical recruiter. Extract a comma-separated list of " +
	"HARD technical skills only from the provided job description. No prose, no numbering, " +
	"comma-delimited skills only."

// ExtractRequirements reduces a job description to a flat list of required
// hard-skill tokens. Tokens are trimmed and empty tokens discarded; casing is
// left untouched, alignment with graph skill identities happens in the
// auditor.
func ExtractRequirements(ctx context.Context, gen llm.Generator, jdText string) ([]string, error) {
	raw, err := gen.GenerateContent(ctx, requirementsSystem, jdText)
	if err != nil {
		return nil, fmt.Errorf("extract jd requirements: %w", err)
	}

	return SplitRequirements(raw), nil
}

// SplitRequirements parses a comma-delimited skill list into tokens.
func SplitRequirements(raw string) []string {
	parts := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == '\n'
	})

	skills := make([]string, 0, len(parts))
	for _, part := range parts {
		skill := strings.TrimSpace(part)
		if skill == "" {
			continue
		}
		skills = append(skills, skill)
	}

	return skills
}

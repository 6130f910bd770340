package resume

import (
	"context"
	"encoding/json"
	"fmt"
	"unicode/utf8"

	_ "embed"

	"github.com/spigell/resume-screen/internal/llm"
	"github.com/spigell/resume-screen/internal/utils"
	"go.uber.org/zap"
)

//go:embed prompt.md
var extractionPrompt string

const defaultMaxLogLength = 200

// ExtractionError indicates the model output could not be validated into a
// Record. The pipeline must not proceed to graph writes when it occurs.
type ExtractionError struct {
	Cause   error
	Preview string
}

func (e *ExtractionError) Error() string {
	if e.Preview == "" {
		return fmt.Sprintf("resume extraction: %v", e.Cause)
	}
	return fmt.Sprintf("resume extraction: %v (payload: %s)", e.Cause, e.Preview)
}

func (e *ExtractionError) Unwrap() error { return e.Cause }

// Extractor converts raw résumé text into a Record via the model service.
type Extractor struct {
	gen       llm.Generator
	logger    *zap.Logger
	maxLogLen int
}

// NewExtractor builds an Extractor backed by the provided generator.
func NewExtractor(gen llm.Generator, logger *zap.Logger, maxLogLength int) *Extractor {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Extractor{
		gen:       gen,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

// Extract asks the model to structure the résumé text and validates the
// response. A response that does not carry the required shape yields an
// *ExtractionError.
func (e *Extractor) Extract(ctx context.Context, resumeText string) (*Record, error) {
	prompt := "RESUME CONTENT:\n" + resumeText

	e.logger.Debug("resume extraction request",
		zap.String("model", e.gen.Model()),
		zap.Int("resume_length", utf8.RuneCountInString(resumeText)),
	)

	raw, err := e.gen.GenerateJSON(ctx, extractionPrompt, prompt)
	if err != nil {
		return nil, fmt.Errorf("resume extraction: %w", err)
	}

	e.logger.Debug("resume extraction response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, e.maxLogLen)),
	)

	record, err := parseRecord(raw)
	if err != nil {
		return nil, &ExtractionError{Cause: err, Preview: utils.TruncateForLog(raw, e.maxLogLen)}
	}

	return record, nil
}

// parseRecord is the validation gate between the untrusted model payload and
// the typed Record.
func parseRecord(raw string) (*Record, error) {
	cleaned := llm.ExtractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("parse model response: %w", err)
	}

	contact := llm.CoerceMap(data["contact"])
	if contact == nil {
		return nil, fmt.Errorf("model response is missing the contact block")
	}

	record := &Record{
		Contact: Contact{
			Name:  llm.CoerceString(contact["name"]),
			Email: llm.CoerceString(contact["email"]),
		},
	}

	for _, item := range llm.CoerceStringMapSlice(data["experience"]) {
		record.Experience = append(record.Experience, Experience{
			Role:        llm.CoerceString(item["role"]),
			Company:     llm.CoerceString(item["company"]),
			Description: llm.CoerceString(item["description"]),
			SkillsUsed:  llm.CoerceStringSlice(item["skills_used"]),
		})
	}

	for _, item := range llm.CoerceStringMapSlice(data["projects"]) {
		record.Projects = append(record.Projects, Project{
			Title:     llm.CoerceString(item["title"]),
			TechStack: llm.CoerceStringSlice(item["tech_stack"]),
		})
	}

	return record, nil
}

package screening

import (
	"context"
	"errors"
	"fmt"

	"github.com/spigell/resume-screen/internal/audit"
	"github.com/spigell/resume-screen/internal/graph"
	"github.com/spigell/resume-screen/internal/identity"
	"github.com/spigell/resume-screen/internal/logger"
	"github.com/spigell/resume-screen/internal/resume"
	"go.uber.org/zap"
)

type extractStep struct{}

func (s *extractStep) Name() string { return "extract" }

func (s *extractStep) Run(ctx context.Context, deps Deps, state *State) error {
	if deps.Gen == nil {
		return errors.New("generator is required")
	}
	if state.ResumeText == "" {
		return errors.New("resume text is empty")
	}

	extractor := resume.NewExtractor(deps.Gen, deps.Logger, deps.MaxLogLength)

	record, err := extractor.Extract(ctx, state.ResumeText)
	if err != nil {
		return err
	}

	state.Record = record

	if deps.Logger != nil {
		deps.Logger.Info("resume structured",
			zap.Int("experience_entries", len(record.Experience)),
			zap.Int("projects", len(record.Projects)),
		)
	}

	return nil
}

type resolveStep struct{}

func (s *resolveStep) Name() string { return "resolve_identity" }

func (s *resolveStep) Run(_ context.Context, deps Deps, state *State) error {
	if state.Record == nil {
		return errors.New("structured record is required")
	}

	state.PersonID = identity.Resolve(state.Record.Contact, state.ResumeText)

	if deps.Logger != nil {
		deps.Logger.Info("candidate identity resolved",
			zap.String(logger.FieldCandidate, state.PersonID),
		)
	}

	return nil
}

type compileStep struct{}

func (s *compileStep) Name() string { return "compile" }

func (s *compileStep) Run(_ context.Context, deps Deps, state *State) error {
	state.Statements = graph.Compile(state.Record, state.PersonID)

	if deps.Logger != nil {
		deps.Logger.Info("graph statements compiled",
			zap.Int("count", len(state.Statements)),
		)
		for _, statement := range state.Statements {
			deps.Logger.Debug("compiled statement", zap.String("cypher", statement.String()))
		}
	}

	return nil
}

type persistStep struct{}

func (s *persistStep) Name() string { return "persist" }

// Run executes the compiled statements in order. Write failures are surfaced:
// silently losing a candidate's facts would corrupt the baseline for every
// later audit.
func (s *persistStep) Run(ctx context.Context, deps Deps, state *State) error {
	if len(state.Statements) == 0 {
		if deps.Logger != nil {
			deps.Logger.Warn("nothing to persist",
				zap.String(logger.FieldCandidate, state.PersonID),
			)
		}
		return nil
	}

	if deps.DryRun {
		if deps.Logger != nil {
			deps.Logger.Info("dry run, skipping graph writes",
				zap.Int("statements", len(state.Statements)),
			)
		}
		return nil
	}

	if deps.Writer == nil {
		return errors.New("graph writer is required")
	}

	for i, statement := range state.Statements {
		if err := deps.Writer.RunWrite(ctx, statement.Query, statement.Params); err != nil {
			return fmt.Errorf("statement %d of %d: %w", i+1, len(state.Statements), err)
		}
		state.Written++
	}

	return nil
}

type requirementsStep struct{}

func (s *requirementsStep) Name() string { return "extract_requirements" }

func (s *requirementsStep) Run(ctx context.Context, deps Deps, state *State) error {
	if deps.Gen == nil {
		return errors.New("generator is required")
	}
	if state.JDText == "" {
		return errors.New("job description text is empty")
	}

	required, err := audit.ExtractRequirements(ctx, deps.Gen, state.JDText)
	if err != nil {
		return err
	}

	state.Required = required

	if deps.Logger != nil {
		deps.Logger.Info("job requirements extracted",
			zap.Int("count", len(required)),
			zap.Strings("skills", required),
		)
	}

	return nil
}

type auditStep struct{}

func (s *auditStep) Name() string { return "audit" }

func (s *auditStep) Run(ctx context.Context, deps Deps, state *State) error {
	if deps.Evidence == nil {
		return errors.New("evidence store is required")
	}
	if state.PersonID == "" {
		return errors.New("candidate identity is required")
	}

	classifier := deps.Gen
	if !deps.LLMClassifier {
		classifier = nil
	}

	auditor := audit.NewAuditor(deps.Evidence, classifier, deps.Logger, deps.MaxLogLength)
	state.Report = auditor.Audit(ctx, state.PersonID, state.Required)

	if deps.Logger != nil {
		deps.Logger.Info("audit completed",
			zap.String(logger.FieldCandidate, state.PersonID),
			zap.Float64("match_rate", state.Report.MatchRate),
			zap.String("assessment", state.Report.Assessment),
			zap.Bool("no_evidence", state.Report.NoEvidence),
		)
	}

	return nil
}

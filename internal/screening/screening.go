// Package screening wires the candidate pipeline together: extraction,
// identity resolution, graph compilation, persistence and the audit. Steps
// run strictly in order; each one reads and extends the shared State.
package screening

import (
	"context"
	"fmt"
	"time"

	"github.com/spigell/resume-screen/internal/audit"
	"github.com/spigell/resume-screen/internal/graph"
	"github.com/spigell/resume-screen/internal/llm"
	"github.com/spigell/resume-screen/internal/logger"
	"github.com/spigell/resume-screen/internal/resume"
	"go.uber.org/zap"
)

// StatementWriter is the write side of the graph store.
type StatementWriter interface {
	RunWrite(ctx context.Context, query string, params map[string]any) error
}

// Deps aggregates dependencies shared across all pipeline steps.
type Deps struct {
	Gen      llm.Generator
	Writer   StatementWriter
	Evidence audit.EvidenceStore
	Logger   *zap.Logger
	// MaxLogLength bounds prompt/response previews in debug logs.
	MaxLogLength int
	// DryRun compiles mutation statements without executing them.
	DryRun bool
	// LLMClassifier routes the audit classification through the model
	// instead of the deterministic graph cross-reference.
	LLMClassifier bool
}

// State carries the intermediate results of one candidate evaluation.
type State struct {
	ResumeText string
	JDText     string

	Record     *resume.Record
	PersonID   string
	Statements []graph.Statement
	Written    int
	Required   []string
	Report     *audit.Report
}

// Step is one stage of the screening pipeline.
type Step interface {
	Name() string
	Run(ctx context.Context, deps Deps, state *State) error
}

// Run executes the steps sequentially, logging one entry per step. The first
// failing step aborts the run.
func Run(ctx context.Context, deps Deps, steps []Step, state *State) error {
	for _, step := range steps {
		started := time.Now()

		if err := step.Run(ctx, deps, state); err != nil {
			return fmt.Errorf("%s: %w", step.Name(), err)
		}

		if deps.Logger != nil {
			deps.Logger.Info("pipeline step completed",
				zap.String(logger.FieldStage, step.Name()),
				zap.Duration("duration", time.Since(started)),
			)
		}
	}

	return nil
}

// IngestSteps covers everything up to the graph write: extract, resolve,
// compile, persist. Kept separate from AuditSteps so callers can confirm
// before mutating the graph.
func IngestSteps() []Step {
	return []Step{
		&extractStep{},
		&resolveStep{},
		&compileStep{},
		&persistStep{},
	}
}

// AuditSteps covers requirement extraction and the graph-backed audit.
func AuditSteps() []Step {
	return []Step{
		&requirementsStep{},
		&auditStep{},
	}
}

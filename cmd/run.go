package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spigell/resume-screen/internal/gemini"
	"github.com/spigell/resume-screen/internal/logger"
	"github.com/spigell/resume-screen/internal/neograph"
	"github.com/spigell/resume-screen/internal/screening"
	"github.com/spigell/resume-screen/internal/secrets"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptYes            = "Yes"
	PromptNo             = "No"
	PromptShowStatements = "Show compiled statements"
)

var errExit = errors.New("exit requested")

var persistPrompt = promptui.Select{
	Label: "Write candidate facts to the graph?",
	Items: []string{PromptYes, PromptNo, PromptShowStatements},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the resume-screen pipeline for one candidate",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("resume", "r", "", "path to the resume text file")
	runCmd.Flags().String("jd", "", "path to the job description text file")
	runCmd.Flags().BoolP("auto-approve", "y", false, "do not ask for confirmation before writing to the graph")
	runCmd.Flags().Bool("dry-run", false, "compile graph statements without executing them")
	runCmd.Flags().Bool("skip-ingest", false, "skip extraction and graph writes, audit against the existing graph")

	runCmd.MarkFlagRequired("resume")
	runCmd.MarkFlagRequired("jd")
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the resume-screen", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	if config == nil {
		logger.Fatal("config is required")
	}

	if config.Gemini == nil {
		logger.Fatal("gemini configuration is required under the gemini key")
	}

	if config.Neo4j == nil {
		logger.Fatal("neo4j configuration is required under the neo4j key")
	}

	resumeText, err := readInput(cmd, "resume")
	if err != nil {
		logger.Fatal("reading resume file", zap.Error(err))
	}

	jdText, err := readInput(cmd, "jd")
	if err != nil {
		logger.Fatal("reading job description file", zap.Error(err))
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: config.Gemini.APIKeyFile,
		Env:  "GEMINI_API_KEY",
	})
	if err != nil {
		logger.Fatal(
			"loading gemini api key",
			zap.Error(err),
			zap.String("hint", "set GEMINI_API_KEY_FILE environment variable or the 'gemini.api-key-file' key in the configuration file"),
		)
	}

	genLogger := logger.With(
		zap.String("ai_model", config.Gemini.Model),
		zap.Int("ai_retry_attempts", config.Gemini.MaxRetries),
	)

	generator, err := gemini.NewGenerator(ctx, apiKey, config.Gemini.Model, config.Gemini.MaxRetries, genLogger)
	if err != nil {
		logger.Fatal("building gemini generator", zap.Error(err))
	}

	password, err := secrets.Load(secrets.Source{
		Name: "neo4j password",
		File: config.Neo4j.PasswordFile,
		Env:  "NEO4J_PASSWORD",
	})
	if err != nil {
		logger.Fatal(
			"loading neo4j password",
			zap.Error(err),
			zap.String("hint", "set NEO4J_PASSWORD_FILE environment variable or the 'neo4j.password-file' key in the configuration file"),
		)
	}

	store, err := neograph.New(ctx, neograph.Config{
		URI:      config.Neo4j.URI,
		Username: config.Neo4j.Username,
		Password: password,
	}, logger)
	if err != nil {
		logger.Fatal("connecting to the graph store", zap.Error(err))
	}
	defer func() {
		if err := store.Close(ctx); err != nil {
			logger.Warn("closing the graph store", zap.Error(err))
		}
	}()

	deps := screening.Deps{
		Gen:          generator,
		Writer:       store,
		Evidence:     store,
		Logger:       logger,
		MaxLogLength: config.Gemini.MaxLogLength,
		DryRun:       cmd.Flag("dry-run").Value.String() == "true",
	}

	if config.Audit != nil {
		deps.LLMClassifier = config.Audit.LLMClassifier
	}

	state := &screening.State{ResumeText: resumeText, JDText: jdText}

	if cmd.Flag("skip-ingest").Value.String() == "true" {
		if err := ingestlessIdentity(ctx, deps, state); err != nil {
			logger.Fatal("resolving identity without ingest", zap.Error(err))
		}
	} else {
		if err := ingest(ctx, cmd, deps, state, logger); err != nil {
			if errors.Is(err, errExit) {
				logger.Info("exiting", zap.String("reason", "got no from prompt"))
				return
			}
			logger.Fatal("ingest failed", zap.Error(err))
		}
	}

	if err := screening.Run(ctx, deps, screening.AuditSteps(), state); err != nil {
		logger.Fatal("audit failed", zap.Error(err))
	}

	report, _ := json.MarshalIndent(state.Report, "", "  ")

	fmt.Println("\n" + strings.Repeat("=", 50))
	fmt.Printf("GAP REPORT FOR: %s\n", state.PersonID)
	fmt.Println(strings.Repeat("=", 50))
	fmt.Println(string(report))
}

// ingest runs extraction and compilation, asks for confirmation unless
// auto-approved and then persists the statements.
func ingest(ctx context.Context, cmd *cobra.Command, deps screening.Deps, state *screening.State, logger *zap.Logger) error {
	// Everything up to, but not including, the graph write.
	prepare := screening.IngestSteps()
	persist := prepare[len(prepare)-1:]
	prepare = prepare[:len(prepare)-1]

	if err := screening.Run(ctx, deps, prepare, state); err != nil {
		return err
	}

	autoApprove := cmd.Flag("auto-approve").Value.String() == "true"
	dryRun := cmd.Flag("dry-run").Value.String() == "true"

	for !autoApprove && !dryRun {
		_, action, err := persistPrompt.Run()
		if err != nil {
			return err
		}

		switch action {
		case PromptYes:
		case PromptNo:
			return errExit
		case PromptShowStatements:
			for _, statement := range state.Statements {
				fmt.Println(statement.String())
			}
			continue
		default:
			return fmt.Errorf("invalid action: %s", action)
		}
		break
	}

	return screening.Run(ctx, deps, persist, state)
}

// ingestlessIdentity resolves the candidate identity for an audit-only run by
// re-extracting the contact block, without touching the graph.
func ingestlessIdentity(ctx context.Context, deps screening.Deps, state *screening.State) error {
	steps := screening.IngestSteps()
	// extract + resolve only
	return screening.Run(ctx, deps, steps[:2], state)
}

func readInput(cmd *cobra.Command, flag string) (string, error) {
	path := strings.TrimSpace(cmd.Flag(flag).Value.String())
	if path == "" {
		return "", fmt.Errorf("%s file is required", flag)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s file %q: %w", flag, path, err)
	}

	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", fmt.Errorf("%s file %q is empty", flag, path)
	}

	return text, nil
}

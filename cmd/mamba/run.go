package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/juliuspleunes4/mamba/internal/collaborator"
	"github.com/juliuspleunes4/mamba/internal/lexer"
	"github.com/juliuspleunes4/mamba/internal/parser"
	"github.com/juliuspleunes4/mamba/internal/pipeline"
	"github.com/juliuspleunes4/mamba/internal/telemetry"
)

type runConfig struct {
	strict bool
}

func newRunCmd() *cobra.Command {
	cfg := &runConfig{}

	cmd := &cobra.Command{
		Use:   "run <file>",
		Short: "Lex and parse a file, reporting diagnostics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd, cfg, args[0])
		},
	}
	cmd.Flags().BoolVar(&cfg.strict, "strict", false, "run the semantic-analysis stub and report its not-implemented notice")
	return cmd
}

func runRun(cmd *cobra.Command, cfg *runConfig, path string) error {
	runID := uuid.New()
	source, err := readSource(path)
	if err != nil {
		return err
	}

	ctx := pipeline.NewPipelineContext(source)
	ctx.FilePath = path

	stages := []telemetry.Stage{
		{Name: "lex", Processor: lexer.Processor{}},
		{Name: "parse", Processor: parser.Processor{}},
		{Name: "semantic", Processor: collaborator.SemanticAnalyzer{Strict: cfg.strict}},
	}
	start := time.Now()
	result := pipeline.New(telemetry.Wrap(stages...)...).Run(ctx)
	elapsed := time.Since(start)

	slog.Info("mamba run finished",
		"run_id", runID.String(),
		"file", path,
		"duration", elapsed,
		"errors", len(result.Errors),
	)

	if err := renderDiagnostics(cmd, result.Errors, jsonOutput); err != nil {
		return err
	}
	if len(result.Errors) > 0 {
		return fmt.Errorf("run %s: %d diagnostic(s)", runID.String(), len(result.Errors))
	}
	return nil
}

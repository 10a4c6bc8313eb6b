package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/juliuspleunes4/mamba/internal/collaborator"
	"github.com/juliuspleunes4/mamba/internal/lexer"
	"github.com/juliuspleunes4/mamba/internal/parser"
	"github.com/juliuspleunes4/mamba/internal/pipeline"
	"github.com/juliuspleunes4/mamba/internal/telemetry"
)

type buildConfig struct {
	toolchainVersion string
	backendPath      string
}

func newBuildCmd() *cobra.Command {
	cfg := &buildConfig{}

	cmd := &cobra.Command{
		Use:   "build <file>",
		Short: "Run the full stub pipeline, including toolchain install planning and backend invocation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, cfg, args[0])
		},
	}
	cmd.Flags().StringVar(&cfg.toolchainVersion, "toolchain", "0.1.0", "target toolchain version to plan for")
	cmd.Flags().StringVar(&cfg.backendPath, "backend", "", "path to the backend compiler binary to invoke")
	return cmd
}

func runBuild(cmd *cobra.Command, cfg *buildConfig, path string) error {
	source, err := readSource(path)
	if err != nil {
		return err
	}

	ctx := pipeline.NewPipelineContext(source)
	ctx.FilePath = path
	stages := telemetry.Wrap(
		telemetry.Stage{Name: "lex", Processor: lexer.Processor{}},
		telemetry.Stage{Name: "parse", Processor: parser.Processor{}},
		telemetry.Stage{Name: "semantic", Processor: collaborator.SemanticAnalyzer{}},
	)
	result := pipeline.New(stages...).Run(ctx)
	if err := renderDiagnostics(cmd, result.Errors, jsonOutput); err != nil {
		return err
	}
	if len(result.Errors) > 0 {
		return fmt.Errorf("build: %d diagnostic(s), stopping before backend stage", len(result.Errors))
	}

	installer := collaborator.Installer{}
	plan, err := installer.Plan(cfg.toolchainVersion)
	if err != nil {
		return fmt.Errorf("plan toolchain install: %w", err)
	}
	cmd.Println(plan.String())
	for _, step := range plan.Steps {
		cmd.Println("  - " + step)
	}

	if cfg.backendPath == "" {
		cmd.Println("no --backend given; skipping backend invocation")
		return nil
	}

	invoker := collaborator.BackendInvoker{Path: cfg.backendPath, Args: []string{path}}
	if err := invoker.Invoke(context.Background()); err != nil {
		return fmt.Errorf("invoke backend: %w", err)
	}
	cmd.Println("backend invocation succeeded")
	return nil
}

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/juliuspleunes4/mamba/internal/collaborator"
	"github.com/juliuspleunes4/mamba/internal/lexer"
	"github.com/juliuspleunes4/mamba/internal/parser"
	"github.com/juliuspleunes4/mamba/internal/pipeline"
	"github.com/juliuspleunes4/mamba/internal/telemetry"
)

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <glob-or-path>",
		Short: "Parse every file matching a glob pattern, reporting pass/fail counts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args[0])
		},
	}
	return cmd
}

func runCheck(cmd *cobra.Command, pattern string) error {
	matches, err := matchSources(pattern)
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		return oops.Code("GLOB_NO_MATCH").With("pattern", pattern).Errorf("no files matched %q", pattern)
	}

	passed, failed := 0, 0
	for _, path := range matches {
		source, err := readSource(path)
		if err != nil {
			failed++
			cmd.Println(err.Error())
			continue
		}

		ctx := pipeline.NewPipelineContext(source)
		ctx.FilePath = path
		stages := telemetry.Wrap(
			telemetry.Stage{Name: "lex", Processor: lexer.Processor{}},
			telemetry.Stage{Name: "parse", Processor: parser.Processor{}},
			telemetry.Stage{Name: "semantic", Processor: collaborator.SemanticAnalyzer{}},
		)
		result := pipeline.New(stages...).Run(ctx)

		if len(result.Errors) == 0 {
			passed++
			continue
		}
		failed++
		if err := renderDiagnostics(cmd, result.Errors, jsonOutput); err != nil {
			return err
		}
	}

	cmd.Printf("%d passed, %d failed (%d total)\n", passed, failed, len(matches))
	if failed > 0 {
		return fmt.Errorf("check: %d of %d files failed", failed, len(matches))
	}
	return nil
}

// matchSources expands a glob pattern (or a plain file path, which matches
// itself) into the list of files it selects. The walk starts at the
// pattern's literal directory prefix (or the current directory), and each
// path as filepath.WalkDir reports it is matched against the pattern.
func matchSources(pattern string) ([]string, error) {
	if !strings.ContainsAny(pattern, "*?[{") {
		if _, err := os.Stat(pattern); err != nil {
			return nil, oops.Code("FILE_NOT_FOUND").With("path", pattern).Wrap(err)
		}
		return []string{pattern}, nil
	}

	g, err := glob.Compile(pattern, '/')
	if err != nil {
		return nil, oops.Code("GLOB_INVALID").With("pattern", pattern).Wrap(err)
	}

	root := "."
	if idx := strings.IndexAny(pattern, "*?[{"); idx >= 0 {
		if dir := filepath.Dir(pattern[:idx]); dir != "." && !strings.ContainsAny(dir, "*?[{") {
			root = dir
		}
	}

	var matches []string
	err = filepath.WalkDir(root, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		if g.Match(path) {
			matches = append(matches, path)
		}
		return nil
	})
	if err != nil {
		return nil, oops.Code("GLOB_WALK_FAILED").With("root", root).Wrap(err)
	}
	return matches, nil
}

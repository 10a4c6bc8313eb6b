package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/juliuspleunes4/mamba/internal/lexer"
)

func newTokensCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokens <file>",
		Short: "Dump the token stream for a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTokens(cmd, args[0])
		},
	}
	return cmd
}

type tokenView struct {
	Kind   string `json:"kind"`
	Lexeme string `json:"lexeme"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

func runTokens(cmd *cobra.Command, path string) error {
	source, err := readSource(path)
	if err != nil {
		return err
	}

	toks, errs := lexer.Lex(source)

	if jsonOutput {
		views := make([]tokenView, len(toks))
		for i, t := range toks {
			views[i] = tokenView{Kind: t.Kind.String(), Lexeme: t.Lexeme, Line: t.Pos.Line, Column: t.Pos.Column}
		}
		data, merr := json.MarshalIndent(views, "", "  ")
		if merr != nil {
			return fmt.Errorf("marshal tokens: %w", merr)
		}
		cmd.Println(string(data))
	} else {
		for _, t := range toks {
			cmd.Printf("%4d:%-4d %-16s %q\n", t.Pos.Line, t.Pos.Column, t.Kind.String(), t.Lexeme)
		}
	}

	if err := renderDiagnostics(cmd, errs, jsonOutput); err != nil {
		return err
	}
	if len(errs) > 0 {
		return fmt.Errorf("%d lexical diagnostic(s)", len(errs))
	}
	return nil
}

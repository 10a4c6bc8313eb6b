package main

import (
	"github.com/spf13/cobra"
)

// Global flags available to all subcommands.
var jsonOutput bool

// NewRootCmd creates the root command for the mamba CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mamba",
		Short: "mamba - a Python-syntax lexer and parser front end",
		Long: `mamba tokenizes and parses Python-syntax source files into an AST,
reporting lexical and syntax diagnostics without executing anything.`,
	}

	cmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")

	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newTokensCmd())
	cmd.AddCommand(newCheckCmd())
	cmd.AddCommand(newBuildCmd())

	return cmd
}

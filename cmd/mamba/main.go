// Command mamba is the lexer/parser front end's CLI surface: run, tokens,
// check, and build subcommands wrapping the library's pipeline stages.
package main

import (
	"log/slog"
	"os"
)

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		slog.Error("mamba failed", "error", err)
		os.Exit(1)
	}
}

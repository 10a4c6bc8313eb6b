// Package mamba is the library entry point composing the lexer and parser
// into a single source-to-AST function.
package mamba

import (
	"github.com/juliuspleunes4/mamba/internal/ast"
	"github.com/juliuspleunes4/mamba/internal/diagnostics"
	"github.com/juliuspleunes4/mamba/internal/lexer"
	"github.com/juliuspleunes4/mamba/internal/parser"
)

// Parse lexes and parses source, returning the module AST and every
// diagnostic raised along the way. Lexical errors never prevent parsing:
// the lexer records each error and keeps scanning, and the parser runs
// against whatever tokens it produced.
func Parse(source string) (*ast.Module, []*diagnostics.Error) {
	toks, lexErrs := lexer.Lex(source)
	mod, parseErrs := parser.Parse(toks)

	errs := make([]*diagnostics.Error, 0, len(lexErrs)+len(parseErrs))
	errs = append(errs, lexErrs...)
	errs = append(errs, parseErrs...)
	return mod, errs
}

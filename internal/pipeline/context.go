package pipeline

import (
	"github.com/juliuspleunes4/mamba/internal/ast"
	"github.com/juliuspleunes4/mamba/internal/diagnostics"
	"github.com/juliuspleunes4/mamba/internal/token"
)

// PipelineContext holds everything threaded through the lex -> parse ->
// collaborator-stub stages of a single run.
type PipelineContext struct {
	SourceCode string
	FilePath   string
	Tokens     []token.Token
	AstRoot    *ast.Module
	Errors     []*diagnostics.Error

	// Stopped is set by a Processor that decides the pipeline cannot
	// usefully continue (e.g. the lexer produced no tokens at all).
	Stopped bool
}

// NewPipelineContext creates a context ready for the first stage.
func NewPipelineContext(source string) *PipelineContext {
	return &PipelineContext{SourceCode: source}
}

// AddErrors appends diagnostics, tagging each with FilePath when set.
func (c *PipelineContext) AddErrors(errs []*diagnostics.Error) {
	for _, e := range errs {
		if c.FilePath != "" {
			e = e.WithFile(c.FilePath)
		}
		c.Errors = append(c.Errors, e)
	}
}

// Package collaborator holds stubs for stages that sit downstream of parsing
// but are not part of this module's scope: semantic analysis, transpilation,
// backend invocation (as a subprocess or a plugin), and installation.
// SemanticAnalyzer implements pipeline.Processor and runs as a pipeline
// stage; the other stubs are plain types that callers invoke directly. None
// of them encode source-language semantics.
package collaborator

import (
	"github.com/juliuspleunes4/mamba/internal/diagnostics"
	"github.com/juliuspleunes4/mamba/internal/pipeline"
	"github.com/juliuspleunes4/mamba/internal/token"
)

// SemanticAnalyzer is a no-op pass-through standing in for a future type and
// name-resolution pass. In Strict mode it records a fixed informational
// diagnostic so callers can see the stage ran without it silently doing
// nothing.
type SemanticAnalyzer struct {
	Strict bool
}

func (s SemanticAnalyzer) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Stopped || ctx.AstRoot == nil {
		return ctx
	}
	if s.Strict {
		pos := token.Position{Line: 1, Column: 1}
		err := diagnostics.CollaboratorError(diagnostics.KindNotImplemented, pos,
			"semantic analysis is not implemented; parsing succeeded without type or name checking")
		ctx.AddErrors([]*diagnostics.Error{err})
	}
	return ctx
}

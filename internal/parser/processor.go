package parser

import "github.com/juliuspleunes4/mamba/internal/pipeline"

// Processor adapts Parse to the pipeline.Processor interface: the second
// stage of every run, turning a token vector into a module AST.
type Processor struct{}

func (Processor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Stopped {
		return ctx
	}
	mod, errs := Parse(ctx.Tokens)
	ctx.AstRoot = mod
	ctx.AddErrors(errs)
	return ctx
}

package lexer

import "github.com/juliuspleunes4/mamba/internal/pipeline"

// Processor adapts Lex to the pipeline.Processor interface: the first
// stage of every run, turning source text into a token vector.
type Processor struct{}

func (Processor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	toks, errs := Lex(ctx.SourceCode)
	ctx.Tokens = toks
	ctx.AddErrors(errs)
	if len(toks) == 0 {
		ctx.Stopped = true
	}
	return ctx
}

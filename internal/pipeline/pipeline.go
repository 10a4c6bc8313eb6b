package pipeline

// Pipeline represents a sequence of processing stages.
type Pipeline struct {
	processors []Processor
}

func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Run executes the pipeline stage by stage. Diagnostics never halt the
// run — a stage that adds errors to ctx.Errors still hands the context to
// the next stage, so lexing and parsing can both report everything they
// find in one pass. Stopped is the one signal that does halt it: a stage
// sets it when the context is unusable for anything downstream (the lexer
// produces no tokens at all, for example), and remaining stages are
// skipped rather than invoked against a context they couldn't act on.
func (p *Pipeline) Run(initialCtx *PipelineContext) *PipelineContext {
	ctx := initialCtx
	for _, processor := range p.processors {
		if ctx.Stopped {
			break
		}
		ctx = processor.Process(ctx)
	}
	return ctx
}

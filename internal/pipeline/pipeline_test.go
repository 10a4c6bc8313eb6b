package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juliuspleunes4/mamba/internal/diagnostics"
	"github.com/juliuspleunes4/mamba/internal/token"
)

type recordingProcessor struct {
	name string
	ran  *[]string
	stop bool
	errs int
}

func (r recordingProcessor) Process(ctx *PipelineContext) *PipelineContext {
	*r.ran = append(*r.ran, r.name)
	if r.stop {
		ctx.Stopped = true
	}
	for i := 0; i < r.errs; i++ {
		ctx.AddErrors([]*diagnostics.Error{
			diagnostics.LexError(diagnostics.KindUnknownCharacter, token.Position{}, "boom"),
		})
	}
	return ctx
}

func TestPipelineRunsEveryStageWhenNoneStop(t *testing.T) {
	var ran []string
	pl := New(
		recordingProcessor{name: "a", ran: &ran},
		recordingProcessor{name: "b", ran: &ran},
		recordingProcessor{name: "c", ran: &ran},
	)
	out := pl.Run(NewPipelineContext("src"))
	assert.Equal(t, []string{"a", "b", "c"}, ran)
	assert.False(t, out.Stopped)
}

func TestPipelineContinuesPastDiagnostics(t *testing.T) {
	var ran []string
	pl := New(
		recordingProcessor{name: "a", ran: &ran, errs: 2},
		recordingProcessor{name: "b", ran: &ran},
	)
	out := pl.Run(NewPipelineContext("src"))
	assert.Equal(t, []string{"a", "b"}, ran)
	require.Len(t, out.Errors, 2)
}

func TestPipelineStopsRemainingStagesWhenStopped(t *testing.T) {
	var ran []string
	pl := New(
		recordingProcessor{name: "a", ran: &ran, stop: true},
		recordingProcessor{name: "b", ran: &ran},
		recordingProcessor{name: "c", ran: &ran},
	)
	out := pl.Run(NewPipelineContext("src"))
	assert.Equal(t, []string{"a"}, ran)
	assert.True(t, out.Stopped)
}

package mamba

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juliuspleunes4/mamba/internal/ast"
)

func TestParseValidSource(t *testing.T) {
	mod, errs := Parse("def greet(name):\n    return name\n")
	require.Empty(t, errs)
	require.Len(t, mod.Statements, 1)
	_, ok := mod.Statements[0].(*ast.FunctionDef)
	assert.True(t, ok)
}

func TestParseCollectsBothLexAndParseErrors(t *testing.T) {
	_, errs := Parse("x = $\ny = )\n")
	require.NotEmpty(t, errs)
	var sawLex, sawParse bool
	for _, e := range errs {
		switch e.Phase {
		case "lexical error":
			sawLex = true
		case "parse error":
			sawParse = true
		}
	}
	assert.True(t, sawLex)
	assert.True(t, sawParse)
}

package diagnostics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/juliuspleunes4/mamba/internal/token"
)

func TestErrorString(t *testing.T) {
	err := LexError(KindUnknownCharacter, token.Position{Line: 3, Column: 5}, "unexpected '$'")
	assert.Contains(t, err.Error(), "lexical error")
	assert.Contains(t, err.Error(), "3:5")
	assert.Contains(t, err.Error(), "unexpected '$'")
}

func TestErrorWithSuggestion(t *testing.T) {
	err := ParseError(KindUnexpectedToken, token.Position{Line: 1, Column: 1}, "bad token", "Did you mean 'elif'?")
	assert.Contains(t, err.Error(), "hint: Did you mean 'elif'?")
}

func TestErrorWithFile(t *testing.T) {
	err := LexError(KindUnknownCharacter, token.Position{Line: 1, Column: 1}, "bad")
	tagged := err.WithFile("main.mamba")
	assert.Equal(t, "main.mamba", tagged.File)
	assert.Empty(t, err.File, "WithFile must not mutate the receiver")
	assert.Contains(t, tagged.Error(), "main.mamba:")
}

func TestSuggestKeyword(t *testing.T) {
	cases := []struct {
		ident string
		found bool
	}{
		{"elseif", true},
		{"define", true},
		{"cls", true},
		{"banana", false},
	}
	for _, c := range cases {
		_, found := SuggestKeyword(c.ident)
		assert.Equal(t, c.found, found, c.ident)
	}
}

func TestCollaboratorError(t *testing.T) {
	err := CollaboratorError(KindNotImplemented, token.Position{Line: 1, Column: 1}, "not implemented")
	assert.Equal(t, PhaseCollaborator, err.Phase)
	assert.Equal(t, KindNotImplemented, err.Kind)
}

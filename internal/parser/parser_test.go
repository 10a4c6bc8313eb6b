package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juliuspleunes4/mamba/internal/ast"
	"github.com/juliuspleunes4/mamba/internal/lexer"
)

func parseSource(t *testing.T, src string) (*ast.Module, []string) {
	t.Helper()
	toks, lexErrs := lexer.Lex(src)
	require.Empty(t, lexErrs, "unexpected lex errors for %q", src)
	mod, parseErrs := Parse(toks)
	msgs := make([]string, len(parseErrs))
	for i, e := range parseErrs {
		msgs[i] = e.Message
	}
	return mod, msgs
}

func TestParseSimpleAssignment(t *testing.T) {
	mod, errs := parseSource(t, "x = 1\n")
	require.Empty(t, errs)
	require.Len(t, mod.Statements, 1)
	assign, ok := mod.Statements[0].(*ast.Assign)
	require.True(t, ok)
	require.Len(t, assign.Targets, 1)
	ident, ok := assign.Targets[0].(*ast.Identifier)
	require.True(t, ok)
	assert.Equal(t, "x", ident.Name)
}

func TestParseChainedAssignment(t *testing.T) {
	mod, errs := parseSource(t, "a = b = 1\n")
	require.Empty(t, errs)
	assign := mod.Statements[0].(*ast.Assign)
	assert.Len(t, assign.Targets, 2)
}

func TestParseTupleUnpacking(t *testing.T) {
	mod, errs := parseSource(t, "a, b = 1, 2\n")
	require.Empty(t, errs)
	assign := mod.Statements[0].(*ast.Assign)
	tup, ok := assign.Targets[0].(*ast.Tuple)
	require.True(t, ok)
	assert.Len(t, tup.Items, 2)
}

func TestParseArithmeticPrecedence(t *testing.T) {
	// 1 + 2 * 3 must group as 1 + (2 * 3).
	mod, errs := parseSource(t, "x = 1 + 2 * 3\n")
	require.Empty(t, errs)
	assign := mod.Statements[0].(*ast.Assign)
	bin, ok := assign.Value.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, "+", bin.Op)
	rhs, ok := bin.Right.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, "*", rhs.Op)
}

func TestParsePowerIsRightAssociative(t *testing.T) {
	// 2 ** 3 ** 2 must group as 2 ** (3 ** 2).
	mod, errs := parseSource(t, "x = 2 ** 3 ** 2\n")
	require.Empty(t, errs)
	assign := mod.Statements[0].(*ast.Assign)
	bin, ok := assign.Value.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, "**", bin.Op)
	_, rightIsPower := bin.Right.(*ast.Binary)
	assert.True(t, rightIsPower)
}

func TestParseChainedComparison(t *testing.T) {
	mod, errs := parseSource(t, "x = a < b < c\n")
	require.Empty(t, errs)
	assign := mod.Statements[0].(*ast.Assign)
	cmp, ok := assign.Value.(*ast.Compare)
	require.True(t, ok)
	require.Len(t, cmp.Links, 2)
	assert.Equal(t, "<", cmp.Links[0].Op)
	assert.Equal(t, "<", cmp.Links[1].Op)
}

func TestParseIsNotAndNotIn(t *testing.T) {
	mod, errs := parseSource(t, "x = a is not b\ny = a not in b\n")
	require.Empty(t, errs)
	assign1 := mod.Statements[0].(*ast.Assign)
	cmp1 := assign1.Value.(*ast.Compare)
	assert.Equal(t, "is not", cmp1.Links[0].Op)

	assign2 := mod.Statements[1].(*ast.Assign)
	cmp2 := assign2.Value.(*ast.Compare)
	assert.Equal(t, "not in", cmp2.Links[0].Op)
}

func TestParseBoolOpFlattening(t *testing.T) {
	mod, errs := parseSource(t, "x = a and b and c\n")
	require.Empty(t, errs)
	assign := mod.Statements[0].(*ast.Assign)
	boolOp, ok := assign.Value.(*ast.BoolOp)
	require.True(t, ok)
	assert.Equal(t, "and", boolOp.Op)
	assert.Len(t, boolOp.Operands, 3)
}

func TestParseWalrus(t *testing.T) {
	mod, errs := parseSource(t, "if (n := len(a)) > 0:\n    pass\n")
	require.Empty(t, errs)
	ifStmt := mod.Statements[0].(*ast.If)
	_, ok := ifStmt.Branches[0].Cond.(*ast.Compare)
	require.True(t, ok)
}

func TestParseFunctionDefWithDefaultsAndStarArgs(t *testing.T) {
	mod, errs := parseSource(t, "def f(a, b=1, *args, c, **kwargs):\n    return a\n")
	require.Empty(t, errs)
	fn := mod.Statements[0].(*ast.FunctionDef)
	assert.Equal(t, "f", fn.Name)
	require.Len(t, fn.Params.Regular, 2)
	assert.NotNil(t, fn.Params.Variadic)
	require.Len(t, fn.Params.KeywordOnly, 1)
	assert.NotNil(t, fn.Params.KwVariadic)
}

func TestParseParameterOrderViolation(t *testing.T) {
	_, errs := parseSource(t, "def f(a=1, b):\n    pass\n")
	require.NotEmpty(t, errs)
}

func TestParseClassDefWithMetaclass(t *testing.T) {
	mod, errs := parseSource(t, "class Foo(Base, metaclass=Meta):\n    pass\n")
	require.Empty(t, errs)
	cls := mod.Statements[0].(*ast.ClassDef)
	assert.Equal(t, "Foo", cls.Name)
	require.Len(t, cls.Bases, 1)
	require.Len(t, cls.Keywords, 1)
	assert.Equal(t, "metaclass", cls.Keywords[0].Name)
}

func TestParseClassDefBaseAfterKeywordIsError(t *testing.T) {
	_, errs := parseSource(t, "class Foo(metaclass=Meta, Base):\n    pass\n")
	require.NotEmpty(t, errs)
}

func TestParseForLoop(t *testing.T) {
	mod, errs := parseSource(t, "for a, b in items:\n    pass\nelse:\n    pass\n")
	require.Empty(t, errs)
	forStmt := mod.Statements[0].(*ast.For)
	_, ok := forStmt.Target.(*ast.Tuple)
	require.True(t, ok)
	assert.Len(t, forStmt.Else, 1)
}

func TestParseListComprehension(t *testing.T) {
	mod, errs := parseSource(t, "x = [a for a in items if a > 0]\n")
	require.Empty(t, errs)
	assign := mod.Statements[0].(*ast.Assign)
	comp, ok := assign.Value.(*ast.ListComp)
	require.True(t, ok)
	require.Len(t, comp.Clauses, 1)
	assert.Len(t, comp.Clauses[0].Ifs, 1)
}

func TestParseDictAndSetLiterals(t *testing.T) {
	mod, errs := parseSource(t, "d = {1: 2, 3: 4}\ns = {1, 2, 3}\n")
	require.Empty(t, errs)
	dict := mod.Statements[0].(*ast.Assign).Value.(*ast.Dict)
	assert.Len(t, dict.Pairs, 2)
	set := mod.Statements[1].(*ast.Assign).Value.(*ast.Set)
	assert.Len(t, set.Items, 3)
}

func TestParseInvalidAssignmentTargetIsError(t *testing.T) {
	_, errs := parseSource(t, "1 + 1 = 2\n")
	require.NotEmpty(t, errs)
}

func TestParseAsyncNotFollowedByDefIsError(t *testing.T) {
	_, errs := parseSource(t, "async x = 1\n")
	require.NotEmpty(t, errs)
}

func TestParseMisspelledKeywordAtStatementStartSuggests(t *testing.T) {
	toks, lexErrs := lexer.Lex("elseif x:\n    pass\n")
	require.Empty(t, lexErrs)
	_, errs := Parse(toks)
	require.NotEmpty(t, errs)
	assert.Equal(t, "Did you mean 'elif'?", errs[0].Suggestion)
}

func TestParseEachMisspelledStatementKeywordSuggests(t *testing.T) {
	cases := map[string]string{
		"define f():\n    pass\n":     "Did you mean 'def'?",
		"function f():\n    pass\n":   "Did you mean 'def'?",
		"func f():\n    pass\n":       "Did you mean 'def'?",
		"cls Foo:\n    pass\n":        "Did you mean 'class'?",
		"foreach x in y:\n    pass\n": "Did you mean 'for'?",
		"until x:\n    pass\n":        "Did you mean 'while not'?",
		"unless x:\n    pass\n":       "Did you mean 'if not'?",
	}
	for src, want := range cases {
		toks, lexErrs := lexer.Lex(src)
		require.Empty(t, lexErrs, "unexpected lex errors for %q", src)
		_, errs := Parse(toks)
		require.NotEmptyf(t, errs, "expected a parse error for %q", src)
		assert.Equalf(t, want, errs[0].Suggestion, "wrong suggestion for %q", src)
	}
}

func TestParseErrorRecoveryContinuesToNextStatement(t *testing.T) {
	_, errs := parseSource(t, "x = )\ny = 2\n")
	require.NotEmpty(t, errs)
	// Exactly one error should be reported for the first bad statement;
	// panic-mode recovery should not cascade into a second error for y = 2.
	assert.Len(t, errs, 1)
}

func TestParseImportAndFromImport(t *testing.T) {
	mod, errs := parseSource(t, "import os\nfrom os import path as p\n")
	require.Empty(t, errs)
	imp := mod.Statements[0].(*ast.Import)
	require.Len(t, imp.Aliases, 1)
	assert.Equal(t, "os", imp.Aliases[0].Name)

	from := mod.Statements[1].(*ast.FromImport)
	assert.Equal(t, "os", from.Module)
	require.Len(t, from.Aliases, 1)
	assert.Equal(t, "p", from.Aliases[0].AsName)
}

func TestParseLambda(t *testing.T) {
	mod, errs := parseSource(t, "f = lambda x, y=1: x + y\n")
	require.Empty(t, errs)
	assign := mod.Statements[0].(*ast.Assign)
	lam, ok := assign.Value.(*ast.Lambda)
	require.True(t, ok)
	assert.Len(t, lam.Params.Regular, 2)
}

func TestParseTernary(t *testing.T) {
	mod, errs := parseSource(t, "x = a if cond else b\n")
	require.Empty(t, errs)
	assign := mod.Statements[0].(*ast.Assign)
	tern, ok := assign.Value.(*ast.Ternary)
	require.True(t, ok)
	assert.NotNil(t, tern.Cond)
}

func TestParseMaxNestingDepth(t *testing.T) {
	src := "x = " + openParens(250) + "1" + closeParens(250) + "\n"
	_, errs := parseSource(t, src)
	require.NotEmpty(t, errs)
}

func openParens(n int) string {
	s := make([]byte, n)
	for i := range s {
		s[i] = '('
	}
	return string(s)
}

func closeParens(n int) string {
	s := make([]byte, n)
	for i := range s {
		s[i] = ')'
	}
	return string(s)
}

package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/juliuspleunes4/mamba/internal/token"
)

func TestModulePosFallsBackWhenEmpty(t *testing.T) {
	var m Module
	assert.Equal(t, token.Position{Line: 1, Column: 1}, m.Pos())
}

func TestModulePosUsesFirstStatement(t *testing.T) {
	m := Module{Statements: []Statement{
		&Pass{Tok: token.Token{Pos: token.Position{Line: 5, Column: 1}}},
	}}
	assert.Equal(t, 5, m.Pos().Line)
}

func TestBinaryPosUsesLeftOperand(t *testing.T) {
	left := &Identifier{Tok: token.Token{Pos: token.Position{Line: 2, Column: 3}}, Name: "a"}
	bin := &Binary{Left: left, Op: "+", Right: &Identifier{Name: "b"}}
	assert.Equal(t, token.Position{Line: 2, Column: 3}, bin.Pos())
}

func TestAssignPosUsesFirstTarget(t *testing.T) {
	target := &Identifier{Tok: token.Token{Pos: token.Position{Line: 7, Column: 1}}, Name: "x"}
	assign := &Assign{Targets: []Expression{target}, Value: &IntLiteral{Value: 1}}
	assert.Equal(t, 7, assign.Pos().Line)
}

func TestBoolOpPosUsesFirstOperand(t *testing.T) {
	first := &Identifier{Tok: token.Token{Pos: token.Position{Line: 9, Column: 2}}, Name: "a"}
	boolOp := &BoolOp{Op: "and", Operands: []Expression{first, &Identifier{Name: "b"}}}
	assert.Equal(t, 9, boolOp.Pos().Line)
}

func TestExpressionAndStatementInterfacesAreDistinct(t *testing.T) {
	var _ Expression = &Identifier{}
	var _ Statement = &Pass{}
	var _ Node = &Module{}
}

package parser

import (
	"github.com/juliuspleunes4/mamba/internal/ast"
	"github.com/juliuspleunes4/mamba/internal/diagnostics"
	"github.com/juliuspleunes4/mamba/internal/token"
)

// parseParameters parses a function or lambda parameter list up to (but not
// consuming) end, tracking the five groups the grammar distinguishes and
// enforcing their ordering invariants: at most one '/', at most one '*',
// '**name' last, and no non-default parameter after a default within the
// same positional group. When end is ':' (a lambda), parameters take no
// annotations.
func (p *Parser) parseParameters(end token.Kind) *ast.Parameters {
	params := &ast.Parameters{}
	sawSlash := false
	sawStar := false
	sawDefaultInGroup := false

	for !p.check(end) && !p.atEnd() {
		if params.KwVariadic != nil {
			p.errorf(diagnostics.KindParameterOrderViolation, p.cur().Pos, "'**' parameter must be last")
			break
		}

		if p.check(token.SLASH) {
			tok := p.advance()
			if sawSlash || sawStar {
				p.errorf(diagnostics.KindParameterOrderViolation, tok.Pos, "'/' may appear at most once, and only before '*'")
			} else {
				params.PositionalOnly = append(params.PositionalOnly, params.Regular...)
				params.Regular = nil
				sawSlash = true
				sawDefaultInGroup = false
			}
			if !p.match(token.COMMA) {
				break
			}
			continue
		}

		if p.check(token.STAR) {
			tok := p.advance()
			if sawStar {
				p.errorf(diagnostics.KindParameterOrderViolation, tok.Pos, "duplicate '*' separator")
			}
			sawStar = true
			sawDefaultInGroup = false
			params.HasStar = true
			if p.check(token.IDENT) {
				nameTok := p.advance()
				var ann ast.Expression
				if end != token.COLON && p.match(token.COLON) {
					ann = p.parseExpression(LOWEST)
				}
				params.Variadic = &ast.Param{Tok: nameTok, Name: nameTok.Lexeme, Annotation: ann}
			}
			if !p.match(token.COMMA) {
				break
			}
			continue
		}

		if p.check(token.DOUBLESTAR) {
			tok := p.advance()
			nameTok, ok := p.expect(token.IDENT, "a parameter name")
			if !ok {
				break
			}
			var ann ast.Expression
			if end != token.COLON && p.match(token.COLON) {
				ann = p.parseExpression(LOWEST)
			}
			if params.KwVariadic != nil {
				p.errorf(diagnostics.KindParameterOrderViolation, tok.Pos, "duplicate '**' parameter")
			}
			params.KwVariadic = &ast.Param{Tok: nameTok, Name: nameTok.Lexeme, Annotation: ann}
			if !p.match(token.COMMA) {
				break
			}
			continue
		}

		nameTok, ok := p.expect(token.IDENT, "a parameter name")
		if !ok {
			break
		}
		param := &ast.Param{Tok: nameTok, Name: nameTok.Lexeme}
		if end != token.COLON && p.match(token.COLON) {
			param.Annotation = p.parseExpression(LOWEST)
		}
		if p.match(token.ASSIGN) {
			param.Default = p.parseExpression(LOWEST)
		}
		if sawStar {
			params.KeywordOnly = append(params.KeywordOnly, param)
		} else {
			if param.Default == nil && sawDefaultInGroup {
				p.errorf(diagnostics.KindParameterOrderViolation, nameTok.Pos, "non-default parameter follows a default parameter")
			}
			if param.Default != nil {
				sawDefaultInGroup = true
			}
			params.Regular = append(params.Regular, param)
		}
		if !p.match(token.COMMA) {
			break
		}
	}
	return params
}

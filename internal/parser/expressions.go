package parser

import (
	"github.com/juliuspleunes4/mamba/internal/ast"
	"github.com/juliuspleunes4/mamba/internal/diagnostics"
	"github.com/juliuspleunes4/mamba/internal/token"
)

// parseExpression is the Pratt loop: a prefix function builds the left
// operand, then infix functions are applied while the next operator binds
// tighter than prec.
func (p *Parser) parseExpression(prec int) ast.Expression {
	if !p.enter() {
		return nil
	}
	defer p.leave()

	prefix := p.prefixFns[p.cur().Kind]
	if prefix == nil {
		p.errorf(diagnostics.KindUnexpectedToken, p.cur().Pos, "expected an expression, found %s", p.describe(p.cur()))
		return nil
	}
	left := prefix()
	if left == nil {
		return nil
	}

	for prec < p.curPrecedence() {
		infix := p.infixFns[p.cur().Kind]
		if infix == nil {
			return left
		}
		left = infix(left)
		if left == nil {
			return nil
		}
	}
	return left
}

// --- Prefix: literals and identifiers ---

func (p *Parser) parseIdentifier() ast.Expression {
	tok := p.advance()
	if p.check(token.WALRUS) {
		walrus := p.advance()
		value := p.parseExpression(LOWEST)
		if value == nil {
			return nil
		}
		return &ast.Walrus{Tok: walrus, Name: &ast.Identifier{Tok: tok, Name: tok.Lexeme}, Value: value}
	}
	return &ast.Identifier{Tok: tok, Name: tok.Lexeme}
}

func (p *Parser) parseIntLiteral() ast.Expression {
	tok := p.advance()
	v, _ := tok.Literal.(int64)
	return &ast.IntLiteral{Tok: tok, Value: v, Base: tok.Base}
}

func (p *Parser) parseFloatLiteral() ast.Expression {
	tok := p.advance()
	v, _ := tok.Literal.(float64)
	return &ast.FloatLiteral{Tok: tok, Value: v}
}

func (p *Parser) parseStringLiteral() ast.Expression {
	tok := p.advance()
	v, _ := tok.Literal.(string)
	lit := &ast.StringLiteral{
		Tok:       tok,
		Value:     v,
		Raw:       tok.StrFlags&token.FlagRaw != 0,
		Formatted: tok.StrFlags&token.FlagFormatted != 0,
		Triple:    tok.StrFlags&token.FlagTriple != 0,
	}
	// Adjacent string literals concatenate, as in the host grammar.
	for p.check(token.STRING) {
		next := p.advance()
		s, _ := next.Literal.(string)
		lit.Value += s
	}
	return lit
}

func (p *Parser) parseBoolLiteral() ast.Expression {
	tok := p.advance()
	return &ast.BoolLiteral{Tok: tok, Value: tok.Kind == token.TRUE}
}

func (p *Parser) parseNoneLiteral() ast.Expression {
	return &ast.NoneLiteral{Tok: p.advance()}
}

func (p *Parser) parseEllipsisLiteral() ast.Expression {
	return &ast.EllipsisLiteral{Tok: p.advance()}
}

// --- Prefix: unary operators ---

func (p *Parser) parseUnaryExpr() ast.Expression {
	tok := p.advance()
	value := p.parseExpression(UNARY)
	if value == nil {
		return nil
	}
	return &ast.Unary{Tok: tok, Op: tok.Lexeme, Value: value}
}

func (p *Parser) parseNotExpr() ast.Expression {
	tok := p.advance()
	value := p.parseExpression(LOGIC_NOT)
	if value == nil {
		return nil
	}
	return &ast.Unary{Tok: tok, Op: "not", Value: value}
}

func (p *Parser) parseStarredExpr() ast.Expression {
	tok := p.advance()
	value := p.parseExpression(UNARY)
	if value == nil {
		return nil
	}
	return &ast.Starred{Tok: tok, Value: value}
}

// --- Prefix: grouping, collections, lambda ---

func (p *Parser) parseParenExpr() ast.Expression {
	lparen := p.advance()
	if p.check(token.RPAREN) {
		p.advance()
		return &ast.Tuple{Tok: lparen}
	}
	first := p.parseExpression(LOWEST)
	if first == nil {
		return nil
	}
	if p.check(token.FOR) {
		clauses := p.parseCompClauses()
		if clauses == nil {
			return nil
		}
		if _, ok := p.expectDelim(token.RPAREN, "')'"); !ok {
			return nil
		}
		return &ast.GenExpr{Tok: lparen, Elt: first, Clauses: clauses}
	}
	if p.check(token.COMMA) {
		items := []ast.Expression{first}
		for p.match(token.COMMA) {
			if p.check(token.RPAREN) {
				break
			}
			it := p.parseExpression(LOWEST)
			if it == nil {
				return nil
			}
			items = append(items, it)
		}
		if _, ok := p.expectDelim(token.RPAREN, "')'"); !ok {
			return nil
		}
		return &ast.Tuple{Tok: lparen, Items: items}
	}
	if _, ok := p.expectDelim(token.RPAREN, "')'"); !ok {
		return nil
	}
	return first
}

func (p *Parser) parseListExpr() ast.Expression {
	lbracket := p.advance()
	if p.check(token.RBRACKET) {
		p.advance()
		return &ast.List{Tok: lbracket}
	}
	first := p.parseExpression(LOWEST)
	if first == nil {
		return nil
	}
	if p.check(token.FOR) {
		clauses := p.parseCompClauses()
		if clauses == nil {
			return nil
		}
		if _, ok := p.expectDelim(token.RBRACKET, "']'"); !ok {
			return nil
		}
		return &ast.ListComp{Tok: lbracket, Elt: first, Clauses: clauses}
	}
	items := []ast.Expression{first}
	for p.match(token.COMMA) {
		if p.check(token.RBRACKET) {
			break
		}
		it := p.parseExpression(LOWEST)
		if it == nil {
			return nil
		}
		items = append(items, it)
	}
	if _, ok := p.expectDelim(token.RBRACKET, "']'"); !ok {
		return nil
	}
	return &ast.List{Tok: lbracket, Items: items}
}

func (p *Parser) parseBraceExpr() ast.Expression {
	lbrace := p.advance()
	if p.check(token.RBRACE) {
		p.advance()
		return &ast.Dict{Tok: lbrace}
	}
	first := p.parseExpression(LOWEST)
	if first == nil {
		return nil
	}
	if p.check(token.COLON) {
		p.advance()
		val := p.parseExpression(LOWEST)
		if val == nil {
			return nil
		}
		if p.check(token.FOR) {
			clauses := p.parseCompClauses()
			if clauses == nil {
				return nil
			}
			if _, ok := p.expectDelim(token.RBRACE, "'}'"); !ok {
				return nil
			}
			return &ast.DictComp{Tok: lbrace, Key: first, Value: val, Clauses: clauses}
		}
		pairs := []ast.DictPair{{Key: first, Value: val}}
		for p.match(token.COMMA) {
			if p.check(token.RBRACE) {
				break
			}
			k := p.parseExpression(LOWEST)
			if k == nil {
				return nil
			}
			if _, ok := p.expectDelim(token.COLON, "':'"); !ok {
				return nil
			}
			v := p.parseExpression(LOWEST)
			if v == nil {
				return nil
			}
			pairs = append(pairs, ast.DictPair{Key: k, Value: v})
		}
		if _, ok := p.expectDelim(token.RBRACE, "'}'"); !ok {
			return nil
		}
		return &ast.Dict{Tok: lbrace, Pairs: pairs}
	}
	if p.check(token.FOR) {
		clauses := p.parseCompClauses()
		if clauses == nil {
			return nil
		}
		if _, ok := p.expectDelim(token.RBRACE, "'}'"); !ok {
			return nil
		}
		return &ast.SetComp{Tok: lbrace, Elt: first, Clauses: clauses}
	}
	items := []ast.Expression{first}
	for p.match(token.COMMA) {
		if p.check(token.RBRACE) {
			break
		}
		it := p.parseExpression(LOWEST)
		if it == nil {
			return nil
		}
		items = append(items, it)
	}
	if _, ok := p.expectDelim(token.RBRACE, "'}'"); !ok {
		return nil
	}
	return &ast.Set{Tok: lbrace, Items: items}
}

func (p *Parser) parseLambda() ast.Expression {
	tok := p.advance()
	params := p.parseParameters(token.COLON)
	if _, ok := p.expectDelim(token.COLON, "':'"); !ok {
		return nil
	}
	body := p.parseExpression(LOWEST)
	if body == nil {
		return nil
	}
	return &ast.Lambda{Tok: tok, Params: params, Body: body}
}

// parseCompClauses parses one or more `for target in iter [if cond]*`
// suffixes shared by list/dict/set comprehensions and generator expressions.
func (p *Parser) parseCompClauses() []ast.CompClause {
	var clauses []ast.CompClause
	for p.check(token.FOR) {
		p.advance()
		target := p.parseForTarget()
		if target == nil {
			return nil
		}
		if _, ok := p.expect(token.IN, "'in'"); !ok {
			return nil
		}
		iter := p.parseExpression(TERNARY)
		if iter == nil {
			return nil
		}
		var ifs []ast.Expression
		for p.check(token.IF) {
			p.advance()
			cond := p.parseExpression(TERNARY)
			if cond == nil {
				return nil
			}
			ifs = append(ifs, cond)
		}
		clauses = append(clauses, ast.CompClause{Target: target, Iter: iter, Ifs: ifs})
	}
	return clauses
}

// --- Infix: ternary, boolean, comparison, binary ---

func (p *Parser) parseTernary(then ast.Expression) ast.Expression {
	ifTok := p.cur()
	p.advance()
	cond := p.parseExpression(TERNARY)
	if cond == nil {
		return nil
	}
	if _, ok := p.expect(token.ELSE, "'else'"); !ok {
		return nil
	}
	elseExpr := p.parseExpression(TERNARY)
	if elseExpr == nil {
		return nil
	}
	return &ast.Ternary{Tok: ifTok, Then: then, Cond: cond, Else: elseExpr}
}

func (p *Parser) parseBoolOp(left ast.Expression) ast.Expression {
	opTok := p.cur()
	p.advance()
	right := p.parseExpression(precedences[opTok.Kind])
	if right == nil {
		return nil
	}
	if bo, ok := left.(*ast.BoolOp); ok && bo.Op == opTok.Lexeme {
		bo.Operands = append(bo.Operands, right)
		return bo
	}
	return &ast.BoolOp{Tok: opTok, Op: opTok.Lexeme, Operands: []ast.Expression{left, right}}
}

func (p *Parser) parseCompare(left ast.Expression) ast.Expression {
	cmp := &ast.Compare{Tok: p.cur(), Left: left}
	for {
		op, ok := p.readCompareOp()
		if !ok {
			return nil
		}
		right := p.parseExpression(COMPARE + 1)
		if right == nil {
			return nil
		}
		cmp.Links = append(cmp.Links, ast.CompareLink{Op: op, Right: right})
		if !isCompareStart(p.cur().Kind) {
			break
		}
	}
	return cmp
}

// readCompareOp consumes the current comparison operator token (cur() on
// entry) plus, for the two-word forms, its continuation, leaving cur() at
// the right operand's first token.
func (p *Parser) readCompareOp() (string, bool) {
	switch p.cur().Kind {
	case token.LT:
		p.advance()
		return "<", true
	case token.GT:
		p.advance()
		return ">", true
	case token.LE:
		p.advance()
		return "<=", true
	case token.GE:
		p.advance()
		return ">=", true
	case token.EQ:
		p.advance()
		return "==", true
	case token.NE:
		p.advance()
		return "!=", true
	case token.IN:
		p.advance()
		return "in", true
	case token.IS:
		p.advance()
		if p.check(token.NOT) {
			p.advance()
			return "is not", true
		}
		return "is", true
	case token.NOT:
		p.advance()
		if _, ok := p.expect(token.IN, "'in' after 'not'"); !ok {
			return "", false
		}
		return "not in", true
	}
	p.errorf(diagnostics.KindUnexpectedToken, p.cur().Pos, "expected a comparison operator, found %s", p.describe(p.cur()))
	return "", false
}

func isCompareStart(kind token.Kind) bool {
	switch kind {
	case token.LT, token.GT, token.LE, token.GE, token.EQ, token.NE, token.IN, token.IS, token.NOT:
		return true
	}
	return false
}

func (p *Parser) parseBinary(left ast.Expression) ast.Expression {
	opTok := p.cur()
	p.advance()
	right := p.parseExpression(precedences[opTok.Kind])
	if right == nil {
		return nil
	}
	return &ast.Binary{Tok: opTok, Op: opTok.Lexeme, Left: left, Right: right}
}

// parseRightAssocBinary handles `**`, right-associative: a ** b ** c is
// a ** (b ** c). Passing prec-1 lets a nested `**` on the right re-trigger.
func (p *Parser) parseRightAssocBinary(left ast.Expression) ast.Expression {
	opTok := p.cur()
	p.advance()
	right := p.parseExpression(POWER - 1)
	if right == nil {
		return nil
	}
	return &ast.Binary{Tok: opTok, Op: opTok.Lexeme, Left: left, Right: right}
}

// --- Infix: postfix chain ---

func (p *Parser) parseCall(left ast.Expression) ast.Expression {
	lparen := p.cur()
	p.advance()
	call := &ast.Call{Tok: lparen, Func: left}
	sawKeyword := false
	for !p.check(token.RPAREN) && !p.atEnd() {
		switch {
		case p.check(token.STAR):
			starTok := p.advance()
			val := p.parseExpression(LOWEST)
			if val == nil {
				return nil
			}
			call.Args = append(call.Args, &ast.Starred{Tok: starTok, Value: val})
		case p.check(token.DOUBLESTAR):
			p.advance()
			val := p.parseExpression(LOWEST)
			if val == nil {
				return nil
			}
			call.Keywords = append(call.Keywords, ast.Keyword{Name: "", Value: val})
			sawKeyword = true
		case p.check(token.IDENT) && p.peek().Kind == token.ASSIGN:
			nameTok := p.advance()
			p.advance() // '='
			val := p.parseExpression(LOWEST)
			if val == nil {
				return nil
			}
			call.Keywords = append(call.Keywords, ast.Keyword{Name: nameTok.Lexeme, Value: val})
			sawKeyword = true
		default:
			if sawKeyword {
				p.errorf(diagnostics.KindUnexpectedToken, p.cur().Pos, "positional argument follows keyword argument")
			}
			val := p.parseExpression(LOWEST)
			if val == nil {
				return nil
			}
			call.Args = append(call.Args, val)
		}
		if !p.match(token.COMMA) {
			break
		}
	}
	if _, ok := p.expectDelim(token.RPAREN, "')'"); !ok {
		return nil
	}
	return call
}

func (p *Parser) parseSubscript(left ast.Expression) ast.Expression {
	lbracket := p.cur()
	p.advance()
	var items []ast.Expression
	for {
		it := p.parseExpression(LOWEST)
		if it == nil {
			return nil
		}
		items = append(items, it)
		if !p.match(token.COMMA) {
			break
		}
		if p.check(token.RBRACKET) {
			break
		}
	}
	if _, ok := p.expectDelim(token.RBRACKET, "']'"); !ok {
		return nil
	}
	var index ast.Expression = items[0]
	if len(items) > 1 {
		index = &ast.Tuple{Tok: lbracket, Items: items}
	}
	return &ast.Subscript{Tok: lbracket, Target: left, Index: index}
}

func (p *Parser) parseAttribute(left ast.Expression) ast.Expression {
	dot := p.cur()
	p.advance()
	nameTok, ok := p.expect(token.IDENT, "an attribute name")
	if !ok {
		return nil
	}
	return &ast.Attribute{Tok: dot, Target: left, Name: nameTok.Lexeme}
}

package parser

import (
	"github.com/juliuspleunes4/mamba/internal/ast"
	"github.com/juliuspleunes4/mamba/internal/diagnostics"
	"github.com/juliuspleunes4/mamba/internal/token"
)

// augAssignOps maps an augmented-assignment operator token to its spelling.
var augAssignOps = map[token.Kind]string{
	token.PLUS_ASSIGN:        "+=",
	token.MINUS_ASSIGN:       "-=",
	token.STAR_ASSIGN:        "*=",
	token.SLASH_ASSIGN:       "/=",
	token.DOUBLESLASH_ASSIGN: "//=",
	token.PERCENT_ASSIGN:     "%=",
	token.AMP_ASSIGN:         "&=",
	token.PIPE_ASSIGN:        "|=",
	token.CARET_ASSIGN:       "^=",
	token.LSHIFT_ASSIGN:      "<<=",
	token.RSHIFT_ASSIGN:      ">>=",
	token.DOUBLESTAR_ASSIGN:  "**=",
}

// parseModule drives the top-level statement loop until EOF.
func (p *Parser) parseModule() *ast.Module {
	mod := &ast.Module{}
	for !p.atEnd() {
		// A Dedent at top level (left over from an unexpected indent) closes
		// no block; skipping it keeps the loop advancing.
		if p.match(token.NEWLINE) || p.match(token.DEDENT) {
			continue
		}
		stmt := p.parseStatement()
		if stmt != nil {
			mod.Statements = append(mod.Statements, stmt)
		}
		if p.panicking {
			p.synchronize()
		}
	}
	return mod
}

// parseSuite parses an indented block following a statement header's ':'.
func (p *Parser) parseSuite() []ast.Statement {
	if _, ok := p.expect(token.NEWLINE, "a newline"); !ok {
		p.synchronizeIfPanicking()
		return nil
	}
	if _, ok := p.expect(token.INDENT, "an indented block"); !ok {
		p.synchronizeIfPanicking()
		return nil
	}
	if !p.enter() {
		return nil
	}
	defer p.leave()
	var stmts []ast.Statement
	for !p.check(token.DEDENT) && !p.atEnd() {
		if p.match(token.NEWLINE) {
			continue
		}
		stmt := p.parseStatement()
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
		if p.panicking {
			p.synchronize()
		}
	}
	p.match(token.DEDENT)
	return stmts
}

func (p *Parser) synchronizeIfPanicking() {
	if p.panicking {
		p.synchronize()
	}
}

// consumeStmtEnd closes a simple statement: a bare newline, a ';' (optionally
// followed by more statements on the same logical line), or end of block/file.
func (p *Parser) consumeStmtEnd() {
	if p.match(token.SEMICOLON) {
		p.match(token.NEWLINE)
		return
	}
	if p.match(token.NEWLINE) {
		return
	}
	if p.atEnd() || p.check(token.DEDENT) {
		return
	}
	p.errorf(diagnostics.KindUnexpectedToken, p.cur().Pos, "expected newline, found %s", p.describe(p.cur()))
}

func (p *Parser) parseStatement() ast.Statement {
	p.stmtStart = p.cur()
	switch p.cur().Kind {
	case token.DEF:
		return p.parseFunctionDef(nil, false)
	case token.ASYNC:
		return p.parseAsyncDef(nil)
	case token.CLASS:
		return p.parseClassDef(nil)
	case token.AT:
		return p.parseDecorated()
	case token.IF:
		return p.parseIf()
	case token.WHILE:
		return p.parseWhile()
	case token.FOR:
		return p.parseFor()
	case token.PASS:
		tok := p.advance()
		p.consumeStmtEnd()
		return &ast.Pass{Tok: tok}
	case token.BREAK:
		tok := p.advance()
		p.consumeStmtEnd()
		return &ast.Break{Tok: tok}
	case token.CONTINUE:
		tok := p.advance()
		p.consumeStmtEnd()
		return &ast.Continue{Tok: tok}
	case token.RETURN:
		return p.parseReturn()
	case token.IMPORT:
		return p.parseImport()
	case token.FROM:
		return p.parseFromImport()
	case token.GLOBAL:
		return p.parseGlobal()
	case token.NONLOCAL:
		return p.parseNonlocal()
	case token.ASSERT:
		return p.parseAssert()
	case token.DEL:
		return p.parseDelete()
	case token.RAISE:
		return p.parseRaise()
	default:
		return p.parseSimpleStatement()
	}
}

func (p *Parser) parseSimpleStatement() ast.Statement {
	startTok := p.cur()
	// exprList parses an expression, or a bare comma-separated tuple of them.
	exprList := func() ast.Expression {
		first := p.parseExpression(LOWEST)
		if first == nil || !p.check(token.COMMA) {
			return first
		}
		items := []ast.Expression{first}
		for p.match(token.COMMA) && !p.check(token.ASSIGN) && !p.check(token.NEWLINE) && !p.check(token.SEMICOLON) && !p.atEnd() {
			item := p.parseExpression(LOWEST)
			if item == nil {
				return nil
			}
			items = append(items, item)
		}
		return &ast.Tuple{Tok: token.Token{Pos: first.Pos()}, Items: items}
	}
	expr := exprList()
	if expr == nil {
		p.consumeStmtEnd()
		return nil
	}

	if op, ok := augAssignOps[p.cur().Kind]; ok {
		p.advance()
		val := p.parseExpression(LOWEST)
		p.validateAssignTarget(expr, false)
		p.consumeStmtEnd()
		return &ast.AugAssign{Tok: startTok, Target: expr, Op: op, Value: val}
	}

	if p.check(token.COLON) {
		p.advance()
		annot := p.parseExpression(LOWEST)
		var val ast.Expression
		if p.match(token.ASSIGN) {
			val = p.parseExpression(LOWEST)
		}
		p.validateAssignTarget(expr, false)
		p.consumeStmtEnd()
		return &ast.AnnAssign{Tok: startTok, Target: expr, Annotation: annot, Value: val}
	}

	if p.check(token.ASSIGN) {
		targets := []ast.Expression{expr}
		var value ast.Expression
		for p.match(token.ASSIGN) {
			rhs := exprList()
			if rhs == nil {
				break
			}
			if p.check(token.ASSIGN) {
				targets = append(targets, rhs)
				continue
			}
			value = rhs
			break
		}
		for _, t := range targets {
			p.validateAssignTarget(t, true)
		}
		p.consumeStmtEnd()
		return &ast.Assign{Tok: startTok, Targets: targets, Value: value}
	}

	p.consumeStmtEnd()
	return &ast.ExprStmt{Tok: startTok, Value: expr}
}

// validateAssignTarget enforces the assignability invariant: only
// identifiers, attributes, subscripts, and (where allowTuple) tuples/lists
// of such targets with at most one starred element.
func (p *Parser) validateAssignTarget(expr ast.Expression, allowTuple bool) bool {
	switch e := expr.(type) {
	case *ast.Identifier, *ast.Attribute, *ast.Subscript:
		return true
	case *ast.Starred:
		p.errorf(diagnostics.KindInvalidStarredPlacement, expr.Pos(), "a starred assignment target must be inside a tuple or list")
		return false
	case *ast.Tuple:
		if !allowTuple {
			p.errorf(diagnostics.KindInvalidAssignmentTarget, expr.Pos(), "cannot assign to a tuple here")
			return false
		}
		return p.validateTargetList(e.Items)
	case *ast.List:
		if !allowTuple {
			p.errorf(diagnostics.KindInvalidAssignmentTarget, expr.Pos(), "cannot assign to a list here")
			return false
		}
		return p.validateTargetList(e.Items)
	default:
		p.errorf(diagnostics.KindInvalidAssignmentTarget, expr.Pos(), "cannot assign to this expression")
		return false
	}
}

func (p *Parser) validateTargetList(items []ast.Expression) bool {
	ok := true
	starred := 0
	for _, it := range items {
		if s, isStar := it.(*ast.Starred); isStar {
			starred++
			if !p.validateAssignTarget(s.Value, false) {
				ok = false
			}
			continue
		}
		if !p.validateAssignTarget(it, true) {
			ok = false
		}
	}
	if starred > 1 {
		p.errorf(diagnostics.KindInvalidStarredPlacement, items[0].Pos(), "at most one starred target is allowed")
		ok = false
	}
	return ok
}

// parseForTarget parses a for-loop/comprehension target: an identifier,
// attribute, or subscript, a parenthesized/bracketed nested target, a
// starred target, or a bare comma-separated list of these. It deliberately
// avoids the general expression grammar so that the loop's trailing `in`
// is never mistaken for the `in` comparison operator.
func (p *Parser) parseForTarget() ast.Expression {
	first := p.parsePrimaryTarget()
	if first == nil {
		return nil
	}
	if !p.check(token.COMMA) {
		return first
	}
	items := []ast.Expression{first}
	for p.match(token.COMMA) {
		if p.check(token.IN) {
			break
		}
		t := p.parsePrimaryTarget()
		if t == nil {
			return nil
		}
		items = append(items, t)
	}
	return &ast.Tuple{Tok: token.Token{Pos: first.Pos()}, Items: items}
}

func (p *Parser) parsePrimaryTarget() ast.Expression {
	if p.check(token.STAR) {
		tok := p.advance()
		inner := p.parsePrimaryTarget()
		if inner == nil {
			return nil
		}
		return &ast.Starred{Tok: tok, Value: inner}
	}
	if p.check(token.LPAREN) || p.check(token.LBRACKET) {
		open := p.advance()
		closeKind := token.RPAREN
		if open.Kind == token.LBRACKET {
			closeKind = token.RBRACKET
		}
		var items []ast.Expression
		for !p.check(closeKind) && !p.atEnd() {
			it := p.parsePrimaryTarget()
			if it == nil {
				return nil
			}
			items = append(items, it)
			if !p.match(token.COMMA) {
				break
			}
		}
		if _, ok := p.expectDelim(closeKind, "a closing delimiter"); !ok {
			return nil
		}
		if open.Kind == token.LBRACKET {
			return &ast.List{Tok: open, Items: items}
		}
		return &ast.Tuple{Tok: open, Items: items}
	}
	nameTok, ok := p.expect(token.IDENT, "a target")
	if !ok {
		return nil
	}
	var expr ast.Expression = &ast.Identifier{Tok: nameTok, Name: nameTok.Lexeme}
	for {
		if p.check(token.DOT) {
			dot := p.advance()
			field, ok := p.expect(token.IDENT, "an attribute name")
			if !ok {
				return nil
			}
			expr = &ast.Attribute{Tok: dot, Target: expr, Name: field.Lexeme}
			continue
		}
		if p.check(token.LBRACKET) {
			lbracket := p.advance()
			idx := p.parseExpression(LOWEST)
			if idx == nil {
				return nil
			}
			if _, ok := p.expectDelim(token.RBRACKET, "']'"); !ok {
				return nil
			}
			expr = &ast.Subscript{Tok: lbracket, Target: expr, Index: idx}
			continue
		}
		break
	}
	return expr
}

// --- Compound statements ---

func (p *Parser) parseIf() ast.Statement {
	tok := p.advance()
	cond := p.parseExpression(LOWEST)
	ifStmt := &ast.If{Tok: tok}
	if _, ok := p.expectDelim(token.COLON, "':'"); !ok {
		p.synchronizeIfPanicking()
		return ifStmt
	}
	body := p.parseSuite()
	ifStmt.Branches = append(ifStmt.Branches, ast.IfBranch{Cond: cond, Body: body})

	for p.check(token.ELIF) {
		p.advance()
		c := p.parseExpression(LOWEST)
		if _, ok := p.expectDelim(token.COLON, "':'"); !ok {
			p.synchronizeIfPanicking()
			break
		}
		b := p.parseSuite()
		ifStmt.Branches = append(ifStmt.Branches, ast.IfBranch{Cond: c, Body: b})
	}
	if p.check(token.ELSE) {
		p.advance()
		if _, ok := p.expectDelim(token.COLON, "':'"); ok {
			ifStmt.Else = p.parseSuite()
		} else {
			p.synchronizeIfPanicking()
		}
	}
	return ifStmt
}

func (p *Parser) parseWhile() ast.Statement {
	tok := p.advance()
	cond := p.parseExpression(LOWEST)
	if _, ok := p.expectDelim(token.COLON, "':'"); !ok {
		p.synchronizeIfPanicking()
		return &ast.While{Tok: tok, Cond: cond}
	}
	body := p.parseSuite()
	var elseBody []ast.Statement
	if p.check(token.ELSE) {
		p.advance()
		if _, ok := p.expectDelim(token.COLON, "':'"); ok {
			elseBody = p.parseSuite()
		} else {
			p.synchronizeIfPanicking()
		}
	}
	return &ast.While{Tok: tok, Cond: cond, Body: body, Else: elseBody}
}

func (p *Parser) parseFor() ast.Statement {
	tok := p.advance()
	target := p.parseForTarget()
	if _, ok := p.expect(token.IN, "'in'"); !ok {
		p.synchronizeIfPanicking()
		return &ast.For{Tok: tok, Target: target}
	}
	iter := p.parseExpression(LOWEST)
	if _, ok := p.expectDelim(token.COLON, "':'"); !ok {
		p.synchronizeIfPanicking()
		return &ast.For{Tok: tok, Target: target, Iter: iter}
	}
	body := p.parseSuite()
	var elseBody []ast.Statement
	if p.check(token.ELSE) {
		p.advance()
		if _, ok := p.expectDelim(token.COLON, "':'"); ok {
			elseBody = p.parseSuite()
		} else {
			p.synchronizeIfPanicking()
		}
	}
	return &ast.For{Tok: tok, Target: target, Iter: iter, Body: body, Else: elseBody}
}

func (p *Parser) parseReturn() ast.Statement {
	tok := p.advance()
	var val ast.Expression
	if !p.check(token.NEWLINE) && !p.check(token.SEMICOLON) && !p.check(token.DEDENT) && !p.atEnd() {
		val = p.parseExpression(LOWEST)
	}
	p.consumeStmtEnd()
	return &ast.Return{Tok: tok, Value: val}
}

func (p *Parser) parseGlobal() ast.Statement {
	tok := p.advance()
	names := p.parseNameList()
	p.consumeStmtEnd()
	return &ast.Global{Tok: tok, Names: names}
}

func (p *Parser) parseNonlocal() ast.Statement {
	tok := p.advance()
	names := p.parseNameList()
	p.consumeStmtEnd()
	return &ast.Nonlocal{Tok: tok, Names: names}
}

func (p *Parser) parseNameList() []string {
	var names []string
	for {
		nameTok, ok := p.expect(token.IDENT, "an identifier")
		if !ok {
			break
		}
		names = append(names, nameTok.Lexeme)
		if !p.match(token.COMMA) {
			break
		}
	}
	return names
}

func (p *Parser) parseAssert() ast.Statement {
	tok := p.advance()
	cond := p.parseExpression(LOWEST)
	var msg ast.Expression
	if p.match(token.COMMA) {
		msg = p.parseExpression(LOWEST)
	}
	p.consumeStmtEnd()
	return &ast.Assert{Tok: tok, Cond: cond, Msg: msg}
}

func (p *Parser) parseDelete() ast.Statement {
	tok := p.advance()
	var targets []ast.Expression
	for {
		t := p.parseExpression(LOWEST)
		if t == nil {
			break
		}
		p.validateAssignTarget(t, true)
		targets = append(targets, t)
		if !p.match(token.COMMA) {
			break
		}
	}
	p.consumeStmtEnd()
	return &ast.Delete{Tok: tok, Targets: targets}
}

func (p *Parser) parseRaise() ast.Statement {
	tok := p.advance()
	var exc, cause ast.Expression
	if !p.check(token.NEWLINE) && !p.check(token.SEMICOLON) && !p.atEnd() {
		exc = p.parseExpression(LOWEST)
		if p.match(token.FROM) {
			cause = p.parseExpression(LOWEST)
		}
	}
	p.consumeStmtEnd()
	return &ast.Raise{Tok: tok, Exc: exc, Cause: cause}
}

func (p *Parser) parseImport() ast.Statement {
	tok := p.advance()
	var aliases []ast.Alias
	for {
		name, ok := p.parseDottedName()
		if !ok {
			break
		}
		asName := ""
		if p.match(token.AS) {
			n, ok := p.expect(token.IDENT, "an alias")
			if ok {
				asName = n.Lexeme
			}
		}
		aliases = append(aliases, ast.Alias{Name: name, AsName: asName})
		if !p.match(token.COMMA) {
			break
		}
	}
	p.consumeStmtEnd()
	return &ast.Import{Tok: tok, Aliases: aliases}
}

func (p *Parser) parseDottedName() (string, bool) {
	first, ok := p.expect(token.IDENT, "a module name")
	if !ok {
		return "", false
	}
	name := first.Lexeme
	for p.check(token.DOT) {
		p.advance()
		part, ok := p.expect(token.IDENT, "a module name")
		if !ok {
			break
		}
		name += "." + part.Lexeme
	}
	return name, true
}

func (p *Parser) parseFromImport() ast.Statement {
	tok := p.advance()
	module := ""
	if p.check(token.DOT) {
		// Relative imports (`from . import x`) are represented as a
		// module name made entirely of leading dots.
		for p.check(token.DOT) {
			p.advance()
			module += "."
		}
		if p.check(token.IDENT) {
			name, _ := p.parseDottedName()
			module += name
		}
	} else if name, ok := p.parseDottedName(); ok {
		module = name
	}
	if _, ok := p.expect(token.IMPORT, "'import'"); !ok {
		p.consumeStmtEnd()
		return &ast.FromImport{Tok: tok, Module: module}
	}
	if p.match(token.STAR) {
		p.consumeStmtEnd()
		return &ast.FromImport{Tok: tok, Module: module, ImportAll: true}
	}
	paren := p.match(token.LPAREN)
	var aliases []ast.Alias
	for {
		nameTok, ok := p.expect(token.IDENT, "an imported name")
		if !ok {
			break
		}
		asName := ""
		if p.match(token.AS) {
			n, ok := p.expect(token.IDENT, "an alias")
			if ok {
				asName = n.Lexeme
			}
		}
		aliases = append(aliases, ast.Alias{Name: nameTok.Lexeme, AsName: asName})
		if !p.match(token.COMMA) {
			break
		}
		if paren && p.check(token.RPAREN) {
			break
		}
	}
	if paren {
		p.expectDelim(token.RPAREN, "')'")
	}
	p.consumeStmtEnd()
	return &ast.FromImport{Tok: tok, Module: module, Aliases: aliases}
}

// --- Decorators, functions, classes ---

func (p *Parser) parseDecorated() ast.Statement {
	var decorators []ast.Expression
	for p.check(token.AT) {
		p.advance()
		d := p.parseExpression(LOWEST)
		if d != nil {
			decorators = append(decorators, d)
		}
		p.consumeStmtEnd()
	}
	switch {
	case p.check(token.DEF):
		return p.parseFunctionDef(decorators, false)
	case p.check(token.ASYNC):
		return p.parseAsyncDef(decorators)
	case p.check(token.CLASS):
		return p.parseClassDef(decorators)
	default:
		p.errorf(diagnostics.KindUnexpectedToken, p.cur().Pos, "expected a function or class definition after a decorator, found %s", p.describe(p.cur()))
		return nil
	}
}

func (p *Parser) parseAsyncDef(decorators []ast.Expression) ast.Statement {
	asyncTok := p.advance()
	if !p.check(token.DEF) {
		p.errorf(diagnostics.KindAsyncNotFollowedByDef, asyncTok.Pos, "expected 'def' after 'async', found %s", p.describe(p.cur()))
		return nil
	}
	return p.parseFunctionDef(decorators, true)
}

func (p *Parser) parseFunctionDef(decorators []ast.Expression, isAsync bool) ast.Statement {
	tok := p.advance()
	nameTok, ok := p.expect(token.IDENT, "a function name")
	if !ok {
		p.synchronizeIfPanicking()
		return nil
	}
	if _, ok := p.expectDelim(token.LPAREN, "'('"); !ok {
		p.synchronizeIfPanicking()
		return nil
	}
	params := p.parseParameters(token.RPAREN)
	if _, ok := p.expectDelim(token.RPAREN, "')'"); !ok {
		p.synchronizeIfPanicking()
		return nil
	}
	var retType ast.Expression
	if p.match(token.ARROW) {
		retType = p.parseExpression(LOWEST)
	}
	if _, ok := p.expectDelim(token.COLON, "':'"); !ok {
		p.synchronizeIfPanicking()
		return nil
	}
	body := p.parseSuite()
	return &ast.FunctionDef{
		Tok: tok, Name: nameTok.Lexeme, Params: params, ReturnType: retType,
		Body: body, Decorators: decorators, IsAsync: isAsync,
	}
}

func (p *Parser) parseClassDef(decorators []ast.Expression) ast.Statement {
	tok := p.advance()
	nameTok, ok := p.expect(token.IDENT, "a class name")
	if !ok {
		p.synchronizeIfPanicking()
		return nil
	}
	var bases []ast.Expression
	var keywords []ast.Keyword
	if p.match(token.LPAREN) {
		sawMetaclass := false
		sawKeyword := false
		for !p.check(token.RPAREN) && !p.atEnd() {
			if p.check(token.IDENT) && p.peek().Kind == token.ASSIGN {
				nameTok2 := p.advance()
				p.advance() // '='
				val := p.parseExpression(LOWEST)
				if nameTok2.Lexeme == "metaclass" {
					if sawMetaclass {
						p.errorf(diagnostics.KindDuplicateMetaclass, nameTok2.Pos, "duplicate 'metaclass' keyword argument")
					}
					sawMetaclass = true
				}
				keywords = append(keywords, ast.Keyword{Name: nameTok2.Lexeme, Value: val})
				sawKeyword = true
			} else {
				if sawKeyword {
					p.errorf(diagnostics.KindBaseAfterMetaclass, p.cur().Pos, "a base class may not follow a keyword argument")
				}
				b := p.parseExpression(LOWEST)
				if b == nil {
					break
				}
				bases = append(bases, b)
			}
			if !p.match(token.COMMA) {
				break
			}
		}
		p.expectDelim(token.RPAREN, "')'")
	}
	if _, ok := p.expectDelim(token.COLON, "':'"); !ok {
		p.synchronizeIfPanicking()
		return nil
	}
	body := p.parseSuite()
	return &ast.ClassDef{Tok: tok, Name: nameTok.Lexeme, Bases: bases, Keywords: keywords, Body: body, Decorators: decorators}
}

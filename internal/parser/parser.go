// Package parser turns a token vector into a *ast.Module using recursive
// descent with Pratt-style precedence climbing for expressions, built
// around a cur/peek-token cursor, an indentation-aware block state
// machine, and panic-mode error recovery.
package parser

import (
	"fmt"

	"github.com/juliuspleunes4/mamba/internal/ast"
	"github.com/juliuspleunes4/mamba/internal/diagnostics"
	"github.com/juliuspleunes4/mamba/internal/token"
)

// maxDepth bounds recursive descent so adversarial nesting produces a parse
// error instead of a stack overflow.
const maxDepth = 200

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

// Precedence levels, lowest to highest, matching the grammar's stated order:
// ternary, or, and, not, comparisons, |, ^, &, shift, additive,
// multiplicative, unary, power (right-assoc), postfix.
const (
	LOWEST = iota
	TERNARY
	LOGIC_OR
	LOGIC_AND
	LOGIC_NOT
	COMPARE
	BIT_OR
	BIT_XOR
	BIT_AND
	SHIFT
	ADDITIVE
	MULTIPLICATIVE
	UNARY
	POWER
	POSTFIX
)

var precedences = map[token.Kind]int{
	token.IF:          TERNARY,
	token.OR:          LOGIC_OR,
	token.AND:         LOGIC_AND,
	token.LT:          COMPARE,
	token.GT:          COMPARE,
	token.LE:          COMPARE,
	token.GE:          COMPARE,
	token.EQ:          COMPARE,
	token.NE:          COMPARE,
	token.IN:          COMPARE,
	token.IS:          COMPARE,
	token.NOT:         COMPARE,
	token.PIPE:        BIT_OR,
	token.CARET:       BIT_XOR,
	token.AMP:         BIT_AND,
	token.LSHIFT:      SHIFT,
	token.RSHIFT:      SHIFT,
	token.PLUS:        ADDITIVE,
	token.MINUS:       ADDITIVE,
	token.STAR:        MULTIPLICATIVE,
	token.SLASH:       MULTIPLICATIVE,
	token.DOUBLESLASH: MULTIPLICATIVE,
	token.PERCENT:     MULTIPLICATIVE,
	token.DOUBLESTAR:  POWER,
	token.LPAREN:      POSTFIX,
	token.LBRACKET:    POSTFIX,
	token.DOT:         POSTFIX,
}

// syncKeywords are the statement-start tokens synchronize() rallies on.
var syncKeywords = map[token.Kind]bool{
	token.DEF: true, token.CLASS: true, token.IF: true, token.WHILE: true,
	token.FOR: true, token.RETURN: true, token.IMPORT: true, token.FROM: true,
	token.PASS: true, token.BREAK: true, token.CONTINUE: true, token.RAISE: true,
	token.DEL: true, token.GLOBAL: true, token.NONLOCAL: true, token.ASSERT: true,
	token.AT: true,
}

// Parser holds all parsing state: the token cursor, the position of the most
// recently consumed token (prevPos), the error list, the panic-mode flag, the
// nesting depth, and the leading token of the current statement. Errors are
// reported at the current token's position; prevPos is recorded on every
// advance but no error site reads it, so an error after an operator names
// the token that follows the operator.
type Parser struct {
	tokens    []token.Token
	pos       int
	prevPos   token.Position
	errors    []*diagnostics.Error
	panicking bool
	depth     int

	// stmtStart is the leading token of the statement currently being
	// parsed, used by errorf to offer a keyword-typo suggestion against
	// the token that was actually misspelled rather than whatever token
	// the cursor happens to be sitting on when the error is raised.
	stmtStart token.Token

	prefixFns map[token.Kind]prefixParseFn
	infixFns  map[token.Kind]infixParseFn
}

// New creates a Parser over a complete token vector (as produced by
// lexer.Lex). tokens must end in an EOF token.
func New(tokens []token.Token) *Parser {
	p := &Parser{tokens: tokens}

	p.prefixFns = map[token.Kind]prefixParseFn{
		token.IDENT:    p.parseIdentifier,
		token.INT:      p.parseIntLiteral,
		token.FLOAT:    p.parseFloatLiteral,
		token.STRING:   p.parseStringLiteral,
		token.TRUE:     p.parseBoolLiteral,
		token.FALSE:    p.parseBoolLiteral,
		token.NONE:     p.parseNoneLiteral,
		token.ELLIPSIS: p.parseEllipsisLiteral,
		token.LPAREN:   p.parseParenExpr,
		token.LBRACKET: p.parseListExpr,
		token.LBRACE:   p.parseBraceExpr,
		token.MINUS:    p.parseUnaryExpr,
		token.PLUS:     p.parseUnaryExpr,
		token.TILDE:    p.parseUnaryExpr,
		token.NOT:      p.parseNotExpr,
		token.STAR:     p.parseStarredExpr,
		token.DOUBLESTAR: p.parseStarredExpr,
		token.LAMBDA:   p.parseLambda,
	}

	p.infixFns = map[token.Kind]infixParseFn{
		token.IF:          p.parseTernary,
		token.OR:          p.parseBoolOp,
		token.AND:         p.parseBoolOp,
		token.LT:          p.parseCompare,
		token.GT:          p.parseCompare,
		token.LE:          p.parseCompare,
		token.GE:          p.parseCompare,
		token.EQ:          p.parseCompare,
		token.NE:          p.parseCompare,
		token.IN:          p.parseCompare,
		token.IS:          p.parseCompare,
		token.NOT:         p.parseCompare,
		token.PIPE:        p.parseBinary,
		token.CARET:       p.parseBinary,
		token.AMP:         p.parseBinary,
		token.LSHIFT:      p.parseBinary,
		token.RSHIFT:      p.parseBinary,
		token.PLUS:        p.parseBinary,
		token.MINUS:       p.parseBinary,
		token.STAR:        p.parseBinary,
		token.SLASH:       p.parseBinary,
		token.DOUBLESLASH: p.parseBinary,
		token.PERCENT:     p.parseBinary,
		token.DOUBLESTAR:  p.parseRightAssocBinary,
		token.LPAREN:      p.parseCall,
		token.LBRACKET:    p.parseSubscript,
		token.DOT:         p.parseAttribute,
	}

	return p
}

// Parse lexes nothing itself; it consumes tokens and returns a module plus
// every error recorded, following its panic-mode recovery.
func Parse(tokens []token.Token) (*ast.Module, []*diagnostics.Error) {
	p := New(tokens)
	mod := p.parseModule()
	return mod, p.errors
}

func (p *Parser) cur() token.Token {
	return p.tokens[p.pos]
}

func (p *Parser) peek() token.Token {
	if p.pos+1 >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos+1]
}

func (p *Parser) atEnd() bool {
	return p.cur().Kind == token.EOF
}

func (p *Parser) advance() token.Token {
	tok := p.cur()
	if !p.atEnd() {
		p.prevPos = tok.Pos
		p.pos++
	}
	return tok
}

func (p *Parser) check(kind token.Kind) bool {
	return p.cur().Kind == kind
}

func (p *Parser) match(kind token.Kind) bool {
	if p.check(kind) {
		p.advance()
		return true
	}
	return false
}

// expect consumes the current token if it matches kind, else records an
// "expected X, found Y" error and does not advance, so the caller's own
// error recovery (usually synchronize) takes over.
func (p *Parser) expect(kind token.Kind, what string) (token.Token, bool) {
	return p.expectKind(diagnostics.KindUnexpectedToken, kind, what)
}

// expectDelim is expect for a structural delimiter (colon, paren, bracket,
// brace), tagged with the more specific missing-delimiter error kind.
func (p *Parser) expectDelim(kind token.Kind, what string) (token.Token, bool) {
	return p.expectKind(diagnostics.KindMissingDelimiter, kind, what)
}

func (p *Parser) expectKind(errKind diagnostics.Kind, kind token.Kind, what string) (token.Token, bool) {
	if p.check(kind) {
		return p.advance(), true
	}
	p.errorf(errKind, p.cur().Pos, "expected %s, found %s", what, p.describe(p.cur()))
	return token.Token{}, false
}

func (p *Parser) describe(t token.Token) string {
	if t.Kind == token.IDENT || t.Kind == token.STRING {
		return fmt.Sprintf("%s %q", t.Kind, t.Lexeme)
	}
	return t.Kind.String()
}

// errorf records a parse error unless the parser is already in a panic
// episode (one mistake should not cascade into dozens).
func (p *Parser) errorf(kind diagnostics.Kind, pos token.Position, format string, args ...interface{}) {
	if p.panicking {
		return
	}
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	suggestion := ""
	if p.stmtStart.Kind == token.IDENT {
		if s, ok := diagnostics.SuggestKeyword(p.stmtStart.Lexeme); ok {
			suggestion = s
		}
	}
	if suggestion == "" && p.cur().Kind == token.IDENT && p.peek().Kind == token.COLON {
		if s, ok := diagnostics.SuggestKeyword(p.cur().Lexeme); ok {
			suggestion = s
		}
	}
	p.errors = append(p.errors, diagnostics.ParseError(kind, pos, msg, suggestion))
	p.panicking = true
}

// synchronize implements panic-mode recovery: advance until a statement
// boundary (Newline at this level, Dedent, EOF, or a statement-start
// keyword) is reached, then clear the panic flag so the next statement is
// reported normally again.
func (p *Parser) synchronize() {
	for !p.atEnd() {
		if p.cur().Kind == token.NEWLINE {
			p.advance()
			p.panicking = false
			return
		}
		if p.cur().Kind == token.DEDENT {
			p.panicking = false
			return
		}
		if syncKeywords[p.cur().Kind] {
			p.panicking = false
			return
		}
		p.advance()
	}
	p.panicking = false
}

func (p *Parser) enter() bool {
	p.depth++
	if p.depth > maxDepth {
		p.errorf(diagnostics.KindMaxNestingDepthExceeded, p.cur().Pos, "expression or block nesting exceeds %d levels", maxDepth)
		return false
	}
	return true
}

func (p *Parser) leave() {
	p.depth--
}

func (p *Parser) curPrecedence() int {
	if pr, ok := precedences[p.cur().Kind]; ok {
		return pr
	}
	return LOWEST
}

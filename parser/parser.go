// Package parser implements a Ruby parser using Pratt parsing.
//
// The source is lexed completely before parsing starts. Parsing stops at
// the first syntax error, which is returned as a *diag.SyntaxError.
package parser

import (
	"strings"

	"github.com/alexisbouchez/rbparse/ast"
	"github.com/alexisbouchez/rbparse/diag"
	"github.com/alexisbouchez/rbparse/lexer"
	"github.com/alexisbouchez/rbparse/token"
)

// DefaultMaxDepth bounds the nesting of expressions.
const DefaultMaxDepth = 500

type (
	prefixParseFn func() ast.Node
	infixParseFn  func(ast.Node) ast.Node
)

// Option configures a Parser.
type Option func(*Parser)

// WithMaxDepth sets the maximum expression nesting. Values below 1 keep
// the default.
func WithMaxDepth(n int) Option {
	return func(p *Parser) {
		if n > 0 {
			p.maxDepth = n
		}
	}
}

// Parser holds the state of the parser
type Parser struct {
	src    string
	lexed  []token.Token
	tokens []token.Token
	index  int
	file   string
	// lineStarts holds the byte offset of every line in src.
	lineStarts []int

	maxDepth int
	depth    int

	locals *scope

	// noDo is non-zero while parsing a loop condition, where do belongs to
	// the loop rather than to a call.
	noDo int
	// inMlhs is set while parsing the targets of a multiple assignment.
	inMlhs bool
	// interpolation counts the #{} segments being parsed.
	interpolation int
}

// bailout carries a syntax error out of the recursive descent.
type bailout struct {
	err error
}

// New lexes src and returns a parser for it. file is only used in
// positions and messages.
func New(src, file string, opts ...Option) *Parser {
	tokens, _ := lexer.Tokenize(src, file)
	p := &Parser{
		src:        src,
		lexed:      tokens,
		tokens:     tokens,
		file:       file,
		lineStarts: []int{0},
		maxDepth:   DefaultMaxDepth,
	}
	for i := range len(src) {
		if src[i] == '\n' {
			p.lineStarts = append(p.lineStarts, i+1)
		}
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse parses src in one step.
func Parse(src, file string, opts ...Option) (*ast.Block, error) {
	return New(src, file, opts...).Tree()
}

// Tree parses the whole source unit and returns its top-level statements.
// Calling it again parses the source again from the start.
func (p *Parser) Tree() (program *ast.Block, err error) {
	p.index, p.depth, p.noDo, p.inMlhs, p.interpolation = 0, 0, 0, false, 0
	p.tokens = p.lexed
	p.locals = newScope(nil)

	defer func() {
		if r := recover(); r != nil {
			b, ok := r.(bailout)
			if !ok {
				panic(r)
			}
			program, err = nil, b.err
		}
	}()

	p.validate()
	program = p.parseBody()
	if !p.currentIs(token.EOF) {
		p.raiseUnexpected(p.current(), "end-of-input")
	}
	return program, nil
}

func (p *Parser) fail(err error) {
	panic(bailout{err: err})
}

// validate fails on a token that carries a lexing error.
func (p *Parser) validate() {
	if err := p.current().Validate(); err != nil {
		p.fail(err)
	}
}

func (p *Parser) raiseUnexpected(tok token.Token, expected string) {
	file := displayFile(tok.File)
	if tok.Type == token.EOF {
		p.fail(diag.New(diag.UnexpectedEnd, tok.File, tok.Line, tok.Column,
			"%s#%d: syntax error, unexpected end-of-input (expected: '%s')", file, tok.Line+1, expected))
	}
	value, err := tok.TypeValue()
	if err != nil {
		p.fail(err)
	}
	p.fail(diag.New(diag.UnexpectedToken, tok.File, tok.Line, tok.Column,
		"%s#%d: syntax error, unexpected '%s' (expected: '%s')", file, tok.Line+1, value, expected))
}

func (p *Parser) current() token.Token {
	return p.tokens[p.index]
}

func (p *Parser) peek() token.Token {
	if p.index+1 < len(p.tokens) {
		return p.tokens[p.index+1]
	}
	return p.tokens[len(p.tokens)-1]
}

// relexAfterLocal lexes the rest of the source again when the lexer read a
// spaced / % or << after the current identifier as the start of a literal.
// The identifier is a local variable, so `a /2` divides and `a <<b` shifts.
// Segments inside #{} are left alone.
func (p *Parser) relexAfterLocal() {
	next := p.peek()
	if p.interpolation > 0 || !next.WhitespacePrecedes || next.Type == token.EOF || next.Type.IsOperator() {
		return
	}
	if next.Line >= len(p.lineStarts) {
		return
	}
	offset := p.lineStarts[next.Line] + next.Column
	if offset >= len(p.src) || strings.IndexByte("/%<", p.src[offset]) < 0 {
		return
	}
	rest, _ := lexer.Resume(p.src, p.file, offset, next.Line, next.Column)
	p.tokens = append(p.tokens[:p.index+1:p.index+1], rest...)
}

func (p *Parser) currentIs(t token.Type) bool {
	return p.current().Type == t
}

func (p *Parser) advance() {
	if p.index < len(p.tokens)-1 {
		p.index++
	}
	p.validate()
}

// expect consumes a token of type t or fails naming what was expected.
func (p *Parser) expect(t token.Type, expected string) token.Token {
	tok := p.current()
	if tok.Type != t {
		p.raiseUnexpected(tok, expected)
	}
	p.advance()
	return tok
}

func (p *Parser) skipNewlines() {
	for p.currentIs(token.NEWLINE) {
		p.advance()
	}
}

// nextExpression moves past the current token to the start of the next
// expression.
func (p *Parser) nextExpression() {
	p.advance()
	p.skipNewlines()
}

// resetNoDo clears the loop-condition state inside brackets and returns
// the function that restores it.
func (p *Parser) resetNoDo() (restore func()) {
	saved := p.noDo
	p.noDo = 0
	return func() { p.noDo = saved }
}

func (p *Parser) parseExpression(precedence Precedence) ast.Node {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > p.maxDepth {
		tok := p.current()
		p.fail(diag.New(diag.NestingTooDeep, tok.File, tok.Line, tok.Column,
			"%s#%d: syntax error, nesting too deep (limit %d)", displayFile(tok.File), tok.Line+1, p.maxDepth))
	}

	p.skipNewlines()
	prefix := p.nullDenotation(p.current())
	if prefix == nil {
		p.raiseUnexpected(p.current(), "expression")
	}
	return p.continueExpression(prefix(), precedence)
}

// continueExpression applies infix rules to left while they bind tighter
// than precedence.
func (p *Parser) continueExpression(left ast.Node, precedence Precedence) ast.Node {
	for {
		tok := p.current()
		if p.precedenceOf(tok, left) <= precedence {
			return left
		}
		infix := p.leftDenotation(tok, left)
		if infix == nil {
			return left
		}
		left = infix(left)
	}
}

func displayFile(file string) string {
	if file == "" {
		return "(unknown)"
	}
	return file
}

func (p *Parser) nullDenotation(tok token.Token) prefixParseFn {
	switch tok.Type {
	case token.INTEGER:
		return p.parseIntegerLiteral
	case token.FLOAT:
		return p.parseFloatLiteral
	case token.STRING:
		return p.parseStringLiteral
	case token.XSTRING:
		return p.parseXStringLiteral
	case token.DSTRING_BEGIN, token.DXSTRING_BEGIN, token.DREGEXP_BEGIN:
		return p.parseInterpolated
	case token.REGEXP:
		return p.parseRegexpLiteral
	case token.SYMBOL:
		return p.parseSymbolLiteral
	case token.PERCENT_LOWER_W, token.PERCENT_UPPER_W, token.PERCENT_LOWER_I, token.PERCENT_UPPER_I:
		return p.parseWordArray
	case token.IDENT:
		return p.parseIdentifier
	case token.CONSTANT:
		return p.parseConstant
	case token.IVAR, token.CVAR, token.GVAR, token.BACK_REF:
		return p.parseVariable
	case token.NTH_REF:
		return p.parseNthRef
	case token.KEYWORD_NIL, token.KEYWORD_TRUE, token.KEYWORD_FALSE, token.KEYWORD_SELF,
		token.KEYWORD_REDO, token.KEYWORD_RETRY:
		return p.parseKeywordLiteral
	case token.KEYWORD___FILE__, token.KEYWORD___LINE__, token.KEYWORD___ENCODING__:
		return p.parseSourceKeyword
	case token.BANG, token.MINUS, token.PLUS, token.TILDE:
		return p.parsePrefixExpression
	case token.KEYWORD_NOT:
		return p.parseNotExpression
	case token.STAR:
		return p.parseSplatExpression
	case token.STAR_STAR:
		return p.parseDoubleSplatExpression
	case token.AMPERSAND:
		return p.parseBlockPass
	case token.COLON_COLON:
		return p.parseTopLevelConstant
	case token.DOT_DOT, token.DOT_DOT_DOT:
		return p.parseBeginlessRange
	case token.LPAREN:
		return p.parseGroupedExpression
	case token.LBRACKET:
		return p.parseArrayLiteral
	case token.LBRACE:
		return p.parseHashLiteral
	case token.MINUS_GREATER:
		return p.parseLambda
	case token.KEYWORD_DEFINED:
		return p.parseDefinedExpression
	case token.KEYWORD_IF:
		return p.parseIfExpression
	case token.KEYWORD_UNLESS:
		return p.parseUnlessExpression
	case token.KEYWORD_WHILE, token.KEYWORD_UNTIL:
		return p.parseWhileExpression
	case token.KEYWORD_FOR:
		return p.parseForExpression
	case token.KEYWORD_CASE:
		return p.parseCaseExpression
	case token.KEYWORD_BEGIN:
		return p.parseBeginExpression
	case token.KEYWORD_BEGIN_UPCASE, token.KEYWORD_END_UPCASE:
		return p.parseHookBlock
	case token.KEYWORD_DEF:
		return p.parseMethodDefinition
	case token.KEYWORD_CLASS:
		return p.parseClassDefinition
	case token.KEYWORD_MODULE:
		return p.parseModuleDefinition
	case token.KEYWORD_RETURN, token.KEYWORD_BREAK, token.KEYWORD_NEXT:
		return p.parseJump
	case token.KEYWORD_YIELD:
		return p.parseYieldExpression
	case token.KEYWORD_SUPER:
		return p.parseSuperExpression
	case token.KEYWORD_ALIAS:
		return p.parseAlias
	case token.KEYWORD_UNDEF:
		return p.parseUndef
	}
	return nil
}

func (p *Parser) leftDenotation(tok token.Token, left ast.Node) infixParseFn {
	switch tok.Type {
	case token.PLUS, token.MINUS, token.STAR, token.SLASH, token.PERCENT, token.STAR_STAR,
		token.LESS_LESS, token.GREATER_GREATER, token.AMPERSAND, token.PIPE, token.CARET,
		token.LESS, token.LESS_EQUAL, token.GREATER, token.GREATER_EQUAL,
		token.EQUAL_EQUAL, token.EQUAL_EQUAL_EQUAL, token.BANG_EQUAL, token.LESS_EQUAL_GREATER,
		token.EQUAL_TILDE, token.BANG_TILDE:
		return p.parseInfixExpression
	case token.INTEGER, token.FLOAT:
		return p.parseSignedNumber
	case token.AMPERSAND_AMPERSAND, token.PIPE_PIPE, token.KEYWORD_AND, token.KEYWORD_OR:
		return p.parseLogicalExpression
	case token.QUESTION:
		return p.parseTernaryExpression
	case token.DOT_DOT, token.DOT_DOT_DOT:
		return p.parseRangeExpression
	case token.KEYWORD_IF, token.KEYWORD_UNLESS:
		return p.parseModifierIf
	case token.KEYWORD_WHILE, token.KEYWORD_UNTIL:
		return p.parseModifierWhile
	case token.KEYWORD_RESCUE:
		return p.parseRescueModifier
	case token.DOT, token.AMPERSAND_DOT:
		return p.parseMethodCall
	case token.COLON_COLON:
		return p.parseScopedConstant
	case token.LBRACKET:
		return p.parseIndexExpression
	case token.LBRACE:
		return p.parseBraceBlock
	case token.KEYWORD_DO:
		return p.parseDoBlock
	case token.EQUAL:
		return p.parseAssignment
	case token.PLUS_EQUAL, token.MINUS_EQUAL, token.STAR_EQUAL, token.SLASH_EQUAL, token.PERCENT_EQUAL,
		token.STAR_STAR_EQUAL, token.AMPERSAND_EQUAL, token.PIPE_EQUAL, token.CARET_EQUAL,
		token.LESS_LESS_EQUAL, token.GREATER_GREATER_EQUAL, token.PIPE_PIPE_EQUAL,
		token.AMPERSAND_AMPERSAND_EQUAL:
		return p.parseOpAssignment
	}
	return nil
}

// parseBody parses statements until EOF or one of the terminators, which
// is left unconsumed. Statements are separated by newlines or semicolons.
func (p *Parser) parseBody(terminators ...token.Type) *ast.Block {
	block := &ast.Block{Token: p.current()}
	for {
		p.skipSeparators()
		if p.currentIs(token.EOF) || p.atTerminator(terminators) {
			return block
		}
		block.Statements = append(block.Statements, p.parseStatement())

		switch tok := p.current(); {
		case tok.Type == token.NEWLINE, tok.Type == token.SEMICOLON, tok.Type == token.EOF:
		case p.atTerminator(terminators):
		default:
			p.raiseUnexpected(tok, "end-of-line")
		}
	}
}

func (p *Parser) skipSeparators() {
	for p.currentIs(token.NEWLINE) || p.currentIs(token.SEMICOLON) {
		p.advance()
	}
}

func (p *Parser) atTerminator(terminators []token.Type) bool {
	t := p.current().Type
	for _, terminator := range terminators {
		if t == terminator {
			return true
		}
	}
	return false
}

// atValueEnd reports whether the current token ends an optional value,
// as after a bare return.
func (p *Parser) atValueEnd() bool {
	t := p.current().Type
	if t.IsEndOfExpression() || t.IsClosingToken() || t.IsTerminator() {
		return true
	}
	switch t {
	case token.KEYWORD_THEN, token.KEYWORD_DO, token.KEYWORD_AND, token.KEYWORD_OR,
		token.COLON, token.COMMA, token.EMBEXPR_END:
		return true
	}
	return false
}

// parseStatement parses one expression and the multiple-assignment forms
// that only make sense at statement level.
func (p *Parser) parseStatement() ast.Node {
	expr := p.parseExpression(LOWEST)

	switch {
	case isMlhsTarget(expr) && (p.currentIs(token.COMMA) || p.currentIs(token.EQUAL)):
		ma := p.parseMlhs(expr)
		if p.currentIs(token.RPAREN) {
			return ma
		}
		p.expect(token.EQUAL, "=")
		p.skipNewlines()
		expr = p.parseMlhsValue(ma)
	case p.currentIs(token.COMMA):
		a, ok := expr.(*ast.Assignment)
		if !ok {
			return expr
		}
		expr = p.parseAssignmentList(a)
	default:
		return expr
	}
	return p.continueExpression(expr, LOWEST)
}

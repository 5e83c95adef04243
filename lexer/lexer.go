// Package lexer implements a Ruby lexer.
package lexer

import (
	"errors"
	"strings"

	"github.com/alexisbouchez/rbparse/diag"
	"github.com/alexisbouchez/rbparse/token"
)

// Option configures a Lexer.
type Option func(*Lexer)

// WithComments keeps COMMENT tokens in the output.
func WithComments(keep bool) Option {
	return func(l *Lexer) {
		l.keepComments = keep
	}
}

// Lexer turns one source unit into a materialized token slice.
type Lexer struct {
	input        string
	file         string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	limit        int  // end of the region being lexed
	ch           byte // current char under examination
	line         int
	column       int

	tokens      []token.Token
	diagnostics []*diag.SyntaxError
	done        bool

	// prev stands in for the last token before any token is emitted.
	prev token.Type

	keepComments bool

	// pendingWS is set when whitespace was skipped before the next token.
	pendingWS bool

	// ternaryDepth counts ? tokens still waiting for their :.
	ternaryDepth int

	// Interpolated code stops at the } matching its #{.
	stopAtBrace bool
	braceDepth  int
	stopped     bool

	// Where lexing continues after the newline that ends a heredoc header line.
	heredocResume     int
	heredocResumeLine int
}

// New creates a new Lexer for src. The file name is only used for positions.
func New(src, file string, opts ...Option) *Lexer {
	l := newLexer(src, file, 0, len(src), 0, 0)
	for _, opt := range opts {
		opt(l)
	}
	l.skipLineStartDirectives()
	return l
}

// Tokenize lexes src and returns its tokens, terminated by exactly one EOF,
// together with the errors carried by INVALID and UNTERMINATED_* tokens.
func Tokenize(src, file string, opts ...Option) ([]token.Token, []*diag.SyntaxError) {
	return New(src, file, opts...).Tokens()
}

// Resume lexes src from offset, which is at line and column, as if an
// operand had just ended there: / % and << read as binary operators. The
// first token is marked as preceded by whitespace.
func Resume(src, file string, offset, line, column int, opts ...Option) ([]token.Token, []*diag.SyntaxError) {
	l := newLexer(src, file, offset, len(src), line, column)
	l.prev = token.IDENT
	for _, opt := range opts {
		opt(l)
	}
	tokens, diagnostics := l.Tokens()
	tokens[0].WhitespacePrecedes = true
	return tokens, diagnostics
}

func newLexer(input, file string, start, limit, line, column int) *Lexer {
	l := &Lexer{
		input:  input,
		file:   file,
		limit:  limit,
		line:   line,
		column: column,
		prev:   token.NEWLINE,
	}
	l.position = start
	l.readPosition = start + 1
	l.ch = l.charAt(start)
	return l
}

// sub creates a lexer over input[start:limit] sharing this lexer's source.
func (l *Lexer) sub(start, limit, line, column int) *Lexer {
	s := newLexer(l.input, l.file, start, limit, line, column)
	s.keepComments = l.keepComments
	return s
}

// Tokens lexes the whole input. Calling it again returns the same slice.
// Lexing stops at the first error-bearing token, which is followed by EOF.
func (l *Lexer) Tokens() ([]token.Token, []*diag.SyntaxError) {
	for !l.done {
		l.lexToken()
	}
	return l.tokens, l.diagnostics
}

func (l *Lexer) charAt(i int) byte {
	if i < 0 || i >= l.limit {
		return 0
	}
	return l.input[i]
}

func (l *Lexer) atEnd() bool {
	return l.position >= l.limit
}

func (l *Lexer) readChar() {
	if l.atEnd() {
		return
	}
	if l.ch == '\n' {
		l.line++
		l.column = 0
	} else {
		l.column++
	}
	l.position = l.readPosition
	l.readPosition++
	l.ch = l.charAt(l.position)
}

func (l *Lexer) peekChar() byte {
	return l.charAt(l.readPosition)
}

func (l *Lexer) peekCharN(n int) byte {
	return l.charAt(l.position + n)
}

func (l *Lexer) seek(position, line, column int) {
	l.position = position
	l.readPosition = position + 1
	l.line = line
	l.column = column
	l.ch = l.charAt(position)
}

func (l *Lexer) lastType() token.Type {
	if len(l.tokens) == 0 {
		return l.prev
	}
	return l.tokens[len(l.tokens)-1].Type
}

// expectsOperand reports whether the next token starts an operand rather
// than continuing one, e.g. after an operator, a keyword or an open bracket.
func (l *Lexer) expectsOperand() bool {
	return !l.lastType().IsOperand()
}

// spacedArg reports whether the current char starts the first argument of
// a paren-less call: `foo -1`, `puts /re/`, `foo *args`.
func (l *Lexer) spacedArg() bool {
	return l.lastType() == token.IDENT && l.pendingWS && !isSpace(l.peekChar())
}

func (l *Lexer) emit(tok token.Token) {
	tok.WhitespacePrecedes = l.pendingWS
	l.pendingWS = false

	switch {
	case tok.Type == token.NEWLINE:
		last := l.lastType()
		if len(l.tokens) == 0 || last == token.NEWLINE || last == token.SEMICOLON || last.CanPrecedeCollapsibleNewline() {
			return
		}
	case tok.Type.CanFollowCollapsibleNewline():
		for len(l.tokens) > 0 && l.tokens[len(l.tokens)-1].Type == token.NEWLINE {
			l.tokens = l.tokens[:len(l.tokens)-1]
		}
	}

	switch tok.Type {
	case token.QUESTION:
		l.ternaryDepth++
	case token.COLON:
		if l.ternaryDepth > 0 {
			l.ternaryDepth--
		}
	}

	l.append(tok)
}

// append adds a token without newline collapsing or whitespace tracking.
func (l *Lexer) append(tok token.Token) {
	tok.File = l.file
	if err := tok.Validate(); err != nil {
		var se *diag.SyntaxError
		if errors.As(err, &se) {
			l.diagnostics = append(l.diagnostics, se)
		}
	}
	l.tokens = append(l.tokens, tok)
}

// absorb appends the tokens of a sub-lexer that ran over part of the input.
func (l *Lexer) absorb(sub *Lexer) {
	for _, tok := range sub.tokens {
		if tok.Type == token.EOF {
			continue
		}
		l.tokens = append(l.tokens, tok)
	}
	l.diagnostics = append(l.diagnostics, sub.diagnostics...)
	if len(sub.diagnostics) > 0 {
		l.finish()
	}
}

func (l *Lexer) emitType(typ token.Type, line, column int) {
	l.emit(token.Token{Type: typ, Line: line, Column: column})
}

func (l *Lexer) emitLiteral(typ token.Type, literal string, line, column int) {
	l.emit(token.Token{Type: typ, Literal: literal, Line: line, Column: column})
}

// fail emits an error-bearing token followed by EOF and stops lexing.
func (l *Lexer) fail(typ token.Type, literal string, line, column int) {
	l.emitLiteral(typ, literal, line, column)
	l.finish()
}

func (l *Lexer) finish() {
	l.emit(token.Token{Type: token.EOF, Line: l.line, Column: l.column})
	l.done = true
}

func (l *Lexer) skipWhitespace() {
	for !l.atEnd() {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\f' || l.ch == '\v':
			l.readChar()
		case l.ch == '\\' && l.peekChar() == '\n':
			l.readChar()
			l.readChar()
		case l.ch == '\\' && l.peekChar() == '\r' && l.peekCharN(2) == '\n':
			l.readChar()
			l.readChar()
			l.readChar()
		default:
			return
		}
		l.pendingWS = true
	}
}

// lexToken emits the tokens for the next lexical unit.
func (l *Lexer) lexToken() {
	l.skipWhitespace()

	line, column := l.line, l.column
	if l.atEnd() {
		l.finish()
		return
	}

	switch l.ch {
	case '\n':
		l.readChar()
		if l.heredocResume > 0 {
			l.seek(l.heredocResume, l.heredocResumeLine, 0)
			l.heredocResume = 0
		}
		l.emitType(token.NEWLINE, line, column)
		if l.column == 0 {
			l.skipLineStartDirectives()
		}
	case '#':
		start := l.position
		for !l.atEnd() && l.ch != '\n' {
			l.readChar()
		}
		if l.keepComments {
			l.emitLiteral(token.COMMENT, l.input[start:l.position], line, column)
		}
	case ';':
		l.readChar()
		l.emitType(token.SEMICOLON, line, column)
	case ',':
		l.readChar()
		l.emitType(token.COMMA, line, column)
	case '(':
		l.readChar()
		l.emitType(token.LPAREN, line, column)
	case ')':
		l.readChar()
		l.emitType(token.RPAREN, line, column)
	case '[':
		if l.lexOperatorMethodName(line, column) {
			return
		}
		l.readChar()
		l.emitType(token.LBRACKET, line, column)
	case ']':
		l.readChar()
		l.emitType(token.RBRACKET, line, column)
	case '{':
		l.braceDepth++
		l.readChar()
		l.emitType(token.LBRACE, line, column)
	case '}':
		if l.stopAtBrace && l.braceDepth == 0 {
			l.stopped = true
			l.done = true
			return
		}
		l.braceDepth--
		l.readChar()
		l.emitType(token.RBRACE, line, column)
	case '"':
		l.readChar()
		l.lexQuoted(doubleQuoted('"'), line, column)
	case '\'':
		l.readChar()
		l.lexQuoted(singleQuoted('\''), line, column)
	case '`':
		if l.lexOperatorMethodName(line, column) {
			return
		}
		l.readChar()
		l.lexQuoted(backtick('`'), line, column)
	case '@':
		l.lexInstanceOrClassVariable(line, column)
	case '$':
		l.lexGlobalVariable(line, column)
	case ':':
		l.lexColon(line, column)
	case '?':
		l.lexQuestion(line, column)
	case '.':
		switch {
		case l.peekChar() == '.' && l.peekCharN(2) == '.':
			l.readChar()
			l.readChar()
			l.readChar()
			l.emitType(token.DOT_DOT_DOT, line, column)
		case l.peekChar() == '.':
			l.readChar()
			l.readChar()
			l.emitType(token.DOT_DOT, line, column)
		default:
			l.readChar()
			l.emitType(token.DOT, line, column)
		}
	case '/':
		if l.lexOperatorMethodName(line, column) {
			return
		}
		if l.expectsOperand() || l.spacedArg() && l.peekChar() != '=' {
			l.readChar()
			l.lexQuoted(regexpQuote('/'), line, column)
			return
		}
		l.lexOperator(line, column)
	case '%':
		if l.lexOperatorMethodName(line, column) {
			return
		}
		if (l.expectsOperand() || l.spacedArg()) && l.isPercentLiteral() {
			l.lexPercentLiteral(line, column)
			return
		}
		l.lexOperator(line, column)
	case '<':
		if l.lexOperatorMethodName(line, column) {
			return
		}
		if l.peekChar() == '<' && l.isHeredocStart() {
			l.lexHeredoc(line, column)
			return
		}
		l.lexOperator(line, column)
	case '-', '+':
		if l.lexOperatorMethodName(line, column) {
			return
		}
		if isDigit(l.peekChar()) && (l.expectsOperand() || l.pendingWS && l.lastType() == token.IDENT) {
			sign := l.ch
			l.readChar()
			l.lexNumber(sign, line, column)
			return
		}
		l.lexOperator(line, column)
	default:
		switch {
		case isDigit(l.ch):
			l.lexNumber(0, line, column)
		case isIdentStart(l.ch):
			l.lexIdentifier(line, column)
		case l.lexOperatorMethodName(line, column):
		case strings.IndexByte("*&|^~!=>", l.ch) >= 0:
			l.lexOperator(line, column)
		default:
			l.fail(token.INVALID, l.invalidLiteral(), line, column)
		}
	}
}

// skipLineStartDirectives handles =begin/=end blocks and __END__, which are
// only recognized at the start of a line.
func (l *Lexer) skipLineStartDirectives() {
	for l.hasPrefix("=begin") && l.isWordBoundary(len("=begin")) {
		for {
			l.skipLine()
			if l.atEnd() {
				return
			}
			if l.hasPrefix("=end") && l.isWordBoundary(len("=end")) {
				l.skipLine()
				break
			}
		}
	}
	if l.hasPrefix("__END__") {
		rest := l.position + len("__END__")
		if rest >= l.limit || l.input[rest] == '\n' || l.input[rest] == '\r' {
			l.seek(l.limit, l.line, 0)
		}
	}
}

func (l *Lexer) skipLine() {
	for !l.atEnd() && l.ch != '\n' {
		l.readChar()
	}
	l.readChar()
}

func (l *Lexer) hasPrefix(s string) bool {
	return strings.HasPrefix(l.input[l.position:l.limit], s)
}

func (l *Lexer) isWordBoundary(offset int) bool {
	ch := l.peekCharN(offset)
	return ch == 0 || isSpace(ch) || ch == '\n'
}

func (l *Lexer) invalidLiteral() string {
	end := l.position + 1
	for end < l.limit && end-l.position < 4 && l.input[end]&0xC0 == 0x80 {
		end++
	}
	return l.input[l.position:end]
}

// operators is ordered so that longer spellings are tried first.
var operators = []struct {
	text string
	typ  token.Type
}{
	{"**=", token.STAR_STAR_EQUAL},
	{"<=>", token.LESS_EQUAL_GREATER},
	{"===", token.EQUAL_EQUAL_EQUAL},
	{"<<=", token.LESS_LESS_EQUAL},
	{">>=", token.GREATER_GREATER_EQUAL},
	{"&&=", token.AMPERSAND_AMPERSAND_EQUAL},
	{"||=", token.PIPE_PIPE_EQUAL},
	{"**", token.STAR_STAR},
	{"*=", token.STAR_EQUAL},
	{"==", token.EQUAL_EQUAL},
	{"=~", token.EQUAL_TILDE},
	{"=>", token.EQUAL_GREATER},
	{"!=", token.BANG_EQUAL},
	{"!~", token.BANG_TILDE},
	{"<=", token.LESS_EQUAL},
	{">=", token.GREATER_EQUAL},
	{"<<", token.LESS_LESS},
	{">>", token.GREATER_GREATER},
	{"&&", token.AMPERSAND_AMPERSAND},
	{"&.", token.AMPERSAND_DOT},
	{"&=", token.AMPERSAND_EQUAL},
	{"||", token.PIPE_PIPE},
	{"|=", token.PIPE_EQUAL},
	{"^=", token.CARET_EQUAL},
	{"+=", token.PLUS_EQUAL},
	{"-=", token.MINUS_EQUAL},
	{"->", token.MINUS_GREATER},
	{"/=", token.SLASH_EQUAL},
	{"%=", token.PERCENT_EQUAL},
	{"*", token.STAR},
	{"=", token.EQUAL},
	{"!", token.BANG},
	{"<", token.LESS},
	{">", token.GREATER},
	{"&", token.AMPERSAND},
	{"|", token.PIPE},
	{"^", token.CARET},
	{"~", token.TILDE},
	{"+", token.PLUS},
	{"-", token.MINUS},
	{"/", token.SLASH},
	{"%", token.PERCENT},
}

func (l *Lexer) lexOperator(line, column int) {
	for _, op := range operators {
		if l.hasPrefix(op.text) {
			for range op.text {
				l.readChar()
			}
			l.emitType(op.typ, line, column)
			return
		}
	}
	l.fail(token.INVALID, l.invalidLiteral(), line, column)
}

// operatorMethodNames are the operators that can be defined or called as
// methods, longest first.
var operatorMethodNames = []string{
	"[]=", "===", "<=>", "[]", "==", "=~", "!=", "!~", "<=", ">=", "<<", ">>", "**",
	"+@", "-@", "!@", "~@", "+", "-", "*", "/", "%", "<", ">", "!", "~", "&", "|", "^", "`",
}

// lexOperatorMethodName lexes an operator spelled after def or a dot as an
// IDENT method name, e.g. `def <=>(other)` or `a.+(b)`.
func (l *Lexer) lexOperatorMethodName(line, column int) bool {
	last := l.lastType()
	if last != token.KEYWORD_DEF && last != token.DOT && last != token.AMPERSAND_DOT {
		return false
	}
	for _, name := range operatorMethodNames {
		if !l.hasPrefix(name) {
			continue
		}
		next := l.peekCharN(len(name))
		if next != 0 && next != '(' && next != ';' && next != '\n' && !isSpace(next) {
			continue
		}
		for range name {
			l.readChar()
		}
		l.emitLiteral(token.IDENT, name, line, column)
		return true
	}
	return false
}

func (l *Lexer) lexIdentifier(line, column int) {
	start := l.position
	for isIdentChar(l.ch) {
		l.readChar()
	}

	// Check for method names ending in ? or !
	if (l.ch == '?' || l.ch == '!') && l.peekChar() != '=' {
		l.readChar()
	}

	literal := l.input[start:l.position]
	last := l.lastType()

	// Check for labels (identifier followed by : but not ::)
	if l.ch == ':' && l.peekChar() != ':' && l.ternaryDepth == 0 && !last.CanPrecedeMethodName() {
		l.readChar()
		l.emitLiteral(token.LABEL, literal, line, column)
		return
	}

	if last.CanPrecedeMethodName() {
		typ := token.IDENT
		if isUpper(literal[0]) {
			typ = token.CONSTANT
		}
		if last == token.KEYWORD_DEF && l.ch == '.' {
			// def self.foo, def obj.foo: the receiver keeps its own type
			typ = token.LookupIdent(literal)
		} else if l.isSetterName() {
			l.readChar()
			literal += "="
			typ = token.IDENT
		}
		l.emitLiteral(typ, literal, line, column)
		return
	}

	l.emitLiteral(token.LookupIdent(literal), literal, line, column)
}

// isSetterName reports whether the identifier just read is the name of a
// setter method being defined: `def name=(value)`, `def self.name=(value)`.
func (l *Lexer) isSetterName() bool {
	if l.ch != '=' || strings.IndexByte("=~>", l.peekChar()) >= 0 {
		return false
	}
	n := len(l.tokens)
	switch {
	case n >= 1 && l.tokens[n-1].Type == token.KEYWORD_DEF:
		return true
	case n >= 3 && l.tokens[n-1].Type == token.DOT && l.tokens[n-3].Type == token.KEYWORD_DEF:
		return true
	}
	return false
}

func (l *Lexer) lexInstanceOrClassVariable(line, column int) {
	start := l.position
	l.readChar() // consume @
	typ := token.IVAR
	if l.ch == '@' {
		typ = token.CVAR
		l.readChar()
	}
	if !isIdentStart(l.ch) {
		l.fail(token.INVALID, l.input[start:l.position], line, column)
		return
	}
	for isIdentChar(l.ch) {
		l.readChar()
	}
	l.emitLiteral(typ, l.input[start:l.position], line, column)
}

func (l *Lexer) lexGlobalVariable(line, column int) {
	start := l.position
	l.readChar() // consume $

	switch {
	case isDigit(l.ch) && l.ch != '0':
		// Check for nth reference ($1, $2, etc.)
		for isDigit(l.ch) {
			l.readChar()
		}
		l.emitLiteral(token.NTH_REF, l.input[start:l.position], line, column)
	case l.ch == '&' || l.ch == '`' || l.ch == '\'' || l.ch == '+':
		// Check for back reference ($&, $`, $', $+)
		l.readChar()
		l.emitLiteral(token.BACK_REF, l.input[start:l.position], line, column)
	case l.ch == '-' && isIdentChar(l.peekChar()):
		// Check for special global variables with dash ($-w, etc.)
		l.readChar()
		l.readChar()
		l.emitLiteral(token.GVAR, l.input[start:l.position], line, column)
	case isIdentStart(l.ch):
		for isIdentChar(l.ch) {
			l.readChar()
		}
		l.emitLiteral(token.GVAR, l.input[start:l.position], line, column)
	case strings.IndexByte("~*$?!@/\\;,.=:<>\"0_", l.ch) >= 0 && !l.atEnd():
		// Check for punctuation globals ($:, $;, $/, etc.)
		l.readChar()
		l.emitLiteral(token.GVAR, l.input[start:l.position], line, column)
	default:
		l.fail(token.INVALID, "$", line, column)
	}
}

// symbolOperators are the operator method names allowed after a colon.
var symbolOperators = []string{
	"[]=", "===", "<=>", "[]", "==", "=~", "!=", "!~", "<=", ">=", "<<", ">>", "**",
	"+@", "-@", "+", "-", "*", "/", "%", "<", ">", "!", "~", "&", "|", "^",
}

func (l *Lexer) lexColon(line, column int) {
	next := l.peekChar()
	switch {
	case next == ':':
		l.readChar()
		l.readChar()
		l.emitType(token.COLON_COLON, line, column)
		return
	case l.ternaryDepth > 0 && (l.lastType().IsOperand() || isSpace(next) || next == '\n' || next == 0):
		l.readChar()
		l.emitType(token.COLON, line, column)
		return
	case next == '"':
		l.readChar()
		l.readChar()
		q := doubleQuoted('"')
		q.interpolate, q.labelable = false, false
		q.plain = token.SYMBOL
		l.lexQuoted(q, line, column)
		return
	case next == '\'':
		l.readChar()
		l.readChar()
		q := singleQuoted('\'')
		q.plain, q.labelable = token.SYMBOL, false
		l.lexQuoted(q, line, column)
		return
	case isIdentStart(next) || next == '@' || next == '$':
		l.readChar()
		start := l.position
		if l.ch == '$' {
			l.readChar()
			if !isIdentStart(l.ch) {
				l.readChar()
			}
		}
		for l.ch == '@' && l.position-start < 2 {
			l.readChar()
		}
		for isIdentChar(l.ch) {
			l.readChar()
		}
		if l.ch == '?' || l.ch == '!' || l.ch == '=' && strings.IndexByte("=~>", l.peekChar()) < 0 {
			l.readChar()
		}
		l.emitLiteral(token.SYMBOL, l.input[start:l.position], line, column)
		return
	}

	for _, op := range symbolOperators {
		if strings.HasPrefix(l.input[l.readPosition:l.limit], op) {
			l.readChar()
			for range op {
				l.readChar()
			}
			l.emitLiteral(token.SYMBOL, op, line, column)
			return
		}
	}

	l.readChar()
	l.emitType(token.COLON, line, column)
}

func (l *Lexer) lexQuestion(line, column int) {
	next := l.peekChar()
	if l.expectsOperand() && next != 0 && !isSpace(next) && next != '\n' {
		if next == '\\' || !isIdentChar(next) || !isIdentChar(l.peekCharN(2)) {
			l.readChar() // consume ?
			var buf strings.Builder
			if l.ch == '\\' {
				l.readEscape(&buf, doubleQuoted('"'))
			} else {
				start := l.position
				l.readChar()
				for !l.atEnd() && l.ch&0xC0 == 0x80 {
					l.readChar()
				}
				buf.WriteString(l.input[start:l.position])
			}
			l.emit(token.Token{Type: token.STRING, Literal: buf.String(), DoubleQuoted: true, Line: line, Column: column})
			return
		}
	}
	l.readChar()
	l.emitType(token.QUESTION, line, column)
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\r' || ch == '\f' || ch == '\v'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func isUpper(ch byte) bool {
	return 'A' <= ch && ch <= 'Z'
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z'
}

// isIdentStart accepts ASCII letters, underscore and any non-ASCII byte.
func isIdentStart(ch byte) bool {
	return isLetter(ch) || ch == '_' || ch >= 0x80
}

func isIdentChar(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}

package lexer

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/alexisbouchez/rbparse/token"
)

type escapeMode int

const (
	escapeRaw    escapeMode = iota // backslashes are ordinary characters
	escapeSingle                   // only \\ and escaped delimiters
	escapeFull                     // double-quoted escapes
	escapeRegexp                   // kept verbatim except an escaped delimiter
)

// quoteSpec describes one kind of quoted literal.
type quoteSpec struct {
	open, close byte // close is 0 for heredoc bodies, which run to the limit
	interpolate bool
	escape      escapeMode
	plain       token.Type // emitted when nothing is interpolated
	begin, end  token.Type // emitted around interpolated segments
	labelable   bool       // "foo": may become a LABEL
	regexp      bool       // reads trailing options
	dedent      int        // leading whitespace stripped from each line
}

func doubleQuoted(close byte) quoteSpec {
	return quoteSpec{
		open: close, close: close, interpolate: true, escape: escapeFull,
		plain: token.STRING, begin: token.DSTRING_BEGIN, end: token.DSTRING_END,
		labelable: close == '"',
	}
}

func singleQuoted(close byte) quoteSpec {
	return quoteSpec{
		open: close, close: close, escape: escapeSingle,
		plain: token.STRING, labelable: close == '\'',
	}
}

func backtick(close byte) quoteSpec {
	return quoteSpec{
		open: close, close: close, interpolate: true, escape: escapeFull,
		plain: token.XSTRING, begin: token.DXSTRING_BEGIN, end: token.DXSTRING_END,
	}
}

func regexpQuote(close byte) quoteSpec {
	return quoteSpec{
		open: close, close: close, interpolate: true, escape: escapeRegexp,
		plain: token.REGEXP, begin: token.DREGEXP_BEGIN, end: token.DREGEXP_END,
		regexp: true,
	}
}

// withDelimiters returns q for a percent literal opened by open.
func (q quoteSpec) withDelimiters(open byte) quoteSpec {
	q.open, q.close = open, closingDelimiter(open)
	q.labelable = false
	return q
}

func closingDelimiter(open byte) byte {
	switch open {
	case '(':
		return ')'
	case '[':
		return ']'
	case '{':
		return '}'
	case '<':
		return '>'
	}
	return open
}

// lexQuoted lexes the body of a quoted literal whose opening delimiter has
// already been consumed. line and column locate the opening delimiter.
func (l *Lexer) lexQuoted(q quoteSpec, line, column int) {
	start := l.position
	var (
		parts        []token.Token
		buf          strings.Builder
		segLine      = l.line
		segColumn    = l.column
		interpolated bool
		depth        int
		lineStart    = q.dedent > 0
	)

	flush := func() {
		if buf.Len() == 0 {
			return
		}
		parts = append(parts, token.Token{
			Type:         token.STRING,
			Literal:      buf.String(),
			DoubleQuoted: q.escape == escapeFull,
			Line:         segLine,
			Column:       segColumn,
		})
		buf.Reset()
	}
	mark := func() {
		if buf.Len() == 0 {
			segLine, segColumn = l.line, l.column
		}
	}

loop:
	for {
		if l.atEnd() {
			if q.close == 0 {
				break
			}
			l.unterminated(q, start, line, column)
			return
		}

		if lineStart {
			lineStart = false
			for n := 0; n < q.dedent && (l.ch == ' ' || l.ch == '\t'); n++ {
				l.readChar()
			}
			continue
		}

		switch {
		case q.close != 0 && l.ch == q.close && depth == 0:
			l.readChar()
			break loop
		case q.close != 0 && l.ch == q.close:
			depth--
		case q.open != q.close && l.ch == q.open:
			depth++
		case l.ch == '\\' && q.escape != escapeRaw:
			mark()
			l.readEscape(&buf, q)
			continue
		case q.interpolate && l.ch == '#' && l.peekChar() == '{':
			flush()
			interpolated = true
			if !l.lexEmbeddedCode(&parts, q, start, line, column) {
				return
			}
			continue
		case q.interpolate && l.ch == '#' && l.isEmbeddedVariable():
			flush()
			interpolated = true
			l.lexEmbeddedVariable(&parts)
			continue
		}

		mark()
		if l.ch == '\n' && q.dedent > 0 {
			lineStart = true
		}
		buf.WriteByte(l.ch)
		l.readChar()
	}

	var options string
	if q.regexp {
		optStart := l.position
		for strings.IndexByte("imxounse", l.ch) >= 0 && !l.atEnd() {
			l.readChar()
		}
		options = l.input[optStart:l.position]
	}

	if !interpolated {
		typ := q.plain
		if q.labelable && l.ch == ':' && l.peekChar() != ':' && l.ternaryDepth == 0 {
			l.readChar()
			typ = token.LABEL
		}
		l.emit(token.Token{
			Type:         typ,
			Literal:      buf.String(),
			Options:      options,
			DoubleQuoted: q.escape == escapeFull && typ == token.STRING,
			Line:         line,
			Column:       column,
		})
		return
	}

	flush()
	l.emitType(q.begin, line, column)
	for _, part := range parts {
		l.append(part)
	}
	l.append(token.Token{Type: q.end, Options: options, Line: l.line, Column: l.column})
}

func (l *Lexer) unterminated(q quoteSpec, start, line, column int) {
	typ := token.UNTERMINATED_STRING
	if q.regexp {
		typ = token.UNTERMINATED_REGEXP
	}
	l.fail(typ, l.input[start:l.position], line, column)
}

// lexEmbeddedCode lexes #{...} into parts. It reports false when lexing
// had to stop.
func (l *Lexer) lexEmbeddedCode(parts *[]token.Token, q quoteSpec, start, line, column int) bool {
	*parts = append(*parts, token.Token{Type: token.EMBEXPR_BEGIN, Line: l.line, Column: l.column})
	l.readChar() // #
	l.readChar() // {

	sub := l.sub(l.position, l.limit, l.line, l.column)
	sub.stopAtBrace = true
	toks, diags := sub.Tokens()
	if len(diags) > 0 {
		for _, part := range *parts {
			l.append(part)
		}
		l.absorb(sub)
		return false
	}
	if !sub.stopped {
		l.seek(sub.position, sub.line, sub.column)
		l.unterminated(q, start, line, column)
		return false
	}

	for len(toks) > 0 && toks[len(toks)-1].Type == token.NEWLINE {
		toks = toks[:len(toks)-1]
	}
	*parts = append(*parts, toks...)
	l.seek(sub.position, sub.line, sub.column)
	*parts = append(*parts, token.Token{Type: token.EMBEXPR_END, Line: l.line, Column: l.column})
	l.readChar() // }
	return true
}

// isEmbeddedVariable reports whether # starts "#@ivar", "#@@cvar" or "#$gvar".
func (l *Lexer) isEmbeddedVariable() bool {
	switch l.peekChar() {
	case '@':
		if l.peekCharN(2) == '@' {
			return isIdentStart(l.peekCharN(3))
		}
		return isIdentStart(l.peekCharN(2))
	case '$':
		return isIdentStart(l.peekCharN(2))
	}
	return false
}

func (l *Lexer) lexEmbeddedVariable(parts *[]token.Token) {
	*parts = append(*parts, token.Token{Type: token.EMBEXPR_BEGIN, Line: l.line, Column: l.column})
	l.readChar() // #
	line, column, start := l.line, l.column, l.position
	typ := token.GVAR
	if l.ch == '@' {
		typ = token.IVAR
		l.readChar()
		if l.ch == '@' {
			typ = token.CVAR
			l.readChar()
		}
	} else {
		l.readChar()
	}
	for isIdentChar(l.ch) {
		l.readChar()
	}
	*parts = append(*parts,
		token.Token{Type: typ, Literal: l.input[start:l.position], Line: line, Column: column},
		token.Token{Type: token.EMBEXPR_END, Line: l.line, Column: l.column},
	)
}

// readEscape consumes a backslash sequence and writes its value to buf.
func (l *Lexer) readEscape(buf *strings.Builder, q quoteSpec) {
	l.readChar() // consume backslash
	if l.atEnd() {
		buf.WriteByte('\\')
		return
	}
	ch := l.ch

	switch q.escape {
	case escapeSingle:
		if ch != '\\' && ch != q.close && ch != q.open {
			buf.WriteByte('\\')
		}
		buf.WriteByte(ch)
		l.readChar()
		return
	case escapeRegexp:
		if ch != q.close || ch == 0 {
			buf.WriteByte('\\')
		}
		buf.WriteByte(ch)
		l.readChar()
		return
	}

	l.readChar()
	switch ch {
	case 'n':
		buf.WriteByte('\n')
	case 't':
		buf.WriteByte('\t')
	case 'r':
		buf.WriteByte('\r')
	case 's':
		buf.WriteByte(' ')
	case 'e':
		buf.WriteByte(0x1b)
	case 'a':
		buf.WriteByte(0x07)
	case 'b':
		buf.WriteByte(0x08)
	case 'f':
		buf.WriteByte(0x0c)
	case 'v':
		buf.WriteByte(0x0b)
	case '\n':
		// line continuation
	case '0', '1', '2', '3', '4', '5', '6', '7':
		n := int(ch - '0')
		for i := 0; i < 2 && l.ch >= '0' && l.ch <= '7'; i++ {
			n = n*8 + int(l.ch-'0')
			l.readChar()
		}
		buf.WriteByte(byte(n))
	case 'x':
		n, digits := 0, 0
		for digits < 2 && isHexDigit(l.ch) {
			n = n*16 + hexValue(l.ch)
			digits++
			l.readChar()
		}
		if digits == 0 {
			buf.WriteByte('x')
			return
		}
		buf.WriteByte(byte(n))
	case 'u':
		l.readUnicodeEscape(buf)
	default:
		buf.WriteByte(ch)
	}
}

// readUnicodeEscape reads \uXXXX or \u{X...} after the u.
func (l *Lexer) readUnicodeEscape(buf *strings.Builder) {
	if l.ch != '{' {
		start := l.position
		for l.position-start < 4 && isHexDigit(l.ch) {
			l.readChar()
		}
		writeCodepoint(buf, l.input[start:l.position])
		return
	}
	l.readChar() // {
	for !l.atEnd() && l.ch != '}' {
		if l.ch == ' ' || l.ch == '\t' {
			l.readChar()
			continue
		}
		start := l.position
		for isHexDigit(l.ch) {
			l.readChar()
		}
		if start == l.position {
			break
		}
		writeCodepoint(buf, l.input[start:l.position])
	}
	if l.ch == '}' {
		l.readChar()
	}
}

func writeCodepoint(buf *strings.Builder, hex string) {
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil || !utf8.ValidRune(rune(n)) {
		buf.WriteRune(utf8.RuneError)
		return
	}
	buf.WriteRune(rune(n))
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || 'a' <= ch && ch <= 'f' || 'A' <= ch && ch <= 'F'
}

func hexValue(ch byte) int {
	switch {
	case isDigit(ch):
		return int(ch - '0')
	case 'a' <= ch && ch <= 'f':
		return int(ch-'a') + 10
	}
	return int(ch-'A') + 10
}

// isPercentLiteral reports whether % starts a literal such as %w[a b] or %(str).
func (l *Lexer) isPercentLiteral() bool {
	next := l.peekChar()
	if strings.IndexByte("wWiIqQrxs", next) >= 0 {
		return isPercentDelimiter(l.peekCharN(2))
	}
	return isPercentDelimiter(next)
}

func isPercentDelimiter(ch byte) bool {
	return ch != 0 && strings.IndexByte("([{<|!/^~@#$&*-+.,;:?'\"`", ch) >= 0
}

func (l *Lexer) lexPercentLiteral(line, column int) {
	l.readChar() // %
	kind := byte('Q')
	if isLetter(l.ch) {
		kind = l.ch
		l.readChar()
	}
	open := l.ch
	l.readChar()

	switch kind {
	case 'w', 'W', 'i', 'I':
		l.lexPercentWords(kind, open, line, column)
	case 'q':
		l.lexQuoted(singleQuoted(open).withDelimiters(open), line, column)
	case 'Q':
		l.lexQuoted(doubleQuoted(open).withDelimiters(open), line, column)
	case 'r':
		l.lexQuoted(regexpQuote(open).withDelimiters(open), line, column)
	case 'x':
		l.lexQuoted(backtick(open).withDelimiters(open), line, column)
	case 's':
		q := singleQuoted(open).withDelimiters(open)
		q.plain = token.SYMBOL
		l.lexQuoted(q, line, column)
	}
}

var percentWordTypes = map[byte]token.Type{
	'w': token.PERCENT_LOWER_W,
	'W': token.PERCENT_UPPER_W,
	'i': token.PERCENT_LOWER_I,
	'I': token.PERCENT_UPPER_I,
}

// lexPercentWords keeps the raw body; the parser splits it into words.
func (l *Lexer) lexPercentWords(kind, open byte, line, column int) {
	close := closingDelimiter(open)
	start := l.position
	depth := 0
	for {
		if l.atEnd() {
			l.fail(token.UNTERMINATED_STRING, l.input[start:l.position], line, column)
			return
		}
		switch {
		case l.ch == '\\':
			l.readChar()
		case l.ch == close && depth == 0:
			body := l.input[start:l.position]
			l.readChar()
			l.emitLiteral(percentWordTypes[kind], body, line, column)
			return
		case l.ch == close:
			depth--
		case l.ch == open && open != close:
			depth++
		}
		l.readChar()
	}
}

// isHeredocStart reports whether << starts a heredoc: <<ID, <<-ID, <<~ID
// or a quoted identifier.
func (l *Lexer) isHeredocStart() bool {
	operand := l.expectsOperand()
	if !operand && !l.spacedArg() {
		return false
	}
	i := 2
	if c := l.peekCharN(i); c == '-' || c == '~' {
		i++
	}
	c := l.peekCharN(i)
	if c == '"' || c == '\'' || c == '`' {
		return true
	}
	if operand {
		return isIdentStart(c)
	}
	return isUpper(c) || c == '_'
}

func (l *Lexer) lexHeredoc(line, column int) {
	l.readChar() // <
	l.readChar() // <
	indented, squiggly := false, false
	switch l.ch {
	case '-':
		indented = true
		l.readChar()
	case '~':
		indented, squiggly = true, true
		l.readChar()
	}

	var quote byte
	var id string
	if l.ch == '"' || l.ch == '\'' || l.ch == '`' {
		quote = l.ch
		l.readChar()
		start := l.position
		for !l.atEnd() && l.ch != quote && l.ch != '\n' {
			l.readChar()
		}
		if l.ch != quote {
			l.fail(token.UNTERMINATED_STRING, l.input[start:l.position], line, column)
			return
		}
		id = l.input[start:l.position]
		l.readChar()
	} else {
		start := l.position
		for isIdentChar(l.ch) {
			l.readChar()
		}
		id = l.input[start:l.position]
	}

	bodyStart, bodyLine := l.heredocResume, l.heredocResumeLine
	if bodyStart == 0 {
		nl := strings.IndexByte(l.input[l.position:l.limit], '\n')
		if nl < 0 {
			l.fail(token.UNTERMINATED_STRING, id, line, column)
			return
		}
		bodyStart, bodyLine = l.position+nl+1, l.line+1
	}

	bodyEnd, resume, resumeLine := -1, 0, bodyLine
	for pos := bodyStart; pos < l.limit; {
		end := strings.IndexByte(l.input[pos:l.limit], '\n')
		next := l.limit
		if end < 0 {
			end = l.limit
		} else {
			end += pos
			next = end + 1
		}
		text := strings.TrimRight(l.input[pos:end], "\r")
		if indented {
			text = strings.TrimLeft(text, " \t")
		}
		if text == id {
			bodyEnd, resume, resumeLine = pos, next, resumeLine+1
			break
		}
		pos = next
		resumeLine++
	}
	if bodyEnd < 0 {
		l.fail(token.UNTERMINATED_STRING, id, line, column)
		return
	}

	var q quoteSpec
	switch quote {
	case '\'':
		q = quoteSpec{escape: escapeRaw, plain: token.STRING}
	case '`':
		q = backtick(0)
	default:
		q = doubleQuoted(0)
	}
	q.open, q.close, q.labelable = 0, 0, false
	if squiggly {
		q.dedent = heredocIndent(l.input[bodyStart:bodyEnd])
	}

	sub := l.sub(bodyStart, bodyEnd, bodyLine, 0)
	sub.pendingWS = l.pendingWS
	l.pendingWS = false
	sub.lexQuoted(q, line, column)
	l.absorb(sub)

	l.heredocResume, l.heredocResumeLine = resume, resumeLine
}

// heredocIndent returns the smallest indentation of the non-blank lines.
func heredocIndent(body string) int {
	indent := -1
	for _, text := range strings.SplitAfter(body, "\n") {
		n := 0
		for n < len(text) && (text[n] == ' ' || text[n] == '\t') {
			n++
		}
		if n == len(text) || text[n] == '\n' || text[n] == '\r' {
			continue
		}
		if indent < 0 || n < indent {
			indent = n
		}
	}
	if indent < 0 {
		return 0
	}
	return indent
}

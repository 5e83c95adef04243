package lexer

import (
	"strconv"
	"strings"

	"github.com/alexisbouchez/rbparse/token"
)

// lexNumber lexes an integer or float literal. sign is '-' or '+' when a
// sign was already consumed and folded into the literal, 0 otherwise.
func (l *Lexer) lexNumber(sign byte, line, column int) {
	start := l.position
	base := 10
	prefixed := false

	if l.ch == '0' {
		switch l.peekChar() {
		case 'x', 'X':
			base, prefixed = 16, true
		case 'b', 'B':
			base, prefixed = 2, true
		case 'o', 'O':
			base, prefixed = 8, true
		case 'd', 'D':
			base, prefixed = 10, true
		case '_', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
			base = 8
		}
	}

	var digits string
	isFloat := false
	switch {
	case prefixed:
		l.readChar()
		l.readChar()
		digitStart := l.position
		for isHexDigit(l.ch) || l.ch == '_' {
			l.readChar()
		}
		digits = l.input[digitStart:l.position]
	case base == 8:
		l.readChar()
		digitStart := l.position
		for isDigit(l.ch) || l.ch == '_' {
			l.readChar()
		}
		digits = l.input[digitStart:l.position]
	default:
		for isDigit(l.ch) || l.ch == '_' {
			l.readChar()
		}
		// Check for decimal part
		if l.ch == '.' && isDigit(l.peekChar()) {
			isFloat = true
			l.readChar()
			for isDigit(l.ch) || l.ch == '_' {
				l.readChar()
			}
		}
		// Check for exponent
		if (l.ch == 'e' || l.ch == 'E') && (isDigit(l.peekChar()) ||
			(l.peekChar() == '+' || l.peekChar() == '-') && isDigit(l.peekCharN(2))) {
			isFloat = true
			l.readChar()
			if l.ch == '+' || l.ch == '-' {
				l.readChar()
			}
			for isDigit(l.ch) {
				l.readChar()
			}
		}
		digits = l.input[start:l.position]
	}

	raw := l.input[start:l.position]
	if sign != 0 {
		raw = string(sign) + raw
	}
	if !validUnderscores(digits) {
		l.fail(token.INVALID, raw, line, column)
		return
	}
	// The magnitude is parsed on its own, so it must fit an int64 whatever
	// the sign.
	text := strings.ReplaceAll(digits, "_", "")
	negative := sign == '-'

	tok := token.Token{Line: line, Column: column, HasSign: sign != 0, Negative: negative}
	if isFloat {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			l.fail(token.INVALID, raw, line, column)
			return
		}
		if negative {
			f = -f
		}
		tok.Type, tok.Double = token.FLOAT, f
	} else {
		n, err := strconv.ParseInt(text, base, 64)
		if err != nil {
			l.fail(token.INVALID, raw, line, column)
			return
		}
		if negative {
			n = -n
		}
		tok.Type, tok.Integer = token.INTEGER, n
	}
	l.emit(tok)
}

// validUnderscores rejects empty digit runs and misplaced underscores.
func validUnderscores(digits string) bool {
	if digits == "" {
		return false
	}
	return digits[0] != '_' && digits[len(digits)-1] != '_' && !strings.Contains(digits, "__")
}

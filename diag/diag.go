// Package diag defines the syntax error value produced by the lexer and parser
// and renders it against the offending source.
package diag

import (
	"errors"
	"fmt"
)

// Reason classifies a syntax error.
type Reason int

const (
	// InvalidToken means the lexer could not classify the input.
	InvalidToken Reason = iota + 1
	// UnterminatedString means a string opener was never closed.
	UnterminatedString
	// UnterminatedRegexp means a regexp opener was never closed.
	UnterminatedRegexp
	// UnexpectedToken means the parser needed a different token.
	UnexpectedToken
	// UnexpectedEnd means the parser ran into the end of input.
	UnexpectedEnd
	// NestingTooDeep means the expression nesting bound was exceeded.
	NestingTooDeep
)

var reasonNames = map[Reason]string{
	InvalidToken:       "invalid token",
	UnterminatedString: "unterminated string",
	UnterminatedRegexp: "unterminated regexp",
	UnexpectedToken:    "unexpected token",
	UnexpectedEnd:      "unexpected end of input",
	NestingTooDeep:     "nesting too deep",
}

func (r Reason) String() string {
	if name, ok := reasonNames[r]; ok {
		return name
	}
	return "syntax error"
}

// SyntaxError is the single error kind returned by lexing and parsing.
// Line is 1-based, Column is 0-based.
type SyntaxError struct {
	Reason  Reason
	Message string
	File    string
	Line    int
	Column  int
}

func (e *SyntaxError) Error() string {
	return e.Message
}

// Position formats the location as file:line:column.
func (e *SyntaxError) Position() string {
	file := e.File
	if file == "" {
		file = "(unknown)"
	}
	return fmt.Sprintf("%s:%d:%d", file, e.Line, e.Column)
}

// New builds a SyntaxError from a 0-based token line.
func New(reason Reason, file string, line, column int, format string, args ...any) *SyntaxError {
	return &SyntaxError{
		Reason:  reason,
		Message: fmt.Sprintf(format, args...),
		File:    file,
		Line:    line + 1,
		Column:  column,
	}
}

// IsIncomplete reports whether err means more input could complete the
// source: an unexpected end of input or an unterminated literal.
func IsIncomplete(err error) bool {
	var se *SyntaxError
	if !errors.As(err, &se) {
		return false
	}
	switch se.Reason {
	case UnexpectedEnd, UnterminatedString, UnterminatedRegexp:
		return true
	}
	return false
}

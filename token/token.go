// Package token defines Ruby lexer token types and utilities.
package token

import (
	"fmt"

	"github.com/alexisbouchez/rbparse/diag"
)

// Type represents the type of a token.
type Type int

const (
	// Special tokens
	INVALID Type = iota
	UNTERMINATED_STRING
	UNTERMINATED_REGEXP
	EOF
	NEWLINE
	COMMENT

	// Identifiers and literals
	IDENT           // foo, foo?, bar!
	CONSTANT        // Foo, BAR
	IVAR            // @foo
	CVAR            // @@foo
	GVAR            // $foo
	NTH_REF         // $1, $2, etc.
	BACK_REF        // $&, $`, $', $+
	LABEL           // foo:
	SYMBOL          // :foo
	INTEGER         // 42, 0x2A, 0o52, 0b101010, 1_000
	FLOAT           // 3.14, 1.0e10
	STRING          // 'foo', "bar", ?c, heredoc bodies
	REGEXP          // /foo/i
	XSTRING         // `ls`
	PERCENT_LOWER_W // %w[]
	PERCENT_UPPER_W // %W[]
	PERCENT_LOWER_I // %i[]
	PERCENT_UPPER_I // %I[]

	// Interpolation
	DSTRING_BEGIN  // opening of "a#{b}"
	DSTRING_END    // closing of "a#{b}"
	EMBEXPR_BEGIN  // #{
	EMBEXPR_END    // } closing interpolation
	DREGEXP_BEGIN  // opening of /a#{b}/
	DREGEXP_END    // closing of /a#{b}/, carries options
	DXSTRING_BEGIN // opening of `a#{b}`
	DXSTRING_END   // closing of `a#{b}`

	// Keywords
	keyword_beg
	KEYWORD___ENCODING__
	KEYWORD___FILE__
	KEYWORD___LINE__
	KEYWORD_ALIAS
	KEYWORD_AND
	KEYWORD_BEGIN
	KEYWORD_BEGIN_UPCASE // BEGIN { }
	KEYWORD_BREAK
	KEYWORD_CASE
	KEYWORD_CLASS
	KEYWORD_DEF
	KEYWORD_DEFINED
	KEYWORD_DO
	KEYWORD_ELSE
	KEYWORD_ELSIF
	KEYWORD_END
	KEYWORD_END_UPCASE // END { }
	KEYWORD_ENSURE
	KEYWORD_FALSE
	KEYWORD_FOR
	KEYWORD_IF
	KEYWORD_IN
	KEYWORD_MODULE
	KEYWORD_NEXT
	KEYWORD_NIL
	KEYWORD_NOT
	KEYWORD_OR
	KEYWORD_REDO
	KEYWORD_RESCUE
	KEYWORD_RETRY
	KEYWORD_RETURN
	KEYWORD_SELF
	KEYWORD_SUPER
	KEYWORD_THEN
	KEYWORD_TRUE
	KEYWORD_UNDEF
	KEYWORD_UNLESS
	KEYWORD_UNTIL
	KEYWORD_WHEN
	KEYWORD_WHILE
	KEYWORD_YIELD
	keyword_end

	// Operators
	AMPERSAND                 // &
	AMPERSAND_AMPERSAND       // &&
	AMPERSAND_AMPERSAND_EQUAL // &&=
	AMPERSAND_DOT             // &.
	AMPERSAND_EQUAL           // &=
	BANG                      // !
	BANG_EQUAL                // !=
	BANG_TILDE                // !~
	CARET                     // ^
	CARET_EQUAL               // ^=
	COLON                     // : (ternary)
	COLON_COLON               // ::
	COMMA                     // ,
	DOT                       // .
	DOT_DOT                   // ..
	DOT_DOT_DOT               // ...
	EQUAL                     // =
	EQUAL_EQUAL               // ==
	EQUAL_EQUAL_EQUAL         // ===
	EQUAL_GREATER             // =>
	EQUAL_TILDE               // =~
	GREATER                   // >
	GREATER_EQUAL             // >=
	GREATER_GREATER           // >>
	GREATER_GREATER_EQUAL     // >>=
	LESS                      // <
	LESS_EQUAL                // <=
	LESS_EQUAL_GREATER        // <=>
	LESS_LESS                 // <<
	LESS_LESS_EQUAL           // <<=
	MINUS                     // -
	MINUS_EQUAL               // -=
	MINUS_GREATER             // ->
	PERCENT                   // %
	PERCENT_EQUAL             // %=
	PIPE                      // |
	PIPE_EQUAL                // |=
	PIPE_PIPE                 // ||
	PIPE_PIPE_EQUAL           // ||=
	PLUS                      // +
	PLUS_EQUAL                // +=
	QUESTION                  // ? (ternary)
	SEMICOLON                 // ;
	SLASH                     // /
	SLASH_EQUAL               // /=
	STAR                      // *
	STAR_EQUAL                // *=
	STAR_STAR                 // **
	STAR_STAR_EQUAL           // **=
	TILDE                     // ~

	// Brackets and delimiters
	LPAREN   // (
	RPAREN   // )
	LBRACKET // [
	RBRACKET // ]
	LBRACE   // {
	RBRACE   // }

	typeCount
)

// typeValues holds the canonical display spelling of every type. The
// deferred-error types have a descriptive name here but no TypeValue.
var typeValues = [typeCount]string{
	INVALID:             "invalid",
	UNTERMINATED_STRING: "unterminated string",
	UNTERMINATED_REGEXP: "unterminated regexp",
	EOF:                 "EOF",
	NEWLINE:             "\n",
	COMMENT:             "comment",

	IDENT:           "name",
	CONSTANT:        "constant",
	IVAR:            "ivar",
	CVAR:            "cvar",
	GVAR:            "gvar",
	NTH_REF:         "nth_ref",
	BACK_REF:        "back_ref",
	LABEL:           "symbol_key",
	SYMBOL:          "symbol",
	INTEGER:         "integer",
	FLOAT:           "float",
	STRING:          "string",
	REGEXP:          "regexp",
	XSTRING:         "xstr",
	PERCENT_LOWER_W: "%w",
	PERCENT_UPPER_W: "%W",
	PERCENT_LOWER_I: "%i",
	PERCENT_UPPER_I: "%I",

	DSTRING_BEGIN:  "dstr",
	DSTRING_END:    "dstrend",
	EMBEXPR_BEGIN:  "evstr",
	EMBEXPR_END:    "evstrend",
	DREGEXP_BEGIN:  "dregx",
	DREGEXP_END:    "dregxend",
	DXSTRING_BEGIN: "dxstr",
	DXSTRING_END:   "dxstrend",

	keyword_beg:          "keyword_beg",
	KEYWORD___ENCODING__: "__ENCODING__",
	KEYWORD___FILE__:     "__FILE__",
	KEYWORD___LINE__:     "__LINE__",
	KEYWORD_ALIAS:        "alias",
	KEYWORD_AND:          "and",
	KEYWORD_BEGIN:        "begin",
	KEYWORD_BEGIN_UPCASE: "BEGIN",
	KEYWORD_BREAK:        "break",
	KEYWORD_CASE:         "case",
	KEYWORD_CLASS:        "class",
	KEYWORD_DEF:          "def",
	KEYWORD_DEFINED:      "defined?",
	KEYWORD_DO:           "do",
	KEYWORD_ELSE:         "else",
	KEYWORD_ELSIF:        "elsif",
	KEYWORD_END:          "end",
	KEYWORD_END_UPCASE:   "END",
	KEYWORD_ENSURE:       "ensure",
	KEYWORD_FALSE:        "false",
	KEYWORD_FOR:          "for",
	KEYWORD_IF:           "if",
	KEYWORD_IN:           "in",
	KEYWORD_MODULE:       "module",
	KEYWORD_NEXT:         "next",
	KEYWORD_NIL:          "nil",
	KEYWORD_NOT:          "not",
	KEYWORD_OR:           "or",
	KEYWORD_REDO:         "redo",
	KEYWORD_RESCUE:       "rescue",
	KEYWORD_RETRY:        "retry",
	KEYWORD_RETURN:       "return",
	KEYWORD_SELF:         "self",
	KEYWORD_SUPER:        "super",
	KEYWORD_THEN:         "then",
	KEYWORD_TRUE:         "true",
	KEYWORD_UNDEF:        "undef",
	KEYWORD_UNLESS:       "unless",
	KEYWORD_UNTIL:        "until",
	KEYWORD_WHEN:         "when",
	KEYWORD_WHILE:        "while",
	KEYWORD_YIELD:        "yield",
	keyword_end:          "keyword_end",

	AMPERSAND:                 "&",
	AMPERSAND_AMPERSAND:       "&&",
	AMPERSAND_AMPERSAND_EQUAL: "&&=",
	AMPERSAND_DOT:             "&.",
	AMPERSAND_EQUAL:           "&=",
	BANG:                      "!",
	BANG_EQUAL:                "!=",
	BANG_TILDE:                "!~",
	CARET:                     "^",
	CARET_EQUAL:               "^=",
	COLON:                     ":",
	COLON_COLON:               "::",
	COMMA:                     ",",
	DOT:                       ".",
	DOT_DOT:                   "..",
	DOT_DOT_DOT:               "...",
	EQUAL:                     "=",
	EQUAL_EQUAL:               "==",
	EQUAL_EQUAL_EQUAL:         "===",
	EQUAL_GREATER:             "=>",
	EQUAL_TILDE:               "=~",
	GREATER:                   ">",
	GREATER_EQUAL:             ">=",
	GREATER_GREATER:           ">>",
	GREATER_GREATER_EQUAL:     ">>=",
	LESS:                      "<",
	LESS_EQUAL:                "<=",
	LESS_EQUAL_GREATER:        "<=>",
	LESS_LESS:                 "<<",
	LESS_LESS_EQUAL:           "<<=",
	MINUS:                     "-",
	MINUS_EQUAL:               "-=",
	MINUS_GREATER:             "->",
	PERCENT:                   "%",
	PERCENT_EQUAL:             "%=",
	PIPE:                      "|",
	PIPE_EQUAL:                "|=",
	PIPE_PIPE:                 "||",
	PIPE_PIPE_EQUAL:           "||=",
	PLUS:                      "+",
	PLUS_EQUAL:                "+=",
	QUESTION:                  "?",
	SEMICOLON:                 ";",
	SLASH:                     "/",
	SLASH_EQUAL:               "/=",
	STAR:                      "*",
	STAR_EQUAL:                "*=",
	STAR_STAR:                 "**",
	STAR_STAR_EQUAL:           "**=",
	TILDE:                     "~",

	LPAREN:   "(",
	RPAREN:   ")",
	LBRACKET: "[",
	RBRACKET: "]",
	LBRACE:   "{",
	RBRACE:   "}",
}

// byValue is the inverse of typeValues for the interchange format.
var byValue = func() map[string]Type {
	m := make(map[string]Type, typeCount)
	for t := Type(0); t < typeCount; t++ {
		if t == keyword_beg || t == keyword_end || t.IsDeferredError() {
			continue
		}
		m[typeValues[t]] = t
	}
	return m
}()

// String returns the canonical spelling of the token type.
func (t Type) String() string {
	if t >= 0 && t < typeCount {
		return typeValues[t]
	}
	return "UNKNOWN"
}

// TypeFromValue returns the type whose canonical spelling is value.
func TypeFromValue(value string) (Type, bool) {
	t, ok := byValue[value]
	return t, ok
}

// Token represents a lexical token. Line and Column are 0-based.
// Literal holds the text payload of literal-bearing types; Integer and
// Double hold numeric payloads instead.
type Token struct {
	Type    Type
	Literal string
	Integer int64
	Double  float64
	// Options holds regexp flags for REGEXP and DREGEXP_END.
	Options string

	File   string
	Line   int
	Column int

	// HasSign is set when a leading + or - was folded into a number.
	HasSign bool
	// Negative is set when the folded sign was a minus. It keeps the
	// direction of -0 and -0.0.
	Negative bool
	// WhitespacePrecedes is set when a space, tab or line continuation
	// separates this token from the previous one.
	WhitespacePrecedes bool
	// DoubleQuoted is set for strings with escape and interpolation semantics.
	DoubleQuoted bool
}

// Keywords maps keyword strings to their token types.
var Keywords = map[string]Type{
	"__ENCODING__": KEYWORD___ENCODING__,
	"__FILE__":     KEYWORD___FILE__,
	"__LINE__":     KEYWORD___LINE__,
	"alias":        KEYWORD_ALIAS,
	"and":          KEYWORD_AND,
	"begin":        KEYWORD_BEGIN,
	"BEGIN":        KEYWORD_BEGIN_UPCASE,
	"break":        KEYWORD_BREAK,
	"case":         KEYWORD_CASE,
	"class":        KEYWORD_CLASS,
	"def":          KEYWORD_DEF,
	"defined?":     KEYWORD_DEFINED,
	"do":           KEYWORD_DO,
	"else":         KEYWORD_ELSE,
	"elsif":        KEYWORD_ELSIF,
	"end":          KEYWORD_END,
	"END":          KEYWORD_END_UPCASE,
	"ensure":       KEYWORD_ENSURE,
	"false":        KEYWORD_FALSE,
	"for":          KEYWORD_FOR,
	"if":           KEYWORD_IF,
	"in":           KEYWORD_IN,
	"module":       KEYWORD_MODULE,
	"next":         KEYWORD_NEXT,
	"nil":          KEYWORD_NIL,
	"not":          KEYWORD_NOT,
	"or":           KEYWORD_OR,
	"redo":         KEYWORD_REDO,
	"rescue":       KEYWORD_RESCUE,
	"retry":        KEYWORD_RETRY,
	"return":       KEYWORD_RETURN,
	"self":         KEYWORD_SELF,
	"super":        KEYWORD_SUPER,
	"then":         KEYWORD_THEN,
	"true":         KEYWORD_TRUE,
	"undef":        KEYWORD_UNDEF,
	"unless":       KEYWORD_UNLESS,
	"until":        KEYWORD_UNTIL,
	"when":         KEYWORD_WHEN,
	"while":        KEYWORD_WHILE,
	"yield":        KEYWORD_YIELD,
}

// LookupIdent returns the token type for an identifier (keyword or ident/constant).
func LookupIdent(ident string) Type {
	if tok, ok := Keywords[ident]; ok {
		return tok
	}
	// Check if it's a constant (starts with uppercase)
	if len(ident) > 0 && ident[0] >= 'A' && ident[0] <= 'Z' {
		return CONSTANT
	}
	return IDENT
}

// IsKeyword returns true if the token type is a keyword.
func (t Type) IsKeyword() bool {
	return t > keyword_beg && t < keyword_end
}

// IsDeferredError returns true for the types that carry a lexing error.
func (t Type) IsDeferredError() bool {
	return t == INVALID || t == UNTERMINATED_STRING || t == UNTERMINATED_REGEXP
}

// TypeValue returns the canonical display spelling of the token type. For
// the deferred-error types it returns the lexing error instead.
func (t Token) TypeValue() (string, error) {
	switch t.Type {
	case INVALID:
		return "", diag.New(diag.InvalidToken, t.File, t.Line, t.Column,
			"%d: syntax error, unexpected '%s'", t.Line+1, t.Literal)
	case UNTERMINATED_REGEXP:
		return "", diag.New(diag.UnterminatedRegexp, t.File, t.Line, t.Column,
			"unterminated regexp meets end of file")
	case UNTERMINATED_STRING:
		return "", diag.New(diag.UnterminatedString, t.File, t.Line, t.Column,
			"unterminated string meets end of file at line %d and column %d: %s", t.Line, t.Column, t.Literal)
	}
	if t.Type < 0 || t.Type >= typeCount {
		return "", fmt.Errorf("token: unknown type %d", int(t.Type))
	}
	return typeValues[t.Type], nil
}

// Validate returns the lexing error carried by a deferred-error token.
func (t Token) Validate() error {
	_, err := t.TypeValue()
	return err
}

// String returns a debugging representation of the token.
func (t Token) String() string {
	switch t.Type {
	case INTEGER:
		return fmt.Sprintf("%s(%d) %d:%d", t.Type, t.Integer, t.Line, t.Column)
	case FLOAT:
		return fmt.Sprintf("%s(%g) %d:%d", t.Type, t.Double, t.Line, t.Column)
	}
	if t.Literal != "" {
		return fmt.Sprintf("%s(%q) %d:%d", t.Type, t.Literal, t.Line, t.Column)
	}
	return fmt.Sprintf("%q %d:%d", t.Type.String(), t.Line, t.Column)
}

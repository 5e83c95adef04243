package token

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/alexisbouchez/rbparse/diag"
	"github.com/alexisbouchez/rbparse/sexp"
)

func TestTypeValue(t *testing.T) {
	tests := []struct {
		typ      Type
		expected string
	}{
		{IDENT, "name"},
		{CONSTANT, "constant"},
		{LABEL, "symbol_key"},
		{NEWLINE, "\n"},
		{EOF, "EOF"},
		{DSTRING_BEGIN, "dstr"},
		{EMBEXPR_END, "evstrend"},
		{COLON, ":"},
		{QUESTION, "?"},
		{PERCENT_LOWER_W, "%w"},
		{PERCENT_UPPER_I, "%I"},
		{KEYWORD___ENCODING__, "__ENCODING__"},
		{KEYWORD_DEFINED, "defined?"},
		{LESS_EQUAL_GREATER, "<=>"},
		{PIPE_PIPE_EQUAL, "||="},
		{MINUS_GREATER, "->"},
	}

	for i, tt := range tests {
		got, err := Token{Type: tt.typ}.TypeValue()
		if err != nil {
			t.Fatalf("test[%d]: unexpected error %v", i, err)
		}
		if got != tt.expected {
			t.Fatalf("test[%d]: expected %q, got %q", i, tt.expected, got)
		}
	}
}

func TestEveryTypeHasSpelling(t *testing.T) {
	seen := make(map[string]Type)
	for typ := Type(0); typ < typeCount; typ++ {
		if typ == keyword_beg || typ == keyword_end {
			continue
		}
		spelling := typ.String()
		if spelling == "" {
			t.Fatalf("type %d has no spelling", int(typ))
		}
		if other, dup := seen[spelling]; dup {
			t.Fatalf("types %d and %d share spelling %q", int(other), int(typ), spelling)
		}
		seen[spelling] = typ
		if typ.IsDeferredError() {
			continue
		}
		back, ok := TypeFromValue(spelling)
		if !ok || back != typ {
			t.Fatalf("spelling %q does not map back to type %d", spelling, int(typ))
		}
	}
}

func TestDeferredErrors(t *testing.T) {
	tests := []struct {
		tok     Token
		reason  diag.Reason
		message string
		line    int
		column  int
	}{
		{
			Token{Type: INVALID, Literal: "\x01", File: "a.rb", Line: 2, Column: 3},
			diag.InvalidToken, "3: syntax error, unexpected '\x01'", 3, 3,
		},
		{
			Token{Type: UNTERMINATED_REGEXP, File: "a.rb"},
			diag.UnterminatedRegexp, "unterminated regexp meets end of file", 1, 0,
		},
		{
			Token{Type: UNTERMINATED_STRING, Literal: "abc", File: "a.rb", Line: 0, Column: 4},
			diag.UnterminatedString, "unterminated string meets end of file at line 0 and column 4: abc", 1, 4,
		},
	}

	for i, tt := range tests {
		for attempt := 0; attempt < 2; attempt++ {
			err := tt.tok.Validate()
			var se *diag.SyntaxError
			if !errors.As(err, &se) {
				t.Fatalf("test[%d]: expected *diag.SyntaxError, got %v", i, err)
			}
			if se.Reason != tt.reason || se.Message != tt.message {
				t.Fatalf("test[%d]: expected %v %q, got %v %q", i, tt.reason, tt.message, se.Reason, se.Message)
			}
			if se.File != "a.rb" || se.Line != tt.line || se.Column != tt.column {
				t.Fatalf("test[%d]: expected a.rb:%d:%d, got %s", i, tt.line, tt.column, se.Position())
			}
		}
	}

	if err := (Token{Type: PLUS}).Validate(); err != nil {
		t.Fatalf("valid token returned %v", err)
	}
}

func TestLookupIdent(t *testing.T) {
	tests := []struct {
		input    string
		expected Type
	}{
		{"foo", IDENT},
		{"Foo", CONSTANT},
		{"FOO", CONSTANT},
		{"_foo", IDENT},
		{"end", KEYWORD_END},
		{"END", KEYWORD_END_UPCASE},
		{"defined?", KEYWORD_DEFINED},
		{"__FILE__", KEYWORD___FILE__},
	}

	for i, tt := range tests {
		if got := LookupIdent(tt.input); got != tt.expected {
			t.Fatalf("test[%d]: expected %v, got %v", i, tt.expected, got)
		}
	}
}

func TestPredicates(t *testing.T) {
	if !COMMA.CanPrecedeCollapsibleNewline() || !PLUS.CanPrecedeCollapsibleNewline() || !LBRACKET.CanPrecedeCollapsibleNewline() {
		t.Fatalf("comma, plus and [ should precede collapsible newlines")
	}
	if IDENT.CanPrecedeCollapsibleNewline() || RPAREN.CanPrecedeCollapsibleNewline() {
		t.Fatalf("identifiers and ) should end statements")
	}
	if !RBRACKET.CanFollowCollapsibleNewline() || !COLON.CanFollowCollapsibleNewline() {
		t.Fatalf("] and : should follow collapsible newlines")
	}
	if !KEYWORD_IF.IsEndOfExpression() || !NEWLINE.IsEndOfExpression() || !EOF.IsEndOfExpression() {
		t.Fatalf("modifiers, newline and EOF end expressions")
	}
	if !KEYWORD_DEF.CanPrecedeMethodName() || !DOT.CanPrecedeMethodName() || PLUS.CanPrecedeMethodName() {
		t.Fatalf("unexpected CanPrecedeMethodName result")
	}
	if PIPE_PIPE_EQUAL.OpAssignOperator() != "||" || !PLUS_EQUAL.IsAssignmentOperator() || PLUS.IsOpAssign() {
		t.Fatalf("unexpected op-assign classification")
	}
	if !KEYWORD_WHEN.IsTerminator() || KEYWORD_IF.IsTerminator() {
		t.Fatalf("unexpected body terminator classification")
	}
}

func recordTokens() []Token {
	return []Token{
		{Type: IDENT, Literal: "foo", Line: 1, Column: 2},
		{Type: CONSTANT, Literal: "Foo", Line: 0, Column: 0},
		{Type: IVAR, Literal: "@a", Line: 3, Column: 1},
		{Type: LABEL, Literal: "key", Line: 4, Column: 7},
		{Type: STRING, Literal: "hello\n", Line: 5, Column: 0},
		{Type: STRING, Literal: "", Line: 5, Column: 9},
		{Type: REGEXP, Literal: "a+b", Options: "i", Line: 6, Column: 3},
		{Type: PERCENT_LOWER_W, Literal: "a b c", Line: 7, Column: 0},
		{Type: INTEGER, Integer: -42, Line: 8, Column: 4},
		{Type: INTEGER, Integer: 0, Line: 8, Column: 9},
		{Type: FLOAT, Double: 1.0, Line: 9, Column: 0},
		{Type: FLOAT, Double: -2.5e10, Line: 9, Column: 5},
		{Type: PLUS, Line: 10, Column: 1},
		{Type: NEWLINE, Line: 10, Column: 2},
	}
}

func TestRecordRoundTrip(t *testing.T) {
	for i, tok := range recordTokens() {
		rec, err := tok.Record(true)
		if err != nil {
			t.Fatalf("test[%d]: record: %v", i, err)
		}
		back, err := FromRecord(rec, tok.File)
		if err != nil {
			t.Fatalf("test[%d]: from record: %v", i, err)
		}
		if back != tok {
			t.Fatalf("test[%d]: expected %v, got %v", i, tok, back)
		}
	}
}

func TestRecordLiteralKinds(t *testing.T) {
	tests := []struct {
		tok      Token
		expected any
	}{
		{Token{Type: IDENT, Literal: "foo"}, sexp.Symbol("foo")},
		{Token{Type: SYMBOL, Literal: "bar"}, sexp.Symbol("bar")},
		{Token{Type: STRING, Literal: "baz"}, "baz"},
		{Token{Type: PERCENT_LOWER_I, Literal: "a b"}, "a b"},
		{Token{Type: INTEGER, Integer: 7}, int64(7)},
		{Token{Type: FLOAT, Double: 7}, float64(7)},
		{Token{Type: KEYWORD_IF}, nil},
	}

	for i, tt := range tests {
		rec, err := tt.tok.Record(false)
		if err != nil {
			t.Fatalf("test[%d]: record: %v", i, err)
		}
		if rec.Literal != tt.expected {
			t.Fatalf("test[%d]: expected literal %#v, got %#v", i, tt.expected, rec.Literal)
		}
		if rec.Line != nil || rec.Column != nil {
			t.Fatalf("test[%d]: positions should be omitted", i)
		}
	}

	rec, err := Token{Type: EOF}.Record(true)
	if err != nil || rec != nil {
		t.Fatalf("EOF should convert to a nil record, got %v, %v", rec, err)
	}
	if _, err := (Token{Type: INVALID, Literal: "`"}).Record(true); err == nil {
		t.Fatalf("invalid token should not convert")
	}
	if tok, err := FromRecord(nil, "x.rb"); err != nil || tok.Type != EOF || tok.File != "x.rb" {
		t.Fatalf("nil record should convert to EOF, got %v, %v", tok, err)
	}
}

func TestRecordJSONRoundTrip(t *testing.T) {
	for i, tok := range recordTokens() {
		rec, err := tok.Record(true)
		if err != nil {
			t.Fatalf("test[%d]: record: %v", i, err)
		}
		data, err := json.Marshal(rec)
		if err != nil {
			t.Fatalf("test[%d]: marshal: %v", i, err)
		}
		var decoded Record
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("test[%d]: unmarshal %s: %v", i, data, err)
		}
		back, err := FromRecord(&decoded, "")
		if err != nil {
			t.Fatalf("test[%d]: from record: %v", i, err)
		}
		if back != tok {
			t.Fatalf("test[%d]: expected %v, got %v (json %s)", i, tok, back, data)
		}
	}
}

func TestRecordYAMLRoundTrip(t *testing.T) {
	for i, tok := range recordTokens() {
		rec, err := tok.Record(true)
		if err != nil {
			t.Fatalf("test[%d]: record: %v", i, err)
		}
		data, err := yaml.Marshal(rec)
		if err != nil {
			t.Fatalf("test[%d]: marshal: %v", i, err)
		}
		var decoded Record
		if err := yaml.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("test[%d]: unmarshal %s: %v", i, data, err)
		}
		back, err := FromRecord(&decoded, "")
		if err != nil {
			t.Fatalf("test[%d]: from record: %v", i, err)
		}
		if back != tok {
			t.Fatalf("test[%d]: expected %v, got %v (yaml %s)", i, tok, back, data)
		}
	}
}

func TestFromRecordErrors(t *testing.T) {
	tests := []struct {
		rec      *Record
		contains string
	}{
		{&Record{Type: "nope"}, "unknown record type"},
		{&Record{Type: "integer", Literal: "12"}, "is not an integer"},
		{&Record{Type: "float", Literal: "1.5"}, "is not a float"},
		{&Record{Type: "string", Literal: int64(1)}, "is not a string"},
		{&Record{Type: "name", Literal: 1.5}, "is not a symbol"},
		{&Record{Type: "+", Literal: "x"}, "carries no literal"},
	}

	for i, tt := range tests {
		_, err := FromRecord(tt.rec, "")
		if err == nil || !strings.Contains(err.Error(), tt.contains) {
			t.Fatalf("test[%d]: expected error containing %q, got %v", i, tt.contains, err)
		}
	}
}

package token

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/alexisbouchez/rbparse/sexp"
)

// Record is the interchange form of a token:
// { type: <canonical spelling>, literal: <payload>, line: <int>, column: <int> }.
// Literal is a string, a sexp.Symbol, an int64 or a float64 depending on the
// type; see LiteralKind.
type Record struct {
	Type    sexp.Symbol
	Literal any
	Options string
	Line    *int
	Column  *int
}

// LiteralKind describes which payload a token type carries in a Record.
type LiteralKind int

const (
	NoLiteral LiteralKind = iota
	StringLiteral
	SymbolLiteral
	IntegerLiteral
	FloatLiteral
)

// LiteralKind returns the payload kind of the type in the interchange format.
func (t Type) LiteralKind() LiteralKind {
	switch t {
	case PERCENT_LOWER_W, PERCENT_UPPER_W, PERCENT_LOWER_I, PERCENT_UPPER_I, REGEXP, STRING, XSTRING:
		return StringLiteral
	case IDENT, CVAR, CONSTANT, GVAR, IVAR, NTH_REF, BACK_REF, SYMBOL, LABEL:
		return SymbolLiteral
	case FLOAT:
		return FloatLiteral
	case INTEGER:
		return IntegerLiteral
	}
	return NoLiteral
}

// Record converts the token to its interchange form. EOF converts to nil.
// Positions are included when positions is true.
func (t Token) Record(positions bool) (*Record, error) {
	value, err := t.TypeValue()
	if err != nil {
		return nil, err
	}
	if t.Type == EOF {
		return nil, nil
	}

	rec := &Record{Type: sexp.Symbol(value), Options: t.Options}
	switch t.Type.LiteralKind() {
	case StringLiteral:
		rec.Literal = t.Literal
	case SymbolLiteral:
		rec.Literal = sexp.Symbol(t.Literal)
	case FloatLiteral:
		rec.Literal = t.Double
	case IntegerLiteral:
		rec.Literal = t.Integer
	}
	if positions {
		line, column := t.Line, t.Column
		rec.Line, rec.Column = &line, &column
	}
	return rec, nil
}

// FromRecord rebuilds a token from its interchange form. A nil record is EOF.
func FromRecord(rec *Record, file string) (Token, error) {
	if rec == nil {
		return Token{Type: EOF, File: file}, nil
	}

	typ, ok := TypeFromValue(string(rec.Type))
	if !ok {
		return Token{}, fmt.Errorf("token: unknown record type %s", rec.Type.Inspect())
	}

	tok := Token{Type: typ, File: file, Options: rec.Options}
	if rec.Line != nil {
		tok.Line = *rec.Line
	}
	if rec.Column != nil {
		tok.Column = *rec.Column
	}

	mismatch := func(want string) error {
		return fmt.Errorf("token: record %s: literal %T is not %s", rec.Type.Inspect(), rec.Literal, want)
	}

	switch typ.LiteralKind() {
	case StringLiteral:
		s, ok := rec.Literal.(string)
		if !ok {
			return Token{}, mismatch("a string")
		}
		tok.Literal = s
	case SymbolLiteral:
		switch v := rec.Literal.(type) {
		case sexp.Symbol:
			tok.Literal = string(v)
		case string:
			tok.Literal = v
		default:
			return Token{}, mismatch("a symbol")
		}
	case FloatLiteral:
		switch v := rec.Literal.(type) {
		case float64:
			tok.Double = v
		case int64:
			tok.Double = float64(v)
		case int:
			tok.Double = float64(v)
		default:
			return Token{}, mismatch("a float")
		}
	case IntegerLiteral:
		switch v := rec.Literal.(type) {
		case int64:
			tok.Integer = v
		case int:
			tok.Integer = int64(v)
		default:
			return Token{}, mismatch("an integer")
		}
	default:
		if rec.Literal != nil {
			return Token{}, fmt.Errorf("token: record %s carries no literal", rec.Type.Inspect())
		}
	}
	return tok, nil
}

// recordDocument is the encoded layout shared by JSON and YAML.
type recordDocument struct {
	Type    string `json:"type" yaml:"type"`
	Literal any    `json:"literal,omitempty" yaml:"literal,omitempty"`
	Options string `json:"options,omitempty" yaml:"options,omitempty"`
	Line    *int   `json:"line,omitempty" yaml:"line,omitempty"`
	Column  *int   `json:"column,omitempty" yaml:"column,omitempty"`
}

func (r Record) document() recordDocument {
	doc := recordDocument{Type: string(r.Type), Literal: r.Literal, Options: r.Options, Line: r.Line, Column: r.Column}
	if sym, ok := r.Literal.(sexp.Symbol); ok {
		doc.Literal = string(sym)
	}
	return doc
}

// MarshalJSON implements json.Marshaler.
func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.document())
}

// MarshalYAML implements yaml.Marshaler.
func (r Record) MarshalYAML() (any, error) {
	return r.document(), nil
}

// UnmarshalJSON decodes the literal according to the record type so that
// integer and float payloads keep their kind.
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw struct {
		Type    string          `json:"type"`
		Literal json.RawMessage `json:"literal"`
		Options string          `json:"options"`
		Line    *int            `json:"line"`
		Column  *int            `json:"column"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = Record{Type: sexp.Symbol(raw.Type), Options: raw.Options, Line: raw.Line, Column: raw.Column}
	if len(raw.Literal) == 0 || string(raw.Literal) == "null" {
		return nil
	}
	typ, ok := TypeFromValue(raw.Type)
	if !ok {
		return fmt.Errorf("token: unknown record type %q", raw.Type)
	}
	lit, err := decodeLiteral(typ, func(v any) error { return json.Unmarshal(raw.Literal, v) })
	if err != nil {
		return fmt.Errorf("token: record %q literal: %w", raw.Type, err)
	}
	r.Literal = lit
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler with the same literal rules as
// UnmarshalJSON.
func (r *Record) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Type    string    `yaml:"type"`
		Literal yaml.Node `yaml:"literal"`
		Options string    `yaml:"options"`
		Line    *int      `yaml:"line"`
		Column  *int      `yaml:"column"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	*r = Record{Type: sexp.Symbol(raw.Type), Options: raw.Options, Line: raw.Line, Column: raw.Column}
	if raw.Literal.Kind == 0 || raw.Literal.Tag == "!!null" {
		return nil
	}
	typ, ok := TypeFromValue(raw.Type)
	if !ok {
		return fmt.Errorf("token: unknown record type %q", raw.Type)
	}
	lit, err := decodeLiteral(typ, raw.Literal.Decode)
	if err != nil {
		return fmt.Errorf("token: record %q literal: %w", raw.Type, err)
	}
	r.Literal = lit
	return nil
}

func decodeLiteral(typ Type, decode func(any) error) (any, error) {
	switch typ.LiteralKind() {
	case StringLiteral:
		var s string
		err := decode(&s)
		return s, err
	case SymbolLiteral:
		var s string
		err := decode(&s)
		return sexp.Symbol(s), err
	case IntegerLiteral:
		var n int64
		err := decode(&n)
		return n, err
	case FloatLiteral:
		var f float64
		err := decode(&f)
		return f, err
	}
	return nil, fmt.Errorf("type %s carries no literal", typ)
}

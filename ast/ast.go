// Package ast defines the Abstract Syntax Tree for Ruby.
//
// Every node converts to a positioned s-expression following the
// RubyParser conventions, e.g. `1 + 2` becomes s(:call, s(:lit, 1), :+, s(:lit, 2)).
package ast

import (
	"github.com/alexisbouchez/rbparse/sexp"
	"github.com/alexisbouchez/rbparse/token"
)

// Node represents a node in the AST.
type Node interface {
	// Pos returns the token the node starts at.
	Pos() token.Token
	// Sexp converts the node and its children into an s-expression.
	Sexp() *sexp.List
}

// Assignable is a node that can appear on the left of an assignment.
type Assignable interface {
	Node
	// AssignSexp returns the assignment form of the target. The value is
	// omitted for the targets of a multiple assignment.
	AssignSexp(rhs ...any) *sexp.List
}

// String returns the s-expression notation of n.
func String(n Node) string {
	if n == nil {
		return "nil"
	}
	return n.Sexp().String()
}

func list(tok token.Token, typ sexp.Symbol, children ...any) *sexp.List {
	return sexp.New(tok.Line, tok.Column, typ, children...)
}

// value returns the s-expression of n, or an untyped nil for a missing node.
func value(n Node) any {
	if n == nil {
		return nil
	}
	if l := n.Sexp(); l != nil {
		return l
	}
	return nil
}

func values(nodes []Node) []any {
	out := make([]any, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, value(n))
	}
	return out
}

// Block is the canonical container for a sequence of statements.
type Block struct {
	Token      token.Token
	Statements []Node
}

func (b *Block) Pos() token.Token { return b.Token }

// Sexp returns s(:block) for an empty block, the statement itself for a
// single statement and s(:block, ...) otherwise.
func (b *Block) Sexp() *sexp.List {
	if len(b.Statements) == 1 {
		return b.Statements[0].Sexp()
	}
	return list(b.Token, "block", values(b.Statements)...)
}

// Empty reports whether the block holds no statements.
func (b *Block) Empty() bool {
	return b == nil || len(b.Statements) == 0
}

// Body returns the s-expression of a block in body position: nil when it
// is empty.
func (b *Block) Body() any {
	if b.Empty() {
		return nil
	}
	return b.Sexp()
}

// Items returns the statements of b as separate s-expressions, the way
// definitions and when clauses list their bodies.
func (b *Block) Items() []any {
	if b.Empty() {
		return nil
	}
	return values(b.Statements)
}

// bodyItems lists a definition body, which may be a block or a begin node
// carrying rescue clauses. An empty body is s(:nil).
func bodyItems(tok token.Token, body Node) []any {
	switch b := body.(type) {
	case nil:
		return []any{list(tok, "nil")}
	case *Block:
		if b.Empty() {
			return []any{list(tok, "nil")}
		}
		return b.Items()
	}
	return []any{value(body)}
}

// IntegerLiteral represents an integer value.
type IntegerLiteral struct {
	Token token.Token
	Value int64
}

func (il *IntegerLiteral) Pos() token.Token { return il.Token }
func (il *IntegerLiteral) Sexp() *sexp.List { return list(il.Token, "lit", il.Value) }

// FloatLiteral represents a float value.
type FloatLiteral struct {
	Token token.Token
	Value float64
}

func (fl *FloatLiteral) Pos() token.Token { return fl.Token }
func (fl *FloatLiteral) Sexp() *sexp.List { return list(fl.Token, "lit", fl.Value) }

// StringLiteral represents a string value.
type StringLiteral struct {
	Token token.Token
	Value string
}

func (sl *StringLiteral) Pos() token.Token { return sl.Token }
func (sl *StringLiteral) Sexp() *sexp.List { return list(sl.Token, "str", sl.Value) }

// XStringLiteral represents a backtick command string.
type XStringLiteral struct {
	Token token.Token
	Value string
}

func (xl *XStringLiteral) Pos() token.Token { return xl.Token }
func (xl *XStringLiteral) Sexp() *sexp.List { return list(xl.Token, "xstr", xl.Value) }

// SymbolLiteral represents a symbol.
type SymbolLiteral struct {
	Token token.Token
	Name  string
}

func (sl *SymbolLiteral) Pos() token.Token { return sl.Token }
func (sl *SymbolLiteral) Sexp() *sexp.List {
	return list(sl.Token, "lit", sexp.Symbol(sl.Name))
}

// RegexpLiteral represents a regexp without interpolation.
type RegexpLiteral struct {
	Token   token.Token
	Source  string
	Options string
}

func (rl *RegexpLiteral) Pos() token.Token { return rl.Token }
func (rl *RegexpLiteral) Sexp() *sexp.List {
	return list(rl.Token, "lit", sexp.Regexp{Source: rl.Source, Options: rl.Options})
}

// InterpolatedString is a string, command string, regexp or symbol with
// #{} segments. Kind is one of dstr, dxstr, dregx or dsym.
type InterpolatedString struct {
	Token   token.Token
	Kind    sexp.Symbol
	Parts   []Node // StringLiteral or EvaluateToString
	Options string // regexp flags
}

func (is *InterpolatedString) Pos() token.Token { return is.Token }
func (is *InterpolatedString) Sexp() *sexp.List {
	parts := is.Parts
	head := ""
	if len(parts) > 0 {
		if sl, ok := parts[0].(*StringLiteral); ok {
			head = sl.Value
			parts = parts[1:]
		}
	}
	l := list(is.Token, is.Kind, head)
	l.Append(values(parts)...)
	if n := RegexpOptions(is.Options); n != 0 {
		l.Append(int64(n))
	}
	return l
}

// RegexpOptions returns the option bits of a regexp flag string: i is 1,
// x is 2 and m is 4.
func RegexpOptions(flags string) int {
	n := 0
	for _, f := range flags {
		switch f {
		case 'i':
			n |= 1
		case 'x':
			n |= 2
		case 'm':
			n |= 4
		}
	}
	return n
}

// EvaluateToString is one #{} segment of an interpolated literal.
type EvaluateToString struct {
	Token      token.Token
	Expression Node
}

func (es *EvaluateToString) Pos() token.Token { return es.Token }
func (es *EvaluateToString) Sexp() *sexp.List {
	if es.Expression == nil {
		return list(es.Token, "evstr")
	}
	return list(es.Token, "evstr", value(es.Expression))
}

// KeywordLiteral is a node fully described by its keyword: nil, true,
// false, self, redo, retry and zsuper. preexe and postexe are the callees
// of BEGIN and END blocks.
type KeywordLiteral struct {
	Token token.Token
	Kind  sexp.Symbol
}

func (kl *KeywordLiteral) Pos() token.Token { return kl.Token }
func (kl *KeywordLiteral) Sexp() *sexp.List { return list(kl.Token, kl.Kind) }

// ArrayLiteral represents an array.
type ArrayLiteral struct {
	Token    token.Token
	Elements []Node
}

func (al *ArrayLiteral) Pos() token.Token { return al.Token }
func (al *ArrayLiteral) Sexp() *sexp.List { return list(al.Token, "array", values(al.Elements)...) }

// HashLiteral represents a hash. Elements alternate keys and values,
// except for DoubleSplat entries which stand alone.
type HashLiteral struct {
	Token    token.Token
	Elements []Node
}

func (hl *HashLiteral) Pos() token.Token { return hl.Token }
func (hl *HashLiteral) Sexp() *sexp.List { return list(hl.Token, "hash", values(hl.Elements)...) }

// RangeLiteral represents a..b or a...b; either end may be missing.
type RangeLiteral struct {
	Token     token.Token
	Start     Node
	End       Node
	Exclusive bool
}

func (rl *RangeLiteral) Pos() token.Token { return rl.Token }
func (rl *RangeLiteral) Sexp() *sexp.List {
	typ := sexp.Symbol("dot2")
	if rl.Exclusive {
		typ = "dot3"
	}
	return list(rl.Token, typ, value(rl.Start), value(rl.End))
}

// LocalVariable is a read of a declared local variable.
type LocalVariable struct {
	Token token.Token
	Name  string
}

func (lv *LocalVariable) Pos() token.Token { return lv.Token }
func (lv *LocalVariable) Sexp() *sexp.List {
	return list(lv.Token, "lvar", sexp.Symbol(lv.Name))
}
func (lv *LocalVariable) AssignSexp(rhs ...any) *sexp.List {
	return list(lv.Token, "lasgn", append([]any{sexp.Symbol(lv.Name)}, rhs...)...)
}

// Variable is an instance, class or global variable, or a back reference.
type Variable struct {
	Token token.Token
	Kind  sexp.Symbol // ivar, cvar, gvar or back_ref
	Name  string
}

func (v *Variable) Pos() token.Token { return v.Token }
func (v *Variable) Sexp() *sexp.List {
	return list(v.Token, v.Kind, sexp.Symbol(v.Name))
}
func (v *Variable) AssignSexp(rhs ...any) *sexp.List {
	typ := sexp.Symbol("gasgn")
	switch v.Kind {
	case "ivar":
		typ = "iasgn"
	case "cvar":
		typ = "cvdecl"
	}
	return list(v.Token, typ, append([]any{sexp.Symbol(v.Name)}, rhs...)...)
}

// NthRef is a numbered match reference such as $1.
type NthRef struct {
	Token  token.Token
	Number int64
}

func (nr *NthRef) Pos() token.Token { return nr.Token }
func (nr *NthRef) Sexp() *sexp.List { return list(nr.Token, "nth_ref", nr.Number) }

// Constant represents a constant reference.
type Constant struct {
	Token token.Token
	Name  string
}

func (c *Constant) Pos() token.Token { return c.Token }
func (c *Constant) Sexp() *sexp.List {
	return list(c.Token, "const", sexp.Symbol(c.Name))
}
func (c *Constant) AssignSexp(rhs ...any) *sexp.List {
	return list(c.Token, "cdecl", append([]any{sexp.Symbol(c.Name)}, rhs...)...)
}

// ScopedConstant is Scope::Name, or ::Name when Scope is nil.
type ScopedConstant struct {
	Token token.Token
	Scope Node
	Name  string
}

func (sc *ScopedConstant) Pos() token.Token { return sc.Token }
func (sc *ScopedConstant) Sexp() *sexp.List {
	if sc.Scope == nil {
		return list(sc.Token, "colon3", sexp.Symbol(sc.Name))
	}
	return list(sc.Token, "colon2", value(sc.Scope), sexp.Symbol(sc.Name))
}
func (sc *ScopedConstant) AssignSexp(rhs ...any) *sexp.List {
	return list(sc.Token, "cdecl", append([]any{sc.Sexp()}, rhs...)...)
}

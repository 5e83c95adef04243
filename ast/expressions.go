package ast

import (
	"github.com/alexisbouchez/rbparse/sexp"
	"github.com/alexisbouchez/rbparse/token"
)

// Call is a method call. Operators are calls too: `a + b` calls + on a,
// `-a` calls -@ and `!a` calls !. A call without receiver, arguments or
// parentheses is a bare name that was not a known local variable.
type Call struct {
	Token     token.Token
	Receiver  Node
	Name      string
	Args      []Node
	SafeNav   bool
	HasParens bool
}

func (c *Call) Pos() token.Token { return c.Token }
func (c *Call) Sexp() *sexp.List {
	typ := sexp.Symbol("call")
	if c.SafeNav {
		typ = "safe_call"
	}
	l := list(c.Token, typ, value(c.Receiver), sexp.Symbol(c.Name))
	return l.Append(values(c.Args)...)
}

// AssignSexp returns the attribute or element assignment form of the call.
func (c *Call) AssignSexp(rhs ...any) *sexp.List {
	typ := sexp.Symbol("attrasgn")
	if c.SafeNav {
		typ = "safe_attrasgn"
	}
	name := c.Name + "="
	l := list(c.Token, typ, value(c.Receiver), sexp.Symbol(name))
	l.Append(values(c.Args)...)
	return l.Append(rhs...)
}

// IsBareName reports whether the call is a lone identifier such as `foo`.
func (c *Call) IsBareName() bool {
	return c.Receiver == nil && len(c.Args) == 0 && !c.HasParens
}

// Splat is *value in arguments, array literals and assignment targets.
type Splat struct {
	Token token.Token
	Value Node
}

func (s *Splat) Pos() token.Token { return s.Token }
func (s *Splat) Sexp() *sexp.List {
	if s.Value == nil {
		return list(s.Token, "splat")
	}
	return list(s.Token, "splat", value(s.Value))
}
func (s *Splat) AssignSexp(rhs ...any) *sexp.List {
	if target, ok := s.Value.(Assignable); ok {
		return list(s.Token, "splat", target.AssignSexp(rhs...))
	}
	return list(s.Token, "splat")
}

// DoubleSplat is **hash in a hash literal or keyword arguments.
type DoubleSplat struct {
	Token token.Token
	Value Node
}

func (ds *DoubleSplat) Pos() token.Token { return ds.Token }
func (ds *DoubleSplat) Sexp() *sexp.List {
	return list(ds.Token, "kwsplat", value(ds.Value))
}

// BlockPass is &value passed as the block argument of a call.
type BlockPass struct {
	Token token.Token
	Value Node
}

func (bp *BlockPass) Pos() token.Token { return bp.Token }
func (bp *BlockPass) Sexp() *sexp.List {
	if bp.Value == nil {
		return list(bp.Token, "block_pass")
	}
	return list(bp.Token, "block_pass", value(bp.Value))
}

// Iter is a call with a literal block, or a stabby lambda.
type Iter struct {
	Token  token.Token
	Call   Node
	Params *Params // nil when the block declares no parameters
	Body   Node
}

func (it *Iter) Pos() token.Token { return it.Token }
func (it *Iter) Sexp() *sexp.List {
	var args any = int64(0)
	if it.Params != nil {
		args = it.Params.Sexp()
	}
	l := list(it.Token, "iter", value(it.Call), args)
	if body := branch(it.Body); body != nil {
		l.Append(body)
	}
	return l
}

// Lambda is the callee of a stabby lambda iter.
type Lambda struct {
	Token token.Token
}

func (la *Lambda) Pos() token.Token { return la.Token }
func (la *Lambda) Sexp() *sexp.List { return list(la.Token, "lambda") }

// ParamKind distinguishes the kinds of method and block parameters.
type ParamKind int

const (
	RequiredParam ParamKind = iota
	OptionalParam
	SplatParam
	KeywordParam
	DoubleSplatParam
	BlockParam
	DestructuredParam
	ShadowParam
)

// Param is one method or block parameter.
type Param struct {
	Token   token.Token
	Kind    ParamKind
	Name    string
	Default Node    // OptionalParam and KeywordParam
	Nested  *Params // DestructuredParam
}

func (p *Param) item() any {
	switch p.Kind {
	case OptionalParam:
		return list(p.Token, "lasgn", sexp.Symbol(p.Name), value(p.Default))
	case SplatParam:
		return sexp.Symbol("*" + p.Name)
	case KeywordParam:
		l := list(p.Token, "kwarg", sexp.Symbol(p.Name))
		if p.Default != nil {
			l.Append(value(p.Default))
		}
		return l
	case DoubleSplatParam:
		return sexp.Symbol("**" + p.Name)
	case BlockParam:
		return sexp.Symbol("&" + p.Name)
	case DestructuredParam:
		l := list(p.Token, "masgn")
		for _, nested := range p.Nested.List {
			l.Append(nested.item())
		}
		return l
	case ShadowParam:
		return list(p.Token, "shadow", sexp.Symbol(p.Name))
	}
	return sexp.Symbol(p.Name)
}

// Params is a parameter list.
type Params struct {
	Token token.Token
	List  []*Param
}

func (ps *Params) Pos() token.Token { return ps.Token }
func (ps *Params) Sexp() *sexp.List {
	l := list(ps.Token, "args")
	for _, p := range ps.List {
		l.Append(p.item())
	}
	return l
}

// Names returns the local variable names the parameters declare.
func (ps *Params) Names() []string {
	if ps == nil {
		return nil
	}
	var names []string
	for _, p := range ps.List {
		switch {
		case p.Kind == DestructuredParam:
			names = append(names, p.Nested.Names()...)
		case p.Name != "":
			names = append(names, p.Name)
		}
	}
	return names
}

// Yield represents yield with optional arguments.
type Yield struct {
	Token token.Token
	Args  []Node
}

func (y *Yield) Pos() token.Token { return y.Token }
func (y *Yield) Sexp() *sexp.List { return list(y.Token, "yield", values(y.Args)...) }

// Super represents super with explicit arguments or parentheses. A bare
// super is a KeywordLiteral of kind zsuper.
type Super struct {
	Token token.Token
	Args  []Node
}

func (s *Super) Pos() token.Token { return s.Token }
func (s *Super) Sexp() *sexp.List { return list(s.Token, "super", values(s.Args)...) }

// Defined represents defined?(expr).
type Defined struct {
	Token      token.Token
	Expression Node
}

func (d *Defined) Pos() token.Token { return d.Token }
func (d *Defined) Sexp() *sexp.List { return list(d.Token, "defined", value(d.Expression)) }

// LogicalExpression is `and`/`&&` or `or`/`||`.
type LogicalExpression struct {
	Token token.Token
	Kind  sexp.Symbol // and, or
	Left  Node
	Right Node
}

func (le *LogicalExpression) Pos() token.Token { return le.Token }
func (le *LogicalExpression) Sexp() *sexp.List {
	return list(le.Token, le.Kind, value(le.Left), value(le.Right))
}

// Assignment represents target = value.
type Assignment struct {
	Token  token.Token
	Target Assignable
	Value  Node
}

func (a *Assignment) Pos() token.Token { return a.Token }
func (a *Assignment) Sexp() *sexp.List { return a.Target.AssignSexp(value(a.Value)) }

// OpAssign represents target op= value, including ||= and &&=.
type OpAssign struct {
	Token    token.Token
	Target   Assignable
	Operator string
	Value    Node
}

func (oa *OpAssign) Pos() token.Token { return oa.Token }
func (oa *OpAssign) Sexp() *sexp.List {
	op := sexp.Symbol(oa.Operator)
	if c, ok := oa.Target.(*Call); ok {
		if c.Name == "[]" {
			return list(oa.Token, "op_asgn1", value(c.Receiver),
				list(c.Token, "arglist", values(c.Args)...), op, value(oa.Value))
		}
		return list(oa.Token, "op_asgn2", value(c.Receiver), sexp.Symbol(c.Name+"="), op, value(oa.Value))
	}

	switch oa.Operator {
	case "||":
		return list(oa.Token, "op_asgn_or", value(oa.Target), oa.Target.AssignSexp(value(oa.Value)))
	case "&&":
		return list(oa.Token, "op_asgn_and", value(oa.Target), oa.Target.AssignSexp(value(oa.Value)))
	}
	call := list(oa.Token, "call", value(oa.Target), op, value(oa.Value))
	return oa.Target.AssignSexp(call)
}

// MultipleAssignment represents a, *b = value. A nested target such as
// (a, b) in `(a, b), c = x` has no value.
type MultipleAssignment struct {
	Token   token.Token
	Targets []Assignable
	Value   Node
	// ValueList is set when the right side was a comma-separated list,
	// held by Value as an ArrayLiteral.
	ValueList bool
}

func (ma *MultipleAssignment) Pos() token.Token { return ma.Token }
func (ma *MultipleAssignment) Sexp() *sexp.List {
	lhs := list(ma.Token, "array")
	for _, target := range ma.Targets {
		lhs.Append(target.AssignSexp())
	}
	l := list(ma.Token, "masgn", lhs)
	switch v := ma.Value.(type) {
	case nil:
		return l
	case *Splat:
		return l.Append(v.Sexp())
	}
	if ma.ValueList {
		return l.Append(value(ma.Value))
	}
	return l.Append(list(ma.Value.Pos(), "to_ary", value(ma.Value)))
}

// AssignSexp returns the nested target form.
func (ma *MultipleAssignment) AssignSexp(rhs ...any) *sexp.List {
	lhs := list(ma.Token, "array")
	for _, target := range ma.Targets {
		lhs.Append(target.AssignSexp())
	}
	return list(ma.Token, "masgn", append([]any{lhs}, rhs...)...)
}

package ast

import (
	"github.com/alexisbouchez/rbparse/sexp"
	"github.com/alexisbouchez/rbparse/token"
)

// branch returns the s-expression of a body that may be a Block, or nil
// when it is empty.
func branch(n Node) any {
	if b, ok := n.(*Block); ok {
		return b.Body()
	}
	return value(n)
}

// statementItems lists the statements of a class or module body.
func statementItems(body Node) []any {
	switch b := body.(type) {
	case nil:
		return nil
	case *Block:
		return b.Items()
	}
	return []any{value(body)}
}

// If represents if/elsif/else, unless (with swapped branches), the
// ternary operator and the if/unless modifiers.
type If struct {
	Token       token.Token
	Condition   Node
	Consequence Node
	Alternative Node
}

func (i *If) Pos() token.Token { return i.Token }
func (i *If) Sexp() *sexp.List {
	return list(i.Token, "if", value(i.Condition), branch(i.Consequence), branch(i.Alternative))
}

// While represents while and until loops and their modifier forms.
type While struct {
	Token     token.Token
	Kind      sexp.Symbol // while, until
	Condition Node
	Body      Node
	// DoWhile is set for begin...end while, whose body runs before the
	// first test.
	DoWhile bool
}

func (w *While) Pos() token.Token { return w.Token }
func (w *While) Sexp() *sexp.List {
	return list(w.Token, w.Kind, value(w.Condition), branch(w.Body), !w.DoWhile)
}

// For represents for variable in iterable.
type For struct {
	Token    token.Token
	Variable Assignable
	Iterable Node
	Body     *Block
}

func (f *For) Pos() token.Token { return f.Token }
func (f *For) Sexp() *sexp.List {
	l := list(f.Token, "for", value(f.Iterable), f.Variable.AssignSexp())
	if body := f.Body.Body(); body != nil {
		l.Append(body)
	}
	return l
}

// Case represents case/when/else.
type Case struct {
	Token   token.Token
	Subject Node
	Whens   []*When
	Else    *Block
}

func (c *Case) Pos() token.Token { return c.Token }
func (c *Case) Sexp() *sexp.List {
	l := list(c.Token, "case", value(c.Subject))
	for _, w := range c.Whens {
		l.Append(w.Sexp())
	}
	return l.Append(c.Else.Body())
}

// When is one clause of a case expression.
type When struct {
	Token      token.Token
	Conditions []Node
	Body       *Block
}

func (w *When) Pos() token.Token { return w.Token }
func (w *When) Sexp() *sexp.List {
	l := list(w.Token, "when", list(w.Token, "array", values(w.Conditions)...))
	if w.Body.Empty() {
		return l.Append(nil)
	}
	return l.Append(w.Body.Items()...)
}

// Begin represents begin/rescue/else/ensure, a method body with rescue
// clauses, or the rescue modifier.
type Begin struct {
	Token   token.Token
	Body    *Block
	Rescues []*RescueClause
	Else    *Block
	Ensure  *Block // nil when there is no ensure clause
}

func (b *Begin) Pos() token.Token { return b.Token }
func (b *Begin) Sexp() *sexp.List {
	var result *sexp.List
	if !b.Body.Empty() {
		result = b.Body.Sexp()
	}
	if len(b.Rescues) > 0 {
		r := list(b.Token, "rescue")
		if result != nil {
			r.Append(result)
		}
		for _, rc := range b.Rescues {
			r.Append(rc.Sexp())
		}
		if !b.Else.Empty() {
			r.Append(b.Else.Sexp())
		}
		result = r
	}
	if b.Ensure != nil {
		e := list(b.Token, "ensure")
		if result != nil {
			e.Append(result)
		}
		if b.Ensure.Empty() {
			e.Append(list(b.Ensure.Token, "nil"))
		} else {
			e.Append(b.Ensure.Sexp())
		}
		result = e
	}
	if result == nil {
		return list(b.Token, "nil")
	}
	return result
}

// RescueClause is one rescue branch of a Begin.
type RescueClause struct {
	Token      token.Token
	Exceptions []Node
	Variable   Assignable
	Body       *Block
}

func (rc *RescueClause) Pos() token.Token { return rc.Token }
func (rc *RescueClause) Sexp() *sexp.List {
	classes := list(rc.Token, "array", values(rc.Exceptions)...)
	if rc.Variable != nil {
		classes.Append(rc.Variable.AssignSexp(list(rc.Token, "gvar", sexp.Symbol("$!"))))
	}
	l := list(rc.Token, "resbody", classes)
	if rc.Body.Empty() {
		return l.Append(nil)
	}
	return l.Append(rc.Body.Items()...)
}

// Jump represents return, break and next with an optional value.
type Jump struct {
	Token token.Token
	Kind  sexp.Symbol // return, break, next
	Value Node
}

func (j *Jump) Pos() token.Token { return j.Token }
func (j *Jump) Sexp() *sexp.List {
	if j.Value == nil {
		return list(j.Token, j.Kind)
	}
	return list(j.Token, j.Kind, value(j.Value))
}

// MethodDefinition represents def name, or def receiver.name when
// Receiver is set.
type MethodDefinition struct {
	Token    token.Token
	Receiver Node
	Name     string
	Params   *Params
	Body     Node
}

func (md *MethodDefinition) Pos() token.Token { return md.Token }
func (md *MethodDefinition) Sexp() *sexp.List {
	args := list(md.Token, "args")
	if md.Params != nil {
		args = md.Params.Sexp()
	}
	var l *sexp.List
	if md.Receiver != nil {
		l = list(md.Token, "defs", value(md.Receiver), sexp.Symbol(md.Name), args)
	} else {
		l = list(md.Token, "defn", sexp.Symbol(md.Name), args)
	}
	return l.Append(bodyItems(md.Token, md.Body)...)
}

// ClassDefinition represents class Name < Superclass.
type ClassDefinition struct {
	Token      token.Token
	Name       Node // Constant or ScopedConstant
	Superclass Node
	Body       Node
}

func (cd *ClassDefinition) Pos() token.Token { return cd.Token }
func (cd *ClassDefinition) Sexp() *sexp.List {
	l := list(cd.Token, "class", definitionName(cd.Name), value(cd.Superclass))
	return l.Append(statementItems(cd.Body)...)
}

// SingletonClass represents class << target.
type SingletonClass struct {
	Token  token.Token
	Target Node
	Body   Node
}

func (sc *SingletonClass) Pos() token.Token { return sc.Token }
func (sc *SingletonClass) Sexp() *sexp.List {
	l := list(sc.Token, "sclass", value(sc.Target))
	return l.Append(statementItems(sc.Body)...)
}

// ModuleDefinition represents module Name.
type ModuleDefinition struct {
	Token token.Token
	Name  Node // Constant or ScopedConstant
	Body  Node
}

func (md *ModuleDefinition) Pos() token.Token { return md.Token }
func (md *ModuleDefinition) Sexp() *sexp.List {
	l := list(md.Token, "module", definitionName(md.Name))
	return l.Append(statementItems(md.Body)...)
}

func definitionName(n Node) any {
	if c, ok := n.(*Constant); ok {
		return sexp.Symbol(c.Name)
	}
	return value(n)
}

// Alias represents alias new old, for methods or global variables.
type Alias struct {
	Token token.Token
	New   Node
	Old   Node
}

func (a *Alias) Pos() token.Token { return a.Token }
func (a *Alias) Sexp() *sexp.List {
	newVar, newOK := a.New.(*Variable)
	oldVar, oldOK := a.Old.(*Variable)
	if newOK && oldOK {
		return list(a.Token, "valias", sexp.Symbol(newVar.Name), sexp.Symbol(oldVar.Name))
	}
	return list(a.Token, "alias", value(a.New), value(a.Old))
}

// Undef represents undef with one or more method names.
type Undef struct {
	Token token.Token
	Names []Node
}

func (u *Undef) Pos() token.Token { return u.Token }
func (u *Undef) Sexp() *sexp.List {
	if len(u.Names) == 1 {
		return list(u.Token, "undef", value(u.Names[0]))
	}
	l := list(u.Token, "block")
	for _, name := range u.Names {
		l.Append(list(u.Token, "undef", value(name)))
	}
	return l
}

package parser

import (
	"github.com/alexisbouchez/rbparse/ast"
	"github.com/alexisbouchez/rbparse/token"
)

// Precedence orders binding strength from loosest to tightest.
type Precedence int

const (
	LOWEST Precedence = iota
	ARRAY
	HASH
	ITER           // do blocks
	EXPRMODIFIER   // if, unless, while, until (modifier form)
	CASE
	CALLARGS       // arguments of a call without parentheses
	COMPOSITION    // and, or
	RESCUEMODIFIER // rescue (modifier form)
	ASSIGNMENT     // =, +=, ||= ...
	RANGE          // .., ...
	TERNARY        // ? :
	LOGICALNOT     // not
	LOGICALOR      // ||
	LOGICALAND     // &&
	EQUALITY       // ==, !=, ===, <=>, =~, !~
	LESSGREATER    // <, <=, >, >=
	BITWISEOR      // |, ^
	BITWISEAND     // &
	SHIFT          // <<, >>
	SUM            // +, -
	PRODUCT        // *, /, %
	PREFIX         // *splat, **splat, &block
	UNARY          // !, ~, unary + and -
	EXPONENT       // **
	DOT            // ., &., ::
	CALL           // { } blocks
	REF            // [] indexing, assignment to an assignable target
)

// binaryPrecedences holds the operators whose precedence does not depend
// on the expression to their left.
var binaryPrecedences = map[token.Type]Precedence{
	token.PLUS:                SUM,
	token.MINUS:               SUM,
	token.STAR:                PRODUCT,
	token.SLASH:               PRODUCT,
	token.PERCENT:             PRODUCT,
	token.STAR_STAR:           EXPONENT,
	token.LESS_LESS:           SHIFT,
	token.GREATER_GREATER:     SHIFT,
	token.AMPERSAND:           BITWISEAND,
	token.PIPE:                BITWISEOR,
	token.CARET:               BITWISEOR,
	token.LESS:                LESSGREATER,
	token.LESS_EQUAL:          LESSGREATER,
	token.GREATER:             LESSGREATER,
	token.GREATER_EQUAL:       LESSGREATER,
	token.EQUAL_EQUAL:         EQUALITY,
	token.EQUAL_EQUAL_EQUAL:   EQUALITY,
	token.BANG_EQUAL:          EQUALITY,
	token.LESS_EQUAL_GREATER:  EQUALITY,
	token.EQUAL_TILDE:         EQUALITY,
	token.BANG_TILDE:          EQUALITY,
	token.AMPERSAND_AMPERSAND: LOGICALAND,
	token.PIPE_PIPE:           LOGICALOR,
	token.KEYWORD_AND:         COMPOSITION,
	token.KEYWORD_OR:          COMPOSITION,
	token.QUESTION:            TERNARY,
	token.DOT_DOT:             RANGE,
	token.DOT_DOT_DOT:         RANGE,
	token.KEYWORD_RESCUE:      RESCUEMODIFIER,
	token.KEYWORD_IF:          EXPRMODIFIER,
	token.KEYWORD_UNLESS:      EXPRMODIFIER,
	token.KEYWORD_WHILE:       EXPRMODIFIER,
	token.KEYWORD_UNTIL:       EXPRMODIFIER,
	token.DOT:                 DOT,
	token.AMPERSAND_DOT:       DOT,
	token.COLON_COLON:         DOT,
}

// precedenceOf returns how tightly tok binds to the expression left of it.
// LOWEST means tok does not continue the expression.
func (p *Parser) precedenceOf(tok token.Token, left ast.Node) Precedence {
	switch tok.Type {
	case token.INTEGER, token.FLOAT:
		return signedNumberPrecedence(tok, left)
	case token.LBRACKET:
		return bracketPrecedence(tok, left)
	case token.LBRACE:
		if isBlockTarget(left) {
			return CALL
		}
		return LOWEST
	case token.KEYWORD_DO:
		if p.noDo == 0 && isBlockTarget(left) {
			return ITER
		}
		return LOWEST
	case token.EQUAL:
		if !p.inMlhs && isAssignable(left) {
			return REF
		}
		return LOWEST
	}
	if tok.Type.IsOpAssign() {
		if isAssignable(left) {
			return REF
		}
		return LOWEST
	}
	if prec, ok := binaryPrecedences[tok.Type]; ok {
		return prec
	}
	return LOWEST
}

// bracketPrecedence decides whether [ indexes left or starts an array
// literal. Without whitespace it always indexes; with whitespace it still
// indexes a value, but not a method call that could take the literal as
// its argument.
func bracketPrecedence(tok token.Token, left ast.Node) Precedence {
	if !tok.WhitespacePrecedes || !isCallable(left) {
		return REF
	}
	return LOWEST
}

// signedNumberPrecedence decides whether a number with a folded sign is a
// binary + or - on left, as in `x -1` for a local x. Before a method call
// it is an argument instead.
func signedNumberPrecedence(tok token.Token, left ast.Node) Precedence {
	if !tok.HasSign {
		return LOWEST
	}
	if tok.WhitespacePrecedes && isCallable(left) {
		return LOWEST
	}
	return SUM
}

// canStartArgument reports whether tok begins the first argument of a call
// without parentheses. Operators only do so when spaced like a prefix:
// `foo *args` but not `foo * args`. next is the token after tok.
func canStartArgument(tok, next token.Token) bool {
	if !tok.WhitespacePrecedes {
		return false
	}
	switch tok.Type {
	case token.IDENT, token.CONSTANT, token.IVAR, token.CVAR, token.GVAR, token.NTH_REF, token.BACK_REF,
		token.INTEGER, token.FLOAT, token.STRING, token.DSTRING_BEGIN, token.XSTRING, token.DXSTRING_BEGIN,
		token.SYMBOL, token.LABEL, token.REGEXP, token.DREGEXP_BEGIN,
		token.PERCENT_LOWER_W, token.PERCENT_UPPER_W, token.PERCENT_LOWER_I, token.PERCENT_UPPER_I,
		token.KEYWORD_NIL, token.KEYWORD_TRUE, token.KEYWORD_FALSE, token.KEYWORD_SELF,
		token.KEYWORD_DEFINED, token.KEYWORD___FILE__, token.KEYWORD___LINE__, token.KEYWORD___ENCODING__,
		token.KEYWORD_DEF, token.KEYWORD_CASE, token.KEYWORD_YIELD, token.KEYWORD_SUPER,
		token.BANG, token.MINUS_GREATER, token.LBRACKET, token.LPAREN:
		return true
	case token.STAR, token.STAR_STAR, token.AMPERSAND, token.MINUS, token.COLON_COLON, token.TILDE:
		return !next.WhitespacePrecedes
	}
	return false
}

// isIdentifierName reports whether a method name is spelled like an
// identifier rather than an operator.
func isIdentifierName(name string) bool {
	if name == "" {
		return false
	}
	c := name[0]
	return c == '_' || 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || c >= 0x80
}

// isCallable reports whether n is a method call that has not taken any
// arguments yet, such as `foo` or `a.foo`.
func isCallable(n ast.Node) bool {
	c, ok := n.(*ast.Call)
	if !ok || c.HasParens || len(c.Args) > 0 {
		return false
	}
	return isIdentifierName(c.Name)
}

// isBlockTarget reports whether a { } or do block after n belongs to n.
func isBlockTarget(n ast.Node) bool {
	switch n := n.(type) {
	case *ast.Call:
		return isIdentifierName(n.Name)
	case *ast.Super:
		return true
	case *ast.KeywordLiteral:
		return n.Kind == "zsuper"
	}
	return false
}

// isAssignable reports whether n can be the target of = or op=.
func isAssignable(n ast.Node) bool {
	switch n := n.(type) {
	case *ast.LocalVariable, *ast.Constant, *ast.ScopedConstant:
		return true
	case *ast.Variable:
		return n.Kind != "back_ref"
	case *ast.Call:
		if n.HasParens {
			return false
		}
		if n.Receiver == nil {
			return n.IsBareName() && isLocalName(n.Name)
		}
		return n.Name == "[]" || len(n.Args) == 0 && isIdentifierName(n.Name) && isLocalName(n.Name)
	}
	return false
}

// isLocalName rejects predicate and bang method names.
func isLocalName(name string) bool {
	last := name[len(name)-1]
	return last != '?' && last != '!'
}

// isMlhsTarget reports whether n can appear in the target list of a
// multiple assignment.
func isMlhsTarget(n ast.Node) bool {
	switch n := n.(type) {
	case *ast.Splat:
		return n.Value == nil || isAssignable(n.Value)
	case *ast.MultipleAssignment:
		return n.Value == nil
	}
	return isAssignable(n)
}

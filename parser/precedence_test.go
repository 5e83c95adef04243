package parser

import (
	"testing"

	"github.com/alexisbouchez/rbparse/ast"
	"github.com/alexisbouchez/rbparse/token"
)

func TestBracketPrecedence(t *testing.T) {
	call := &ast.Call{Name: "x"}
	tests := []struct {
		whitespace bool
		left       ast.Node
		expected   Precedence
	}{
		{false, call, REF},
		{true, call, LOWEST},
		{true, &ast.LocalVariable{Name: "x"}, REF},
		{true, &ast.Variable{Kind: "ivar", Name: "@x"}, REF},
		{true, &ast.Call{Name: "x", HasParens: true}, REF},
		{true, &ast.Call{Name: "+", Receiver: call, Args: []ast.Node{call}}, REF},
		{true, &ast.Call{Name: "y", Receiver: call}, LOWEST},
	}

	for i, tt := range tests {
		tok := token.Token{Type: token.LBRACKET, WhitespacePrecedes: tt.whitespace}
		if got := bracketPrecedence(tok, tt.left); got != tt.expected {
			t.Fatalf("test[%d]: expected %d, got %d", i, tt.expected, got)
		}
	}
}

func TestSignedNumberPrecedence(t *testing.T) {
	call := &ast.Call{Name: "a"}
	local := &ast.LocalVariable{Name: "a"}
	tests := []struct {
		tok      token.Token
		left     ast.Node
		expected Precedence
	}{
		{token.Token{Type: token.INTEGER, Integer: 1}, local, LOWEST},
		{token.Token{Type: token.INTEGER, Integer: -1, HasSign: true, WhitespacePrecedes: true}, call, LOWEST},
		{token.Token{Type: token.INTEGER, Integer: -1, HasSign: true, WhitespacePrecedes: true}, local, SUM},
		{token.Token{Type: token.INTEGER, Integer: -1, HasSign: true}, call, SUM},
		{token.Token{Type: token.FLOAT, Double: 1.5, HasSign: true, WhitespacePrecedes: true}, &ast.IntegerLiteral{Value: 1}, SUM},
	}

	for i, tt := range tests {
		if got := signedNumberPrecedence(tt.tok, tt.left); got != tt.expected {
			t.Fatalf("test[%d]: expected %d, got %d", i, tt.expected, got)
		}
	}
}

func TestCanStartArgument(t *testing.T) {
	spaced := func(typ token.Type) token.Token {
		return token.Token{Type: typ, WhitespacePrecedes: true}
	}
	ident := token.Token{Type: token.IDENT}

	tests := []struct {
		tok      token.Token
		next     token.Token
		expected bool
	}{
		{spaced(token.IDENT), ident, true},
		{spaced(token.INTEGER), ident, true},
		{spaced(token.LBRACKET), ident, true},
		{spaced(token.LABEL), ident, true},
		{spaced(token.KEYWORD_NIL), ident, true},
		{token.Token{Type: token.IDENT}, ident, false},
		{spaced(token.STAR), ident, true},
		{spaced(token.STAR), spaced(token.IDENT), false},
		{spaced(token.AMPERSAND), ident, true},
		{spaced(token.MINUS), spaced(token.INTEGER), false},
		{spaced(token.COLON_COLON), token.Token{Type: token.CONSTANT}, true},
		{spaced(token.COMMA), ident, false},
		{spaced(token.KEYWORD_DO), ident, false},
		{spaced(token.KEYWORD_IF), ident, false},
		{spaced(token.LBRACE), ident, false},
		{spaced(token.EQUAL), ident, false},
	}

	for i, tt := range tests {
		if got := canStartArgument(tt.tok, tt.next); got != tt.expected {
			t.Fatalf("test[%d]: %s: expected %t, got %t", i, tt.tok.Type, tt.expected, got)
		}
	}
}

func TestIsAssignable(t *testing.T) {
	recv := &ast.Call{Name: "a"}
	tests := []struct {
		node     ast.Node
		expected bool
	}{
		{&ast.Call{Name: "a"}, true},
		{&ast.Call{Name: "a?"}, false},
		{&ast.Call{Name: "a", HasParens: true}, false},
		{&ast.Call{Name: "a", Args: []ast.Node{recv}}, false},
		{&ast.Call{Name: "b", Receiver: recv}, true},
		{&ast.Call{Name: "[]", Receiver: recv, Args: []ast.Node{recv}}, true},
		{&ast.Call{Name: "+", Receiver: recv, Args: []ast.Node{recv}}, false},
		{&ast.LocalVariable{Name: "a"}, true},
		{&ast.Constant{Name: "A"}, true},
		{&ast.Variable{Kind: "gvar", Name: "$a"}, true},
		{&ast.Variable{Kind: "back_ref", Name: "&"}, false},
		{&ast.IntegerLiteral{Value: 1}, false},
	}

	for i, tt := range tests {
		if got := isAssignable(tt.node); got != tt.expected {
			t.Fatalf("test[%d]: %s: expected %t, got %t", i, ast.String(tt.node), tt.expected, got)
		}
	}
}

package parser

import (
	"github.com/alexisbouchez/rbparse/ast"
	"github.com/alexisbouchez/rbparse/token"
)

// parseInfixExpression parses a binary operator as a call on its left
// operand. ** is right-associative.
func (p *Parser) parseInfixExpression(left ast.Node) ast.Node {
	tok := p.current()
	precedence := p.precedenceOf(tok, left)
	if tok.Type == token.STAR_STAR {
		precedence = EXPONENT - 1
	}
	p.advance()

	right := p.parseExpression(precedence)
	return &ast.Call{
		Token:    left.Pos(),
		Receiver: left,
		Name:     tok.Type.String(),
		Args:     []ast.Node{right},
	}
}

// parseSignedNumber splits a number whose sign was folded by the lexer
// back into a binary operator: `x -1` is x - 1 when x is a value.
func (p *Parser) parseSignedNumber(left ast.Node) ast.Node {
	tok := p.current()
	p.advance()

	name := "+"
	if tok.Negative {
		name = "-"
	}
	var operand ast.Node
	if tok.Type == token.FLOAT {
		operand = &ast.FloatLiteral{Token: tok, Value: magnitude(tok.Double, tok.Negative)}
	} else {
		operand = &ast.IntegerLiteral{Token: tok, Value: magnitude(tok.Integer, tok.Negative)}
	}

	right := p.continueExpression(operand, SUM)
	return &ast.Call{Token: left.Pos(), Receiver: left, Name: name, Args: []ast.Node{right}}
}

// magnitude undoes a minus sign the lexer folded into v.
func magnitude[T int64 | float64](v T, negative bool) T {
	if negative {
		return -v
	}
	return v
}

var prefixOperators = map[token.Type]string{
	token.BANG:  "!",
	token.MINUS: "-@",
	token.PLUS:  "+@",
	token.TILDE: "~",
}

// parsePrefixExpression parses !x, -x, +x and ~x. A negated numeric
// literal folds into the literal.
func (p *Parser) parsePrefixExpression() ast.Node {
	tok := p.current()
	p.advance()

	operand := p.parseExpression(UNARY)
	if tok.Type == token.MINUS {
		switch n := operand.(type) {
		case *ast.IntegerLiteral:
			return &ast.IntegerLiteral{Token: tok, Value: -n.Value}
		case *ast.FloatLiteral:
			return &ast.FloatLiteral{Token: tok, Value: -n.Value}
		}
	}
	return &ast.Call{Token: tok, Receiver: operand, Name: prefixOperators[tok.Type]}
}

func (p *Parser) parseNotExpression() ast.Node {
	tok := p.current()
	p.advance()
	return &ast.Call{Token: tok, Receiver: p.parseExpression(LOGICALNOT), Name: "!"}
}

// parseLogicalExpression parses &&, and, || and or.
func (p *Parser) parseLogicalExpression(left ast.Node) ast.Node {
	tok := p.current()
	precedence := p.precedenceOf(tok, left)
	p.advance()

	expr := &ast.LogicalExpression{Token: left.Pos(), Kind: "or", Left: left}
	if tok.Type == token.AMPERSAND_AMPERSAND || tok.Type == token.KEYWORD_AND {
		expr.Kind = "and"
	}
	expr.Right = p.parseExpression(precedence)
	return expr
}

// parseTernaryExpression parses cond ? a : b. The else branch may itself
// be a ternary.
func (p *Parser) parseTernaryExpression(left ast.Node) ast.Node {
	p.advance()

	consequence := p.parseExpression(TERNARY)
	p.skipNewlines()
	p.expect(token.COLON, ":")
	alternative := p.parseExpression(RANGE)
	return &ast.If{Token: left.Pos(), Condition: left, Consequence: consequence, Alternative: alternative}
}

// parseModifierIf parses `x if cond` and `x unless cond`.
func (p *Parser) parseModifierIf(left ast.Node) ast.Node {
	tok := p.current()
	p.advance()

	cond := p.parseExpression(EXPRMODIFIER)
	if tok.Type == token.KEYWORD_UNLESS {
		return &ast.If{Token: left.Pos(), Condition: cond, Alternative: left}
	}
	return &ast.If{Token: left.Pos(), Condition: cond, Consequence: left}
}

// parseModifierWhile parses `x while cond` and `x until cond`. After a
// begin block the body runs once before the condition is tested.
func (p *Parser) parseModifierWhile(left ast.Node) ast.Node {
	tok := p.current()
	p.advance()

	_, doWhile := left.(*ast.Begin)
	return &ast.While{
		Token:     left.Pos(),
		Kind:      kindOf(tok),
		Condition: p.parseExpression(EXPRMODIFIER),
		Body:      left,
		DoWhile:   doWhile,
	}
}

// parseRescueModifier parses `x rescue y`.
func (p *Parser) parseRescueModifier(left ast.Node) ast.Node {
	tok := p.current()
	p.advance()

	rescue := p.parseExpression(RESCUEMODIFIER)
	return &ast.Begin{
		Token: left.Pos(),
		Body:  &ast.Block{Token: left.Pos(), Statements: []ast.Node{left}},
		Rescues: []*ast.RescueClause{{
			Token: tok,
			Body:  &ast.Block{Token: rescue.Pos(), Statements: []ast.Node{rescue}},
		}},
	}
}

// parseAssignment parses target = value. A do block after the value
// belongs to the value, as in `x = foo do ... end`.
func (p *Parser) parseAssignment(left ast.Node) ast.Node {
	target := p.toAssignable(left)
	p.nextExpression()
	return &ast.Assignment{Token: left.Pos(), Target: target, Value: p.parseAssignedValue()}
}

// parseOpAssignment parses target op= value, including ||= and &&=.
func (p *Parser) parseOpAssignment(left ast.Node) ast.Node {
	op := p.current().Type.OpAssignOperator()
	target := p.toAssignable(left)
	p.nextExpression()
	return &ast.OpAssign{Token: left.Pos(), Target: target, Operator: op, Value: p.parseAssignedValue()}
}

func (p *Parser) parseAssignedValue() ast.Node {
	value := p.parseExpression(COMPOSITION)
	if p.currentIs(token.KEYWORD_DO) && p.noDo == 0 && isBlockTarget(value) {
		value = p.parseDoBlock(value)
	}
	return value
}

// toAssignable converts an expression into an assignment target. A bare
// name becomes a local variable from here on.
func (p *Parser) toAssignable(n ast.Node) ast.Assignable {
	switch n := n.(type) {
	case *ast.Call:
		if n.Receiver == nil {
			p.locals.declare(n.Name)
			return &ast.LocalVariable{Token: n.Token, Name: n.Name}
		}
		return n
	case *ast.LocalVariable:
		p.locals.declare(n.Name)
		return n
	case *ast.Splat:
		if n.Value != nil {
			n.Value = p.toAssignable(n.Value)
		}
		return n
	case ast.Assignable:
		return n
	}
	p.raiseUnexpected(n.Pos(), "assignable")
	return nil
}

// parseMlhs parses the target list of a multiple assignment starting with
// first, which has already been parsed. A trailing comma is allowed:
// `a, = list`.
func (p *Parser) parseMlhs(first ast.Node) *ast.MultipleAssignment {
	if nested, ok := first.(*ast.MultipleAssignment); ok && nested.Value == nil && p.currentIs(token.EQUAL) {
		return nested
	}

	saved := p.inMlhs
	p.inMlhs = true
	defer func() { p.inMlhs = saved }()

	ma := &ast.MultipleAssignment{Token: first.Pos()}
	target := first
	for {
		if !isMlhsTarget(target) {
			p.raiseUnexpected(p.current(), "end-of-line")
		}
		ma.Targets = append(ma.Targets, p.toAssignable(target))

		if !p.currentIs(token.COMMA) {
			return ma
		}
		p.advance()
		switch p.current().Type {
		case token.EQUAL, token.RPAREN, token.KEYWORD_IN, token.PIPE:
			return ma
		}
		target = p.parseExpression(ASSIGNMENT)
	}
}

// parseMlhsValue parses the right side of a multiple assignment. A comma
// list is held as an array.
func (p *Parser) parseMlhsValue(ma *ast.MultipleAssignment) ast.Node {
	value := p.parseExpression(COMPOSITION)
	if !p.currentIs(token.COMMA) {
		ma.Value = value
		return ma
	}

	values := &ast.ArrayLiteral{Token: value.Pos(), Elements: []ast.Node{value}}
	for p.currentIs(token.COMMA) {
		p.nextExpression()
		values.Elements = append(values.Elements, p.parseExpression(COMPOSITION))
	}
	ma.Value, ma.ValueList = values, true
	return ma
}

// parseAssignmentList parses `a = 1, 2`, which assigns an array.
func (p *Parser) parseAssignmentList(a *ast.Assignment) ast.Node {
	values := &ast.ArrayLiteral{Token: a.Value.Pos(), Elements: []ast.Node{a.Value}}
	for p.currentIs(token.COMMA) {
		p.nextExpression()
		values.Elements = append(values.Elements, p.parseExpression(COMPOSITION))
	}
	a.Value = values
	return a
}

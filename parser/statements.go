package parser

import (
	"github.com/alexisbouchez/rbparse/ast"
	"github.com/alexisbouchez/rbparse/sexp"
	"github.com/alexisbouchez/rbparse/token"
)

func kindOf(tok token.Token) sexp.Symbol {
	return sexp.Symbol(tok.Type.String())
}

func (p *Parser) parseIfExpression() ast.Node {
	tok := p.current()
	p.advance()
	return p.parseIfBody(tok)
}

// parseIfBody parses the rest of an if or elsif clause, including the
// closing end.
func (p *Parser) parseIfBody(tok token.Token) ast.Node {
	node := &ast.If{Token: tok, Condition: p.parseCondition()}
	node.Consequence = p.parseBody(token.KEYWORD_ELSIF, token.KEYWORD_ELSE, token.KEYWORD_END)

	switch p.current().Type {
	case token.KEYWORD_ELSIF:
		elsif := p.current()
		p.advance()
		node.Alternative = p.parseIfBody(elsif)
		return node
	case token.KEYWORD_ELSE:
		p.advance()
		node.Alternative = p.parseBody(token.KEYWORD_END)
	}
	p.expect(token.KEYWORD_END, "end")
	return node
}

// parseCondition parses the condition of if, unless or elsif and the
// then or line break after it.
func (p *Parser) parseCondition() ast.Node {
	cond := p.parseExpression(LOWEST)
	p.expectSeparator(token.KEYWORD_THEN, "then")
	return cond
}

// expectSeparator consumes keyword, or a line break or semicolon
// optionally followed by keyword.
func (p *Parser) expectSeparator(keyword token.Type, expected string) {
	switch p.current().Type {
	case keyword:
		p.advance()
	case token.NEWLINE, token.SEMICOLON:
		p.skipSeparators()
		if p.currentIs(keyword) {
			p.advance()
		}
	default:
		p.raiseUnexpected(p.current(), expected)
	}
}

// parseUnlessExpression parses unless as an if with swapped branches.
func (p *Parser) parseUnlessExpression() ast.Node {
	tok := p.current()
	p.advance()

	cond := p.parseCondition()
	body := p.parseBody(token.KEYWORD_ELSE, token.KEYWORD_END)
	var alternative ast.Node
	if p.currentIs(token.KEYWORD_ELSE) {
		p.advance()
		alternative = p.parseBody(token.KEYWORD_END)
	}
	p.expect(token.KEYWORD_END, "end")
	return &ast.If{Token: tok, Condition: cond, Consequence: alternative, Alternative: body}
}

// parseLoopCondition parses the condition of while, until and for, where
// do starts the body instead of a block.
func (p *Parser) parseLoopCondition() ast.Node {
	p.noDo++
	cond := p.parseExpression(LOWEST)
	p.noDo--
	p.expectSeparator(token.KEYWORD_DO, "do")
	return cond
}

func (p *Parser) parseWhileExpression() ast.Node {
	tok := p.current()
	p.advance()

	cond := p.parseLoopCondition()
	body := p.parseBody(token.KEYWORD_END)
	p.expect(token.KEYWORD_END, "end")
	return &ast.While{Token: tok, Kind: kindOf(tok), Condition: cond, Body: body}
}

// parseForExpression parses for targets in iterable. The targets are
// locals of the enclosing scope.
func (p *Parser) parseForExpression() ast.Node {
	tok := p.current()
	p.advance()

	saved := p.inMlhs
	p.inMlhs = true
	first := p.parseExpression(ASSIGNMENT)
	p.inMlhs = saved

	var variable ast.Assignable
	if p.currentIs(token.COMMA) {
		variable = p.parseMlhs(first)
	} else {
		if !isAssignable(first) {
			p.raiseUnexpected(p.current(), "in")
		}
		variable = p.toAssignable(first)
	}
	p.expect(token.KEYWORD_IN, "in")

	iterable := p.parseLoopCondition()
	body := p.parseBody(token.KEYWORD_END)
	p.expect(token.KEYWORD_END, "end")
	return &ast.For{Token: tok, Variable: variable, Iterable: iterable, Body: body}
}

// parseCaseExpression parses case/when/else. The subject is optional.
func (p *Parser) parseCaseExpression() ast.Node {
	tok := p.current()
	p.advance()

	node := &ast.Case{Token: tok}
	if !p.currentIs(token.NEWLINE) && !p.currentIs(token.SEMICOLON) {
		node.Subject = p.parseExpression(LOWEST)
	}
	p.skipSeparators()
	if !p.currentIs(token.KEYWORD_WHEN) {
		p.raiseUnexpected(p.current(), "when")
	}

	for p.currentIs(token.KEYWORD_WHEN) {
		node.Whens = append(node.Whens, p.parseWhenClause())
	}
	if p.currentIs(token.KEYWORD_ELSE) {
		p.advance()
		node.Else = p.parseBody(token.KEYWORD_END)
	}
	p.expect(token.KEYWORD_END, "end")
	return node
}

func (p *Parser) parseWhenClause() *ast.When {
	tok := p.current()
	p.advance()

	clause := &ast.When{Token: tok}
	for {
		clause.Conditions = append(clause.Conditions, p.parseExpression(CASE))
		if !p.currentIs(token.COMMA) {
			break
		}
		p.nextExpression()
	}
	p.expectSeparator(token.KEYWORD_THEN, "then")
	clause.Body = p.parseBody(token.KEYWORD_WHEN, token.KEYWORD_ELSE, token.KEYWORD_END)
	return clause
}

func (p *Parser) parseBeginExpression() ast.Node {
	tok := p.current()
	p.advance()
	return p.parseBeginBody(tok)
}

// parseBeginBody parses a body with optional rescue, else and ensure
// clauses up to and including its end.
func (p *Parser) parseBeginBody(tok token.Token) *ast.Begin {
	node := &ast.Begin{Token: tok}
	node.Body = p.parseBody(token.KEYWORD_RESCUE, token.KEYWORD_ELSE, token.KEYWORD_ENSURE, token.KEYWORD_END)

	for p.currentIs(token.KEYWORD_RESCUE) {
		node.Rescues = append(node.Rescues, p.parseRescueClause())
	}
	if p.currentIs(token.KEYWORD_ELSE) {
		p.advance()
		node.Else = p.parseBody(token.KEYWORD_ENSURE, token.KEYWORD_END)
	}
	if p.currentIs(token.KEYWORD_ENSURE) {
		p.advance()
		node.Ensure = p.parseBody(token.KEYWORD_END)
	}
	p.expect(token.KEYWORD_END, "end")
	return node
}

// parseRescuableBody parses the body of a def or do block, which may carry
// rescue clauses without an explicit begin.
func (p *Parser) parseRescuableBody(tok token.Token) ast.Node {
	node := p.parseBeginBody(tok)
	if len(node.Rescues) == 0 && node.Ensure == nil {
		return node.Body
	}
	return node
}

// parseRescueClause parses rescue Class, Other => target.
func (p *Parser) parseRescueClause() *ast.RescueClause {
	tok := p.current()
	p.advance()

	clause := &ast.RescueClause{Token: tok}
	switch p.current().Type {
	case token.KEYWORD_THEN, token.NEWLINE, token.SEMICOLON, token.EQUAL_GREATER:
	default:
		for {
			clause.Exceptions = append(clause.Exceptions, p.parseExpression(ARRAY))
			if !p.currentIs(token.COMMA) {
				break
			}
			p.nextExpression()
		}
	}

	if p.currentIs(token.EQUAL_GREATER) {
		p.advance()
		target := p.parseExpression(ASSIGNMENT)
		if !isAssignable(target) {
			p.raiseUnexpected(target.Pos(), "assignable")
		}
		clause.Variable = p.toAssignable(target)
	}
	p.expectSeparator(token.KEYWORD_THEN, "then")
	clause.Body = p.parseBody(token.KEYWORD_RESCUE, token.KEYWORD_ELSE, token.KEYWORD_ENSURE, token.KEYWORD_END)
	return clause
}

// parseMethodDefinition parses def name, def receiver.name and the endless
// form def name(args) = value.
func (p *Parser) parseMethodDefinition() ast.Node {
	tok := p.current()
	p.advance()

	md := &ast.MethodDefinition{Token: tok}
	if p.peek().Type == token.DOT {
		md.Receiver = p.parseDefinitionReceiver()
		p.advance()
	}
	switch name := p.current(); name.Type {
	case token.IDENT, token.CONSTANT:
		md.Name = name.Literal
		p.advance()
	default:
		p.raiseUnexpected(name, "method name")
	}

	defer p.enterScope(false)()
	switch p.current().Type {
	case token.LPAREN:
		p.advance()
		md.Params = p.parseParamList(token.RPAREN)
		p.skipNewlines()
		p.expect(token.RPAREN, ")")
	case token.IDENT, token.LABEL, token.STAR, token.STAR_STAR, token.AMPERSAND:
		md.Params = p.parseParamList(token.NEWLINE)
	}

	if p.currentIs(token.EQUAL) {
		p.nextExpression()
		value := p.parseExpression(COMPOSITION)
		md.Body = &ast.Block{Token: value.Pos(), Statements: []ast.Node{value}}
		return md
	}
	md.Body = p.parseRescuableBody(tok)
	return md
}

func (p *Parser) parseDefinitionReceiver() ast.Node {
	tok := p.current()
	switch tok.Type {
	case token.KEYWORD_SELF:
		return p.parseKeywordLiteral()
	case token.CONSTANT:
		p.advance()
		return &ast.Constant{Token: tok, Name: tok.Literal}
	case token.IVAR, token.CVAR, token.GVAR:
		return p.parseVariable()
	case token.IDENT:
		p.advance()
		if p.locals.has(tok.Literal) {
			return &ast.LocalVariable{Token: tok, Name: tok.Literal}
		}
		return &ast.Call{Token: tok, Name: tok.Literal}
	}
	p.raiseUnexpected(tok, "method name")
	return nil
}

// parseClassDefinition parses class Name < Superclass and class << target.
func (p *Parser) parseClassDefinition() ast.Node {
	tok := p.current()
	p.advance()

	if p.currentIs(token.LESS_LESS) {
		p.advance()
		target := p.parseExpression(LOWEST)
		defer p.enterScope(false)()
		body := p.parseBody(token.KEYWORD_END)
		p.expect(token.KEYWORD_END, "end")
		return &ast.SingletonClass{Token: tok, Target: target, Body: body}
	}

	node := &ast.ClassDefinition{Token: tok, Name: p.parseConstantPath()}
	if p.currentIs(token.LESS) {
		p.advance()
		node.Superclass = p.parseExpression(LOWEST)
	}
	defer p.enterScope(false)()
	node.Body = p.parseBody(token.KEYWORD_END)
	p.expect(token.KEYWORD_END, "end")
	return node
}

func (p *Parser) parseModuleDefinition() ast.Node {
	tok := p.current()
	p.advance()

	node := &ast.ModuleDefinition{Token: tok, Name: p.parseConstantPath()}
	defer p.enterScope(false)()
	node.Body = p.parseBody(token.KEYWORD_END)
	p.expect(token.KEYWORD_END, "end")
	return node
}

// parseConstantPath parses the name of a class or module: Name, A::Name
// or ::Name.
func (p *Parser) parseConstantPath() ast.Node {
	tok := p.current()
	var name ast.Node
	switch tok.Type {
	case token.COLON_COLON:
		name = p.parseTopLevelConstant()
	case token.CONSTANT:
		p.advance()
		name = &ast.Constant{Token: tok, Name: tok.Literal}
	default:
		p.raiseUnexpected(tok, "constant")
	}
	for p.currentIs(token.COLON_COLON) {
		p.advance()
		c := p.expect(token.CONSTANT, "constant")
		name = &ast.ScopedConstant{Token: tok, Scope: name, Name: c.Literal}
	}
	return name
}

// parseJump parses return, break and next. Several values are returned
// as an array.
func (p *Parser) parseJump() ast.Node {
	tok := p.current()
	p.advance()

	jump := &ast.Jump{Token: tok, Kind: kindOf(tok)}
	if p.atValueEnd() {
		return jump
	}
	values := p.parseCommandArgs()
	if len(values) == 1 {
		jump.Value = values[0]
	} else {
		jump.Value = &ast.ArrayLiteral{Token: values[0].Pos(), Elements: values}
	}
	return jump
}

func (p *Parser) parseAlias() ast.Node {
	tok := p.current()
	p.advance()
	newName := p.parseMethodReference()
	return &ast.Alias{Token: tok, New: newName, Old: p.parseMethodReference()}
}

func (p *Parser) parseUndef() ast.Node {
	tok := p.current()
	p.advance()

	node := &ast.Undef{Token: tok}
	for {
		node.Names = append(node.Names, p.parseMethodReference())
		if !p.currentIs(token.COMMA) {
			return node
		}
		p.nextExpression()
	}
}

// parseMethodReference parses a method name as written after alias and
// undef. Global variables keep their kind so that alias can tell the
// two forms apart.
func (p *Parser) parseMethodReference() ast.Node {
	tok := p.current()
	switch {
	case tok.Type == token.GVAR, tok.Type == token.BACK_REF:
		return p.parseVariable()
	case tok.Type == token.IDENT, tok.Type == token.CONSTANT, tok.Type == token.SYMBOL:
		p.advance()
		return &ast.SymbolLiteral{Token: tok, Name: tok.Literal}
	case tok.Type.IsKeyword(), tok.Type.IsOperator():
		p.advance()
		return &ast.SymbolLiteral{Token: tok, Name: tok.Type.String()}
	}
	p.raiseUnexpected(tok, "method name")
	return nil
}

// parseHookBlock parses BEGIN { ... } and END { ... } as an iter whose
// callee is preexe or postexe.
func (p *Parser) parseHookBlock() ast.Node {
	tok := p.current()
	p.advance()

	kind := sexp.Symbol("preexe")
	if tok.Type == token.KEYWORD_END_UPCASE {
		kind = "postexe"
	}
	if !p.currentIs(token.LBRACE) {
		p.raiseUnexpected(p.current(), "{")
	}
	return p.parseBraceBlock(&ast.KeywordLiteral{Token: tok, Kind: kind})
}

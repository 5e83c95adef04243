package parser

import (
	"github.com/alexisbouchez/rbparse/ast"
	"github.com/alexisbouchez/rbparse/token"
)

// commandArgs is the precedence of the arguments of a call without
// parentheses: they stop before and, or and the modifiers.
const commandArgs = RESCUEMODIFIER

// parseIdentifier resolves a bare name to a local variable or a method
// call, taking arguments when they follow.
func (p *Parser) parseIdentifier() ast.Node {
	tok := p.current()
	if p.locals.has(tok.Literal) {
		p.relexAfterLocal()
	}
	p.advance()

	next := p.current()
	if next.Type == token.LPAREN && !next.WhitespacePrecedes {
		return &ast.Call{Token: tok, Name: tok.Literal, Args: p.parseCallArgs(), HasParens: true}
	}
	if p.locals.has(tok.Literal) {
		return &ast.LocalVariable{Token: tok, Name: tok.Literal}
	}
	call := &ast.Call{Token: tok, Name: tok.Literal}
	if canStartArgument(next, p.peek()) {
		call.Args = p.parseCommandArgs()
	}
	return call
}

func (p *Parser) parseConstant() ast.Node {
	tok := p.current()
	p.advance()

	if next := p.current(); next.Type == token.LPAREN && !next.WhitespacePrecedes {
		return &ast.Call{Token: tok, Name: tok.Literal, Args: p.parseCallArgs(), HasParens: true}
	}
	return &ast.Constant{Token: tok, Name: tok.Literal}
}

// parseTopLevelConstant parses ::Name.
func (p *Parser) parseTopLevelConstant() ast.Node {
	tok := p.current()
	p.advance()
	name := p.expect(token.CONSTANT, "constant")
	return &ast.ScopedConstant{Token: tok, Name: name.Literal}
}

// parseCallArgs parses a parenthesized argument list.
func (p *Parser) parseCallArgs() []ast.Node {
	p.expect(token.LPAREN, "(")
	defer p.resetNoDo()()

	args := p.parseArgumentList(token.RPAREN, ARRAY)
	p.skipNewlines()
	p.expect(token.RPAREN, ")")
	return args
}

func (p *Parser) parseCommandArgs() []ast.Node {
	return p.parseArgumentList(token.EOF, commandArgs)
}

// parseArgumentList parses comma-separated arguments up to closer, which
// is left unconsumed. token.EOF as closer means the list has no closing
// token. Labels and => pairs are gathered into one trailing hash.
func (p *Parser) parseArgumentList(closer token.Type, precedence Precedence) []ast.Node {
	var (
		args []ast.Node
		hash *ast.HashLiteral
	)
	addPair := func(tok token.Token, entries ...ast.Node) {
		if hash == nil {
			hash = &ast.HashLiteral{Token: tok}
			args = append(args, hash)
		}
		hash.Elements = append(hash.Elements, entries...)
	}

	for {
		if closer != token.EOF {
			p.skipNewlines()
			if p.currentIs(closer) {
				break
			}
		}

		switch tok := p.current(); tok.Type {
		case token.LABEL:
			p.nextExpression()
			key := &ast.SymbolLiteral{Token: tok, Name: tok.Literal}
			addPair(tok, key, p.parseLabelValue(tok, closer, precedence))
		case token.STAR_STAR:
			addPair(tok, p.parseExpression(precedence))
		default:
			arg := p.parseExpression(precedence)
			if p.currentIs(token.EQUAL_GREATER) {
				p.nextExpression()
				addPair(tok, arg, p.parseExpression(precedence))
			} else {
				args = append(args, arg)
			}
		}

		if !p.currentIs(token.COMMA) {
			break
		}
		p.nextExpression()
	}
	return args
}

// parseMethodCall parses receiver.name and receiver&.name, with or
// without arguments.
func (p *Parser) parseMethodCall(left ast.Node) ast.Node {
	op := p.current()
	p.advance()

	call := &ast.Call{Token: left.Pos(), Receiver: left, SafeNav: op.Type == token.AMPERSAND_DOT}
	switch name := p.current(); name.Type {
	case token.IDENT, token.CONSTANT:
		p.advance()
		call.Name = name.Literal
	case token.LPAREN:
		// receiver.(args)
		call.Name = "call"
	default:
		p.raiseUnexpected(name, "method name")
	}
	return p.parseCallRest(call)
}

// parseCallRest attaches the arguments that follow a method name.
func (p *Parser) parseCallRest(call *ast.Call) ast.Node {
	next := p.current()
	switch {
	case next.Type == token.LPAREN && !next.WhitespacePrecedes:
		call.Args, call.HasParens = p.parseCallArgs(), true
	case isIdentifierName(call.Name) && canStartArgument(next, p.peek()):
		call.Args = p.parseCommandArgs()
	}
	return call
}

// parseScopedConstant parses Scope::Name and Scope::method.
func (p *Parser) parseScopedConstant(left ast.Node) ast.Node {
	p.advance()

	name := p.current()
	switch name.Type {
	case token.CONSTANT:
		p.advance()
		if next := p.current(); next.Type == token.LPAREN && !next.WhitespacePrecedes {
			call := &ast.Call{Token: left.Pos(), Receiver: left, Name: name.Literal}
			return p.parseCallRest(call)
		}
		return &ast.ScopedConstant{Token: left.Pos(), Scope: left, Name: name.Literal}
	case token.IDENT:
		p.advance()
		return p.parseCallRest(&ast.Call{Token: left.Pos(), Receiver: left, Name: name.Literal})
	}
	p.raiseUnexpected(name, "constant")
	return nil
}

// parseIndexExpression parses receiver[args].
func (p *Parser) parseIndexExpression(left ast.Node) ast.Node {
	p.advance()
	defer p.resetNoDo()()

	args := p.parseArgumentList(token.RBRACKET, ARRAY)
	p.skipNewlines()
	p.expect(token.RBRACKET, "]")
	return &ast.Call{Token: left.Pos(), Receiver: left, Name: "[]", Args: args}
}

// parseBraceBlock attaches { |params| body } to the call on its left.
func (p *Parser) parseBraceBlock(call ast.Node) ast.Node {
	p.advance()
	defer p.enterScope(true)()
	defer p.resetNoDo()()

	params := p.parseBlockParameters()
	body := p.parseBody(token.RBRACE)
	p.expect(token.RBRACE, "}")
	return &ast.Iter{Token: call.Pos(), Call: call, Params: params, Body: body}
}

// parseDoBlock attaches do |params| body end to the call on its left. The
// body may carry rescue clauses.
func (p *Parser) parseDoBlock(call ast.Node) ast.Node {
	tok := p.current()
	p.advance()
	defer p.enterScope(true)()
	defer p.resetNoDo()()

	params := p.parseBlockParameters()
	body := p.parseRescuableBody(tok)
	return &ast.Iter{Token: call.Pos(), Call: call, Params: params, Body: body}
}

// parseBlockParameters parses |a, (b, c), *d; shadow| when present.
func (p *Parser) parseBlockParameters() *ast.Params {
	tok := p.current()
	switch tok.Type {
	case token.PIPE_PIPE:
		p.advance()
		return &ast.Params{Token: tok}
	case token.PIPE:
		p.advance()
	default:
		return nil
	}

	params := &ast.Params{Token: tok}
	for !p.currentIs(token.PIPE) && !p.currentIs(token.SEMICOLON) {
		params.List = append(params.List, p.parseParam(BITWISEOR))
		if !p.currentIs(token.COMMA) {
			break
		}
		p.advance()
	}
	if p.currentIs(token.SEMICOLON) {
		p.advance()
		for {
			name := p.expect(token.IDENT, "name")
			p.locals.declare(name.Literal)
			params.List = append(params.List, &ast.Param{Token: name, Kind: ast.ShadowParam, Name: name.Literal})
			if !p.currentIs(token.COMMA) {
				break
			}
			p.advance()
		}
	}
	p.expect(token.PIPE, "|")
	return params
}

// parseParamList parses parameters separated by commas until closer,
// which is left unconsumed.
func (p *Parser) parseParamList(closer token.Type) *ast.Params {
	params := &ast.Params{Token: p.current()}
	for !p.currentIs(closer) {
		params.List = append(params.List, p.parseParam(ARRAY))
		if !p.currentIs(token.COMMA) {
			break
		}
		p.nextExpression()
	}
	return params
}

// parseParam parses one parameter and declares the names it binds.
// Default values bind tighter than precedence.
func (p *Parser) parseParam(precedence Precedence) *ast.Param {
	tok := p.current()
	param := &ast.Param{Token: tok}

	switch tok.Type {
	case token.STAR, token.STAR_STAR, token.AMPERSAND:
		param.Kind = map[token.Type]ast.ParamKind{
			token.STAR:      ast.SplatParam,
			token.STAR_STAR: ast.DoubleSplatParam,
			token.AMPERSAND: ast.BlockParam,
		}[tok.Type]
		p.advance()
		if p.currentIs(token.IDENT) {
			param.Name = p.current().Literal
			p.locals.declare(param.Name)
			p.advance()
		}
	case token.LABEL:
		param.Kind, param.Name = ast.KeywordParam, tok.Literal
		p.locals.declare(param.Name)
		p.advance()
		switch p.current().Type {
		case token.COMMA, token.RPAREN, token.PIPE, token.SEMICOLON, token.NEWLINE, token.EOF:
		default:
			param.Default = p.parseExpression(precedence)
		}
	case token.IDENT:
		param.Kind, param.Name = ast.RequiredParam, tok.Literal
		p.locals.declare(param.Name)
		p.advance()
		if p.currentIs(token.EQUAL) {
			p.nextExpression()
			param.Kind = ast.OptionalParam
			param.Default = p.parseExpression(precedence)
		}
	case token.LPAREN:
		p.advance()
		param.Kind = ast.DestructuredParam
		param.Nested = p.parseParamList(token.RPAREN)
		p.expect(token.RPAREN, ")")
	default:
		p.raiseUnexpected(tok, "parameter")
	}
	return param
}

// parseLambda parses ->(params) { body } and -> do body end.
func (p *Parser) parseLambda() ast.Node {
	tok := p.current()
	p.advance()
	defer p.enterScope(true)()

	var params *ast.Params
	switch p.current().Type {
	case token.LPAREN:
		p.advance()
		params = p.parseParamList(token.RPAREN)
		p.expect(token.RPAREN, ")")
	case token.IDENT, token.STAR, token.STAR_STAR, token.AMPERSAND, token.LABEL:
		params = p.parseParamList(token.LBRACE)
	}

	lambda := &ast.Lambda{Token: tok}
	switch open := p.current(); open.Type {
	case token.LBRACE:
		p.advance()
		defer p.resetNoDo()()
		body := p.parseBody(token.RBRACE)
		p.expect(token.RBRACE, "}")
		return &ast.Iter{Token: tok, Call: lambda, Params: params, Body: body}
	case token.KEYWORD_DO:
		p.advance()
		defer p.resetNoDo()()
		return &ast.Iter{Token: tok, Call: lambda, Params: params, Body: p.parseRescuableBody(open)}
	}
	p.raiseUnexpected(p.current(), "{")
	return nil
}

func (p *Parser) parseYieldExpression() ast.Node {
	tok := p.current()
	p.advance()
	return &ast.Yield{Token: tok, Args: p.parseOptionalArgs()}
}

// parseSuperExpression returns zsuper for a bare super, which passes the
// arguments of the current method along.
func (p *Parser) parseSuperExpression() ast.Node {
	tok := p.current()
	p.advance()
	next := p.current()
	if next.Type == token.LPAREN && !next.WhitespacePrecedes || canStartArgument(next, p.peek()) {
		return &ast.Super{Token: tok, Args: p.parseOptionalArgs()}
	}
	return &ast.KeywordLiteral{Token: tok, Kind: "zsuper"}
}

// parseOptionalArgs parses (args), args without parentheses, or nothing.
func (p *Parser) parseOptionalArgs() []ast.Node {
	next := p.current()
	switch {
	case next.Type == token.LPAREN && !next.WhitespacePrecedes:
		return p.parseCallArgs()
	case canStartArgument(next, p.peek()):
		return p.parseCommandArgs()
	}
	return nil
}

func (p *Parser) parseDefinedExpression() ast.Node {
	tok := p.current()
	p.advance()
	if p.currentIs(token.LPAREN) {
		return &ast.Defined{Token: tok, Expression: p.parseGroupedExpression()}
	}
	return &ast.Defined{Token: tok, Expression: p.parseExpression(LOGICALNOT)}
}

// startsOperand reports whether the current token can begin an
// expression; splat and block-pass operators may stand alone.
func (p *Parser) startsOperand() bool {
	return p.nullDenotation(p.current()) != nil
}

func (p *Parser) parseSplatExpression() ast.Node {
	tok := p.current()
	p.advance()
	splat := &ast.Splat{Token: tok}
	if p.startsOperand() {
		splat.Value = p.parseExpression(PREFIX)
	}
	return splat
}

func (p *Parser) parseDoubleSplatExpression() ast.Node {
	tok := p.current()
	p.advance()
	ds := &ast.DoubleSplat{Token: tok}
	if p.startsOperand() {
		ds.Value = p.parseExpression(PREFIX)
	}
	return ds
}

func (p *Parser) parseBlockPass() ast.Node {
	tok := p.current()
	p.advance()
	bp := &ast.BlockPass{Token: tok}
	if p.startsOperand() {
		bp.Value = p.parseExpression(PREFIX)
	}
	return bp
}

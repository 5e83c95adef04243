package parser

import (
	"strconv"
	"strings"

	"github.com/alexisbouchez/rbparse/ast"
	"github.com/alexisbouchez/rbparse/sexp"
	"github.com/alexisbouchez/rbparse/token"
)

func (p *Parser) parseIntegerLiteral() ast.Node {
	tok := p.current()
	p.advance()

	// -2 ** 2 is -(2 ** 2)
	if tok.Negative && p.currentIs(token.STAR_STAR) {
		base := &ast.IntegerLiteral{Token: tok, Value: magnitude(tok.Integer, true)}
		power := p.parseInfixExpression(base)
		return &ast.Call{Token: tok, Receiver: power, Name: "-@"}
	}
	return &ast.IntegerLiteral{Token: tok, Value: tok.Integer}
}

func (p *Parser) parseFloatLiteral() ast.Node {
	tok := p.current()
	p.advance()

	if tok.Negative && p.currentIs(token.STAR_STAR) {
		base := &ast.FloatLiteral{Token: tok, Value: magnitude(tok.Double, true)}
		power := p.parseInfixExpression(base)
		return &ast.Call{Token: tok, Receiver: power, Name: "-@"}
	}
	return &ast.FloatLiteral{Token: tok, Value: tok.Double}
}

// parseStringLiteral also joins adjacent literals: "a" 'b' is "ab".
func (p *Parser) parseStringLiteral() ast.Node {
	tok := p.current()
	p.advance()
	value := tok.Literal
	for p.currentIs(token.STRING) && p.current().WhitespacePrecedes {
		value += p.current().Literal
		p.advance()
	}
	return &ast.StringLiteral{Token: tok, Value: value}
}

func (p *Parser) parseXStringLiteral() ast.Node {
	tok := p.current()
	p.advance()
	return &ast.XStringLiteral{Token: tok, Value: tok.Literal}
}

func (p *Parser) parseRegexpLiteral() ast.Node {
	tok := p.current()
	p.advance()
	return &ast.RegexpLiteral{Token: tok, Source: tok.Literal, Options: tok.Options}
}

func (p *Parser) parseSymbolLiteral() ast.Node {
	tok := p.current()
	p.advance()
	return &ast.SymbolLiteral{Token: tok, Name: tok.Literal}
}

var interpolatedKinds = map[token.Type]struct {
	kind sexp.Symbol
	end  token.Type
}{
	token.DSTRING_BEGIN:  {"dstr", token.DSTRING_END},
	token.DXSTRING_BEGIN: {"dxstr", token.DXSTRING_END},
	token.DREGEXP_BEGIN:  {"dregx", token.DREGEXP_END},
}

// parseInterpolated parses a string, command or regexp with #{} segments.
func (p *Parser) parseInterpolated() ast.Node {
	tok := p.current()
	spec := interpolatedKinds[tok.Type]
	p.advance()

	node := &ast.InterpolatedString{Token: tok, Kind: spec.kind}
	for !p.currentIs(spec.end) {
		part := p.current()
		switch part.Type {
		case token.STRING:
			p.advance()
			node.Parts = append(node.Parts, &ast.StringLiteral{Token: part, Value: part.Literal})
		case token.EMBEXPR_BEGIN:
			p.advance()
			node.Parts = append(node.Parts, p.parseEmbeddedCode(part))
		default:
			p.raiseUnexpected(part, spec.end.String())
		}
	}
	node.Options = p.current().Options
	p.advance()
	return node
}

func (p *Parser) parseEmbeddedCode(tok token.Token) ast.Node {
	defer p.resetNoDo()()
	p.interpolation++
	defer func() { p.interpolation-- }()
	body := p.parseBody(token.EMBEXPR_END)
	p.expect(token.EMBEXPR_END, "}")

	ev := &ast.EvaluateToString{Token: tok}
	switch len(body.Statements) {
	case 0:
	case 1:
		ev.Expression = body.Statements[0]
	default:
		ev.Expression = body
	}
	return ev
}

// parseWordArray splits the body of %w[] and friends on whitespace.
func (p *Parser) parseWordArray() ast.Node {
	tok := p.current()
	p.advance()

	symbols := tok.Type == token.PERCENT_LOWER_I || tok.Type == token.PERCENT_UPPER_I
	array := &ast.ArrayLiteral{Token: tok}
	for _, word := range strings.Fields(tok.Literal) {
		if symbols {
			array.Elements = append(array.Elements, &ast.SymbolLiteral{Token: tok, Name: word})
		} else {
			array.Elements = append(array.Elements, &ast.StringLiteral{Token: tok, Value: word})
		}
	}
	return array
}

func (p *Parser) parseKeywordLiteral() ast.Node {
	tok := p.current()
	p.advance()
	return &ast.KeywordLiteral{Token: tok, Kind: sexp.Symbol(tok.Type.String())}
}

// parseSourceKeyword expands __FILE__, __LINE__ and __ENCODING__.
func (p *Parser) parseSourceKeyword() ast.Node {
	tok := p.current()
	p.advance()
	switch tok.Type {
	case token.KEYWORD___FILE__:
		return &ast.StringLiteral{Token: tok, Value: displayFile(p.file)}
	case token.KEYWORD___LINE__:
		return &ast.IntegerLiteral{Token: tok, Value: int64(tok.Line + 1)}
	}
	return &ast.ScopedConstant{
		Token: tok,
		Scope: &ast.Constant{Token: tok, Name: "Encoding"},
		Name:  "UTF_8",
	}
}

func (p *Parser) parseVariable() ast.Node {
	tok := p.current()
	p.advance()
	v := &ast.Variable{Token: tok, Name: tok.Literal}
	switch tok.Type {
	case token.IVAR:
		v.Kind = "ivar"
	case token.CVAR:
		v.Kind = "cvar"
	case token.BACK_REF:
		v.Kind, v.Name = "back_ref", strings.TrimPrefix(tok.Literal, "$")
	default:
		v.Kind = "gvar"
	}
	return v
}

func (p *Parser) parseNthRef() ast.Node {
	tok := p.current()
	p.advance()
	n, err := strconv.ParseInt(strings.TrimPrefix(tok.Literal, "$"), 10, 64)
	if err != nil {
		p.raiseUnexpected(tok, "nth_ref")
	}
	return &ast.NthRef{Token: tok, Number: n}
}

func (p *Parser) parseArrayLiteral() ast.Node {
	tok := p.current()
	p.advance()
	defer p.resetNoDo()()

	elements := p.parseArgumentList(token.RBRACKET, ARRAY)
	p.skipNewlines()
	p.expect(token.RBRACKET, "]")
	return &ast.ArrayLiteral{Token: tok, Elements: elements}
}

// parseHashLiteral parses { key => value, label: value, **other }.
func (p *Parser) parseHashLiteral() ast.Node {
	tok := p.current()
	p.advance()
	defer p.resetNoDo()()

	hash := &ast.HashLiteral{Token: tok}
	for {
		p.skipNewlines()
		if p.currentIs(token.RBRACE) {
			break
		}
		switch entry := p.current(); entry.Type {
		case token.LABEL:
			p.nextExpression()
			hash.Elements = append(hash.Elements,
				&ast.SymbolLiteral{Token: entry, Name: entry.Literal},
				p.parseLabelValue(entry, token.RBRACE, HASH))
		case token.STAR_STAR:
			hash.Elements = append(hash.Elements, p.parseExpression(HASH))
		default:
			key := p.parseExpression(HASH)
			p.skipNewlines()
			p.expect(token.EQUAL_GREATER, "=>")
			p.skipNewlines()
			hash.Elements = append(hash.Elements, key, p.parseExpression(HASH))
		}
		if !p.currentIs(token.COMMA) {
			break
		}
		p.nextExpression()
	}
	p.skipNewlines()
	p.expect(token.RBRACE, "}")
	return hash
}

// parseLabelValue parses the value after label:. An omitted value, as in
// `f(x:)`, reads the local or method of the same name.
func (p *Parser) parseLabelValue(label token.Token, closer token.Type, precedence Precedence) ast.Node {
	if p.currentIs(token.COMMA) || p.currentIs(closer) {
		if p.locals.has(label.Literal) {
			return &ast.LocalVariable{Token: label, Name: label.Literal}
		}
		return &ast.Call{Token: label, Name: label.Literal}
	}
	return p.parseExpression(precedence)
}

// parseGroupedExpression parses ( ). An empty group is nil and a group of
// several statements is a block.
func (p *Parser) parseGroupedExpression() ast.Node {
	tok := p.current()
	p.advance()
	defer p.resetNoDo()()

	body := p.parseBody(token.RPAREN)
	p.expect(token.RPAREN, ")")
	switch len(body.Statements) {
	case 0:
		return &ast.KeywordLiteral{Token: tok, Kind: "nil"}
	case 1:
		return body.Statements[0]
	}
	return body
}

// parseRangeExpression parses a..b and a...b. The end may be omitted: (1..).
func (p *Parser) parseRangeExpression(left ast.Node) ast.Node {
	tok := p.current()
	p.advance()
	r := &ast.RangeLiteral{Token: left.Pos(), Start: left, Exclusive: tok.Type == token.DOT_DOT_DOT}
	if p.atValueEnd() {
		return r
	}
	r.End = p.parseExpression(RANGE)
	return r
}

func (p *Parser) parseBeginlessRange() ast.Node {
	tok := p.current()
	p.advance()
	return &ast.RangeLiteral{
		Token:     tok,
		End:       p.parseExpression(RANGE),
		Exclusive: tok.Type == token.DOT_DOT_DOT,
	}
}

package token

// CanPrecedeCollapsibleNewline reports whether a newline directly after a
// token of this type continues the expression instead of ending it.
func (t Type) CanPrecedeCollapsibleNewline() bool {
	switch t {
	case AMPERSAND_AMPERSAND, KEYWORD_AND, MINUS_GREATER, AMPERSAND, TILDE, PIPE, CARET,
		COMMA, LESS_EQUAL_GREATER, COLON_COLON, SLASH, SLASH_EQUAL, DOT, DOT_DOT,
		EQUAL, EQUAL_EQUAL, EQUAL_EQUAL_EQUAL, STAR_STAR, STAR_STAR_EQUAL,
		GREATER, GREATER_EQUAL, EQUAL_GREATER, KEYWORD_IN, LBRACE, LBRACKET,
		LESS_LESS, LESS, LESS_EQUAL, LPAREN, EQUAL_TILDE, MINUS, MINUS_EQUAL,
		PERCENT, PERCENT_EQUAL, STAR, STAR_EQUAL, BANG, BANG_EQUAL, BANG_TILDE,
		PIPE_PIPE, KEYWORD_OR, PLUS, PLUS_EQUAL, GREATER_GREATER, AMPERSAND_DOT,
		COLON, QUESTION,
		AMPERSAND_AMPERSAND_EQUAL, PIPE_PIPE_EQUAL, AMPERSAND_EQUAL, PIPE_EQUAL,
		CARET_EQUAL, LESS_LESS_EQUAL, GREATER_GREATER_EQUAL, EMBEXPR_BEGIN:
		return true
	}
	return false
}

// CanFollowCollapsibleNewline reports whether a newline directly before a
// token of this type is insignificant.
func (t Type) CanFollowCollapsibleNewline() bool {
	switch t {
	case RBRACE, RBRACKET, RPAREN, COLON, DOT, AMPERSAND_DOT, EMBEXPR_END:
		return true
	}
	return false
}

// IsExpressionModifier reports whether the keyword can follow a statement
// as a modifier.
func (t Type) IsExpressionModifier() bool {
	switch t {
	case KEYWORD_IF, KEYWORD_UNLESS, KEYWORD_WHILE, KEYWORD_UNTIL, KEYWORD_RESCUE:
		return true
	}
	return false
}

// IsEndOfExpression reports whether the type ends the current statement.
func (t Type) IsEndOfExpression() bool {
	return t == NEWLINE || t == SEMICOLON || t == EOF || t.IsExpressionModifier()
}

// IsClosingToken reports whether the type closes a bracket pair.
func (t Type) IsClosingToken() bool {
	return t == RBRACKET || t == RBRACE || t == RPAREN
}

// CanPrecedeMethodName reports whether the next word is a method name even
// when it is spelled like a keyword or an operator.
func (t Type) CanPrecedeMethodName() bool {
	return t == DOT || t == AMPERSAND_DOT || t == COLON_COLON || t == KEYWORD_DEF
}

// IsTerminator reports whether the keyword closes or splits a body
// without belonging to it.
func (t Type) IsTerminator() bool {
	switch t {
	case KEYWORD_END, KEYWORD_ELSE, KEYWORD_ELSIF, KEYWORD_WHEN, KEYWORD_ENSURE, KEYWORD_RESCUE:
		return true
	}
	return false
}

// IsOperator returns true if the token type is an operator.
func (t Type) IsOperator() bool {
	return t >= AMPERSAND && t <= TILDE
}

// IsAssignmentOperator returns true for = and the operator-assignment forms.
func (t Type) IsAssignmentOperator() bool {
	return t == EQUAL || t.IsOpAssign()
}

// IsOpAssign returns true for operator assignments such as += and ||=.
func (t Type) IsOpAssign() bool {
	_, ok := opAssignOperators[t]
	return ok
}

var opAssignOperators = map[Type]string{
	PLUS_EQUAL:                "+",
	MINUS_EQUAL:               "-",
	STAR_EQUAL:                "*",
	SLASH_EQUAL:               "/",
	PERCENT_EQUAL:             "%",
	STAR_STAR_EQUAL:           "**",
	AMPERSAND_EQUAL:           "&",
	PIPE_EQUAL:                "|",
	CARET_EQUAL:               "^",
	LESS_LESS_EQUAL:           "<<",
	GREATER_GREATER_EQUAL:     ">>",
	PIPE_PIPE_EQUAL:           "||",
	AMPERSAND_AMPERSAND_EQUAL: "&&",
}

// OpAssignOperator returns the binary operator of an operator assignment,
// e.g. "+" for +=.
func (t Type) OpAssignOperator() string {
	return opAssignOperators[t]
}

// IsOperand reports whether a token of this type ends an operand, so that
// a following / is division and a following - is binary.
func (t Type) IsOperand() bool {
	switch t {
	case IDENT, CONSTANT, IVAR, CVAR, GVAR, NTH_REF, BACK_REF, SYMBOL, INTEGER, FLOAT,
		STRING, REGEXP, XSTRING, PERCENT_LOWER_W, PERCENT_UPPER_W, PERCENT_LOWER_I, PERCENT_UPPER_I,
		DSTRING_END, DREGEXP_END, DXSTRING_END,
		RPAREN, RBRACKET, RBRACE,
		KEYWORD_END, KEYWORD_SELF, KEYWORD_NIL, KEYWORD_TRUE, KEYWORD_FALSE,
		KEYWORD___FILE__, KEYWORD___LINE__, KEYWORD___ENCODING__:
		return true
	}
	return false
}

package parser

// scope tracks the local variables declared so far. Blocks get a scope
// with a parent and see the enclosing locals; def, class and module start
// a new root.
type scope struct {
	parent *scope
	names  map[string]bool
}

func newScope(parent *scope) *scope {
	return &scope{parent: parent, names: make(map[string]bool)}
}

func (s *scope) declare(name string) {
	s.names[name] = true
}

func (s *scope) has(name string) bool {
	for ; s != nil; s = s.parent {
		if s.names[name] {
			return true
		}
	}
	return false
}

// enterScope replaces the current scope and returns the function that
// restores it. A block scope inherits the enclosing locals.
func (p *Parser) enterScope(block bool) (leave func()) {
	saved := p.locals
	var parent *scope
	if block {
		parent = saved
	}
	p.locals = newScope(parent)
	return func() { p.locals = saved }
}

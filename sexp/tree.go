package sexp

// Node is the document form of a List used for JSON and YAML output.
type Node struct {
	Type     string `json:"type" yaml:"type"`
	Line     *int   `json:"line,omitempty" yaml:"line,omitempty"`
	Column   *int   `json:"column,omitempty" yaml:"column,omitempty"`
	Children []any  `json:"children" yaml:"children"`
}

// SymbolValue is the document form of a Symbol atom.
type SymbolValue struct {
	Symbol string `json:"sym" yaml:"sym"`
}

// RegexpValue is the document form of a Regexp atom.
type RegexpValue struct {
	Source  string `json:"regexp" yaml:"regexp"`
	Options string `json:"options,omitempty" yaml:"options,omitempty"`
}

// Tree converts l into plain values suitable for encoding/json or yaml.v3.
// Line numbers are emitted 1-based when positions is set.
func (l *List) Tree(positions bool) *Node {
	if l == nil {
		return nil
	}
	n := &Node{Type: string(l.Type()), Children: make([]any, 0, len(l.Items))}
	if positions {
		line, column := l.Line+1, l.Column
		n.Line, n.Column = &line, &column
	}
	for _, child := range l.Children() {
		n.Children = append(n.Children, treeValue(child, positions))
	}
	return n
}

func treeValue(v any, positions bool) any {
	switch v := v.(type) {
	case *List:
		if v == nil {
			return nil
		}
		return v.Tree(positions)
	case Symbol:
		return SymbolValue{Symbol: string(v)}
	case Regexp:
		return RegexpValue{Source: v.Source, Options: v.Options}
	default:
		return v
	}
}

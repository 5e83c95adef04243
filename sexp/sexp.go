// Package sexp implements positioned s-expressions following the RubyParser
// convention, e.g. s(:call, s(:lit, 1), :+, s(:lit, 2)).
package sexp

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Symbol is a Ruby symbol value appearing inside an s-expression.
type Symbol string

// plainSymbol matches symbol names that inspect without quotes.
var plainSymbol = regexp.MustCompile(`\A(?:` +
	`\$\d` +
	`|(?:@{0,2}|\$)[A-Za-z_][A-Za-z0-9_]*[?!=]?` +
	`|\$[~*$?!@/\;,.=:<>"&'` + "`" + `+]` +
	`|%|==|===|=~|!|!=|!~|\+|-|/|\*{1,2}|\[\]=?|<=>|<|<=|>|>=|<<|>>|&|\||\^|~|\+@|-@|!@|~@` +
	`)\z`)

// Inspect returns the symbol as Ruby would print it: :foo, :+, :"foo bar".
func (s Symbol) Inspect() string {
	name := string(s)
	if plainSymbol.MatchString(name) {
		return ":" + name
	}
	return ":" + quote(name)
}

func (s Symbol) String() string { return string(s) }

// Regexp is a regexp literal atom, printed as /source/options.
type Regexp struct {
	Source  string
	Options string
}

func (r Regexp) String() string { return "/" + r.Source + "/" + r.Options }

// List is one s-expression. Items[0] is the node type symbol.
type List struct {
	Line   int
	Column int
	Items  []any
}

// New creates a list of the given type positioned at line/column (0-based).
func New(line, column int, typ Symbol, children ...any) *List {
	items := make([]any, 0, len(children)+1)
	items = append(items, typ)
	items = append(items, children...)
	return &List{Line: line, Column: column, Items: items}
}

// Type returns the node type symbol.
func (l *List) Type() Symbol {
	if l == nil || len(l.Items) == 0 {
		return ""
	}
	sym, _ := l.Items[0].(Symbol)
	return sym
}

// Children returns every item after the type symbol.
func (l *List) Children() []any {
	if l == nil || len(l.Items) < 2 {
		return nil
	}
	return l.Items[1:]
}

// Append adds children in place and returns the list.
func (l *List) Append(children ...any) *List {
	l.Items = append(l.Items, children...)
	return l
}

func (l *List) String() string {
	if l == nil {
		return "nil"
	}
	var b strings.Builder
	b.WriteString("s(")
	for i, item := range l.Items {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(Inspect(item))
	}
	b.WriteString(")")
	return b.String()
}

// Inspect renders one s-expression item in Ruby inspect notation.
func Inspect(v any) string {
	switch v := v.(type) {
	case nil:
		return "nil"
	case *List:
		return v.String()
	case Symbol:
		return v.Inspect()
	case string:
		return quote(v)
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return FormatFloat(v)
	case Regexp:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// FormatFloat formats f the way Ruby's Float#inspect does.
func FormatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case math.IsNaN(f):
		return "NaN"
	}
	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		mantissa, exp, _ := strings.Cut(s, "e")
		if !strings.Contains(mantissa, ".") {
			mantissa += ".0"
		}
		return mantissa + "e" + exp
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func quote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			fmt.Fprintf(&b, "\\x%02X", s[i])
			i++
			continue
		}
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		case '\f':
			b.WriteString(`\f`)
		case '\v':
			b.WriteString(`\v`)
		case '\a':
			b.WriteString(`\a`)
		case '\b':
			b.WriteString(`\b`)
		case 0x1b:
			b.WriteString(`\e`)
		case '#':
			if i+1 < len(s) && (s[i+1] == '{' || s[i+1] == '$' || s[i+1] == '@') {
				b.WriteString(`\#`)
			} else {
				b.WriteByte('#')
			}
		default:
			switch {
			case r < 0x20 || r == 0x7f:
				fmt.Fprintf(&b, "\\x%02X", r)
			case !unicode.IsPrint(r):
				fmt.Fprintf(&b, "\\u%04X", r)
			default:
				b.WriteRune(r)
			}
		}
		i += size
	}
	b.WriteByte('"')
	return b.String()
}

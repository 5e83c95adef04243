package diag

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/width"
)

// RenderOptions controls Render output.
type RenderOptions struct {
	// Color enables lipgloss styling of the header, gutter and caret.
	Color bool
	// Context is the number of lines shown before and after the error line.
	Context int
}

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	gutterStyle = lipgloss.NewStyle().Faint(true)
	caretStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
)

// Render writes err with a source snippet and a caret under the offending
// column. Errors that are not a *SyntaxError are written as-is.
func Render(w io.Writer, err error, src string, opts RenderOptions) error {
	var se *SyntaxError
	if !errors.As(err, &se) {
		_, werr := fmt.Fprintf(w, "%v\n", err)
		return werr
	}

	style := func(s lipgloss.Style, text string) string {
		if opts.Color {
			return s.Render(text)
		}
		return text
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", style(headerStyle, se.Position()+": SyntaxError:"), se.Message)

	lines := strings.Split(src, "\n")
	line := se.Line
	if line < 1 || line > len(lines) {
		_, werr := io.WriteString(w, b.String())
		return werr
	}

	first := max(1, line-opts.Context)
	last := min(len(lines), line+opts.Context)
	for n := first; n <= last; n++ {
		fmt.Fprintf(&b, "%s %s\n", style(gutterStyle, fmt.Sprintf("%4d |", n)), lines[n-1])
		if n == line {
			pad := DisplayWidth(prefix(lines[n-1], se.Column))
			fmt.Fprintf(&b, "%s %s%s\n", style(gutterStyle, "     |"), strings.Repeat(" ", pad), style(caretStyle, "^"))
		}
	}

	_, werr := io.WriteString(w, b.String())
	return werr
}

func prefix(line string, column int) string {
	if column > len(line) {
		column = len(line)
	}
	if column < 0 {
		column = 0
	}
	return line[:column]
}

// DisplayWidth returns the number of terminal cells s occupies. East Asian
// wide and fullwidth runes count as two cells, tabs as one.
func DisplayWidth(s string) int {
	n := 0
	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		s = s[size:]
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			n += 2
		default:
			n++
		}
	}
	return n
}

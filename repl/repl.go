// Package repl implements an interactive parse loop: each complete input is
// parsed and printed as an s-expression.
package repl

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/peterh/liner"

	"github.com/alexisbouchez/rbparse/ast"
	"github.com/alexisbouchez/rbparse/diag"
	"github.com/alexisbouchez/rbparse/parser"
)

const (
	PROMPT       = "rb> "
	CONTINUATION = "..> "
)

// Options configures a session.
type Options struct {
	// File names the source in error messages.
	File     string
	MaxDepth int
	Color    bool
	// HistoryFile is read at start and written at exit when liner is used.
	HistoryFile string
	Logger      *slog.Logger
}

// lineReader yields one line per call; io.EOF ends the session.
type lineReader interface {
	readLine(prompt string) (string, error)
}

// Start runs the loop until exit, quit or end of input. Line editing and
// history are used when in is a terminal.
func Start(in io.Reader, out io.Writer, opts Options) error {
	if opts.File == "" {
		opts.File = "(repl)"
	}
	if opts.MaxDepth == 0 {
		opts.MaxDepth = parser.DefaultMaxDepth
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if f, ok := in.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		return startLiner(out, opts)
	}
	return run(&scannerReader{scanner: bufio.NewScanner(in), out: out}, out, opts)
}

func startLiner(out io.Writer, opts Options) error {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if opts.HistoryFile != "" {
		if f, err := os.Open(opts.HistoryFile); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			f, err := os.Create(opts.HistoryFile)
			if err != nil {
				opts.Logger.Warn("cannot write history", "file", opts.HistoryFile, "error", err)
				return
			}
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}()
	}

	fmt.Fprintln(out, "Ruby parser (rbparse)")
	fmt.Fprintln(out, "Type 'exit' to quit")
	fmt.Fprintln(out)

	return run(&linerReader{state: ln}, out, opts)
}

func run(r lineReader, out io.Writer, opts Options) error {
	for {
		src, ok, err := readInput(r, opts)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}

		switch strings.TrimSpace(src) {
		case "":
			continue
		case "exit", "quit":
			fmt.Fprintln(out, "Goodbye!")
			return nil
		}

		if h, ok := r.(interface{ appendHistory(string) }); ok {
			h.appendHistory(src)
		}
		if err := Eval(out, src, opts); err != nil {
			return err
		}
	}
}

// readInput collects lines until they parse or fail for a reason more input
// cannot fix. ok is false at end of input.
func readInput(r lineReader, opts Options) (src string, ok bool, err error) {
	var b strings.Builder
	for {
		prompt := PROMPT
		if b.Len() > 0 {
			prompt = CONTINUATION
		}
		line, err := r.readLine(prompt)
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			if b.Len() > 0 {
				return b.String(), true, nil
			}
			return "", false, nil
		}
		if err != nil {
			return "", false, fmt.Errorf("failed to read input: %w", err)
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if b.Len() == len(line) && isCommand(line) {
			return src, true, nil
		}
		_, perr := parser.Parse(src, opts.File, parser.WithMaxDepth(opts.MaxDepth))
		if perr != nil && diag.IsIncomplete(perr) {
			opts.Logger.Debug("incomplete input", "error", perr)
			continue
		}
		return src, true, nil
	}
}

func isCommand(line string) bool {
	switch strings.TrimSpace(line) {
	case "", "exit", "quit":
		return true
	}
	return false
}

// Eval parses src and writes its s-expression, or the rendered syntax error,
// to out.
func Eval(out io.Writer, src string, opts Options) error {
	program, err := parser.Parse(src, opts.File, parser.WithMaxDepth(opts.MaxDepth))
	if err != nil {
		return diag.Render(out, err, src, diag.RenderOptions{Color: opts.Color})
	}
	_, werr := fmt.Fprintln(out, "=> "+ast.String(program))
	return werr
}

type linerReader struct {
	state *liner.State
}

func (r *linerReader) readLine(prompt string) (string, error) {
	return r.state.Prompt(prompt)
}

func (r *linerReader) appendHistory(src string) {
	r.state.AppendHistory(strings.ReplaceAll(src, "\n", " "))
}

type scannerReader struct {
	scanner *bufio.Scanner
	out     io.Writer
}

func (r *scannerReader) readLine(prompt string) (string, error) {
	fmt.Fprint(r.out, prompt)
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return r.scanner.Text(), nil
}

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/alexisbouchez/rbparse/ast"
	"github.com/alexisbouchez/rbparse/sexp"
	"github.com/alexisbouchez/rbparse/token"
)

// source is one unit of input with the name used in positions.
type source struct {
	file string
	text string
}

// readSource returns the code given with -e, standard input for "-", or the
// named file.
func readSource(cmd *cobra.Command, args []string, expr string) (source, error) {
	if cmd.Flags().Changed("expr") {
		return source{file: "-e", text: expr}, nil
	}
	if len(args) == 0 {
		return source{}, fmt.Errorf("no input: pass a file, - for stdin, or -e CODE")
	}
	return readFile(cmd.InOrStdin(), args[0])
}

func readFile(stdin io.Reader, name string) (source, error) {
	if name == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return source{}, fmt.Errorf("failed to read stdin: %w", err)
		}
		return source{file: "-", text: string(data)}, nil
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return source{}, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return source{file: name, text: string(data)}, nil
}

// writeTree prints a parsed program in the configured format.
func writeTree(w io.Writer, program *ast.Block) error {
	list := program.Sexp()
	switch cfg.Format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(list.Tree(cfg.Positions))
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(list.Tree(cfg.Positions)); err != nil {
			return err
		}
		return enc.Close()
	}
	_, err := fmt.Fprintln(w, list.String())
	return err
}

// writeTokens prints token records: one s-expression or JSON object per
// line, or a single YAML sequence.
func writeTokens(w io.Writer, records []*token.Record) error {
	switch cfg.Format {
	case "json":
		enc := json.NewEncoder(w)
		for _, rec := range records {
			if err := enc.Encode(rec); err != nil {
				return err
			}
		}
		return nil
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(records); err != nil {
			return err
		}
		return enc.Close()
	}
	for _, rec := range records {
		if _, err := fmt.Fprintln(w, recordSexp(rec)); err != nil {
			return err
		}
	}
	return nil
}

// recordSexp renders a record as s(:token, :type[, literal][, line, column]).
func recordSexp(rec *token.Record) string {
	list := sexp.New(0, 0, "token", rec.Type)
	if rec.Literal != nil {
		list.Append(rec.Literal)
	}
	if rec.Options != "" {
		list.Append(rec.Options)
	}
	if rec.Line != nil && rec.Column != nil {
		list.Append(int64(*rec.Line+1), int64(*rec.Column))
	}
	return list.String()
}

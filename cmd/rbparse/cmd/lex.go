package cmd

import (
	"github.com/spf13/cobra"

	"github.com/alexisbouchez/rbparse/diag"
	"github.com/alexisbouchez/rbparse/lexer"
	"github.com/alexisbouchez/rbparse/token"
)

var (
	lexExpr     string
	lexComments bool
)

var lexCmd = &cobra.Command{
	Use:   "lex [FILE|-]",
	Short: "Print the tokens of a source file",
	Long: `Lexes a source file, standard input (-) or inline code (-e) and prints
one token record per line. Lexing stops at the first invalid or
unterminated token, which is reported as a syntax error.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLex,
}

func init() {
	lexCmd.Flags().StringVarP(&lexExpr, "expr", "e", "", "lex CODE instead of a file")
	lexCmd.Flags().BoolVar(&lexComments, "comments", false, "keep comment tokens")
	rootCmd.AddCommand(lexCmd)
}

func runLex(cmd *cobra.Command, args []string) error {
	src, err := readSource(cmd, args, lexExpr)
	if err != nil {
		return err
	}

	tokens, diagnostics := lexer.Tokenize(src.text, src.file, lexer.WithComments(lexComments))
	logger.Debug("lexed", "file", src.file, "tokens", len(tokens), "errors", len(diagnostics))

	records := make([]*token.Record, 0, len(tokens))
	for _, tok := range tokens {
		if tok.Type.IsDeferredError() {
			break
		}
		rec, err := tok.Record(cfg.Positions)
		if err != nil {
			return err
		}
		if rec != nil {
			records = append(records, rec)
		}
	}
	if err := writeTokens(cmd.OutOrStdout(), records); err != nil {
		return err
	}

	if len(diagnostics) == 0 {
		return nil
	}
	stderr := cmd.ErrOrStderr()
	for _, d := range diagnostics {
		if err := diag.Render(stderr, d, src.text, diag.RenderOptions{Color: useColor(stderr)}); err != nil {
			return err
		}
	}
	return ErrSyntax
}

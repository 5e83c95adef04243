package cmd

import (
	"github.com/spf13/cobra"

	"github.com/alexisbouchez/rbparse/diag"
	"github.com/alexisbouchez/rbparse/parser"
)

var (
	parseExpr    string
	parseContext int
)

var parseCmd = &cobra.Command{
	Use:   "parse [FILE|-]",
	Short: "Print the syntax tree of a source file",
	Long: `Parses a source file, standard input (-) or inline code (-e) and
prints its tree as an s-expression, JSON or YAML.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().StringVarP(&parseExpr, "expr", "e", "", "parse CODE instead of a file")
	parseCmd.Flags().IntVar(&parseContext, "context", 0, "source lines shown around a syntax error")
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	src, err := readSource(cmd, args, parseExpr)
	if err != nil {
		return err
	}

	program, err := parser.Parse(src.text, src.file, parser.WithMaxDepth(cfg.MaxDepth))
	if err != nil {
		stderr := cmd.ErrOrStderr()
		opts := diag.RenderOptions{Color: useColor(stderr), Context: parseContext}
		if rerr := diag.Render(stderr, err, src.text, opts); rerr != nil {
			return rerr
		}
		return ErrSyntax
	}
	logger.Debug("parsed", "file", src.file, "statements", len(program.Statements))
	return writeTree(cmd.OutOrStdout(), program)
}

package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/alexisbouchez/rbparse/config"
)

// ErrSyntax is returned by commands that reported at least one syntax
// error. The errors themselves are already written to stderr.
var ErrSyntax = errors.New("syntax errors found")

var (
	cfgFile   string
	verbose   bool
	format    string
	maxDepth  int
	positions bool
	color     string

	cfg    *config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "rbparse",
	Short: "Ruby lexer and parser",
	Long: `rbparse turns Ruby source into tokens or an abstract syntax tree
printed as s-expressions, JSON or YAML, and reports syntax errors with
the offending line and a caret under the column.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Execute runs the root command and reports errors other than ErrSyntax.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil && !errors.Is(err, ErrSyntax) {
		printError(rootCmd.ErrOrStderr(), err)
	}
	return err
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: ./rbparse.yaml or ./rbparse.toml)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	flags.StringVarP(&format, "format", "f", "", "output format: sexp, json or yaml")
	flags.IntVar(&maxDepth, "max-depth", 0, "maximum expression nesting")
	flags.BoolVar(&positions, "positions", false, "include line and column in json and yaml output")
	flags.StringVar(&color, "color", "", "colored diagnostics: auto, always or never")
}

// setup loads the configuration, applies flag overrides and builds the logger.
func setup(cmd *cobra.Command, args []string) error {
	c, err := config.Resolve(cfgFile)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("format") {
		c.Format = format
	}
	if flags.Changed("max-depth") {
		c.MaxDepth = maxDepth
	}
	if flags.Changed("positions") {
		c.Positions = positions
	}
	if flags.Changed("color") {
		c.Color = color
	}
	if verbose {
		c.LogLevel = "debug"
	}
	if err := c.Validate(); err != nil {
		return err
	}

	cfg = c
	logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: cfg.Level()}))
	logger.Debug("configuration loaded", "format", cfg.Format, "max_depth", cfg.MaxDepth, "workers", cfg.Workers)
	return nil
}

// useColor resolves the color setting against w.
func useColor(w io.Writer) bool {
	switch cfg.Color {
	case "always":
		return true
	case "never":
		return false
	}
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %v\n", err)
}

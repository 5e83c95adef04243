package cmd

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexisbouchez/rbparse/diag"
	"github.com/alexisbouchez/rbparse/parser"
)

var checkWorkers int

var checkCmd = &cobra.Command{
	Use:   "check FILE...",
	Short: "Report syntax errors in source files",
	Long: `Parses every file concurrently and reports each syntax error. Nothing
is printed for files that parse, apart from the final summary. The exit
status is 1 when any file fails.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().IntVarP(&checkWorkers, "workers", "j", 0, "number of files parsed at once (default from config)")
	rootCmd.AddCommand(checkCmd)
}

// checkResult is the outcome for one file.
type checkResult struct {
	src      source
	err      error
	readErr  error
	duration time.Duration
}

func runCheck(cmd *cobra.Command, args []string) error {
	workers := cfg.Workers
	if checkWorkers > 0 {
		workers = checkWorkers
	}
	results := checkFiles(cmd, args, workers)

	stderr := cmd.ErrOrStderr()
	opts := diag.RenderOptions{Color: useColor(stderr)}
	var failed int
	var readErr error
	for _, r := range results {
		switch {
		case r.readErr != nil:
			printError(stderr, r.readErr)
			readErr = errors.Join(readErr, r.readErr)
		case r.err != nil:
			failed++
			if err := diag.Render(stderr, r.err, r.src.text, opts); err != nil {
				return err
			}
		default:
			logger.Debug("file ok", "file", r.src.file, "duration", r.duration)
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%d file(s) checked, %d with syntax errors\n", len(results), failed)
	if failed > 0 {
		return ErrSyntax
	}
	if readErr != nil {
		return fmt.Errorf("some files could not be read: %w", readErr)
	}
	return nil
}

// checkFiles parses names with at most workers goroutines. Results keep the
// order of names.
func checkFiles(cmd *cobra.Command, names []string, workers int) []checkResult {
	results := make([]checkResult, len(names))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for range min(workers, len(names)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = checkFile(cmd, names[i])
			}
		}()
	}

	for i := range names {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return results
}

func checkFile(cmd *cobra.Command, name string) checkResult {
	src, err := readFile(cmd.InOrStdin(), name)
	if err != nil {
		return checkResult{src: source{file: name}, readErr: err}
	}
	start := time.Now()
	_, err = parser.Parse(src.text, src.file, parser.WithMaxDepth(cfg.MaxDepth))
	return checkResult{src: src, err: err, duration: time.Since(start)}
}

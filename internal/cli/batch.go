package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/hightemp/countrypick/internal/batch"
)

var (
	batchConcurrency int
	batchMaxMatches  int
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Resolve country names read from stdin, one per line",
	Long: `Reads one query per line from stdin and prints the best match for each,
in input order. With --json every result carries its ranked matches.

Examples:
  cat names.txt | countrypick batch
  countrypick batch --locale de --json < names.txt`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if term.IsTerminal(int(os.Stdin.Fd())) {
			return cmd.Help()
		}
		a, err := loadApp(cmd.Context(), globals, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		concurrency := a.cfg.Batch.Concurrency
		if cmd.Flags().Changed("concurrency") {
			concurrency = batchConcurrency
		}
		return runBatch(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), a, concurrency, batchMaxMatches)
	},
}

func init() {
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 0, "parallel workers (default from config)")
	batchCmd.Flags().IntVar(&batchMaxMatches, "max-matches", batch.DefaultMaxMatches, "matches kept per query in JSON output (0 for all)")
}

func runBatch(ctx context.Context, r io.Reader, w io.Writer, a *app, concurrency, maxMatches int) error {
	if concurrency < 1 {
		return fmt.Errorf("%w: concurrency must be positive", errInvalidInput)
	}
	session, err := a.newSession()
	if err != nil {
		return err
	}

	processor := batch.NewProcessor(session.SearchIndex(), concurrency, a.logger)
	processor.SetMaxMatches(maxMatches)
	if concurrency == 1 {
		return processor.ProcessInput(ctx, r, w, a.json)
	}
	return processor.ProcessInputConcurrent(ctx, r, w, a.json)
}

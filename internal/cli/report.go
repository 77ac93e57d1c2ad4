package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/okian/ptt/internal/adapters/profile"
	"github.com/okian/ptt/internal/adapters/watch"
	"github.com/okian/ptt/pkg/logger"
	"github.com/spf13/cobra"
)

const stdinPath = "-"

func newReportCmd(st *state) *cobra.Command {
	var inputFormat string
	cmd := &cobra.Command{
		Use:   "report <file>",
		Short: "Full report for one exported profile",
		Long: `report rates every chart of a profile document, computes the potential,
the target score per chart and the required constants for the next step.
Use - to read the document from stdin together with --input-format.`,
		Example: `  ptt report export.json
  cat export.yaml | ptt report - --input-format yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if args[0] != stdinPath {
				report, err := st.svc.EvaluateFile(ctx, args[0])
				if err != nil {
					return err
				}
				return st.renderer.Report(cmd.OutOrStdout(), report)
			}

			format, err := profile.ParseFormat(inputFormat)
			if err != nil {
				return err
			}
			p, err := profile.Decode(cmd.InOrStdin(), format)
			if err != nil {
				return err
			}
			report, err := st.svc.Evaluate(ctx, "stdin", p)
			if err != nil {
				return err
			}
			return st.renderer.Report(cmd.OutOrStdout(), report)
		},
	}
	cmd.Flags().StringVar(&inputFormat, "input-format", "json", "format of stdin input: json, yaml")
	return cmd
}

func newBatchCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "batch <file>...",
		Short: "Reports for many profiles, evaluated concurrently",
		Long: `batch evaluates every file on a pool of workers and prints the reports in
the order the files were given. Files that fail are reported on stderr and
make the command exit non-zero after all files were processed.`,
		Example: `  ptt batch exports/*.json -w 8 -f json`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results := st.svc.Batch(cmd.Context(), args)
			failed := 0
			for _, r := range results {
				if r.Err != nil {
					failed++
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", r.Path, r.Err)
					continue
				}
				if err := st.renderer.Report(cmd.OutOrStdout(), r.Report); err != nil {
					return err
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d profiles failed", failed, len(results))
			}
			return nil
		},
	}
}

func newWatchCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:     "watch <file>",
		Short:   "Re-render a profile report every time the file is saved",
		Example: `  ptt watch export.json`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
			handler := func(ctx context.Context, path string) {
				report, err := st.svc.EvaluateFile(ctx, path)
				if err != nil {
					fmt.Fprintf(errOut, "%s: %v\n", path, err)
					return
				}
				if err := st.renderer.Report(out, report); err != nil {
					st.log.Error(ctx, "render report", logger.Error(err))
				}
			}

			if _, err := os.Stat(args[0]); err != nil {
				return fmt.Errorf("watch: %w", err)
			}
			w, err := watch.New(args[0], handler,
				watch.WithDebounce(st.cfg.WatchDebounce()),
				watch.WithLogger(logger.Named("watch")),
				watch.WithMetrics(st.metrics),
			)
			if err != nil {
				return err
			}
			return w.Run(cmd.Context())
		},
	}
}

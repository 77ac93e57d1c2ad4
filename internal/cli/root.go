// Package cli provides the command-line interface for ptt.
package cli

import (
	"context"
	"fmt"

	service "github.com/okian/ptt/internal/app"
	"github.com/okian/ptt/internal/adapters/render"
	"github.com/okian/ptt/internal/config"
	"github.com/okian/ptt/pkg/logger"
	"github.com/okian/ptt/pkg/metrics"
	"github.com/spf13/cobra"
)

// Version is set at build time.
var Version = "0.1.0"

// state is shared by the commands of one invocation.
type state struct {
	// flags
	configFile string
	format     string
	noColor    bool
	workers    int
	verbose    bool

	cfg      *config.Config
	svc      *service.Service
	renderer render.Renderer
	log      logger.Logger
	metrics  *metrics.Manager
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	st := &state{metrics: metrics.Global()}

	root := &cobra.Command{
		Use:   "ptt",
		Short: "Potential rating calculator",
		Long: `ptt computes play ratings and the overall potential from scores and
chart constants, finds the score that lifts the displayed potential by one
step, and lists the chart constants needed for the next step per grade.

Reports can be built from exported profile documents (JSON or YAML),
in batches, or continuously while a file is being edited.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "version" || cmd.Name() == "help" {
				return nil
			}
			return st.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&st.configFile, "config", "c", "", "YAML config file (default $PTT_CONFIG)")
	flags.StringVarP(&st.format, "format", "f", "", "output format: text, json, yaml")
	flags.BoolVar(&st.noColor, "no-color", false, "disable styled text output")
	flags.IntVarP(&st.workers, "workers", "w", 0, "batch worker count")
	flags.BoolVarP(&st.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		newRatingCmd(st),
		newTargetCmd(st),
		newRequiredCmd(st),
		newReportCmd(st),
		newBatchCmd(st),
		newWatchCmd(st),
		newVersionCmd(),
	)
	for _, c := range root.Commands() {
		st.withTeardown(c)
	}
	return root
}

// withTeardown makes c flush metrics and close the log file whether or not
// it fails. cobra skips post-run hooks after a RunE error.
func (st *state) withTeardown(c *cobra.Command) {
	run := c.RunE
	if run == nil {
		return
	}
	c.RunE = func(cmd *cobra.Command, args []string) error {
		err := run(cmd, args)
		if terr := st.teardown(cmd.Context()); err == nil {
			err = terr
		}
		return err
	}
}

func (st *state) setup(cmd *cobra.Command) error {
	ctx := cmd.Context()

	cfg, err := config.Load(ctx, config.WithFile(st.configFile))
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("format") {
		cfg.OutputFormat = st.format
	}
	if st.noColor {
		cfg.Color = false
	}
	if st.workers > 0 {
		cfg.WorkerCount = st.workers
	}
	if st.verbose {
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	st.cfg = cfg

	if err := logger.Init(
		logger.WithWriter(cmd.ErrOrStderr()),
		logger.WithFile(cfg.LogFile),
		logger.WithLevel(cfg.LogLevel),
	); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	st.log = logger.Named("cli")

	st.renderer, err = render.New(cfg.OutputFormat, render.WithColor(cfg.Color))
	if err != nil {
		return err
	}

	st.svc = service.New(
		service.WithLogger(logger.Named("service")),
		service.WithMetrics(st.metrics),
		service.WithTargetScores(cfg.ShowTargetScore),
		service.WithRequiredConstants(cfg.ShowRequiredConstants),
		service.WithWorkerCount(cfg.WorkerCount),
		service.WithQueueSize(cfg.QueueSize),
	)
	st.log.Debug(ctx, "configured",
		logger.String("format", cfg.OutputFormat),
		logger.Int("workers", cfg.WorkerCount),
	)
	return nil
}

func (st *state) teardown(ctx context.Context) error {
	if st.cfg == nil {
		return nil
	}
	if st.cfg.MetricsFile != "" {
		if err := st.metrics.WriteTextfile(st.cfg.MetricsFile); err != nil {
			st.log.Error(ctx, "write metrics", logger.Error(err))
		}
	}
	return logger.Sync()
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "ptt %s\n", Version)
		},
	}
}

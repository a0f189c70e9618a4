package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roach88/carlog/internal/config"
	"github.com/roach88/carlog/internal/engine"
	"github.com/roach88/carlog/internal/logger"
	"github.com/roach88/carlog/internal/metrics"
	"github.com/roach88/carlog/internal/report"
)

// RootOptions holds the state shared by all commands once flags are parsed.
type RootOptions struct {
	// ExeDir overrides the directory default paths resolve against.
	// Empty means the directory of the running executable.
	ExeDir string

	Config  *config.Config
	Logger  *zap.Logger
	Metrics *metrics.Manager
}

// NewRootCommand creates the root command for the carlog CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "carlog",
		Short: "carlog - fuel and ride bookkeeping for one car",
		Long: `Keep a car's fuel purchases and ride notes in a local SQLite store.

Without a subcommand carlog creates any missing tables, merges the
declarative source (tableValues.json next to the executable) into the
store, and checks the stored fuel history for payment and mileage errors
and full-tank efficiency.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStages(cmd, opts, engine.StageAll)
		},
	}

	config.RegisterFlags(cmd.PersistentFlags())

	cmd.AddCommand(NewCheckCommand(opts))
	cmd.AddCommand(NewReconcileCommand(opts))
	cmd.AddCommand(NewRidesCommand(opts))

	return cmd
}

// load resolves configuration and builds the logger and metrics manager.
func (o *RootOptions) load(cmd *cobra.Command) error {
	cfg, err := config.Load(config.LoadOptions{ExeDir: o.ExeDir, Flags: cmd.Flags()})
	if err != nil {
		f := &OutputFormatter{Format: report.FormatText, Writer: cmd.OutOrStdout(), ErrWriter: cmd.ErrOrStderr()}
		return fail(f, ErrCodeConfig, err)
	}

	log, err := logger.NewWithWriter(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		f := &OutputFormatter{Format: cfg.Format, Writer: cmd.OutOrStdout(), ErrWriter: cmd.ErrOrStderr()}
		return fail(f, ErrCodeConfig, err)
	}

	o.Config = cfg
	o.Logger = log
	o.Metrics = metrics.NewManager()
	log.Debug("configuration loaded",
		zap.String("database", cfg.Database),
		zap.String("source", cfg.Source),
		zap.String("format", cfg.Format),
	)
	return nil
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Config.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
	}
}

func (o *RootOptions) engine(stages engine.Stage) *engine.Engine {
	return engine.New(engine.Options{
		Database: o.Config.Database,
		Source:   o.Config.Source,
		Stages:   stages,
	}, o.Logger, o.Metrics)
}

// runStages performs a run and writes the metrics file, if configured,
// whether or not the run succeeded.
func runStages(cmd *cobra.Command, opts *RootOptions, stages engine.Stage) error {
	f := opts.formatter(cmd)

	sink, err := report.New(f.Format, f.Writer)
	if err != nil {
		return fail(f, ErrCodeConfig, err)
	}

	runErr := opts.engine(stages).Run(cmd.Context(), sink)

	if err := opts.Metrics.WriteTextfile(opts.Config.MetricsFile); err != nil {
		opts.Logger.Warn("metrics not written", zap.Error(err))
	}

	if runErr != nil {
		return fail(f, errorCode(runErr), runErr)
	}
	return nil
}

// fail reports err through the formatter and converts it to an ExitError.
func fail(f *OutputFormatter, code string, err error) error {
	if outErr := f.Error(code, err.Error(), nil); outErr != nil {
		return WrapExitError(ExitFailure, fmt.Sprintf("%s: report error", code), outErr)
	}
	return WrapExitError(ExitFailure, code, err)
}

// Package cmd provides the command-line interface of archgen.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/archgen/compiler"
	"github.com/sarchlab/archgen/datarecording"
	"github.com/sarchlab/archgen/internal/settings"
	"github.com/sarchlab/archgen/internal/view"
)

type rootOptions struct {
	makeBuild  bool
	genRoot    string
	projectDir string
	jobs       int
	record     string
	dumpModel  string
	debug      bool
	logJSON    bool
}

// NewRootCommand creates the archgen command with all its subcommands.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "archgen [flags] <build_id> <config_path>",
		Short: "Compile an architecture description into simulator sources.",
		Long: "archgen validates an architecture description, derives cache " +
			"geometry and DRAM timing, links the memory hierarchy and writes " +
			"the generated sources of one simulator build to " +
			"<gen-root>/<build_id>.",
		Version:       Version,
		Args:          exactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(cmd, opts, args[0], args[1])
		},
	}

	cmd.CompletionOptions.DisableDefaultCmd = true

	f := cmd.Flags()
	f.BoolVarP(&opts.makeBuild, "make-build-now", "b", false,
		"Run the downstream build after generating the sources")
	f.StringVar(&opts.genRoot, "gen-root", "",
		"Directory holding one output directory per build (default $"+
			settings.EnvGenRoot+" or "+settings.DefaultGenRoot+")")
	f.StringVar(&opts.projectDir, "project-dir", ".",
		"Directory the downstream build runs in")
	f.IntVarP(&opts.jobs, "jobs", "j", 0,
		"Parallel jobs of the downstream build (default $"+
			settings.EnvBuildJobs+" or the number of cores)")
	f.StringVar(&opts.record, "record", "",
		"Record the run in an SQLite file or clickhouse:// DSN (default $"+
			settings.EnvLedger+")")
	f.StringVarP(&opts.dumpModel, "dump-model", "o", "",
		"Print the elaborated model. One of: (json | yaml)")

	pf := cmd.PersistentFlags()
	pf.BoolVar(&opts.debug, "debug", false, "Set log level to debug")
	pf.BoolVar(&opts.logJSON, "log-json", false, "Print logs as JSON")

	cmd.AddCommand(
		newInspectCommand(opts),
		newHistoryCommand(),
		newVersionCommand(),
	)

	return cmd
}

// Execute runs archgen and exits the process.
func Execute() {
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		color.NoColor = true
	}

	if err := settings.LoadDotEnv(".env"); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		atexit.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := NewRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		atexit.Exit(1)
	}

	atexit.Exit(0)
}

func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) == n {
			return nil
		}

		_ = cmd.Usage()

		return fmt.Errorf("requires exactly %d arguments, got %d", n, len(args))
	}
}

func newLogger(w io.Writer, opts *rootOptions, s settings.Settings) (view.Logger, error) {
	level, err := view.ParseLogLevel(s.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", settings.EnvLog, err)
	}

	if opts.debug {
		level = view.LogLevelDebug
	}

	if opts.logJSON {
		return view.NewJSONLogger(w, level), nil
	}

	return view.NewHumanLogger(w, level), nil
}

// resolveSettings merges the environment with the flags given on the command
// line. Flags win.
func resolveSettings(cmd *cobra.Command, opts *rootOptions) (settings.Settings, error) {
	s, err := settings.FromEnv()
	if err != nil {
		return s, err
	}

	if opts.genRoot != "" {
		s.GenRoot = opts.genRoot
	}

	if cmd.Flags().Changed("jobs") {
		if opts.jobs <= 0 {
			return s, fmt.Errorf("--jobs must be positive, got %d", opts.jobs)
		}

		s.BuildJobs = opts.jobs
	}

	if opts.record != "" {
		s.Ledger = opts.record
	}

	return s, nil
}

func runCompile(cmd *cobra.Command, opts *rootOptions, buildID, configPath string) error {
	var (
		dumpFormat compiler.DumpFormat
		err        error
	)

	if opts.dumpModel != "" {
		dumpFormat, err = compiler.ParseDumpFormat(opts.dumpModel)
		if err != nil {
			return err
		}
	}

	s, err := resolveSettings(cmd, opts)
	if err != nil {
		return err
	}

	logger, err := newLogger(cmd.ErrOrStderr(), opts, s)
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	b := compiler.MakeBuilder().
		WithGenRoot(s.GenRoot).
		WithProjectDir(opts.projectDir).
		WithBuildJobs(s.BuildJobs).
		WithLogger(logger).
		WithBuildTool(compiler.ExecBuildTool{
			Command: s.BuildCmd,
			Stdout:  cmd.OutOrStdout(),
			Stderr:  cmd.ErrOrStderr(),
		})

	var ledger *datarecording.Ledger
	if s.Ledger != "" {
		ledger, err = datarecording.Open(ctx, s.Ledger)
		if err != nil {
			return fmt.Errorf("opening ledger: %w", err)
		}

		logger.Debug("recording run", "ledger", s.Ledger, "run", ledger.RunID())
		b = b.WithRecorder(ledger)
	}

	err = compileAndBuild(cmd, opts, b.Build(), buildID, configPath, dumpFormat)

	if ledger != nil {
		status := datarecording.StatusOK
		if err != nil {
			status = datarecording.StatusFailed
		}

		if endErr := ledger.End(status); endErr != nil {
			logger.Warn("recording run failed", "error", endErr)
		}
	}

	return err
}

func compileAndBuild(
	cmd *cobra.Command,
	opts *rootOptions,
	c *compiler.Compiler,
	buildID, configPath string,
	dumpFormat compiler.DumpFormat,
) error {
	ctx := cmd.Context()

	desc, err := c.Compile(ctx, buildID, configPath)
	if err != nil {
		return err
	}

	if dumpFormat != "" {
		err = compiler.DumpModel(cmd.OutOrStdout(), desc.Model, dumpFormat)
		if err != nil {
			return fmt.Errorf("dumping model: %w", err)
		}
	}

	if !opts.makeBuild {
		return nil
	}

	return c.Build(ctx, desc)
}

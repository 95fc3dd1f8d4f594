package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	"github.com/sarchlab/archgen/arch"
	"github.com/sarchlab/archgen/codegen"
	"github.com/sarchlab/archgen/monitoring"
	"github.com/sarchlab/archgen/monitoring/web"
)

type inspectOptions struct {
	port      int
	noBrowser bool
}

func newInspectCommand(root *rootOptions) *cobra.Command {
	opts := &inspectOptions{}

	cmd := &cobra.Command{
		Use:   "inspect <config_path>",
		Short: "Serve the elaborated model and its sources in a browser.",
		Long: "inspect elaborates an architecture description without writing " +
			"anything and serves the hierarchy, the DRAM timing and the " +
			"rendered sources over HTTP until interrupted.",
		Args:          exactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, root, opts, args[0])
		},
	}

	cmd.Flags().IntVar(&opts.port, "port", 0,
		"Port of the inspector (default: a random port)")
	cmd.Flags().BoolVar(&opts.noBrowser, "no-browser", false,
		"Do not open a browser")

	return cmd
}

func runInspect(
	cmd *cobra.Command,
	root *rootOptions,
	opts *inspectOptions,
	configPath string,
) error {
	s, err := resolveSettings(cmd, root)
	if err != nil {
		return err
	}

	logger, err := newLogger(cmd.ErrOrStderr(), root, s)
	if err != nil {
		return err
	}

	m, err := arch.ElaborateFile(configPath)
	if err != nil {
		return fmt.Errorf("elaborating %s: %w", configPath, err)
	}

	artifacts, err := codegen.Render(m)
	if err != nil {
		return err
	}

	if s.InspectDev {
		logger.Info("serving inspector page from source", "dir", web.SourceDir())
	}

	inspector := monitoring.NewInspector().
		WithPortNumber(opts.port).
		WithAssetsFromSource(s.InspectDev)
	inspector.RegisterModel(m)
	inspector.RegisterArtifacts(artifacts)

	url, err := inspector.StartServer()
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Inspecting %s with %s\n", configPath, url)

	if !opts.noBrowser {
		if err := browser.OpenURL(url); err != nil {
			logger.Warn("cannot open a browser", "error", err)
		}
	}

	<-cmd.Context().Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return inspector.Shutdown(ctx)
}

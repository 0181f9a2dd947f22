// Package cli implements the midad command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"log"
	"runtime"

	"github.com/spf13/cobra"

	"midad/internal/app"
	"midad/internal/config"
)

// Builder constructs the application for one command invocation.
type Builder func(ctx context.Context) (*app.App, error)

// DefaultBuilder loads configuration from the environment and opens the configured backend.
func DefaultBuilder(ctx context.Context) (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return app.New(ctx, cfg)
}

type rootOptions struct {
	output  string
	verbose bool
	build   Builder
	app     *app.App
}

// load builds the application once per invocation.
func (o *rootOptions) load(cmd *cobra.Command) (*app.App, error) {
	if o.app != nil {
		return o.app, nil
	}
	a, err := o.build(cmd.Context())
	if err != nil {
		return nil, err
	}
	o.app = a
	return a, nil
}

func (o *rootOptions) printer(cmd *cobra.Command) (*printer, error) {
	return newPrinter(cmd.OutOrStdout(), o.output)
}

// NewRootCommand creates the root command.
func NewRootCommand(version string) *cobra.Command {
	return NewRootCommandWith(version, DefaultBuilder)
}

// NewRootCommandWith creates the root command using build to assemble the application.
func NewRootCommandWith(version string, build Builder) *cobra.Command {
	opts := &rootOptions{build: build}

	rootCmd := &cobra.Command{
		Use:   "midad",
		Short: "Study-document summaries and quizzes",
		Long: `midad sends an image or PDF of study material to a hosted model and
returns a summary and a 10-question multiple-choice quiz in Arabic, English
or French. Results are kept in a local history of the 50 most recent analyses.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Service log lines go to stderr only when asked for, except for the server.
			if !opts.verbose && cmd.Name() != "serve" {
				log.SetOutput(io.Discard)
			}
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if opts.app == nil {
				return nil
			}
			return opts.app.Close()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&opts.output, "output", "o", formatText, "output format (text, json, yaml)")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "print log lines to stderr")

	rootCmd.AddCommand(newAnalyzeCommand(opts))
	rootCmd.AddCommand(newHistoryCommand(opts))
	rootCmd.AddCommand(newPrefsCommand(opts))
	rootCmd.AddCommand(newServeCommand(opts))
	rootCmd.AddCommand(newVersionCommand(version))

	return rootCmd
}

func newVersionCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			if version == "" {
				version = "development"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "midad %s\n", version)
			fmt.Fprintf(cmd.OutOrStdout(), "Go version: %s\n", runtime.Version())
			fmt.Fprintf(cmd.OutOrStdout(), "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}

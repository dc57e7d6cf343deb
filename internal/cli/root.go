package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// rootOptions holds flags shared by every command.
type rootOptions struct {
	dataset   string
	dbURL     string
	logLevel  string
	logFormat string
	json      bool

	app *AppContext
}

// NewRootCmd builds the polyx command tree.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&rootOptions{})
}

func newRootCmd(opts *rootOptions) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "polyx",
		Short: "Explore polymer formulation experiments",
		Long: `polyx loads a dataset of polymer experiments (formulation inputs and
measured outputs) and answers questions about it: property ranges, filtered
subsets, range buckets, correlations and 3D scatter views.

The dataset comes from --dataset, from the latest snapshot in --db, or from
the sample bundled with the binary.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			app, err := NewAppContext(cmd.Context(), opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			opts.app = app
			return nil
		},
	}

	f := rootCmd.PersistentFlags()
	f.StringVarP(&opts.dataset, "dataset", "d", "", "Dataset file (.json, .json.gz, .json.zst, .json.lz4)")
	f.StringVar(&opts.dbURL, "db", "", "libsql database URL or file path holding imported snapshots")
	f.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	f.StringVar(&opts.logFormat, "log-format", "", "Log format: text, json")
	f.BoolVar(&opts.json, "json", false, "Print results as JSON")

	rootCmd.AddCommand(
		newServeCmd(opts),
		newPropertiesCmd(opts),
		newStatsCmd(opts),
		newPointsCmd(opts),
		newFilterCmd(opts),
		newGroupsCmd(opts),
		newCorrelateCmd(opts),
		newShowCmd(opts),
		newPlotCmd(opts),
		newExportCmd(opts),
		newDBCmd(opts),
	)
	closeOnReturn(rootCmd, opts)
	return rootCmd
}

// closeOnReturn wraps every runnable command so the AppContext is released
// when RunE returns, failed or not. Cobra skips PersistentPostRunE after an error.
func closeOnReturn(cmd *cobra.Command, opts *rootOptions) {
	for _, sub := range cmd.Commands() {
		closeOnReturn(sub, opts)
	}
	if cmd.RunE == nil {
		return
	}
	run := cmd.RunE
	cmd.RunE = func(cmd *cobra.Command, args []string) (err error) {
		defer func() {
			if opts.app == nil {
				return
			}
			err = errors.Join(err, opts.app.Close(cmd.Context()))
			opts.app = nil
		}()
		return run(cmd, args)
	}
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/polymer-explorer/internal/adapters/storage"
	"github.com/emiliopalmerini/polymer-explorer/internal/dataset"
)

func newExportCmd(opts *rootOptions) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the dataset as JSON, keeping experiment and property order",
		Long: `Write the loaded dataset. The output is compressed when the file name ends
in .gz, .zst or .lz4.

Examples:
  polyx export                          # JSON to stdout
  polyx export -o dataset.json.zst
  polyx export --db polyx.db -o latest.json.gz`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := opts.app.Engine(cmd.Context())
			if err != nil {
				return err
			}
			ds := eng.Dataset()

			if output == "" || output == "-" {
				return dataset.Encode(cmd.OutOrStdout(), ds)
			}
			if err := storage.WriteFile(output, ds); err != nil {
				return err
			}
			fp, err := dataset.Fingerprint(ds)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d experiments to %s (%s, fingerprint %s)\n",
				ds.Len(), output, storage.CompressionFor(output), fp)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: stdout)")
	return cmd
}

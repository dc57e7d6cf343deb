package cli

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/polymer-explorer/internal/adapters/storage"
	"github.com/emiliopalmerini/polymer-explorer/internal/adapters/turso"
	"github.com/emiliopalmerini/polymer-explorer/internal/migrate"
	"github.com/emiliopalmerini/polymer-explorer/internal/ports"
	"github.com/emiliopalmerini/polymer-explorer/internal/util"
)

func newDBCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Manage dataset snapshots in a libsql database",
		Long: `Manage dataset snapshots stored in libsql (a local file or a Turso URL).
Without --db or POLYX_DATABASE_URL the database lives under the XDG data
directory.`,
	}
	cmd.AddCommand(
		newDBMigrateCmd(opts),
		newDBImportCmd(opts),
		newDBListCmd(opts),
		newDBDeleteCmd(opts),
	)
	return cmd
}

func newDBMigrateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate [version]",
		Short: "Run database migrations",
		Long: `Run database migrations.

Without arguments, runs all pending migrations (up).
With a version number, migrates to that specific version (up or down as needed).

Examples:
  polyx db migrate      # Run all pending migrations
  polyx db migrate 1    # Migrate to version 1
  polyx db migrate 0    # Rollback all migrations`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app := opts.app

			url, err := app.databaseURL()
			if err != nil {
				return err
			}
			db, err := turso.Connect(url, app.Config.AuthToken)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			m, err := migrate.New(db, app.Log)
			if err != nil {
				return err
			}
			current, _, err := m.Version(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Current version: %d\n", current)

			target := m.Latest()
			if len(args) == 1 {
				if target, err = strconv.Atoi(args[0]); err != nil {
					return fmt.Errorf("invalid version number: %s", args[0])
				}
			}
			if target == current {
				fmt.Fprintln(out, "Already at target version")
				return nil
			}

			n, err := m.To(ctx, target)
			if err != nil {
				return fmt.Errorf("migration failed after %d step(s): %w", n, err)
			}
			fmt.Fprintf(out, "Applied %d migration(s), now at version %d\n", n, target)
			return nil
		},
	}
}

func newDBImportCmd(opts *rootOptions) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "import <file|sample>",
		Short: "Import a dataset file as a new snapshot",
		Long: `Import a dataset into the database. The newest snapshot becomes the dataset
served when --db is given. Use "sample" to import the bundled dataset.

Examples:
  polyx db import experiments.json.gz --name "January batch"
  polyx db import sample`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app := opts.app

			var src ports.DatasetSource = storage.NewFileSource(args[0])
			if args[0] == "sample" {
				src = storage.EmbeddedSource{}
			}
			ds, err := src.Load(ctx)
			if err != nil {
				return err
			}

			db, err := app.DB(ctx)
			if err != nil {
				return err
			}
			if name == "" {
				name = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
			}

			var repo ports.SnapshotRepository = turso.NewSnapshotRepository(db)
			snap, err := repo.Save(ctx, name, args[0], ds)
			if err != nil {
				return err
			}
			app.Log.Info("snapshot imported", "id", snap.ID, "experiments", snap.Experiments)

			if opts.json {
				return printJSON(cmd.OutOrStdout(), snap)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d experiments as snapshot %s (%s)\n", snap.Experiments, snap.ID, snap.Name)
			return nil
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "Snapshot name (default: file name)")
	return cmd
}

func newDBListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List imported snapshots, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			db, err := opts.app.DB(ctx)
			if err != nil {
				return err
			}
			snaps, err := turso.NewSnapshotRepository(db).List(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.json {
				return printJSON(out, snaps)
			}
			if len(snaps) == 0 {
				fmt.Fprintln(out, "No snapshots imported.")
				return nil
			}
			tw := newTable(out)
			fmt.Fprintln(tw, "ID\tNAME\tEXPERIMENTS\tPROPERTIES\tIMPORTED\tCHECKSUM")
			for _, s := range snaps {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%d+%d\t%s\t%s\n",
					s.ID, s.Name, s.Experiments, s.Inputs, s.Outputs, util.FormatDateTime(s.ImportedAt), s.Checksum)
			}
			return tw.Flush()
		},
	}
}

func newDBDeleteCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <snapshot-id>",
		Short: "Delete a snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			db, err := opts.app.DB(ctx)
			if err != nil {
				return err
			}
			repo := turso.NewSnapshotRepository(db)
			snap, err := repo.Get(ctx, args[0])
			if err != nil {
				return err
			}
			if snap == nil {
				return fmt.Errorf("snapshot %q not found", args[0])
			}
			if err := repo.Delete(ctx, snap.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted snapshot %s (%s)\n", snap.ID, snap.Name)
			return nil
		},
	}
}

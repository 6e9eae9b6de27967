package main

import (
	"fmt"
	"log/slog"

	"github.com/loganlanou/prjimages/internal/updater"
	"github.com/spf13/cobra"
)

func newUpdateCmd(a *app, use, short string, target updater.Target) *cobra.Command {
	var backend, dbPath string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			table, closeTable, err := a.openTable(backend, dbPath)
			if err != nil {
				slog.Error("cannot open table backend", "backend", backend, "error", err)
				return err
			}
			defer closeTable()

			slog.Info("starting image url update", "table", target.Table, "field", target.Field, "backend", backend, "dry_run", dryRun)

			result, err := updater.New(table, updater.WithDryRun(dryRun)).Run(cmd.Context(), target)
			if err != nil {
				return withExitCode(exitRemote, err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), result.String())
			if result.HasErrors() {
				return errItemFailures
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&backend, "backend", backendSupabase, "table backend: supabase or sqlite")
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database path for --backend sqlite (default $DB_PATH)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report changes without writing them")

	return cmd
}

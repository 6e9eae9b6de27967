package main

import (
	"fmt"
	"log/slog"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/loganlanou/prjimages/storage"
	"github.com/spf13/cobra"
)

func newSeedCmd(a *app) *cobra.Command {
	var dbPath string
	var count int
	var seed uint64

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Fill a local SQLite database with fake bracket-named image URLs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dbPath == "" {
				dbPath = a.config.DBPath
			}
			if count < 1 {
				return withExitCode(exitConfig, fmt.Errorf("--count must be at least 1, got %d", count))
			}

			store, err := storage.New(dbPath)
			if err != nil {
				return withExitCode(exitSetup, err)
			}
			defer store.Close()

			// Seed 0 asks gofakeit for a random seed.
			stats, err := store.Seed(cmd.Context(), gofakeit.New(seed), count)
			if err != nil {
				return withExitCode(exitSetup, err)
			}

			slog.Info("seeded database", "database", dbPath, "projects", stats.Projects, "images", stats.Images)
			fmt.Fprintf(cmd.OutOrStdout(), "Created %d projects with %d images.\n", stats.Projects, stats.Images)
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database path (default $DB_PATH)")
	cmd.Flags().IntVar(&count, "count", 10, "number of projects to create")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "random seed, 0 for a random one")

	return cmd
}

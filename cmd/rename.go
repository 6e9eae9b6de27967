package main

import (
	"fmt"
	"log/slog"

	"github.com/loganlanou/prjimages/internal/renamer"
	"github.com/spf13/cobra"
)

func newRenameCmd(a *app) *cobra.Command {
	var overwrite, dryRun bool

	cmd := &cobra.Command{
		Use:   "rename [dir]",
		Short: "Rename [prj<id>]<name>.<ext> files in a directory to prj<id>-<name>.<ext>",
		Long: "Rename bracket-tagged image files directly inside dir (default $IMAGES_DIR or " +
			renamer.DefaultDir() + "). Existing targets are skipped unless --overwrite is set.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := a.config.ImagesDir
			if len(args) == 1 {
				dir = args[0]
			}

			fs, abs, err := renamer.Open(dir)
			if err != nil {
				slog.Error("cannot open image directory", "directory", dir, "error", err)
				return withExitCode(exitSetup, err)
			}

			slog.Info("looking for images", "directory", abs, "dry_run", dryRun)

			summary, err := renamer.New(fs,
				renamer.WithOverwrite(overwrite),
				renamer.WithDryRun(dryRun),
			).Run(cmd.Context(), ".")
			if err != nil {
				return withExitCode(exitSetup, err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), summary.String())
			if summary.HasErrors() {
				return errItemFailures
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "replace a file that already has the target name")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report renames without performing them")

	return cmd
}

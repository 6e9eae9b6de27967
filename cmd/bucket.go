package main

import (
	"fmt"
	"log/slog"

	"github.com/loganlanou/prjimages/internal/bucket"
	"github.com/spf13/cobra"
)

func newBucketCmd(a *app) *cobra.Command {
	var name, prefix string
	var overwrite, dryRun bool

	cmd := &cobra.Command{
		Use:   "rename-bucket",
		Short: "Rename bracket-tagged objects in an S3-compatible bucket",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if name != "" {
				a.config.Bucket.Name = name
			}
			if cmd.Flags().Changed("prefix") {
				a.config.Bucket.Prefix = prefix
			}
			if err := a.config.ValidateBucket(); err != nil {
				return withExitCode(exitConfig, err)
			}
			cfg := a.config.Bucket

			client, err := bucket.NewS3Client(cmd.Context(), bucket.ClientConfig{
				Endpoint:        cfg.Endpoint,
				Region:          cfg.Region,
				AccessKeyID:     cfg.AccessKeyID,
				SecretAccessKey: cfg.SecretAccessKey,
			})
			if err != nil {
				return withExitCode(exitConfig, err)
			}

			summary, err := bucket.New(client, cfg.Name,
				bucket.WithPrefix(cfg.Prefix),
				bucket.WithOverwrite(overwrite),
				bucket.WithDryRun(dryRun),
			).Run(cmd.Context())
			if err != nil {
				slog.Error("cannot list bucket", "bucket", cfg.Name, "error", err)
				return withExitCode(exitRemote, err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), summary.String())
			if summary.HasErrors() {
				return errItemFailures
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "bucket", "", "bucket name (default $S3_BUCKET)")
	cmd.Flags().StringVar(&prefix, "prefix", "", "key prefix to rename under (default $S3_PREFIX)")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "replace an object that already has the target key")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report renames without performing them")

	return cmd
}

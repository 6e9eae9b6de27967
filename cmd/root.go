package main

import (
	"fmt"
	"os"

	"github.com/loganlanou/prjimages/internal/supabase"
	"github.com/loganlanou/prjimages/internal/updater"
	"github.com/loganlanou/prjimages/service"
	"github.com/loganlanou/prjimages/storage"
	"github.com/spf13/cobra"
)

const (
	backendSupabase = "supabase"
	backendSQLite   = "sqlite"
)

// app is the state shared by every subcommand.
type app struct {
	config   *service.Config
	envFiles []string
}

func newRootCmd() *cobra.Command {
	a := &app{}

	var logLevel, logFormat string

	root := &cobra.Command{
		Use:           "prjimages",
		Short:         "Rename bracket-tagged project images and the URLs that point at them",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if logLevel == "" {
				logLevel = os.Getenv("LOG_LEVEL")
			}
			if logFormat == "" {
				logFormat = os.Getenv("LOG_FORMAT")
			}
			if err := setupLogging(cmd.ErrOrStderr(), logLevel, logFormat); err != nil {
				return withExitCode(exitConfig, err)
			}

			config, err := service.LoadConfig(a.envFiles...)
			if err != nil {
				return withExitCode(exitConfig, err)
			}
			a.config = config
			return nil
		},
	}

	root.PersistentFlags().StringSliceVar(&a.envFiles, "env-file", service.DefaultEnvFiles, "dotenv files to read, earlier files win")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn or error (default $LOG_LEVEL or info)")
	root.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: text or json (default $LOG_FORMAT or text)")

	root.AddCommand(
		newRenameCmd(a),
		newUpdateCmd(a, "update-urls", "Rewrite project_images.image_url", updater.ProjectImages),
		newUpdateCmd(a, "update-featured", "Rewrite projects.featured_image_url", updater.FeaturedImages),
		newBucketCmd(a),
		newSeedCmd(a),
		newServeCmd(a),
	)

	return root
}

// openTable returns the table backend selected by name and a function that
// releases it. Configuration problems are reported before any connection
// is attempted.
func (a *app) openTable(backend, dbPath string) (updater.Table, func(), error) {
	switch backend {
	case backendSupabase:
		if err := a.config.ValidateSupabase(); err != nil {
			return nil, nil, withExitCode(exitConfig, err)
		}
		client, err := supabase.NewClient(a.config.Supabase.URL, a.config.Supabase.Key)
		if err != nil {
			return nil, nil, withExitCode(exitConfig, err)
		}
		return client, func() {}, nil

	case backendSQLite:
		if dbPath == "" {
			dbPath = a.config.DBPath
		}
		store, err := storage.New(dbPath)
		if err != nil {
			return nil, nil, withExitCode(exitSetup, err)
		}
		return store, func() { store.Close() }, nil

	default:
		return nil, nil, withExitCode(exitConfig, fmt.Errorf("unknown backend %q: use %s or %s", backend, backendSupabase, backendSQLite))
	}
}

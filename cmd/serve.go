package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	appmw "github.com/loganlanou/prjimages/internal/middleware"
	"github.com/loganlanou/prjimages/service"
	"github.com/spf13/cobra"
)

func newServeCmd(a *app) *cobra.Command {
	var backend, dbPath, port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the admin API that triggers the URL rewrites",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if port == "" {
				port = a.config.Port
			}

			table, closeTable, err := a.openTable(backend, dbPath)
			if err != nil {
				return err
			}
			defer closeTable()

			if a.config.Admin.APIKey == "" {
				slog.Warn("ADMIN_API_KEY is not set, admin routes are disabled")
			}

			e := newEcho()
			service.New(table, a.config).RegisterRoutes(e)

			slog.Info("prjimages admin API starting",
				"url", fmt.Sprintf("http://localhost:%s", port),
				"port", port,
				"environment", a.config.Environment,
				"backend", backend,
			)

			errCh := make(chan error, 1)
			go func() {
				errCh <- e.Start(":" + port)
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return withExitCode(exitSetup, err)
			case <-cmd.Context().Done():
			}

			slog.Info("shutting down")
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return e.Shutdown(ctx)
		},
	}

	cmd.Flags().StringVar(&backend, "backend", backendSupabase, "table backend: supabase or sqlite")
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database path for --backend sqlite (default $DB_PATH)")
	cmd.Flags().StringVar(&port, "port", "", "listen port (default $PORT)")

	return cmd
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())

	e.Use(appmw.RequestLogger())
	e.Use(appmw.SecurityHeaders())

	return e
}

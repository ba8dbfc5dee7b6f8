package cmd

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"platecheck/internal/bootstrap"
	"platecheck/internal/bootstrap/logging"
	"platecheck/internal/errs"
	"platecheck/internal/transport/web"
	"platecheck/internal/usecase/quality"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dashboard HTTP API",
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App, svc *quality.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		addr, _ := cmd.Flags().GetString("addr")
		addr = strings.TrimSpace(addr)
		if addr == "" {
			addr = ":8080"
		}

		if err := app.InitSchema(ctx); err != nil {
			return errs.Wrap(err, "initialize schema")
		}

		router := web.NewRouter(svc, web.NewSessionStore(), web.Settings{
			AdminPassword: app.Config.Admin.Password,
			Branches:      app.Config.Quality.Branches,
		})

		server := &http.Server{
			Addr:    addr,
			Handler: router,
		}

		logging.Info(ctx, "dashboard server started", slog.String("addr", addr))

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error(ctx, "dashboard server failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "serve dashboard")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", ":8080", "Dashboard listen address")
}

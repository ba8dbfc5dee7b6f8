package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"platecheck/internal/bootstrap"
	"platecheck/internal/bootstrap/logging"
	"platecheck/internal/errs"
	"platecheck/internal/ports"
	"platecheck/internal/usecase/quality"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask the insight assistant about the quality-check table",
	Args:  cobra.MaximumNArgs(1),
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App, svc *quality.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		ping, _ := cmd.Flags().GetBool("ping")

		if err := app.InitSchema(ctx); err != nil {
			return errs.Wrap(err, "initialize schema")
		}

		var answer string
		var err error
		if ping {
			answer, err = svc.InsightPing(ctx)
		} else {
			question := ""
			if args := cmd.Flags().Args(); len(args) > 0 {
				question = strings.TrimSpace(args[0])
			}
			answer, err = svc.Insight(ctx, question)
		}

		if errors.Is(err, ports.ErrAssistantNotConfigured) {
			if _, werr := fmt.Fprintln(cmd.OutOrStdout(), "insight assistant is not configured, set openai.api_key"); werr != nil {
				return errs.Wrap(werr, "write assistant notice")
			}
			return nil
		}
		if err != nil {
			logging.Error(ctx, "ask assistant failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "ask assistant")
		}

		if _, err := fmt.Fprintln(cmd.OutOrStdout(), answer); err != nil {
			return errs.Wrap(err, "write assistant answer")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(askCmd)

	askCmd.Flags().Bool("ping", false, "Liveness check against the assistant, no table attached")
}

package cmd

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"platecheck/internal/bootstrap"
	"platecheck/internal/bootstrap/logging"
	domainquality "platecheck/internal/domain/quality"
	"platecheck/internal/errs"
	"platecheck/internal/usecase/quality"
)

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Record one quality check",
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App, svc *quality.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		branch, _ := cmd.Flags().GetString("branch")
		chef, _ := cmd.Flags().GetString("chef")
		dish, _ := cmd.Flags().GetString("dish")
		score, _ := cmd.Flags().GetInt("score")
		notes, _ := cmd.Flags().GetString("notes")

		if err := app.InitSchema(ctx); err != nil {
			return errs.Wrap(err, "initialize schema")
		}

		result, err := svc.SubmitCheck(ctx, quality.SubmitCheckInput{
			Branch:      branch,
			ChefName:    chef,
			DishName:    dish,
			Score:       score,
			Notes:       notes,
			SubmittedBy: domainquality.SubmittedByMeta,
		})
		if errors.Is(err, domainquality.ErrDuplicate) {
			if _, werr := fmt.Fprintf(cmd.OutOrStdout(), "duplicate: %v\n", err); werr != nil {
				return errs.Wrap(werr, "write duplicate notice")
			}
			return err
		}
		if err != nil {
			logging.Error(ctx, "submit check failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "submit check")
		}

		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "stored check #%d (%s / %s / %s, score %d)\n",
			result.Check.ID, result.Check.Branch, result.Check.ChefName, result.Check.DishName, result.Check.Score); err != nil {
			return errs.Wrap(err, "write submit output")
		}
		if !result.Mirrored && result.MirrorNotice != "" {
			if _, err := fmt.Fprintf(cmd.OutOrStdout(), "note: %s\n", result.MirrorNotice); err != nil {
				return errs.Wrap(err, "write mirror notice")
			}
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(submitCmd)

	submitCmd.Flags().String("branch", "", "Branch name, must be one of the configured branches")
	submitCmd.Flags().String("chef", "", "Chef name")
	submitCmd.Flags().String("dish", "", "Dish name, must be one of the configured dishes")
	submitCmd.Flags().Int("score", 0, "Score 1-10")
	submitCmd.Flags().String("notes", "", "Free text notes")
	_ = submitCmd.MarkFlagRequired("branch")
	_ = submitCmd.MarkFlagRequired("chef")
	_ = submitCmd.MarkFlagRequired("dish")
	_ = submitCmd.MarkFlagRequired("score")
}

package cmd

import (
	"fmt"
	"log/slog"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"platecheck/internal/bootstrap"
	"platecheck/internal/bootstrap/logging"
	"platecheck/internal/errs"
	"platecheck/internal/usecase/quality"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show branch, chef and dish KPIs over the whole table",
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App, svc *quality.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		if err := app.InitSchema(ctx); err != nil {
			return errs.Wrap(err, "initialize schema")
		}

		report, err := svc.BuildReport(ctx)
		if err != nil {
			logging.Error(ctx, "build report failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "build report")
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		if _, err := fmt.Fprintln(w, "kpi\tvalue\tdetail"); err != nil {
			return errs.Wrap(err, "write report header")
		}
		if _, err := fmt.Fprintf(w, "total_checks\t%d\t\n", report.TotalChecks); err != nil {
			return errs.Wrap(err, "write report total")
		}
		if _, err := fmt.Fprintf(w, "best_branch_by_count\t%s\t%d checks\n",
			orDash(report.BestBranchByCount.Branch), report.BestBranchByCount.Count); err != nil {
			return errs.Wrap(err, "write report best branch")
		}

		avgDetail := fmt.Sprintf("avg %.2f over %d", report.BestAvgBranch.Avg, report.BestAvgBranch.Count)
		if report.BestAvgBranch.SmallSample {
			avgDetail += " (small sample)"
		}
		if _, err := fmt.Fprintf(w, "best_avg_branch\t%s\t%s\n", orDash(report.BestAvgBranch.Branch), avgDetail); err != nil {
			return errs.Wrap(err, "write report best avg branch")
		}
		if _, err := fmt.Fprintf(w, "top_chef\t%s\t%d checks, avg %.2f\n",
			orDash(report.TopChef.Chef), report.TopChef.Count, report.TopChef.Avg); err != nil {
			return errs.Wrap(err, "write report top chef")
		}
		if _, err := fmt.Fprintf(w, "top_dish_by_count\t%s\t%d checks\n",
			orDash(report.TopDishByCount.Dish), report.TopDishByCount.Count); err != nil {
			return errs.Wrap(err, "write report top dish")
		}

		if err := w.Flush(); err != nil {
			return errs.Wrap(err, "flush report output")
		}
		return nil
	}),
}

func orDash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}

func init() {
	rootCmd.AddCommand(reportCmd)
}

package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/relief-analytics/crisis-cli/internal/analysis"
	"github.com/relief-analytics/crisis-cli/internal/model"
	"github.com/relief-analytics/crisis-cli/internal/store"
)

var reportRunID string

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the situation report for a saved run",
	Long:  "Renders the national summary, risk-tier breakdown, vulnerability ranking, and access gaps for a saved analysis run (the latest by default).",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		var run *model.AnalysisRun
		if reportRunID != "" {
			run, err = st.GetRun(ctx, reportRunID)
		} else {
			run, err = st.LatestRun(ctx)
		}
		if err != nil {
			return eris.Wrap(err, "report")
		}

		rows, err := st.GetRows(ctx, run.ID, store.RowFilter{})
		if err != nil {
			return eris.Wrap(err, "report rows")
		}

		fmt.Print(analysis.RenderReport(run, rows))
		return nil
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportRunID, "run", "", "run ID to report on (default: latest)")
	rootCmd.AddCommand(reportCmd)
}

package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/jgoulah/wattboard/internal/dashboard"
	"github.com/jgoulah/wattboard/internal/tui"
)

var dashboardLogFile string

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Open the interactive usage dashboard",
	Long: `Opens a full-screen dashboard with two tabs: a stacked bar chart of per-device
usage with daily/weekly/monthly navigation, and the insights list.

Logs go to a file while the dashboard is open so they don't draw over it.`,
	Args: cobra.NoArgs,
	RunE: runDashboard,
}

func init() {
	dashboardCmd.Flags().StringVar(&dashboardLogFile, "log-file", "wattboard.log", "log file used while the dashboard is open")
	rootCmd.AddCommand(dashboardCmd)
}

func runDashboard(cmd *cobra.Command, args []string) error {
	a, err := setup(dashboardLogFile)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	trends := dashboard.NewTrendsController(a.client, a.nav, a.timezone, a.log.Named("trends"))
	insights := dashboard.NewInsightsController(a.client, a.log.Named("insights"))

	return tui.Run(ctx, trends, insights)
}

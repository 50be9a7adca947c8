package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jgoulah/wattboard/internal/chart"
	"github.com/jgoulah/wattboard/internal/dashboard"
)

var (
	reportDate string
	reportStep string
)

var reportCmd = &cobra.Command{
	Use:   "report [daily|weekly|monthly]",
	Short: "Print the usage breakdown and insights together",
	Long:  `Fetches the trend for one period and the insights list in parallel and prints both.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportDate, "date", "", "period anchor (YYYY-MM-DD, or YYYY-MM for monthly)")
	reportCmd.Flags().StringVar(&reportStep, "step", "", "move the anchor one period: prev or next")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	fmt.Printf("=== Report generated at %s ===\n", timestamp())

	a, err := setup("")
	if err != nil {
		return err
	}

	q, err := resolveQuery(a.nav, args, reportDate, reportStep, 1)
	if err != nil {
		return err
	}

	trends := dashboard.NewTrendsController(a.client, a.nav, a.timezone, a.log)
	trends.SelectGranularity(q.granularity)
	req, err := trends.SetAnchor(q.anchor)
	if err != nil {
		return err
	}
	insights := dashboard.NewInsightsController(a.client, a.log)
	insightsSeq := insights.Refresh()

	g, ctx := errgroup.WithContext(context.Background())
	g.Go(func() error {
		if _, err := trends.Run(ctx, req); err != nil {
			return fmt.Errorf("loading trends: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if _, err := insights.Run(ctx, insightsSeq); err != nil {
			return fmt.Errorf("loading insights: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	state := trends.Snapshot()
	fmt.Printf("\n%s usage for %s\n", state.Granularity.Title(), state.PeriodLabel())
	fmt.Println("----------------------------------------")
	fmt.Println(chart.RenderBreakdown(&state.Series, state.Selection))
	fmt.Println()

	printInsights(insights.Snapshot().Insights)
	return nil
}

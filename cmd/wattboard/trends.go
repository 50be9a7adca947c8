package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jgoulah/wattboard/internal/chart"
	"github.com/jgoulah/wattboard/internal/dashboard"
	"github.com/jgoulah/wattboard/internal/period"
	"github.com/jgoulah/wattboard/pkg/models"
)

var (
	trendsDate      string
	trendsStep      string
	trendsCount     int
	trendsJSON      bool
	trendsHighlight string
	trendsHeight    int
)

var trendsCmd = &cobra.Command{
	Use:   "trends [daily|weekly|monthly]",
	Short: "Show the usage chart for one period",
	Long: `Fetches the per-device usage trend for one period and prints a stacked bar chart
followed by the device breakdown.

The period defaults to today (daily), the most recent Sunday (weekly) or the
current month (monthly). Use --date to pick another period and --step/--count
to move from it.`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"daily", "weekly", "monthly"},
	RunE:      runTrends,
}

func init() {
	trendsCmd.Flags().StringVar(&trendsDate, "date", "", "period anchor (YYYY-MM-DD, or YYYY-MM for monthly)")
	trendsCmd.Flags().StringVar(&trendsStep, "step", "", "move the anchor: prev or next")
	trendsCmd.Flags().IntVar(&trendsCount, "count", 1, "number of periods to move with --step")
	trendsCmd.Flags().BoolVar(&trendsJSON, "json", false, "print the shaped series as JSON")
	trendsCmd.Flags().StringVar(&trendsHighlight, "highlight", "", "device to highlight (fridge, oven, lights, ev charger)")
	trendsCmd.Flags().IntVar(&trendsHeight, "height", 10, "chart height in rows")
	rootCmd.AddCommand(trendsCmd)
}

// trendsQuery is the period a one-shot command should fetch
type trendsQuery struct {
	granularity models.Granularity
	anchor      string
}

// resolveQuery turns args and flags into a granularity and anchor
func resolveQuery(nav *period.Navigator, args []string, date, step string, count int) (trendsQuery, error) {
	g := models.Daily
	if len(args) > 0 {
		var err error
		g, err = models.ParseGranularity(args[0])
		if err != nil {
			return trendsQuery{}, err
		}
	}

	anchor := nav.DefaultAnchorString(g)
	if date != "" {
		t, err := nav.Parse(date, g)
		if err != nil {
			return trendsQuery{}, err
		}
		anchor = period.Format(t, g)
	}

	if step != "" {
		dir, err := period.ParseDirection(step)
		if err != nil {
			return trendsQuery{}, err
		}
		if count < 0 {
			return trendsQuery{}, fmt.Errorf("--count must not be negative")
		}
		anchor, err = nav.Step(anchor, g, dir, count)
		if err != nil {
			return trendsQuery{}, err
		}
	}

	return trendsQuery{granularity: g, anchor: anchor}, nil
}

func runTrends(cmd *cobra.Command, args []string) error {
	a, err := setup("")
	if err != nil {
		return err
	}

	q, err := resolveQuery(a.nav, args, trendsDate, trendsStep, trendsCount)
	if err != nil {
		return err
	}

	var sel chart.Selection
	if trendsHighlight != "" {
		d, err := models.ParseDevice(trendsHighlight)
		if err != nil {
			return err
		}
		sel = sel.Toggle(d)
	}

	ctrl := dashboard.NewTrendsController(a.client, a.nav, a.timezone, a.log)
	ctrl.SelectGranularity(q.granularity)
	req, err := ctrl.SetAnchor(q.anchor)
	if err != nil {
		return err
	}
	if _, err := ctrl.Run(context.Background(), req); err != nil {
		return fmt.Errorf("loading trends: %w", err)
	}
	state := ctrl.Snapshot()

	if trendsJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Granularity models.Granularity `json:"granularity"`
			Period      string             `json:"period"`
			YDomain     [2]float64         `json:"y_domain"`
			BarCount    int                `json:"bar_count"`
			models.TrendSeries
		}{
			Granularity: state.Granularity,
			Period:      state.Anchor,
			YDomain:     state.YDomain(),
			BarCount:    chart.BarCount(state.Granularity),
			TrendSeries: state.Series,
		})
	}

	fmt.Printf("%s usage for %s\n\n", state.Granularity.Title(), state.PeriodLabel())
	fmt.Println(chart.Render(chart.Options{
		Granularity: state.Granularity,
		Anchor:      state.Anchor,
		Series:      &state.Series,
		Selection:   sel,
		Height:      trendsHeight,
	}))
	fmt.Println()
	fmt.Println(chart.RenderBreakdown(&state.Series, sel))
	return nil
}

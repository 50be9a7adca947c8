package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jgoulah/wattboard/internal/dashboard"
	"github.com/jgoulah/wattboard/internal/publisher"
	"github.com/jgoulah/wattboard/pkg/models"
)

var (
	publishDate string
	publishStep string
	publishAll  bool
)

var publishCmd = &cobra.Command{
	Use:   "publish [daily|weekly|monthly]",
	Short: "Publish the usage breakdown to MQTT",
	Long: `Fetches the usage trend for one period and publishes the total and per-device
kWh as retained MQTT messages (e.g. for Home Assistant sensors).

With --all, the current day, week and month are published.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPublish,
}

func init() {
	publishCmd.Flags().StringVar(&publishDate, "date", "", "period anchor (YYYY-MM-DD, or YYYY-MM for monthly)")
	publishCmd.Flags().StringVar(&publishStep, "step", "", "move the anchor one period: prev or next")
	publishCmd.Flags().BoolVar(&publishAll, "all", false, "publish the current daily, weekly and monthly periods")
	rootCmd.AddCommand(publishCmd)
}

func runPublish(cmd *cobra.Command, args []string) error {
	fmt.Printf("=== Publish started at %s ===\n", timestamp())

	a, err := setup("")
	if err != nil {
		return err
	}

	if !a.cfg.MQTT.Enabled {
		return fmt.Errorf("MQTT is not enabled in config")
	}

	var queries []trendsQuery
	if publishAll {
		if len(args) > 0 || publishDate != "" || publishStep != "" {
			return fmt.Errorf("--all cannot be combined with a granularity, --date or --step")
		}
		for _, g := range models.Granularities {
			queries = append(queries, trendsQuery{granularity: g, anchor: a.nav.DefaultAnchorString(g)})
		}
	} else {
		q, err := resolveQuery(a.nav, args, publishDate, publishStep, 1)
		if err != nil {
			return err
		}
		queries = append(queries, q)
	}

	pub, err := publisher.New(a.cfg.MQTT, a.cfg.GetTopicPrefix(), a.log.Named("publisher"))
	if err != nil {
		return fmt.Errorf("creating publisher: %w", err)
	}
	defer pub.Close()

	ctrl := dashboard.NewTrendsController(a.client, a.nav, a.timezone, a.log)

	published := 0
	for i, q := range queries {
		ctrl.SelectGranularity(q.granularity)
		req, err := ctrl.SetAnchor(q.anchor)
		if err != nil {
			return err
		}

		fmt.Printf("[%d/%d] Publishing %s usage for %s... ", i+1, len(queries), q.granularity, q.anchor)
		if _, err := ctrl.Run(context.Background(), req); err != nil {
			fmt.Printf("FAILED: %v\n", err)
			continue
		}

		state := ctrl.Snapshot()
		n, err := pub.Publish(state.Granularity, state.Anchor, &state.Series)
		if err != nil {
			fmt.Printf("FAILED: %v\n", err)
			continue
		}
		fmt.Printf("✓ (%d messages, %.2f kWh)\n", n, state.Series.TotalUsage)
		published++
	}

	fmt.Printf("\nSuccessfully published %d/%d periods\n", published, len(queries))
	if published == 0 {
		return fmt.Errorf("nothing was published")
	}
	return nil
}

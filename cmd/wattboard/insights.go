package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jgoulah/wattboard/internal/dashboard"
	"github.com/jgoulah/wattboard/pkg/models"
)

var insightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "List usage insights",
	Long:  `Fetches the weekly energy insights from the API and prints them.`,
	Args:  cobra.NoArgs,
	RunE:  runInsights,
}

func init() {
	rootCmd.AddCommand(insightsCmd)
}

func runInsights(cmd *cobra.Command, args []string) error {
	a, err := setup("")
	if err != nil {
		return err
	}

	ctrl := dashboard.NewInsightsController(a.client, a.log)
	if _, err := ctrl.Load(context.Background()); err != nil {
		return fmt.Errorf("loading insights: %w", err)
	}

	printInsights(ctrl.Snapshot().Insights)
	return nil
}

func printInsights(insights []models.Insight) {
	fmt.Println("Weekly energy insights")
	fmt.Println("----------------------------------------")

	if len(insights) == 0 {
		fmt.Println("No insights found")
		return
	}

	for _, in := range insights {
		fmt.Printf("%s %s\n", in.Emoji, in.Title)
		fmt.Printf("   %s\n", in.Insight)
	}
	fmt.Println("----------------------------------------")
	fmt.Printf("%d insights\n", len(insights))
}

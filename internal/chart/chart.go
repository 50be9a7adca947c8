// Package chart turns a trend series into what a stacked bar chart needs:
// axis domain, bar count, labels and device highlight colours.
package chart

import (
	"math"
	"time"

	"github.com/jgoulah/wattboard/pkg/models"
)

// DefaultDomain is the y range used when there is nothing to plot
var DefaultDomain = [2]float64{0, 10}

// headroom leaves 20% above the tallest bar
const headroom = 1.2

var barCounts = map[models.Granularity]int{
	models.Daily:   24, // hours
	models.Weekly:  7,  // weekdays
	models.Monthly: 30, // days
}

// BarCount returns the number of x-axis slots for a granularity
func BarCount(g models.Granularity) int {
	if n, ok := barCounts[g]; ok {
		return n
	}
	return barCounts[models.Daily]
}

// MaxBucketTotal returns the tallest stacked bar in the series
func MaxBucketTotal(points []models.TrendPoint) float64 {
	var tallest float64
	for _, p := range points {
		if t := p.Total(); t > tallest {
			tallest = t
		}
	}
	return tallest
}

// YDomain returns [0, ceil(1.2 * tallest bar)], or [0, 10] for an empty series
func YDomain(points []models.TrendPoint) [2]float64 {
	if len(points) == 0 {
		return DefaultDomain
	}
	return [2]float64{0, math.Ceil(MaxBucketTotal(points) * headroom)}
}

// XLabel formats a bucket label for the axis: hours pass through, monthly
// buckets show the day of month and weekly buckets the narrow weekday
func XLabel(g models.Granularity, x string) string {
	if g == models.Daily {
		return x
	}

	t, ok := parseBucketDate(x)
	if !ok {
		return x
	}

	if g == models.Monthly {
		return t.Format("2")
	}
	return t.Weekday().String()[:1]
}

// PeriodLabel is the caption shown between the prev/next controls. Weekly
// periods show the span of the returned buckets.
func PeriodLabel(g models.Granularity, anchor string, points []models.TrendPoint) string {
	if g != models.Weekly || len(points) == 0 {
		return anchor
	}
	return points[0].X + "..." + points[len(points)-1].X
}

func parseBucketDate(x string) (time.Time, bool) {
	for _, layout := range []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, x); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

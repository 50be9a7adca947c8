package chart

import (
	"fmt"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/jgoulah/wattboard/pkg/models"
	"github.com/stretchr/testify/assert"
)

func point(x string, fridge, oven, lights, ev float64) models.TrendPoint {
	p := models.TrendPoint{X: x}
	p.Usage[models.Fridge] = fridge
	p.Usage[models.Oven] = oven
	p.Usage[models.Lights] = lights
	p.Usage[models.EVCharger] = ev
	return p
}

func TestYDomain(t *testing.T) {
	tests := []struct {
		name   string
		points []models.TrendPoint
		want   [2]float64
	}{
		{"empty series", nil, [2]float64{0, 10}},
		{"single bucket", []models.TrendPoint{point("00:00", 5, 3, 0, 0)}, [2]float64{0, 10}},
		{"tallest stacked bar wins", []models.TrendPoint{
			point("00:00", 1, 1, 1, 1),
			point("01:00", 10, 0, 0, 15),
			point("02:00", 20, 0, 0, 0),
		}, [2]float64{0, 30}},
		{"all zero", []models.TrendPoint{point("00:00", 0, 0, 0, 0)}, [2]float64{0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, YDomain(tt.points))
		})
	}
}

func TestBarCount(t *testing.T) {
	assert.Equal(t, 24, BarCount(models.Daily))
	assert.Equal(t, 7, BarCount(models.Weekly))
	assert.Equal(t, 30, BarCount(models.Monthly))
	assert.Equal(t, 24, BarCount(models.Granularity("")))
}

func TestXLabel(t *testing.T) {
	assert.Equal(t, "13:00", XLabel(models.Daily, "13:00"))
	assert.Equal(t, "S", XLabel(models.Weekly, "2024-03-03"))
	assert.Equal(t, "M", XLabel(models.Weekly, "2024-03-04"))
	assert.Equal(t, "T", XLabel(models.Weekly, "2024-03-05T00:00:00Z"))
	assert.Equal(t, "9", XLabel(models.Monthly, "2024-03-09"))
	assert.Equal(t, "not-a-date", XLabel(models.Monthly, "not-a-date"))
}

func TestPeriodLabel(t *testing.T) {
	points := []models.TrendPoint{point("2024-03-03", 0, 0, 0, 0), point("2024-03-09", 0, 0, 0, 0)}

	assert.Equal(t, "2024-03-03...2024-03-09", PeriodLabel(models.Weekly, "2024-03-03", points))
	assert.Equal(t, "2024-03-03", PeriodLabel(models.Weekly, "2024-03-03", nil))
	assert.Equal(t, "2024-03", PeriodLabel(models.Monthly, "2024-03", points))
}

func TestSelectionToggle(t *testing.T) {
	var sel Selection
	_, ok := sel.Device()
	assert.False(t, ok)

	sel = sel.Toggle(models.Oven)
	d, ok := sel.Device()
	assert.True(t, ok)
	assert.Equal(t, models.Oven, d)
	assert.True(t, sel.Is(models.Oven))
	assert.Equal(t, colorHighlight, BarColor(sel, models.Oven))
	assert.Equal(t, colorIdle, BarColor(sel, models.Fridge))

	sel = sel.Toggle(models.Lights)
	assert.True(t, sel.Is(models.Lights))
	assert.False(t, sel.Is(models.Oven))

	sel = sel.Toggle(models.Lights)
	_, ok = sel.Device()
	assert.False(t, ok)
	assert.Equal(t, colorIdle, BarColor(sel, models.Lights))
}

func TestRenderEmpty(t *testing.T) {
	out := Render(Options{Granularity: models.Daily, Anchor: "2024-03-03"})
	assert.Contains(t, out, emptyMessage)
	assert.Contains(t, out, "2024-03-03")
}

func TestRenderBars(t *testing.T) {
	series := &models.TrendSeries{Points: []models.TrendPoint{
		point("2024-03-03", 4, 0, 0, 0),
		point("2024-03-04", 0, 0, 0, 0),
		point("2024-03-05", 2, 2, 2, 2),
	}}

	out := Render(Options{Granularity: models.Weekly, Anchor: "2024-03-03", Series: series, Height: 5})
	lines := strings.Split(out, "\n")

	// five chart rows, the axis labels and the period caption
	assert.Len(t, lines, 7)
	assert.Contains(t, out, barGlyph)
	assert.Contains(t, lines[5], "S")
	assert.Contains(t, lines[5], "M")
	assert.Equal(t, "2024-03-03...2024-03-05", lines[6])
}

func TestRenderReservesBarSlots(t *testing.T) {
	partial := &models.TrendSeries{}
	full := &models.TrendSeries{}
	for h := 0; h < 24; h++ {
		p := point(fmt.Sprintf("%02d:00", h), 1, 0, 0, 0)
		if h < 3 {
			partial.Points = append(partial.Points, p)
		}
		full.Points = append(full.Points, p)
	}

	short := strings.Split(Render(Options{Granularity: models.Daily, Anchor: "2024-03-03", Series: partial, Height: 3}), "\n")
	long := strings.Split(Render(Options{Granularity: models.Daily, Anchor: "2024-03-03", Series: full, Height: 3}), "\n")

	// "2 ┤" gutter plus 24 two-cell columns
	for row := 0; row < 3; row++ {
		assert.Equal(t, 3+24*2, lipgloss.Width(short[row]))
		assert.Equal(t, lipgloss.Width(long[row]), lipgloss.Width(short[row]))
	}
}

func TestRenderBreakdown(t *testing.T) {
	series := &models.TrendSeries{TotalUsage: 1234.5}
	series.Breakdown[models.EVCharger] = 1000

	out := RenderBreakdown(series, Selection{}.Toggle(models.EVCharger))
	assert.Contains(t, out, "1,234.50 kWh")
	assert.Contains(t, out, "1,000.00 kWh")
	assert.Contains(t, out, "ev charger")
	assert.Len(t, strings.Split(out, "\n"), 5)
}

func TestAxisLabelsSkipOverlaps(t *testing.T) {
	points := []models.TrendPoint{point("00:00", 0, 0, 0, 0), point("01:00", 0, 0, 0, 0), point("02:00", 0, 0, 0, 0), point("03:00", 0, 0, 0, 0)}
	assert.Equal(t, "00:00 03:00", axisLabels(models.Daily, points, 2))
}

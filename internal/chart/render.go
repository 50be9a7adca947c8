package chart

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/jgoulah/wattboard/pkg/models"
)

const (
	defaultHeight = 10
	barGlyph      = "█"
	emptyMessage  = "No data :("
)

var (
	axisStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))
	labelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#D1D5DB"))
	totalStyle    = lipgloss.NewStyle().Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#000000")).Background(colorHighlight)
)

// Options controls a text rendering of the chart
type Options struct {
	Granularity models.Granularity
	Anchor      string
	Series      *models.TrendSeries
	Selection   Selection
	Height      int
}

// FormatKWh renders a usage figure with thousands separators and two decimals
func FormatKWh(v float64) string {
	return humanize.FormatFloat("#,###.##", v) + " kWh"
}

// Render draws the stacked bar chart followed by the period caption
func Render(opts Options) string {
	var points []models.TrendPoint
	if opts.Series != nil {
		points = opts.Series.Points
	}
	if len(points) == 0 {
		return axisStyle.Render(emptyMessage) + "\n" + PeriodLabel(opts.Granularity, opts.Anchor, nil)
	}

	height := opts.Height
	if height <= 0 {
		height = defaultHeight
	}

	domain := YDomain(points)
	top := domain[1]
	if top <= 0 {
		top = DefaultDomain[1]
	}

	colWidth := 2
	if opts.Granularity == models.Weekly {
		colWidth = 4
	}

	// partial periods keep the full slot layout
	slots := max(BarCount(opts.Granularity), len(points))
	padding := strings.Repeat(" ", (slots-len(points))*colWidth)

	topLabel := humanize.FormatFloat("#,###.", top)
	gutter := len(topLabel)

	var b strings.Builder
	for row := height - 1; row >= 0; row-- {
		switch row {
		case height - 1:
			b.WriteString(axisStyle.Render(fmt.Sprintf("%*s ┤", gutter, topLabel)))
		case 0:
			b.WriteString(axisStyle.Render(fmt.Sprintf("%*s ┤", gutter, "0")))
		default:
			b.WriteString(axisStyle.Render(fmt.Sprintf("%*s │", gutter, "")))
		}

		// sample the middle of the row
		level := (float64(row) + 0.5) * top / float64(height)
		for _, p := range points {
			cell := strings.Repeat(" ", colWidth)
			if d, ok := deviceAt(p, level); ok {
				glyphs := strings.Repeat(barGlyph, colWidth-1) + " "
				cell = lipgloss.NewStyle().Foreground(segmentColor(opts.Selection, d)).Render(glyphs)
			}
			b.WriteString(cell)
		}
		b.WriteString(padding)
		b.WriteString("\n")
	}

	b.WriteString(strings.Repeat(" ", gutter+2))
	b.WriteString(labelStyle.Render(axisLabels(opts.Granularity, points, colWidth)))
	b.WriteString("\n")
	b.WriteString(PeriodLabel(opts.Granularity, opts.Anchor, points))

	return b.String()
}

// RenderBreakdown lists the total and per-device usage, highlighting the
// selected device
func RenderBreakdown(series *models.TrendSeries, sel Selection) string {
	var total float64
	var usage models.DeviceUsage
	if series != nil {
		total = series.TotalUsage
		usage = series.Breakdown
	}

	var b strings.Builder
	b.WriteString(totalStyle.Render(fmt.Sprintf("%-12s %16s", "Total", FormatKWh(total))))
	b.WriteString("\n")
	for i, d := range models.Devices {
		marker := lipgloss.NewStyle().Foreground(DeviceColor(d)).Render("■")
		line := fmt.Sprintf("%d %-10s %16s", i+1, d.String(), FormatKWh(usage.Get(d)))
		if sel.Is(d) {
			line = selectedStyle.Render(line)
		}
		b.WriteString(marker + " " + line + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// deviceAt returns the device whose stacked segment covers level
func deviceAt(p models.TrendPoint, level float64) (models.Device, bool) {
	var cumulative float64
	for _, d := range models.Devices {
		cumulative += p.Usage.Get(d)
		if level < cumulative {
			return d, true
		}
	}
	return 0, false
}

// segmentColor uses the legend colours until a device is highlighted, then
// switches to highlight/idle so the selection stands out
func segmentColor(sel Selection, d models.Device) lipgloss.Color {
	if _, ok := sel.Device(); ok {
		return BarColor(sel, d)
	}
	return DeviceColor(d)
}

// axisLabels places bucket labels under their columns, skipping any label
// that would overlap the previous one
func axisLabels(g models.Granularity, points []models.TrendPoint, colWidth int) string {
	width := len(points)*colWidth + 8
	line := []rune(strings.Repeat(" ", width))
	nextFree := 0
	for i, p := range points {
		label := []rune(XLabel(g, p.X))
		pos := i * colWidth
		if pos < nextFree || pos+len(label) > width {
			continue
		}
		copy(line[pos:], label)
		nextFree = pos + len(label) + 1
	}
	return strings.TrimRight(string(line), " ")
}

// Package tui is the interactive two-tab dashboard: a trends chart with
// period navigation and an insights list.
package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jgoulah/wattboard/internal/chart"
	"github.com/jgoulah/wattboard/internal/dashboard"
	"github.com/jgoulah/wattboard/internal/period"
	"github.com/jgoulah/wattboard/pkg/models"
)

type tab int

const (
	tabTrends tab = iota
	tabInsights
)

var (
	titleStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#87CEEB")).Bold(true)
	activeTab      = lipgloss.NewStyle().Foreground(lipgloss.Color("#000000")).Background(lipgloss.Color("#FF7F50")).Padding(0, 1)
	inactiveTab    = lipgloss.NewStyle().Foreground(lipgloss.Color("#D1D5DB")).Padding(0, 1)
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#E5484D"))
	cardStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#4B5563")).Padding(0, 1)
	insightTitle   = lipgloss.NewStyle().Bold(true)
	helpText       = "tab switch · d/w/m period · ←/→ navigate · 1-4 highlight · r refresh · q quit"
	insightsHeader = "Weekly energy insights"
)

type trendsLoadedMsg struct{ seq uint64 }

type insightsLoadedMsg struct{ seq uint64 }

// Model is the bubbletea model for the dashboard
type Model struct {
	ctx      context.Context
	trends   *dashboard.TrendsController
	insights *dashboard.InsightsController

	tab    tab
	width  int
	height int
}

// New creates the dashboard model. ctx bounds every fetch it starts.
func New(ctx context.Context, trends *dashboard.TrendsController, insights *dashboard.InsightsController) Model {
	return Model{
		ctx:      ctx,
		trends:   trends,
		insights: insights,
	}
}

// Run starts the program in the alternate screen and blocks until quit
func Run(ctx context.Context, trends *dashboard.TrendsController, insights *dashboard.InsightsController) error {
	p := tea.NewProgram(New(ctx, trends, insights), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.fetchTrends(m.trends.Refresh()),
		m.fetchInsights(m.insights.Refresh()),
	)
}

func (m Model) fetchTrends(req dashboard.Request) tea.Cmd {
	return func() tea.Msg {
		// errors are logged and kept in controller state
		_, _ = m.trends.Run(m.ctx, req)
		return trendsLoadedMsg{seq: req.Seq}
	}
}

func (m Model) fetchInsights(seq uint64) tea.Cmd {
	return func() tea.Msg {
		_, _ = m.insights.Run(m.ctx, seq)
		return insightsLoadedMsg{seq: seq}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case trendsLoadedMsg, insightsLoadedMsg:
		// state lives in the controllers; returning triggers a redraw
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "tab", "shift+tab":
		if m.tab == tabTrends {
			m.tab = tabInsights
		} else {
			m.tab = tabTrends
		}
		return m, nil
	}

	if m.tab == tabInsights {
		if key == "r" {
			return m, m.fetchInsights(m.insights.Refresh())
		}
		return m, nil
	}

	switch key {
	case "d":
		return m, m.fetchTrends(m.trends.SelectGranularity(models.Daily))
	case "w":
		return m, m.fetchTrends(m.trends.SelectGranularity(models.Weekly))
	case "m":
		return m, m.fetchTrends(m.trends.SelectGranularity(models.Monthly))
	case "left", "h":
		return m, m.fetchTrends(m.trends.Navigate(period.Prev))
	case "right", "l":
		return m, m.fetchTrends(m.trends.Navigate(period.Next))
	case "r":
		return m, m.fetchTrends(m.trends.Refresh())
	case "1", "2", "3", "4":
		m.trends.ToggleDevice(models.Devices[int(key[0]-'1')])
		return m, nil
	}

	return m, nil
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")

	if m.tab == tabInsights {
		b.WriteString(m.renderInsights())
	} else {
		b.WriteString(m.renderTrends())
	}

	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render(helpText))
	return b.String()
}

func (m Model) renderTabs() string {
	labels := []struct {
		t    tab
		name string
	}{
		{tabTrends, "Trends"},
		{tabInsights, "Insights"},
	}

	var parts []string
	for _, l := range labels {
		if l.t == m.tab {
			parts = append(parts, activeTab.Render(l.name))
		} else {
			parts = append(parts, inactiveTab.Render(l.name))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m Model) renderTrends() string {
	s := m.trends.Snapshot()

	var buttons []string
	for _, g := range models.Granularities {
		if g == s.Granularity {
			buttons = append(buttons, activeTab.Render(g.Title()))
		} else {
			buttons = append(buttons, inactiveTab.Render(g.Title()))
		}
	}

	var b strings.Builder
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, buttons...))
	b.WriteString("\n\n")

	if s.Loading {
		b.WriteString(dimStyle.Render("Loading..."))
		return b.String()
	}

	height := 10
	if m.height > 0 && m.height < 30 {
		height = max(4, m.height-20)
	}

	series := s.Series
	b.WriteString(chart.Render(chart.Options{
		Granularity: s.Granularity,
		Anchor:      s.Anchor,
		Series:      &series,
		Selection:   s.Selection,
		Height:      height,
	}))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("← prev   %s   next →", s.PeriodLabel())))
	b.WriteString("\n\n")
	b.WriteString(chart.RenderBreakdown(&series, s.Selection))

	if s.Err != nil {
		b.WriteString("\n\n")
		b.WriteString(errorStyle.Render("last refresh failed, showing previous data"))
	}

	return b.String()
}

func (m Model) renderInsights() string {
	s := m.insights.Snapshot()

	var b strings.Builder
	b.WriteString(titleStyle.Render(insightsHeader))
	b.WriteString("\n\n")

	if s.Loading {
		b.WriteString(dimStyle.Render("Loading..."))
		return b.String()
	}

	if len(s.Insights) == 0 {
		b.WriteString(dimStyle.Render("No insights yet"))
	}

	width := 60
	if m.width > 10 {
		width = min(m.width-4, 80)
	}

	for _, in := range s.Insights {
		head := insightTitle.Render(in.Title)
		gap := width - lipgloss.Width(head) - lipgloss.Width(in.Emoji) - 2
		if gap < 1 {
			gap = 1
		}
		body := head + strings.Repeat(" ", gap) + in.Emoji + "\n" + in.Insight
		b.WriteString(cardStyle.Width(width).Render(body))
		b.WriteString("\n")
	}

	if s.Err != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("last refresh failed"))
	}

	return strings.TrimRight(b.String(), "\n")
}

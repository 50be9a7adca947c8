package tui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jgoulah/wattboard/internal/dashboard"
	"github.com/jgoulah/wattboard/internal/period"
	"github.com/jgoulah/wattboard/pkg/models"
)

type stubAPI struct {
	trendCalls []string
}

func (s *stubAPI) FetchTrends(ctx context.Context, g models.Granularity, anchor, timezone string) (*models.TrendSeries, error) {
	s.trendCalls = append(s.trendCalls, string(g)+" "+anchor)
	series := &models.TrendSeries{
		Points:     []models.TrendPoint{{X: "2024-03-03"}, {X: "2024-03-09"}},
		TotalUsage: 7,
	}
	series.Points[0].Usage[models.Oven] = 3
	series.Breakdown[models.Oven] = 7
	return series, nil
}

func (s *stubAPI) FetchInsights(ctx context.Context) ([]models.Insight, error) {
	return []models.Insight{{Title: "Oven heavy week", Insight: "The oven used 7 kWh.", Emoji: "🔥"}}, nil
}

func newTestModel(t *testing.T) (Model, *stubAPI) {
	t.Helper()
	api := &stubAPI{}
	now := time.Date(2024, 3, 6, 12, 0, 0, 0, time.UTC)
	nav := &period.Navigator{Location: time.UTC, Now: func() time.Time { return now }}

	trends := dashboard.NewTrendsController(api, nav, "UTC", nil)
	insights := dashboard.NewInsightsController(api, nil)
	return New(context.Background(), trends, insights), api
}

func press(t *testing.T, m Model, key string) (Model, tea.Cmd) {
	t.Helper()
	var msg tea.KeyMsg
	switch key {
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	case "left":
		msg = tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		msg = tea.KeyMsg{Type: tea.KeyRight}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok)
	return model, cmd
}

func runCmd(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	require.NotNil(t, cmd)
	next, _ := m.Update(cmd())
	return next.(Model)
}

func TestViewShowsLoadingBeforeFetch(t *testing.T) {
	m, _ := newTestModel(t)
	assert.Contains(t, m.View(), "Loading...")
}

func TestWeeklyNavigation(t *testing.T) {
	m, api := newTestModel(t)

	m, cmd := press(t, m, "w")
	m = runCmd(t, m, cmd)

	m, cmd = press(t, m, "right")
	m = runCmd(t, m, cmd)

	assert.Equal(t, []string{"weekly 2024-03-03", "weekly 2024-03-10"}, api.trendCalls)

	view := m.View()
	assert.Contains(t, view, "Weekly")
	assert.Contains(t, view, "2024-03-03...2024-03-09")
	assert.Contains(t, view, "7.00 kWh")
}

func TestToggleDeviceKey(t *testing.T) {
	m, _ := newTestModel(t)

	m, cmd := press(t, m, "2")
	assert.Nil(t, cmd)
	assert.True(t, m.trends.Snapshot().Selection.Is(models.Oven))

	m, _ = press(t, m, "2")
	_, ok := m.trends.Snapshot().Selection.Device()
	assert.False(t, ok)
}

func TestInsightsTab(t *testing.T) {
	m, _ := newTestModel(t)

	m, _ = press(t, m, "tab")
	assert.Equal(t, tabInsights, m.tab)

	m, cmd := press(t, m, "r")
	m = runCmd(t, m, cmd)

	view := m.View()
	assert.Contains(t, view, insightsHeader)
	assert.Contains(t, view, "Oven heavy week")

	// granularity keys do nothing on the insights tab
	_, cmd = press(t, m, "w")
	assert.Nil(t, cmd)
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(t)
	_, cmd := press(t, m, "q")
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

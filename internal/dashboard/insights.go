package dashboard

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/jgoulah/wattboard/pkg/models"
)

// InsightFetcher retrieves the insight list
type InsightFetcher interface {
	FetchInsights(ctx context.Context) ([]models.Insight, error)
}

// InsightsState is a snapshot of the insights screen
type InsightsState struct {
	Insights []models.Insight
	Loading  bool
	Err      error
}

// InsightsController owns the insight list
type InsightsController struct {
	fetcher InsightFetcher
	log     *zap.Logger

	mu     sync.Mutex
	latest uint64
	state  InsightsState
}

// NewInsightsController creates a controller in the loading state
func NewInsightsController(fetcher InsightFetcher, log *zap.Logger) *InsightsController {
	if log == nil {
		log = zap.NewNop()
	}
	return &InsightsController{
		fetcher: fetcher,
		log:     log,
		state:   InsightsState{Insights: []models.Insight{}, Loading: true},
	}
}

// Refresh issues a new fetch and returns its sequence number
func (c *InsightsController) Refresh() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.latest++
	c.state.Loading = true
	return c.latest
}

// Run fetches insights for seq, committing only if seq is still the latest
func (c *InsightsController) Run(ctx context.Context, seq uint64) (bool, error) {
	insights, err := c.fetcher.FetchInsights(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	if seq != c.latest {
		c.log.Debug("discarding stale insights response", zap.Uint64("seq", seq), zap.Uint64("latest", c.latest))
		return false, err
	}

	c.state.Loading = false
	if err != nil {
		c.state.Err = err
		c.log.Error("error fetching insights", zap.Error(err))
		return false, err
	}

	c.state.Err = nil
	if insights == nil {
		insights = []models.Insight{}
	}
	c.state.Insights = insights
	return true, nil
}

// Load issues a refresh and runs it
func (c *InsightsController) Load(ctx context.Context) (bool, error) {
	return c.Run(ctx, c.Refresh())
}

// Snapshot returns a copy of the current state
func (c *InsightsController) Snapshot() InsightsState {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.state
	s.Insights = make([]models.Insight, len(c.state.Insights))
	copy(s.Insights, c.state.Insights)
	return s
}

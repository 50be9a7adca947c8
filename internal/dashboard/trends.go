// Package dashboard holds the view state behind the trends and insights
// screens. Controllers own the state, fetch through an injected collaborator
// and only commit the response of the most recently issued request.
package dashboard

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/jgoulah/wattboard/internal/chart"
	"github.com/jgoulah/wattboard/internal/period"
	"github.com/jgoulah/wattboard/pkg/models"
)

// TrendFetcher retrieves the trend series for one period
type TrendFetcher interface {
	FetchTrends(ctx context.Context, g models.Granularity, anchor, timezone string) (*models.TrendSeries, error)
}

// Request identifies one issued trend fetch
type Request struct {
	Seq         uint64
	Granularity models.Granularity
	Anchor      string
}

// TrendsState is a snapshot of the trends screen
type TrendsState struct {
	Granularity models.Granularity
	Anchor      string
	Selection   chart.Selection
	Series      models.TrendSeries
	Loading     bool
	// Err is the failure of the latest request, cleared on the next success
	Err error
}

// PeriodLabel is the caption for the current period
func (s TrendsState) PeriodLabel() string {
	return chart.PeriodLabel(s.Granularity, s.Anchor, s.Series.Points)
}

// YDomain is the chart's y range for the committed series
func (s TrendsState) YDomain() [2]float64 {
	return chart.YDomain(s.Series.Points)
}

// TrendsController owns granularity, anchor, highlight and the fetched series
type TrendsController struct {
	fetcher  TrendFetcher
	nav      *period.Navigator
	timezone string
	log      *zap.Logger

	mu     sync.Mutex
	latest uint64
	state  TrendsState
}

// NewTrendsController starts on the daily view anchored at today
func NewTrendsController(fetcher TrendFetcher, nav *period.Navigator, timezone string, log *zap.Logger) *TrendsController {
	if log == nil {
		log = zap.NewNop()
	}
	return &TrendsController{
		fetcher:  fetcher,
		nav:      nav,
		timezone: timezone,
		log:      log,
		state: TrendsState{
			Granularity: models.Daily,
			Anchor:      nav.DefaultAnchorString(models.Daily),
			Series:      models.TrendSeries{Points: []models.TrendPoint{}},
			Loading:     true,
		},
	}
}

// SelectGranularity switches mode and resets the anchor to that mode's default
func (c *TrendsController) SelectGranularity(g models.Granularity) Request {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.Granularity = g
	c.state.Anchor = c.nav.DefaultAnchorString(g)
	return c.issueLocked()
}

// Navigate moves the anchor one period backwards or forwards
func (c *TrendsController) Navigate(dir period.Direction) Request {
	c.mu.Lock()
	defer c.mu.Unlock()

	next, err := c.nav.AdvanceString(c.state.Anchor, c.state.Granularity, dir)
	if err != nil {
		// anchors are produced by the navigator, so this means a bad SetAnchor
		c.log.Warn("resetting unparseable anchor",
			zap.String("anchor", c.state.Anchor),
			zap.Error(err))
		next = c.nav.DefaultAnchorString(c.state.Granularity)
	}
	c.state.Anchor = next
	return c.issueLocked()
}

// SetAnchor jumps to a specific period
func (c *TrendsController) SetAnchor(anchor string) (Request, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	t, err := c.nav.Parse(anchor, c.state.Granularity)
	if err != nil {
		return Request{}, err
	}
	c.state.Anchor = period.Format(t, c.state.Granularity)
	return c.issueLocked(), nil
}

// Refresh re-issues a fetch for the current period
func (c *TrendsController) Refresh() Request {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.issueLocked()
}

func (c *TrendsController) issueLocked() Request {
	c.latest++
	c.state.Loading = true
	return Request{
		Seq:         c.latest,
		Granularity: c.state.Granularity,
		Anchor:      c.state.Anchor,
	}
}

// Run performs the fetch for req. The result is committed only when req is
// still the latest issued request; superseded responses are dropped whether
// they succeeded or failed. On failure the previous series is kept.
func (c *TrendsController) Run(ctx context.Context, req Request) (bool, error) {
	series, err := c.fetcher.FetchTrends(ctx, req.Granularity, req.Anchor, c.timezone)

	c.mu.Lock()
	defer c.mu.Unlock()

	if req.Seq != c.latest {
		c.log.Debug("discarding stale trends response",
			zap.Uint64("seq", req.Seq),
			zap.Uint64("latest", c.latest),
			zap.String("granularity", string(req.Granularity)),
			zap.String("anchor", req.Anchor))
		return false, err
	}

	c.state.Loading = false
	if err != nil {
		c.state.Err = err
		c.log.Error("error fetching energy trends",
			zap.String("granularity", string(req.Granularity)),
			zap.String("anchor", req.Anchor),
			zap.Error(err))
		return false, err
	}

	c.state.Err = nil
	if series != nil {
		c.state.Series = *series
	}
	return true, nil
}

// Load issues a refresh and runs it
func (c *TrendsController) Load(ctx context.Context) (bool, error) {
	return c.Run(ctx, c.Refresh())
}

// ToggleDevice highlights a device, or clears the highlight if it is already selected
func (c *TrendsController) ToggleDevice(d models.Device) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Selection = c.state.Selection.Toggle(d)
}

// Snapshot returns a copy of the current state
func (c *TrendsController) Snapshot() TrendsState {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.state
	s.Series.Points = make([]models.TrendPoint, len(c.state.Series.Points))
	copy(s.Series.Points, c.state.Series.Points)
	return s
}

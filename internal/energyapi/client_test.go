package energyapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jgoulah/wattboard/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const trendPayload = `{
	"total_usage_kwh": "8.75",
	"device_breakdown": {"fridge": 1.25, "oven": 2.5, "lights": 0.5, "ev charger": 4.5},
	"data": [
		{"x": "2024-03-03", "fridge": 0.2, "oven": 0.5, "lights": 0.1, "ev charger": 0},
		{"x": "2024-03-04", "fridge": 0.2, "oven": 0, "lights": 0.1, "ev charger": 2.25}
	]
}`

func TestFetchTrends(t *testing.T) {
	var gotPath, gotDate, gotTZ string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotDate = r.URL.Query().Get("date")
		gotTZ = r.URL.Query().Get("timezone")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(trendPayload))
	}))
	defer srv.Close()

	c := New(srv.URL + "/")
	series, err := c.FetchTrends(context.Background(), models.Weekly, "2024-03-03", "America/New_York")
	require.NoError(t, err)

	assert.Equal(t, "/trends/weekly", gotPath)
	assert.Equal(t, "2024-03-03", gotDate)
	assert.Equal(t, "America/New_York", gotTZ)

	assert.Equal(t, 8.75, series.TotalUsage)
	assert.Equal(t, 4.5, series.Breakdown.Get(models.EVCharger))
	require.Len(t, series.Points, 2)
	assert.Equal(t, "2024-03-03", series.Points[0].X)
	assert.Equal(t, "2024-03-04", series.Points[1].X)
}

func TestTrendsURL(t *testing.T) {
	c := New("http://example.test/api")
	assert.Equal(t,
		"http://example.test/api/trends/monthly?date=2024-12&timezone=Europe%2FLondon",
		c.TrendsURL(models.Monthly, "2024-12", "Europe/London"))
}

func TestFetchTrendsStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := New(srv.URL).FetchTrends(context.Background(), models.Daily, "2024-03-03", "UTC")
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, "boom", apiErr.Body)
}

func TestFetchTrendsMalformedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data": [`))
	}))
	defer srv.Close()

	_, err := New(srv.URL).FetchTrends(context.Background(), models.Daily, "2024-03-03", "UTC")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding response")
}

func TestFetchTrendsInvalidGranularity(t *testing.T) {
	_, err := New("http://unused.test").FetchTrends(context.Background(), models.Granularity("hourly"), "2024-03-03", "UTC")
	assert.Error(t, err)
}

func TestFetchTrendsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := New(url, WithTimeout(time.Second)).FetchTrends(context.Background(), models.Daily, "2024-03-03", "UTC")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "making request")
}

func TestFetchInsights(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/insights", r.URL.Path)
		_, _ = w.Write([]byte(`[
			{"title": "EV charging peak", "insight": "Most charging happens at 6pm.", "emoji": "🚗"},
			{"title": "Fridge steady", "insight": "No change this week.", "emoji": "🧊"}
		]`))
	}))
	defer srv.Close()

	insights, err := New(srv.URL).FetchInsights(context.Background())
	require.NoError(t, err)
	require.Len(t, insights, 2)
	assert.Equal(t, "EV charging peak", insights[0].Title)
	assert.Equal(t, "🧊", insights[1].Emoji)
}

func TestFetchInsightsNull(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`null`))
	}))
	defer srv.Close()

	insights, err := New(srv.URL).FetchInsights(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, insights)
	assert.Empty(t, insights)
}

package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jgoulah/wattboard/internal/period"
	"github.com/jgoulah/wattboard/pkg/models"
)

func fixedNavigator(t *testing.T) *period.Navigator {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	nav := period.NewNavigator(loc)
	nav.Now = func() time.Time {
		return time.Date(2024, 3, 13, 15, 0, 0, 0, loc)
	}
	return nav
}

func TestResolveQuery(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		date    string
		step    string
		count   int
		want    trendsQuery
		wantErr bool
	}{
		{
			name: "defaults to today",
			want: trendsQuery{granularity: models.Daily, anchor: "2024-03-13"},
		},
		{
			name: "weekly starts on sunday",
			args: []string{"weekly"},
			want: trendsQuery{granularity: models.Weekly, anchor: "2024-03-10"},
		},
		{
			name: "monthly",
			args: []string{"Monthly"},
			want: trendsQuery{granularity: models.Monthly, anchor: "2024-03"},
		},
		{
			name:  "daily step back over leap day",
			date:  "2024-03-01",
			step:  "prev",
			count: 1,
			want:  trendsQuery{granularity: models.Daily, anchor: "2024-02-29"},
		},
		{
			name:  "weekly two steps back",
			args:  []string{"weekly"},
			step:  "prev",
			count: 2,
			want:  trendsQuery{granularity: models.Weekly, anchor: "2024-02-25"},
		},
		{
			name:  "monthly from end of month",
			args:  []string{"monthly"},
			date:  "2024-01-31",
			step:  "next",
			count: 1,
			want:  trendsQuery{granularity: models.Monthly, anchor: "2024-02"},
		},
		{
			name:  "zero count keeps anchor",
			date:  "2024-03-05",
			step:  "next",
			count: 0,
			want:  trendsQuery{granularity: models.Daily, anchor: "2024-03-05"},
		},
		{name: "unknown granularity", args: []string{"hourly"}, wantErr: true},
		{name: "bad date", date: "03/05/2024", wantErr: true},
		{name: "bad step", step: "sideways", count: 1, wantErr: true},
		{name: "negative count", step: "next", count: -1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveQuery(fixedNavigator(t), tt.args, tt.date, tt.step, tt.count)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

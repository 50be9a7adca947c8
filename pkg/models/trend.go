package models

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// TrendPoint is one bucket on the chart's x-axis: an hour for daily trends,
// a date for weekly and monthly trends
type TrendPoint struct {
	X     string      `json:"x"`
	Usage DeviceUsage `json:"-"`
}

// Total returns the stacked height of the bucket
func (p TrendPoint) Total() float64 {
	return p.Usage.Total()
}

// MarshalJSON writes the point in the flat API shape: {"x": ..., "fridge": ...}
func (p TrendPoint) MarshalJSON() ([]byte, error) {
	m := make(map[string]interface{}, deviceCount+1)
	m["x"] = p.X
	for _, d := range Devices {
		m[d.String()] = p.Usage[d]
	}
	return json.Marshal(m)
}

// UnmarshalJSON reads the flat API shape
func (p *TrendPoint) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decoding trend point: %w", err)
	}

	*p = TrendPoint{}
	if x, ok := raw["x"]; ok {
		var s string
		if err := json.Unmarshal(x, &s); err != nil {
			// some backends send the hour as a number
			var n json.Number
			if err := json.Unmarshal(x, &n); err != nil {
				return fmt.Errorf("decoding x: %w", err)
			}
			s = n.String()
		}
		p.X = s
	}

	return p.Usage.fill(raw)
}

// KWh is a usage figure the API sends as a decimal string ("12.34").
// Plain JSON numbers are accepted too.
type KWh float64

// UnmarshalJSON parses a quoted or bare decimal
func (k *KWh) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*k = 0
		return nil
	}
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = strings.TrimSpace(unquoted)
	}
	if s == "" {
		*k = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("parsing kWh value %q: %w", s, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("parsing kWh value %q: not a finite number", s)
	}
	*k = KWh(v)
	return nil
}

// MarshalJSON writes the value back as a two-decimal string
func (k KWh) MarshalJSON() ([]byte, error) {
	return json.Marshal(strconv.FormatFloat(float64(k), 'f', 2, 64))
}

// TrendResponse is the raw payload of GET /trends/{granularity}
type TrendResponse struct {
	TotalUsageKWh   KWh          `json:"total_usage_kwh"`
	DeviceBreakdown DeviceUsage  `json:"device_breakdown"`
	Data            []TrendPoint `json:"data"`
}

// TrendSeries is the chart-ready shape of a trend response
type TrendSeries struct {
	Points     []TrendPoint `json:"data"`
	TotalUsage float64      `json:"total_usage_kwh"`
	Breakdown  DeviceUsage  `json:"device_breakdown"`
}

// Series converts the payload into a TrendSeries. A missing data array
// becomes an empty (non-nil) series.
func (r *TrendResponse) Series() *TrendSeries {
	points := r.Data
	if points == nil {
		points = []TrendPoint{}
	}
	return &TrendSeries{
		Points:     points,
		TotalUsage: float64(r.TotalUsageKWh),
		Breakdown:  r.DeviceBreakdown,
	}
}

// Empty reports whether the series has no buckets
func (s *TrendSeries) Empty() bool {
	return s == nil || len(s.Points) == 0
}

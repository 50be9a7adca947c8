package models

import (
	"fmt"
	"strings"
)

// Granularity is the time bucketing mode of a trend query
type Granularity string

const (
	Daily   Granularity = "daily"
	Weekly  Granularity = "weekly"
	Monthly Granularity = "monthly"
)

// Granularities lists the supported modes in display order
var Granularities = []Granularity{Daily, Weekly, Monthly}

// ParseGranularity converts a name like "weekly" into a Granularity
func ParseGranularity(s string) (Granularity, error) {
	g := Granularity(strings.ToLower(strings.TrimSpace(s)))
	if !g.Valid() {
		return "", fmt.Errorf("unknown granularity: %q (available: daily, weekly, monthly)", s)
	}
	return g, nil
}

// Valid reports whether g is a supported mode
func (g Granularity) Valid() bool {
	switch g {
	case Daily, Weekly, Monthly:
		return true
	}
	return false
}

// Title returns the capitalized label used for buttons and headers
func (g Granularity) Title() string {
	if g == "" {
		return ""
	}
	return strings.ToUpper(string(g[:1])) + string(g[1:])
}

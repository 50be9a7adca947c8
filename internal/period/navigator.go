package period

import (
	"fmt"
	"time"

	"github.com/jgoulah/wattboard/pkg/models"
)

const (
	dayLayout   = "2006-01-02"
	monthLayout = "2006-01"
)

// Direction moves an anchor backwards or forwards in time
type Direction int

const (
	Prev Direction = -1
	Next Direction = 1
)

// ParseDirection accepts "prev" or "next"
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "prev", "previous":
		return Prev, nil
	case "next":
		return Next, nil
	default:
		return 0, fmt.Errorf("unknown direction: %q (available: prev, next)", s)
	}
}

func (d Direction) String() string {
	if d < 0 {
		return "prev"
	}
	return "next"
}

// Navigator computes period anchors for a granularity. All dates are
// evaluated in Location, so "today" follows the user's timezone rather
// than UTC.
type Navigator struct {
	Location *time.Location
	Now      func() time.Time
}

// NewNavigator creates a navigator using the wall clock
func NewNavigator(loc *time.Location) *Navigator {
	if loc == nil {
		loc = time.Local
	}
	return &Navigator{Location: loc, Now: time.Now}
}

func (n *Navigator) today() time.Time {
	now := time.Now
	if n.Now != nil {
		now = n.Now
	}
	loc := n.Location
	if loc == nil {
		loc = time.Local
	}
	t := now().In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// DefaultAnchor returns the anchor a freshly selected granularity starts at:
// today for daily, the most recent Sunday for weekly and the first of the
// current month for monthly
func (n *Navigator) DefaultAnchor(g models.Granularity) time.Time {
	today := n.today()
	switch g {
	case models.Weekly:
		return today.AddDate(0, 0, -int(today.Weekday()))
	case models.Monthly:
		return time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, n.Location)
	default:
		return today
	}
}

// DefaultAnchorString is DefaultAnchor formatted for the API
func (n *Navigator) DefaultAnchorString(g models.Granularity) string {
	return Format(n.DefaultAnchor(g), g)
}

// Advance moves the anchor one period in the given direction
func Advance(anchor time.Time, g models.Granularity, dir Direction) time.Time {
	step := int(dir)
	switch g {
	case models.Weekly:
		return anchor.AddDate(0, 0, 7*step)
	case models.Monthly:
		// Start from the first so Jan 31 + 1 month is February, not March.
		first := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, anchor.Location())
		return first.AddDate(0, step, 0)
	default:
		return anchor.AddDate(0, 0, step)
	}
}

// AdvanceString parses an anchor, advances it, and formats the result
func (n *Navigator) AdvanceString(anchor string, g models.Granularity, dir Direction) (string, error) {
	t, err := n.Parse(anchor, g)
	if err != nil {
		return "", err
	}
	return Format(Advance(t, g, dir), g), nil
}

// Format renders an anchor the way the API expects it: YYYY-MM-DD for daily
// and weekly, YYYY-MM for monthly
func Format(t time.Time, g models.Granularity) string {
	if g == models.Monthly {
		return t.Format(monthLayout)
	}
	return t.Format(dayLayout)
}

// Parse reads an anchor string for the granularity. Monthly also accepts a
// full date and truncates it to the month.
func (n *Navigator) Parse(s string, g models.Granularity) (time.Time, error) {
	loc := n.Location
	if loc == nil {
		loc = time.Local
	}

	if g == models.Monthly {
		if t, err := time.ParseInLocation(monthLayout, s, loc); err == nil {
			return t, nil
		}
		t, err := time.ParseInLocation(dayLayout, s, loc)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid monthly anchor %q (use YYYY-MM)", s)
		}
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, loc), nil
	}

	t, err := time.ParseInLocation(dayLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s anchor %q (use YYYY-MM-DD)", g, s)
	}
	return t, nil
}

// Step advances an anchor string count times in one direction
func (n *Navigator) Step(anchor string, g models.Granularity, dir Direction, count int) (string, error) {
	t, err := n.Parse(anchor, g)
	if err != nil {
		return "", err
	}
	for i := 0; i < count; i++ {
		t = Advance(t, g, dir)
	}
	return Format(t, g), nil
}

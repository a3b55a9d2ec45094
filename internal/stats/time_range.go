package stats

import (
	"fmt"
	"strings"
	"time"
)

// TimeRange is one of the statistics screen presets, counted back from now.
type TimeRange string

const (
	Week        TimeRange = "week"
	Month       TimeRange = "month"
	ThreeMonths TimeRange = "3months"
	Year        TimeRange = "year"
)

func AllTimeRanges() []TimeRange {
	return []TimeRange{Week, Month, ThreeMonths, Year}
}

func ParseTimeRange(s string) (TimeRange, error) {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "")
	for _, tr := range AllTimeRanges() {
		if normalized == string(tr) {
			return tr, nil
		}
	}
	return "", fmt.Errorf("unknown time range [%s], expected one of: week, month, 3months, year", s)
}

func (tr TimeRange) Days() int {
	switch tr {
	case Week:
		return 7
	case Month:
		return 30
	case ThreeMonths:
		return 90
	case Year:
		return 365
	default:
		return 0
	}
}

func (tr TimeRange) Label() string {
	switch tr {
	case Week:
		return "Week"
	case Month:
		return "Month"
	case ThreeMonths:
		return "3 Months"
	case Year:
		return "Year"
	default:
		return string(tr)
	}
}

// Bounds returns [now - days, now] in UTC.
func (tr TimeRange) Bounds(now time.Time) (start, end time.Time) {
	end = now.UTC()
	start = end.AddDate(0, 0, -tr.Days())
	return start, end
}

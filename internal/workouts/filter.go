package workouts

import (
	"net/url"
	"time"
)

// Filter narrows down a workouts list query. Nil members are not sent at all.
type Filter struct {
	Type      *string
	StartDate *time.Time
	EndDate   *time.Time
}

func (f Filter) WithType(wType string) Filter {
	f.Type = &wType
	return f
}

func (f Filter) WithRange(start, end time.Time) Filter {
	f.StartDate = &start
	f.EndDate = &end
	return f
}

func (f Filter) IsEmpty() bool {
	return f.Type == nil && f.StartDate == nil && f.EndDate == nil
}

// Query returns the url query parameters for the present members only.
func (f Filter) Query() url.Values {
	q := url.Values{}
	if f.Type != nil {
		q.Set("type", *f.Type)
	}
	if f.StartDate != nil {
		q.Set("startDate", FormatDate(*f.StartDate))
	}
	if f.EndDate != nil {
		q.Set("endDate", FormatDate(*f.EndDate))
	}
	return q
}

// Matches applies the filter locally; the date range is inclusive on both ends.
func (f Filter) Matches(w Workout) bool {
	if f.Type != nil && w.Type != *f.Type {
		return false
	}
	if f.StartDate != nil && w.Date.Before(*f.StartDate) {
		return false
	}
	if f.EndDate != nil && w.Date.After(*f.EndDate) {
		return false
	}
	return true
}

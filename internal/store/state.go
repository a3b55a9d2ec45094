package store

import "github.com/2beens/fittracker/internal/workouts"

// State is what a screen renders: the list, whether anything is still loading,
// the error of the last failed operation and the last fetched calories summary.
type State struct {
	Workouts        []workouts.Workout
	IsLoading       bool
	ErrorMessage    *string
	CaloriesSummary *workouts.CaloriesSummary
}

func (s State) Clone() State {
	c := State{
		Workouts:  make([]workouts.Workout, 0, len(s.Workouts)),
		IsLoading: s.IsLoading,
	}
	for _, w := range s.Workouts {
		c.Workouts = append(c.Workouts, w.Clone())
	}
	if s.ErrorMessage != nil {
		msg := *s.ErrorMessage
		c.ErrorMessage = &msg
	}
	if s.CaloriesSummary != nil {
		sum := *s.CaloriesSummary
		c.CaloriesSummary = &sum
	}
	return c
}

func (s State) ErrorText() string {
	if s.ErrorMessage == nil {
		return ""
	}
	return *s.ErrorMessage
}

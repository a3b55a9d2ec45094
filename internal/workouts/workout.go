package workouts

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
)

// DefaultUser is used as the owner of new workouts, since there is no auth yet.
const DefaultUser = "User"

const (
	MinDuration = 1
	MaxDuration = 300
	MinCalories = 1
	MaxCalories = 2000
)

var ErrMalformedRecord = errors.New("malformed workout record")

// Workout is one stored workout entry, as seen both by the API and the store.
type Workout struct {
	ID             string
	User           string
	Type           string
	Duration       int // minutes
	CaloriesBurned int
	Date           time.Time
	Notes          *string

	// set by the server only
	CreatedAt *time.Time
	UpdatedAt *time.Time
	Version   *int
}

// HasNotes reports whether the workout carries non-empty notes.
func (w Workout) HasNotes() bool {
	return w.Notes != nil && *w.Notes != ""
}

// NotesText returns the notes, or an empty string when there are none.
func (w Workout) NotesText() string {
	if w.Notes == nil {
		return ""
	}
	return *w.Notes
}

// Clone returns a deep copy, so the pointer fields are not shared.
func (w Workout) Clone() Workout {
	c := w
	if w.Notes != nil {
		n := *w.Notes
		c.Notes = &n
	}
	if w.CreatedAt != nil {
		t := *w.CreatedAt
		c.CreatedAt = &t
	}
	if w.UpdatedAt != nil {
		t := *w.UpdatedAt
		c.UpdatedAt = &t
	}
	if w.Version != nil {
		v := *w.Version
		c.Version = &v
	}
	return c
}

// NewWorkout holds the fields a user fills in when adding a workout.
// The server assigns everything else.
type NewWorkout struct {
	User           string
	Type           string
	Duration       int
	CaloriesBurned int
	Date           time.Time
	Notes          string
}

// Validate checks the input ranges the add-workout form enforces.
// The API client never calls it, the server is free to accept anything.
func (nw NewWorkout) Validate() error {
	var err error
	if nw.Type == "" {
		err = multierr.Append(err, errors.New("workout type empty"))
	}
	if nw.Duration < MinDuration || nw.Duration > MaxDuration {
		err = multierr.Append(err, fmt.Errorf("duration %d out of range [%d, %d]", nw.Duration, MinDuration, MaxDuration))
	}
	if nw.CaloriesBurned < MinCalories || nw.CaloriesBurned > MaxCalories {
		err = multierr.Append(err, fmt.Errorf("calories %d out of range [%d, %d]", nw.CaloriesBurned, MinCalories, MaxCalories))
	}
	return err
}

// Placeholder builds the local copy of a workout before the server confirms it.
// The ID is a random uuid and gets replaced by the server assigned one.
func (nw NewWorkout) Placeholder(now time.Time) Workout {
	w := Workout{
		ID:             uuid.NewString(),
		User:           nw.User,
		Type:           nw.Type,
		Duration:       nw.Duration,
		CaloriesBurned: nw.CaloriesBurned,
		Date:           nw.Date,
	}
	if w.User == "" {
		w.User = DefaultUser
	}
	if w.Date.IsZero() {
		w.Date = now.UTC().Truncate(time.Millisecond)
	}
	if nw.Notes != "" {
		notes := nw.Notes
		w.Notes = &notes
	}
	return w
}

// WorkoutType can be one of:
//   - Running
//   - Cycling
//   - Swimming
//   - Weightlifting
//   - Yoga
//   - HIIT
//   - Other
type WorkoutType string

const (
	WorkoutTypeRunning       WorkoutType = "Running"
	WorkoutTypeCycling       WorkoutType = "Cycling"
	WorkoutTypeSwimming      WorkoutType = "Swimming"
	WorkoutTypeWeightlifting WorkoutType = "Weightlifting"
	WorkoutTypeYoga          WorkoutType = "Yoga"
	WorkoutTypeHIIT          WorkoutType = "HIIT"
	WorkoutTypeOther         WorkoutType = "Other"
)

func AllWorkoutTypes() []WorkoutType {
	return []WorkoutType{
		WorkoutTypeRunning,
		WorkoutTypeCycling,
		WorkoutTypeSwimming,
		WorkoutTypeWeightlifting,
		WorkoutTypeYoga,
		WorkoutTypeHIIT,
		WorkoutTypeOther,
	}
}

func (wt WorkoutType) String() string {
	return string(wt)
}

func (wt WorkoutType) IsValid() bool {
	switch wt {
	case WorkoutTypeRunning,
		WorkoutTypeCycling,
		WorkoutTypeSwimming,
		WorkoutTypeWeightlifting,
		WorkoutTypeYoga,
		WorkoutTypeHIIT,
		WorkoutTypeOther:
		return true
	default:
		return false
	}
}

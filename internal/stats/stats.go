package stats

import (
	"fmt"
	"sort"
	"time"

	"github.com/2beens/fittracker/internal/workouts"

	"github.com/montanaflynn/stats"
)

type TypeCount struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

type DayCalories struct {
	Day      time.Time `json:"day"`
	Calories int       `json:"calories"`
}

type TypeDuration struct {
	Type    string `json:"type"`
	Minutes int    `json:"minutes"`
}

// Overview sums up a list of workouts. Means and medians are 0 for an empty list.
type Overview struct {
	Workouts       int     `json:"workouts"`
	TotalCalories  int     `json:"totalCalories"`
	TotalDuration  int     `json:"totalDuration"`
	MeanCalories   float64 `json:"meanCalories"`
	MedianCalories float64 `json:"medianCalories"`
	MeanDuration   float64 `json:"meanDuration"`
	MedianDuration float64 `json:"medianDuration"`
	StdDevCalories float64 `json:"stdDevCalories"`
}

// CountByType returns how many workouts there are of each type, most frequent first.
func CountByType(ws []workouts.Workout) []TypeCount {
	counts := make(map[string]int)
	for _, w := range ws {
		counts[w.Type]++
	}

	res := make([]TypeCount, 0, len(counts))
	for t, c := range counts {
		res = append(res, TypeCount{Type: t, Count: c})
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].Count != res[j].Count {
			return res[i].Count > res[j].Count
		}
		return res[i].Type < res[j].Type
	})
	return res
}

// CaloriesByDay groups burned calories by UTC calendar day, oldest day first.
func CaloriesByDay(ws []workouts.Workout) []DayCalories {
	day2calories := make(map[time.Time]int)
	for _, w := range ws {
		day := w.Date.UTC().Truncate(24 * time.Hour)
		day2calories[day] += w.CaloriesBurned
	}

	res := make([]DayCalories, 0, len(day2calories))
	for day, calories := range day2calories {
		res = append(res, DayCalories{Day: day, Calories: calories})
	}
	sort.Slice(res, func(i, j int) bool {
		return res[i].Day.Before(res[j].Day)
	})
	return res
}

// DurationByType returns total minutes per type, longest first.
func DurationByType(ws []workouts.Workout) []TypeDuration {
	minutes := make(map[string]int)
	for _, w := range ws {
		minutes[w.Type] += w.Duration
	}

	res := make([]TypeDuration, 0, len(minutes))
	for t, m := range minutes {
		res = append(res, TypeDuration{Type: t, Minutes: m})
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].Minutes != res[j].Minutes {
			return res[i].Minutes > res[j].Minutes
		}
		return res[i].Type < res[j].Type
	})
	return res
}

func Summarize(ws []workouts.Workout) (Overview, error) {
	overview := Overview{Workouts: len(ws)}
	if len(ws) == 0 {
		return overview, nil
	}

	calories := make(stats.Float64Data, 0, len(ws))
	durations := make(stats.Float64Data, 0, len(ws))
	for _, w := range ws {
		overview.TotalCalories += w.CaloriesBurned
		overview.TotalDuration += w.Duration
		calories = append(calories, float64(w.CaloriesBurned))
		durations = append(durations, float64(w.Duration))
	}

	var err error
	if overview.MeanCalories, err = calories.Mean(); err != nil {
		return Overview{}, fmt.Errorf("mean calories: %w", err)
	}
	if overview.MedianCalories, err = calories.Median(); err != nil {
		return Overview{}, fmt.Errorf("median calories: %w", err)
	}
	if overview.MeanDuration, err = durations.Mean(); err != nil {
		return Overview{}, fmt.Errorf("mean duration: %w", err)
	}
	if overview.MedianDuration, err = durations.Median(); err != nil {
		return Overview{}, fmt.Errorf("median duration: %w", err)
	}
	if overview.StdDevCalories, err = calories.StandardDeviation(); err != nil {
		return Overview{}, fmt.Errorf("calories std dev: %w", err)
	}

	return overview, nil
}

// Report is everything the statistics screen shows for one range.
type Report struct {
	Range          TimeRange      `json:"range"`
	Start          time.Time      `json:"start"`
	End            time.Time      `json:"end"`
	Overview       Overview       `json:"overview"`
	CountByType    []TypeCount    `json:"countByType"`
	CaloriesByDay  []DayCalories  `json:"caloriesByDay"`
	DurationByType []TypeDuration `json:"durationByType"`
}

// BuildReport keeps the workouts dated within the range and aggregates them.
func BuildReport(tr TimeRange, now time.Time, ws []workouts.Workout) (Report, error) {
	start, end := tr.Bounds(now)
	filter := workouts.Filter{}.WithRange(start, end)

	inRange := make([]workouts.Workout, 0, len(ws))
	for _, w := range ws {
		if filter.Matches(w) {
			inRange = append(inRange, w)
		}
	}

	overview, err := Summarize(inRange)
	if err != nil {
		return Report{}, err
	}

	return Report{
		Range:          tr,
		Start:          start,
		End:            end,
		Overview:       overview,
		CountByType:    CountByType(inRange),
		CaloriesByDay:  CaloriesByDay(inRange),
		DurationByType: DurationByType(inRange),
	}, nil
}

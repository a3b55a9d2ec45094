package workouts

// CaloriesSummary is the aggregate returned by the calories endpoint.
// StartDate and EndDate echo the queried range.
type CaloriesSummary struct {
	TotalCalories int    `json:"totalCalories"`
	WorkoutCount  int    `json:"workoutCount"`
	StartDate     string `json:"startDate"`
	EndDate       string `json:"endDate"`
}

// EmptySummary is what the UI shows when there is nothing to sum up for the range.
func EmptySummary(startDate, endDate string) CaloriesSummary {
	return CaloriesSummary{
		StartDate: startDate,
		EndDate:   endDate,
	}
}

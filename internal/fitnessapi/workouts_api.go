package fitnessapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/2beens/fittracker/internal/telemetry/tracing"
	"github.com/2beens/fittracker/internal/workouts"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

// createWorkoutRequest has only the fields a user fills in, the server assigns the rest.
type createWorkoutRequest struct {
	User           string  `json:"user"`
	Type           string  `json:"type"`
	Duration       int     `json:"duration"`
	CaloriesBurned int     `json:"caloriesBurned"`
	Notes          *string `json:"notes"`
}

func newCreateWorkoutRequest(w workouts.Workout) createWorkoutRequest {
	req := createWorkoutRequest{
		User:           w.User,
		Type:           w.Type,
		Duration:       w.Duration,
		CaloriesBurned: w.CaloriesBurned,
	}
	if w.HasNotes() {
		notes := *w.Notes
		req.Notes = &notes
	}
	return req
}

// Create posts a new workout and returns the copy saved by the server, with its real id.
func (a *Api) Create(ctx context.Context, w workouts.Workout) (_ *workouts.Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "fitnessapi.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("workout.type", w.Type))

	var body any = newCreateWorkoutRequest(w)
	if a.fullCreateBody {
		body = w
	}

	resp, err := a.do(ctx, opCreate, http.MethodPost, "/workouts", nil, body)
	if err != nil {
		return nil, fmt.Errorf("create workout: %w", err)
	}
	span.SetAttributes(attribute.Int("http.status", resp.status))
	if !resp.isSuccess() {
		log.Errorf("create workout [%s] rejected: %d", w.Type, resp.status)
		return nil, fmt.Errorf("create workout: %w", &RequestRejectedError{Status: resp.status})
	}

	created, err := workouts.Decode(resp.body)
	if err != nil {
		return nil, fmt.Errorf("create workout: %w", err)
	}

	log.Debugf("workout created: %s [%s]", created.ID, created.Type)
	return &created, nil
}

// List returns the workouts matching the filter. Empty, undecodable and
// not found responses all give an empty list, having no workouts is normal.
func (a *Api) List(ctx context.Context, filter workouts.Filter) (_ []workouts.Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "fitnessapi.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	resp, err := a.do(ctx, opList, http.MethodGet, "/workouts", filter.Query(), nil)
	if err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}
	span.SetAttributes(attribute.Int("http.status", resp.status))

	switch {
	case resp.isSuccess():
		list, decodeErr := workouts.DecodeList(resp.body)
		if decodeErr != nil {
			log.Warnf("list workouts: cannot decode response, returning empty list: %s", decodeErr)
			a.metrics.CounterTolerated.WithLabelValues(opList, "undecodable").Inc()
			return []workouts.Workout{}, nil
		}
		if len(bytes.TrimSpace(resp.body)) == 0 {
			a.metrics.CounterTolerated.WithLabelValues(opList, "empty_body").Inc()
		}
		span.SetAttributes(attribute.Int("workouts.count", len(list)))
		return list, nil
	case resp.status == http.StatusNotFound:
		log.Debugln("list workouts: not found, returning empty list")
		a.metrics.CounterTolerated.WithLabelValues(opList, "not_found").Inc()
		return []workouts.Workout{}, nil
	default:
		return nil, fmt.Errorf("list workouts: %w", &RequestRejectedError{Status: resp.status})
	}
}

// Get returns a single workout.
func (a *Api) Get(ctx context.Context, id string) (_ *workouts.Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "fitnessapi.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("workout.id", id))

	path, err := workoutPath(id)
	if err != nil {
		return nil, fmt.Errorf("get workout: %w", err)
	}

	resp, err := a.do(ctx, opGet, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("get workout %s: %w", id, err)
	}
	if !resp.isSuccess() {
		return nil, fmt.Errorf("get workout %s: %w", id, &RequestRejectedError{Status: resp.status})
	}

	w, err := workouts.Decode(resp.body)
	if err != nil {
		return nil, fmt.Errorf("get workout %s: %w", id, err)
	}
	return &w, nil
}

// Update replaces the whole workout stored under id, there is no partial update.
func (a *Api) Update(ctx context.Context, id string, w workouts.Workout) (_ *workouts.Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "fitnessapi.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("workout.id", id))

	path, err := workoutPath(id)
	if err != nil {
		return nil, fmt.Errorf("update workout: %w", err)
	}

	resp, err := a.do(ctx, opUpdate, http.MethodPut, path, nil, w)
	if err != nil {
		return nil, fmt.Errorf("update workout %s: %w", id, err)
	}
	span.SetAttributes(attribute.Int("http.status", resp.status))
	if !resp.isSuccess() {
		log.Errorf("update workout %s rejected: %d", id, resp.status)
		return nil, fmt.Errorf("update workout %s: %w", id, &RequestRejectedError{Status: resp.status})
	}

	updated, err := workouts.Decode(resp.body)
	if err != nil {
		return nil, fmt.Errorf("update workout %s: %w", id, err)
	}

	log.Debugf("workout updated: %s", updated.ID)
	return &updated, nil
}

// Delete removes the workout. The response body, if any, is ignored.
func (a *Api) Delete(ctx context.Context, id string) (_ bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "fitnessapi.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("workout.id", id))

	path, err := workoutPath(id)
	if err != nil {
		return false, fmt.Errorf("delete workout: %w", err)
	}

	resp, err := a.do(ctx, opDelete, http.MethodDelete, path, nil, nil)
	if err != nil {
		return false, fmt.Errorf("delete workout %s: %w", id, err)
	}
	span.SetAttributes(attribute.Int("http.status", resp.status))
	if !resp.isSuccess() {
		log.Errorf("delete workout %s rejected: %d", id, resp.status)
		return false, fmt.Errorf("delete workout %s: %w", id, &RequestRejectedError{Status: resp.status})
	}

	log.Debugf("workout deleted: %s", id)
	return true, nil
}

// wireSummary requires the totals; the dates fall back to the requested range.
type wireSummary struct {
	TotalCalories *int    `json:"totalCalories"`
	WorkoutCount  *int    `json:"workoutCount"`
	StartDate     *string `json:"startDate"`
	EndDate       *string `json:"endDate"`
}

// CalorieSummary returns burned calories and workouts count between the two dates.
// Anything other than a proper summary or a rejection gives the zero summary for the range.
func (a *Api) CalorieSummary(ctx context.Context, startDate, endDate string) (_ *workouts.CaloriesSummary, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "fitnessapi.calorieSummary")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("range.start", startDate),
		attribute.String("range.end", endDate),
	)

	query := url.Values{}
	query.Set("startDate", startDate)
	query.Set("endDate", endDate)

	resp, err := a.do(ctx, opCalorieSummary, http.MethodGet, "/workouts/calories", query, nil)
	if err != nil {
		return nil, fmt.Errorf("calorie summary: %w", err)
	}
	span.SetAttributes(attribute.Int("http.status", resp.status))

	empty := workouts.EmptySummary(startDate, endDate)
	switch {
	case resp.isSuccess():
		if len(bytes.TrimSpace(resp.body)) == 0 {
			a.metrics.CounterTolerated.WithLabelValues(opCalorieSummary, "empty_body").Inc()
			return &empty, nil
		}

		var wire wireSummary
		if decodeErr := json.Unmarshal(resp.body, &wire); decodeErr != nil || wire.TotalCalories == nil || wire.WorkoutCount == nil {
			log.Warnf("calorie summary: cannot decode response, returning zero summary: %v", decodeErr)
			a.metrics.CounterTolerated.WithLabelValues(opCalorieSummary, "undecodable").Inc()
			return &empty, nil
		}

		summary := workouts.CaloriesSummary{
			TotalCalories: *wire.TotalCalories,
			WorkoutCount:  *wire.WorkoutCount,
			StartDate:     startDate,
			EndDate:       endDate,
		}
		if wire.StartDate != nil {
			summary.StartDate = *wire.StartDate
		}
		if wire.EndDate != nil {
			summary.EndDate = *wire.EndDate
		}
		return &summary, nil
	case resp.status == http.StatusNotFound:
		a.metrics.CounterTolerated.WithLabelValues(opCalorieSummary, "not_found").Inc()
		return &empty, nil
	default:
		return nil, fmt.Errorf("calorie summary: %w", &RequestRejectedError{Status: resp.status})
	}
}

// CalorieSummaryForRange formats the range as ISO-8601 and calls CalorieSummary.
func (a *Api) CalorieSummaryForRange(ctx context.Context, start, end time.Time) (*workouts.CaloriesSummary, error) {
	return a.CalorieSummary(ctx, workouts.FormatDate(start), workouts.FormatDate(end))
}

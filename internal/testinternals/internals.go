package testinternals

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"time"

	"github.com/2beens/fittracker/internal/workouts"
	"github.com/2beens/fittracker/pkg"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
)

// RecordedRequest is a request as seen by the fake fitness server.
type RecordedRequest struct {
	Method   string
	Path     string
	RawQuery string
	Body     []byte
}

type cannedResponse struct {
	status int
	body   string
}

// FitnessServer is an in-memory stand-in for the fitness tracker backend.
// It follows the same wire contract: _id and __v keys, ISO-8601 dates,
// 404 for unknown workouts, 204 on delete.
type FitnessServer struct {
	mu       sync.Mutex
	server   *httptest.Server
	workouts []workouts.Workout // newest first
	nextID   int
	requests []RecordedRequest
	canned   map[string]cannedResponse
	now      func() time.Time
}

func NewFitnessServer() *FitnessServer {
	fs := &FitnessServer{
		canned: make(map[string]cannedResponse),
		now: func() time.Time {
			return time.Now().UTC().Truncate(time.Millisecond)
		},
	}

	r := mux.NewRouter()
	r.Use(otelmux.Middleware("fake-fitness-api"))
	r.Use(fs.recordAndIntercept)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/workouts", fs.handleList).Methods("GET")
	api.HandleFunc("/workouts", fs.handleCreate).Methods("POST")
	api.HandleFunc("/workouts/calories", fs.handleCalories).Methods("GET")
	api.HandleFunc("/workouts/{id}", fs.handleGet).Methods("GET")
	api.HandleFunc("/workouts/{id}", fs.handleUpdate).Methods("PUT")
	api.HandleFunc("/workouts/{id}", fs.handleDelete).Methods("DELETE")

	fs.server = httptest.NewServer(r)
	return fs
}

// BaseURL is the API base, e.g. http://127.0.0.1:54321/api
func (fs *FitnessServer) BaseURL() string {
	return fs.server.URL + "/api"
}

func (fs *FitnessServer) Client() *http.Client {
	return fs.server.Client()
}

func (fs *FitnessServer) Close() {
	fs.server.Close()
}

// Seed stores the given workouts as if they were created in the given order.
func (fs *FitnessServer) Seed(ws ...workouts.Workout) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	for _, w := range ws {
		fs.workouts = append([]workouts.Workout{w.Clone()}, fs.workouts...)
	}
}

// Respond makes the server answer method+path (no query) with a canned response
// instead of handling the request.
func (fs *FitnessServer) Respond(method, path string, status int, body string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.canned[method+" "+path] = cannedResponse{status: status, body: body}
}

func (fs *FitnessServer) ClearResponses() {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.canned = make(map[string]cannedResponse)
}

func (fs *FitnessServer) Requests() []RecordedRequest {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return append([]RecordedRequest(nil), fs.requests...)
}

func (fs *FitnessServer) LastRequest() (RecordedRequest, bool) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if len(fs.requests) == 0 {
		return RecordedRequest{}, false
	}
	return fs.requests[len(fs.requests)-1], true
}

func (fs *FitnessServer) Workouts() []workouts.Workout {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	ws := make([]workouts.Workout, 0, len(fs.workouts))
	for _, w := range fs.workouts {
		ws = append(ws, w.Clone())
	}
	return ws
}

func (fs *FitnessServer) recordAndIntercept(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "cannot read body", http.StatusBadRequest)
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(body))

		fs.mu.Lock()
		fs.requests = append(fs.requests, RecordedRequest{
			Method:   r.Method,
			Path:     r.URL.Path,
			RawQuery: r.URL.RawQuery,
			Body:     body,
		})
		canned, found := fs.canned[r.Method+" "+r.URL.Path]
		fs.mu.Unlock()

		if found {
			log.Tracef("fake fitness api: canned %d for %s %s", canned.status, r.Method, r.URL.Path)
			pkg.WriteResponse(w, pkg.ContentType.JSON, canned.body, canned.status)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (fs *FitnessServer) handleList(w http.ResponseWriter, r *http.Request) {
	var filter workouts.Filter
	q := r.URL.Query()
	if q.Has("type") {
		filter = filter.WithType(q.Get("type"))
	}
	if q.Has("startDate") {
		start, err := workouts.ParseDate(q.Get("startDate"))
		if err != nil {
			http.Error(w, "invalid startDate", http.StatusBadRequest)
			return
		}
		filter.StartDate = &start
	}
	if q.Has("endDate") {
		end, err := workouts.ParseDate(q.Get("endDate"))
		if err != nil {
			http.Error(w, "invalid endDate", http.StatusBadRequest)
			return
		}
		filter.EndDate = &end
	}

	matching := []workouts.Workout{}
	for _, wk := range fs.Workouts() {
		if filter.Matches(wk) {
			matching = append(matching, wk)
		}
	}
	sort.SliceStable(matching, func(i, j int) bool {
		return matching[i].Date.After(matching[j].Date)
	})

	pkg.WriteJSON(w, matching, http.StatusOK)
}

type createBody struct {
	User           *string `json:"user"`
	Type           *string `json:"type"`
	Duration       *int    `json:"duration"`
	CaloriesBurned *int    `json:"caloriesBurned"`
	Date           *string `json:"date"`
	Notes          *string `json:"notes"`
}

func (fs *FitnessServer) handleCreate(w http.ResponseWriter, r *http.Request) {
	var body createBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid workout", http.StatusBadRequest)
		return
	}
	if body.User == nil || body.Type == nil || body.Duration == nil || body.CaloriesBurned == nil {
		http.Error(w, "user, type, duration and caloriesBurned are required", http.StatusBadRequest)
		return
	}

	now := fs.now()
	date := now
	if body.Date != nil {
		parsed, err := workouts.ParseDate(*body.Date)
		if err != nil {
			http.Error(w, "invalid date", http.StatusBadRequest)
			return
		}
		date = parsed
	}

	version := 0
	fs.mu.Lock()
	fs.nextID++
	created := workouts.Workout{
		ID:             fmt.Sprintf("w%04d", fs.nextID),
		User:           *body.User,
		Type:           *body.Type,
		Duration:       *body.Duration,
		CaloriesBurned: *body.CaloriesBurned,
		Date:           date,
		Notes:          body.Notes,
		CreatedAt:      &now,
		UpdatedAt:      &now,
		Version:        &version,
	}
	fs.workouts = append([]workouts.Workout{created}, fs.workouts...)
	fs.mu.Unlock()

	pkg.WriteJSON(w, created, http.StatusCreated)
}

func (fs *FitnessServer) find(id string) (int, bool) {
	for i := range fs.workouts {
		if fs.workouts[i].ID == id {
			return i, true
		}
	}
	return -1, false
}

func (fs *FitnessServer) handleGet(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	fs.mu.Lock()
	i, found := fs.find(id)
	var wk workouts.Workout
	if found {
		wk = fs.workouts[i].Clone()
	}
	fs.mu.Unlock()

	if !found {
		http.Error(w, "workout not found", http.StatusNotFound)
		return
	}
	pkg.WriteJSON(w, wk, http.StatusOK)
}

func (fs *FitnessServer) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "cannot read body", http.StatusBadRequest)
		return
	}
	incoming, err := workouts.Decode(body)
	if err != nil {
		http.Error(w, "invalid workout", http.StatusBadRequest)
		return
	}

	fs.mu.Lock()
	i, found := fs.find(id)
	if !found {
		fs.mu.Unlock()
		http.Error(w, "workout not found", http.StatusNotFound)
		return
	}
	stored := fs.workouts[i]
	now := fs.now()
	version := 1
	if stored.Version != nil {
		version = *stored.Version + 1
	}
	incoming.ID = stored.ID
	incoming.CreatedAt = stored.CreatedAt
	incoming.UpdatedAt = &now
	incoming.Version = &version
	fs.workouts[i] = incoming
	updated := incoming.Clone()
	fs.mu.Unlock()

	pkg.WriteJSON(w, updated, http.StatusOK)
}

func (fs *FitnessServer) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	fs.mu.Lock()
	i, found := fs.find(id)
	if found {
		fs.workouts = append(fs.workouts[:i], fs.workouts[i+1:]...)
	}
	fs.mu.Unlock()

	if !found {
		http.Error(w, "workout not found", http.StatusNotFound)
		return
	}
	pkg.WriteResponse(w, "", "", http.StatusNoContent)
}

func (fs *FitnessServer) handleCalories(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	startStr, endStr := q.Get("startDate"), q.Get("endDate")
	if startStr == "" || endStr == "" {
		http.Error(w, "startDate and endDate are required", http.StatusBadRequest)
		return
	}
	start, err := workouts.ParseDate(startStr)
	if err != nil {
		http.Error(w, "invalid startDate", http.StatusBadRequest)
		return
	}
	end, err := workouts.ParseDate(endStr)
	if err != nil {
		http.Error(w, "invalid endDate", http.StatusBadRequest)
		return
	}

	summary := workouts.EmptySummary(startStr, endStr)
	filter := workouts.Filter{}.WithRange(start, end)
	for _, wk := range fs.Workouts() {
		if filter.Matches(wk) {
			summary.TotalCalories += wk.CaloriesBurned
			summary.WorkoutCount++
		}
	}

	pkg.WriteJSON(w, summary, http.StatusOK)
}

// RandomWorkout builds a workout from fake data, dated within the last 30 days of now.
func RandomWorkout(now time.Time) workouts.Workout {
	types := workouts.AllWorkoutTypes()
	created := now.UTC().Truncate(time.Millisecond)
	version := 0
	w := workouts.Workout{
		ID:             gofakeit.UUID(),
		User:           workouts.DefaultUser,
		Type:           types[gofakeit.Number(0, len(types)-1)].String(),
		Duration:       gofakeit.Number(workouts.MinDuration, workouts.MaxDuration),
		CaloriesBurned: gofakeit.Number(workouts.MinCalories, workouts.MaxCalories),
		Date:           created.Add(-time.Duration(gofakeit.Number(0, 30*24)) * time.Hour),
		CreatedAt:      &created,
		UpdatedAt:      &created,
		Version:        &version,
	}
	if gofakeit.Bool() {
		notes := gofakeit.Sentence(5)
		w.Notes = &notes
	}
	return w
}

package store

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/2beens/fittracker/internal/fitnessapi"
	"github.com/2beens/fittracker/internal/telemetry/metrics"
	"github.com/2beens/fittracker/internal/telemetry/tracing"
	"github.com/2beens/fittracker/internal/workouts"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

var (
	ErrStopped        = errors.New("store stopped")
	ErrAlreadyRunning = errors.New("store already running")
)

//go:generate mockgen -source=$GOFILE -destination=workouts_api_mocks_test.go -package=store_test

// workoutsApi is the part of the fitness API client the store uses.
type workoutsApi interface {
	List(ctx context.Context, filter workouts.Filter) ([]workouts.Workout, error)
	Create(ctx context.Context, w workouts.Workout) (*workouts.Workout, error)
	Update(ctx context.Context, id string, w workouts.Workout) (*workouts.Workout, error)
	Delete(ctx context.Context, id string) (bool, error)
	CalorieSummaryForRange(ctx context.Context, start, end time.Time) (*workouts.CaloriesSummary, error)
}

// ownerState is only ever touched by the Run goroutine.
type ownerState struct {
	State
	inFlight        int
	fetchGeneration uint64
}

func (st *ownerState) begin() {
	st.inFlight++
	st.IsLoading = true
	st.ErrorMessage = nil
}

func (st *ownerState) finish(err error) {
	if st.inFlight > 0 {
		st.inFlight--
	}
	st.IsLoading = st.inFlight > 0
	if err != nil {
		msg := err.Error()
		st.ErrorMessage = &msg
	}
}

// completion is applied on the Run goroutine once the API call returned.
// A non-nil result is published as the error message.
type completion func(st *ownerState) error

type mutation struct {
	fn      func(st *ownerState)
	applied chan struct{}
}

// Store holds the fetched workouts and the last calories summary.
// Commands may be called from any goroutine; every state change is applied
// by the single goroutine running Run, in the order the changes arrive.
type Store struct {
	api          workoutsApi
	metrics      *metrics.Manager
	now          func() time.Time
	discardStale bool

	mutations chan mutation
	done      chan struct{}
	running   atomic.Bool

	owner ownerState

	mu             sync.RWMutex
	published      State
	subscribers    map[int]chan State
	nextSubscriber int
	stopped        bool
}

type Option func(*Store)

// WithStaleFetchDiscard drops fetch results when a newer Fetch was issued
// before they arrived. Without it, results apply in arrival order.
func WithStaleFetchDiscard() Option {
	return func(s *Store) {
		s.discardStale = true
	}
}

func WithMetrics(m *metrics.Manager) Option {
	return func(s *Store) {
		s.metrics = m
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

func New(api workoutsApi, opts ...Option) *Store {
	s := &Store{
		api:         api,
		now:         time.Now,
		mutations:   make(chan mutation),
		done:        make(chan struct{}),
		subscribers: make(map[int]chan State),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = metrics.NewManager("fittracker", "store", prometheus.NewRegistry())
	}
	s.owner.Workouts = []workouts.Workout{}
	s.published = s.owner.State.Clone()
	return s
}

// Run applies state changes until ctx is done. It can be called only once,
// after it returns all commands fail with ErrStopped and subscriptions are closed.
func (s *Store) Run(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer s.stop()

	log.Debugln("workout store running")
	for {
		select {
		case <-ctx.Done():
			log.Debugf("workout store stopping: %s", ctx.Err())
			return nil
		case m := <-s.mutations:
			m.fn(&s.owner)
			s.publish()
			close(m.applied)
		}
	}
}

func (s *Store) stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	close(s.done)
	for id, ch := range s.subscribers {
		close(ch)
		delete(s.subscribers, id)
	}
}

// Snapshot returns a copy of the current state, safe to keep and modify.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.published.Clone()
}

// Subscribe returns a channel receiving the state after every change, starting
// with the current one. Only the newest state is kept for a slow reader.
// The returned func unsubscribes and closes the channel.
func (s *Store) Subscribe() (<-chan State, func()) {
	ch := make(chan State, 1)

	s.mu.Lock()
	defer s.mu.Unlock()

	ch <- s.published.Clone()
	if s.stopped {
		close(ch)
		return ch, func() {}
	}

	id := s.nextSubscriber
	s.nextSubscriber++
	s.subscribers[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if sub, ok := s.subscribers[id]; ok {
				close(sub)
				delete(s.subscribers, id)
			}
		})
	}
}

// publish runs on the Run goroutine only, so it is the single sender on every subscriber channel.
func (s *Store) publish() {
	snapshot := s.owner.State.Clone()
	s.metrics.GaugeStoreWorkouts.Set(float64(len(snapshot.Workouts)))

	s.mu.Lock()
	defer s.mu.Unlock()
	s.published = snapshot
	for _, ch := range s.subscribers {
		select {
		case <-ch:
			s.metrics.CounterStorePublishDrop.Inc()
		default:
		}
		ch <- snapshot.Clone()
	}
}

// apply hands fn to the Run goroutine and waits until it has been applied and published.
func (s *Store) apply(ctx context.Context, fn func(st *ownerState)) error {
	m := mutation{fn: fn, applied: make(chan struct{})}
	select {
	case s.mutations <- m:
	case <-s.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	// once received, Run applies the mutation before it can return
	<-m.applied
	return nil
}

// command takes an operation through loading and back. onBegin runs on the Run goroutine
// when loading starts, exec runs the API call on the caller goroutine.
func (s *Store) command(
	ctx context.Context,
	name string,
	onBegin func(st *ownerState),
	exec func(ctx context.Context) completion,
) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store."+name)
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := s.apply(ctx, func(st *ownerState) {
		st.begin()
		if onBegin != nil {
			onBegin(st)
		}
	}); err != nil {
		return err
	}

	done := exec(ctx)

	var published error
	// once loading started it has to be finished, even if ctx got canceled meanwhile
	if err := s.apply(context.WithoutCancel(ctx), func(st *ownerState) {
		published = done(st)
		st.finish(published)
	}); err != nil {
		return err
	}

	if published != nil {
		log.Errorf("workout store %s: %s", name, published)
	}
	return published
}

// Fetch replaces the list with the workouts matching filter.
// "No usable data" failures leave an empty list and no error.
func (s *Store) Fetch(ctx context.Context, filter workouts.Filter) error {
	var generation uint64
	return s.command(ctx, "fetch",
		func(st *ownerState) {
			st.fetchGeneration++
			generation = st.fetchGeneration
		},
		func(ctx context.Context) completion {
			list, err := s.api.List(ctx, filter)
			return func(st *ownerState) error {
				if s.discardStale && generation != st.fetchGeneration {
					log.Debugf("dropping stale fetch result, generation %d, latest %d", generation, st.fetchGeneration)
					s.metrics.CounterStaleFetchDrops.Inc()
					return nil
				}
				if err != nil {
					if !fitnessapi.IsNoUsableData(err) {
						return err
					}
					list = []workouts.Workout{}
				}
				if list == nil {
					list = []workouts.Workout{}
				}
				st.Workouts = list
				return nil
			}
		},
	)
}

// Create adds a workout, the server copy goes in front of the list.
func (s *Store) Create(ctx context.Context, nw workouts.NewWorkout) (*workouts.Workout, error) {
	placeholder := nw.Placeholder(s.now())

	var created *workouts.Workout
	err := s.command(ctx, "create", nil, func(ctx context.Context) completion {
		saved, err := s.api.Create(ctx, placeholder)
		return func(st *ownerState) error {
			if err != nil {
				return err
			}
			st.Workouts = append([]workouts.Workout{saved.Clone()}, st.Workouts...)
			c := saved.Clone()
			created = &c
			return nil
		}
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Update replaces the workout with the same id in place. An unknown id changes nothing.
func (s *Store) Update(ctx context.Context, w workouts.Workout) error {
	return s.command(ctx, "update", nil, func(ctx context.Context) completion {
		updated, err := s.api.Update(ctx, w.ID, w)
		return func(st *ownerState) error {
			if err != nil {
				return err
			}
			for i := range st.Workouts {
				if st.Workouts[i].ID == updated.ID {
					st.Workouts[i] = updated.Clone()
					return nil
				}
			}
			log.Debugf("updated workout %s not in the list, nothing replaced", updated.ID)
			return nil
		}
	})
}

// Delete removes the workout, and any duplicates of it, from the list.
func (s *Store) Delete(ctx context.Context, id string) error {
	return s.command(ctx, "delete", nil, func(ctx context.Context) completion {
		deleted, err := s.api.Delete(ctx, id)
		return func(st *ownerState) error {
			if err != nil {
				return err
			}
			if !deleted {
				return nil
			}
			kept := make([]workouts.Workout, 0, len(st.Workouts))
			for _, w := range st.Workouts {
				if w.ID != id {
					kept = append(kept, w)
				}
			}
			st.Workouts = kept
			return nil
		}
	})
}

// FetchSummary replaces the calories summary. On failure the previous one stays.
func (s *Store) FetchSummary(ctx context.Context, start, end time.Time) error {
	return s.command(ctx, "fetchSummary", nil, func(ctx context.Context) completion {
		summary, err := s.api.CalorieSummaryForRange(ctx, start, end)
		return func(st *ownerState) error {
			if err != nil {
				return err
			}
			sum := *summary
			st.CaloriesSummary = &sum
			return nil
		}
	})
}

package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/2beens/fittracker/internal/stats"
	"github.com/2beens/fittracker/internal/store"
	"github.com/2beens/fittracker/internal/workouts"
)

var errUsage = errors.New("usage")

type workoutGetter interface {
	Get(ctx context.Context, id string) (*workouts.Workout, error)
}

type app struct {
	store  *store.Store
	api    workoutGetter
	user   string
	out    io.Writer
	errOut io.Writer
	now    func() time.Time
}

func (a *app) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}

	cmd, cmdArgs := args[0], args[1:]
	switch cmd {
	case "list":
		return a.list(ctx, cmdArgs)
	case "get":
		return a.get(ctx, cmdArgs)
	case "add":
		return a.add(ctx, cmdArgs)
	case "update":
		return a.update(ctx, cmdArgs)
	case "delete":
		return a.delete(ctx, cmdArgs)
	case "summary":
		return a.summary(ctx, cmdArgs)
	case "stats":
		return a.stats(ctx, cmdArgs)
	default:
		return fmt.Errorf("%w: unknown command [%s]", errUsage, cmd)
	}
}

func (a *app) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	return fs
}

func (a *app) print(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func parseOptionalDate(name, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := workouts.ParseDate(value)
	if err != nil {
		return nil, fmt.Errorf("-%s: %w", name, err)
	}
	return &t, nil
}

func (a *app) list(ctx context.Context, args []string) error {
	fs := a.flagSet("list")
	wType := fs.String("type", "", "only workouts of this type")
	from := fs.String("from", "", "start date, ISO-8601")
	to := fs.String("to", "", "end date, ISO-8601")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var filter workouts.Filter
	if *wType != "" {
		filter = filter.WithType(*wType)
	}
	var err error
	if filter.StartDate, err = parseOptionalDate("from", *from); err != nil {
		return err
	}
	if filter.EndDate, err = parseOptionalDate("to", *to); err != nil {
		return err
	}

	if err := a.store.Fetch(ctx, filter); err != nil {
		return err
	}
	return a.print(a.store.Snapshot().Workouts)
}

func (a *app) get(ctx context.Context, args []string) error {
	fs := a.flagSet("get")
	id := fs.String("id", "", "workout id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return fmt.Errorf("%w: -id is required", errUsage)
	}

	w, err := a.api.Get(ctx, *id)
	if err != nil {
		return err
	}
	return a.print(w)
}

func (a *app) add(ctx context.Context, args []string) error {
	fs := a.flagSet("add")
	wType := fs.String("type", "", "workout type, e.g. Running")
	duration := fs.Int("duration", 0, "duration in minutes")
	calories := fs.Int("calories", 0, "calories burned")
	notes := fs.String("notes", "", "optional notes")
	date := fs.String("date", "", "workout date, ISO-8601, defaults to now")
	if err := fs.Parse(args); err != nil {
		return err
	}

	nw := workouts.NewWorkout{
		User:           a.user,
		Type:           *wType,
		Duration:       *duration,
		CaloriesBurned: *calories,
		Notes:          *notes,
	}
	d, err := parseOptionalDate("date", *date)
	if err != nil {
		return err
	}
	if d != nil {
		nw.Date = *d
	}
	if err := nw.Validate(); err != nil {
		return fmt.Errorf("invalid workout: %w", err)
	}

	created, err := a.store.Create(ctx, nw)
	if err != nil {
		return err
	}
	return a.print(created)
}

func (a *app) update(ctx context.Context, args []string) error {
	fs := a.flagSet("update")
	id := fs.String("id", "", "workout id")
	wType := fs.String("type", "", "workout type")
	duration := fs.Int("duration", 0, "duration in minutes")
	calories := fs.Int("calories", 0, "calories burned")
	notes := fs.String("notes", "", "notes, empty string clears them")
	date := fs.String("date", "", "workout date, ISO-8601")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return fmt.Errorf("%w: -id is required", errUsage)
	}

	current, err := a.api.Get(ctx, *id)
	if err != nil {
		return err
	}
	changed := current.Clone()

	var visitErr error
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "type":
			changed.Type = *wType
		case "duration":
			changed.Duration = *duration
		case "calories":
			changed.CaloriesBurned = *calories
		case "notes":
			n := *notes
			changed.Notes = &n
		case "date":
			d, err := workouts.ParseDate(*date)
			if err != nil {
				visitErr = fmt.Errorf("-date: %w", err)
				return
			}
			changed.Date = d
		}
	})
	if visitErr != nil {
		return visitErr
	}

	check := workouts.NewWorkout{Type: changed.Type, Duration: changed.Duration, CaloriesBurned: changed.CaloriesBurned}
	if err := check.Validate(); err != nil {
		return fmt.Errorf("invalid workout: %w", err)
	}

	// the store only replaces workouts it already holds
	if err := a.store.Fetch(ctx, workouts.Filter{}); err != nil {
		return err
	}
	if err := a.store.Update(ctx, changed); err != nil {
		return err
	}

	for _, w := range a.store.Snapshot().Workouts {
		if w.ID == changed.ID {
			return a.print(w)
		}
	}
	return a.print(changed)
}

func (a *app) delete(ctx context.Context, args []string) error {
	fs := a.flagSet("delete")
	id := fs.String("id", "", "workout id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return fmt.Errorf("%w: -id is required", errUsage)
	}

	if err := a.store.Delete(ctx, *id); err != nil {
		return err
	}
	_, err := fmt.Fprintf(a.out, "deleted %s\n", *id)
	return err
}

func (a *app) timeRangeFlag(fs *flag.FlagSet) *string {
	return fs.String("range", string(stats.Week), "one of: "+joinRanges())
}

func joinRanges() string {
	names := make([]string, 0, 4)
	for _, tr := range stats.AllTimeRanges() {
		names = append(names, string(tr))
	}
	return strings.Join(names, ", ")
}

func (a *app) summary(ctx context.Context, args []string) error {
	fs := a.flagSet("summary")
	rangeName := a.timeRangeFlag(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	tr, err := stats.ParseTimeRange(*rangeName)
	if err != nil {
		return err
	}

	start, end := tr.Bounds(a.now())
	if err := a.store.FetchSummary(ctx, start, end); err != nil {
		return err
	}
	return a.print(a.store.Snapshot().CaloriesSummary)
}

func (a *app) stats(ctx context.Context, args []string) error {
	fs := a.flagSet("stats")
	rangeName := a.timeRangeFlag(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	tr, err := stats.ParseTimeRange(*rangeName)
	if err != nil {
		return err
	}

	now := a.now()
	start, end := tr.Bounds(now)
	if err := a.store.Fetch(ctx, workouts.Filter{}.WithRange(start, end)); err != nil {
		return err
	}

	report, err := stats.BuildReport(tr, now, a.store.Snapshot().Workouts)
	if err != nil {
		return err
	}
	return a.print(report)
}

package workouts

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/multierr"
)

// DateLayout is the ISO-8601 form dates are sent in, e.g. 2025-03-07T07:44:00.000Z
const DateLayout = "2006-01-02T15:04:05.000Z07:00"

const dayLayout = "2006-01-02"

// FormatDate renders t for the wire, always in UTC.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// ParseDate accepts RFC 3339 with or without fractional seconds,
// and the plain day form (2006-01-02).
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(dayLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date [%s]: not ISO-8601", s)
	}
	return t.UTC(), nil
}

// wireWorkout mirrors the server JSON; pointers tell missing fields apart from zero values.
type wireWorkout struct {
	ID             *string `json:"_id"`
	User           *string `json:"user"`
	Type           *string `json:"type"`
	Duration       *int    `json:"duration"`
	CaloriesBurned *int    `json:"caloriesBurned"`
	Date           *string `json:"date"`
	Notes          *string `json:"notes"`
	CreatedAt      *string `json:"createdAt,omitempty"`
	UpdatedAt      *string `json:"updatedAt,omitempty"`
	Version        *int    `json:"__v,omitempty"`
}

func (w Workout) MarshalJSON() ([]byte, error) {
	id, user, wType := w.ID, w.User, w.Type
	duration, calories := w.Duration, w.CaloriesBurned
	date := FormatDate(w.Date)

	wire := wireWorkout{
		ID:             &id,
		User:           &user,
		Type:           &wType,
		Duration:       &duration,
		CaloriesBurned: &calories,
		Date:           &date,
		Notes:          normalizeNotes(w.Notes),
		Version:        w.Version,
	}
	if w.CreatedAt != nil {
		createdAt := FormatDate(*w.CreatedAt)
		wire.CreatedAt = &createdAt
	}
	if w.UpdatedAt != nil {
		updatedAt := FormatDate(*w.UpdatedAt)
		wire.UpdatedAt = &updatedAt
	}

	return json.Marshal(wire)
}

func (w *Workout) UnmarshalJSON(data []byte) error {
	var wire wireWorkout
	if err := json.Unmarshal(data, &wire); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedRecord, err)
	}

	var missing error
	for _, f := range []struct {
		name    string
		present bool
	}{
		{"_id", wire.ID != nil},
		{"user", wire.User != nil},
		{"type", wire.Type != nil},
		{"duration", wire.Duration != nil},
		{"caloriesBurned", wire.CaloriesBurned != nil},
		{"date", wire.Date != nil},
	} {
		if !f.present {
			missing = multierr.Append(missing, fmt.Errorf("missing field %q", f.name))
		}
	}
	if missing != nil {
		return fmt.Errorf("%w: %w", ErrMalformedRecord, missing)
	}

	date, err := ParseDate(*wire.Date)
	if err != nil {
		return fmt.Errorf("%w: date: %w", ErrMalformedRecord, err)
	}

	decoded := Workout{
		ID:             *wire.ID,
		User:           *wire.User,
		Type:           *wire.Type,
		Duration:       *wire.Duration,
		CaloriesBurned: *wire.CaloriesBurned,
		Date:           date,
		Notes:          normalizeNotes(wire.Notes),
		Version:        wire.Version,
	}
	if wire.CreatedAt != nil {
		createdAt, err := ParseDate(*wire.CreatedAt)
		if err != nil {
			return fmt.Errorf("%w: createdAt: %w", ErrMalformedRecord, err)
		}
		decoded.CreatedAt = &createdAt
	}
	if wire.UpdatedAt != nil {
		updatedAt, err := ParseDate(*wire.UpdatedAt)
		if err != nil {
			return fmt.Errorf("%w: updatedAt: %w", ErrMalformedRecord, err)
		}
		decoded.UpdatedAt = &updatedAt
	}

	*w = decoded
	return nil
}

// normalizeNotes returns nil for absent or empty notes, so they go out as null.
func normalizeNotes(notes *string) *string {
	if notes == nil || *notes == "" {
		return nil
	}
	n := *notes
	return &n
}

// Decode reads a single workout. An empty body is malformed.
func Decode(data []byte) (Workout, error) {
	var w Workout
	if len(bytes.TrimSpace(data)) == 0 {
		return w, fmt.Errorf("%w: empty body", ErrMalformedRecord)
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return Workout{}, wrapMalformed(err)
	}
	return w, nil
}

// DecodeList reads an array of workouts. Empty payloads and [] give an empty list.
func DecodeList(data []byte) ([]Workout, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("[]")) {
		return []Workout{}, nil
	}

	var list []Workout
	if err := json.Unmarshal(trimmed, &list); err != nil {
		return nil, wrapMalformed(err)
	}
	if list == nil {
		// a literal null
		list = []Workout{}
	}
	return list, nil
}

func wrapMalformed(err error) error {
	if errors.Is(err, ErrMalformedRecord) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrMalformedRecord, err)
}

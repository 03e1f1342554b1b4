// Package record parses exercise completions submitted as JSON and applies
// them to the history.
package record

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/scbrown/hiitfit/internal/calendar"
	"github.com/scbrown/hiitfit/internal/catalog"
)

// Recorder is the part of the history store that record writes to.
type Recorder interface {
	RecordNow(name string) error
	RecordOnDate(date time.Time, name string) error
}

// Entry is a single completed exercise. A nil Date means "now".
type Entry struct {
	Exercise string     `json:"exercise"`
	Date     *time.Time `json:"date,omitempty"`
}

// Parse decodes a JSON object of the form
//
//	{"exercise": "Squat", "date": "2024-06-01"}
//
// exercise is required. date is optional and may be RFC3339 or YYYY-MM-DD
// (local midnight). Catalog names are matched case-insensitively and
// normalized to their catalog spelling; other names are kept as given.
func Parse(raw []byte) (Entry, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Entry{}, fmt.Errorf("parsing JSON: %w", err)
	}

	var e Entry
	v, ok := fields["exercise"]
	if !ok {
		return e, fmt.Errorf("missing required field: exercise")
	}
	if err := json.Unmarshal(v, &e.Exercise); err != nil {
		return e, fmt.Errorf("parsing exercise: %w", err)
	}
	e.Exercise = strings.TrimSpace(e.Exercise)
	if e.Exercise == "" {
		return e, fmt.Errorf("missing required field: exercise")
	}
	if ex, ok := catalog.Lookup(e.Exercise); ok {
		e.Exercise = ex.Name
	}

	if v, ok := fields["date"]; ok && string(v) != "null" {
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return e, fmt.Errorf("parsing date: %w", err)
		}
		d, err := ParseDate(s)
		if err != nil {
			return e, fmt.Errorf("parsing date: %w", err)
		}
		e.Date = &d
	}
	return e, nil
}

// ParseDate accepts RFC3339 or a YYYY-MM-DD day.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.Local(), nil
	}
	if t, err := calendar.ParseDay(s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("expected RFC3339 (e.g. 2024-01-01T18:30:00Z) or date (e.g. 2024-01-01), got %q", s)
}

// Apply records e on r: now when e has no date, otherwise on that date.
func Apply(r Recorder, e Entry) error {
	if e.Date == nil {
		return r.RecordNow(e.Exercise)
	}
	return r.RecordOnDate(*e.Date, e.Exercise)
}

// Record reads one JSON entry from input and applies it.
func Record(r Recorder, input io.Reader) (Entry, error) {
	raw, err := io.ReadAll(input)
	if err != nil {
		return Entry{}, fmt.Errorf("reading input: %w", err)
	}
	e, err := Parse(raw)
	if err != nil {
		return Entry{}, err
	}
	if err := Apply(r, e); err != nil {
		return Entry{}, fmt.Errorf("storing entry: %w", err)
	}
	return e, nil
}

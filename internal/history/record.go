package history

import (
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/scbrown/hiitfit/internal/calendar"
	"github.com/scbrown/hiitfit/internal/metrics"
	"github.com/scbrown/hiitfit/internal/model"
)

// RecordNow records that name was completed at the current moment. If the
// most recent day is today the name is appended to it, otherwise a new day
// for today becomes the first entry.
//
// The change is saved before RecordNow returns. On a save failure the
// history is left unchanged and the error wraps ErrSaveFailure; callers
// should treat it as fatal for the workout being recorded.
func (s *Store) RecordNow(name string) error {
	if err := checkName(name); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	err := s.mutate(func() {
		switch {
		case len(s.days) > 0 && calendar.SameDay(s.days[0].Date, now):
			s.days[0].Exercises = append(s.days[0].Exercises, name)
		case len(s.days) > 0 && calendar.CompareDays(s.days[0].Date, now) > 0:
			// The history already holds a later day (clock moved back);
			// place today where it belongs.
			s.place(now, name)
		default:
			s.days = slices.Insert(s.days, 0, model.NewDay(now, name))
		}
	})
	if err != nil {
		return fmt.Errorf("record %q: %w", name, err)
	}
	s.recorded(metrics.PathNow, name, now)
	return nil
}

// RecordOnDate records that name was completed on date's calendar day. It
// merges into an existing day for that date or inserts a new day at the
// position that keeps the history in descending date order.
//
// Like RecordNow, the change is saved before returning and rolled back if
// the save fails.
func (s *Store) RecordOnDate(date time.Time, name string) error {
	if err := checkName(name); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.mutate(func() { s.place(date, name) }); err != nil {
		return fmt.Errorf("record %q on %s: %w", name, calendar.DayKey(date), err)
	}
	s.recorded(metrics.PathBackfill, name, date)
	return nil
}

// place finds the first day on or before date. A day on the same calendar
// day absorbs name; otherwise a new day is inserted in front of it. When
// every day is newer than date, the new day goes at the end.
func (s *Store) place(date time.Time, name string) {
	for i, d := range s.days {
		switch calendar.CompareDays(d.Date, date) {
		case 1:
			continue
		case 0:
			s.days[i].Exercises = append(s.days[i].Exercises, name)
			return
		}
		s.days = slices.Insert(s.days, i, model.NewDay(date, name))
		return
	}
	s.days = append(s.days, model.NewDay(date, name))
}

func checkName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyExercise
	}
	if !utf8.ValidString(name) {
		return ErrInvalidExercise
	}
	return nil
}

func (s *Store) recorded(path, name string, date time.Time) {
	if s.metrics != nil {
		s.metrics.Recorded.WithLabelValues(path).Inc()
	}
	s.log.WithField("exercise", name).
		WithField("day", calendar.DayKey(date)).
		WithField("path", path).
		Info("exercise recorded")
}

// Import merges every exercise of days into the history using the same
// placement rules as RecordOnDate, then saves once. Blank names and names
// that are not valid UTF-8 are skipped. It returns the number of exercises
// merged.
func (s *Store) Import(days []model.ExerciseDay) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	err := s.mutate(func() {
		for _, d := range days {
			for _, e := range d.Exercises {
				if checkName(e) != nil {
					continue
				}
				s.place(d.Date, e)
				n++
			}
		}
	})
	if err != nil {
		return 0, fmt.Errorf("import: %w", err)
	}
	if s.metrics != nil {
		s.metrics.Recorded.WithLabelValues(metrics.PathImport).Add(float64(n))
	}
	s.log.WithField("exercises", n).Info("history imported")
	return n, nil
}

// DeleteDay removes the day with the given ID and saves the history.
func (s *Store) DeleteDay(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := slices.IndexFunc(s.days, func(d model.ExerciseDay) bool { return d.ID == id })
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrDayNotFound, id)
	}
	if err := s.mutate(func() { s.days = slices.Delete(s.days, idx, idx+1) }); err != nil {
		return fmt.Errorf("delete day %s: %w", id, err)
	}
	return nil
}

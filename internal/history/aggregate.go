package history

import (
	"time"

	"github.com/scbrown/hiitfit/internal/calendar"
	"github.com/scbrown/hiitfit/internal/catalog"
	"github.com/scbrown/hiitfit/internal/model"
)

// WeekDays is the length of the window returned by AggregateWeek.
const WeekDays = 7

// ExerciseCount pairs an exercise name with how often it was done.
type ExerciseCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// AggregateDay returns the count of every catalog exercise in day, in
// catalog order. Exercises missing from the day count as zero.
func AggregateDay(day model.ExerciseDay) []ExerciseCount {
	names := catalog.Names()
	counts := make([]ExerciseCount, len(names))
	for i, name := range names {
		counts[i] = ExerciseCount{Name: name, Count: day.CountExercise(name)}
	}
	return counts
}

// AggregateWeek returns one day for each of the seven calendar days ending
// with anchor's day, oldest first. Days missing from the history are filled
// with an empty placeholder that has no ID.
func (s *Store) AggregateWeek(anchor time.Time) []model.ExerciseDay {
	s.mu.Lock()
	defer s.mu.Unlock()

	byDay := make(map[string]model.ExerciseDay, len(s.days))
	for _, d := range s.days {
		key := calendar.DayKey(d.Date)
		if _, ok := byDay[key]; !ok {
			byDay[key] = d
		}
	}

	window := calendar.TrailingWindow(anchor, WeekDays)
	week := make([]model.ExerciseDay, len(window))
	for i, date := range window {
		if d, ok := byDay[calendar.DayKey(date)]; ok {
			week[i] = d.Clone()
			continue
		}
		week[i] = model.ExerciseDay{Date: date, Exercises: []string{}}
	}
	return week
}

// WeekAnchor returns the date of the most recent day in the history, or the
// current time when the history is empty. Weekly reports default to it.
func (s *Store) WeekAnchor() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.days) == 0 {
		return s.now()
	}
	return s.days[0].Date
}

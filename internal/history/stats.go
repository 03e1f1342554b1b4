package history

import (
	"sort"
	"time"

	"github.com/scbrown/hiitfit/internal/calendar"
	"github.com/scbrown/hiitfit/internal/catalog"
	"github.com/scbrown/hiitfit/internal/model"
)

// Stats summarizes the history.
type Stats struct {
	TotalExercises int             `json:"total_exercises"`
	ActiveDays     int             `json:"active_days"`
	Earliest       time.Time       `json:"earliest"`
	Latest         time.Time       `json:"latest"`
	PerExercise    []ExerciseCount `json:"per_exercise"`
	CurrentStreak  int             `json:"current_streak"`
	LongestStreak  int             `json:"longest_streak"`
	Last7d         int             `json:"last_7d"`
	Last30d        int             `json:"last_30d"`
}

// Stats computes summary statistics relative to the store's clock.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return computeStats(s.days, s.now())
}

func computeStats(days []model.ExerciseDay, now time.Time) Stats {
	var st Stats

	perName := map[string]int{}
	active := map[string]bool{}
	for _, d := range days {
		if len(d.Exercises) == 0 {
			continue
		}
		key := calendar.DayKey(d.Date)
		active[key] = true
		st.TotalExercises += len(d.Exercises)
		for _, e := range d.Exercises {
			perName[e]++
		}
		if st.Earliest.IsZero() || d.Date.Before(st.Earliest) {
			st.Earliest = d.Date
		}
		if st.Latest.IsZero() || d.Date.After(st.Latest) {
			st.Latest = d.Date
		}
	}
	st.ActiveDays = len(active)

	// Catalog exercises always appear, in catalog order; anything else
	// recorded as free text follows alphabetically.
	for _, name := range catalog.Names() {
		st.PerExercise = append(st.PerExercise, ExerciseCount{Name: name, Count: perName[name]})
		delete(perName, name)
	}
	var extra []string
	for name := range perName {
		extra = append(extra, name)
	}
	sort.Strings(extra)
	for _, name := range extra {
		st.PerExercise = append(st.PerExercise, ExerciseCount{Name: name, Count: perName[name]})
	}

	st.CurrentStreak = currentStreak(active, now)
	st.LongestStreak = longestStreak(active)
	st.Last7d = countInWindow(days, now, 7)
	st.Last30d = countInWindow(days, now, 30)
	return st
}

// currentStreak counts consecutive active days ending today, or ending
// yesterday when nothing has been done yet today.
func currentStreak(active map[string]bool, now time.Time) int {
	d := calendar.StartOfDay(now)
	if !active[calendar.DayKey(d)] {
		d = d.AddDate(0, 0, -1)
	}
	n := 0
	for active[calendar.DayKey(d)] {
		n++
		d = d.AddDate(0, 0, -1)
	}
	return n
}

func longestStreak(active map[string]bool) int {
	keys := make([]string, 0, len(active))
	for k := range active {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	best, run := 0, 0
	var prev time.Time
	for _, k := range keys {
		day, err := calendar.ParseDay(k)
		if err != nil {
			continue
		}
		if run > 0 && calendar.SameDay(prev.AddDate(0, 0, 1), day) {
			run++
		} else {
			run = 1
		}
		if run > best {
			best = run
		}
		prev = day
	}
	return best
}

func countInWindow(days []model.ExerciseDay, now time.Time, n int) int {
	window := map[string]bool{}
	for _, d := range calendar.TrailingWindow(now, n) {
		window[calendar.DayKey(d)] = true
	}
	total := 0
	for _, d := range days {
		if window[calendar.DayKey(d.Date)] {
			total += len(d.Exercises)
		}
	}
	return total
}

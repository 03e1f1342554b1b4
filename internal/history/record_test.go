package history

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/scbrown/hiitfit/internal/calendar"
	"github.com/scbrown/hiitfit/internal/catalog"
	"github.com/scbrown/hiitfit/internal/model"
	"pgregory.net/rapid"
)

func dayKeys(days []model.ExerciseDay) []string {
	keys := make([]string, len(days))
	for i, d := range days {
		keys[i] = calendar.DayKey(d.Date)
	}
	return keys
}

func TestRecordNowMergesSameDay(t *testing.T) {
	s, c := newTestStore(t, day(2024, 6, 1, 6))

	names := []string{"Squat", "Burpee", "Squat", "Sun Salute"}
	for _, n := range names {
		mustRecordNow(t, s, n)
		c.t = c.t.Add(3 * time.Hour)
	}

	days := s.AllDays()
	if len(days) != 1 {
		t.Fatalf("got %d days, want 1", len(days))
	}
	if diff := cmp.Diff(names, days[0].Exercises); diff != "" {
		t.Errorf("exercises mismatch (-want +got):\n%s", diff)
	}
}

func TestRecordNowNewDayGoesFirst(t *testing.T) {
	s, c := newTestStore(t, day(2024, 6, 1, 20))
	mustRecordNow(t, s, "Squat")
	c.t = day(2024, 6, 2, 7)
	mustRecordNow(t, s, "Burpee")
	c.t = day(2024, 6, 5, 7)
	mustRecordNow(t, s, "Step Up")

	want := []string{"2024-06-05", "2024-06-02", "2024-06-01"}
	if diff := cmp.Diff(want, dayKeys(s.AllDays())); diff != "" {
		t.Errorf("day order mismatch (-want +got):\n%s", diff)
	}
	if got := s.AllDays()[0].Exercises; !cmp.Equal(got, []string{"Step Up"}) {
		t.Errorf("first day exercises = %v", got)
	}
}

func TestRecordNowWithLaterDayInHistory(t *testing.T) {
	s, _ := newTestStore(t, day(2024, 6, 5, 7))
	mustRecordOnDate(t, s, day(2024, 6, 8, 9), "Squat")
	mustRecordOnDate(t, s, day(2024, 6, 1, 9), "Squat")
	mustRecordNow(t, s, "Burpee")

	want := []string{"2024-06-08", "2024-06-05", "2024-06-01"}
	if diff := cmp.Diff(want, dayKeys(s.AllDays())); diff != "" {
		t.Errorf("day order mismatch (-want +got):\n%s", diff)
	}
}

func TestRecordOnDate(t *testing.T) {
	seed := func(t *testing.T) *Store {
		s, _ := newTestStore(t, day(2024, 6, 20, 12))
		mustRecordOnDate(t, s, day(2024, 6, 10, 9), "Squat")
		mustRecordOnDate(t, s, day(2024, 6, 5, 9), "Squat")
		mustRecordOnDate(t, s, day(2024, 6, 1, 9), "Squat")
		return s
	}

	tests := []struct {
		name     string
		date     time.Time
		wantKeys []string
		wantIdx  int
		wantEx   []string
	}{
		{
			name:     "older than every day appends",
			date:     day(2024, 5, 20, 10),
			wantKeys: []string{"2024-06-10", "2024-06-05", "2024-06-01", "2024-05-20"},
			wantIdx:  3,
			wantEx:   []string{"Burpee"},
		},
		{
			name:     "newer than every day inserts first",
			date:     day(2024, 6, 15, 10),
			wantKeys: []string{"2024-06-15", "2024-06-10", "2024-06-05", "2024-06-01"},
			wantIdx:  0,
			wantEx:   []string{"Burpee"},
		},
		{
			name:     "between days inserts in order",
			date:     day(2024, 6, 7, 10),
			wantKeys: []string{"2024-06-10", "2024-06-07", "2024-06-05", "2024-06-01"},
			wantIdx:  1,
			wantEx:   []string{"Burpee"},
		},
		{
			name:     "matching day merges",
			date:     day(2024, 6, 5, 23),
			wantKeys: []string{"2024-06-10", "2024-06-05", "2024-06-01"},
			wantIdx:  1,
			wantEx:   []string{"Squat", "Burpee"},
		},
		{
			name:     "matching last day merges",
			date:     day(2024, 6, 1, 0),
			wantKeys: []string{"2024-06-10", "2024-06-05", "2024-06-01"},
			wantIdx:  2,
			wantEx:   []string{"Squat", "Burpee"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := seed(t)
			mustRecordOnDate(t, s, tt.date, "Burpee")
			days := s.AllDays()
			if diff := cmp.Diff(tt.wantKeys, dayKeys(days)); diff != "" {
				t.Fatalf("day order mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantEx, days[tt.wantIdx].Exercises); diff != "" {
				t.Errorf("exercises mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRecordOnDateEmptyHistory(t *testing.T) {
	s, _ := newTestStore(t, day(2024, 6, 20, 12))
	mustRecordOnDate(t, s, day(2024, 1, 1, 12), "Squat")
	if diff := cmp.Diff([]string{"2024-01-01"}, dayKeys(s.AllDays())); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestRecordKeepsDayID(t *testing.T) {
	s, c := newTestStore(t, day(2024, 6, 1, 6))
	mustRecordNow(t, s, "Squat")
	id := s.AllDays()[0].ID

	c.t = c.t.Add(time.Hour)
	mustRecordNow(t, s, "Burpee")
	mustRecordOnDate(t, s, day(2024, 6, 1, 22), "Step Up")

	got := s.AllDays()[0]
	if got.ID != id {
		t.Errorf("ID changed from %s to %s after merges", id, got.ID)
	}
}

func TestRecordEmptyName(t *testing.T) {
	s, _ := newTestStore(t, day(2024, 6, 1, 6))
	if err := s.RecordNow(""); !errors.Is(err, ErrEmptyExercise) {
		t.Errorf("RecordNow(\"\") err = %v, want ErrEmptyExercise", err)
	}
	if err := s.RecordOnDate(day(2024, 5, 1, 1), "  "); !errors.Is(err, ErrEmptyExercise) {
		t.Errorf("RecordOnDate(blank) err = %v, want ErrEmptyExercise", err)
	}
	if s.Len() != 0 {
		t.Errorf("Len = %d, want 0", s.Len())
	}
}

func TestRecordInvalidUTF8IsNotASaveFailure(t *testing.T) {
	s, _ := newTestStore(t, day(2024, 6, 1, 6))
	bad := "Squat\xff"
	err := s.RecordNow(bad)
	if !errors.Is(err, ErrInvalidExercise) {
		t.Errorf("RecordNow(invalid) err = %v, want ErrInvalidExercise", err)
	}
	if errors.Is(err, ErrSaveFailure) {
		t.Errorf("RecordNow(invalid) reported a save failure: %v", err)
	}
	if err := s.RecordOnDate(day(2024, 5, 1, 1), bad); !errors.Is(err, ErrInvalidExercise) {
		t.Errorf("RecordOnDate(invalid) err = %v, want ErrInvalidExercise", err)
	}
	if s.Len() != 0 {
		t.Errorf("Len = %d, want 0", s.Len())
	}
}

func TestRecordOnDateBeyondYear9999(t *testing.T) {
	s, _ := newTestStore(t, day(2024, 6, 1, 6))
	mustRecordOnDate(t, s, time.Date(9999, 12, 31, 9, 0, 0, 0, time.Local), "Squat")
	mustRecordOnDate(t, s, time.Date(10000, 1, 1, 9, 0, 0, 0, time.Local), "Burpee")
	mustRecordOnDate(t, s, day(2024, 5, 1, 9), "Step Up")

	var years []int
	for _, d := range s.AllDays() {
		years = append(years, d.Date.Year())
	}
	if diff := cmp.Diff([]int{10000, 9999, 2024}, years); diff != "" {
		t.Errorf("day order (-want +got):\n%s", diff)
	}
}

func TestConcurrentRecordNowCreatesOneDay(t *testing.T) {
	s, _ := newTestStore(t, day(2024, 6, 1, 6))

	const workers = 25
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- s.RecordNow("Squat")
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("RecordNow: %v", err)
		}
	}

	days := s.AllDays()
	if len(days) != 1 {
		t.Fatalf("got %d days, want 1", len(days))
	}
	if got := days[0].CountExercise("Squat"); got != workers {
		t.Errorf("Squat count = %d, want %d", got, workers)
	}
}

func TestImport(t *testing.T) {
	s, _ := newTestStore(t, day(2024, 6, 20, 12))
	mustRecordOnDate(t, s, day(2024, 6, 10, 9), "Squat")

	n, err := s.Import([]model.ExerciseDay{
		{Date: day(2024, 6, 10, 18), Exercises: []string{"Burpee", "Burpee"}},
		{Date: day(2024, 6, 12, 8), Exercises: []string{"Sun Salute"}},
		{Date: day(2024, 6, 2, 8), Exercises: []string{"Step Up", ""}},
		{Date: day(2024, 6, 1, 8)},
	})
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if n != 4 {
		t.Errorf("imported %d exercises, want 4", n)
	}

	days := s.AllDays()
	if diff := cmp.Diff([]string{"2024-06-12", "2024-06-10", "2024-06-02"}, dayKeys(days)); diff != "" {
		t.Fatalf("day order mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Squat", "Burpee", "Burpee"}, days[1].Exercises); diff != "" {
		t.Errorf("merged day mismatch (-want +got):\n%s", diff)
	}

	reloaded := Open(s.Path())
	if reloaded.Len() != 3 {
		t.Errorf("reloaded Len = %d, want 3", reloaded.Len())
	}
}

func TestDeleteDay(t *testing.T) {
	s, _ := newTestStore(t, day(2024, 6, 20, 12))
	mustRecordOnDate(t, s, day(2024, 6, 10, 9), "Squat")
	mustRecordOnDate(t, s, day(2024, 6, 5, 9), "Burpee")

	victim := s.AllDays()[0].ID
	if err := s.DeleteDay(victim); err != nil {
		t.Fatalf("DeleteDay: %v", err)
	}
	if _, ok := s.Day(victim); ok {
		t.Error("day still present after delete")
	}
	if diff := cmp.Diff([]string{"2024-06-05"}, dayKeys(Open(s.Path()).AllDays())); diff != "" {
		t.Errorf("persisted days mismatch (-want +got):\n%s", diff)
	}

	if err := s.DeleteDay("missing"); !errors.Is(err, ErrDayNotFound) {
		t.Errorf("DeleteDay(missing) err = %v, want ErrDayNotFound", err)
	}
}

func TestMergeProperty(t *testing.T) {
	dir := t.TempDir()
	run := 0
	rapid.Check(t, func(rt *rapid.T) {
		run++
		start := day(2024, 2, 29, 0)
		c := &clock{t: start}
		s := Open(filepath.Join(dir, fmt.Sprintf("merge-%d.bin", run)), WithClock(c.Now))

		names := rapid.SliceOfN(rapid.SampledFrom(catalog.Names()), 1, 30).Draw(rt, "names")
		for _, n := range names {
			c.t = start.Add(time.Duration(rapid.IntRange(0, 24*60-1).Draw(rt, "minute")) * time.Minute)
			if err := s.RecordNow(n); err != nil {
				rt.Fatalf("RecordNow: %v", err)
			}
		}

		days := s.AllDays()
		if len(days) != 1 {
			rt.Fatalf("got %d days for one calendar day", len(days))
		}
		if !cmp.Equal(names, days[0].Exercises) {
			rt.Fatalf("exercises = %v, want %v", days[0].Exercises, names)
		}
	})
}

func TestOrderingProperty(t *testing.T) {
	dir := t.TempDir()
	run := 0
	rapid.Check(t, func(rt *rapid.T) {
		run++
		c := &clock{t: day(2024, 3, 1, 12)}
		s := Open(filepath.Join(dir, fmt.Sprintf("order-%d.bin", run)), WithClock(c.Now))

		ops := rapid.IntRange(1, 40).Draw(rt, "ops")
		for i := 0; i < ops; i++ {
			name := rapid.SampledFrom(catalog.Names()).Draw(rt, "name")
			var err error
			if rapid.Bool().Draw(rt, "now") {
				c.t = c.t.Add(time.Duration(rapid.IntRange(0, 72).Draw(rt, "advance")) * time.Hour)
				err = s.RecordNow(name)
			} else {
				offset := rapid.IntRange(-45, 45).Draw(rt, "offset")
				hour := rapid.IntRange(0, 23).Draw(rt, "hour")
				err = s.RecordOnDate(time.Date(2024, 3, 1+offset, hour, 30, 0, 0, time.Local), name)
			}
			if err != nil {
				rt.Fatalf("record: %v", err)
			}
		}

		days := s.AllDays()
		total := 0
		for i, d := range days {
			total += len(d.Exercises)
			if i > 0 && calendar.CompareDays(days[i-1].Date, d.Date) <= 0 {
				rt.Fatalf("days not strictly descending: %v", dayKeys(days))
			}
		}
		if total != ops {
			rt.Fatalf("history holds %d exercises, recorded %d", total, ops)
		}
	})
}

package cli

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/scbrown/hiitfit/internal/history"
	"github.com/scbrown/hiitfit/internal/model"
)

func seedWeek(t *testing.T) {
	t.Helper()
	mustHF(t, "add", "2024-06-10", "burpee")
	mustHF(t, "add", "2024-06-12", "squat")
	mustHF(t, "add", "2024-06-12", "squat")
	mustHF(t, "add", "2024-06-12", "burpee")
}

func TestHistoryTable(t *testing.T) {
	resetFlags(t)
	seedWeek(t)
	out := mustHF(t, "history")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got:\n%s", out)
	}
	if !strings.HasPrefix(lines[1], "2024-06-12") || !strings.Contains(lines[1], "Squat, Squat, Burpee") {
		t.Errorf("first row = %q", lines[1])
	}

	historyLimit = 1
	out = mustHF(t, "history")
	if n := len(strings.Split(strings.TrimSpace(out), "\n")); n != 2 {
		t.Errorf("--limit 1 gave %d lines, want 2", n)
	}
}

func TestHistoryEmpty(t *testing.T) {
	resetFlags(t)
	out := mustHF(t, "history")
	if !strings.Contains(out, "No exercises recorded yet.") {
		t.Errorf("output = %q", out)
	}
}

func TestDayJSON(t *testing.T) {
	resetFlags(t)
	seedWeek(t)
	jsonOutput = true
	out := mustHF(t, "day", "2024-06-12")

	var got struct {
		ID     string                  `json:"id"`
		Counts []history.ExerciseCount `json:"counts"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("unmarshal: %v\n%s", err, out)
	}
	want := []history.ExerciseCount{
		{Name: "Squat", Count: 2},
		{Name: "Step Up", Count: 0},
		{Name: "Burpee", Count: 1},
		{Name: "Sun Salute", Count: 0},
	}
	if len(got.Counts) != len(want) {
		t.Fatalf("counts = %+v", got.Counts)
	}
	for i := range want {
		if got.Counts[i] != want[i] {
			t.Errorf("counts[%d] = %+v, want %+v", i, got.Counts[i], want[i])
		}
	}

	// The same day is reachable by ID prefix.
	jsonOutput = false
	out = mustHF(t, "day", got.ID[:8])
	if !strings.Contains(out, "2024-06-12 (Wednesday)") {
		t.Errorf("day by id prefix output:\n%s", out)
	}
}

func TestDayShowsFreeText(t *testing.T) {
	resetFlags(t)
	addFree = true
	mustHF(t, "add", "2024-06-14", "plank")
	out := mustHF(t, "day", "2024-06-14")
	if !strings.Contains(out, "plank") {
		t.Errorf("free-text exercise missing:\n%s", out)
	}
}

func TestDayMissing(t *testing.T) {
	resetFlags(t)
	if _, _, err := hf(t, "day", "2024-01-01"); err == nil {
		t.Fatal("expected error for a day without exercises")
	}
	if _, _, err := hf(t, "day", "deadbeef"); err == nil {
		t.Fatal("expected error for unknown id")
	}
}

func TestWeek(t *testing.T) {
	resetFlags(t)
	seedWeek(t)

	out := mustHF(t, "week")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 8 {
		t.Fatalf("expected header + 7 rows, got:\n%s", out)
	}
	// Defaults to the most recent recorded day.
	if !strings.HasPrefix(lines[7], "2024-06-12") {
		t.Errorf("last row = %q, want 2024-06-12", lines[7])
	}
	if !strings.HasPrefix(lines[1], "2024-06-06") {
		t.Errorf("first row = %q, want 2024-06-06", lines[1])
	}

	weekAnchor = "2024-06-15"
	jsonOutput = true
	out = mustHF(t, "week")
	var week []model.ExerciseDay
	if err := json.Unmarshal([]byte(out), &week); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(week) != 7 {
		t.Fatalf("got %d days", len(week))
	}
	if week[6].ID != "" || len(week[6].Exercises) != 0 {
		t.Errorf("anchor day should be a placeholder, got %+v", week[6])
	}
	if len(week[3].Exercises) != 3 {
		t.Errorf("2024-06-12 exercises = %v", week[3].Exercises)
	}
}

func TestStatsText(t *testing.T) {
	resetFlags(t)
	seedWeek(t)
	out := mustHF(t, "stats")
	for _, want := range []string{
		"Total exercises:    4",
		"Active days:        2",
		"Date range:         2024-06-10 to 2024-06-12",
		"Last workout:       3 days ago",
		"Current streak:     0 days",
		"Longest streak:     1 day",
		"Squat",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestStatsEmpty(t *testing.T) {
	resetFlags(t)
	out := mustHF(t, "stats")
	if !strings.Contains(out, "Total exercises:    0") || strings.Contains(out, "Date range") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestCatalogCmd(t *testing.T) {
	resetFlags(t)
	out := mustHF(t, "catalog")
	for _, name := range []string{"Squat", "Step Up", "Burpee", "Sun Salute"} {
		if !strings.Contains(out, name) {
			t.Errorf("catalog missing %s:\n%s", name, out)
		}
	}
}

func TestDeleteCmd(t *testing.T) {
	resetFlags(t)
	seedWeek(t)
	_, stderr, err := hf(t, "delete", "2024-06-10")
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !strings.Contains(stderr, "Deleted") {
		t.Errorf("stderr = %q", stderr)
	}
	days := loadStore(t).AllDays()
	if len(days) != 1 || days[0].Exercises[0] != "Squat" {
		t.Errorf("days after delete = %+v", days)
	}
	if _, _, err := hf(t, "delete", "2024-06-10"); err == nil {
		t.Error("expected error deleting a missing day")
	}
}

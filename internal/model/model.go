// Package model defines the core hiitfit types: an ExerciseDay groups every
// exercise completed on one calendar day.
package model

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/scbrown/hiitfit/internal/calendar"
)

// ExerciseDay records the exercises completed on a single calendar day.
// Exercises keeps insertion order, so the most recent completion is last,
// and may contain the same name more than once.
type ExerciseDay struct {
	ID        string    `json:"id"`
	Date      time.Time `json:"date"`
	Exercises []string  `json:"exercises"`
}

// NewDay returns an ExerciseDay with a fresh ID.
func NewDay(date time.Time, exercises ...string) ExerciseDay {
	ex := make([]string, len(exercises))
	copy(ex, exercises)
	return ExerciseDay{
		ID:        uuid.NewString(),
		Date:      date,
		Exercises: ex,
	}
}

// UniqueExercises returns the distinct exercise names, sorted alphabetically.
func (d ExerciseDay) UniqueExercises() []string {
	seen := make(map[string]bool, len(d.Exercises))
	var out []string
	for _, e := range d.Exercises {
		if !seen[e] {
			seen[e] = true
			out = append(out, e)
		}
	}
	sort.Strings(out)
	return out
}

// CountExercise returns how many times name was completed on this day.
func (d ExerciseDay) CountExercise(name string) int {
	n := 0
	for _, e := range d.Exercises {
		if e == name {
			n++
		}
	}
	return n
}

// SameID reports whether d and other are the same record.
func (d ExerciseDay) SameID(other ExerciseDay) bool {
	return d.ID != "" && d.ID == other.ID
}

// SameDay reports whether d and other cover the same calendar day. The IDs
// are not consulted.
func (d ExerciseDay) SameDay(other ExerciseDay) bool {
	return calendar.SameDay(d.Date, other.Date)
}

// Clone returns a deep copy of d.
func (d ExerciseDay) Clone() ExerciseDay {
	c := d
	if d.Exercises != nil {
		c.Exercises = make([]string, len(d.Exercises))
		copy(c.Exercises, d.Exercises)
	}
	return c
}

// CloneDays deep-copies a slice of days.
func CloneDays(days []ExerciseDay) []ExerciseDay {
	if days == nil {
		return nil
	}
	out := make([]ExerciseDay, len(days))
	for i, d := range days {
		out[i] = d.Clone()
	}
	return out
}

// Package devdata generates sample exercise histories for development and
// demos. Output is fully determined by the seed and the anchor time.
package devdata

import (
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/scbrown/hiitfit/internal/calendar"
	"github.com/scbrown/hiitfit/internal/catalog"
	"github.com/scbrown/hiitfit/internal/model"
)

// DefaultDays is the span covered by Generate when days <= 0.
const DefaultDays = 720

// RestChance is the probability, in percent, that a given day has no workout.
const RestChance = 30

// Generate returns a newest-first history spanning days calendar days
// ending on now. Rest days are skipped, so the result has no more than
// days entries and never two on the same calendar day.
func Generate(seed int64, days int, now time.Time) []model.ExerciseDay {
	if days <= 0 {
		days = DefaultDays
	}
	f := gofakeit.New(seed)
	names := catalog.Names()

	var out []model.ExerciseDay
	for i := 0; i < days; i++ {
		if f.IntRange(1, 100) <= RestChance {
			continue
		}
		start := calendar.StartOfDay(now.AddDate(0, 0, -i))
		date := start.Add(time.Duration(f.IntRange(6, 21))*time.Hour + time.Duration(f.IntRange(0, 59))*time.Minute)
		if date.After(now) {
			date = now
		}
		n := f.IntRange(1, 2*len(names))
		exercises := make([]string, n)
		for j := range exercises {
			exercises[j] = f.RandomString(names)
		}
		out = append(out, model.ExerciseDay{
			ID:        f.UUID(),
			Date:      date,
			Exercises: exercises,
		})
	}
	return out
}

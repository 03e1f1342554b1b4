package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/scbrown/hiitfit/internal/calendar"
	"github.com/scbrown/hiitfit/internal/catalog"
	"github.com/scbrown/hiitfit/internal/history"
	"github.com/scbrown/hiitfit/internal/model"
	"github.com/scbrown/hiitfit/internal/record"
)

var dayCmd = &cobra.Command{
	Use:   "day [date|id]",
	Short: "Show how many of each exercise were done on one day",
	Long: `Show the per-exercise counts for a single day. The day is picked by
date (YYYY-MM-DD), by ID or unique ID prefix as shown by hf history, or is
today when no argument is given.

Every catalog exercise is listed, with zero for those not done. Exercises
recorded with --free are listed after the catalog ones.`,
	Example: `  hf day
  hf day 2024-06-01
  hf day 3f2a9c1e`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s := openStore()
		ref := calendar.DayKey(now())
		if len(args) == 1 {
			ref = args[0]
		}
		day, err := findDay(s, ref)
		if err != nil {
			return err
		}

		counts := history.AggregateDay(day)
		if jsonOutput {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(struct {
				ID     string                  `json:"id"`
				Date   time.Time               `json:"date"`
				Counts []history.ExerciseCount `json:"counts"`
			}{day.ID, day.Date, counts})
		}

		fmt.Printf("%s (%s)\n\n", calendar.DayKey(day.Date), calendar.DayName(day.Date))
		tbl := NewTable(os.Stdout, "EXERCISE", "COUNT")
		for _, c := range counts {
			tbl.Row(c.Name, strconv.Itoa(c.Count))
		}
		for _, name := range day.UniqueExercises() {
			if _, ok := catalog.Lookup(name); ok {
				continue
			}
			tbl.Row(name, strconv.Itoa(day.CountExercise(name)))
		}
		return tbl.Flush()
	},
}

func init() {
	rootCmd.AddCommand(dayCmd)
}

// findDay locates a day by date or by ID prefix.
func findDay(s *history.Store, ref string) (model.ExerciseDay, error) {
	if date, err := record.ParseDate(ref); err == nil {
		if d, ok := dayOn(s, date); ok {
			return d, nil
		}
		return model.ExerciseDay{}, fmt.Errorf("no exercises recorded on %s", calendar.DayKey(date))
	}
	if d, ok := s.Day(ref); ok {
		return d, nil
	}
	var match []model.ExerciseDay
	for _, d := range s.AllDays() {
		if strings.HasPrefix(d.ID, ref) {
			match = append(match, d)
		}
	}
	switch len(match) {
	case 1:
		return match[0], nil
	case 0:
		return model.ExerciseDay{}, fmt.Errorf("%w: %q", history.ErrDayNotFound, ref)
	default:
		return model.ExerciseDay{}, fmt.Errorf("day ID prefix %q is ambiguous (%d matches)", ref, len(match))
	}
}

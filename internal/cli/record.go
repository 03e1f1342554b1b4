package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/scbrown/hiitfit/internal/calendar"
	"github.com/scbrown/hiitfit/internal/catalog"
	"github.com/scbrown/hiitfit/internal/history"
	"github.com/scbrown/hiitfit/internal/record"
)

var (
	recordFree  bool
	recordStdin bool
)

var recordCmd = &cobra.Command{
	Use:   "record <exercise>",
	Short: "Record an exercise completed just now",
	Long: `Record adds an exercise to today's entry in the history, creating the
entry if this is the first exercise today.

The exercise must be one of the catalog exercises (see hf catalog) unless
--free is given. Names are matched case-insensitively, and "step-up",
"step_up" and "step up" are all the same exercise.

With --stdin, a JSON object {"exercise": "...", "date": "..."} is read from
stdin instead; a date records the exercise on that day.

If the history cannot be saved the exercise is not kept and hf exits with a
non-zero status.`,
	Example: `  hf record squat
  hf record sun salute
  hf record --free plank
  echo '{"exercise":"burpee","date":"2024-06-01"}' | hf record --stdin`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s := openStore()

		if recordStdin {
			if len(args) > 0 {
				return fmt.Errorf("--stdin does not take an exercise argument")
			}
			e, err := record.Record(s, os.Stdin)
			if err != nil {
				return err
			}
			date := now()
			if e.Date != nil {
				date = *e.Date
			}
			return reportRecorded(s, e.Exercise, date)
		}

		if len(args) == 0 {
			return fmt.Errorf("exercise name is required (see hf catalog)")
		}
		name, err := exerciseName(strings.Join(args, " "), recordFree)
		if err != nil {
			return err
		}
		if err := s.RecordNow(name); err != nil {
			return fmt.Errorf("exercise not recorded: %w", err)
		}
		return reportRecorded(s, name, now())
	},
}

var addFree bool

var addCmd = &cobra.Command{
	Use:   "add <date> <exercise>",
	Short: "Record an exercise on a past day",
	Long: `Add back-fills an exercise on the given day (YYYY-MM-DD or RFC3339).

The exercise joins that day's entry if one exists; otherwise a new entry is
inserted at its place in the history. Days in the future are rejected.`,
	Example: `  hf add 2024-06-01 squat
  hf add 2024-06-01T07:30:00+02:00 "step up"`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := record.ParseDate(args[0])
		if err != nil {
			return err
		}
		if calendar.CompareDays(date, now()) > 0 {
			return fmt.Errorf("cannot add exercises on %s: date is in the future", calendar.DayKey(date))
		}
		name, err := exerciseName(strings.Join(args[1:], " "), addFree)
		if err != nil {
			return err
		}

		s := openStore()
		if err := s.RecordOnDate(date, name); err != nil {
			if errors.Is(err, history.ErrSaveFailure) {
				fmt.Fprintf(os.Stderr, "warning: %s on %s was not saved\n", name, calendar.DayKey(date))
			}
			return err
		}
		return reportRecorded(s, name, date)
	},
}

func init() {
	recordCmd.Flags().BoolVar(&recordFree, "free", false, "accept exercise names outside the catalog")
	recordCmd.Flags().BoolVar(&recordStdin, "stdin", false, "read a JSON entry from stdin")
	addCmd.Flags().BoolVar(&addFree, "free", false, "accept exercise names outside the catalog")
	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(addCmd)
}

// exerciseName resolves name against the catalog. With free set, names
// outside the catalog are kept as typed.
func exerciseName(name string, free bool) (string, error) {
	name = strings.TrimSpace(name)
	if free {
		if e, ok := catalog.Lookup(name); ok {
			return e.Name, nil
		}
		if name == "" {
			return "", history.ErrEmptyExercise
		}
		return name, nil
	}
	return catalog.Resolve(name)
}

func reportRecorded(s *history.Store, name string, date time.Time) error {
	day, _ := dayOn(s, date)
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(day)
	}
	fmt.Fprintf(os.Stderr, "Recorded %s on %s (%d exercises that day)\n", name, calendar.DayKey(date), len(day.Exercises))
	return nil
}

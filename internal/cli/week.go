package cli

import (
	"encoding/json"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/scbrown/hiitfit/internal/calendar"
	"github.com/scbrown/hiitfit/internal/catalog"
	"github.com/scbrown/hiitfit/internal/record"
)

var weekAnchor string

var weekCmd = &cobra.Command{
	Use:   "week",
	Short: "Show the seven days ending on a given day",
	Long: `Show one row for each of seven consecutive days, oldest first, with
per-exercise counts. Days without exercises are shown with zero counts.

The window ends on --anchor, or by default on the most recent day in the
history (today when the history is empty).`,
	Example: `  hf week
  hf week --anchor 2024-06-30
  hf week --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s := openStore()
		anchor := s.WeekAnchor()
		if weekAnchor != "" {
			t, err := record.ParseDate(weekAnchor)
			if err != nil {
				return err
			}
			anchor = t
		}
		week := s.AggregateWeek(anchor)

		if jsonOutput {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(week)
		}

		names := catalog.Names()
		headers := []string{"DATE", "DAY"}
		for _, name := range names {
			headers = append(headers, strings.ToUpper(name))
		}
		headers = append(headers, "TOTAL")
		tbl := NewTable(os.Stdout, headers...)
		for _, d := range week {
			row := []string{calendar.DayKey(d.Date), calendar.DayName(d.Date)[:3]}
			for _, name := range names {
				row = append(row, strconv.Itoa(d.CountExercise(name)))
			}
			row = append(row, strconv.Itoa(len(d.Exercises)))
			tbl.Row(row...)
		}
		return tbl.Flush()
	},
}

func init() {
	weekCmd.Flags().StringVar(&weekAnchor, "anchor", "", "last day of the window (YYYY-MM-DD)")
	rootCmd.AddCommand(weekCmd)
}

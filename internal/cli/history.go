package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/scbrown/hiitfit/internal/calendar"
	"github.com/scbrown/hiitfit/internal/model"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded exercise days, newest first",
	Long: `List every day in the history with the exercises done that day,
most recent first.`,
	Example: `  hf history
  hf history --limit 7
  hf history --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		days := openStore().AllDays()
		if historyLimit > 0 && historyLimit < len(days) {
			days = days[:historyLimit]
		}
		if jsonOutput {
			if days == nil {
				days = []model.ExerciseDay{}
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(days)
		}
		if len(days) == 0 {
			fmt.Println("No exercises recorded yet.")
			return nil
		}

		tbl := NewTable(os.Stdout, "DATE", "DAY", "ID", "COUNT", "EXERCISES")
		// Everything but the exercises column takes roughly 40 columns.
		maxEx := tbl.Width() - 40
		if maxEx < 20 {
			maxEx = 20
		}
		for _, d := range days {
			tbl.Row(
				calendar.DayKey(d.Date),
				calendar.DayName(d.Date),
				shortID(d.ID),
				strconv.Itoa(len(d.Exercises)),
				truncate(strings.Join(d.Exercises, ", "), maxEx),
			)
		}
		return tbl.Flush()
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 0, "show at most this many days (0 = all)")
	rootCmd.AddCommand(historyCmd)
}

// shortID returns the first 8 characters of a day ID.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

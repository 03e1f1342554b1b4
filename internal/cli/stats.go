package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/scbrown/hiitfit/internal/history"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show summary statistics about the exercise history",
	Long: `Display a summary of the history: total exercises, active days, the
date range, streaks of consecutive active days, recent activity and a
per-exercise breakdown.`,
	Example: `  hf stats
  hf stats --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		st := openStore().Stats()
		if jsonOutput {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(st)
		}
		printStatsText(st)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func printStatsText(st history.Stats) {
	color := isTTY(os.Stdout)

	fmt.Printf("Total exercises:    %d\n", st.TotalExercises)
	fmt.Printf("Active days:        %d\n", st.ActiveDays)

	if st.TotalExercises == 0 {
		return
	}

	fmt.Println()
	fmt.Printf("Date range:         %s to %s\n",
		st.Earliest.Format("2006-01-02"), st.Latest.Format("2006-01-02"))
	fmt.Printf("Last workout:       %s\n", humanize.RelTime(st.Latest, now(), "ago", "from now"))

	fmt.Println()
	fmt.Printf("Current streak:     %s\n", plural(st.CurrentStreak, "day"))
	fmt.Printf("Longest streak:     %s\n", plural(st.LongestStreak, "day"))

	fmt.Println()
	fmt.Printf("Last 7d:            %d\n", st.Last7d)
	fmt.Printf("Last 30d:           %d\n", st.Last30d)

	fmt.Println()
	fmt.Println(bold("Per exercise:", color))
	for _, c := range st.PerExercise {
		fmt.Printf("  %-20s %s\n", c.Name, humanize.Comma(int64(c.Count)))
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

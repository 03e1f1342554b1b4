package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/scbrown/hiitfit/internal/calendar"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <id|date>",
	Short: "Remove a day from the history",
	Long: `Delete removes a whole day, with all of its exercises, from the
history. The day is picked by ID, unique ID prefix or date.`,
	Example: `  hf delete 3f2a9c1e
  hf delete 2024-06-01`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s := openStore()
		day, err := findDay(s, args[0])
		if err != nil {
			return err
		}
		if err := s.DeleteDay(day.ID); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Deleted %s (%s, %d exercises)\n", shortID(day.ID), calendar.DayKey(day.Date), len(day.Exercises))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}

package cli

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/scbrown/hiitfit/internal/archive"
	"github.com/scbrown/hiitfit/internal/calendar"
	"github.com/scbrown/hiitfit/internal/model"
	"github.com/scbrown/hiitfit/internal/record"
)

var (
	exportFormat string
	exportSince  string
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the exercise history",
	Long: `Export dumps the history, newest day first, in one of three formats:

  json    one JSON object per day per line (JSONL), to stdout
  csv     one row per day with exercises separated by ";", to stdout
  sqlite  a SQLite database with days and exercises tables, written to --output

The SQLite archive can be read back with hf import.`,
	Example: `  hf export
  hf export --format csv > history.csv
  hf export --since 2024-01-01 | jq '.exercises | length'
  hf export --format sqlite --output ~/hiitfit.db`,
	RunE: func(cmd *cobra.Command, args []string) error {
		days := openStore().AllDays()
		if exportSince != "" {
			t, err := record.ParseDate(exportSince)
			if err != nil {
				return fmt.Errorf("invalid --since value %q: %w", exportSince, err)
			}
			days = since(days, t)
		}

		format := exportFormat
		if jsonOutput {
			format = "json"
		}
		switch format {
		case "json":
			return writeJSON(days)
		case "csv":
			return writeCSV(days)
		case "sqlite":
			if exportOutput == "" {
				return fmt.Errorf("--output is required for sqlite export")
			}
			return writeSQLite(cmd.Context(), exportOutput, days)
		default:
			return fmt.Errorf("unsupported format %q (use json, csv or sqlite)", format)
		}
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "json", "output format: json, csv or sqlite")
	exportCmd.Flags().StringVar(&exportSince, "since", "", "only export days on or after this date (RFC3339 or YYYY-MM-DD)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "database path for sqlite export")
	rootCmd.AddCommand(exportCmd)
}

// since keeps the days on or after t's calendar day.
func since(days []model.ExerciseDay, t time.Time) []model.ExerciseDay {
	var out []model.ExerciseDay
	for _, d := range days {
		if calendar.CompareDays(d.Date, t) >= 0 {
			out = append(out, d)
		}
	}
	return out
}

// writeJSON writes days as one JSON object per line (JSONL).
func writeJSON(days []model.ExerciseDay) error {
	enc := json.NewEncoder(os.Stdout)
	for _, d := range days {
		if err := enc.Encode(d); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
	}
	return nil
}

// writeCSV writes days as CSV with a header row.
func writeCSV(days []model.ExerciseDay) error {
	w := csv.NewWriter(os.Stdout)
	if err := w.Write([]string{"id", "date", "day", "count", "exercises"}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, d := range days {
		row := []string{
			d.ID,
			d.Date.Format(time.RFC3339),
			calendar.DayKey(d.Date),
			strconv.Itoa(len(d.Exercises)),
			strings.Join(d.Exercises, ";"),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}

func writeSQLite(ctx context.Context, path string, days []model.ExerciseDay) error {
	a, err := archive.New(path)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer a.Close()
	if err := a.WriteHistory(ctx, days); err != nil {
		return fmt.Errorf("write archive: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Exported %d days to %s\n", len(days), path)
	return nil
}
